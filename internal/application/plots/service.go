package plots

import (
	"context"
	"encoding/json"
	"errors"

	"krishi-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service encapsulates plot registry operations.
type Service struct {
	DB *gorm.DB
}

// Coordinate is one vertex of a plot boundary.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CreatePlotInput for plot registration.
type CreatePlotInput struct {
	Name        string       `json:"name"`
	Coordinates []Coordinate `json:"coordinates"`
	Area        float64      `json:"area"`
	CropType    *string      `json:"crop_type"`
}

var (
	ErrNameAreaRequired = errors.New("Name and a positive area are required")
	ErrPlotNotFound     = errors.New("Plot not found")
)

// CreatePlot registers a plot for the user.
func (s *Service) CreatePlot(ctx context.Context, userID uuid.UUID, in CreatePlotInput) (*domain.Plot, error) {
	if in.Name == "" || in.Area <= 0 {
		return nil, ErrNameAreaRequired
	}
	coords, err := json.Marshal(in.Coordinates)
	if err != nil {
		return nil, err
	}
	plot := &domain.Plot{
		UserID:      userID,
		Name:        in.Name,
		Coordinates: datatypes.JSON(coords),
		Area:        in.Area,
		CropType:    in.CropType,
	}
	if err := s.DB.WithContext(ctx).Create(plot).Error; err != nil {
		return nil, err
	}
	return plot, nil
}

// ListMyPlots returns the user's plots, newest first.
func (s *Service) ListMyPlots(ctx context.Context, userID uuid.UUID) ([]domain.Plot, error) {
	var plots []domain.Plot
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&plots).Error; err != nil {
		return nil, err
	}
	return plots, nil
}

// GetPlot returns a single plot owned by the user.
func (s *Service) GetPlot(ctx context.Context, userID, plotID uuid.UUID) (*domain.Plot, error) {
	var plot domain.Plot
	if err := s.DB.WithContext(ctx).Where("plot_id = ? AND user_id = ?", plotID, userID).First(&plot).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPlotNotFound
		}
		return nil, err
	}
	return &plot, nil
}
