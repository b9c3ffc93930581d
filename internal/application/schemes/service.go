package schemes

import (
	"context"
	"errors"

	"krishi-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates government scheme operations.
type Service struct {
	DB *gorm.DB
}

// CreateSchemeInput for publishing a scheme.
type CreateSchemeInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Tag         string  `json:"tag"`
	Deadline    *string `json:"deadline"`
	Link        *string `json:"link"`
	Benefits    *string `json:"benefits"`
	Eligibility *string `json:"eligibility"`
}

var (
	ErrMissingSchemeFields = errors.New("title, description and tag are required")
	ErrSchemeNotFound      = errors.New("Scheme not found")
	ErrAlreadyApplied      = errors.New("Already applied to this scheme")
)

// ListSchemes returns all schemes, newest first.
func (s *Service) ListSchemes(ctx context.Context) ([]domain.Scheme, error) {
	var schemes []domain.Scheme
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&schemes).Error; err != nil {
		return nil, err
	}
	return schemes, nil
}

// CreateScheme publishes a scheme listing.
func (s *Service) CreateScheme(ctx context.Context, in CreateSchemeInput) (*domain.Scheme, error) {
	if in.Title == "" || in.Description == "" || in.Tag == "" {
		return nil, ErrMissingSchemeFields
	}
	scheme := &domain.Scheme{
		Title:       in.Title,
		Description: in.Description,
		Tag:         in.Tag,
		Deadline:    in.Deadline,
		Link:        in.Link,
		Benefits:    in.Benefits,
		Eligibility: in.Eligibility,
	}
	if err := s.DB.WithContext(ctx).Create(scheme).Error; err != nil {
		return nil, err
	}
	return scheme, nil
}

// Apply records the user's application to a scheme (one per scheme).
func (s *Service) Apply(ctx context.Context, userID, schemeID uuid.UUID) (*domain.SchemeApplication, error) {
	var app *domain.SchemeApplication

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var scheme domain.Scheme
		if err := tx.Where("scheme_id = ?", schemeID).First(&scheme).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSchemeNotFound
			}
			return err
		}

		var existing domain.SchemeApplication
		if err := tx.Where("scheme_id = ? AND user_id = ?", schemeID, userID).First(&existing).Error; err == nil {
			return ErrAlreadyApplied
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		app = &domain.SchemeApplication{
			SchemeID:   scheme.SchemeID,
			UserID:     userID,
			SchemeName: scheme.Title,
		}
		return tx.Create(app).Error
	})

	return app, err
}
