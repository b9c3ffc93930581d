package market

import (
	"context"
	"errors"

	"krishi-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates produce marketplace operations.
type Service struct {
	DB *gorm.DB
}

// CreateListingInput for a new produce listing.
type CreateListingInput struct {
	CropName    string  `json:"crop_name"`
	Quantity    string  `json:"quantity"`
	Price       string  `json:"price"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	IsOrganic   bool    `json:"is_organic"`
	Grade       string  `json:"grade"`
	ImageURL    *string `json:"image_url"`
}

var ErrMissingListingFields = errors.New("crop_name, quantity and price are required")

// CreateListing creates a produce listing for the seller.
func (s *Service) CreateListing(ctx context.Context, sellerID uuid.UUID, in CreateListingInput) (*domain.Listing, error) {
	if in.CropName == "" || in.Quantity == "" || in.Price == "" {
		return nil, ErrMissingListingFields
	}
	grade := in.Grade
	if grade == "" {
		grade = "A"
	}
	listing := &domain.Listing{
		SellerID:    sellerID,
		CropName:    in.CropName,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Location:    in.Location,
		Description: in.Description,
		IsOrganic:   in.IsOrganic,
		Grade:       grade,
		ImageURL:    in.ImageURL,
		Verified:    true,
	}
	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// GetAllListings returns every listing, newest first, optionally filtered by crop name.
func (s *Service) GetAllListings(ctx context.Context, cropName string) ([]domain.Listing, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if cropName != "" {
		q = q.Where("crop_name = ?", cropName)
	}
	var listings []domain.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// GetMyListings returns the seller's own listings, newest first.
func (s *Service) GetMyListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}
