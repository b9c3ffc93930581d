package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing is a produce marketplace entry (contact-based, no payments).
type Listing struct {
	ListingID   uuid.UUID      `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	SellerID    uuid.UUID      `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	CropName    string         `gorm:"column:crop_name;not null;index" json:"crop_name"`
	Quantity    string         `gorm:"column:quantity;not null" json:"quantity"`
	Price       string         `gorm:"column:price;not null" json:"price"`
	Location    string         `gorm:"column:location" json:"location"`
	Description string         `gorm:"column:description" json:"description"`
	IsOrganic   bool           `gorm:"column:is_organic;not null;default:false" json:"is_organic"`
	Grade       string         `gorm:"column:grade;not null;default:A" json:"grade"`
	ImageURL    *string        `gorm:"column:image_url" json:"image_url"`
	Verified    bool           `gorm:"column:verified;not null;default:true" json:"verified"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "Listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}
