package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plot is a registered land parcel. The carbon engine reads area and
// ownership from here and mirrors available credits back on verification.
type Plot struct {
	PlotID       uuid.UUID      `gorm:"column:plot_id;type:uuid;primaryKey" json:"plot_id"`
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Coordinates  datatypes.JSON `gorm:"column:coordinates;type:jsonb" json:"coordinates"`
	Area         float64        `gorm:"column:area;not null" json:"area"`
	CropType     *string        `gorm:"column:crop_type" json:"crop_type"`
	HealthScore  float64        `gorm:"column:health_score;not null;default:0" json:"health_score"`
	Moisture     float64        `gorm:"column:moisture;not null;default:0" json:"moisture"`
	ImageURL     *string        `gorm:"column:image_url" json:"image_url"`
	LastScanDate *time.Time     `gorm:"column:last_scan_date" json:"last_scan_date"`

	// Legacy mirror fields written by the carbon engine on verification.
	CarbonCredits float64 `gorm:"column:carbon_credits;not null;default:0" json:"carbon_credits"`
	OrganicScore  float64 `gorm:"column:organic_score;not null;default:0" json:"organic_score"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Plot) TableName() string {
	return "Plots"
}

func (p *Plot) BeforeCreate(tx *gorm.DB) error {
	if p.PlotID == uuid.Nil {
		p.PlotID = uuid.New()
	}
	return nil
}
