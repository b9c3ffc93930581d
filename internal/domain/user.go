package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a farmer account keyed by phone number (OTP login, no password).
type User struct {
	UserID      uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Phone       string         `gorm:"column:phone;not null;uniqueIndex" json:"phone"`
	Name        *string        `gorm:"column:name" json:"name"`
	District    *string        `gorm:"column:district" json:"district"`
	LandSize    float64        `gorm:"column:land_size;not null;default:0" json:"land_size"`
	Category    string         `gorm:"column:category;not null;default:General" json:"category"`
	FarmingType string         `gorm:"column:farming_type;not null;default:Mixed" json:"farming_type"`
	Language    string         `gorm:"column:language;not null;default:en" json:"language"`
	TrustScore  int            `gorm:"column:trust_score;not null;default:500" json:"trust_score"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
