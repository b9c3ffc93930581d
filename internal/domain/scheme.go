package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scheme is a government scheme listing shown to farmers.
type Scheme struct {
	SchemeID    uuid.UUID `gorm:"column:scheme_id;type:uuid;primaryKey" json:"scheme_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
	Tag         string    `gorm:"column:tag;type:varchar(16);not null" json:"tag"` // NEW | EXPIRING | URGENT
	Deadline    *string   `gorm:"column:deadline" json:"deadline"`
	Link        *string   `gorm:"column:link" json:"link"`
	Benefits    *string   `gorm:"column:benefits" json:"benefits"`
	Eligibility *string   `gorm:"column:eligibility" json:"eligibility"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Scheme) TableName() string {
	return "Schemes"
}

func (s *Scheme) BeforeCreate(tx *gorm.DB) error {
	if s.SchemeID == uuid.Nil {
		s.SchemeID = uuid.New()
	}
	return nil
}

// SchemeApplication records a farmer applying to a scheme.
type SchemeApplication struct {
	ApplicationID uuid.UUID `gorm:"column:application_id;type:uuid;primaryKey" json:"application_id"`
	SchemeID      uuid.UUID `gorm:"column:scheme_id;type:uuid;not null;index" json:"scheme_id"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	SchemeName    string    `gorm:"column:scheme_name;not null" json:"scheme_name"`
	Status        string    `gorm:"column:status;type:varchar(16);not null;default:Submitted" json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (SchemeApplication) TableName() string {
	return "SchemeApplications"
}

func (a *SchemeApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ApplicationID == uuid.Nil {
		a.ApplicationID = uuid.New()
	}
	return nil
}
