package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Carbon project statuses. Verified and Audit_Failed are terminal.
const (
	CarbonStatusPotential       = "Potential"
	CarbonStatusEnrolled        = "Enrolled"
	CarbonStatusEvidencePending = "Evidence_Pending"
	CarbonStatusVerified        = "Verified"
	CarbonStatusAuditFailed     = "Audit_Failed"
)

// CarbonProject is the ledger entry for one enrolled plot (1:1 via the
// unique index on plot_id). Credit quantities hold the invariant
// available + locked == verified whenever status is Verified.
type CarbonProject struct {
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	PlotID    uuid.UUID `gorm:"column:plot_id;type:uuid;not null;uniqueIndex" json:"plot_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`

	Methodology string `gorm:"column:methodology;type:varchar(32);not null" json:"methodology"`
	Status      string `gorm:"column:status;type:varchar(32);not null;default:Enrolled" json:"status"`

	StartDate      time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	VestingEndDate *time.Time `gorm:"column:vesting_end_date" json:"vesting_end_date"`

	BaselineEmission       float64 `gorm:"column:baseline_emission;not null;default:0" json:"baseline_emission"`
	ProjectedSequestration float64 `gorm:"column:projected_sequestration;not null;default:0" json:"projected_sequestration"`
	VerifiedCredits        float64 `gorm:"column:verified_credits;not null;default:0" json:"verified_credits"`
	AvailableCredits       float64 `gorm:"column:available_credits;not null;default:0" json:"available_credits"`
	LockedCredits          float64 `gorm:"column:locked_credits;not null;default:0" json:"locked_credits"`

	BufferPoolPercentage float64 `gorm:"column:buffer_pool_percentage;not null;default:15" json:"buffer_pool_percentage"`
	VerificationCostUSD  float64 `gorm:"column:verification_cost_usd;not null;default:0" json:"verification_cost_usd"`
	AdditionalityScore   float64 `gorm:"column:additionality_score;not null;default:0" json:"additionality_score"`
	RequiresSoilSample   bool    `gorm:"column:requires_soil_sample;not null;default:true" json:"requires_soil_sample"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CarbonProject) TableName() string {
	return "CarbonProjects"
}

func (p *CarbonProject) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectID == uuid.Nil {
		p.ProjectID = uuid.New()
	}
	return nil
}

// CarbonEvidence is one geotagged evidence record. Immutable once created.
type CarbonEvidence struct {
	EvidenceID  uuid.UUID `gorm:"column:evidence_id;type:uuid;primaryKey" json:"evidence_id"`
	ProjectID   uuid.UUID `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	Description string    `gorm:"column:description;not null" json:"description"`
	GeoLat      float64   `gorm:"column:geo_lat;not null" json:"geo_lat"`
	GeoLng      float64   `gorm:"column:geo_lng;not null" json:"geo_lng"`
	ImageURL    *string   `gorm:"column:image_url" json:"image_url"`
	// Reserved for per-item evidence audit; current verification ignores it.
	Verified  bool      `gorm:"column:verified;not null;default:false" json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CarbonEvidence) TableName() string {
	return "CarbonEvidence"
}

func (e *CarbonEvidence) BeforeCreate(tx *gorm.DB) error {
	if e.EvidenceID == uuid.Nil {
		e.EvidenceID = uuid.New()
	}
	return nil
}
