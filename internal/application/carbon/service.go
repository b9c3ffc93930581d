package carbon

import (
	"context"
	"fmt"
	"time"

	"krishi-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	defaultBufferPoolPercentage = 15.0
	defaultVerificationCostUSD  = 3000.0
	vestingYears                = 5
	minSoilSampleEvidence       = 2
	additionalityThreshold      = 0.5

	evidencePlaceholderImage = "https://via.placeholder.com/300?text=Farm+Evidence"
)

// Service runs the carbon-credit lifecycle: enrollment, evidence intake,
// verification and the read projection. The estimators are injectable so
// tests can pin outcomes.
type Service struct {
	DB       *gorm.DB
	Adoption AdoptionEstimator
	Audit    AuditModel
}

// ProjectView is the per-project read projection returned to the owner.
type ProjectView struct {
	ProjectID            uuid.UUID  `json:"project_id"`
	PlotID               uuid.UUID  `json:"plot_id"`
	PlotName             string     `json:"plot_name"`
	Methodology          string     `json:"methodology"`
	Status               string     `json:"status"`
	ProjectedCredits     float64    `json:"projected_credits"`
	VerifiedCredits      float64    `json:"verified_credits"`
	AvailableCredits     float64    `json:"available_credits"`
	LockedCredits        float64    `json:"locked_credits"`
	StartDate            time.Time  `json:"start_date"`
	VestingEndDate       *time.Time `json:"vesting_end_date"`
	VerificationCostUSD  float64    `json:"verification_cost_usd"`
	BufferPoolPercentage float64    `json:"buffer_pool_percentage"`
	AdditionalityScore   float64    `json:"additionality_score"`
	RequiresSoilSample   bool       `json:"requires_soil_sample"`
	EvidenceCount        int64      `json:"evidence_count"`
}

// VerificationResult is the outcome payload of a verification attempt.
// A rejection is a normal result (status Audit_Failed), not an error.
type VerificationResult struct {
	Status              string     `json:"status"`
	TotalCreditsIssued  float64    `json:"total_credits_issued"`
	BufferPoolLocked    float64    `json:"buffer_pool_locked"`
	AvailableForSale    float64    `json:"available_for_sale"`
	VestingEndDate      *time.Time `json:"vesting_end_date"`
	VerificationCostUSD float64    `json:"verification_cost_usd"`
	Message             string     `json:"message"`
}

// ListMyProjects returns every carbon project owned by the user with the
// plot name and evidence count joined in.
func (s *Service) ListMyProjects(ctx context.Context, userID uuid.UUID) ([]ProjectView, error) {
	var projects []domain.CarbonProject
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&projects).Error; err != nil {
		return nil, err
	}

	out := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		var plot domain.Plot
		if err := s.DB.WithContext(ctx).Where("plot_id = ?", p.PlotID).First(&plot).Error; err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		var count int64
		if err := s.DB.WithContext(ctx).Model(&domain.CarbonEvidence{}).Where("project_id = ?", p.ProjectID).Count(&count).Error; err != nil {
			return nil, err
		}
		out = append(out, projectView(&p, plot.Name, count))
	}
	return out, nil
}

// EnrollPlot creates the ledger entry for a plot. The plot must exist,
// belong to the user and not be enrolled already.
func (s *Service) EnrollPlot(ctx context.Context, userID, plotID uuid.UUID, methodology string) (*ProjectView, error) {
	var view *ProjectView

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plot domain.Plot
		if err := tx.Where("plot_id = ? AND user_id = ?", plotID, userID).First(&plot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPlotNotFound
			}
			return err
		}

		var existing domain.CarbonProject
		if err := tx.Where("plot_id = ?", plotID).First(&existing).Error; err == nil {
			return ErrAlreadyEnrolled
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		now := time.Now().UTC()
		vesting := now.AddDate(0, 0, vestingYears*365)

		district := ""
		var owner domain.User
		if err := tx.Where("user_id = ?", userID).First(&owner).Error; err == nil && owner.District != nil {
			district = *owner.District
		}

		initialScore, err := s.Adoption.InitialScore(ctx, methodology, district)
		if err != nil {
			// Advisory at this stage; record the midpoint and keep going.
			log.Warn().Err(err).Str("plot_id", plotID.String()).Msg("adoption pre-check unavailable, recording neutral score")
			initialScore = 0.5
		}

		project := domain.CarbonProject{
			PlotID:                 plot.PlotID,
			UserID:                 userID,
			Methodology:            methodology,
			Status:                 domain.CarbonStatusEnrolled,
			StartDate:              now,
			VestingEndDate:         &vesting,
			BaselineEmission:       0.5 * plot.Area,
			ProjectedSequestration: plot.Area * MethodologyRate(methodology),
			BufferPoolPercentage:   defaultBufferPoolPercentage,
			VerificationCostUSD:    defaultVerificationCostUSD,
			AdditionalityScore:     initialScore,
			RequiresSoilSample:     true,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		v := projectView(&project, plot.Name, 0)
		view = &v
		return nil
	})

	return view, err
}

// SubmitEvidence appends an evidence row and flips an Enrolled project to
// Evidence_Pending. Evidence against a terminal project is recorded but
// has no state effect.
func (s *Service) SubmitEvidence(ctx context.Context, userID, projectID uuid.UUID, description string, geoLat, geoLng float64) (string, error) {
	var status string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project domain.CarbonProject
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProjectNotFound
			}
			return err
		}

		imageURL := evidencePlaceholderImage
		evidence := domain.CarbonEvidence{
			ProjectID:   project.ProjectID,
			Description: description,
			GeoLat:      geoLat,
			GeoLng:      geoLng,
			ImageURL:    &imageURL,
		}
		if err := tx.Create(&evidence).Error; err != nil {
			return err
		}

		status = project.Status
		switch project.Status {
		case domain.CarbonStatusEnrolled:
			res := tx.Model(&domain.CarbonProject{}).
				Where("project_id = ? AND status = ?", project.ProjectID, domain.CarbonStatusEnrolled).
				Update("status", domain.CarbonStatusEvidencePending)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				status = domain.CarbonStatusEvidencePending
			}
		case domain.CarbonStatusVerified, domain.CarbonStatusAuditFailed:
			log.Warn().
				Str("project_id", project.ProjectID.String()).
				Str("status", project.Status).
				Msg("evidence submitted after terminal status; recorded with no state effect")
		}
		return nil
	})

	return status, err
}

// TriggerVerification runs the ordered checks on an Evidence_Pending
// project: additionality, evidence sufficiency, then the audit. Every
// terminal transition is a compare-and-swap on status so at most one
// concurrent attempt commits; the loser gets ErrNotReady.
func (s *Service) TriggerVerification(ctx context.Context, userID, projectID uuid.UUID) (*VerificationResult, error) {
	var project domain.CarbonProject
	if err := s.DB.WithContext(ctx).Where("project_id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.Status != domain.CarbonStatusEvidencePending {
		return nil, ErrNotReady
	}

	district := ""
	var owner domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&owner).Error; err == nil && owner.District != nil {
		district = *owner.District
	}

	adoptionRate, err := s.Adoption.RegionalAdoptionRate(ctx, project.Methodology, district)
	if err != nil {
		// Estimator outage: take the most conservative reading rather than crash.
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("adoption estimator failed, assuming maximal adoption")
		adoptionRate = 1.0
	}

	// The score is recorded even when the check passes; committed on its
	// own so a retryable evidence failure below does not lose it.
	if err := s.DB.WithContext(ctx).Model(&domain.CarbonProject{}).
		Where("project_id = ?", project.ProjectID).
		Update("additionality_score", adoptionRate).Error; err != nil {
		return nil, err
	}

	if adoptionRate > additionalityThreshold {
		if err := s.commitAuditFailure(ctx, project.ProjectID); err != nil {
			return nil, err
		}
		return &VerificationResult{
			Status:              domain.CarbonStatusAuditFailed,
			VerificationCostUSD: project.VerificationCostUSD,
			Message: fmt.Sprintf(
				"Additionality Check Failed: %s is already common practice in your district (%d%% adoption). Only novel practices qualify for credits.",
				project.Methodology, int(adoptionRate*100)),
		}, nil
	}

	if project.RequiresSoilSample {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&domain.CarbonEvidence{}).Where("project_id = ?", project.ProjectID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count < minSoilSampleEvidence {
			return nil, ErrInsufficientEvidence
		}
	}

	passed, err := s.Audit.Passes(ctx, project.ProjectID.String())
	if err != nil {
		log.Error().Err(err).Str("project_id", projectID.String()).Msg("audit model failed, treating audit as failed")
		passed = false
	}

	if !passed {
		if err := s.commitAuditFailure(ctx, project.ProjectID); err != nil {
			return nil, err
		}
		return &VerificationResult{
			Status:              domain.CarbonStatusAuditFailed,
			VerificationCostUSD: project.VerificationCostUSD,
			Message:             "Verification Failed - Evidence unclear",
		}, nil
	}

	// Issuance books the original projection, never a re-measured figure.
	rawCredits := project.ProjectedSequestration
	bufferDeduction := rawCredits * (project.BufferPoolPercentage / 100.0)
	available := rawCredits - bufferDeduction
	vesting := project.StartDate.AddDate(0, 0, vestingYears*365)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.CarbonProject{}).
			Where("project_id = ? AND status = ?", project.ProjectID, domain.CarbonStatusEvidencePending).
			Updates(map[string]interface{}{
				"status":            domain.CarbonStatusVerified,
				"verified_credits":  rawCredits,
				"locked_credits":    bufferDeduction,
				"available_credits": available,
				"vesting_end_date":  vesting,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotReady
		}
		// Legacy mirror onto the plot record.
		return tx.Model(&domain.Plot{}).
			Where("plot_id = ?", project.PlotID).
			Updates(map[string]interface{}{
				"carbon_credits": available,
				"organic_score":  100.0,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("project_id", project.ProjectID.String()).
		Float64("verified_credits", rawCredits).
		Float64("locked_credits", bufferDeduction).
		Msg("carbon project verified")

	return &VerificationResult{
		Status:              domain.CarbonStatusVerified,
		TotalCreditsIssued:  rawCredits,
		BufferPoolLocked:    bufferDeduction,
		AvailableForSale:    available,
		VestingEndDate:      &vesting,
		VerificationCostUSD: project.VerificationCostUSD,
		Message: fmt.Sprintf("Verification Complete - %d%% locked in buffer pool until %d",
			int(project.BufferPoolPercentage), vesting.Year()),
	}, nil
}

// commitAuditFailure applies the terminal rejection transition. The swap
// is guarded on Evidence_Pending so a lost race surfaces as ErrNotReady.
func (s *Service) commitAuditFailure(ctx context.Context, projectID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&domain.CarbonProject{}).
		Where("project_id = ? AND status = ?", projectID, domain.CarbonStatusEvidencePending).
		Updates(map[string]interface{}{
			"status":           domain.CarbonStatusAuditFailed,
			"verified_credits": 0.0,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotReady
	}
	return nil
}

func projectView(p *domain.CarbonProject, plotName string, evidenceCount int64) ProjectView {
	return ProjectView{
		ProjectID:            p.ProjectID,
		PlotID:               p.PlotID,
		PlotName:             plotName,
		Methodology:          p.Methodology,
		Status:               p.Status,
		ProjectedCredits:     p.ProjectedSequestration,
		VerifiedCredits:      p.VerifiedCredits,
		AvailableCredits:     p.AvailableCredits,
		LockedCredits:        p.LockedCredits,
		StartDate:            p.StartDate,
		VestingEndDate:       p.VestingEndDate,
		VerificationCostUSD:  p.VerificationCostUSD,
		BufferPoolPercentage: p.BufferPoolPercentage,
		AdditionalityScore:   p.AdditionalityScore,
		RequiresSoilSample:   p.RequiresSoilSample,
		EvidenceCount:        evidenceCount,
	}
}
