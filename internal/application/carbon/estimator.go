package carbon

import (
	"context"
	"math/rand"
)

// AdoptionEstimator reports how widely a methodology is already adopted
// in a district, in [0,1]. Production wraps a registry/statistical model;
// tests supply fixed values.
type AdoptionEstimator interface {
	// InitialScore is the pre-check estimate recorded at enrollment.
	InitialScore(ctx context.Context, methodology, district string) (float64, error)
	// RegionalAdoptionRate is the rate consulted during verification.
	RegionalAdoptionRate(ctx context.Context, methodology, district string) (float64, error)
}

// AuditModel decides the pass/fail outcome of the algorithmic audit
// (satellite + evidence match in production).
type AuditModel interface {
	Passes(ctx context.Context, projectID string) (bool, error)
}

// RandomAdoptionEstimator is the stand-in used until the district
// registry lookup ships: uniform draws matching the observed ranges.
type RandomAdoptionEstimator struct{}

func (RandomAdoptionEstimator) InitialScore(ctx context.Context, methodology, district string) (float64, error) {
	return 0.1 + rand.Float64()*0.5, nil
}

func (RandomAdoptionEstimator) RegionalAdoptionRate(ctx context.Context, methodology, district string) (float64, error) {
	return 0.2 + rand.Float64()*0.5, nil
}

// RandomAuditModel passes 75% of audits.
type RandomAuditModel struct{}

func (RandomAuditModel) Passes(ctx context.Context, projectID string) (bool, error) {
	return rand.Intn(4) != 0, nil
}
