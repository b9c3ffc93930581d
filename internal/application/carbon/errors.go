package carbon

import "errors"

var (
	ErrPlotNotFound         = errors.New("Plot not found")
	ErrAlreadyEnrolled      = errors.New("Plot already enrolled in a carbon project")
	ErrProjectNotFound      = errors.New("Project not found")
	ErrNotReady             = errors.New("Project not ready for verification (Upload evidence first)")
	ErrInsufficientEvidence = errors.New("Insufficient Evidence: Soil-based methodologies require at least 2 physical soil sample reports. Upload lab test results.")
)
