package carbon

// Recognized methodologies and their baseline sequestration rates in
// tons per acre per season. Unknown methodologies project zero credits
// rather than failing enrollment.
const (
	MethodologyNoTill       = "No-Till"
	MethodologyCoverCrop    = "Cover-Crop"
	MethodologyAgroforestry = "Agroforestry"
)

var methodologyRates = map[string]float64{
	MethodologyNoTill:       1.2,
	MethodologyCoverCrop:    0.8,
	MethodologyAgroforestry: 2.5,
}

// MethodologyRate returns the per-acre baseline rate, 0 for unknown values.
func MethodologyRate(methodology string) float64 {
	return methodologyRates[methodology]
}
