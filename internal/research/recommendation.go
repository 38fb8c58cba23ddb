// internal/research/recommendation.go
package research

// Recommend maps a trust score to its human-readable recommendation band.
func Recommend(trustScore int) string {
	switch {
	case trustScore >= 80:
		return "Highly recommended — strong evidence and positive reviews"
	case trustScore >= 60:
		return "Recommended — sufficient evidence and generally positive feedback"
	case trustScore >= 40:
		return "Proceed with caution — mixed reviews or limited evidence"
	default:
		return "Not recommended — insufficient evidence or negative indicators"
	}
}
