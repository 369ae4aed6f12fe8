package analytics

// Config holds the classification thresholds and scales.
type Config struct {
	// StrengthThreshold is the minimum earned/max ratio for a strength.
	StrengthThreshold float64

	// ImproveThreshold is the ratio below which a concept needs work.
	ImproveThreshold float64

	// ScoreScale is the scale AverageScore is reported on.
	ScoreScale float64
}

// DefaultConfig returns the thresholds used across all dashboards.
func DefaultConfig() Config {
	return Config{
		StrengthThreshold: 0.70,
		ImproveThreshold:  0.40,
		ScoreScale:        5,
	}
}
