package progress

import "math"

// ClampScore sanitizes an earned/max score pair: non-finite and negative
// values become 0 and the earned score is capped at the max score.
// changed reports whether either value was altered.
func ClampScore(score, maxScore float64) (s, m float64, changed bool) {
	s, m = finiteNonNeg(score), finiteNonNeg(maxScore)
	if s > m {
		s = m
	}
	return s, m, s != score || m != maxScore
}

// ClampCounts sanitizes a completed/total pair so that
// 0 <= completed <= total.
func ClampCounts(completed, total int) (c, t int, changed bool) {
	c, t = max(completed, 0), max(total, 0)
	if c > t {
		c = t
	}
	return c, t, c != completed || t != total
}

func finiteNonNeg(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
