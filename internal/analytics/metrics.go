package analytics

import (
	"math"

	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// SkillScore is a bucket expressed as a 0-100 percentage.
type SkillScore struct {
	Skill          taxonomy.Skill `json:"skill"`
	Score          int            `json:"score"`
	RawScore       float64        `json:"rawScore"`
	RawMaxScore    float64        `json:"rawMaxScore"`
	ConceptCount   int            `json:"conceptCount"`
	CompletedCount int            `json:"completedCount"`
	TotalCount     int            `json:"totalCount"`
}

// Metrics are the numbers derived from an Aggregation.
type Metrics struct {
	// SkillScores has one entry per bucket in first-encounter order.
	SkillScores []SkillScore

	OverallCompletion    float64
	TotalScore           float64
	TotalMaxScore        float64
	AverageScore         float64
	CompletedSubconcepts int
	TotalSubconcepts     int
}

// ComputeMetrics derives percentages and averages. Every division is guarded;
// a zero denominator yields 0.
func ComputeMetrics(agg Aggregation, cfg Config) Metrics {
	m := Metrics{SkillScores: make([]SkillScore, 0, len(agg.SkillOrder))}

	for _, skill := range agg.SkillOrder {
		b := agg.Buckets[skill]
		m.SkillScores = append(m.SkillScores, SkillScore{
			Skill:          skill,
			Score:          Percent(b.TotalScore, b.MaxScore),
			RawScore:       b.TotalScore,
			RawMaxScore:    b.MaxScore,
			ConceptCount:   b.ConceptCount,
			CompletedCount: b.CompletedCount,
			TotalCount:     b.TotalCount,
		})
	}

	var ratioSum float64
	var scored int
	for _, c := range agg.Concepts {
		m.TotalScore += c.UserScore
		m.TotalMaxScore += c.MaxScore
		m.CompletedSubconcepts += c.CompletedSubconcepts
		m.TotalSubconcepts += c.TotalSubconcepts
		if c.MaxScore > 0 {
			ratioSum += c.Ratio() * cfg.ScoreScale
			scored++
		}
	}

	if m.CompletedSubconcepts > 0 && m.TotalSubconcepts > 0 {
		m.OverallCompletion = clamp(float64(m.CompletedSubconcepts)/float64(m.TotalSubconcepts)*100, 0, 100)
	}
	if scored > 0 {
		m.AverageScore = ratioSum / float64(scored)
	}
	return m
}

// Percent returns round(part/whole*100), or 0 when whole is not positive.
func Percent(part, whole float64) int {
	if whole <= 0 || math.IsNaN(part) || math.IsNaN(whole) {
		return 0
	}
	p := math.Round(part / whole * 100)
	if p < 0 || math.IsInf(p, 0) {
		return 0
	}
	return int(p)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
