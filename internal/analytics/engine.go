package analytics

import (
	"time"

	"github.com/abhisek/skillpulse/internal/progress"
	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// Engine runs the progress pipeline. It holds only immutable configuration,
// so one Engine can serve concurrent Run calls.
type Engine struct {
	canon *taxonomy.Canonicalizer
	cfg   Config
}

// NewEngine creates an engine. A nil canonicalizer uses the built-in taxonomy.
func NewEngine(canon *taxonomy.Canonicalizer, cfg Config) *Engine {
	if canon == nil {
		canon = taxonomy.MustDefault()
	}
	return &Engine{canon: canon, cfg: cfg}
}

// Canonicalizer returns the taxonomy the engine resolves skills with.
func (e *Engine) Canonicalizer() *taxonomy.Canonicalizer {
	return e.canon
}

// Report is the single result every dashboard, chart and export reads from.
type Report struct {
	OverallCompletion float64             `json:"overallCompletion"`
	TotalScore        float64             `json:"totalScore"`
	TotalMaxScore     float64             `json:"totalMaxScore"`
	AverageScore      float64             `json:"averageScore"`
	ConceptProgress   []ConceptProgress   `json:"conceptProgress"`
	SkillScores       []SkillScore        `json:"skillScores"`
	SkillDistribution []DistributionEntry `json:"skillDistribution"`
	Strengths         []ConceptProgress   `json:"strengths"`
	AreasToImprove    []ConceptProgress   `json:"areasToImprove"`
	Views             Views               `json:"views"`

	AttemptCount   int        `json:"attemptCount"`
	LastActivity   *time.Time `json:"lastActivity,omitempty"`
	UnmappedLabels []string   `json:"unmappedLabels"`
}

// Run aggregates in, computes metrics, classifies concepts and builds the
// views in one synchronous pass. It never fails: empty or degenerate input
// yields a zeroed report with empty (non-nil) lists.
func (e *Engine) Run(in progress.Input) Report {
	agg := e.Aggregate(in)
	m := ComputeMetrics(agg, e.cfg)
	cl := Classify(agg.Concepts, e.cfg)
	views := ToViews(m, cl)

	r := Report{
		OverallCompletion: m.OverallCompletion,
		TotalScore:        m.TotalScore,
		TotalMaxScore:     m.TotalMaxScore,
		AverageScore:      m.AverageScore,
		ConceptProgress:   agg.Concepts,
		SkillScores:       RankSkills(m.SkillScores),
		SkillDistribution: views.Distribution,
		Strengths:         cl.Strengths,
		AreasToImprove:    cl.AreasToImprove,
		Views:             views,
		AttemptCount:      agg.AttemptCount,
		UnmappedLabels:    agg.UnmappedLabels,
	}
	if !agg.LastActivity.IsZero() {
		t := agg.LastActivity
		r.LastActivity = &t
	}
	return r
}

// IsEmpty reports whether the report was built from input with no concepts.
func (r Report) IsEmpty() bool {
	return len(r.ConceptProgress) == 0
}
