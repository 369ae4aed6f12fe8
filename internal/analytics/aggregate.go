package analytics

import (
	"slices"
	"sort"
	"time"

	"github.com/abhisek/skillpulse/internal/progress"
	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// UnassignedConcept names the concept that collects subconcepts with no
// concept ID or name.
const UnassignedConcept = "Unassigned"

// ConceptProgress is one concept's rolled-up totals.
type ConceptProgress struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	UserScore            float64          `json:"userScore"`
	MaxScore             float64          `json:"maxScore"`
	CompletedSubconcepts int              `json:"completedSubconcepts"`
	TotalSubconcepts     int              `json:"totalSubconcepts"`
	Skill1               string           `json:"skill1"`
	Skill2               string           `json:"skill2"`
	Skills               []taxonomy.Skill `json:"skills"`
}

// Ratio returns UserScore/MaxScore, or 0 when MaxScore is 0.
func (c ConceptProgress) Ratio() float64 {
	if c.MaxScore <= 0 {
		return 0
	}
	return c.UserScore / c.MaxScore
}

// SkillBucket accumulates totals for one umbrella skill.
type SkillBucket struct {
	TotalScore     float64
	MaxScore       float64
	ConceptCount   int
	CompletedCount int
	TotalCount     int
}

// Aggregation is the output of a single pass over the input.
type Aggregation struct {
	Concepts []ConceptProgress
	Buckets  map[taxonomy.Skill]*SkillBucket

	// SkillOrder lists bucket keys in first-encounter order.
	SkillOrder []taxonomy.Skill

	AttemptCount   int
	LastActivity   time.Time
	UnmappedLabels []string
}

// Aggregate rolls the input up to concept totals and skill buckets.
// Tree input is walked once; each concept keeps its first-encounter position.
func (e *Engine) Aggregate(in progress.Input) Aggregation {
	var agg Aggregation
	switch in.Kind {
	case progress.KindFlat:
		agg.Concepts = fromFlat(in.Flat)
	default:
		if in.Tree != nil {
			agg = walkTree(*in.Tree)
		}
	}
	if agg.Concepts == nil {
		agg.Concepts = []ConceptProgress{}
	}

	agg.Buckets = make(map[taxonomy.Skill]*SkillBucket)
	unmapped := make(map[string]bool)

	for i := range agg.Concepts {
		c := &agg.Concepts[i]
		c.Skills = e.canon.Resolve(c.Skill1, c.Skill2)

		for _, label := range []string{c.Skill1, c.Skill2} {
			if label != "" && !e.canon.Known(label) {
				unmapped[label] = true
			}
		}

		for _, skill := range c.Skills {
			b, ok := agg.Buckets[skill]
			if !ok {
				b = &SkillBucket{}
				agg.Buckets[skill] = b
				agg.SkillOrder = append(agg.SkillOrder, skill)
			}
			b.TotalScore += c.UserScore
			b.MaxScore += c.MaxScore
			b.ConceptCount++
			b.CompletedCount += c.CompletedSubconcepts
			b.TotalCount += c.TotalSubconcepts
		}
	}

	agg.UnmappedLabels = make([]string, 0, len(unmapped))
	for label := range unmapped {
		agg.UnmappedLabels = append(agg.UnmappedLabels, label)
	}
	sort.Strings(agg.UnmappedLabels)

	return agg
}

func fromFlat(flat []progress.FlatConcept) []ConceptProgress {
	out := make([]ConceptProgress, 0, len(flat))
	for _, f := range flat {
		score, maxScore, _ := progress.ClampScore(f.UserTotalScore, f.TotalMaxScore)
		completed, total, _ := progress.ClampCounts(f.CompletedSubconcepts, f.TotalSubconcepts)
		out = append(out, ConceptProgress{
			ID:                   f.ConceptID,
			Name:                 f.ConceptName,
			UserScore:            score,
			MaxScore:             maxScore,
			CompletedSubconcepts: completed,
			TotalSubconcepts:     total,
			Skill1:               f.Skill1,
			Skill2:               f.Skill2,
		})
	}
	return out
}

func walkTree(t progress.Tree) Aggregation {
	var agg Aggregation
	index := make(map[string]int)

	for _, st := range t.Stages {
		for _, u := range st.Units {
			for _, sc := range u.Subconcepts {
				key := sc.Concept.Key()
				i, ok := index[key]
				if !ok {
					name := sc.Concept.Name
					if key == "" {
						name = UnassignedConcept
					}
					i = len(agg.Concepts)
					index[key] = i
					agg.Concepts = append(agg.Concepts, ConceptProgress{
						ID:     sc.Concept.ID,
						Name:   name,
						Skill1: sc.Concept.Skill1,
						Skill2: sc.Concept.Skill2,
					})
				}

				c := &agg.Concepts[i]
				score, maxScore, _ := progress.ClampScore(sc.HighestScore, sc.MaxScore)
				c.UserScore += score
				c.MaxScore += maxScore
				c.TotalSubconcepts++
				if sc.Completed {
					c.CompletedSubconcepts++
				}
				// Later subconcepts can fill labels the first one left blank.
				if c.Skill1 == "" && c.Skill2 == "" {
					c.Skill1, c.Skill2 = sc.Concept.Skill1, sc.Concept.Skill2
				}

				agg.AttemptCount += len(sc.Attempts)
				for _, a := range sc.Attempts {
					if a.EndTimestamp.After(agg.LastActivity) {
						agg.LastActivity = a.EndTimestamp
					}
				}
			}
		}
	}
	return agg
}

// Bucket returns a copy of the bucket for skill and whether it exists.
func (a Aggregation) Bucket(skill taxonomy.Skill) (SkillBucket, bool) {
	b, ok := a.Buckets[skill]
	if !ok {
		return SkillBucket{}, false
	}
	return *b, true
}

// HasSkill reports whether any concept contributed to skill.
func (a Aggregation) HasSkill(skill taxonomy.Skill) bool {
	return slices.Contains(a.SkillOrder, skill)
}
