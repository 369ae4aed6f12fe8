package analytics

import "sort"

// Classification splits concepts into strengths and areas to improve.
type Classification struct {
	Strengths      []ConceptProgress
	AreasToImprove []ConceptProgress
}

// Classify picks strengths (ratio at or above StrengthThreshold, strongest
// first) and areas to improve (ratio below ImproveThreshold, weakest first).
// Concepts without a max score are never classified. Ties keep input order.
func Classify(concepts []ConceptProgress, cfg Config) Classification {
	cl := Classification{
		Strengths:      []ConceptProgress{},
		AreasToImprove: []ConceptProgress{},
	}
	for _, c := range concepts {
		if c.MaxScore <= 0 {
			continue
		}
		r := c.Ratio()
		switch {
		case r >= cfg.StrengthThreshold:
			cl.Strengths = append(cl.Strengths, c)
		case r < cfg.ImproveThreshold:
			cl.AreasToImprove = append(cl.AreasToImprove, c)
		}
	}

	sort.SliceStable(cl.Strengths, func(i, j int) bool {
		return cl.Strengths[i].Ratio() > cl.Strengths[j].Ratio()
	})
	sort.SliceStable(cl.AreasToImprove, func(i, j int) bool {
		return cl.AreasToImprove[i].Ratio() < cl.AreasToImprove[j].Ratio()
	})
	return cl
}

// RankSkills returns skills with a non-zero score, highest first.
func RankSkills(scores []SkillScore) []SkillScore {
	ranked := make([]SkillScore, 0, len(scores))
	for _, s := range scores {
		if s.Score != 0 {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Coverage returns every skill, including zero scores, in encounter order.
func Coverage(scores []SkillScore) []SkillScore {
	out := make([]SkillScore, len(scores))
	copy(out, scores)
	return out
}
