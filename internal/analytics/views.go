package analytics

import (
	"sort"

	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// RadarPoint is one axis of the skill radar.
type RadarPoint struct {
	Skill taxonomy.Skill `json:"skill"`
	Value int            `json:"value"`
}

// MasteryEntry is one skill's subconcept completion.
type MasteryEntry struct {
	Skill          taxonomy.Skill `json:"skill"`
	CompletedCount int            `json:"completedCount"`
	TotalCount     int            `json:"totalCount"`
	Percent        int            `json:"percent"`
}

// DistributionEntry is one slice of a coverage chart.
type DistributionEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Overview holds the headline numbers of a report.
type Overview struct {
	OverallCompletion float64           `json:"overallCompletion"`
	TotalScore        float64           `json:"totalScore"`
	TotalMaxScore     float64           `json:"totalMaxScore"`
	AverageScore      float64           `json:"averageScore"`
	Strengths         []ConceptProgress `json:"strengths"`
	AreasToImprove    []ConceptProgress `json:"areasToImprove"`
}

// Views are the consumer-specific shapes of one set of metrics.
type Views struct {
	Radar        []RadarPoint        `json:"radar"`
	Mastery      []MasteryEntry      `json:"mastery"`
	Distribution []DistributionEntry `json:"distribution"`
	Overview     Overview            `json:"overview"`
}

// ToViews reshapes metrics and classification without recomputing them.
func ToViews(m Metrics, cl Classification) Views {
	byskill := make(map[taxonomy.Skill]SkillScore, len(m.SkillScores))
	for _, s := range m.SkillScores {
		byskill[s.Skill] = s
	}

	all := taxonomy.AllSkills()
	radar := make([]RadarPoint, 0, len(all))
	for _, skill := range all {
		radar = append(radar, RadarPoint{Skill: skill, Value: byskill[skill].Score})
	}

	mastery := make([]MasteryEntry, 0, len(m.SkillScores))
	for _, s := range m.SkillScores {
		mastery = append(mastery, MasteryEntry{
			Skill:          s.Skill,
			CompletedCount: s.CompletedCount,
			TotalCount:     s.TotalCount,
			Percent:        Percent(float64(s.CompletedCount), float64(s.TotalCount)),
		})
	}
	sort.SliceStable(mastery, func(i, j int) bool {
		return completionRatio(mastery[i]) > completionRatio(mastery[j])
	})

	dist := make([]DistributionEntry, 0, len(m.SkillScores))
	for _, s := range Coverage(m.SkillScores) {
		dist = append(dist, DistributionEntry{Name: string(s.Skill), Value: s.Score})
	}

	return Views{
		Radar:        radar,
		Mastery:      mastery,
		Distribution: dist,
		Overview: Overview{
			OverallCompletion: m.OverallCompletion,
			TotalScore:        m.TotalScore,
			TotalMaxScore:     m.TotalMaxScore,
			AverageScore:      m.AverageScore,
			Strengths:         cl.Strengths,
			AreasToImprove:    cl.AreasToImprove,
		},
	}
}

// completionRatio sorts on the exact ratio so rounding never reorders entries.
func completionRatio(e MasteryEntry) float64 {
	if e.TotalCount <= 0 {
		return 0
	}
	return float64(e.CompletedCount) / float64(e.TotalCount)
}
