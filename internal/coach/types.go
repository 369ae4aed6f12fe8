package coach

import (
	"time"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// Notes are LLM-written coaching notes for one report.
type Notes struct {
	Summary     string      `json:"summary"`
	Strengths   []string    `json:"strengths"`
	Focus       []FocusItem `json:"focus"`
	NextSteps   []string    `json:"nextSteps"`
	Model       string      `json:"model"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// FocusItem is one concrete area to work on.
type FocusItem struct {
	Skill      taxonomy.Skill `json:"skill"`
	Concept    string         `json:"concept"`
	Suggestion string         `json:"suggestion"`
}

// Input holds everything the prompt is built from.
type Input struct {
	LearnerID   string
	ProgramName string
	Report      analytics.Report

	// Previous is an earlier report for the same learner and program, if any.
	Previous *analytics.Report
}

// SkillDelta is the change in one skill's score between two reports.
type SkillDelta struct {
	Skill    taxonomy.Skill `json:"skill"`
	Previous int            `json:"previous"`
	Current  int            `json:"current"`
}

// Change returns Current - Previous.
func (d SkillDelta) Change() int {
	return d.Current - d.Previous
}
