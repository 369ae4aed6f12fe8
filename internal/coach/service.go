package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/llm"
	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// Coach turns reports into coaching notes.
type Coach struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Coach.
func New(provider llm.Provider, cfg Config) *Coach {
	return &Coach{provider: provider, cfg: cfg}
}

type notesOutput struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Focus     []struct {
		Skill      string `json:"skill"`
		Concept    string `json:"concept"`
		Suggestion string `json:"suggestion"`
	} `json:"focus"`
	NextSteps []string `json:"next_steps"`
}

// Generate asks the provider for coaching notes on input.Report.
func (c *Coach) Generate(ctx context.Context, input Input) (*Notes, error) {
	if input.Report.IsEmpty() {
		return nil, fmt.Errorf("coaching notes: report has no concepts")
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeCoach)

	req := llm.UserPrompt(systemPrompt, buildUserMessage(input, c.cfg), NotesSchema, c.cfg.MaxTokens)
	req.Temperature = c.cfg.Temperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("coaching notes: %w", err)
	}

	var out notesOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coaching notes: %w", err)
	}

	notes := &Notes{
		Summary:     out.Summary,
		Strengths:   nonNil(out.Strengths),
		Focus:       make([]FocusItem, 0, len(out.Focus)),
		NextSteps:   nonNil(out.NextSteps),
		Model:       resp.Model,
		GeneratedAt: time.Now(),
	}
	for _, f := range out.Focus {
		notes.Focus = append(notes.Focus, FocusItem{
			Skill:      taxonomy.Skill(f.Skill),
			Concept:    f.Concept,
			Suggestion: f.Suggestion,
		})
	}
	return notes, nil
}

// Deltas compares skill scores between two reports, in canonical skill
// order. Skills missing from either report count as 0. Unchanged skills
// are omitted; a nil previous report yields nil.
func Deltas(previous *analytics.Report, current analytics.Report) []SkillDelta {
	if previous == nil {
		return nil
	}
	prev := radarScores(*previous)
	cur := radarScores(current)

	var out []SkillDelta
	for _, skill := range taxonomy.AllSkills() {
		if prev[skill] != cur[skill] {
			out = append(out, SkillDelta{Skill: skill, Previous: prev[skill], Current: cur[skill]})
		}
	}
	return out
}

func radarScores(r analytics.Report) map[taxonomy.Skill]int {
	m := make(map[taxonomy.Skill]int, len(r.Views.Radar))
	for _, p := range r.Views.Radar {
		m[p.Skill] = p.Value
	}
	return m
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
