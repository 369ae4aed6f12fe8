package coach

import (
	"github.com/abhisek/skillpulse/internal/llm"
	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// NotesSchema defines the JSON schema for coaching notes.
var NotesSchema = &llm.Schema{
	Name:        "coaching-notes",
	Description: "Coaching notes for a language learner based on their skill report",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "3-4 sentence overview of the learner's progress",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 specific strengths (5-12 words each)",
			},
			"focus": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"skill": map[string]any{
							"type": "string",
							"enum": skillEnum(),
						},
						"concept": map[string]any{
							"type":        "string",
							"description": "Concept name exactly as given in the report",
						},
						"suggestion": map[string]any{
							"type":        "string",
							"description": "One concrete practice activity (1-2 sentences)",
						},
					},
					"required":             []any{"skill", "concept", "suggestion"},
					"additionalProperties": false,
				},
				"description": "1-3 areas to focus on next",
			},
			"next_steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-3 short next steps for the coming week",
			},
		},
		"required":             []any{"summary", "strengths", "focus", "next_steps"},
		"additionalProperties": false,
	},
}

func skillEnum() []any {
	all := taxonomy.AllSkills()
	out := make([]any, len(all))
	for i, s := range all {
		out[i] = string(s)
	}
	return out
}
