package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"skill": map[string]any{"type": "string"},
			"score": map[string]any{"type": "integer"},
			"trend": map[string]any{"type": "string", "enum": []any{"up", "flat", "down"}},
			"ratios": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "number"},
			},
		},
		"required": []any{"skill", "score"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["skill"].Type != "STRING" {
		t.Fatalf("expected STRING for skill, got %s", schema.Properties["skill"].Type)
	}
	if schema.Properties["score"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for score, got %s", schema.Properties["score"].Type)
	}
	if len(schema.Properties["trend"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["trend"].Enum))
	}
	if schema.Properties["ratios"].Type != "ARRAY" {
		t.Fatalf("expected ARRAY for ratios, got %s", schema.Properties["ratios"].Type)
	}
	if schema.Properties["ratios"].Items.Type != "NUMBER" {
		t.Fatalf("expected NUMBER for ratios items, got %s", schema.Properties["ratios"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiSchemaOrderingAndBounds(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"zeta":  map[string]any{"type": "string"},
			"alpha": map[string]any{"type": []any{"string", "null"}},
			"steps": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1, "maxItems": float64(3)},
			"name":  map[string]any{"type": "string"},
		},
		"required": []any{"steps", "name"},
	}

	schema := buildGeminiSchema(def)

	want := []string{"steps", "name", "alpha", "zeta"}
	if len(schema.PropertyOrdering) != len(want) {
		t.Fatalf("ordering = %v, want %v", schema.PropertyOrdering, want)
	}
	for i := range want {
		if schema.PropertyOrdering[i] != want[i] {
			t.Fatalf("ordering = %v, want %v", schema.PropertyOrdering, want)
		}
	}

	alpha := schema.Properties["alpha"]
	if alpha.Type != "STRING" || alpha.Nullable == nil || !*alpha.Nullable {
		t.Fatalf("alpha = %+v", alpha)
	}
	steps := schema.Properties["steps"]
	if steps.MinItems == nil || *steps.MinItems != 1 || steps.MaxItems == nil || *steps.MaxItems != 3 {
		t.Fatalf("steps bounds = %v/%v", steps.MinItems, steps.MaxItems)
	}
}

func TestGeminiConfig(t *testing.T) {
	req := UserPrompt("be brief", "hello", testSchema(), 64)
	req.Temperature = 0.5

	cfg := geminiConfig(req)
	if cfg.MaxOutputTokens != 64 {
		t.Fatalf("max tokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.5 {
		t.Fatalf("temperature = %v", cfg.Temperature)
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "be brief" {
		t.Fatalf("system = %+v", cfg.SystemInstruction)
	}
	if cfg.ResponseMIMEType != "application/json" || cfg.ResponseSchema == nil {
		t.Fatal("structured output not configured")
	}

	plain := geminiConfig(UserPrompt("", "hello", nil, 10))
	if plain.Temperature != nil || plain.SystemInstruction != nil || plain.ResponseSchema != nil {
		t.Fatalf("unexpected optional fields: %+v", plain)
	}
}

func TestBuildGeminiContentsRoles(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	})
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("roles = %s, %s", contents[0].Role, contents[1].Role)
	}
}
