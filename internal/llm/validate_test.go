package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-skill-note",
		Description: "A note about one skill",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"skill": map[string]any{"type": "string"},
				"score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
				"trend": map[string]any{"type": "string", "enum": []any{"up", "flat", "down"}},
			},
			"required": []any{"skill", "score"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"skill":"Reading","score":80,"trend":"up"}`, false},
		{"valid without optional", `{"skill":"Grammar","score":67}`, false},
		{"missing required", `{"skill":"Writing"}`, true},
		{"wrong type", `{"skill":"Speaking","score":"eighty"}`, true},
		{"out of range", `{"skill":"Speaking","score":140}`, true},
		{"invalid enum", `{"skill":"Listening","score":10,"trend":"sideways"}`, true},
		{"malformed JSON", `{not json}`, true},
		{"empty response", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "test-nested",
		Description: "Nested test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"learner": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{"type": "string"},
					},
					"required": []any{"id"},
				},
				"scores": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"learner", "scores"},
		},
	}

	valid := json.RawMessage(`{"learner":{"id":"u-7"},"scores":[80,67,50]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"learner":{"id":"u-7"},"scores":["not","ints"]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}

func TestFinishResponse(t *testing.T) {
	t.Run("truncated with schema", func(t *testing.T) {
		_, err := finishResponse(Request{Schema: testSchema()}, &Response{
			Content:    json.RawMessage(`{"skill":"Re`),
			StopReason: "max_tokens",
		})
		var maxTok *ErrMaxTokensExceeded
		if !errors.As(err, &maxTok) {
			t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
		}
	})

	t.Run("truncated free text passes", func(t *testing.T) {
		resp, err := finishResponse(Request{}, &Response{Content: json.RawMessage(`partial`), StopReason: "max_tokens"})
		if err != nil || resp == nil {
			t.Fatalf("expected response, got err %v", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		resp, err := finishResponse(Request{Schema: testSchema()}, &Response{
			Content:    json.RawMessage(`{"skill":"Reading","score":80}`),
			StopReason: "end",
		})
		if err != nil || resp == nil {
			t.Fatalf("expected response, got err %v", err)
		}
	})
}
