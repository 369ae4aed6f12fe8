package progress

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// The schemas check structure only: which fields are objects, arrays,
// strings or numbers. Value repair (defaults, clamping) happens afterwards.

func nullable(types ...string) map[string]any {
	ts := make([]any, 0, len(types)+1)
	for _, t := range types {
		ts = append(ts, t)
	}
	return map[string]any{"type": append(ts, "null")}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": []any{"array", "null"}, "items": items}
}

func object(props map[string]any) map[string]any {
	return map[string]any{"type": "object", "properties": props}
}

var (
	numeric = nullable("number", "string")
	id      = nullable("string", "number")
	text    = nullable("string")
)

var conceptDef = map[string]any{
	"type": []any{"object", "null"},
	"properties": map[string]any{
		"conceptId":     id,
		"conceptName":   text,
		"conceptSkill1": text,
		"conceptSkill2": text,
	},
}

var subconceptDef = object(map[string]any{
	"subconceptId":       id,
	"subconceptDesc":     text,
	"subconceptMaxscore": numeric,
	"highestScore":       numeric,
	"completed":          nullable("boolean", "number", "string"),
	"attempts": arrayOf(object(map[string]any{
		"endTimestamp": nullable("string", "number"),
		"score":        numeric,
	})),
	"concept": conceptDef,
})

// treeSchema validates the tree shape.
var treeSchema = map[string]any{
	"type":     "object",
	"required": []any{"stages"},
	"properties": map[string]any{
		"schemaVersion": text,
		"programId":     id,
		"programName":   text,
		"learnerId":     id,
		"stages": arrayOf(object(map[string]any{
			"stageName": text,
			"units": arrayOf(object(map[string]any{
				"unitName":    text,
				"subconcepts": arrayOf(subconceptDef),
			})),
		})),
	},
}

// flatSchema validates the flat concept-list shape.
var flatSchema = map[string]any{
	"type": "array",
	"items": object(map[string]any{
		"conceptId":            id,
		"conceptName":          text,
		"totalMaxScore":        numeric,
		"userTotalScore":       numeric,
		"completedSubconcepts": numeric,
		"totalSubconcepts":     numeric,
		"skill1":               text,
		"skill2":               text,
	}),
}

// envelopeSchema validates the tagged wrapper around either shape.
var envelopeSchema = map[string]any{
	"type":     "object",
	"required": []any{"kind"},
	"properties": map[string]any{
		"kind":          map[string]any{"enum": []any{string(KindTree), string(KindFlat)}},
		"schemaVersion": text,
	},
}

var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiled(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// jsonschema wants a plain decoded value, not Go literals with typed maps.
	b, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", name, err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://skillpulse/%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}

	schemaCache.Store(name, s)
	return s, nil
}

// validate checks an already-decoded JSON value against the named schema.
func validate(name string, def map[string]any, doc any) error {
	s, err := compiled(name, def)
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
