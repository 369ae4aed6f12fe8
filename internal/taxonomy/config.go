package taxonomy

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the lookup configuration injected into a Canonicalizer.
// It holds both the raw-label table and the display-color table so there is
// one source for every consumer.
type Config struct {
	// Aliases maps raw skill labels, as they appear in content, to umbrella skills.
	Aliases map[string]Skill `yaml:"aliases"`

	// Colors maps umbrella skills to "#RRGGBB" display colors.
	Colors map[Skill]string `yaml:"colors"`

	// Fallback is the umbrella skill for labels that match nothing.
	Fallback Skill `yaml:"fallback"`
}

// DefaultConfig returns the built-in taxonomy.
func DefaultConfig() Config {
	return Config{
		Aliases:  maps.Clone(defaultAliases),
		Colors:   maps.Clone(defaultColors),
		Fallback: SkillDevelopment,
	}
}

// LoadConfig reads a YAML overlay from path and merges it onto the defaults.
// Aliases and colors in the file are added to (or replace) the built-in
// entries; a non-empty fallback replaces the default catch-all.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read taxonomy file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, fmt.Errorf("parse taxonomy file %s: %w", path, err)
	}

	maps.Copy(cfg.Aliases, overlay.Aliases)
	maps.Copy(cfg.Colors, overlay.Colors)
	if overlay.Fallback != "" {
		cfg.Fallback = overlay.Fallback
	}
	return cfg, nil
}

var defaultColors = map[Skill]string{
	Speaking:         "#8B5CF6",
	Grammar:          "#14B8A6",
	Vocabulary:       "#F97316",
	Reading:          "#3B82F6",
	Writing:          "#EC4899",
	Listening:        "#EAB308",
	CriticalThinking: "#22C55E",
	SkillDevelopment: "#94A3B8",
}

// defaultAliases lists the raw labels seen in program content. Keys are
// matched exactly first and then case-insensitively after trimming.
var defaultAliases = map[string]Skill{
	// Speaking
	"Speaking Skills":       Speaking,
	"Oral Communication":    Speaking,
	"Spoken English":        Speaking,
	"Conversation":          Speaking,
	"Conversational Skills": Speaking,
	"Fluency":               Speaking,
	"Public Speaking":       Speaking,

	// Grammar
	"Grammar Skills":     Grammar,
	"Sentence Structure": Grammar,
	"Syntax":             Grammar,
	"Tenses":             Grammar,
	"Parts of Speech":    Grammar,
	"Punctuation":        Grammar,
	"Language Usage":     Grammar,

	// Vocabulary
	"Vocab":               Vocabulary,
	"Vocabulary Building": Vocabulary,
	"Word Knowledge":      Vocabulary,
	"Word Usage":          Vocabulary,
	"Word Meaning":        Vocabulary,
	"Spelling":            Vocabulary,
	"Idioms":              Vocabulary,

	// Reading
	"Reading Comprehension": Reading,
	"Reading Skills":        Reading,
	"Comprehension":         Reading,
	"Phonics":               Reading,
	"Decoding":              Reading,
	"Reading Fluency":       Reading,

	// Writing
	"Writing Skills":   Writing,
	"Creative Writing": Writing,
	"Composition":      Writing,
	"Essay Writing":    Writing,
	"Handwriting":      Writing,

	// Listening
	"Listening Skills":        Listening,
	"Listening Comprehension": Listening,
	"Auditory Skills":         Listening,
	"Active Listening":        Listening,

	// Critical Thinking
	"Reasoning":           CriticalThinking,
	"Problem Solving":     CriticalThinking,
	"Analytical Thinking": CriticalThinking,
	"Logical Thinking":    CriticalThinking,
	"Inference":           CriticalThinking,
	"Critical Analysis":   CriticalThinking,
}
