package taxonomy

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Canonicalizer maps raw skill labels onto umbrella skills.
// It is immutable after New and safe for concurrent use.
type Canonicalizer struct {
	exact    map[string]Skill
	folded   map[string]Skill
	umbrella map[string]Skill
	colors   map[Skill]string
	fallback Skill
}

// Alias is one raw-label mapping, used for listings.
type Alias struct {
	Label string
	Skill Skill
}

// New validates cfg and builds the lookup indices.
// Returns a combined error describing all problems found.
func New(cfg Config) (*Canonicalizer, error) {
	var errs []string

	if !IsUmbrella(cfg.Fallback) {
		errs = append(errs, fmt.Sprintf("fallback %q is not an umbrella skill", cfg.Fallback))
	}

	c := &Canonicalizer{
		exact:    make(map[string]Skill, len(cfg.Aliases)),
		folded:   make(map[string]Skill, len(cfg.Aliases)),
		umbrella: make(map[string]Skill),
		colors:   make(map[Skill]string, len(cfg.Colors)),
		fallback: cfg.Fallback,
	}

	for _, s := range AllSkills() {
		c.umbrella[fold(string(s))] = s
	}

	// Sorted so that folded collisions resolve the same way on every run.
	labels := make([]string, 0, len(cfg.Aliases))
	for label := range cfg.Aliases {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		target := cfg.Aliases[label]
		if !IsUmbrella(target) {
			errs = append(errs, fmt.Sprintf("alias %q targets unknown skill %q", label, target))
			continue
		}
		if strings.TrimSpace(label) == "" {
			errs = append(errs, "alias with empty label")
			continue
		}
		c.exact[label] = target
		key := fold(label)
		if prev, ok := c.folded[key]; ok && prev != target {
			errs = append(errs, fmt.Sprintf("aliases for %q disagree: %q vs %q", key, prev, target))
			continue
		}
		c.folded[key] = target
	}

	for skill, color := range cfg.Colors {
		if !IsUmbrella(skill) {
			errs = append(errs, fmt.Sprintf("color for unknown skill %q", skill))
			continue
		}
		if !hexColor.MatchString(color) {
			errs = append(errs, fmt.Sprintf("color %q for %s must be #RRGGBB", color, skill))
			continue
		}
		c.colors[skill] = color
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return nil, fmt.Errorf("taxonomy validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return c, nil
}

// MustDefault returns a Canonicalizer built from DefaultConfig.
// It panics if the built-in tables are invalid.
func MustDefault() *Canonicalizer {
	c, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return c
}

// Canonicalize resolves a label pair to a single umbrella skill.
//
// Resolution order: exact match on raw1, exact match on raw2,
// case-insensitive match on raw1 then raw2, either label naming an umbrella
// skill directly, and finally the fallback.
func (c *Canonicalizer) Canonicalize(raw1, raw2 string) Skill {
	if s, ok := c.exact[raw1]; ok {
		return s
	}
	if s, ok := c.exact[raw2]; ok {
		return s
	}
	f1, f2 := fold(raw1), fold(raw2)
	if s, ok := c.folded[f1]; ok && f1 != "" {
		return s
	}
	if s, ok := c.folded[f2]; ok && f2 != "" {
		return s
	}
	if s, ok := c.umbrella[f1]; ok {
		return s
	}
	if s, ok := c.umbrella[f2]; ok {
		return s
	}
	return c.fallback
}

// Resolve returns the distinct umbrella skills a concept tagged with raw1
// and raw2 contributes to. Each non-empty label is resolved on its own and
// duplicates are dropped, so the result has one or two entries.
func (c *Canonicalizer) Resolve(raw1, raw2 string) []Skill {
	var out []Skill
	for _, raw := range [2]string{raw1, raw2} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s := c.Canonicalize(raw, "")
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []Skill{c.fallback}
	}
	return out
}

// Known reports whether label resolves without falling back.
// Empty labels are not known.
func (c *Canonicalizer) Known(label string) bool {
	f := fold(label)
	if f == "" {
		return false
	}
	if _, ok := c.exact[label]; ok {
		return true
	}
	if _, ok := c.folded[f]; ok {
		return true
	}
	_, ok := c.umbrella[f]
	return ok
}

// Fallback returns the catch-all umbrella skill.
func (c *Canonicalizer) Fallback() Skill {
	return c.fallback
}

// Color returns the display color for s, or "" if none is configured.
func (c *Canonicalizer) Color(s Skill) string {
	return c.colors[s]
}

// Aliases returns every configured alias ordered by umbrella skill
// (canonical order) and then by label.
func (c *Canonicalizer) Aliases() []Alias {
	out := make([]Alias, 0, len(c.exact))
	for label, s := range c.exact {
		out = append(out, Alias{Label: label, Skill: s})
	}
	sort.Slice(out, func(i, j int) bool {
		ii, ij := Index(out[i].Skill), Index(out[j].Skill)
		if ii != ij {
			return ii < ij
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
