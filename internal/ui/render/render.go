// Package render draws analytics reports as styled terminal text. The
// printable report and the dashboard screens share these sections.
package render

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/taxonomy"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// skillLabelWidth fits the longest umbrella skill name.
const skillLabelWidth = 18

// Options controls how sections are drawn.
type Options struct {
	Width   int
	Canon   *taxonomy.Canonicalizer
	Config  analytics.Config
	Learner string
	Program string

	// MaxConcepts caps strength and improvement lists; 0 shows all.
	MaxConcepts int
}

// DefaultOptions returns options for an 80-column terminal and the default
// taxonomy and thresholds.
func DefaultOptions() Options {
	return Options{
		Width:       80,
		Canon:       taxonomy.MustDefault(),
		Config:      analytics.DefaultConfig(),
		MaxConcepts: 5,
	}
}

func (o Options) barWidth() int {
	return max(o.Width-4, 30)
}

// Report renders every section of r, top to bottom.
func Report(r analytics.Report, o Options) string {
	var b strings.Builder

	title := "Skill report"
	if o.Program != "" {
		title += " · " + o.Program
	}
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	if o.Learner != "" {
		b.WriteString(theme.Dim.Render("Learner " + o.Learner))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if r.IsEmpty() {
		b.WriteString(theme.Hint.Render("No progress recorded yet."))
		b.WriteString("\n")
		return b.String()
	}

	sections := []string{
		Overview(r, o),
		Skills(r, o),
		Mastery(r, o),
		Distribution(r, o),
		Concepts("Strengths", r.Strengths, o),
		Concepts("Areas to improve", r.AreasToImprove, o),
	}
	if len(r.UnmappedLabels) > 0 {
		sections = append(sections, Unmapped(r.UnmappedLabels, o))
	}
	for _, s := range sections {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

// Overview renders the headline numbers.
func Overview(r analytics.Report, o Options) string {
	var b strings.Builder
	b.WriteString(theme.Section.Render("Overview"))
	b.WriteString("\n")

	bar := components.NewProgressBar("Completion", r.OverallCompletion/100, true, o.barWidth()).
		WithLabelWidth(skillLabelWidth).
		WithColor(theme.Primary)
	b.WriteString("  " + bar.View() + "\n")

	row := func(label, value string) {
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  %-*s", skillLabelWidth+2, label)))
		b.WriteString(theme.Body.Render(value))
		b.WriteString("\n")
	}
	row("Score", fmt.Sprintf("%s / %s", number(r.TotalScore), number(r.TotalMaxScore)))
	row("Average", fmt.Sprintf("%.1f / %s", r.AverageScore, number(o.Config.ScoreScale)))
	row("Concepts", fmt.Sprintf("%d  (%d strong, %d to improve)",
		len(r.ConceptProgress), len(r.Strengths), len(r.AreasToImprove)))
	if r.AttemptCount > 0 {
		row("Attempts", fmt.Sprintf("%d", r.AttemptCount))
	}
	if r.LastActivity != nil {
		row("Last activity", r.LastActivity.Local().Format(time.DateTime))
	}
	return b.String()
}

// Skills renders the radar axes as bars in canonical skill order.
func Skills(r analytics.Report, o Options) string {
	var b strings.Builder
	b.WriteString(theme.Section.Render("Skills"))
	b.WriteString("\n")
	for _, p := range r.Views.Radar {
		b.WriteString("  " + SkillBar(p.Skill, p.Value, o) + "\n")
	}
	return b.String()
}

// SkillBar renders one skill score as a colored bar.
func SkillBar(skill taxonomy.Skill, score int, o Options) string {
	return components.NewProgressBar(string(skill), float64(score)/100, true, o.barWidth()).
		WithLabelWidth(skillLabelWidth).
		WithColor(theme.SkillColor(o.Canon, skill)).
		View()
}

// Mastery renders subconcept completion per skill, most complete first.
func Mastery(r analytics.Report, o Options) string {
	var b strings.Builder
	b.WriteString(theme.Section.Render("Mastery"))
	b.WriteString("\n")
	if len(r.Views.Mastery) == 0 {
		b.WriteString(theme.Hint.Render("  No subconcepts yet."))
		b.WriteString("\n")
		return b.String()
	}
	for _, m := range r.Views.Mastery {
		b.WriteString("  " + MasteryBar(m, o) + "\n")
	}
	return b.String()
}

// MasteryBar renders one mastery entry with its completed/total counts.
func MasteryBar(m analytics.MasteryEntry, o Options) string {
	counts := fmt.Sprintf("  %d/%d", m.CompletedCount, m.TotalCount)
	bar := components.NewProgressBar(string(m.Skill), float64(m.Percent)/100, true, o.barWidth()-len(counts)).
		WithLabelWidth(skillLabelWidth).
		WithColor(theme.SkillColor(o.Canon, m.Skill))
	return bar.View() + theme.Dim.Render(counts)
}

// Distribution renders each skill's share of the summed coverage values.
func Distribution(r analytics.Report, o Options) string {
	var b strings.Builder
	b.WriteString(theme.Section.Render("Coverage"))
	b.WriteString("\n")

	total := 0
	for _, d := range r.SkillDistribution {
		total += d.Value
	}
	if total == 0 {
		b.WriteString(theme.Hint.Render("  No scored skills yet."))
		b.WriteString("\n")
		return b.String()
	}
	for _, d := range r.SkillDistribution {
		share := float64(d.Value) / float64(total)
		bar := components.NewProgressBar(d.Name, share, true, o.barWidth()).
			WithLabelWidth(skillLabelWidth).
			WithColor(theme.SkillColor(o.Canon, taxonomy.Skill(d.Name)))
		b.WriteString("  " + bar.View() + "\n")
	}
	return b.String()
}

// Concepts renders a titled concept list, capped at o.MaxConcepts.
func Concepts(title string, concepts []analytics.ConceptProgress, o Options) string {
	var b strings.Builder
	b.WriteString(theme.Section.Render(title))
	b.WriteString("\n")
	if len(concepts) == 0 {
		b.WriteString(theme.Hint.Render("  None."))
		b.WriteString("\n")
		return b.String()
	}
	shown := concepts
	if o.MaxConcepts > 0 && len(shown) > o.MaxConcepts {
		shown = shown[:o.MaxConcepts]
	}
	for _, c := range shown {
		b.WriteString(ConceptRow(c, false, o))
		b.WriteString("\n")
	}
	if more := len(concepts) - len(shown); more > 0 {
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  … and %d more", more)))
		b.WriteString("\n")
	}
	return b.String()
}

// ConceptRow renders one concept: name, skills, earned/max and ratio,
// colored by classification.
func ConceptRow(c analytics.ConceptProgress, selected bool, o Options) string {
	ratio := c.Ratio()
	pct := fmt.Sprintf("%3d%%", analytics.Percent(c.UserScore, c.MaxScore))
	score := fmt.Sprintf("%s/%s", number(c.UserScore), number(c.MaxScore))
	if c.MaxScore <= 0 {
		pct = "  --"
	}

	skills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		skills = append(skills, lipgloss.NewStyle().
			Foreground(theme.SkillColor(o.Canon, s)).
			Render(s.ShortName()))
	}

	fixed := 4 + 2 + 12 + 2 + 5 + 2 + 22
	nameWidth := max(o.Width-fixed, 12)
	name := fmt.Sprintf("%-*s", nameWidth, clip(ConceptLabel(c), nameWidth))

	cursor := "  "
	nameStyle := theme.Body
	if selected {
		cursor = "▸ "
		nameStyle = theme.Selected
	}

	pctStyle := theme.Dim
	if c.MaxScore > 0 {
		pctStyle = lipgloss.NewStyle().Foreground(
			theme.RatioColor(ratio, o.Config.StrengthThreshold, o.Config.ImproveThreshold))
	}

	return "  " + cursor +
		nameStyle.Render(name) + "  " +
		theme.Dim.Render(fmt.Sprintf("%12s", score)) + "  " +
		pctStyle.Render(pct) + "  " +
		strings.Join(skills, theme.Dim.Render(", "))
}

// Unmapped renders the raw labels that fell back to the catch-all skill.
func Unmapped(labels []string, o Options) string {
	var b strings.Builder
	b.WriteString(theme.Section.Render("Unrecognized skill labels"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(o.barWidth()).
		PaddingLeft(2).
		Foreground(theme.TextDim).
		Render(strings.Join(labels, ", ")))
	b.WriteString("\n")
	return b.String()
}

// ConceptLabel returns the concept name, or its ID when unnamed.
func ConceptLabel(c analytics.ConceptProgress) string {
	if c.Name != "" {
		return c.Name
	}
	if c.ID != "" {
		return c.ID
	}
	return analytics.UnassignedConcept
}

func number(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func clip(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w-1]) + "…"
}
