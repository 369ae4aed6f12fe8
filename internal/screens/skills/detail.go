package skills

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/router"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/taxonomy"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// SkillDetailScreen shows one skill's totals and the concepts that feed it.
type SkillDetailScreen struct {
	skill    taxonomy.Skill
	score    analytics.SkillScore
	concepts []analytics.ConceptProgress
	opts     render.Options
	view     *components.ScrollView
}

var _ screen.Screen = (*SkillDetailScreen)(nil)
var _ screen.KeyHintProvider = (*SkillDetailScreen)(nil)

func newSkillDetail(skill taxonomy.Skill, score analytics.SkillScore, all []analytics.ConceptProgress, opts render.Options) *SkillDetailScreen {
	var concepts []analytics.ConceptProgress
	for _, c := range all {
		if slices.Contains(c.Skills, skill) {
			concepts = append(concepts, c)
		}
	}
	d := &SkillDetailScreen{skill: skill, score: score, concepts: concepts, opts: opts}
	d.view = components.NewScrollView(d.render)
	return d
}

func (d *SkillDetailScreen) Init() tea.Cmd { return nil }
func (d *SkillDetailScreen) Title() string { return string(d.skill) }

func (d *SkillDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == "backspace" {
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return d, d.view.Update(msg)
	}
	return d, nil
}

func (d *SkillDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *SkillDetailScreen) View(width, height int) string {
	return d.view.View(width, height)
}

func (d *SkillDetailScreen) render(width int) string {
	o := d.opts
	o.Width = width - 2

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.SkillColor(o.Canon, d.skill)).
		Bold(true).
		Render("  " + string(d.skill)))
	b.WriteString("\n\n")
	b.WriteString(render.SkillBar(d.skill, d.score.Score, o))
	b.WriteString("\n\n")

	dimStyle := theme.Dim
	valStyle := theme.Body
	b.WriteString(dimStyle.Render("  Score:       ") + valStyle.Render(fmt.Sprintf("%.1f / %.1f", d.score.RawScore, d.score.RawMaxScore)) + "\n")
	b.WriteString(dimStyle.Render("  Concepts:    ") + valStyle.Render(fmt.Sprintf("%d", d.score.ConceptCount)) + "\n")
	b.WriteString(dimStyle.Render("  Completed:   ") + valStyle.Render(fmt.Sprintf("%d of %d subconcepts", d.score.CompletedCount, d.score.TotalCount)) + "\n")
	b.WriteString("\n")

	o.MaxConcepts = 0
	b.WriteString(render.Concepts("Concepts", d.concepts, o))
	return b.String()
}
