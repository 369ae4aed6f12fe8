package render

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/coach"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// Deltas renders per-skill score changes since the previous report.
// Unchanged skills are omitted.
func Deltas(deltas []coach.SkillDelta, o Options) string {
	var b strings.Builder
	b.WriteString(theme.Section.Render("Since last report"))
	b.WriteString("\n")

	shown := 0
	for _, d := range deltas {
		if d.Change() == 0 {
			continue
		}
		style := theme.Strength
		if d.Change() < 0 {
			style = theme.Improve
		}
		b.WriteString(fmt.Sprintf("  %-*s %3d → %3d  %s\n",
			skillLabelWidth, d.Skill, d.Previous, d.Current,
			style.Render(fmt.Sprintf("%+d", d.Change()))))
		shown++
	}
	if shown == 0 {
		b.WriteString(theme.Hint.Render("  No skill scores changed."))
		b.WriteString("\n")
	}
	return b.String()
}

// Notes renders coaching notes.
func Notes(n *coach.Notes, o Options) string {
	wrap := lipgloss.NewStyle().Width(max(o.Width-4, 20)).PaddingLeft(2)

	var b strings.Builder
	b.WriteString(theme.Section.Render("Coaching notes"))
	b.WriteString("\n")
	b.WriteString(wrap.Foreground(theme.Text).Render(n.Summary))
	b.WriteString("\n")

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n")
		b.WriteString(theme.Section.Render(title))
		b.WriteString("\n")
		for _, it := range items {
			b.WriteString(wrap.Foreground(theme.Text).Render("• " + it))
			b.WriteString("\n")
		}
	}

	list("What's going well", n.Strengths)

	if len(n.Focus) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Section.Render("Focus"))
		b.WriteString("\n")
		for _, f := range n.Focus {
			head := lipgloss.NewStyle().Foreground(theme.SkillColor(o.Canon, f.Skill)).Bold(true).Render(string(f.Skill))
			if f.Concept != "" {
				head += theme.Dim.Render(" · " + f.Concept)
			}
			b.WriteString("  " + head + "\n")
			b.WriteString(wrap.PaddingLeft(4).Foreground(theme.Text).Render(f.Suggestion))
			b.WriteString("\n")
		}
	}

	list("Next steps", n.NextSteps)

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  %s · %s", n.Model, n.GeneratedAt.Local().Format(time.DateTime))))
	b.WriteString("\n")
	return b.String()
}
