package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// ConceptTable renders every concept in input order as a bordered table.
func ConceptTable(concepts []analytics.ConceptProgress, o Options) string {
	rows := make([][]string, 0, len(concepts))
	ratios := make([]float64, 0, len(concepts))
	for _, c := range concepts {
		skills := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			skills = append(skills, string(s))
		}
		pct := "--"
		if c.MaxScore > 0 {
			pct = fmt.Sprintf("%d%%", analytics.Percent(c.UserScore, c.MaxScore))
		}
		rows = append(rows, []string{
			ConceptLabel(c),
			fmt.Sprintf("%s/%s", number(c.UserScore), number(c.MaxScore)),
			pct,
			fmt.Sprintf("%d/%d", c.CompletedSubconcepts, c.TotalSubconcepts),
			strings.Join(skills, ", "),
		})
		ratios = append(ratios, c.Ratio())
	}

	hasMax := func(i int) bool { return concepts[i].MaxScore > 0 }

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Concept", "Score", "%", "Done", "Skills").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Foreground(theme.Secondary).Bold(true)
			case col == 2 && hasMax(row):
				return s.Foreground(theme.RatioColor(ratios[row],
					o.Config.StrengthThreshold, o.Config.ImproveThreshold))
			case col == 0:
				return s.Foreground(theme.Text)
			default:
				return s.Foreground(theme.TextDim)
			}
		})
	if o.Width > 0 {
		t = t.Width(o.Width)
	}
	return theme.Section.Render("Concepts") + "\n" + t.String() + "\n"
}
