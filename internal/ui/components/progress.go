package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a 0..1 fraction.
type ProgressBar struct {
	Label       string
	LabelWidth  int
	Percent     float64
	ShowPercent bool
	Width       int
	Color       color.Color
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// WithColor returns a copy of p drawn in c.
func (p ProgressBar) WithColor(c color.Color) ProgressBar {
	p.Color = c
	return p
}

// WithLabelWidth returns a copy of p whose label column is padded to w cells
// so bars in a list line up.
func (p ProgressBar) WithLabelWidth(w int) ProgressBar {
	p.LabelWidth = w
	return p
}

// Filled returns how many of barWidth cells are filled.
func (p ProgressBar) Filled(barWidth int) int {
	filled := int(float64(barWidth)*p.Percent + 0.5)
	return min(max(filled, 0), barWidth)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" || p.LabelWidth > 0 {
		label := p.Label
		if p.LabelWidth > 0 {
			label = fmt.Sprintf("%-*s", p.LabelWidth, truncate(label, p.LabelWidth))
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := p.Filled(barWidth)
	empty := barWidth - filled

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled))
	result += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", empty))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %3d%%", int(p.Percent*100+0.5)))
	}

	return result
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
