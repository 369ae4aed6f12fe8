package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/taxonomy"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	TabActive = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Strength = lipgloss.NewStyle().
			Foreground(Success)

	Improve = lipgloss.NewStyle().
		Foreground(Error)
)

// SkillColor returns the configured display color for s, falling back to
// Secondary when the taxonomy has none.
func SkillColor(canon *taxonomy.Canonicalizer, s taxonomy.Skill) color.Color {
	if canon != nil {
		if hex := canon.Color(s); hex != "" {
			return lipgloss.Color(hex)
		}
	}
	return Secondary
}

// RatioColor grades a 0..1 ratio against the strength and improve
// thresholds.
func RatioColor(ratio, strength, improve float64) color.Color {
	switch {
	case ratio >= strength:
		return Success
	case ratio < improve:
		return Error
	default:
		return Warning
	}
}
