package overview

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// OverviewScreen shows headline numbers, strengths and areas to improve.
type OverviewScreen struct {
	report analytics.Report
	opts   render.Options
	view   *components.ScrollView
	title  string
}

var _ screen.Screen = (*OverviewScreen)(nil)
var _ screen.KeyHintProvider = (*OverviewScreen)(nil)

// New creates an OverviewScreen for r.
func New(r analytics.Report, opts render.Options) *OverviewScreen {
	s := &OverviewScreen{report: r, opts: opts, title: "Overview"}
	s.view = components.NewScrollView(s.render)
	return s
}

// NewSaved creates an OverviewScreen that renders the full report, used for
// reports opened from history.
func NewSaved(title string, r analytics.Report, opts render.Options) *OverviewScreen {
	s := &OverviewScreen{report: r, opts: opts, title: title}
	s.view = components.NewScrollView(func(width int) string {
		o := s.opts
		o.Width = width
		return "\n" + render.Report(s.report, o)
	})
	return s
}

func (s *OverviewScreen) Init() tea.Cmd { return nil }
func (s *OverviewScreen) Title() string { return s.title }

func (s *OverviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return s, s.view.Update(msg)
	}
	return s, nil
}

func (s *OverviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Tab", Description: "Next tab"},
		{Key: "q", Description: "Quit"},
	}
}

func (s *OverviewScreen) View(width, height int) string {
	return s.view.View(width, height)
}

func (s *OverviewScreen) render(width int) string {
	o := s.opts
	o.Width = width

	if s.report.IsEmpty() {
		return "\n" + theme.Hint.Render("  No progress recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(render.Overview(s.report, o))
	b.WriteString("\n")
	b.WriteString(render.Concepts("Strengths", s.report.Strengths, o))
	b.WriteString("\n")
	b.WriteString(render.Concepts("Areas to improve", s.report.AreasToImprove, o))
	if len(s.report.UnmappedLabels) > 0 {
		b.WriteString("\n")
		b.WriteString(render.Unmapped(s.report.UnmappedLabels, o))
	}
	return b.String()
}
