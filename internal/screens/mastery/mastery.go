package mastery

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
)

// MasteryScreen shows subconcept completion and coverage per skill.
type MasteryScreen struct {
	report analytics.Report
	opts   render.Options
	view   *components.ScrollView
}

var _ screen.Screen = (*MasteryScreen)(nil)
var _ screen.KeyHintProvider = (*MasteryScreen)(nil)

// New creates a MasteryScreen for r.
func New(r analytics.Report, opts render.Options) *MasteryScreen {
	s := &MasteryScreen{report: r, opts: opts}
	s.view = components.NewScrollView(s.render)
	return s
}

func (s *MasteryScreen) Init() tea.Cmd { return nil }
func (s *MasteryScreen) Title() string { return "Mastery" }

func (s *MasteryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return s, s.view.Update(msg)
	}
	return s, nil
}

func (s *MasteryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Tab", Description: "Next tab"},
		{Key: "q", Description: "Quit"},
	}
}

func (s *MasteryScreen) View(width, height int) string {
	return s.view.View(width, height)
}

func (s *MasteryScreen) render(width int) string {
	o := s.opts
	o.Width = width

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(render.Mastery(s.report, o))
	b.WriteString("\n")
	b.WriteString(render.Distribution(s.report, o))
	return b.String()
}
