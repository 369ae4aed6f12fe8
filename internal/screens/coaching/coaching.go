package coaching

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/coach"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// generateTimeout bounds one notes request including retries.
const generateTimeout = 2 * time.Minute

type notesMsg struct {
	Notes *coach.Notes
	Err   error
}

// CoachScreen shows skill changes since the previous report and generates
// coaching notes on demand.
type CoachScreen struct {
	coach   *coach.Coach
	input   coach.Input
	opts    render.Options
	deltas  []coach.SkillDelta
	notes   *coach.Notes
	errMsg  string
	pending bool
	spinner spinner.Model
	view    *components.ScrollView
}

var _ screen.Screen = (*CoachScreen)(nil)
var _ screen.KeyHintProvider = (*CoachScreen)(nil)

// New creates a CoachScreen. A nil c disables generation.
func New(c *coach.Coach, input coach.Input, opts render.Options) *CoachScreen {
	s := &CoachScreen{
		coach:   c,
		input:   input,
		opts:    opts,
		deltas:  coach.Deltas(input.Previous, input.Report),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
	}
	s.view = components.NewScrollView(s.render)
	return s
}

func (s *CoachScreen) Init() tea.Cmd { return nil }
func (s *CoachScreen) Title() string { return "Coach" }

// Notes returns the generated notes, or nil.
func (s *CoachScreen) Notes() *coach.Notes {
	return s.notes
}

func (s *CoachScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notesMsg:
		s.pending = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.notes = msg.Notes
		}
		s.view.Invalidate()
		return s, nil

	case spinner.TickMsg:
		if !s.pending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if msg.String() == "g" {
			return s, s.generate()
		}
		return s, s.view.Update(msg)
	}
	return s, nil
}

func (s *CoachScreen) generate() tea.Cmd {
	if s.coach == nil || s.pending || s.input.Report.IsEmpty() {
		return nil
	}
	s.pending = true
	s.errMsg = ""
	c, input := s.coach, s.input
	gen := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		notes, err := c.Generate(ctx, input)
		return notesMsg{Notes: notes, Err: err}
	}
	return tea.Batch(gen, s.spinner.Tick)
}

func (s *CoachScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if s.coach != nil {
		hints = append(hints, layout.KeyHint{Key: "g", Description: "Generate notes"})
	}
	return append(hints, layout.KeyHint{Key: "Tab", Description: "Next tab"})
}

func (s *CoachScreen) View(width, height int) string {
	if s.pending {
		return "\n  " + s.spinner.View() + theme.Dim.Render(" Writing coaching notes...")
	}
	return s.view.View(width, height)
}

func (s *CoachScreen) render(width int) string {
	o := s.opts
	o.Width = width

	var b strings.Builder
	b.WriteString("\n")
	if s.input.Previous != nil {
		b.WriteString(render.Deltas(s.deltas, o))
	} else {
		b.WriteString(theme.Hint.Render("  No earlier saved report to compare with."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  Error: " + s.errMsg))
		b.WriteString("\n")
	case s.notes != nil:
		b.WriteString(render.Notes(s.notes, o))
	case s.coach == nil:
		b.WriteString(theme.Hint.Render("  Set SKILLPULSE_LLM_PROVIDER or an API key to enable coaching notes."))
		b.WriteString("\n")
	case s.input.Report.IsEmpty():
		b.WriteString(theme.Hint.Render("  Nothing to coach on yet."))
		b.WriteString("\n")
	default:
		b.WriteString(theme.Hint.Render("  Press g to generate coaching notes."))
		b.WriteString("\n")
	}
	return b.String()
}
