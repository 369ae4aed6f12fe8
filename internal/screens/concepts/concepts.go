package concepts

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// SortMode orders the concept list.
type SortMode int

const (
	SortInput SortMode = iota
	SortWeakest
	SortStrongest
)

func (m SortMode) String() string {
	switch m {
	case SortWeakest:
		return "weakest first"
	case SortStrongest:
		return "strongest first"
	default:
		return "program order"
	}
}

// ConceptsScreen is a filterable, sortable list of every concept.
type ConceptsScreen struct {
	all     []analytics.ConceptProgress
	visible []analytics.ConceptProgress
	opts    render.Options
	filter  components.FilterInput
	cursor  components.ListCursor
	sort    SortMode
}

var _ screen.Screen = (*ConceptsScreen)(nil)
var _ screen.KeyHintProvider = (*ConceptsScreen)(nil)
var _ screen.InputCapturer = (*ConceptsScreen)(nil)

// New creates a ConceptsScreen over r's concepts.
func New(r analytics.Report, opts render.Options) *ConceptsScreen {
	s := &ConceptsScreen{
		all:    r.ConceptProgress,
		opts:   opts,
		filter: components.NewFilterInput("concept or skill", 64),
	}
	s.refresh()
	return s
}

func (s *ConceptsScreen) Init() tea.Cmd { return nil }
func (s *ConceptsScreen) Title() string { return "Concepts" }

// CapturingInput reports whether the filter is being typed into.
func (s *ConceptsScreen) CapturingInput() bool {
	return s.filter.Focused()
}

// Visible returns the concepts currently listed, in display order.
func (s *ConceptsScreen) Visible() []analytics.ConceptProgress {
	return s.visible
}

func (s *ConceptsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.filter.Focused() {
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.filter.Focused() {
		switch kmsg.String() {
		case "enter":
			s.filter.Blur()
			return s, nil
		case "esc":
			s.filter.Reset()
			s.filter.Blur()
			s.refresh()
			return s, nil
		}
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		s.refresh()
		return s, cmd
	}

	if s.cursor.Update(msg, 10) {
		return s, nil
	}
	switch kmsg.String() {
	case "/":
		return s, s.filter.Focus()
	case "s":
		s.sort = (s.sort + 1) % 3
		s.refresh()
	case "x":
		s.filter.Reset()
		s.refresh()
	}
	return s, nil
}

func (s *ConceptsScreen) KeyHints() []layout.KeyHint {
	if s.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "/", Description: "Filter"},
		{Key: "s", Description: "Sort"},
		{Key: "x", Description: "Clear filter"},
		{Key: "Tab", Description: "Next tab"},
	}
}

func (s *ConceptsScreen) View(width, height int) string {
	o := s.opts
	o.Width = width - 2

	status := theme.Dim.Render(fmt.Sprintf("  %d of %d · %s", len(s.visible), len(s.all), s.sort))
	lines := []string{"", "  " + s.filter.View(), status, ""}

	if len(s.visible) == 0 {
		msg := "  No concepts yet."
		if len(s.all) > 0 {
			msg = "  No concepts match the filter."
		}
		lines = append(lines, theme.Hint.Render(msg))
		return strings.Join(lines, "\n")
	}

	start, end := s.cursor.Window(max(height-len(lines), 1))
	for i := start; i < end; i++ {
		lines = append(lines, render.ConceptRow(s.visible[i], i == s.cursor.Selected, o))
	}
	return strings.Join(lines, "\n")
}

// refresh applies the filter and sort to the full concept list.
func (s *ConceptsScreen) refresh() {
	visible := make([]analytics.ConceptProgress, 0, len(s.all))
	for _, c := range s.all {
		fields := []string{c.Name, c.ID, c.Skill1, c.Skill2}
		for _, sk := range c.Skills {
			fields = append(fields, string(sk))
		}
		if s.filter.Match(fields...) {
			visible = append(visible, c)
		}
	}

	if s.sort != SortInput {
		sort.SliceStable(visible, func(i, j int) bool {
			return s.less(visible[i], visible[j])
		})
	}

	s.visible = visible
	s.cursor.SetLen(len(visible))
}

// less orders by ratio in the current direction. Concepts without a max
// score always sort last.
func (s *ConceptsScreen) less(a, b analytics.ConceptProgress) bool {
	aScored, bScored := a.MaxScore > 0, b.MaxScore > 0
	if aScored != bScored {
		return aScored
	}
	if s.sort == SortStrongest {
		return a.Ratio() > b.Ratio()
	}
	return a.Ratio() < b.Ratio()
}
