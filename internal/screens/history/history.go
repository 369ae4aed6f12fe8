package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/router"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/screens/overview"
	"github.com/abhisek/skillpulse/internal/store"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

const listLimit = 100

type historyLoadedMsg struct {
	Reports []store.ReportSummary
	Err     error
}

type reportOpenedMsg struct {
	Report *store.SavedReport
	Err    error
}

// HistoryScreen lists saved reports, newest first.
type HistoryScreen struct {
	repo    store.ReportRepo
	filter  store.ReportFilter
	opts    render.Options
	reports []store.ReportSummary
	cursor  components.ListCursor
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. A nil repo shows a notice instead of a list.
func New(repo store.ReportRepo, filter store.ReportFilter, opts render.Options) *HistoryScreen {
	if filter.Limit == 0 {
		filter.Limit = listLimit
	}
	return &HistoryScreen{repo: repo, filter: filter, opts: opts}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.repo == nil {
		return nil
	}
	return s.load
}

func (s *HistoryScreen) load() tea.Msg {
	reports, err := s.repo.List(context.Background(), s.filter)
	return historyLoadedMsg{Reports: reports, Err: err}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "R", Description: "Reload"},
		{Key: "Tab", Description: "Next tab"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.reports = msg.Reports
			s.cursor.SetLen(len(s.reports))
		}
		s.loaded = true
		return s, nil

	case reportOpenedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		saved := msg.Report
		o := s.opts
		o.Learner = saved.LearnerID
		o.Program = saved.ProgramName
		title := "Report " + saved.CreatedAt.Local().Format("Jan 02 15:04")
		detail := overview.NewSaved(title, saved.Report, o)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }

	case tea.KeyMsg:
		if s.cursor.Update(msg, 10) {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			return s, s.open()
		case "R":
			if s.repo != nil {
				return s, s.load
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) open() tea.Cmd {
	if s.repo == nil || len(s.reports) == 0 {
		return nil
	}
	id := s.reports[s.cursor.Selected].ID
	return func() tea.Msg {
		rep, err := s.repo.Get(context.Background(), id)
		return reportOpenedMsg{Report: rep, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	switch {
	case s.repo == nil:
		return center(theme.Hint, "\n\nHistory is unavailable without a database.")
	case s.errMsg != "":
		return center(lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	case !s.loaded:
		return center(theme.Dim, "\n\nLoading history...")
	case len(s.reports) == 0:
		return center(theme.Hint, "\n\nNo saved reports yet. Run `skillpulse report --save`.")
	}

	lines := []string{"", theme.Dim.Render(fmt.Sprintf("  %-17s %-24s %-12s %10s %8s",
		"Saved", "Program", "Learner", "Complete", "Change"))}

	start, end := s.cursor.Window(max(height-len(lines), 1))
	for i := start; i < end; i++ {
		lines = append(lines, s.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (s *HistoryScreen) renderRow(i int) string {
	r := s.reports[i]

	program := r.ProgramName
	if program == "" {
		program = r.ProgramID
	}
	if program == "" {
		program = r.Source
	}

	// Reports are newest first, so the previous report sits below.
	change := ""
	changeStyle := theme.Dim
	for _, older := range s.reports[i+1:] {
		if older.LearnerID == r.LearnerID && older.ProgramID == r.ProgramID {
			d := r.OverallCompletion - older.OverallCompletion
			change = fmt.Sprintf("%+.1f", d)
			switch {
			case d > 0:
				changeStyle = theme.Strength
			case d < 0:
				changeStyle = theme.Improve
			}
			break
		}
	}

	prefix := "  "
	style := theme.Body
	if i == s.cursor.Selected {
		prefix = "▸ "
		style = theme.Selected
	}

	line := fmt.Sprintf("%s%-17s %-24s %-12s %9.1f%%",
		prefix,
		r.CreatedAt.Local().Format("2006-01-02 15:04"),
		clip(program, 24),
		clip(r.LearnerID, 12),
		r.OverallCompletion)
	return style.Render(line) + " " + changeStyle.Render(fmt.Sprintf("%8s", change))
}

func clip(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w-1]) + "…"
}
