package app

import (
	"context"
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/coach"
	"github.com/abhisek/skillpulse/internal/router"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/screens/coaching"
	"github.com/abhisek/skillpulse/internal/screens/concepts"
	"github.com/abhisek/skillpulse/internal/screens/history"
	"github.com/abhisek/skillpulse/internal/screens/mastery"
	"github.com/abhisek/skillpulse/internal/screens/overview"
	"github.com/abhisek/skillpulse/internal/screens/skills"
	"github.com/abhisek/skillpulse/internal/store"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
)

// Options holds everything the dashboard shows.
type Options struct {
	Report analytics.Report
	Render render.Options

	// Reports backs the history tab; nil hides saved reports.
	Reports       store.ReportRepo
	HistoryFilter store.ReportFilter

	// Coach generates notes on the coach tab; nil disables generation.
	Coach *coach.Coach

	// Previous is the last saved report for the same learner and program.
	Previous *analytics.Report
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	info   layout.HeaderInfo
	width  int
	height int
}

// New creates the dashboard with one tab per view of the report.
func New(opts Options) AppModel {
	coachInput := coach.Input{
		LearnerID:   opts.Render.Learner,
		ProgramName: opts.Render.Program,
		Report:      opts.Report,
		Previous:    opts.Previous,
	}
	r := router.New(
		overview.New(opts.Report, opts.Render),
		skills.New(opts.Report, opts.Render),
		mastery.New(opts.Report, opts.Render),
		concepts.New(opts.Report, opts.Render),
		history.New(opts.Reports, opts.HistoryFilter, opts.Render),
		coaching.New(opts.Coach, coachInput, opts.Render),
	)
	return AppModel{
		router: r,
		info:   layout.HeaderInfo{Learner: opts.Render.Learner, Program: opts.Render.Program},
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.SelectTabMsg:
		return m, m.router.Update(msg)

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
			return m, m.router.Update(msg)
		}
		switch key {
		case "q":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "tab", "right", "l":
			m.router.Next()
			return m, nil
		case "shift+tab", "left", "h":
			m.router.Prev()
			return m, nil
		}
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
			m.router.Select(n - 1)
			return m, nil
		}
		return m, m.router.Update(msg)
	}

	return m, m.router.Broadcast(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.info, m.width) + "\n" +
		layout.RenderTabs(m.router.TabTitles(), m.router.ActiveTab(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	if m.router.Depth() > 1 {
		footerHints = append(footerHints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "q", Description: "Quit"})
	footer := layout.RenderFooter(dedupe(footerHints), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// dedupe drops repeated keys, keeping the first description.
func dedupe(hints []layout.KeyHint) []layout.KeyHint {
	seen := make(map[string]bool, len(hints))
	out := hints[:0]
	for _, h := range hints {
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		out = append(out, h)
	}
	return out
}

// Run starts the dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
