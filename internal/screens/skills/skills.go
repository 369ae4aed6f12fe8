package skills

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/router"
	"github.com/abhisek/skillpulse/internal/screen"
	"github.com/abhisek/skillpulse/internal/taxonomy"
	"github.com/abhisek/skillpulse/internal/ui/components"
	"github.com/abhisek/skillpulse/internal/ui/layout"
	"github.com/abhisek/skillpulse/internal/ui/render"
	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// SkillsScreen lists every umbrella skill with its score. Selecting a skill
// opens the concepts that feed it.
type SkillsScreen struct {
	report analytics.Report
	opts   render.Options
	points []analytics.RadarPoint
	scores map[taxonomy.Skill]analytics.SkillScore
	cursor components.ListCursor
	ranked bool
}

var _ screen.Screen = (*SkillsScreen)(nil)
var _ screen.KeyHintProvider = (*SkillsScreen)(nil)

// New creates a SkillsScreen for r in canonical skill order.
func New(r analytics.Report, opts render.Options) *SkillsScreen {
	s := &SkillsScreen{
		report: r,
		opts:   opts,
		scores: make(map[taxonomy.Skill]analytics.SkillScore, len(r.SkillScores)),
	}
	for _, sc := range r.SkillScores {
		s.scores[sc.Skill] = sc
	}
	s.setPoints()
	return s
}

func (s *SkillsScreen) Init() tea.Cmd { return nil }
func (s *SkillsScreen) Title() string { return "Skills" }

func (s *SkillsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if s.cursor.Update(msg, 5) {
		return s, nil
	}
	switch kmsg.String() {
	case "r":
		s.ranked = !s.ranked
		s.setPoints()
	case "enter":
		return s, s.selectSkill()
	}
	return s, nil
}

func (s *SkillsScreen) KeyHints() []layout.KeyHint {
	order := "Rank"
	if s.ranked {
		order = "Fixed order"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Concepts"},
		{Key: "r", Description: order},
		{Key: "Tab", Description: "Next tab"},
	}
}

func (s *SkillsScreen) View(width, height int) string {
	o := s.opts
	o.Width = width - 2

	var lines []string
	lines = append(lines, "", " "+theme.Section.Render(s.heading()))

	start, end := s.cursor.Window(max(height-3, 1))
	for i := start; i < end; i++ {
		p := s.points[i]
		cursor := "  "
		if i == s.cursor.Selected {
			cursor = lipgloss.NewStyle().Foreground(theme.Primary).Render("▸ ")
		}
		lines = append(lines, cursor+render.SkillBar(p.Skill, p.Value, o))
	}

	if sel, ok := s.selected(); ok {
		sc := s.scores[sel.Skill]
		lines = append(lines, "", theme.Dim.Render(fmt.Sprintf(
			"  %s: %d concepts, %d/%d subconcepts complete",
			sel.Skill, sc.ConceptCount, sc.CompletedCount, sc.TotalCount)))
	}
	return strings.Join(lines, "\n")
}

func (s *SkillsScreen) heading() string {
	if s.ranked {
		return "Skills by score"
	}
	return "Skills"
}

// setPoints orders rows in radar order, or by ranked score with unscored
// skills after the ranked ones.
func (s *SkillsScreen) setPoints() {
	var current taxonomy.Skill
	if sel, ok := s.selected(); ok {
		current = sel.Skill
	}

	radar := s.report.Views.Radar
	if !s.ranked {
		s.points = radar
	} else {
		points := make([]analytics.RadarPoint, 0, len(radar))
		seen := make(map[taxonomy.Skill]bool, len(radar))
		for _, sc := range analytics.RankSkills(s.report.SkillScores) {
			points = append(points, analytics.RadarPoint{Skill: sc.Skill, Value: sc.Score})
			seen[sc.Skill] = true
		}
		for _, p := range radar {
			if !seen[p.Skill] {
				points = append(points, p)
			}
		}
		s.points = points
	}
	s.cursor.SetLen(len(s.points))

	for i, p := range s.points {
		if p.Skill == current {
			s.cursor.Selected = i
		}
	}
}

func (s *SkillsScreen) selected() (analytics.RadarPoint, bool) {
	i := s.cursor.Selected
	if i < 0 || i >= len(s.points) {
		return analytics.RadarPoint{}, false
	}
	return s.points[i], true
}

func (s *SkillsScreen) selectSkill() tea.Cmd {
	sel, ok := s.selected()
	if !ok {
		return nil
	}
	detail := newSkillDetail(sel.Skill, s.scores[sel.Skill], s.report.ConceptProgress, s.opts)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}
