package skills

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillpulse/internal/analytics"
	"github.com/abhisek/skillpulse/internal/progress"
	"github.com/abhisek/skillpulse/internal/router"
	"github.com/abhisek/skillpulse/internal/taxonomy"
	"github.com/abhisek/skillpulse/internal/ui/render"
)

func testReport() analytics.Report {
	e := analytics.NewEngine(nil, analytics.DefaultConfig())
	return e.Run(progress.FromFlat([]progress.FlatConcept{
		{ConceptID: "c1", ConceptName: "Main idea", TotalMaxScore: 10, UserTotalScore: 8, TotalSubconcepts: 2, CompletedSubconcepts: 2, Skill1: "Reading"},
		{ConceptID: "c2", ConceptName: "Tenses", TotalMaxScore: 10, UserTotalScore: 3, TotalSubconcepts: 2, Skill1: "Grammar", Skill2: "Writing"},
	}))
}

func TestSkillsScreen_RadarOrder(t *testing.T) {
	s := New(testReport(), render.DefaultOptions())
	require.Len(t, s.points, len(taxonomy.AllSkills()))
	assert.Equal(t, taxonomy.Speaking, s.points[0].Skill)
	assert.Equal(t, "Skills", s.Title())
}

func TestSkillsScreen_RankToggleKeepsSelection(t *testing.T) {
	s := New(testReport(), render.DefaultOptions())
	s.cursor.Selected = taxonomy.Index(taxonomy.Grammar)

	s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.True(t, s.ranked)
	assert.Equal(t, taxonomy.Reading, s.points[0].Skill)
	assert.Equal(t, 80, s.points[0].Value)

	sel, ok := s.selected()
	require.True(t, ok)
	assert.Equal(t, taxonomy.Grammar, sel.Skill)
	assert.Len(t, s.points, len(taxonomy.AllSkills()))
}

func TestSkillsScreen_EnterPushesDetail(t *testing.T) {
	s := New(testReport(), render.DefaultOptions())
	s.cursor.Selected = taxonomy.Index(taxonomy.Writing)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)

	detail := push.Screen.(*SkillDetailScreen)
	assert.Equal(t, "Writing", detail.Title())
	require.Len(t, detail.concepts, 1)
	assert.Equal(t, "Tenses", detail.concepts[0].Name)
	assert.Contains(t, detail.View(80, 30), "Tenses")
}

func TestSkillsScreen_View(t *testing.T) {
	s := New(testReport(), render.DefaultOptions())
	view := s.View(80, 20)
	assert.Contains(t, view, "Speaking")
	assert.Contains(t, view, "concepts")
}

func TestSkillDetail_BackspacePops(t *testing.T) {
	d := newSkillDetail(taxonomy.Reading, analytics.SkillScore{}, nil, render.DefaultOptions())
	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
