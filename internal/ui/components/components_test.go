package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestProgressBarFilled(t *testing.T) {
	tests := []struct {
		percent float64
		want    int
	}{
		{0, 0},
		{0.5, 5},
		{0.67, 7},
		{1, 10},
		{1.5, 10},
		{-0.2, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.percent, false, 10)
		assert.Equal(t, tt.want, p.Filled(10), "percent %v", tt.percent)
	}
}

func TestProgressBarView(t *testing.T) {
	p := NewProgressBar("Reading", 0.8, true, 40).WithLabelWidth(10)
	view := p.View()
	assert.Contains(t, view, "Reading")
	assert.Contains(t, view, "80%")
	assert.Contains(t, view, "█")
}

func TestProgressBarLabelTruncated(t *testing.T) {
	p := NewProgressBar("Critical Thinking", 0.5, false, 40).WithLabelWidth(6)
	assert.Contains(t, p.View(), "Criti…")
}

func TestMatchQuery(t *testing.T) {
	assert.True(t, MatchQuery("", "anything"))
	assert.True(t, MatchQuery("  read ", "Reading"))
	assert.True(t, MatchQuery("GRAM", "Past tense", "Grammar"))
	assert.False(t, MatchQuery("listen", "Reading", "Grammar"))
	assert.False(t, MatchQuery("x"))
}

func TestFilterInputView(t *testing.T) {
	f := NewFilterInput("concept or skill", 40)
	assert.False(t, f.Focused())
	assert.True(t, strings.Contains(f.View(), "/ to filter"))
	f.Focus()
	assert.True(t, f.Focused())
	f.Blur()
	assert.False(t, f.Focused())
}

func TestListCursorMove(t *testing.T) {
	var c ListCursor
	c.SetLen(3)

	c.Move(-1)
	assert.Equal(t, 0, c.Selected)
	c.Move(5)
	assert.Equal(t, 2, c.Selected)

	c.SetLen(1)
	assert.Equal(t, 0, c.Selected)

	c.SetLen(0)
	c.Move(1)
	assert.Equal(t, 0, c.Selected)
}

func TestListCursorKeys(t *testing.T) {
	var c ListCursor
	c.SetLen(20)

	assert.True(t, c.Update(tea.KeyPressMsg{Code: tea.KeyDown}, 5))
	assert.Equal(t, 1, c.Selected)
	assert.True(t, c.Update(tea.KeyPressMsg{Code: tea.KeyPgDown}, 5))
	assert.Equal(t, 6, c.Selected)
	assert.True(t, c.Update(tea.KeyPressMsg{Code: tea.KeyEnd}, 5))
	assert.Equal(t, 19, c.Selected)
	assert.True(t, c.Update(tea.KeyPressMsg{Code: tea.KeyHome}, 5))
	assert.Equal(t, 0, c.Selected)
	assert.False(t, c.Update(tea.KeyPressMsg{Code: tea.KeyEnter}, 5))
	assert.False(t, c.Update(tea.WindowSizeMsg{}, 5))
}

func TestListCursorWindow(t *testing.T) {
	var c ListCursor
	c.SetLen(10)

	start, end := c.Window(4)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)

	c.Selected = 7
	start, end = c.Window(4)
	assert.Equal(t, 4, start)
	assert.Equal(t, 8, end)

	c.Selected = 2
	start, end = c.Window(4)
	assert.Equal(t, 2, start)
	assert.Equal(t, 6, end)

	start, end = c.Window(20)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	start, end = c.Window(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestScrollViewRebuildsOnWidth(t *testing.T) {
	calls := 0
	sv := NewScrollView(func(width int) string {
		calls++
		return strings.Repeat("row\n", 30)
	})

	out := sv.View(40, 5)
	assert.Contains(t, out, "row")
	assert.Equal(t, 1, calls)

	sv.View(40, 5)
	assert.Equal(t, 1, calls)

	sv.View(60, 5)
	assert.Equal(t, 2, calls)

	sv.Invalidate()
	sv.View(60, 5)
	assert.Equal(t, 3, calls)
	assert.False(t, sv.AtBottom())
}
