package components

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
)

// ScrollView is a viewport whose content is rebuilt for the current width.
type ScrollView struct {
	vp     viewport.Model
	render func(width int) string
	width  int
}

// NewScrollView creates a scroll view over the output of render.
func NewScrollView(render func(width int) string) *ScrollView {
	return &ScrollView{vp: viewport.New(), render: render, width: -1}
}

// Invalidate forces the content to be rebuilt on the next View.
func (s *ScrollView) Invalidate() {
	s.width = -1
}

// Update forwards scrolling keys to the viewport.
func (s *ScrollView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return cmd
}

// View renders the visible window of the content.
func (s *ScrollView) View(width, height int) string {
	s.vp.SetHeight(height)
	if width != s.width {
		s.vp.SetWidth(width)
		s.vp.SetContent(s.render(width))
		s.width = width
	}
	return s.vp.View()
}

// AtBottom reports whether the last line is visible.
func (s *ScrollView) AtBottom() bool {
	return s.vp.AtBottom()
}
