package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpulse/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a case-insensitive substring filter.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates an unfocused filter input.
func NewFilterInput(placeholder string, maxWidth int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return FilterInput{Model: ti}
}

// Focus starts capturing keys.
func (f *FilterInput) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur stops capturing keys and keeps the current query.
func (f *FilterInput) Blur() {
	f.Model.Blur()
}

// Focused reports whether the input is capturing keys.
func (f FilterInput) Focused() bool {
	return f.Model.Focused()
}

// Reset clears the query.
func (f *FilterInput) Reset() {
	f.Model.Reset()
}

// Update handles messages.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input.
func (f FilterInput) View() string {
	if !f.Focused() && f.Value() == "" {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("/ to filter")
	}
	return f.Model.View()
}

// Value returns the current query.
func (f FilterInput) Value() string {
	return f.Model.Value()
}

// Match reports whether any of fields contains the query, ignoring case.
// An empty query matches everything.
func (f FilterInput) Match(fields ...string) bool {
	return MatchQuery(f.Value(), fields...)
}

// MatchQuery is the matcher behind FilterInput.Match.
func MatchQuery(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
