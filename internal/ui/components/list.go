package components

import tea "charm.land/bubbletea/v2"

// ListCursor tracks a selection and scroll window over n rows.
type ListCursor struct {
	Selected int
	Offset   int
	n        int
}

// SetLen updates the row count and keeps the selection in range.
func (c *ListCursor) SetLen(n int) {
	c.n = n
	if c.Selected >= n {
		c.Selected = n - 1
	}
	if c.Selected < 0 {
		c.Selected = 0
	}
	if c.Offset > c.Selected {
		c.Offset = c.Selected
	}
}

// Len returns the row count.
func (c ListCursor) Len() int { return c.n }

// Move shifts the selection by delta, clamped to the rows.
func (c *ListCursor) Move(delta int) {
	if c.n == 0 {
		return
	}
	c.Selected = min(max(c.Selected+delta, 0), c.n-1)
}

// Update handles navigation keys and reports whether the key was consumed.
func (c *ListCursor) Update(msg tea.Msg, page int) bool {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch kmsg.String() {
	case "up", "k":
		c.Move(-1)
	case "down", "j":
		c.Move(1)
	case "pgup":
		c.Move(-max(page, 1))
	case "pgdown":
		c.Move(max(page, 1))
	case "home", "g":
		c.Selected = 0
	case "end", "G":
		c.Selected = max(c.n-1, 0)
	default:
		return false
	}
	return true
}

// Window returns the [start, end) rows visible in height lines, scrolling
// so the selection stays visible.
func (c *ListCursor) Window(height int) (start, end int) {
	if height <= 0 || c.n == 0 {
		return 0, 0
	}
	if c.Selected < c.Offset {
		c.Offset = c.Selected
	}
	if c.Selected >= c.Offset+height {
		c.Offset = c.Selected - height + 1
	}
	if c.Offset > c.n-height {
		c.Offset = max(c.n-height, 0)
	}
	return c.Offset, min(c.Offset+height, c.n)
}
