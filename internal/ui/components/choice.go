package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	choiceActiveStyle = lipgloss.NewStyle().
				Foreground(colorDark).
				Background(colorPrimary).
				Bold(true).
				Padding(0, 1)

	choiceIdleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	choiceMarkedStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1)
)

// Choice is a horizontal single-select over a fixed option set. Nothing is
// chosen until the caller picks, so an empty value stays distinguishable.
type Choice struct {
	Options []string
	Cursor  int
	chosen  int
}

// NewChoice creates a choice with no option picked.
func NewChoice(options []string) Choice {
	return Choice{Options: options, chosen: -1}
}

// Next moves the cursor right, wrapping at the end.
func (c *Choice) Next() {
	if len(c.Options) == 0 {
		return
	}
	c.Cursor = (c.Cursor + 1) % len(c.Options)
}

// Prev moves the cursor left, wrapping at the start.
func (c *Choice) Prev() {
	if len(c.Options) == 0 {
		return
	}
	c.Cursor = (c.Cursor - 1 + len(c.Options)) % len(c.Options)
}

// Pick marks the option under the cursor and returns it.
func (c *Choice) Pick() string {
	if len(c.Options) == 0 {
		return ""
	}
	c.chosen = c.Cursor
	return c.Options[c.chosen]
}

// Clear drops the picked option and rewinds the cursor.
func (c *Choice) Clear() {
	c.chosen = -1
	c.Cursor = 0
}

// Value returns the picked option, or "" if none.
func (c Choice) Value() string {
	if c.chosen < 0 || c.chosen >= len(c.Options) {
		return ""
	}
	return c.Options[c.chosen]
}

// Render draws the options on one line. The cursor is only highlighted
// while focused; the picked option is always marked.
func (c Choice) Render(focused bool) string {
	if len(c.Options) == 0 {
		return choiceIdleStyle.Render("(no options)")
	}
	parts := make([]string, 0, len(c.Options))
	for i, opt := range c.Options {
		label := SanitizeOneLine(opt)
		switch {
		case focused && i == c.Cursor:
			parts = append(parts, choiceActiveStyle.Render(label))
		case i == c.chosen:
			parts = append(parts, choiceMarkedStyle.Render("• "+label))
		default:
			parts = append(parts, choiceIdleStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
