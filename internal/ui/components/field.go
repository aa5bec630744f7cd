package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	fieldFocusStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(colorErrHeader)
)

// FormField renders a labelled input block with its validation message, if any.
func FormField(label, body, errText string, focused bool) string {
	var b strings.Builder
	if focused {
		b.WriteString(fieldFocusStyle.Render("> " + label + ":"))
	} else {
		b.WriteString("  " + fieldLabelStyle.Render(label+":"))
	}
	b.WriteString("\n")
	b.WriteString(Indent(body, 2))
	if errText != "" {
		b.WriteString("\n")
		b.WriteString("  " + fieldErrorStyle.Render("! "+SanitizeOneLine(errText)))
	}
	return b.String()
}
