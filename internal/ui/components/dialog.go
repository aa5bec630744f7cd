package components

import "github.com/charmbracelet/lipgloss"

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(44)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	return Dialog(title, message, "y: confirm | n: cancel")
}

// Dialog renders a small framed prompt with a hint line under the message.
func Dialog(title, message, hint string) string {
	body := dialogTitleStyle.Render(title) + "\n\n" + dialogBodyStyle.Render(message)
	if hint != "" {
		body += "\n" + dialogBodyStyle.Render("\n"+hint)
	}
	return dialogStyle.Render(body)
}
