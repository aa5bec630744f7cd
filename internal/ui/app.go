package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/feedback-form/internal/config"
	"github.com/gravitrone/feedback-form/internal/form"
	"github.com/gravitrone/feedback-form/internal/ui/components"
)

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model hosting the feedback form.
type App struct {
	config      *config.Config
	width       int
	height      int
	err         string
	helpOpen    bool
	quitConfirm bool
	toast       *appToast

	form FeedbackModel
}

// NewApp creates the root application model.
func NewApp(ctrl *form.Controller, cfg *config.Config) App {
	if cfg == nil {
		cfg = config.Default()
	}
	return App{
		config: cfg,
		form:   NewFeedbackModel(ctrl, cfg.Categories),
	}
}

func (a App) Init() tea.Cmd {
	return a.form.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd

	case errMsg:
		a.err = msg.err.Error()
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case feedbackSubmittedMsg:
		return a, a.setToast("success", "Thanks! Your feedback is on its way.")
	case feedbackRejectedMsg:
		return a, a.setToast("warning", fmt.Sprintf("Fix %d %s before sending.", msg.count, plural(msg.count, "field", "fields")))

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "f1") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}

		// Global keys
		if isKey(msg, "f1") {
			a.helpOpen = true
			return a, nil
		}
		if isQuit(msg) {
			if a.form.HasInput() {
				a.quitConfirm = true
				return a, nil
			}
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = a.renderQuitConfirm()
	case a.helpOpen:
		content = a.renderHelp()
	default:
		content = a.form.View()
	}
	content = centerBlockUniform(content, a.width)

	var feedback string
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	status := components.StatusBar(a.statusHints(), a.width)
	return banner + "\n" + content + feedback + "\n\n" + status
}

func (a App) statusHints() []string {
	if a.quitConfirm {
		return []string{
			components.Hint("y", "Quit"),
			components.Hint("n", "Stay"),
		}
	}
	if a.helpOpen {
		return []string{components.Hint("esc", "Close")}
	}
	if a.form.State().Phase == form.Submitted {
		return []string{
			components.Hint("enter", "New"),
			components.Hint("ctrl+c", "Quit"),
		}
	}
	if a.form.Picking() {
		return []string{
			components.Hint("↑/↓", "Browse"),
			components.Hint("enter", "Select"),
			components.Hint("esc", "Cancel"),
		}
	}
	hints := []string{
		components.Hint("tab", "Next"),
		components.Hint("shift+tab", "Prev"),
		components.Hint("ctrl+s", "Submit"),
	}
	switch a.form.focus {
	case fieldCategory:
		hints = append(hints, components.Hint("←/→", "Move"), components.Hint("space", "Pick"))
	case fieldImage:
		hints = append(hints, components.Hint("enter", "Browse"), components.Hint("backspace", "Remove"))
	}
	hints = append(hints, components.Hint("f1", "Help"), components.Hint("ctrl+c", "Quit"))
	return append(hints, a.destinationBadge())
}

func (a App) destinationBadge() string {
	if a.config != nil && a.config.APIURL != "" {
		return components.Badge("remote", string(ColorSuccess))
	}
	return components.Badge("local log", string(ColorWarning))
}

func (a App) renderHelp() string {
	rows := []components.TableRow{
		{Label: "tab / ↓", Value: "next field"},
		{Label: "shift+tab / ↑", Value: "previous field"},
		{Label: "←/→ space", Value: "choose a category"},
		{Label: "enter", Value: "open the file picker on Image"},
		{Label: "backspace", Value: "remove the attached image"},
		{Label: "ctrl+s", Value: "submit"},
		{Label: "ctrl+c", Value: "quit"},
	}
	return components.Table("Keys", rows, a.width)
}

func (a App) renderQuitConfirm() string {
	return components.ConfirmDialog("Quit", "Discard this feedback and quit?")
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
