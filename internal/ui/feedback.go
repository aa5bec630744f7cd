package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/gravitrone/feedback-form/internal/form"
	"github.com/gravitrone/feedback-form/internal/ui/components"
)

// --- Messages ---

type feedbackSubmittedMsg struct{ rec form.Record }
type feedbackRejectedMsg struct{ count int }
type fileSelectedMsg struct{ path string }

// --- Field Order ---

const (
	fieldName = iota
	fieldSurname
	fieldEmail
	fieldCategory
	fieldMessage
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Surname", "Email", "Category", "Message", "Image"}

var fieldKeys = [fieldCount]form.FieldKey{
	form.KeyName,
	form.KeySurname,
	form.KeyEmail,
	form.KeyCategory,
	form.KeyMessage,
	form.KeyImage,
}

// --- Feedback Model ---

// FeedbackModel renders the form and forwards every edit to the controller.
type FeedbackModel struct {
	ctrl *form.Controller

	inputs   [3]textinput.Model
	category components.Choice
	message  textarea.Model
	picker   filepicker.Model
	picking  bool
	startDir string

	focus  int
	width  int
	height int
}

// NewFeedbackModel builds the form around ctrl with the given category options.
func NewFeedbackModel(ctrl *form.Controller, categories []string) FeedbackModel {
	if ctrl == nil {
		ctrl = form.NewController(nil, nil)
	}
	m := FeedbackModel{
		ctrl:     ctrl,
		category: components.NewChoice(categories),
		message:  newMessageArea(),
	}
	placeholders := [3]string{"Anna", "Smith", "anna@example.com"}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.PlaceholderStyle = PlaceholderStyle
		in.CharLimit = 0
		m.inputs[i] = in
	}
	if dir, err := os.Getwd(); err == nil {
		m.startDir = dir
	}
	m.picker = m.newPicker()
	m.focusField(fieldName)
	return m
}

func newMessageArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Tell us what happened..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(5)
	return ta
}

func (m FeedbackModel) newPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AutoHeight = false
	fp.Height = 10
	if m.startDir != "" {
		fp.CurrentDirectory = m.startDir
	}
	return fp
}

func (m FeedbackModel) Init() tea.Cmd {
	return textinput.Blink
}

// State exposes the controller snapshot the view is drawn from.
func (m FeedbackModel) State() form.State {
	return m.ctrl.State()
}

// HasInput reports whether anything would be lost by quitting.
func (m FeedbackModel) HasInput() bool {
	st := m.ctrl.State()
	if st.Phase != form.Editing {
		return false
	}
	fs := st.Fields
	return fs.Name != "" || fs.Surname != "" || fs.Email != "" ||
		fs.Category != "" || fs.Message != "" || fs.Attachment != nil
}

// Picking reports whether the file picker owns the keyboard.
func (m FeedbackModel) Picking() bool {
	return m.picking
}

func (m FeedbackModel) Update(msg tea.Msg) (FeedbackModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.message.SetWidth(messageWidth(msg.Width))
		return m, nil
	case fileSelectedMsg:
		return m.selectFile(msg.path)
	case tea.KeyMsg:
		if m.ctrl.State().Phase == form.Submitted {
			return m.handleSubmittedKeys(msg)
		}
		if m.picking {
			return m.handlePickerKeys(msg)
		}
		return m.handleEditKeys(msg)
	}

	// Cursor blinks and other stray messages have nothing to edit once sent.
	if m.ctrl.State().Phase == form.Submitted {
		return m, nil
	}
	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m.updateFocused(msg)
}

func (m FeedbackModel) handleSubmittedKeys(msg tea.KeyMsg) (FeedbackModel, tea.Cmd) {
	if !isEnter(msg) {
		return m, nil
	}
	if err := m.ctrl.Reset(); err != nil {
		return m, func() tea.Msg { return errMsg{err} }
	}
	m.clearInputs()
	return m, textinput.Blink
}

func (m FeedbackModel) handlePickerKeys(msg tea.KeyMsg) (FeedbackModel, tea.Cmd) {
	if isBack(msg) {
		m.picking = false
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return m.selectFile(path)
	}
	return m, cmd
}

func (m FeedbackModel) handleEditKeys(msg tea.KeyMsg) (FeedbackModel, tea.Cmd) {
	switch {
	case isSubmit(msg):
		return m.submit()
	case isNextField(msg):
		m.focusField((m.focus + 1) % fieldCount)
		return m, nil
	case isPrevField(msg):
		m.focusField((m.focus - 1 + fieldCount) % fieldCount)
		return m, nil
	case m.focus != fieldMessage && isDown(msg):
		m.focusField((m.focus + 1) % fieldCount)
		return m, nil
	case m.focus != fieldMessage && isUp(msg):
		m.focusField((m.focus - 1 + fieldCount) % fieldCount)
		return m, nil
	}

	switch m.focus {
	case fieldCategory:
		switch {
		case isLeft(msg):
			m.category.Prev()
		case isRight(msg):
			m.category.Next()
		case isSpace(msg), isEnter(msg):
			if err := m.ctrl.SetField(form.KeyCategory, m.category.Pick()); err != nil {
				return m, func() tea.Msg { return errMsg{err} }
			}
		}
		return m, nil
	case fieldImage:
		switch {
		case isEnter(msg), isSpace(msg):
			m.picking = true
			m.picker = m.newPicker()
			return m, m.picker.Init()
		case isErase(msg):
			if err := m.ctrl.ClearAttachment(); err != nil {
				return m, func() tea.Msg { return errMsg{err} }
			}
		}
		return m, nil
	}
	return m.updateFocused(msg)
}

// updateFocused hands msg to the focused bubble and syncs its value back.
func (m FeedbackModel) updateFocused(msg tea.Msg) (FeedbackModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldName, fieldSurname, fieldEmail:
		before := m.inputs[m.focus].Value()
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if value := m.inputs[m.focus].Value(); value != before {
			return m.syncField(fieldKeys[m.focus], value, cmd)
		}
	case fieldMessage:
		before := m.message.Value()
		m.message, cmd = m.message.Update(msg)
		if value := m.message.Value(); value != before {
			return m.syncField(form.KeyMessage, value, cmd)
		}
	}
	return m, cmd
}

func (m FeedbackModel) syncField(key form.FieldKey, value string, cmd tea.Cmd) (FeedbackModel, tea.Cmd) {
	if err := m.ctrl.SetField(key, value); err != nil {
		return m, func() tea.Msg { return errMsg{err} }
	}
	return m, cmd
}

func (m FeedbackModel) submit() (FeedbackModel, tea.Cmd) {
	errs, err := m.ctrl.Submit()
	if err != nil {
		return m, func() tea.Msg { return errMsg{err} }
	}
	if len(errs) > 0 {
		m.focusField(firstInvalid(errs))
		count := len(errs)
		return m, func() tea.Msg { return feedbackRejectedMsg{count: count} }
	}
	m.blurAll()
	last := m.ctrl.State().Last
	if last == nil {
		return m, nil
	}
	rec := *last
	return m, func() tea.Msg { return feedbackSubmittedMsg{rec: rec} }
}

func (m FeedbackModel) selectFile(path string) (FeedbackModel, tea.Cmd) {
	raw, err := form.StatFile(path)
	if err != nil {
		return m, func() tea.Msg { return errMsg{fmt.Errorf("read attachment: %w", err)} }
	}
	err = m.ctrl.SelectFile(raw)
	if errors.Is(err, form.ErrNotEditing) {
		return m, func() tea.Msg { return errMsg{err} }
	}
	// Guard rejections already live in the state and render under the field.
	return m, nil
}

func (m *FeedbackModel) focusField(idx int) {
	m.blurAll()
	m.focus = idx
	switch idx {
	case fieldName, fieldSurname, fieldEmail:
		m.inputs[idx].Focus()
	case fieldMessage:
		m.message.Focus()
	}
}

func (m *FeedbackModel) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.message.Blur()
}

func (m *FeedbackModel) clearInputs() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.message.Reset()
	m.category.Clear()
	m.picking = false
	m.focusField(fieldName)
}

func firstInvalid(errs form.ErrorMap) int {
	for i, key := range fieldKeys {
		if errs.Has(key) {
			return i
		}
	}
	return fieldName
}

func messageWidth(width int) int {
	w := components.BoxContentWidth(width) - 4
	if w < 20 {
		return 20
	}
	return w
}

// --- View ---

func (m FeedbackModel) View() string {
	st := m.ctrl.State()
	if st.Phase == form.Submitted {
		return m.renderSubmitted(st.Last)
	}
	if m.picking {
		return m.renderPicker()
	}
	return components.TitledBox("Feedback", m.renderFields(st), m.width)
}

func (m FeedbackModel) renderFields(st form.State) string {
	blocks := make([]string, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		blocks = append(blocks, components.FormField(
			fieldLabels[i],
			m.renderBody(i, st),
			fieldError(i, st),
			i == m.focus,
		))
	}
	return strings.Join(blocks, "\n\n")
}

func (m FeedbackModel) renderBody(idx int, st form.State) string {
	switch idx {
	case fieldName, fieldSurname, fieldEmail:
		return m.inputs[idx].View()
	case fieldCategory:
		return m.category.Render(idx == m.focus)
	case fieldMessage:
		count := len([]rune(st.Fields.Message))
		counter := MutedStyle.Render(fmt.Sprintf("%d chars (min %d)", count, form.MinMessageLength))
		return m.message.View() + "\n" + counter
	case fieldImage:
		return renderAttachment(st.Fields.Attachment, idx == m.focus)
	}
	return ""
}

func renderAttachment(a *form.Attachment, focused bool) string {
	if a == nil {
		if focused {
			return MutedStyle.Render("enter: choose file (png or jpeg up to 2 MiB)")
		}
		return MutedStyle.Render("-")
	}
	line := NormalStyle.Render(components.SanitizeOneLine(a.FileName)) + " " +
		MutedStyle.Render(fmt.Sprintf("(%s, %s)", a.MIMEType, humanize.IBytes(uint64(a.SizeBytes))))
	if focused {
		line += "  " + MutedStyle.Render("backspace: remove")
	}
	return line
}

func fieldError(idx int, st form.State) string {
	return st.Errors[fieldKeys[idx]]
}

func (m FeedbackModel) renderPicker() string {
	var b strings.Builder
	b.WriteString(MutedStyle.Render(components.SanitizeOneLine(m.picker.CurrentDirectory)))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	return components.ActiveTitledBox("Choose Image", b.String(), m.width)
}

func (m FeedbackModel) renderSubmitted(last *form.Record) string {
	var b strings.Builder
	b.WriteString(SuccessStyle.Render("Form submitted successfully!"))
	if last != nil {
		b.WriteString("\n")
		b.WriteString(components.InfoRow("Reference", last.ID))
		b.WriteString("\n\n")
		b.WriteString(components.Table("Summary", summaryRows(*last), m.width))
	}
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("enter: send another"))
	return b.String()
}

func summaryRows(rec form.Record) []components.TableRow {
	name := strings.TrimSpace(rec.Name + " " + rec.Surname)
	image := "-"
	if rec.Attachment != nil {
		image = rec.Attachment.FileName
	}
	return []components.TableRow{
		{Label: "Name", Value: name},
		{Label: "Email", Value: rec.Email},
		{Label: "Category", Value: rec.Category, ValueColor: string(ColorSecondary)},
		{Label: "Message", Value: rec.Message},
		{Label: "Image", Value: image},
		{Label: "Sent", Value: rec.SubmittedAt.Local().Format(time.TimeOnly)},
	}
}
