package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jhubert/qa-hipchat-notifications/internal/config"
)

// SavedMessage is shown after the settings were written.
const SavedMessage = "HipChat Notification preferences saved"

type field int

const (
	fieldToken field = iota
	fieldRoom
	fieldSender
	fieldColor
	fieldNotify
	fieldCount
)

var fieldLabels = [...]string{
	fieldToken:  "API token",
	fieldRoom:   "Room",
	fieldSender: "Sender",
	fieldColor:  "Color",
	fieldNotify: "Notify",
}

// Options configures the settings form.
type Options struct {
	Context  context.Context
	Path     string
	Settings config.Settings
	Theme    *Theme // nil uses DefaultTheme
}

// savedMsg reports the outcome of writing the settings file.
type savedMsg struct {
	settings config.Settings
	err      error
}

// Model is the settings form state for Bubble Tea.
type Model struct {
	path string
	// base carries settings the form does not edit (base_url, retries,
	// log_level) through a save unchanged.
	base config.Settings

	inputs [fieldNotify]textinput.Model
	notify bool
	focus  field

	keys   keyMap
	help   help.Model
	styles Styles

	status string
	err    error
	saving bool
	width  int
}

// New creates the settings form populated from opts.Settings.
func New(opts Options) Model {
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	s := opts.Settings

	m := Model{
		path:   opts.Path,
		base:   s,
		notify: s.Notify,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: theme.Styles(),
	}

	token := textinput.New()
	token.Placeholder = "HipChat API v2 token"
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '•'
	token.SetValue(s.APIToken)

	room := textinput.New()
	room.Placeholder = "Room name or id"
	room.SetValue(s.RoomName)

	sender := textinput.New()
	sender.Placeholder = config.DefaultSender
	sender.CharLimit = 64
	sender.SetValue(s.Sender)

	color := textinput.New()
	color.Placeholder = config.DefaultColor
	color.CharLimit = 16
	color.SetValue(s.Color)

	m.inputs[fieldToken] = token
	m.inputs[fieldRoom] = room
	m.inputs[fieldSender] = sender
	m.inputs[fieldColor] = color
	for i := range m.inputs {
		m.inputs[i].Width = 40
	}
	m.inputs[fieldToken].Focus()
	return m
}

// Settings returns the settings as currently entered in the form.
func (m Model) Settings() config.Settings {
	s := m.base
	s.APIToken = strings.TrimSpace(m.inputs[fieldToken].Value())
	s.RoomName = strings.TrimSpace(m.inputs[fieldRoom].Value())
	s.Sender = strings.TrimSpace(m.inputs[fieldSender].Value())
	s.Color = strings.TrimSpace(m.inputs[fieldColor].Value())
	s.Notify = m.notify
	return s
}

// Status returns the last save confirmation, if any.
func (m Model) Status() string {
	return m.status
}

// Err returns the last save error, if any.
func (m Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.base = msg.settings
		m.err = nil
		m.status = SavedMessage
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus(m.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		if m.focus == fieldNotify {
			return m.save()
		}
		return m, m.setFocus(m.focus + 1)
	case m.focus == fieldNotify && key.Matches(msg, m.keys.Toggle):
		m.notify = !m.notify
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == fieldNotify {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus to f, wrapping around the form.
func (m *Model) setFocus(f field) tea.Cmd {
	f = (f + fieldCount) % fieldCount
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i) == f {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.saving = true
	m.status = ""
	s := m.Settings()
	path := m.path
	return m, func() tea.Msg {
		return savedMsg{settings: s, err: config.Save(path, s)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("HipChat Notifications"))
	b.WriteString("\n")
	b.WriteString(m.styles.FaintText.Render(displayPath(m.path)))
	b.WriteString("\n\n")

	for i := range m.inputs {
		f := field(i)
		row := m.label(f) + m.inputs[i].View()
		if f == fieldColor {
			row += " " + m.styles.NoticeStyle(m.colorPreview()).Render(strings.ToLower(m.colorPreview()))
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	box := "[ ]"
	if m.notify {
		box = "[x]"
	}
	notifyRow := m.label(fieldNotify) + box + " " + m.styles.MutedText.Render("Trigger a user notification (sound, popup)")
	b.WriteString(notifyRow)
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.DangerText.Render(fmt.Sprintf("Save failed: %v", m.err)))
	case m.saving:
		b.WriteString(m.styles.WarningText.Render("Saving..."))
	case m.status != "":
		b.WriteString(m.styles.SuccessText.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	panel := m.styles.Panel
	if m.width > 0 {
		panel = panel.MaxWidth(m.width)
	}
	return panel.Render(b.String())
}

func (m Model) label(f field) string {
	style := m.styles.Label
	if f == m.focus {
		style = m.styles.FocusedLabel
	}
	return style.Render(fieldLabels[f])
}

func (m Model) colorPreview() string {
	if c := m.Settings().Color; c != "" {
		return c
	}
	return config.DefaultColor
}

func displayPath(path string) string {
	if path == "" {
		return config.DefaultPath()
	}
	return path
}

// Run shows the settings form until the user quits or ctx is cancelled.
func Run(opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(New(opts), progOpts...)
	_, err := p.Run()
	return err
}

var _ tea.Model = Model{}
