// Package ui implements the interactive terminal front end: a bubbletea
// program that renders the controller's view state and translates key
// events into controller operations.
package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/cricket/pkg/client"
	"github.com/go-go-golems/cricket/pkg/config"
)

type phase int

const (
	phaseLoading phase = iota
	phaseLogin
	phaseChat
)

// Model is the bubbletea application model. All state it renders lives in
// the controller; the model only keeps widget and layout state.
type Model struct {
	ctrl *client.Controller
	cfg  *config.Config

	phase  phase
	width  int
	height int

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	adminOpen bool
	form      *huh.Form
	formKind  formKind
	formVals  *formState

	status    string
	loggingIn bool
}

// New creates the application model around an existing controller.
func New(ctrl *client.Controller, cfg *config.Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	in := textinput.New()
	in.Placeholder = "Type your message..."
	in.CharLimit = 0

	vp := viewport.New(80, 20)

	return Model{
		ctrl:     ctrl,
		cfg:      cfg,
		phase:    phaseLoading,
		viewport: vp,
		input:    in,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.resolveSessionCmd(), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(4, msg.Height-6)
		m.input.Width = max(20, msg.Width-4)
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(20, msg.Width-4))); err == nil {
			m.renderer = r
		}
		m.syncTranscript()
		return m, nil

	case sessionResolvedMsg:
		return m.applySessionState(msg.state, msg.err)

	case loginDoneMsg:
		m.loggingIn = false
		return m.applySessionState(msg.state, msg.err)

	case sendDoneMsg:
		if msg.err != nil && msg.err != client.ErrEmptyMessage && msg.err != client.ErrSendInFlight {
			m.status = msg.err.Error()
		}
		m.syncTranscript()
		return m, nil

	case adminRefreshedMsg:
		// read failures keep stale data; nothing to surface beyond logs
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.status = msg.label + " failed: " + msg.err.Error()
		} else {
			m.status = msg.label + " succeeded"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.Sending() {
			// pick up the optimistically appended user turn
			m.syncTranscript()
		}
		if m.phase == phaseLoading || m.loggingIn || m.ctrl.Sending() {
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateWidgets(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// a modal admin form swallows all input until it completes
	if m.form != nil {
		if msg.Type == tea.KeyEsc {
			m.form = nil
			m.formKind = formNone
			m.status = ""
			return m, nil
		}
		return m.updateForm(msg)
	}

	switch m.phase {
	case phaseLogin:
		if msg.Type == tea.KeyEnter && !m.loggingIn {
			m.loggingIn = true
			m.status = "Waiting for browser sign-in..."
			return m, tea.Batch(m.beginLoginCmd(), m.spinner.Tick)
		}
		return m, nil

	case phaseChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adminOpen {
		return m.handleAdminKey(msg)
	}

	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		// cleared synchronously at send time, independent of outcome
		m.input.SetValue("")
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.status = ""
		m.syncTranscript()
		return m, tea.Batch(m.sendCmd(text), m.spinner.Tick)

	case tea.KeyTab:
		if m.ctrl.IsAdmin() {
			m.adminOpen = true
			m.input.Blur()
			return m, m.refreshAdminCmd()
		}
		return m, nil

	case tea.KeyCtrlY:
		if content, ok := lastAssistantTurn(m.ctrl.Turns()); ok {
			if err := clipboard.WriteAll(content); err != nil {
				m.status = "copy failed: " + err.Error()
			} else {
				m.status = "copied last reply"
			}
		}
		return m, nil

	case tea.KeyCtrlL:
		if err := m.ctrl.Logout(); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		m.phase = phaseLogin
		m.adminOpen = false
		m.input.SetValue("")
		m.syncTranscript()
		return m, nil
	}

	return m.updateWidgets(msg)
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyTab:
		m.adminOpen = false
		m.input.Focus()
		return m, nil
	case msg.String() == "c":
		m.formKind = formConfigureKey
		m.form = m.newConfigureKeyForm()
		return m, m.form.Init()
	case msg.String() == "g":
		m.formKind = formGrantAdmin
		m.form = m.newGrantAdminForm()
		return m, m.form.Init()
	case msg.String() == "r":
		m.formKind = formRevokeAdmin
		m.form = m.newRevokeAdminForm()
		return m, m.form.Init()
	case msg.String() == "R":
		return m, m.refreshAdminCmd()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	fm, cmd := m.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	kind := m.formKind
	vals := m.formVals
	m.form = nil
	m.formKind = formNone
	m.formVals = nil

	switch kind {
	case formConfigureKey:
		return m, m.configureKeyCmd(vals.key, vals.email)
	case formGrantAdmin:
		return m, m.grantAdminCmd(vals.email)
	case formRevokeAdmin:
		if !vals.confirm {
			m.status = "revoke cancelled"
			return m, nil
		}
		return m, m.revokeAdminCmd(vals.email)
	}
	return m, nil
}

func (m Model) applySessionState(state client.SessionState, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.status = err.Error()
	}
	if state == client.StateAuthenticated {
		m.phase = phaseChat
		m.input.Focus()
		m.syncTranscript()
		return m, textinput.Blink
	}
	m.phase = phaseLogin
	return m, nil
}

func (m Model) updateWidgets(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// syncTranscript rebuilds the viewport content from the conversation and
// pins the view to the latest turn.
func (m *Model) syncTranscript() {
	m.viewport.SetContent(renderTranscript(m.ctrl.Turns(), m.renderer))
	m.viewport.GotoBottom()
}

func lastAssistantTurn(turns []client.Turn) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == client.RoleAssistant {
			return turns[i].Content, true
		}
	}
	return "", false
}
