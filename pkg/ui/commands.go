package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-go-golems/cricket/pkg/client"
)

type sessionResolvedMsg struct {
	state client.SessionState
	err   error
}

type loginDoneMsg struct {
	state client.SessionState
	err   error
}

type sendDoneMsg struct {
	err error
}

type adminRefreshedMsg struct {
	err error
}

type mutationDoneMsg struct {
	label string
	err   error
}

func (m *Model) resolveSessionCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		state, err := ctrl.ResolveSession(context.Background(), "")
		return sessionResolvedMsg{state: state, err: err}
	}
}

func (m *Model) beginLoginCmd() tea.Cmd {
	ctrl := m.ctrl
	addr := m.cfg.CallbackAddr
	return func() tea.Msg {
		state, err := ctrl.BeginLogin(context.Background(), addr, client.OpenBrowser)
		return loginDoneMsg{state: state, err: err}
	}
}

func (m *Model) sendCmd(text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		_, err := ctrl.Send(context.Background(), text)
		return sendDoneMsg{err: err}
	}
}

func (m *Model) refreshAdminCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return adminRefreshedMsg{err: ctrl.RefreshAdminPanel(context.Background())}
	}
}

func (m *Model) configureKeyCmd(key, email string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return mutationDoneMsg{label: "configure key", err: ctrl.ConfigureProviderKey(context.Background(), key, email)}
	}
}

func (m *Model) grantAdminCmd(email string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return mutationDoneMsg{label: "grant admin", err: ctrl.GrantAdmin(context.Background(), email)}
	}
}

func (m *Model) revokeAdminCmd(email string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return mutationDoneMsg{label: "revoke admin", err: ctrl.RevokeAdmin(context.Background(), email)}
	}
}
