package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/go-go-golems/cricket/pkg/client"
)

func (m Model) View() string {
	switch m.phase {
	case phaseLoading:
		return "\n  " + m.spinner.View() + " Loading...\n"
	case phaseLogin:
		return m.loginView()
	default:
		return m.chatView()
	}
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("cricket"))
	b.WriteString("\n\n")
	if m.loggingIn {
		b.WriteString(m.spinner.View() + " Waiting for the browser sign-in to complete...\n")
		b.WriteString(faintStyle.Render("A browser window should have opened. Finish signing in there."))
	} else {
		b.WriteString("Sign in with Google to start chatting.\n\n")
		b.WriteString(faintStyle.Render("enter: sign in    ctrl+c: quit"))
	}
	if m.status != "" {
		b.WriteString("\n\n" + statusStyle.Render(m.status))
	}
	return promptBox.Render(b.String())
}

func (m Model) chatView() string {
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")
	if m.adminOpen {
		b.WriteString(m.adminView())
		b.WriteString("\n")
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.ctrl.Sending() {
		b.WriteString(m.spinner.View() + " Sending...")
	} else if !m.adminOpen {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) headerLine() string {
	profile := m.ctrl.Profile()
	if profile == nil {
		return headerStyle.Render("cricket")
	}
	who := fmt.Sprintf("%s <%s>", profile.Name, profile.Email)
	if profile.IsAdmin {
		who += " [admin]"
	}
	return headerStyle.Render("cricket") + "  " + faintStyle.Render(who)
}

func (m Model) helpLine() string {
	if m.adminOpen {
		return "c: configure key  g: grant admin  r: revoke admin  R: refresh  esc: close"
	}
	help := "enter: send  ctrl+y: copy reply  ctrl+l: logout  ctrl+c: quit"
	if m.ctrl.IsAdmin() {
		help = "tab: admin panel  " + help
	}
	return help
}

func (m Model) adminView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Admin panel"))
	b.WriteString("\n")
	if stats := m.ctrl.Stats(); stats != nil {
		b.WriteString(fmt.Sprintf("users: %d   chats: %d   primary admin: %s\n",
			stats.TotalUsers, stats.TotalChats, stats.AdminEmail))
	} else {
		b.WriteString(faintStyle.Render("statistics unavailable") + "\n")
	}

	roster := m.ctrl.Roster()
	if len(roster) == 0 {
		b.WriteString(faintStyle.Render("no users"))
	}
	for _, u := range roster {
		line := fmt.Sprintf("%s <%s>", u.Name, u.Email)
		if u.IsAdmin {
			line += " [admin]"
		}
		if t, ok := u.LastLoginTime(); ok {
			line += faintStyle.Render("  last login " + t.Format("2006-01-02"))
		}
		b.WriteString(line + "\n")
	}
	return adminBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderTranscript renders the conversation for the viewport. Assistant
// turns go through glamour so markdown replies read well in the terminal.
func renderTranscript(turns []client.Turn, renderer *glamour.TermRenderer) string {
	if len(turns) == 0 {
		return faintStyle.Render("Start a conversation. Type your message below to get started.")
	}
	var b strings.Builder
	for _, turn := range turns {
		ts := faintStyle.Render(turn.Timestamp.Format("15:04"))
		switch turn.Role {
		case client.RoleUser:
			b.WriteString(userStyle.Render("You ") + ts + "\n")
			b.WriteString(turn.Content + "\n\n")
		case client.RoleAssistant:
			b.WriteString(assistStyle.Render("Assistant ") + ts + "\n")
			content := turn.Content
			if renderer != nil {
				if out, err := renderer.Render(content); err == nil {
					content = strings.TrimSpace(out) + "\n"
				}
			}
			b.WriteString(content + "\n\n")
		case client.RoleError:
			b.WriteString(errorStyle.Render("Error ") + ts + "\n")
			b.WriteString(errorStyle.Render(turn.Content) + "\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
