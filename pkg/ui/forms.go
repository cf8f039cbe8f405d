package ui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
)

type formKind int

const (
	formNone formKind = iota
	formConfigureKey
	formGrantAdmin
	formRevokeAdmin
)

// formState holds form inputs behind a pointer so huh bindings stay valid
// while the bubbletea model is copied around.
type formState struct {
	key     string
	email   string
	confirm bool
}

func (m *Model) newConfigureKeyForm() *huh.Form {
	m.formVals = &formState{}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Provider API key").
				EchoMode(huh.EchoModePassword).
				Value(&m.formVals.key).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("key must not be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("User email (empty sets the default key)").
				Value(&m.formVals.email),
		),
	)
}

func (m *Model) newGrantAdminForm() *huh.Form {
	m.formVals = &formState{}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email to grant admin access").
				Value(&m.formVals.email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("email must not be empty")
					}
					return nil
				}),
		),
	)
}

// newRevokeAdminForm validates the target before the confirmation step, so
// the primary admin is refused before any confirm prompt appears.
func (m *Model) newRevokeAdminForm() *huh.Form {
	m.formVals = &formState{}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email to revoke admin access from").
				Value(&m.formVals.email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("email must not be empty")
					}
					if m.ctrl.IsPrimaryAdmin(s) {
						return errors.New("cannot revoke the primary admin")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Remove admin access?").
				Affirmative("Revoke").
				Negative("Cancel").
				Value(&m.formVals.confirm),
		),
	)
}
