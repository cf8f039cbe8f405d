// Package cmds holds the top-level CLI commands.
package cmds

import (
	"github.com/go-go-golems/cricket/pkg/api"
	"github.com/go-go-golems/cricket/pkg/client"
	"github.com/go-go-golems/cricket/pkg/config"
)

// BuildController wires configuration, API client and token store into a
// ready controller. Every command starts here.
func BuildController() (*client.Controller, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	backend := api.New(cfg.BackendURL)
	ctrl := client.New(backend, client.NewTokenStore(cfg.TokenPath))
	return ctrl, cfg, nil
}
