package cli

import (
	"fmt"
	"io"

	"skillpack/internal/agents"
	"skillpack/internal/config"
	"skillpack/internal/engine"
	"skillpack/internal/logx"
	"skillpack/internal/registry"
	"skillpack/internal/state"
)

// app bundles the wired-up components every command needs.
type app struct {
	cfg    *config.Config
	store  *state.Store
	engine *engine.Engine
	closer io.Closer
}

func newApp() (*app, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, closer, err := logx.New(cfg.LogsDir)
	if err != nil {
		// Logging is best-effort; the CLI still works without it
		logger = logx.Discard()
		closer = nil
	}

	store := state.NewStore(cfg.StatePath)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load local state: %w", err)
	}

	client := registry.NewClient(cfg.RegistryURL, store, logger)
	eng := engine.New(cfg, client, store, logger)
	eng.SetAgents(agents.NewManager(cfg.AgentsPath))

	return &app{cfg: cfg, store: store, engine: eng, closer: closer}, nil
}

func (a *app) Close() {
	if a.closer != nil {
		a.closer.Close()
	}
}
