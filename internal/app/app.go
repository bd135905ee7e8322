// Package app assembles settings, driven adapters and core services into
// the Workspace the driving adapters talk to.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ai"
	envcfg "github.com/custodia-labs/ragdesk/internal/adapters/driven/config/env"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Options select where configuration comes from.
type Options struct {
	// ConfigPath overrides ~/.ragdesk/config.toml. Prompt overrides are
	// read from a prompts directory next to it.
	ConfigPath string

	// NoConfig ignores the config file. Settings come from defaults and
	// the environment and are kept in memory; prompts are the built-ins.
	NoConfig bool

	// EnvFiles are the .env files to load (default ".env").
	EnvFiles []string
}

// App owns the settings service and, once requested, the workspace.
type App struct {
	settings *services.SettingsService
	prompts  *file.PromptStore

	mu        sync.Mutex
	workspace *services.Workspace
	release   func() error
	stopWatch context.CancelFunc
}

// New loads configuration. It performs no network I/O and needs no API
// keys, so commands that only read or edit settings work unconfigured.
func New(opts Options) (*App, error) {
	overlay, err := envcfg.Load(opts.EnvFiles...)
	if err != nil {
		return nil, err
	}

	store, prompts, err := configStores(opts)
	if err != nil {
		return nil, err
	}

	return &App{
		settings: services.NewSettingsService(store, overlay, ai.NewConfigValidator()),
		prompts:  prompts,
	}, nil
}

func configStores(opts Options) (driven.ConfigStore, *file.PromptStore, error) {
	if opts.NoConfig {
		return memory.NewConfigStore(nil), nil, nil
	}

	var (
		store *file.ConfigStore
		err   error
	)
	if opts.ConfigPath != "" {
		store, err = file.NewConfigStoreAt(opts.ConfigPath)
	} else {
		store, err = file.NewConfigStore("")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(store.Path()), "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("open prompts: %w", err)
	}
	return store, prompts, nil
}

// Settings returns the settings service.
func (a *App) Settings() driving.SettingsService {
	return a.settings
}

// Prompts returns the prompt store, or nil when running without config.
func (a *App) Prompts() driven.PromptStore {
	if a.prompts == nil {
		return nil
	}
	return a.prompts
}

// Workspace builds the workspace on first use and returns the same one
// afterwards. Prompt files are watched for changes while it is alive.
func (a *App) Workspace() (driving.Workspace, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.workspace != nil {
		return a.workspace, nil
	}

	settings, err := a.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	deps, release, err := DefaultDeps(settings, a.Prompts())
	if err != nil {
		return nil, err
	}
	ws, err := NewWorkspace(settings, deps)
	if err != nil {
		_ = release()
		return nil, err
	}

	a.workspace = ws
	a.release = release
	a.watchPrompts()
	return ws, nil
}

// watchPrompts starts the prompt hot reload. Caller holds a.mu.
func (a *App) watchPrompts() {
	if a.prompts == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	go func() {
		if err := a.prompts.Watch(ctx); err != nil {
			logger.Warn("prompt hot reload disabled: %v", err)
		}
	}()
}

// Close releases the workspace and every adapter behind it.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
	if a.workspace == nil {
		return nil
	}

	err := errors.Join(a.workspace.Close(), a.release())
	a.workspace = nil
	a.release = nil
	return err
}
