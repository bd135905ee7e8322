package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"video", "web", "doc", "ask", "settings", "serve", "mcp", "tui", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("no-config"))
}

func withBootstrap(t *testing.T, b Bootstrap) {
	t.Helper()
	orig := bootstrap
	bootstrap = b
	t.Cleanup(func() {
		bootstrap = orig
		_ = releaseServices()
	})
}

func TestInitServices_PassesOptions(t *testing.T) {
	var got Options
	closed := false
	settings := newMockSettingsService()
	withBootstrap(t, func(opts Options) (*Services, error) {
		got = opts
		return &Services{
			Settings:  settings,
			Workspace: func() (driving.Workspace, error) { return nil, errors.New("unused") },
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	})

	_, err := execute(t, "", "--no-config", "--config", "/tmp/ragdesk.toml", "version")
	require.NoError(t, err)

	assert.Equal(t, Options{ConfigPath: "/tmp/ragdesk.toml", NoConfig: true}, got)
	assert.Same(t, settings, settingsService)

	require.NoError(t, releaseServices())
	assert.True(t, closed)
	assert.Nil(t, settingsService)
}

func TestInitServices_BootstrapError(t *testing.T) {
	withBootstrap(t, func(Options) (*Services, error) {
		return nil, errors.New("bad config")
	})

	_, err := execute(t, "", "version")

	assert.EqualError(t, err, "bad config")
}

func TestInitServices_Verbose(t *testing.T) {
	t.Cleanup(func() { logger.SetVerbose(false) })

	_, err := execute(t, "", "-v", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestLoadWorkspace_NotConfigured(t *testing.T) {
	orig := workspaceLoader
	workspaceLoader = nil
	t.Cleanup(func() { workspaceLoader = orig })

	_, err := loadWorkspace()

	assert.EqualError(t, err, "workspace not configured")
}

func TestSetVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	SetVersion("1.2.3")

	assert.Equal(t, "1.2.3", version)
}
