// Package cli implements the ragdesk command line on top of cobra.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// version is set at build time.
var version = "dev"

// Options are the global flags that shape how services are built.
type Options struct {
	ConfigPath string
	NoConfig   bool
}

// Services are the driving ports commands operate on.
type Services struct {
	Settings driving.SettingsService

	// Workspace builds the workspace on first call. It is a function so
	// commands that never converse do not need configured providers.
	Workspace func() (driving.Workspace, error)

	// Close releases everything the services hold. May be nil.
	Close func() error
}

// Bootstrap builds Services from the global flags.
type Bootstrap func(Options) (*Services, error)

var (
	bootstrap       Bootstrap
	settingsService driving.SettingsService
	workspaceLoader func() (driving.Workspace, error)
	closeServices   func() error

	rootOpts Options
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "ragdesk",
	Short: "Chat with videos, websites and documents",
	Long: `ragdesk ingests a video, a website or a document, summarises it and
answers questions about it using retrieval-augmented generation.

Each source kind keeps its own knowledge base and conversation.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", "", "Config file (default ~/.ragdesk/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.NoConfig, "no-config", false, "Ignore the config file and use defaults plus environment")
}

// SetBootstrap sets the function used to build services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, releaseServices())
}

func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || settingsService != nil {
		return nil
	}
	svc, err := bootstrap(rootOpts)
	if err != nil {
		return err
	}
	settingsService = svc.Settings
	workspaceLoader = svc.Workspace
	closeServices = svc.Close
	return nil
}

func releaseServices() error {
	closeFn := closeServices
	settingsService = nil
	workspaceLoader = nil
	closeServices = nil
	if closeFn == nil {
		return nil
	}
	return closeFn()
}

// loadWorkspace returns the workspace, building it if needed.
func loadWorkspace() (driving.Workspace, error) {
	if workspaceLoader == nil {
		return nil, errors.New("workspace not configured")
	}
	return workspaceLoader()
}
