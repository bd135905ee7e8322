// Command ragdesk summarises videos, websites and documents and answers
// questions about them.
package main

import (
	"os"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragdesk/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(func(opts cli.Options) (*cli.Services, error) {
		a, err := app.New(app.Options{
			ConfigPath: opts.ConfigPath,
			NoConfig:   opts.NoConfig,
		})
		if err != nil {
			return nil, err
		}
		return &cli.Services{
			Settings:  a.Settings(),
			Workspace: a.Workspace,
			Close:     a.Close,
		}, nil
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
