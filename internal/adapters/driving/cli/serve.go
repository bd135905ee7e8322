package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the workspace over a JSON HTTP API.

Endpoints:
  GET  /healthz
  GET  /api/v1/kinds
  POST /api/v1/{kind}/process   {"ref": "..."}
  POST /api/v1/{kind}/upload    multipart field "file" (documents)
  POST /api/v1/{kind}/ask       {"question": "..."}
  POST /api/v1/{kind}/reset
  GET  /api/v1/{kind}/history

Document paths sent to process must live under --doc-root. Without it,
documents are only accepted through upload.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", httpapi.DefaultAddr, "Listen address")
	serveCmd.Flags().String("doc-root", "", "Directory local document paths are read from")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	docRoot, err := cmd.Flags().GetString("doc-root")
	if err != nil {
		return fmt.Errorf("getting doc-root flag: %w", err)
	}

	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{Workspace: ws, DocumentRoot: docRoot})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, addr)
}
