package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about a source",
	Long: `Process a source and answer one question about it, without the
interactive chat.

Examples:
  ragdesk ask --kind doc --ref report.pdf "What were the Q3 results?"
  ragdesk ask --kind web --ref https://example.com "What does this company sell?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("kind", "k", "", "Source kind: video, web or doc")
	askCmd.Flags().StringP("ref", "r", "", "Video URL, website URL or document path")
	_ = askCmd.MarkFlagRequired("kind")
	_ = askCmd.MarkFlagRequired("ref")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	kindFlag, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("getting kind flag: %w", err)
	}
	ref, err := cmd.Flags().GetString("ref")
	if err != nil {
		return fmt.Errorf("getting ref flag: %w", err)
	}

	kind, err := domain.ParseSourceKind(kindFlag)
	if err != nil {
		return err
	}
	processor, err := sourceProcessor(kind)
	if err != nil {
		return err
	}

	result := processor.Process(cmd.Context(), ref)
	if !result.OK() {
		return fmt.Errorf("processing %s: %w", kind, result.Err)
	}

	answer, err := processor.Ask(cmd.Context(), strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	if err != nil && !errors.Is(err, domain.ErrNotProcessed) {
		return fmt.Errorf("answering question: %w", err)
	}
	return nil
}
