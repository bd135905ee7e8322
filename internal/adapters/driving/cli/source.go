package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

var videoCmd = &cobra.Command{
	Use:   "video [url]",
	Short: "Summarise a YouTube video and chat about it",
	Long: `Download the audio of a YouTube video, transcribe it, summarise the
transcript and start a conversation about it.

Requires yt-dlp on PATH and an OpenAI API key for transcription.

Examples:
  ragdesk video https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ragdesk video --no-chat https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.ExactArgs(1),
	RunE: runSource(domain.SourceVideo),
}

var webCmd = &cobra.Command{
	Use:     "web [url]",
	Aliases: []string{"website"},
	Short:   "Summarise a website and chat about it",
	Long: `Fetch a landing page and the linked pages most relevant to the
business, summarise them and start a conversation about the site.`,
	Args: cobra.ExactArgs(1),
	RunE: runSource(domain.SourceWebsite),
}

var docCmd = &cobra.Command{
	Use:     "doc [path]",
	Aliases: []string{"document"},
	Short:   "Summarise a document and chat about it",
	Long: `Extract the text of a local document, summarise it and start a
conversation about it.

Supported formats: .pdf, .txt, .docx, .md, .html`,
	Args: cobra.ExactArgs(1),
	RunE: runSource(domain.SourceDocument),
}

func init() {
	for _, c := range []*cobra.Command{videoCmd, webCmd, docCmd} {
		c.Flags().Bool("no-chat", false, "Exit after printing the summary")
		c.Flags().Bool("text", false, "Also print the extracted text")
		rootCmd.AddCommand(c)
	}
}

func runSource(kind domain.SourceKind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		noChat, err := cmd.Flags().GetBool("no-chat")
		if err != nil {
			return fmt.Errorf("getting no-chat flag: %w", err)
		}
		showText, err := cmd.Flags().GetBool("text")
		if err != nil {
			return fmt.Errorf("getting text flag: %w", err)
		}

		processor, err := sourceProcessor(kind)
		if err != nil {
			return err
		}

		cmd.Printf("Processing %s %s...\n", strings.ToLower(kind.Label()), args[0])
		result := processor.Process(cmd.Context(), args[0])
		printResult(cmd, result, showText)
		if !result.OK() {
			return fmt.Errorf("processing %s: %w", kind, result.Err)
		}

		if noChat {
			return nil
		}
		return chatLoop(cmd, processor)
	}
}

func sourceProcessor(kind domain.SourceKind) (driving.SourceProcessor, error) {
	ws, err := loadWorkspace()
	if err != nil {
		return nil, err
	}
	return ws.Get(kind)
}

func printResult(cmd *cobra.Command, result domain.ProcessResult, showText bool) {
	cmd.Println(result.Message())
	if !result.OK() {
		return
	}
	logger.Debug("%s indexed into %d chunks", result.Source, result.Chunks)

	if showText {
		cmd.Println()
		cmd.Println("Extracted Text")
		cmd.Println("==============")
		cmd.Println(result.Text)
	}
	cmd.Println()
	cmd.Println("Summary")
	cmd.Println("=======")
	cmd.Println(result.Summary)
	cmd.Println()
}

// chatLoop reads questions until EOF or /exit.
func chatLoop(cmd *cobra.Command, conv driving.Conversation) error {
	cmd.Println("Ask a question. Commands: /reset clears the conversation, /exit quits.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			cmd.Println(conv.Reset().Message())
			continue
		}

		answer, err := conv.Ask(cmd.Context(), line)
		if err != nil {
			logger.Debug("ask failed: %v", err)
		}
		cmd.Println(answer)
		cmd.Println()
	}
}
