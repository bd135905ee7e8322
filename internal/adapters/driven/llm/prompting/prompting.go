// Package prompting holds the prompt handling shared by every LLM adapter:
// template lookup with built-in fallbacks, history formatting, and the
// query rewrite flow that sits on top of plain generation.
package prompting

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// DefaultQueryRewrite condenses a follow-up question into a standalone one.
const DefaultQueryRewrite = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question, in its original language.

Chat History:
%s
Follow Up Input: %s
Standalone question:`

// rewriteStops end a rewrite before the model carries on with the
// template's own turn markers.
var rewriteStops = []string{"\nFollow Up Input:", "\nHuman:", "\nChat History:"}

// GenerateFunc produces a completion for a single prompt.
type GenerateFunc func(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error)

// Load returns the named prompt from store, or fallback when the store is
// nil or cannot supply it.
func Load(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// FormatHistory renders history as "Human:"/"Assistant:" lines.
func FormatHistory(history []driven.ChatMessage) string {
	var b strings.Builder
	for _, m := range history {
		switch m.Role {
		case "user":
			b.WriteString("Human: ")
		case "assistant":
			b.WriteString("Assistant: ")
		default:
			continue
		}
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

// RewriteQuery condenses question against history. An empty history
// returns the question untouched without calling the model.
func RewriteQuery(
	ctx context.Context,
	generate GenerateFunc,
	store driven.PromptStore,
	history []driven.ChatMessage,
	question string,
) (string, error) {
	if len(history) == 0 {
		return question, nil
	}
	template := Load(store, driven.PromptQueryRewrite, DefaultQueryRewrite)
	prompt := fmt.Sprintf(template, FormatHistory(history), question)

	result, err := generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   200,
		Temperature: 0,
		StopWords:   rewriteStops,
	})
	if err != nil {
		return "", fmt.Errorf("rewrite query: %w", err)
	}
	rewritten := strings.TrimSpace(result)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}
