package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// DefaultSummaryInputChars is how much of a text is sent for summarising.
const DefaultSummaryInputChars = 4000

// SummaryParams are the sampling parameters for one source kind.
type SummaryParams struct {
	MaxTokens   int
	Temperature float64
}

// summaryParams holds the per-kind defaults. Transcripts get a warmer
// temperature; documents get a longer summary.
var summaryParams = map[domain.SourceKind]SummaryParams{
	domain.SourceVideo:    {MaxTokens: 300, Temperature: 0.7},
	domain.SourceWebsite:  {MaxTokens: 300, Temperature: 0.3},
	domain.SourceDocument: {MaxTokens: 500, Temperature: 0.3},
}

// summaryRequests are the per-kind user messages wrapping the text.
var summaryRequests = map[domain.SourceKind]string{
	domain.SourceVideo: "Please provide a comprehensive summary using the same language " +
		"of the following video transcript:\n\n%s",
	domain.SourceWebsite: "Please analyze this website and provide a comprehensive summary " +
		"in the same language as the website content:\n\n%s",
	domain.SourceDocument: "Please analyze this document and provide a comprehensive summary " +
		"in the same language as the document:\n\n%s",
}

// summaryPromptNames maps kinds to their PromptStore entries.
var summaryPromptNames = map[domain.SourceKind]string{
	domain.SourceVideo:    driven.PromptSummaryVideo,
	domain.SourceWebsite:  driven.PromptSummaryWebsite,
	domain.SourceDocument: driven.PromptSummaryDocument,
}

// chatPromptNames maps kinds to their conversation PromptStore entries.
var chatPromptNames = map[domain.SourceKind]string{
	domain.SourceVideo:    driven.PromptChatVideo,
	domain.SourceWebsite:  driven.PromptChatWebsite,
	domain.SourceDocument: driven.PromptChatDocument,
}

// Summariser writes one-shot summaries of extracted text.
type Summariser struct {
	llm           driven.LLMService
	prompts       driven.PromptStore
	maxInputChars int
}

// NewSummariser creates a summariser. prompts may be nil and maxInputChars
// <= 0 selects DefaultSummaryInputChars.
func NewSummariser(llm driven.LLMService, prompts driven.PromptStore, maxInputChars int) *Summariser {
	if maxInputChars <= 0 {
		maxInputChars = DefaultSummaryInputChars
	}
	return &Summariser{llm: llm, prompts: prompts, maxInputChars: maxInputChars}
}

// ParamsFor returns the sampling parameters used for kind.
func ParamsFor(kind domain.SourceKind) SummaryParams {
	if p, ok := summaryParams[kind]; ok {
		return p
	}
	return summaryParams[domain.SourceDocument]
}

// Summarise asks the LLM for a summary of text in the text's own language.
func (s *Summariser) Summarise(ctx context.Context, kind domain.SourceKind, text string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	input, truncated := truncateRunes(text, s.maxInputChars)
	if truncated {
		input += "..."
	}
	params := ParamsFor(kind)

	messages := []driven.ChatMessage{
		{Role: string(domain.RoleSystem), Content: s.systemPrompt(kind)},
		{Role: string(domain.RoleUser), Content: fmt.Sprintf(summaryRequest(kind), input)},
	}

	summary, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("summarise %s: %w", kind, err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", domain.ErrService)
	}
	return summary, nil
}

// SummaryOrError returns the summary, or the "Error generating summary"
// text when summarising fails. A failed summary never fails processing.
func (s *Summariser) SummaryOrError(ctx context.Context, kind domain.SourceKind, text string) string {
	summary, err := s.Summarise(ctx, kind, text)
	if err != nil {
		logger.Warn("%s: summary failed: %v", kind, err)
		if errors.Is(err, context.Canceled) {
			return "Error generating summary: cancelled"
		}
		return "Error generating summary: " + err.Error()
	}
	return summary
}

func summaryRequest(kind domain.SourceKind) string {
	if r, ok := summaryRequests[kind]; ok {
		return r
	}
	return "Please provide a comprehensive summary using the same language of the following " +
		kind.ContentNoun() + ":\n\n%s"
}

func (s *Summariser) systemPrompt(kind domain.SourceKind) string {
	fallback := kind.DefaultSummaryPrompt()
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(summaryPromptNames[kind])
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// truncateRunes returns the first n runes of s and whether it was cut.
func truncateRunes(s string, n int) (string, bool) {
	if n <= 0 {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
