package services

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// processor is the part every source service shares: a pipeline to build
// and converse over, and a summariser for the finished text.
type processor struct {
	*RetrievalPipeline
	summariser *Summariser
}

// finish indexes text and summarises it. Indexing failures fail the
// result; summary failures only change the summary text.
func (p processor) finish(ctx context.Context, kind domain.SourceKind, ref, text string) domain.ProcessResult {
	chunks, err := p.Build(ctx, text)
	if err != nil {
		return p.fail(kind, ref, err)
	}

	summary := p.summariser.SummaryOrError(ctx, kind, text)
	return domain.Succeeded(kind, ref, text, summary, chunks)
}

func (p processor) fail(kind domain.SourceKind, ref string, err error) domain.ProcessResult {
	logger.Error("%s %s: %v", kind, ref, err)
	return domain.Failed(kind, ref, err)
}
