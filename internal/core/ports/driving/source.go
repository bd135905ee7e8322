package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Conversation is a retrieval-augmented dialogue over one knowledge base.
type Conversation interface {
	// Ask answers a question using retrieved context and prior turns.
	// Before any source was processed it returns the not-processed
	// sentinel text together with domain.ErrNotProcessed. When generation
	// fails it returns an answer-shaped error message and the error; the
	// answer text is always suitable for display.
	Ask(ctx context.Context, question string) (string, error)

	// Reset clears dialogue history but keeps the knowledge base.
	Reset() domain.ResetStatus

	// History returns a copy of the conversation so far.
	History() []domain.ConversationTurn

	// Ready reports whether a knowledge base has been built.
	Ready() bool
}

// SourceProcessor ingests one kind of source and converses over it.
type SourceProcessor interface {
	Conversation

	// Kind returns the source kind handled.
	Kind() domain.SourceKind

	// Process extracts text from ref, rebuilds the knowledge base and
	// summarises it. Failures are reported in the result, not returned.
	Process(ctx context.Context, ref string) domain.ProcessResult
}

// Workspace exposes the independent per-kind processors.
type Workspace interface {
	// Get returns the processor for kind, or domain.ErrUnsupportedType.
	Get(kind domain.SourceKind) (SourceProcessor, error)

	// Kinds lists the available kinds.
	Kinds() []domain.SourceKind
}
