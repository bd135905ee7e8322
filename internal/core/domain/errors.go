package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrValidation indicates malformed caller input such as a bad URL or
	// an invalid chunking profile.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedFormat indicates a document extension no normaliser handles.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format", ErrValidation)

	// ErrEmptyContent indicates extraction produced only whitespace.
	ErrEmptyContent = fmt.Errorf("%w: no text found in the document", ErrValidation)

	// ErrEmptyInput indicates an index was requested from zero chunks.
	ErrEmptyInput = errors.New("empty input")

	// ErrDimensionMismatch indicates vectors of different lengths in one index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrService indicates an external provider (embedding, generation,
	// transcription, download or fetch) failed or was unreachable.
	ErrService = errors.New("service error")

	// ErrNotProcessed indicates a conversation was attempted before any
	// source was processed. It is a recoverable, user-facing state.
	ErrNotProcessed = errors.New("no source processed yet")

	// ErrUnsupportedType indicates an unknown source kind or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrTranscriptionUnavailable indicates the speech-to-text service is not configured.
	ErrTranscriptionUnavailable = errors.New("transcription service unavailable")
)

// ErrorKind classifies an error for callers that branch on failure type.
type ErrorKind string

// Error kinds.
const (
	ErrorKindNone         ErrorKind = ""
	ErrorKindValidation   ErrorKind = "validation"
	ErrorKindService      ErrorKind = "service"
	ErrorKindNotProcessed ErrorKind = "not_processed"
	ErrorKindInternal     ErrorKind = "internal"
)

// ErrorKindOf maps an error onto its kind.
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedType):
		return ErrorKindValidation
	case errors.Is(err, ErrNotProcessed):
		return ErrorKindNotProcessed
	case errors.Is(err, ErrService),
		errors.Is(err, ErrLLMUnavailable),
		errors.Is(err, ErrEmbeddingUnavailable),
		errors.Is(err, ErrTranscriptionUnavailable):
		return ErrorKindService
	default:
		return ErrorKindInternal
	}
}
