// Package messages defines Bubbletea message types for the TUI.
// Messages carry the results of work done in tea.Cmds back to the model.
package messages

import (
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// SourceProcessed carries a processing outcome.
type SourceProcessed struct {
	Kind   domain.SourceKind
	Result domain.ProcessResult
}

// AnswerReceived carries the answer to a question. Answer is displayable
// even when Err is set.
type AnswerReceived struct {
	Kind     domain.SourceKind
	Question string
	Answer   string
	Err      error
}

// ConversationReset reports that a conversation was cleared.
type ConversationReset struct {
	Kind   domain.SourceKind
	Status domain.ResetStatus
}

// KindChanged is sent when the active source kind changes.
type KindChanged struct {
	Kind domain.SourceKind
}

// Mode identifies what the active view is waiting for.
type Mode int

const (
	// ModeSource waits for a URL or path.
	ModeSource Mode = iota
	// ModeChat waits for questions.
	ModeChat
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSource:
		return "source"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}
