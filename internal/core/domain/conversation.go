package domain

// Role tags the author of a conversation message.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a dialogue.
type ConversationTurn struct {
	Role    Role
	Content string
}

// ResetStatus reports the outcome of clearing a conversation.
type ResetStatus int

const (
	// ResetNothing means there was no history to clear.
	ResetNothing ResetStatus = iota

	// ResetCleared means history was cleared.
	ResetCleared
)

// Cleared reports whether history was actually removed.
func (s ResetStatus) Cleared() bool {
	return s == ResetCleared
}

// Message returns the user-facing status text.
func (s ResetStatus) Message() string {
	if s == ResetCleared {
		return "Conversation history cleared!"
	}
	return "No conversation to reset."
}

// String implements fmt.Stringer.
func (s ResetStatus) String() string {
	if s == ResetCleared {
		return "cleared"
	}
	return "nothing"
}
