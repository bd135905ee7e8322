package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptQueryRewrite condenses a follow-up question into a standalone query.
	// The template expects %s (history) and %s (question) placeholders.
	PromptQueryRewrite = "query_rewrite"

	// PromptLinkSelect asks for relevant links as JSON. No placeholders.
	PromptLinkSelect = "link_select"

	// PromptChatVideo, PromptChatWebsite and PromptChatDocument are the
	// conversation system prompts for each source kind. No placeholders.
	PromptChatVideo    = "chat_video"
	PromptChatWebsite  = "chat_website"
	PromptChatDocument = "chat_document"

	// PromptSummaryVideo, PromptSummaryWebsite and PromptSummaryDocument are
	// the summariser system prompts for each source kind. No placeholders.
	PromptSummaryVideo    = "summary_video"
	PromptSummaryWebsite  = "summary_website"
	PromptSummaryDocument = "summary_document"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses its built-in prompts.
	SetPromptStore(store PromptStore)
}
