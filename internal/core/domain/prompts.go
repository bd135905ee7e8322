package domain

import "fmt"

// summaryInstructions is shared by every summary prompt. %s names the
// content, for example "video transcript".
const summaryInstructions = `You are a helpful assistant that creates comprehensive summaries of %[1]ss.

IMPORTANT INSTRUCTIONS:
1. Analyse the language of the provided %[1]s
2. Write the summary in the SAME LANGUAGE as the %[1]s
3. If the %[1]s is in Arabic, write the summary in Arabic
4. If the %[1]s is in English, write the summary in English
5. And so on for any other language

Create a well-structured summary that includes:
- Main topic and purpose
- Key points discussed
- Important details and examples
- Conclusions or takeaways

Keep the summary comprehensive but concise, and maintain the same tone and formality level as the original content.`

// chatInstructions is shared by every conversation prompt.
const chatInstructions = `You are a helpful assistant answering questions about a %[1]s.
Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.
Answer in the language of the question.`

// ContentNoun names what the source's text is, for prompts and messages.
func (k SourceKind) ContentNoun() string {
	switch k {
	case SourceVideo:
		return "video transcript"
	case SourceWebsite:
		return "website content"
	default:
		return "document"
	}
}

// DefaultSummaryPrompt returns the built-in summariser system prompt.
func (k SourceKind) DefaultSummaryPrompt() string {
	return fmt.Sprintf(summaryInstructions, k.ContentNoun())
}

// DefaultChatPrompt returns the built-in conversation system prompt.
func (k SourceKind) DefaultChatPrompt() string {
	return fmt.Sprintf(chatInstructions, k.ContentNoun())
}
