// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// RetrievalPipeline is the conversation engine shared by every source
// kind: it chunks text, embeds and indexes the chunks, and answers
// questions from the most similar chunks plus the conversation history.
// VideoService, WebsiteService and DocumentService turn a reference into
// text and hand it to their own pipeline; Workspace groups them by kind.
//
// Services are pure Go with no CGO or external dependencies.
package services
