package driven

import "github.com/custodia-labs/ragdesk/internal/core/domain"

// Splitter breaks text into overlapping chunks ready for embedding.
//
// Implementations: postprocessors/chunker.
type Splitter interface {
	// Split returns the chunks of text. Blank text yields no chunks.
	Split(text string) []domain.Chunk

	// Profile returns the chunk size and overlap in use.
	Profile() domain.ChunkProfile
}
