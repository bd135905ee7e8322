// Package domain defines the core business entities for ragdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded window of source text, the unit of retrieval
//   - EmbeddedChunk: A chunk paired with its embedding vector
//   - ConversationTurn: One role-tagged message in a dialogue
//   - ProcessResult: The success/failure outcome of processing a source
//   - Settings: Explicit runtime configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
