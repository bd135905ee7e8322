// Package sqlite provides a vector index stored in SQLite.
//
// Chunks and their embeddings live in a single chunks table, one logical
// index per row of the indexes table. Embeddings are stored as
// little-endian float32 blobs and scored in Go with an exact cosine scan,
// so results match the in-memory backend.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory and embedded into the binary.
//
// # Lifetime
//
// The default DSN is an in-memory database that disappears with the
// process. A file DSN keeps the tables around, but each processed source
// still gets a fresh logical index.
package sqlite
