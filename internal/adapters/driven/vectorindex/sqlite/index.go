package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/scoring"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/sqlite/migrations"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// MemoryDSN is an in-memory database private to the process.
const MemoryDSN = ":memory:"

// Factory owns the database connection and creates logical indexes in it.
type Factory struct {
	db  *sql.DB
	dsn string
}

// Ensure Factory implements the interface.
var _ driven.IndexFactory = (*Factory)(nil)

// NewFactory opens the database at dsn and runs migrations.
// An empty dsn selects MemoryDSN.
func NewFactory(dsn string) (*Factory, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: sees its own empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	f := &Factory{db: db, dsn: dsn}
	if err := f.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return f, nil
}

// Close closes the database connection.
func (f *Factory) Close() error {
	return f.db.Close()
}

// DSN returns the data source name in use.
func (f *Factory) DSN() string {
	return f.dsn
}

// New creates an empty logical index.
func (f *Factory) New(ctx context.Context, name string) (driven.VectorIndex, error) {
	id := uuid.NewString()
	if _, err := f.db.ExecContext(ctx,
		"INSERT INTO indexes (id, name) VALUES (?, ?)", id, name); err != nil {
		return nil, fmt.Errorf("creating index %s: %w", name, err)
	}
	return &Index{db: f.db, id: id, name: name}, nil
}

// migrate runs all pending up migrations in file name order.
func (f *Factory) migrate(fsys embed.FS) error {
	_, err := f.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := f.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := f.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := f.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Index is one logical vector index inside the shared database.
type Index struct {
	mu     sync.RWMutex
	db     *sql.DB
	id     string
	name   string
	dim    int
	count  int
	closed bool
}

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Add inserts embedded chunks in one transaction.
func (x *Index) Add(ctx context.Context, chunks []domain.EmbeddedChunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return fmt.Errorf("index %s is closed", x.name)
	}

	dim, err := scoring.CheckDimensions(x.dim, chunks)
	if err != nil {
		return err
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (index_id, id, seq, content, start_offset, end_offset, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, x.id, c.Chunk.ID, x.count+i, c.Chunk.Text,
			c.Chunk.Offset.Start, c.Chunk.Offset.End, float32SliceToBytes(c.Vector)); err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				return fmt.Errorf("%w: duplicate chunk id %s", domain.ErrValidation, c.Chunk.ID)
			}
			return fmt.Errorf("inserting chunk %s: %w", c.Chunk.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE indexes SET dimensions = ? WHERE id = ?", dim, x.id); err != nil {
		return fmt.Errorf("updating dimensions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}

	x.dim = dim
	x.count += len(chunks)
	return nil
}

// Search scans the stored embeddings and returns the k best chunks.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.closed {
		return nil, fmt.Errorf("index %s is closed", x.name)
	}
	if scoring.ClampK(k, x.count) == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dim)
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT id, content, start_offset, end_offset, embedding
		FROM chunks WHERE index_id = ? ORDER BY seq
	`, x.id)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.EmbeddedChunk, 0, x.count)
	for rows.Next() {
		var c domain.EmbeddedChunk
		var blob []byte
		if err := rows.Scan(&c.Chunk.ID, &c.Chunk.Text, &c.Chunk.Offset.Start, &c.Chunk.Offset.End, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Vector = bytesToFloat32Slice(blob)
		entries = append(entries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return scoring.TopK(query, entries, k), nil
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.count
}

// Close deletes the index and its chunks.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return nil
	}
	x.closed = true
	x.count = 0

	if _, err := x.db.Exec("DELETE FROM chunks WHERE index_id = ?", x.id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := x.db.Exec("DELETE FROM indexes WHERE id = ?", x.id); err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
