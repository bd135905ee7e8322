// Package vectorindex selects a vector index backend from settings.
package vectorindex

import (
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/chromem"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex/sqlite"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// NewFactory creates the index factory for the configured backend.
// The returned close function releases backend resources and is never nil.
func NewFactory(cfg domain.IndexSettings) (driven.IndexFactory, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case domain.IndexBackendMemory, "":
		return memory.Factory{}, noop, nil
	case domain.IndexBackendChromem:
		return chromem.NewFactory(), noop, nil
	case domain.IndexBackendSQLite:
		f, err := sqlite.NewFactory(cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("opening sqlite index: %w", err)
		}
		return f, f.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: index backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
}
