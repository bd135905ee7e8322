// Package tui provides an interactive terminal user interface for ragdesk.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Workspace provides one processor per source kind.
	Workspace driving.Workspace
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Workspace == nil {
		return ErrMissingWorkspace
	}
	return nil
}
