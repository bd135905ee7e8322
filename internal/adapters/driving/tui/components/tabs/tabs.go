// Package tabs renders the source kind selector.
package tabs

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// readyMark is appended to kinds that have a processed source.
const readyMark = " ●"

// Tabs tracks the selected source kind.
type Tabs struct {
	kinds    []domain.SourceKind
	selected int
	ready    map[domain.SourceKind]bool
	styles   *styles.Styles
}

// New creates tabs over kinds with the first one selected.
func New(s *styles.Styles, kinds []domain.SourceKind) *Tabs {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Tabs{
		kinds:  kinds,
		ready:  make(map[domain.SourceKind]bool),
		styles: s,
	}
}

// Selected returns the selected kind, or "" when there are none.
func (t *Tabs) Selected() domain.SourceKind {
	if len(t.kinds) == 0 {
		return ""
	}
	return t.kinds[t.selected]
}

// Next selects the following kind, wrapping around.
func (t *Tabs) Next() domain.SourceKind {
	if len(t.kinds) > 0 {
		t.selected = (t.selected + 1) % len(t.kinds)
	}
	return t.Selected()
}

// Prev selects the preceding kind, wrapping around.
func (t *Tabs) Prev() domain.SourceKind {
	if len(t.kinds) > 0 {
		t.selected = (t.selected - 1 + len(t.kinds)) % len(t.kinds)
	}
	return t.Selected()
}

// Select selects kind if present.
func (t *Tabs) Select(kind domain.SourceKind) bool {
	for i, k := range t.kinds {
		if k == kind {
			t.selected = i
			return true
		}
	}
	return false
}

// SetReady marks whether kind has a processed source.
func (t *Tabs) SetReady(kind domain.SourceKind, ready bool) {
	t.ready[kind] = ready
}

// View renders the tabs on one line.
func (t *Tabs) View() string {
	rendered := make([]string, 0, len(t.kinds))
	for i, k := range t.kinds {
		label := k.Label()
		if t.ready[k] {
			label += readyMark
		}
		style := t.styles.Tab
		if i == t.selected {
			style = t.styles.ActiveTab
		}
		rendered = append(rendered, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// String lists the kinds, for debugging.
func (t *Tabs) String() string {
	names := make([]string, len(t.kinds))
	for i, k := range t.kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}
