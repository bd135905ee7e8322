package tui

import "errors"

// ErrMissingWorkspace is returned when the workspace is not provided.
var ErrMissingWorkspace = errors.New("tui: workspace is required")

// ErrNoSourceKinds is returned when the workspace offers no processors.
var ErrNoSourceKinds = errors.New("tui: workspace has no source kinds")
