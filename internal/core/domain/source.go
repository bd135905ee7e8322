package domain

import "strings"

// SourceKind identifies one of the content domains ragdesk can ingest.
type SourceKind string

// Available source kinds.
const (
	// SourceVideo is a remote video whose audio is transcribed.
	SourceVideo SourceKind = "video"

	// SourceWebsite is a landing page plus its relevant linked pages.
	SourceWebsite SourceKind = "website"

	// SourceDocument is an uploaded PDF, text, DOCX, markdown or HTML file.
	SourceDocument SourceKind = "document"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceVideo, SourceWebsite, SourceDocument:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Label returns the capitalised display name.
func (k SourceKind) Label() string {
	switch k {
	case SourceVideo:
		return "Video"
	case SourceWebsite:
		return "Website"
	case SourceDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// RefName names what the user supplies to process this kind of source.
func (k SourceKind) RefName() string {
	switch k {
	case SourceVideo:
		return "video"
	case SourceWebsite:
		return "URL"
	default:
		return "document"
	}
}

// NotProcessedMessage is the sentinel answer returned when a question is
// asked before any source of this kind was processed.
func (k SourceKind) NotProcessedMessage() string {
	return "No " + strings.ToLower(k.Label()) + " processed yet. Please process a " + k.RefName() + " first."
}

// AllSourceKinds returns every source kind in display order.
func AllSourceKinds() []SourceKind {
	return []SourceKind{SourceVideo, SourceWebsite, SourceDocument}
}

// ParseSourceKind accepts the canonical names plus a few aliases.
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "youtube":
		return SourceVideo, nil
	case "website", "web", "url":
		return SourceWebsite, nil
	case "document", "doc", "file":
		return SourceDocument, nil
	default:
		return "", NewUserError(ErrUnsupportedType, "Unknown source kind: "+s)
	}
}

// UserError pairs an error kind with text fit for display.
type UserError struct {
	// Kind is the sentinel this error matches under errors.Is.
	Kind error

	// Text is the human-readable message.
	Text string
}

// NewUserError creates a UserError.
func NewUserError(kind error, text string) *UserError {
	return &UserError{Kind: kind, Text: text}
}

func (e *UserError) Error() string {
	return e.Text
}

func (e *UserError) Unwrap() error {
	return e.Kind
}

// ProcessResult is the outcome of processing one source. Exactly one of a
// successful (Err == nil) or failed (Err != nil) result is produced; on
// failure Text and Summary are empty.
type ProcessResult struct {
	// Kind is the source domain that was processed.
	Kind SourceKind

	// Source is the reference the caller supplied (URL or path).
	Source string

	// Text is the full extracted text.
	Text string

	// Summary is the generated summary. It may carry a summary error
	// message while the result is still successful.
	Summary string

	// Chunks is how many chunks were indexed.
	Chunks int

	// Err is set when processing failed.
	Err error
}

// Succeeded builds a successful result.
func Succeeded(kind SourceKind, source, text, summary string, chunks int) ProcessResult {
	return ProcessResult{Kind: kind, Source: source, Text: text, Summary: summary, Chunks: chunks}
}

// Failed builds a failed result.
func Failed(kind SourceKind, source string, err error) ProcessResult {
	return ProcessResult{Kind: kind, Source: source, Err: err}
}

// OK reports whether processing succeeded.
func (r ProcessResult) OK() bool {
	return r.Err == nil
}

// ErrorKind classifies the failure, or ErrorKindNone on success.
func (r ProcessResult) ErrorKind() ErrorKind {
	return ErrorKindOf(r.Err)
}

// Message returns the status line shown to users.
func (r ProcessResult) Message() string {
	if r.Err == nil {
		return r.Kind.Label() + " processed successfully!"
	}
	return "Error processing " + strings.ToLower(r.Kind.Label()) + ": " + r.Err.Error()
}
