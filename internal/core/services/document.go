package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.SourceProcessor = (*DocumentService)(nil)

// DocumentService extracts text from uploaded files and converses over it.
type DocumentService struct {
	processor
	normalisers driven.NormaliserRegistry
}

// NewDocumentService creates a document service.
func NewDocumentService(
	pipeline *RetrievalPipeline,
	summariser *Summariser,
	normalisers driven.NormaliserRegistry,
) *DocumentService {
	return &DocumentService{
		processor:   processor{RetrievalPipeline: pipeline, summariser: summariser},
		normalisers: normalisers,
	}
}

// Kind returns domain.SourceDocument.
func (s *DocumentService) Kind() domain.SourceKind {
	return domain.SourceDocument
}

// Process is ProcessFile through the common interface.
func (s *DocumentService) Process(ctx context.Context, path string) domain.ProcessResult {
	return s.ProcessFile(ctx, path)
}

// ProcessFile reads the document at path from disk and processes it.
func (s *DocumentService) ProcessFile(ctx context.Context, path string) domain.ProcessResult {
	normaliser, err := s.normaliserFor(path)
	if err != nil {
		return s.fail(s.Kind(), path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return s.fail(s.Kind(), path, fmt.Errorf("%w: read %s: %w", domain.ErrValidation, filepath.Base(path), err))
	}
	return s.process(ctx, normaliser, &domain.RawDocument{
		URI:       path,
		Extension: strings.ToLower(filepath.Ext(path)),
		Content:   content,
	})
}

// ProcessContent processes an in-memory upload named name.
func (s *DocumentService) ProcessContent(ctx context.Context, name string, content []byte) domain.ProcessResult {
	normaliser, err := s.normaliserFor(name)
	if err != nil {
		return s.fail(s.Kind(), name, err)
	}
	return s.process(ctx, normaliser, &domain.RawDocument{
		URI:       name,
		Extension: strings.ToLower(filepath.Ext(name)),
		Content:   content,
	})
}

// Extract returns the plain text of a document without indexing it.
func (s *DocumentService) Extract(ctx context.Context, raw *domain.RawDocument) (string, error) {
	normaliser, err := s.normaliserFor(raw.URI)
	if err != nil {
		return "", err
	}
	return s.extract(ctx, normaliser, raw)
}

func (s *DocumentService) process(
	ctx context.Context, normaliser driven.Normaliser, raw *domain.RawDocument,
) domain.ProcessResult {
	text, err := s.extract(ctx, normaliser, raw)
	if err != nil {
		return s.fail(s.Kind(), raw.URI, err)
	}
	return s.finish(ctx, s.Kind(), raw.URI, text)
}

func (s *DocumentService) extract(
	ctx context.Context, normaliser driven.Normaliser, raw *domain.RawDocument,
) (string, error) {
	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result.Text) == "" {
		return "", domain.NewUserError(domain.ErrEmptyContent, "No text found in the document")
	}
	return result.Text, nil
}

// normaliserFor picks the normaliser by the extension of name.
func (s *DocumentService) normaliserFor(name string) (driven.Normaliser, error) {
	ext := strings.ToLower(filepath.Ext(name))
	normaliser, err := s.normalisers.For(ext)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			return nil, domain.NewUserError(domain.ErrUnsupportedFormat, "Unsupported file format: "+ext)
		}
		return nil, err
	}
	return normaliser, nil
}
