package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// ProcessRequest is the body of POST /api/v1/:kind/process.
type ProcessRequest struct {
	Ref string `json:"ref" binding:"required"`
}

// AskRequest is the body of POST /api/v1/:kind/ask.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// ProcessResponse reports a processing outcome.
type ProcessResponse struct {
	Kind      string `json:"kind"`
	Source    string `json:"source"`
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	Summary   string `json:"summary,omitempty"`
	Chunks    int    `json:"chunks"`
	Text      string `json:"text,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// AskResponse carries an answer. Answer is displayable even on failure.
type AskResponse struct {
	Answer    string `json:"answer"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// ResetResponse reports a reset outcome.
type ResetResponse struct {
	Cleared bool   `json:"cleared"`
	Message string `json:"message"`
}

// Turn is one history entry.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// contentProcessor is implemented by processors that accept uploads.
type contentProcessor interface {
	ProcessContent(ctx context.Context, name string, content []byte) domain.ProcessResult
}

// StatusFor maps an error onto an HTTP status.
func StatusFor(err error) int {
	switch domain.ErrorKindOf(err) {
	case domain.ErrorKindNone:
		return http.StatusOK
	case domain.ErrorKindValidation:
		return http.StatusBadRequest
	case domain.ErrorKindNotProcessed:
		return http.StatusConflict
	case domain.ErrorKindService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listKinds(c *gin.Context) {
	type kindInfo struct {
		Kind  string `json:"kind"`
		Label string `json:"label"`
		Ready bool   `json:"ready"`
	}
	var infos []kindInfo
	for _, k := range s.ports.Workspace.Kinds() {
		p, err := s.ports.Workspace.Get(k)
		if err != nil {
			continue
		}
		infos = append(infos, kindInfo{Kind: k.String(), Label: k.Label(), Ready: p.Ready()})
	}
	c.JSON(http.StatusOK, infos)
}

// processor resolves the :kind path parameter, writing the error
// response itself when it fails.
func (s *Server) processor(c *gin.Context) (driving.SourceProcessor, bool) {
	kind, err := domain.ParseSourceKind(c.Param("kind"))
	if err == nil {
		var p driving.SourceProcessor
		if p, err = s.ports.Workspace.Get(kind); err == nil {
			return p, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	return nil, false
}

func (s *Server) process(c *gin.Context) {
	p, ok := s.processor(c)
	if !ok {
		return
	}

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	ref := req.Ref
	if p.Kind() == domain.SourceDocument {
		path, err := s.documentPath(ref)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		ref = path
	}

	writeResult(c, p.Process(c.Request.Context(), ref), c.Query("text") == "true")
}

// documentPath resolves ref against the document root and rejects paths
// that land outside it, following symlinks.
func (s *Server) documentPath(ref string) (string, error) {
	if s.ports.DocumentRoot == "" {
		return "", errors.New("local document paths are disabled, upload the file to /api/v1/document/upload")
	}
	root, err := filepath.Abs(s.ports.DocumentRoot)
	if err != nil {
		return "", fmt.Errorf("document root: %w", err)
	}
	root = resolveLinks(root)

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = resolveLinks(filepath.Clean(path))

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the document root", ref)
	}
	return path, nil
}

// resolveLinks evaluates symlinks in path. A missing file is resolved
// through its directory.
func resolveLinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		return filepath.Join(dir, filepath.Base(path))
	}
	return path
}

func (s *Server) upload(c *gin.Context) {
	p, ok := s.processor(c)
	if !ok {
		return
	}
	cp, ok := p.(contentProcessor)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": p.Kind().Label() + " sources cannot be uploaded"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file: " + err.Error()})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	writeResult(c, cp.ProcessContent(c.Request.Context(), header.Filename, content), c.Query("text") == "true")
}

func writeResult(c *gin.Context, result domain.ProcessResult, withText bool) {
	resp := ProcessResponse{
		Kind:      result.Kind.String(),
		Source:    result.Source,
		OK:        result.OK(),
		Message:   result.Message(),
		Summary:   result.Summary,
		Chunks:    result.Chunks,
		ErrorKind: string(result.ErrorKind()),
	}
	if withText {
		resp.Text = result.Text
	}
	c.JSON(StatusFor(result.Err), resp)
}

func (s *Server) ask(c *gin.Context) {
	p, ok := s.processor(c)
	if !ok {
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	answer, err := p.Ask(c.Request.Context(), req.Question)
	c.JSON(StatusFor(err), AskResponse{Answer: answer, ErrorKind: string(domain.ErrorKindOf(err))})
}

func (s *Server) reset(c *gin.Context) {
	p, ok := s.processor(c)
	if !ok {
		return
	}
	status := p.Reset()
	c.JSON(http.StatusOK, ResetResponse{Cleared: status.Cleared(), Message: status.Message()})
}

func (s *Server) history(c *gin.Context) {
	p, ok := s.processor(c)
	if !ok {
		return
	}
	history := p.History()
	turns := make([]Turn, len(history))
	for i, t := range history {
		turns[i] = Turn{Role: string(t.Role), Content: t.Content}
	}
	c.JSON(http.StatusOK, turns)
}
