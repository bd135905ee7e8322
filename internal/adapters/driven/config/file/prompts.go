package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/llm/prompting"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/web"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation: files are only created when first
// accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// DefaultPrompts returns the built-in prompt for every well-known name.
// These are used when user files don't exist and as the initial content
// for new files.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptQueryRewrite:    prompting.DefaultQueryRewrite,
		driven.PromptLinkSelect:      web.DefaultLinkSelectPrompt,
		driven.PromptChatVideo:       domain.SourceVideo.DefaultChatPrompt(),
		driven.PromptChatWebsite:     domain.SourceWebsite.DefaultChatPrompt(),
		driven.PromptChatDocument:    domain.SourceDocument.DefaultChatPrompt(),
		driven.PromptSummaryVideo:    domain.SourceVideo.DefaultSummaryPrompt(),
		driven.PromptSummaryWebsite:  domain.SourceWebsite.DefaultSummaryPrompt(),
		driven.PromptSummaryDocument: domain.SourceDocument.DefaultSummaryPrompt(),
	}
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.ragdesk/prompts/.
//
// The constructor does not perform any I/O.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	defaults := DefaultPrompts()

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaults[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// No lock held during I/O
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaults[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load is not overwritten
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Watch reloads the cache whenever a prompt file changes until ctx is
// cancelled. It blocks, so callers run it in a goroutine.
func (s *PromptStore) Watch(ctx context.Context) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.initErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.promptDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPromptEvent(event) {
				continue
			}
			logger.Debug("prompt file changed: %s", event.Name)
			s.Reload()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompt watcher: %v", werr)
		}
	}
}

// isPromptEvent reports whether event changes a prompt file's content.
func isPromptEvent(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".txt" {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// initialise creates the prompt directory and default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range DefaultPrompts() {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# ragdesk prompts

This directory contains customisable prompts used by ragdesk.

## Files

- ` + "`query_rewrite.txt`" + ` - Condenses follow-up questions before retrieval
- ` + "`link_select.txt`" + ` - Picks the linked pages worth reading on a website
- ` + "`chat_<kind>.txt`" + ` - Conversation system prompt for video, website and document
- ` + "`summary_<kind>.txt`" + ` - Summary system prompt for video, website and document

## Customisation

Edit any file to customise LLM behaviour. Running sessions (TUI, serve,
mcp) pick up changes automatically. Delete a file to restore its default
on the next start.

## Format Placeholders

Some prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (conversation history, question or content)
- ` + "`%d`" + ` - Integer (max length)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
