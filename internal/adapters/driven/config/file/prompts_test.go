package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_NoIO(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptChatVideo)
	require.NoError(t, err)

	for name := range DefaultPrompts() {
		_, err := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, err)
}

func TestPromptStore_Load_DefaultsForEveryName(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	names := []string{
		driven.PromptQueryRewrite, driven.PromptLinkSelect,
		driven.PromptChatVideo, driven.PromptChatWebsite, driven.PromptChatDocument,
		driven.PromptSummaryVideo, driven.PromptSummaryWebsite, driven.PromptSummaryDocument,
	}
	for _, name := range names {
		prompt, err := store.Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, prompt, name)
	}
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat_website.txt"), []byte("  Be brief.  \n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatWebsite)
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")
	assert.Error(t, err)
}

func TestPromptStore_Load_FallsBackWhenFileRemoved(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, err = store.Load(driven.PromptSummaryDocument)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "summary_document.txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptSummaryDocument)
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompts()[driven.PromptSummaryDocument], prompt)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	path := filepath.Join(dir, "chat_video.txt")

	require.NoError(t, os.WriteFile(path, []byte("first"), 0600))
	first, err := store.Load(driven.PromptChatVideo)
	require.NoError(t, err)
	assert.Equal(t, "first", first)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0600))
	cached, _ := store.Load(driven.PromptChatVideo)
	assert.Equal(t, "first", cached)

	store.Reload()
	fresh, _ := store.Load(driven.PromptChatVideo)
	assert.Equal(t, "second", fresh)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Load(driven.PromptQueryRewrite)
		}()
		go func() {
			defer wg.Done()
			store.Reload()
		}()
	}
	wg.Wait()
}

func TestPromptStore_Watch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	path := filepath.Join(dir, "chat_document.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	got, err := store.Load(driven.PromptChatDocument)
	require.NoError(t, err)
	require.Equal(t, "old", got)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("new"), 0600)
		got, _ := store.Load(driven.PromptChatDocument)
		return got == "new"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIsPromptEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write txt", fsnotify.Event{Name: "chat_video.txt", Op: fsnotify.Write}, true},
		{"create txt", fsnotify.Event{Name: "chat_video.txt", Op: fsnotify.Create}, true},
		{"remove txt", fsnotify.Event{Name: "chat_video.txt", Op: fsnotify.Remove}, true},
		{"chmod txt", fsnotify.Event{Name: "chat_video.txt", Op: fsnotify.Chmod}, false},
		{"readme", fsnotify.Event{Name: "README.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPromptEvent(tt.event))
		})
	}
}
