package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetTimestamps(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestVerboseOnlyLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("chunks=%d", 3) }, "[DEBUG] chunks=3\n"},
		{"info", func() { Info("indexed %s", "doc") }, "[INFO] indexed doc\n"},
		{"section", func() { Section("Retrieval") }, "\n=== Retrieval ===\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, false)
			tt.log()
			assert.Empty(t, buf.String())

			SetVerbose(true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWarnAndErrorAlwaysPrint(t *testing.T) {
	buf := capture(t, false)
	Warn("skipping %s", "https://example.com/blog")
	Error("boom")
	assert.Equal(t, "[WARN] skipping https://example.com/blog\n[ERROR] boom\n", buf.String())
}

func TestTimestamps(t *testing.T) {
	buf := capture(t, false)
	SetTimestamps(true)
	Warn("x")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\S+ \[WARN\] x\n$`, buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
