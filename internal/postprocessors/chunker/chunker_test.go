package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// reassemble drops each chunk's leading overlap and joins the rest.
func reassemble(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c)
			continue
		}
		b.WriteString(string([]rune(c)[overlap:]))
	}
	return b.String()
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, c.overlap)
	})

	t.Run("custom values", func(t *testing.T) {
		c, err := New(WithChunkSize(500), WithOverlap(100))
		require.NoError(t, err)
		assert.Equal(t, domain.TranscriptProfile, c.Profile())
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("invalid option values ignored", func(t *testing.T) {
		c, err := New(WithChunkSize(0), WithOverlap(-1))
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, c.overlap)
	})
}

func TestFromProfile(t *testing.T) {
	c, err := FromProfile(domain.DocumentProfile)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentProfile, c.Profile())

	_, err = FromProfile(domain.ChunkProfile{MaxSize: 10, Overlap: 10})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSplitText_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t"} {
		chunks, err := SplitText(in, 10, 2)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestSplitText_ShorterThanMax(t *testing.T) {
	chunks, err := SplitText("hello world", 100, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world"}, chunks)
}

func TestSplitText_SentenceScenario(t *testing.T) {
	text := "A. B. C."
	chunks, err := SplitText(text, 4, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"A. ", " B. ", " C."}, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 4)
	}
	assert.Equal(t, text, reassemble(chunks, 1))
}

func TestSplitText_PrefersParagraphs(t *testing.T) {
	text := "First paragraph here.\n\nSecond paragraph is here too."
	chunks, err := SplitText(text, 30, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "First paragraph here.\n\n", chunks[0])
}

func TestSplitText_PrefersSentenceOverWord(t *testing.T) {
	text := "One two three. Four five six seven eight"
	chunks, err := SplitText(text, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "One two three. ", chunks[0])
}

func TestSplitText_HardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("x", 25)
	chunks, err := SplitText(text, 10, 3)
	require.NoError(t, err)

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 10)
	}
	assert.Equal(t, "xxxxxxxxxx", chunks[0])
	assert.Equal(t, text, reassemble(chunks, 3))
}

func TestSplitText_Properties(t *testing.T) {
	texts := []string{
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60),
		strings.Repeat("Line one\nLine two\n\nNew para with words ", 40),
		strings.Repeat("Unicode ünïcödé 日本語のテキスト。 ", 50),
		"no-boundaries-" + strings.Repeat("abcdefghij", 90),
	}
	profiles := []domain.ChunkProfile{
		domain.DocumentProfile,
		domain.TranscriptProfile,
		{MaxSize: 37, Overlap: 5},
		{MaxSize: 16, Overlap: 0},
	}

	for _, text := range texts {
		for _, p := range profiles {
			chunks, err := SplitText(text, p.MaxSize, p.Overlap)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			for i, c := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), p.MaxSize)
				if i > 0 {
					prev := []rune(chunks[i-1])
					cur := []rune(c)
					assert.Equal(t, string(prev[len(prev)-p.Overlap:]), string(cur[:p.Overlap]),
						"consecutive chunks must share the overlap")
				}
			}
			assert.Equal(t, text, reassemble(chunks, p.Overlap))
		}
	}
}

func TestSplitText_InvalidProfile(t *testing.T) {
	_, err := SplitText("text", 4, 4)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = SplitText("text", 0, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChunker_Split(t *testing.T) {
	c, err := New(WithChunkSize(50), WithOverlap(10))
	require.NoError(t, err)

	text := strings.Repeat("Sentence number one is here. ", 10)
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	runes := []rune(text)
	seen := make(map[string]bool)
	for i, ch := range chunks {
		assert.NotEmpty(t, ch.ID)
		assert.False(t, seen[ch.ID], "chunk IDs must be unique")
		seen[ch.ID] = true
		assert.Equal(t, string(runes[ch.Offset.Start:ch.Offset.End]), ch.Text)
		if i > 0 {
			assert.Equal(t, chunks[i-1].Offset.End-10, ch.Offset.Start)
		}
	}
	assert.Equal(t, len(runes), chunks[len(chunks)-1].Offset.End)
	assert.Nil(t, c.Split(""))
}
