package html

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	raw := &domain.RawDocument{
		URI:       "/path/to/release-notes.html",
		Extension: ".html",
		Content:   []byte("<html><head><title>Test &amp; Page</title></head><body><p>Hello World</p></body></html>"),
	}

	res, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Test & Page", res.Title)
	assert.Equal(t, "Hello World", res.Text)
	assert.Equal(t, "html", res.Format)

	raw.Content = []byte("<p>No title</p>")
	res, err = New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "release notes", res.Title)
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple paragraph", "<p>Hello World</p>", "Hello World"},
		{"nested tags", "<div><p><strong>Bold</strong> text</p></div>", "Bold text"},
		{"script removed", "<p>Before</p><script>alert('evil');</script><p>After</p>", "Before\nAfter"},
		{"style removed", "<style>.foo { color: red; }</style><p>Content</p>", "Content"},
		{"head removed", "<head><title>Title</title></head><body>Content</body>", "Content"},
		{"br to newline", "Line 1<br>Line 2<br/>Line 3", "Line 1\nLine 2\nLine 3"},
		{"entities decoded", "<p>&lt;tag&gt; &amp; &quot;quotes&quot;</p>", "<tag> & \"quotes\""},
		{"comments removed", "<p>Before</p><!-- comment --><p>After</p>", "Before\nAfter"},
		{"list items", "<ul><li>Item 1</li><li>Item 2</li></ul>", "Item 1\nItem 2"},
		{"images removed", `<p>See <img src="image.png" alt="Image"> here</p>`, "See here"},
		{"table cells spaced", "<table><tr><td>Cell 1</td><td>Cell 2</td></tr></table>", "Cell 1 Cell 2"},
		{"nav kept as block", "<nav>Home</nav><main>Body</main>", "Home\nBody"},
		{"nbsp collapsed", "<p>a&nbsp;&nbsp; b</p>", "a b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractText(tc.input))
		})
	}
}

func TestExtractLinks(t *testing.T) {
	base, err := url.Parse("https://example.com/docs/")
	require.NoError(t, err)

	page := `<a href="/about">About</a>
		<a class="x" href='pricing#plans'>Pricing</a>
		<a href="https://example.com/about#team">Team</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="#top">Top</a>
		<a href=https://blog.example.com/>Blog</a>
		<a href="https://example.com/docs/">Self</a>`

	assert.Equal(t, []string{
		"https://example.com/about",
		"https://example.com/docs/pricing",
		"https://blog.example.com/",
	}, ExtractLinks(page, base))
}

func TestExtractTitle_Missing(t *testing.T) {
	assert.Empty(t, ExtractTitle("<p>x</p>"))
}
