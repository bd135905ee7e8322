package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestTabs_Navigation(t *testing.T) {
	tabs := New(nil, domain.AllSourceKinds())

	assert.Equal(t, domain.SourceVideo, tabs.Selected())
	assert.Equal(t, domain.SourceWebsite, tabs.Next())
	assert.Equal(t, domain.SourceDocument, tabs.Next())
	assert.Equal(t, domain.SourceVideo, tabs.Next())
	assert.Equal(t, domain.SourceDocument, tabs.Prev())
}

func TestTabs_Select(t *testing.T) {
	tabs := New(nil, domain.AllSourceKinds())

	assert.True(t, tabs.Select(domain.SourceDocument))
	assert.Equal(t, domain.SourceDocument, tabs.Selected())
	assert.False(t, tabs.Select("podcast"))
	assert.Equal(t, domain.SourceDocument, tabs.Selected())
}

func TestTabs_Empty(t *testing.T) {
	tabs := New(nil, nil)

	assert.Equal(t, domain.SourceKind(""), tabs.Selected())
	assert.Equal(t, domain.SourceKind(""), tabs.Next())
	assert.Equal(t, domain.SourceKind(""), tabs.Prev())
	assert.Empty(t, tabs.View())
}

func TestTabs_View(t *testing.T) {
	tabs := New(nil, domain.AllSourceKinds())
	tabs.SetReady(domain.SourceWebsite, true)

	view := tabs.View()

	assert.Contains(t, view, "Video")
	assert.Contains(t, view, "Website"+readyMark)
	assert.Contains(t, view, "Document")
	assert.NotContains(t, view, "Video"+readyMark)
	assert.Equal(t, "video,website,document", tabs.String())
}
