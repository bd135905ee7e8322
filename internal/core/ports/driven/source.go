package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// AudioDownloader fetches the audio track of a remote video.
type AudioDownloader interface {
	// Download writes the audio for videoID into dir and returns its path.
	// The caller owns the file and must remove it.
	Download(ctx context.Context, videoID, dir string) (string, error)
}

// Transcriber converts speech in a local audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// PageFetcher fetches one web page as readable text plus its outbound links.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.Page, error)
}

// LinkSelector decides which outbound links of a landing page are worth
// crawling and labels each with its type.
type LinkSelector interface {
	Select(ctx context.Context, pageURL string, links []string) ([]domain.Link, error)
}
