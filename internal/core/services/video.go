package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure VideoService implements the interface.
var _ driving.SourceProcessor = (*VideoService)(nil)

// videoIDPatterns match the watch, short-link and embed URL forms.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#\s]*&)?v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([A-Za-z0-9_-]+)`),
}

// ExtractVideoID returns the video ID of a YouTube URL.
func ExtractVideoID(url string) (string, error) {
	url = strings.TrimSpace(url)
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", domain.NewUserError(domain.ErrValidation, "Invalid YouTube URL")
}

// VideoService transcribes a video's audio and converses over the
// transcript.
type VideoService struct {
	processor
	downloader  driven.AudioDownloader
	transcriber driven.Transcriber
	tempDir     string
}

// NewVideoService creates a video service. transcriber may be nil, in
// which case Process fails with domain.ErrTranscriptionUnavailable.
func NewVideoService(
	pipeline *RetrievalPipeline,
	summariser *Summariser,
	downloader driven.AudioDownloader,
	transcriber driven.Transcriber,
	tempDir string,
) *VideoService {
	return &VideoService{
		processor:   processor{RetrievalPipeline: pipeline, summariser: summariser},
		downloader:  downloader,
		transcriber: transcriber,
		tempDir:     tempDir,
	}
}

// Kind returns domain.SourceVideo.
func (s *VideoService) Kind() domain.SourceKind {
	return domain.SourceVideo
}

// Process downloads the audio of url, transcribes it, rebuilds the
// knowledge base and summarises the transcript.
func (s *VideoService) Process(ctx context.Context, url string) domain.ProcessResult {
	text, err := s.transcript(ctx, url)
	if err != nil {
		return s.fail(s.Kind(), url, err)
	}
	return s.finish(ctx, s.Kind(), url, text)
}

// transcript returns the text spoken in the video at url. The downloaded
// audio is removed on every path.
func (s *VideoService) transcript(ctx context.Context, url string) (string, error) {
	id, err := ExtractVideoID(url)
	if err != nil {
		return "", err
	}
	if s.transcriber == nil {
		return "", fmt.Errorf("%w: set OPENAI_API_KEY to transcribe videos", domain.ErrTranscriptionUnavailable)
	}

	dir := s.tempDir
	if dir == "" {
		dir = os.TempDir()
	}

	logger.Info("Downloading audio for %s", id)
	audioPath, err := s.downloader.Download(ctx, id, dir)
	if err != nil {
		return "", fmt.Errorf("download audio: %w", err)
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("removing %s: %v", audioPath, err)
		}
	}()

	logger.Info("Transcribing %s", audioPath)
	text, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.NewUserError(domain.ErrEmptyContent, "The video transcript is empty")
	}
	return text, nil
}
