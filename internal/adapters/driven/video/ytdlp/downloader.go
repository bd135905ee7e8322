// Package ytdlp downloads the audio track of online videos by shelling
// out to yt-dlp.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure Downloader implements the interface.
var _ driven.AudioDownloader = (*Downloader)(nil)

// DefaultBinary is the executable looked up on PATH.
const DefaultBinary = "yt-dlp"

// watchURL is the canonical URL handed to yt-dlp for a video ID.
const watchURL = "https://www.youtube.com/watch?v="

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Downloader extracts mp3 audio with yt-dlp.
type Downloader struct {
	binary string
	run    Runner
}

// New creates a downloader. An empty binary means DefaultBinary.
func New(binary string) *Downloader {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Downloader{binary: binary, run: execRunner}
}

// WithRunner replaces the command runner.
func (d *Downloader) WithRunner(run Runner) *Downloader {
	d.run = run
	return d
}

// AudioPath returns where the audio for videoID lands inside dir.
func AudioPath(dir, videoID string) string {
	return filepath.Join(dir, "temp_audio_"+videoID+".mp3")
}

// Download writes dir/temp_audio_<id>.mp3 and returns its path. When
// yt-dlp could not convert to mp3 the downloaded audio file is returned
// instead. Nothing it wrote is left behind on failure.
func (d *Downloader) Download(ctx context.Context, videoID, dir string) (string, error) {
	if videoID == "" {
		return "", fmt.Errorf("%w: empty video id", domain.ErrValidation)
	}
	if dir == "" {
		dir = os.TempDir()
	}

	template := filepath.Join(dir, "temp_audio_"+videoID+".%(ext)s")
	args := []string{
		"--no-playlist",
		"--quiet",
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"-o", template,
		watchURL + videoID,
	}
	logger.Debug("running %s %s", d.binary, strings.Join(args, " "))

	out, err := d.run(ctx, d.binary, args...)
	if err != nil {
		removeLeftovers(dir, videoID)
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", fmt.Errorf("%w: %s not found, install it to process videos", domain.ErrService, d.binary)
		}
		return "", fmt.Errorf("%w: %s: %w: %s", domain.ErrService, d.binary, err, strings.TrimSpace(string(out)))
	}

	path := AudioPath(dir, videoID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if alt := firstAudioFile(dir, videoID); alt != "" {
		logger.Debug("%s kept %s without converting to mp3", d.binary, alt)
		return alt, nil
	}
	removeLeftovers(dir, videoID)
	return "", fmt.Errorf("%w: %s produced no audio file", domain.ErrService, d.binary)
}

// leftovers lists every file yt-dlp may have written for videoID.
func leftovers(dir, videoID string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "temp_audio_"+videoID+".*"))
	if err != nil {
		return nil
	}
	return matches
}

// firstAudioFile returns a finished download for videoID, skipping
// partial files.
func firstAudioFile(dir, videoID string) string {
	for _, m := range leftovers(dir, videoID) {
		if strings.HasSuffix(m, ".part") || strings.HasSuffix(m, ".ytdl") {
			continue
		}
		return m
	}
	return ""
}

func removeLeftovers(dir, videoID string) {
	for _, m := range leftovers(dir, videoID) {
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("removing %s: %v", m, err)
		}
	}
}
