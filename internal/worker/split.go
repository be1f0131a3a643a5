package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fossabot/f4tapir/internal/config"
	"github.com/fossabot/f4tapir/internal/ffmpeg"
	"github.com/fossabot/f4tapir/internal/find"
)

// replaced in tests
var (
	splitAudio      = ffmpeg.SplitAudio
	ffmpegAvailable = ffmpeg.Available
)

// SplitOptions configures splitting recordings.
type SplitOptions struct {
	// Inputs are files and directories, the working directory if empty.
	Inputs []string
	// OutputDir receives the segments, empty puts them next to each
	// recording.
	OutputDir string
	Config    *config.Config
}

// Segmented is a recording and the segments it was cut into.
type Segmented struct {
	Recording string
	Segments  []string
}

// Split cuts every recording found in the inputs into segments. Several
// recordings are split concurrently unless max_concurrent is 1.
func Split(ctx context.Context, opts SplitOptions) ([]Segmented, error) {
	cfg := opts.Config
	recordings, err := find.Interviews(opts.Inputs, cfg.Recursive, cfg)
	if err != nil {
		return nil, fmt.Errorf("find recordings: %w", err)
	}
	if len(recordings) == 0 {
		return nil, ErrNoInterviews
	}
	if !ffmpegAvailable() {
		return nil, ffmpeg.ErrNotInstalled
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	slog.Info("found recordings", "count", len(recordings))

	var results []Segmented
	if cfg.MaxConcurrent > 1 && len(recordings) > 1 {
		results, err = splitConcurrent(ctx, recordings, opts)
	} else {
		results, err = splitSequential(ctx, recordings, opts)
	}
	if err != nil {
		return nil, err
	}

	segments := 0
	for _, r := range results {
		segments += len(r.Segments)
	}
	slog.Info("split recordings", "recordings", len(results), "segments", segments)
	return results, nil
}

// splitOne logs what is known about the recording and cuts it.
func splitOne(ctx context.Context, recording string, opts SplitOptions) (Segmented, error) {
	ffmpeg.LogMediaInfo(ctx, recording)
	segments, err := splitAudio(ctx, recording, opts.OutputDir, opts.Config.SegmentTime)
	if err != nil {
		return Segmented{}, err
	}
	return Segmented{Recording: recording, Segments: segments}, nil
}
