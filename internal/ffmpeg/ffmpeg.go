// Package ffmpeg runs ffmpeg and ffprobe to cut interview recordings into
// segments of fixed length.
package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrNotInstalled means ffmpeg could not be found on the PATH.
	ErrNotInstalled = errors.New("failed to invoke ffmpeg, install it with your favorite package manager " +
		"or download it from https://ffmpeg.org/download.html and add it to your PATH")
	// ErrFailed means ffmpeg ran but reported failure.
	ErrFailed = errors.New("splitting with ffmpeg failed")
)

// MediaInfo holds duration and codec information from ffprobe.
type MediaInfo struct {
	Duration float64
	Codec    string
}

// Available returns true if ffmpeg is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// ProbeMedia uses ffprobe to get media duration and audio codec.
func ProbeMedia(ctx context.Context, path string) (*MediaInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name:format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (*MediaInfo, error) {
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, _ := strconv.ParseFloat(probe.Format.Duration, 64)

	codec := "N/A"
	if len(probe.Streams) > 0 && probe.Streams[0].CodecName != "" {
		codec = probe.Streams[0].CodecName
	}

	return &MediaInfo{Duration: dur, Codec: codec}, nil
}

// SegmentPattern is the ffmpeg output template for the segments of a
// recording, e.g. dir/interview-%03d.mp3 for interview.mp3. An empty dir
// puts the segments next to the recording.
func SegmentPattern(recording, dir string) string {
	if dir == "" {
		dir = filepath.Dir(recording)
	}
	ext := filepath.Ext(recording)
	stem := strings.TrimSuffix(filepath.Base(recording), ext)
	return filepath.Join(dir, stem+"-%03d"+ext)
}

// splitArgs are the ffmpeg arguments for cutting recording into segments
// without re-encoding.
func splitArgs(recording, pattern, segmentTime string) []string {
	return []string{
		"-nostdin",
		"-i", recording,
		"-c", "copy",
		"-map", "0",
		"-segment_time", segmentTime,
		"-f", "segment",
		pattern,
	}
}

// SplitAudio cuts recording into segments of segmentTime (HH:MM:SS) in
// dir, or next to the recording if dir is empty. Returns the sorted list
// of segment paths.
func SplitAudio(ctx context.Context, recording, dir, segmentTime string) ([]string, error) {
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}
	pattern := SegmentPattern(recording, dir)

	slog.Info("splitting recording", "file", filepath.Base(recording), "segment_time", segmentTime)

	cmd := exec.CommandContext(ctx, bin, splitArgs(recording, pattern, segmentTime)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v\n%s", ErrFailed, recording, err, out)
	}

	segments, err := Segments(recording, dir)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s: no segments written", ErrFailed, recording)
	}
	return segments, nil
}

// Segments lists the existing segments of recording in dir, as named by
// SegmentPattern, in order.
func Segments(recording, dir string) ([]string, error) {
	pattern := SegmentPattern(recording, dir)
	dir = filepath.Dir(pattern)
	prefix, suffix, _ := strings.Cut(filepath.Base(pattern), "%03d")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var segments []string
	for _, entry := range entries {
		name := entry.Name()
		num, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		num, ok = strings.CutSuffix(num, suffix)
		if !ok || len(num) < 3 || strings.Trim(num, "0123456789") != "" {
			continue
		}
		segments = append(segments, filepath.Join(dir, name))
	}
	slices.Sort(segments)
	return segments, nil
}

// LogMediaInfo logs file size and media information.
func LogMediaInfo(ctx context.Context, path string) *MediaInfo {
	stat, err := os.Stat(path)
	if err != nil {
		slog.Warn("cannot stat file", "path", path, "err", err)
		return nil
	}

	attrs := []any{
		"file", filepath.Base(path),
		"size_mb", fmt.Sprintf("%.2f", float64(stat.Size())/(1024*1024)),
	}

	info, err := ProbeMedia(ctx, path)
	if err == nil {
		minutes := int(info.Duration) / 60
		seconds := int(info.Duration) % 60
		attrs = append(attrs, "duration", fmt.Sprintf("%02d:%02d", minutes, seconds), "codec", info.Codec)
	} else {
		slog.Debug("probe failed", "path", path, "err", err)
	}

	slog.Info("recording", attrs...)
	return info
}
