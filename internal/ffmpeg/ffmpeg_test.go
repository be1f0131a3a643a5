package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentPattern(t *testing.T) {
	tests := []struct {
		recording string
		dir       string
		want      string
	}{
		{"testdata/interview.mp3", "", filepath.Join("testdata", "interview-%03d.mp3")},
		{"interview.mp3", "", "interview-%03d.mp3"},
		{"in/interview.final.WAV", "out", filepath.Join("out", "interview.final-%03d.WAV")},
		{"in/interview", "out", filepath.Join("out", "interview-%03d")},
	}
	for _, tt := range tests {
		got := SegmentPattern(filepath.FromSlash(tt.recording), tt.dir)
		if got != tt.want {
			t.Errorf("SegmentPattern(%q, %q) = %q, want %q", tt.recording, tt.dir, got, tt.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	got := splitArgs("a.mp3", "a-%03d.mp3", "00:05:00")
	want := []string{
		"-nostdin", "-i", "a.mp3", "-c", "copy", "-map", "0",
		"-segment_time", "00:05:00", "-f", "segment", "a-%03d.mp3",
	}
	assert.Equal(t, want, got)
}

func TestSegments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"interview-001.mp3", "interview-000.mp3", "interview-1000.mp3",
		"interview-01.mp3", "interview-abc.mp3", "interview-002.wav",
		"interview.mp3", "other-000.mp3",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err := Segments(filepath.Join(dir, "interview.mp3"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "interview-000.mp3"),
		filepath.Join(dir, "interview-001.mp3"),
		filepath.Join(dir, "interview-1000.mp3"),
	}, got)
}

func TestParseProbe(t *testing.T) {
	info, err := parseProbe([]byte(`{"streams":[{"codec_name":"mp3"}],"format":{"duration":"312.5"}}`))
	require.NoError(t, err)
	assert.Equal(t, &MediaInfo{Duration: 312.5, Codec: "mp3"}, info)

	info, err = parseProbe([]byte(`{"format":{}}`))
	require.NoError(t, err)
	assert.Equal(t, &MediaInfo{Codec: "N/A"}, info)

	_, err = parseProbe([]byte("nope"))
	assert.Error(t, err)
}

// fakeFFmpeg puts a shell script named ffmpeg first on the PATH.
func fakeFFmpeg(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "ffmpeg"), []byte("#!/bin/sh\n"+script), 0o755))
	t.Setenv("PATH", bin)
}

func TestSplitAudio(t *testing.T) {
	// writes three segments named by the pattern in the last argument
	fakeFFmpeg(t, `for last; do :; done
for i in 0 1 2; do : > "$(printf "$last" "$i")"; done
`)
	in := t.TempDir()
	out := t.TempDir()
	recording := filepath.Join(in, "interview.mp3")
	require.NoError(t, os.WriteFile(recording, nil, 0o644))

	segments, err := SplitAudio(context.Background(), recording, out, "00:05:00")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(out, "interview-000.mp3"),
		filepath.Join(out, "interview-001.mp3"),
		filepath.Join(out, "interview-002.mp3"),
	}, segments)
}

func TestSplitAudio_Failed(t *testing.T) {
	fakeFFmpeg(t, "echo 'Invalid data found when processing input' >&2\nexit 1\n")

	_, err := SplitAudio(context.Background(), filepath.Join(t.TempDir(), "broken.mp3"), "", "00:05:00")
	require.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, err.Error(), "Invalid data")
}

func TestSplitAudio_NotInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	assert.False(t, Available())

	_, err := SplitAudio(context.Background(), "interview.mp3", "", "00:05:00")
	assert.True(t, errors.Is(err, ErrNotInstalled), "got %v", err)
}
