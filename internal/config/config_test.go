package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f4tapir.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "00:05:00", c.SegmentTime)
	assert.Equal(t, 4096, c.SniffBytes)
	assert.True(t, c.IsSoundExtension(".mp3"))
	assert.True(t, c.IsSoundExtension("AAC"))
	assert.False(t, c.IsSoundExtension("aac"))
	assert.False(t, c.IsSoundExtension(".flac"))
	assert.True(t, c.IsTranscriptPath("interview/01.rtf"))
	assert.False(t, c.IsTranscriptPath("interview/01.RTF"))
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(viper.New(), writeConfig(t, "# nothing set\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
recursive: true
segment_time: "00:10:00"
max_concurrent: 4
sound_extensions: [ogg, flac]
transcript_extension: .rtf
`)
	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.True(t, c.Recursive)
	assert.Equal(t, "00:10:00", c.SegmentTime)
	assert.Equal(t, 4, c.MaxConcurrent)
	assert.Equal(t, []string{"ogg", "flac"}, c.SoundExtensions)
	assert.Equal(t, "rtf", c.TranscriptExtension)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "max_concurrent: 4\n")
	t.Setenv("F4TAPIR_MAX_CONCURRENT", "8")
	t.Setenv("F4TAPIR_FORCE", "true")

	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.MaxConcurrent)
	assert.True(t, c.Force)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"segment time", `segment_time: "5m"`},
		{"concurrency", "max_concurrent: 0"},
		{"launches", "launches_per_minute: -1"},
		{"sniff bytes", "sniff_bytes: 0"},
		{"extension", `transcript_extension: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestParseSegmentTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"00:05:00", 5 * time.Minute, true},
		{"01:00:30", time.Hour + 30*time.Second, true},
		{"100:00:00", 100 * time.Hour, true},
		{"00:00:00", 0, false},
		{"00:60:00", 0, false},
		{"0:5:0", 0, false},
		{"05:00", 0, false},
		{"aa:bb:cc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseSegmentTime(tt.in)
		if !tt.ok {
			assert.Error(t, err, "ParseSegmentTime(%q)", tt.in)
			continue
		}
		if assert.NoError(t, err, "ParseSegmentTime(%q)", tt.in) {
			assert.Equal(t, tt.want, got)
		}
	}
}
