package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys of all settings, shared by flags, environment and config file.
const (
	Recursive           = "recursive"
	Force               = "force"
	SegmentTime         = "segment_time"
	MaxConcurrent       = "max_concurrent"
	LaunchesPerMinute   = "launches_per_minute"
	SniffBytes          = "sniff_bytes"
	SoundExtensions     = "sound_extensions"
	TranscriptExtension = "transcript_extension"
)

// EnvPrefix is prepended to the upper-cased key of environment variables,
// e.g. F4TAPIR_SEGMENT_TIME.
const EnvPrefix = "f4tapir"

// Config holds the full application configuration.
type Config struct {
	// Recursive makes discovery descend into subdirectories.
	Recursive bool
	// Force allows overwriting an existing merge output file.
	Force bool

	// SegmentTime is the length of split segments as HH:MM:SS.
	SegmentTime string
	// MaxConcurrent bounds the recordings split in parallel.
	MaxConcurrent int
	// LaunchesPerMinute paces ffmpeg starts, 0 disables pacing.
	LaunchesPerMinute int

	// SniffBytes is how much of a file is searched for a timestamp
	// before it is taken for a transcript.
	SniffBytes int
	// SoundExtensions are the extensions of recordings, with case.
	SoundExtensions []string
	// TranscriptExtension is the extension of transcripts, without dot.
	TranscriptExtension string
}

// Default returns a Config with the defaults F4 users expect.
func Default() *Config {
	return &Config{
		SegmentTime:         "00:05:00",
		MaxConcurrent:       2,
		LaunchesPerMinute:   60,
		SniffBytes:          4096,
		SoundExtensions:     []string{"mp3", "MP3", "wav", "WAV", "m4a", "M4A", "AAC"},
		TranscriptExtension: "rtf",
	}
}

// SetDefaults registers the values of Default with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(Recursive, d.Recursive)
	v.SetDefault(Force, d.Force)
	v.SetDefault(SegmentTime, d.SegmentTime)
	v.SetDefault(MaxConcurrent, d.MaxConcurrent)
	v.SetDefault(LaunchesPerMinute, d.LaunchesPerMinute)
	v.SetDefault(SniffBytes, d.SniffBytes)
	v.SetDefault(SoundExtensions, d.SoundExtensions)
	v.SetDefault(TranscriptExtension, d.TranscriptExtension)
}

// Load reads the configuration from defaults, the config file, the
// environment and whatever flags have been bound to v, in increasing order
// of precedence.
//
// If file is empty, f4tapir.yaml is looked up in the working directory and
// the home directory, and it is fine if there is none.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("f4tapir")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := &Config{
		Recursive:           v.GetBool(Recursive),
		Force:               v.GetBool(Force),
		SegmentTime:         v.GetString(SegmentTime),
		MaxConcurrent:       v.GetInt(MaxConcurrent),
		LaunchesPerMinute:   v.GetInt(LaunchesPerMinute),
		SniffBytes:          v.GetInt(SniffBytes),
		SoundExtensions:     v.GetStringSlice(SoundExtensions),
		TranscriptExtension: strings.TrimPrefix(v.GetString(TranscriptExtension), "."),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := ParseSegmentTime(c.SegmentTime); err != nil {
		return err
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("invalid %s %d: must be at least 1", MaxConcurrent, c.MaxConcurrent)
	}
	if c.LaunchesPerMinute < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", LaunchesPerMinute, c.LaunchesPerMinute)
	}
	if c.SniffBytes < 1 {
		return fmt.Errorf("invalid %s %d: must be positive", SniffBytes, c.SniffBytes)
	}
	if c.TranscriptExtension == "" {
		return fmt.Errorf("invalid %s: must not be empty", TranscriptExtension)
	}
	return nil
}

// ParseSegmentTime parses a positive HH:MM:SS duration as ffmpeg takes it.
func ParseSegmentTime(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid %s %q: want HH:MM:SS", SegmentTime, s)
	}
	var hms [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && n > 59) || len(p) < 2 {
			return 0, fmt.Errorf("invalid %s %q: want HH:MM:SS", SegmentTime, s)
		}
		hms[i] = n
	}
	d := time.Duration(hms[0])*time.Hour + time.Duration(hms[1])*time.Minute + time.Duration(hms[2])*time.Second
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", SegmentTime, s)
	}
	return d, nil
}

// IsSoundExtension reports whether ext, with or without leading dot, is
// one of the configured sound extensions. The comparison is case-sensitive.
func (c *Config) IsSoundExtension(ext string) bool {
	return slices.Contains(c.SoundExtensions, strings.TrimPrefix(ext, "."))
}

// IsTranscriptPath reports whether path has the transcript extension.
func (c *Config) IsTranscriptPath(path string) bool {
	return strings.TrimPrefix(filepath.Ext(path), ".") == c.TranscriptExtension
}
