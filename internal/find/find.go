// Package find collects transcripts and interview recordings from the
// paths given on the command line.
package find

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/fossabot/f4tapir/internal/config"
	"github.com/fossabot/f4tapir/internal/timestamp"
)

// Predicate decides whether a file is collected.
type Predicate func(path string) (bool, error)

// Collect examines the given files and directories and returns the files
// matching the predicate, sorted lexicographically. Files inside
// directories are examined too, and subdirectories if recursive is set.
// Without paths, the working directory is examined.
func Collect(from []string, recursive bool, match Predicate) ([]string, error) {
	if len(from) == 0 {
		from = []string{"."}
	}
	var found []string
	for _, input := range from {
		info, err := os.Stat(input)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("input not found, ignoring", "path", input)
			continue
		}
		if err != nil {
			return nil, err
		}
		if found, err = add(found, input, info, recursive, match); err != nil {
			return nil, err
		}
	}
	slices.Sort(found)
	return found, nil
}

func add(into []string, path string, info fs.FileInfo, recursive bool, match Predicate) ([]string, error) {
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return into, err
		}
		for _, entry := range entries {
			child := filepath.Join(path, entry.Name())
			// follow symlinks like the top level paths
			info, err := os.Stat(child)
			if err != nil {
				slog.Debug("cannot stat, ignoring", "path", child, "err", err)
				continue
			}
			if info.IsDir() && !recursive {
				continue
			}
			if into, err = add(into, child, info, recursive, match); err != nil {
				return into, err
			}
		}
		return into, nil
	}
	if !info.Mode().IsRegular() {
		return into, nil
	}
	ok, err := match(path)
	if err != nil {
		return into, err
	}
	if ok {
		into = append(into, path)
	}
	return into, nil
}

// Transcripts collects F4 transcripts.
func Transcripts(from []string, recursive bool, cfg *config.Config) ([]string, error) {
	return Collect(from, recursive, func(path string) (bool, error) {
		return IsTranscript(path, cfg)
	})
}

// Interviews collects recordings by their file extension.
func Interviews(from []string, recursive bool, cfg *config.Config) ([]string, error) {
	return Collect(from, recursive, func(path string) (bool, error) {
		return cfg.IsSoundExtension(filepath.Ext(path)), nil
	})
}

// IsTranscript reports whether path looks like an F4 transcript: it has
// the transcript extension and a timestamp in its first bytes.
func IsTranscript(path string, cfg *config.Config) (bool, error) {
	if !cfg.IsTranscriptPath(path) {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, cfg.SniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return timestamp.Contains(head[:n]), nil
}
