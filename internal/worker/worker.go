// Package worker orchestrates the merge and split commands: discovery,
// loading, the merge itself, publishing and ffmpeg runs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/fossabot/f4tapir/internal/config"
	"github.com/fossabot/f4tapir/internal/find"
	"github.com/fossabot/f4tapir/internal/output"
	"github.com/fossabot/f4tapir/internal/transcript"
)

var (
	// ErrNoTranscripts means no input could be loaded as a transcript.
	ErrNoTranscripts = errors.New("no transcripts found for merging")
	// ErrNoInterviews means no recordings were found for splitting.
	ErrNoInterviews = errors.New("no interview recordings found")
)

// MergeOptions configures a merge.
type MergeOptions struct {
	// Inputs are files and directories, the working directory if empty.
	Inputs []string
	// Output is the file to write, stdout if empty.
	Output string
	// DryRun writes the merge plan instead of merging.
	DryRun bool
	// Stdout receives the merged transcript or plan if Output is empty.
	// Defaults to os.Stdout.
	Stdout io.Writer
	Config *config.Config
}

func (o MergeOptions) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

// Merge merges all transcripts found in the inputs, in lexicographic
// order of their paths. Transcripts that fail to load are skipped with a
// warning.
func Merge(ctx context.Context, opts MergeOptions) (transcript.Stats, error) {
	cfg := opts.Config
	paths, err := find.Transcripts(opts.Inputs, cfg.Recursive, cfg)
	if err != nil {
		return transcript.Stats{}, fmt.Errorf("find transcripts: %w", err)
	}
	slog.Debug("found transcripts", "count", len(paths))
	if len(paths) == 0 {
		return transcript.Stats{}, ErrNoTranscripts
	}

	if opts.DryRun {
		plan, err := BuildPlan(ctx, paths)
		if err != nil {
			return transcript.Stats{}, err
		}
		return plan.Stats(), writePlan(opts, plan)
	}

	next, stop := iter.Pull(loadAll(ctx, paths))
	defer stop()

	// nothing is published unless at least one transcript loads
	first, ok := next()
	if !ok {
		if err := ctx.Err(); err != nil {
			return transcript.Stats{}, err
		}
		return transcript.Stats{}, ErrNoTranscripts
	}

	sink, err := openSink(opts)
	if err != nil {
		return transcript.Stats{}, err
	}
	m := transcript.NewMerger(sink)
	progress := rate.Sometimes{Interval: time.Second}

	for doc := first; ok; doc, ok = next() {
		if err := m.Add(doc); err != nil {
			_ = sink.Abort()
			return m.Stats(), fmt.Errorf("write merged transcript: %w", err)
		}
		progress.Do(func() {
			s := m.Stats()
			slog.Debug("merging", "done", s.Transcripts, "total", len(paths), "length", s.Length)
		})
	}
	if err := ctx.Err(); err != nil {
		_ = sink.Abort()
		return m.Stats(), err
	}

	stats, err := m.Close()
	if err != nil {
		_ = sink.Abort()
		return stats, fmt.Errorf("write merged transcript: %w", err)
	}
	if err := sink.Commit(); err != nil {
		return stats, fmt.Errorf("write merged transcript: %w", err)
	}

	slog.Info("merged transcripts",
		"transcripts", stats.Transcripts,
		"skipped", len(paths)-stats.Transcripts,
		"splices", stats.Splices,
		"lines", stats.Lines,
		"length", stats.Length)
	return stats, nil
}

// loadAll yields the transcripts that load, logging the others. It stops
// early when ctx is done.
func loadAll(ctx context.Context, paths []string) iter.Seq[*transcript.Transcript] {
	return func(yield func(*transcript.Transcript) bool) {
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}
			doc, err := transcript.Load(path)
			if err != nil {
				slog.Warn("failed to load transcript, skipping", "path", path, "err", err)
				continue
			}
			slog.Debug("loaded transcript", "path", path, "end_time", doc.EndTime())
			if !yield(doc) {
				return
			}
		}
	}
}

func openSink(opts MergeOptions) (output.Sink, error) {
	if opts.Output == "" {
		return output.NewStream(opts.stdout()), nil
	}
	f, err := output.Create(opts.Output, opts.Config.Force)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func writePlan(opts MergeOptions, plan *Plan) error {
	sink, err := openSink(opts)
	if err != nil {
		return err
	}
	if err := plan.Write(sink); err != nil {
		_ = sink.Abort()
		return err
	}
	return sink.Commit()
}
