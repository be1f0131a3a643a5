package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type splitResult struct {
	Index int
	Segmented
}

// launchLimit paces ffmpeg starts, 0 per minute means no pacing.
func launchLimit(perMinute int) rate.Limit {
	if perMinute <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(perMinute) / 60.0)
}

// splitConcurrent splits recordings with bounded parallelism and paced
// ffmpeg launches.
func splitConcurrent(ctx context.Context, recordings []string, opts SplitOptions) ([]Segmented, error) {
	cfg := opts.Config
	slog.Info("starting concurrent splitting",
		"recordings", len(recordings),
		"max_concurrent", cfg.MaxConcurrent,
		"launches_per_minute", cfg.LaunchesPerMinute)

	limiter := rate.NewLimiter(launchLimit(cfg.LaunchesPerMinute), 1)

	var (
		mu      sync.Mutex
		results []splitResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrent)

	for i, recording := range recordings {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			slog.Info("starting recording", "recording", fmt.Sprintf("%d/%d", i+1, len(recordings)))

			r, err := splitOne(gctx, recording, opts)
			if err != nil {
				return fmt.Errorf("recording %d/%d: %w", i+1, len(recordings), err)
			}

			mu.Lock()
			results = append(results, splitResult{Index: i, Segmented: r})
			mu.Unlock()

			slog.Info("recording completed",
				"recording", fmt.Sprintf("%d/%d", i+1, len(recordings)),
				"segments", len(r.Segments))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		mu.Lock()
		completed := len(results)
		mu.Unlock()

		// retry the rest one at a time unless cancelled
		if completed > 0 && ctx.Err() == nil {
			slog.Warn("concurrent splitting partially failed, falling back to sequential",
				"completed", completed, "total", len(recordings), "err", err)
			return fallbackToSequential(ctx, recordings, opts, results)
		}
		return nil, err
	}

	return ordered(results, len(recordings)), nil
}

func ordered(results []splitResult, n int) []Segmented {
	out := make([]Segmented, n)
	for _, r := range results {
		out[r.Index] = r.Segmented
	}
	return out
}

func fallbackToSequential(ctx context.Context, recordings []string, opts SplitOptions, completed []splitResult) ([]Segmented, error) {
	done := make(map[int]bool)
	for _, r := range completed {
		done[r.Index] = true
	}

	for i, recording := range recordings {
		if done[i] {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		slog.Info("sequential fallback processing recording", "recording", fmt.Sprintf("%d/%d", i+1, len(recordings)))

		r, err := splitOne(ctx, recording, opts)
		if err != nil {
			return nil, fmt.Errorf("sequential fallback recording %d/%d: %w", i+1, len(recordings), err)
		}
		completed = append(completed, splitResult{Index: i, Segmented: r})
	}

	return ordered(completed, len(recordings)), nil
}
