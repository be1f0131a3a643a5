package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// splitSequential splits recordings one at a time.
func splitSequential(ctx context.Context, recordings []string, opts SplitOptions) ([]Segmented, error) {
	results := make([]Segmented, 0, len(recordings))

	for i, recording := range recordings {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		slog.Info("processing recording",
			"recording", fmt.Sprintf("%d/%d", i+1, len(recordings)),
			"file", filepath.Base(recording))

		r, err := splitOne(ctx, recording, opts)
		if err != nil {
			return nil, fmt.Errorf("recording %d/%d: %w", i+1, len(recordings), err)
		}
		results = append(results, r)

		slog.Info("recording completed",
			"recording", fmt.Sprintf("%d/%d", i+1, len(recordings)),
			"segments", len(r.Segments))
	}

	return results, nil
}
