package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fossabot/f4tapir/internal/config"
	"github.com/fossabot/f4tapir/internal/worker"
)

var splitCmd = &cobra.Command{
	Use:   "split [paths...]",
	Short: "Split interview recordings into segments",
	Long: `Split interview recordings into enumerated segments of fixed length
using ffmpeg, without re-encoding. interview.mp3 becomes interview-000.mp3,
interview-001.mp3 and so on.`,
	RunE: runSplit,
}

var splitOutputDir string

func init() {
	defaults := config.Default()

	splitCmd.Flags().BoolP("recursive", "r", defaults.Recursive, "descend into subdirectories")
	splitCmd.Flags().StringVarP(&splitOutputDir, "output-dir", "o", "", "directory for the segments (default: next to each recording)")
	splitCmd.Flags().IntP("max-concurrent", "j", defaults.MaxConcurrent, "recordings split in parallel")
	splitCmd.Flags().String("segment-time", defaults.SegmentTime, "segment length as HH:MM:SS")
	splitCmd.Flags().Int("launches-per-minute", defaults.LaunchesPerMinute, "ffmpeg starts per minute, 0 for no limit")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := worker.Split(ctx, worker.SplitOptions{
		Inputs:    args,
		OutputDir: splitOutputDir,
		Config:    cfg,
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		slog.Debug("segments", "recording", r.Recording, "files", r.Segments)
	}
	return nil
}
