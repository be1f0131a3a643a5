package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fossabot/f4tapir/internal/config"
	"github.com/fossabot/f4tapir/internal/worker"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [paths...]",
	Short: "Merge transcripts into one",
	Long: `Merge F4 transcripts into one transcript, in lexicographic order of
their paths. Paths may be transcripts or directories containing them, the
working directory is used if none are given.

Timestamps of each transcript are shifted by the lengths of the ones
before it. When a transcript ends and the next begins with the same
speaker, both utterances are joined into one.`,
	RunE: runMerge,
}

var (
	mergeOutput string
	dryRun      bool
)

func init() {
	defaults := config.Default()

	mergeCmd.Flags().BoolP("recursive", "r", defaults.Recursive, "descend into subdirectories")
	mergeCmd.Flags().BoolP("force", "f", defaults.Force, "overwrite the output file if it exists")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "output file (default: stdout)")
	mergeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the merge plan as YAML instead of merging")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err := worker.Merge(ctx, worker.MergeOptions{
		Inputs: args,
		Output: mergeOutput,
		DryRun: dryRun,
		Stdout: cmd.OutOrStdout(),
		Config: cfg,
	})
	return err
}
