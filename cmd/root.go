package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fossabot/f4tapir/internal/config"
)

var (
	verbose    bool
	quiet      bool
	configFile string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

// flagKeys maps flag names to configuration keys. Only the flags of the
// running command are bound.
var flagKeys = map[string]string{
	"recursive":           config.Recursive,
	"force":               config.Force,
	"segment-time":        config.SegmentTime,
	"max-concurrent":      config.MaxConcurrent,
	"launches-per-minute": config.LaunchesPerMinute,
}

var rootCmd = &cobra.Command{
	Use:   "f4tapir",
	Short: "Merge F4 interview transcripts and split interview recordings",
	Long: `f4tapir helps transcribing long interviews with F4 in segments.

Split a recording into segments of a few minutes with "f4tapir split",
transcribe the segments one by one, then merge the transcripts back into
one with "f4tapir merge". Timestamps are shifted to match the full
recording and utterances cut in half at segment boundaries are joined.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return loadConfig(cmd)
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("loaded config file", "path", used)
	}
	cfg = c
	return nil
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: f4tapir.yaml in the working or home directory)")
}
