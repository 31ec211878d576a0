package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/logger"
)

var (
	cfg       *config.Config
	logCloser io.Closer
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "yt-summary",
	Short: "Fetch video transcripts and summarize them",
	Long: `yt-summary downloads a transcript for a video (captions, a transcript
API, or speech-to-text), caches it, and condenses it chunk by chunk.

Configuration is read from the environment; see the README for keys.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.LoadConfig()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		closer, err := logger.Setup(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return err
		}
		logCloser = closer

		return config.ValidateConfig(cfg)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(purgeCmd)
}
