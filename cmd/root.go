package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cuckoosearch",
	Short: "Derivative-free optimization via cuckoo search",
	Long: `Cuckoosearch minimizes box-constrained objective functions with the
cuckoo search metaheuristic: Lévy-flight exploration around the best nest,
elitist greedy selection and biased abandonment of weak nests. It ships a
registry of benchmark objectives, run traces and convergence plots,
resumable checkpoints and an HTTP run server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		// Logs go to stderr so result output stays pipeable.
		opts := &slog.HandlerOptions{Level: level}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
