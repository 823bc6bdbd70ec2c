package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cuckoosearch/internal/server"
	"github.com/cwbudde/cuckoosearch/internal/store"
)

var (
	serveAddr    string
	serveDataDir string
	serveStore   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for managed runs",
	Long: `Starts an HTTP server that accepts optimization runs, streams their
progress over SSE and checkpoints them so they survive restarts.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "./data", "Directory for checkpoints and traces")
	serveCmd.Flags().StringVar(&serveStore, "store", "fs", "Checkpoint backend: fs or sqlite")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	checkpoints, err := store.OpenStore(serveStore, serveDataDir)
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(checkpoints)

	srv := server.NewServer(serveAddr, serveDataDir, checkpoints)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	// In-flight runs get cancelled and checkpointed before the listener
	// closes, so they can be resumed later.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
