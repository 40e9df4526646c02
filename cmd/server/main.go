// Package main is the tips dashboard server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tipsdash/internal/config"
	"tipsdash/internal/metrics"
	"tipsdash/internal/state"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "tipsdash"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		port       int
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Tips data set dashboard",
		Long: `Tipsdash serves an interactive dashboard over the restaurant tips
data set: a table preview, a scatter plot of tip against total bill and
a categorical plot of tips by group.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			overrides := func(cfg *config.Config) {
				if flags.Changed("port") {
					cfg.Server.Port = port
				}
				if flags.Changed("log-level") {
					cfg.Log.Level = logLevel
				}
			}
			return run(cmd.Context(), configPath, logLevel, overrides)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(ctx context.Context, configPath, logLevel string, overrides func(*config.Config)) error {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(logLevel)})
	logger := slog.New(handler)

	cfg, err := config.NewLoader(logger).Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	overrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)})
	logger = slog.New(handler)
	slog.SetDefault(logger)

	// A dataset that cannot be loaded stops the process before it listens.
	s, err := state.Load(ctx, cfg, logger, metrics.New())
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: newRouter(cfg, s, handler),
	}

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting tips dashboard",
			slog.String("version", Version),
			slog.String("addr", srv.Addr),
			slog.Any("cors_origins", cfg.Server.AllowedOrigins))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-signalCtx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
