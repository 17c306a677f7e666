// Package main provides the semingest binary entry point.
// Semingest turns biomedical source files and API records into RDF graphs
// with HCLS dataset descriptions.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semingest/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semingest"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every command.
type globals struct {
	configPath  string
	logLevel    string
	metricsAddr string

	app *App
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Biomedical RDF ingest toolkit",
		Long: `Semingest resolves source vocabulary through translation tables,
mints deterministic identifiers and writes RDF graphs together with
their HCLS summary, version and distribution descriptions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return g.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.app != nil {
				g.app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	cmd.AddCommand(
		hashCmd(),
		resolveCmd(g),
		assocIDCmd(g),
		datasetCmd(g),
		fetchCmd(g),
		omimCmd(g),
		lintCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func (g *globals) setup(cmd *cobra.Command) error {
	logger := newLogger(g.logLevel)
	slog.SetDefault(logger)

	cfg, err := config.NewLoader(logger).Load(g.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if g.metricsAddr != "" {
		cfg.Metrics.Addr = g.metricsAddr
	}

	app, err := NewApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	g.app = app
	return nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
