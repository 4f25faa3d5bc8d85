package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"crossbind/internal/app"
	"crossbind/internal/config"
	"crossbind/internal/engine/pipeline"
	"crossbind/internal/shared/observability"
	"crossbind/internal/ui/cli"
)

var (
	configPath = flag.String("config", "./crossbind.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single analysis and exit non-zero on diagnostics")
	watch      = flag.Bool("watch", false, "Keep watching the declaration dump and re-run on change")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("crossbind v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./crossbind.toml" {
			cfg, err = config.Load("./crossbind.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// Positional argument overrides the declaration dump from the config.
	if flag.NArg() > 0 {
		cfg.Declarations = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if endpoint := cfg.Obs.TraceEndpoint; endpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, endpoint)
		if err != nil {
			slog.Warn("failed to set up tracing", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					slog.Warn("tracer shutdown failed", "error", err)
				}
			}()
		}
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	if addr := cfg.Obs.MetricsAddr; addr != "" {
		srv := cli.NewObservabilityServer(addr, a)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer func() { _ = srv.Stop(context.Background()) }()
	}

	outcome, err := a.RunOnce(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	cli.RenderOutcome(os.Stdout, outcome)

	if !*watch {
		if *once && len(outcome.Diagnostics) > 0 {
			os.Exit(2)
		}
		return
	}

	err = a.Watch(ctx, *configPath, func(out *pipeline.Outcome) {
		cli.RenderOutcome(os.Stdout, out)
	})
	if err != nil && err != context.Canceled {
		slog.Error("watch mode failed", "error", err)
		os.Exit(1)
	}
}
