// Package app wires the analysis core to its collaborators: the declaration
// input, the run store, the report outputs and the watcher.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"crossbind/internal/api"
	"crossbind/internal/config"
	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/data/runstore"
	"crossbind/internal/engine/pipeline"
	"crossbind/internal/ingest"
	"crossbind/internal/report"
	"crossbind/internal/shared/observability"
	"crossbind/internal/shared/util"
	"crossbind/internal/ui/cli"
	"crossbind/internal/watcher"
)

type App struct {
	Config *config.Config
	Store  *runstore.Store
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	a := &App{Config: cfg}
	if cfg.DB.Enabled {
		store, err := runstore.Open(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		a.Store = store
	}
	return a, nil
}

func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// RunOnce performs one full analysis: load declarations, run the pipeline,
// write reports, persist the run.
func (a *App) RunOnce(ctx context.Context) (*pipeline.Outcome, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunOnce")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entities, err := ingest.Load(a.Config.Declarations, a.Config)
	if err != nil {
		return nil, cerrs.AddContext(err, cerrs.CtxPhase, "ingest")
	}
	slog.Debug("declarations loaded", "path", a.Config.Declarations, "entities", len(entities))

	outcome, err := pipeline.Run(a.Config, entities)
	if err != nil {
		return nil, err
	}

	if err := a.writeOutputs(outcome); err != nil {
		return nil, err
	}
	if err := a.persistRun(outcome); err != nil {
		// The analysis itself succeeded; a store failure should not
		// discard it.
		slog.Warn("failed to persist run", "error", err)
	}
	return outcome, nil
}

func (a *App) writeOutputs(outcome *pipeline.Outcome) error {
	if path := a.Config.Output.SARIF; path != "" {
		doc, err := report.GenerateSARIF(a.Config.Declarations, outcome.Diagnostics)
		if err != nil {
			return fmt.Errorf("generate sarif: %w", err)
		}
		if err := util.WriteFileWithDirs(path, doc, 0o644); err != nil {
			return fmt.Errorf("write sarif %q: %w", path, err)
		}
	}
	if path := a.Config.Output.Markdown; path != "" {
		md := report.GenerateMarkdown(outcome)
		if err := util.WriteFileWithDirs(path, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write markdown %q: %w", path, err)
		}
	}
	return nil
}

func (a *App) persistRun(outcome *pipeline.Outcome) error {
	if a.Store == nil {
		return nil
	}
	run := runstore.Run{
		ID:         uuid.NewString(),
		ModuleName: a.Config.Generate.ModuleName,
	}
	for _, e := range outcome.Entities {
		switch d := e.Detail.(type) {
		case api.Struct:
			if d.Kind == api.KindPod {
				run.PodCount++
			} else {
				run.OpaqueCount++
			}
		case api.Alias:
			run.AliasCount++
		case api.Ignored:
			run.IgnoredCount++
		}
	}
	run.EntityCount = len(outcome.Entities) - run.IgnoredCount
	run.RenameCount = len(outcome.Renames)
	for _, d := range outcome.Diagnostics {
		run.Diagnostics = append(run.Diagnostics, runstore.DiagnosticRow{
			Context:   d.Context.String(),
			Namespace: d.Name.Namespace().String(),
			Code:      string(cerrs.CodeOf(d.Err)),
			Message:   d.Err.Error(),
		})
	}
	for _, r := range outcome.Renames {
		run.Renames = append(run.Renames, runstore.RenameRow{
			BridgeName:   r.BridgeName,
			OriginalName: r.OriginalName,
			Namespace:    r.Namespace,
		})
	}
	return a.Store.SaveRun(run)
}

// Watch re-runs the analysis whenever the declaration dump or the config
// file changes, rate limited so pathological churn cannot spin the CPU.
func (a *App) Watch(ctx context.Context, configPath string, onOutcome func(*pipeline.Outcome)) error {
	limiter := util.NewLimiter(a.Config.Watch.RescanPerSecond, 1)

	rerun := func(paths []string) {
		if !limiter.Allow(1) {
			slog.Debug("rescan suppressed by rate limit", "paths", paths)
			return
		}
		slog.Info("change detected, re-running analysis", "paths", paths)
		outcome, err := a.RunOnce(ctx)
		if err != nil {
			slog.Error("analysis failed", "error", err)
			return
		}
		if onOutcome != nil {
			onOutcome(outcome)
		}
	}

	files := []string{a.Config.Declarations}
	if configPath != "" {
		files = append(files, configPath)
	}
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, files, rerun)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Start()

	<-ctx.Done()
	return ctx.Err()
}

// Check implements the observability server's health probe.
func (a *App) Check(ctx context.Context) cli.HealthStatus {
	detail := make(map[string]string)
	status := "up"
	if _, err := os.Stat(a.Config.Declarations); err != nil {
		status = "down"
		detail["declarations"] = err.Error()
	}
	return cli.HealthStatus{Status: status, Detail: detail}
}
