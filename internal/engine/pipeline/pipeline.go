// Package pipeline orchestrates the analysis phases over a full entity set.
// Per-entity failures become inert ignored placeholders; global failures
// (nothing usable at all, or a violated internal invariant) abort the run.
package pipeline

import (
	"strings"
	"time"

	"crossbind/internal/api"
	"crossbind/internal/config"
	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/engine/analysis"
	"crossbind/internal/names"
	"crossbind/internal/shared/observability"
)

// Diagnostic is one per-entity analysis failure, keyed by the context it
// should be reported against.
type Diagnostic struct {
	Context cerrs.Context
	Name    names.QualifiedName
	Err     error
}

// Render produces the compiler-style message referencing the offending
// foreign name and namespace.
func (d Diagnostic) Render() string {
	return d.Context.String() + d.Name.Namespace().DisplaySuffix() + ": " + d.Err.Error()
}

// Rename records a uniqueness-allocator decision: the flat bridge name an
// entity received and the foreign spelling it replaced.
type Rename struct {
	BridgeName   string
	OriginalName string
	Namespace    string
}

// Outcome is the analyzed entity set plus everything the caller needs to
// report on the run. Rename decisions surface here rather than being logged
// from inside the analyses.
type Outcome struct {
	Entities    []api.Entity[api.PodAnalyzed]
	Diagnostics []Diagnostic
	Renames     []Rename
}

// Run advances raw entities through alias resolution and by-value
// classification, in that order. Entities are processed in input order;
// correctness does not depend on it, since each entity reads only finalized
// prior-phase state plus the tracker's append-only reservation set.
func Run(cfg *config.Config, raw []api.Entity[api.Unanalyzed]) (*Outcome, error) {
	started := time.Now()
	defer func() { observability.RunDuration.Observe(time.Since(started).Seconds()) }()

	if len(raw) == 0 {
		return nil, cerrs.New(cerrs.CodeNoContent,
			"the parser did not produce any usable declarations; none of the requested items could be analyzed")
	}

	// One tracker for the whole run: names reserved by an earlier phase
	// stay reserved, so no two output entities can share a flat name.
	tracker := analysis.NewBridgeNameTracker()

	aliasStart := time.Now()
	aliased, err := analysis.ResolveAliases(cfg, tracker, raw)
	if err != nil {
		return nil, err
	}
	observability.PhaseDuration.WithLabelValues("alias").Observe(time.Since(aliasStart).Seconds())
	observability.EntitiesAnalyzed.WithLabelValues("alias").Add(float64(len(aliased)))

	podStart := time.Now()
	classified, err := analysis.ClassifyByValue(cfg, tracker, aliased)
	if err != nil {
		return nil, err
	}
	observability.PhaseDuration.WithLabelValues("pod").Observe(time.Since(podStart).Seconds())
	observability.EntitiesAnalyzed.WithLabelValues("pod").Add(float64(len(classified)))

	out := &Outcome{Entities: classified}
	survivors := 0
	for _, e := range classified {
		if ig, ok := e.Detail.(api.Ignored); ok {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{Context: ig.Ctx, Name: e.Name, Err: ig.Err})
			observability.EntitiesIgnored.WithLabelValues(string(cerrs.CodeOf(ig.Err))).Inc()
			continue
		}
		survivors++
		if e.RenameTo != "" {
			out.Renames = append(out.Renames, Rename{
				BridgeName:   e.Name.Leaf(),
				OriginalName: e.OriginalName,
				Namespace:    e.Name.Namespace().String(),
			})
			observability.RenamesTotal.Inc()
		}
	}
	if survivors == 0 {
		return nil, cerrs.New(cerrs.CodeNoContent,
			"every declaration failed analysis; nothing can be generated")
	}

	appendMustGenerateDiagnostics(cfg, out)
	return out, nil
}

// appendMustGenerateDiagnostics reports a diagnostic for every name the user
// explicitly requested that yielded no surviving entity: a misspelling or a
// missing namespace qualifier, most of the time.
func appendMustGenerateDiagnostics(cfg *config.Config, out *Outcome) {
	if cfg == nil {
		return
	}
	produced := make(map[string]struct{}, len(out.Entities))
	for _, e := range out.Entities {
		if _, ok := e.Detail.(api.Ignored); ok {
			continue
		}
		produced[e.Name.ForeignName()] = struct{}{}
		if e.OriginalName != "" {
			produced[e.OriginalName] = struct{}{}
		}
	}
	for _, want := range cfg.MustGenerate() {
		// Glob entries express intent over many names; only exact
		// requests are checked for emptiness.
		if strings.ContainsAny(want, "*?[{") {
			continue
		}
		qn := names.FromUserText(want)
		if _, ok := produced[qn.ForeignName()]; ok {
			continue
		}
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Context: cerrs.ItemContext(qn.Leaf()),
			Name:    qn,
			Err: cerrs.Newf(cerrs.CodeNotGenerated,
				"the directive for %q did not result in anything being generated; check the spelling and namespace qualification", want),
		})
	}
}
