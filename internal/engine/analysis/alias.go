package analysis

import (
	"crossbind/internal/api"
	"crossbind/internal/config"
	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/decl"
	"crossbind/internal/engine/convert"
	"crossbind/internal/names"
	"crossbind/internal/shared/observability"
)

// ResolveAliases is the typedef/using phase. Every alias target is resolved
// through the type converter in bridge-inner context; a target that resolves
// to the alias's own name (a known upstream parser pathology) fails with the
// self-referential diagnostic instead of looping. Aliases also receive their
// unique bridge name here.
//
// Auxiliary entities synthesized while resolving targets are advanced
// through this same phase exactly once; a second round of synthesis
// indicates a modeling bug and is returned as an invariant violation.
func ResolveAliases(
	cfg *config.Config,
	tracker *BridgeNameTracker,
	entities []api.Entity[api.Unanalyzed],
) ([]api.Entity[api.AliasAnalyzed], error) {
	converter := convert.NewConverter(cfg, entities)
	var extra []api.Entity[api.Unanalyzed]

	process := func(e api.Entity[api.Unanalyzed]) (api.Entity[api.AliasAnalyzed], error) {
		al, ok := e.Detail.(api.Alias)
		if !ok {
			return api.Advance[api.Unanalyzed, api.AliasAnalyzed](e), nil
		}
		next := api.Advance[api.Unanalyzed, api.AliasAnalyzed](e)

		unique := tracker.GetUniqueBridgeName(e.Name.Leaf(), e.Name.Namespace())
		rename(&next, unique, e.Name)
		if err := next.Name.ValidateBridgeName(); err != nil {
			return api.Entity[api.AliasAnalyzed]{}, err
		}

		conv, err := converter.Convert(al.Target, e.Name.Namespace(), convert.BridgeInner)
		if err != nil {
			return api.Entity[api.AliasAnalyzed]{}, cerrs.AddContext(err, cerrs.CtxName, e.Name.String())
		}
		if isSamePath(conv.Type, e.Name) {
			return api.Entity[api.AliasAnalyzed]{}, cerrs.Newf(cerrs.CodeSelfReferentialAlias,
				"encountered typedef to itself, a known upstream parser bug: %s", e.Name.ForeignName())
		}

		resolved := conv.Type
		next.Detail = api.Alias{Target: al.Target, Resolved: &resolved}
		next.Deps.Union(conv.Encountered)
		extra = append(extra, conv.Extra...)
		return next, nil
	}

	out := make([]api.Entity[api.AliasAnalyzed], 0, len(entities))
	ConvertEntities(entities, &out, process)

	if len(extra) > 0 {
		pending := extra
		extra = nil
		observability.AuxiliaryEntities.WithLabelValues("alias").Add(float64(len(pending)))
		ConvertEntities(pending, &out, process)
		if len(extra) > 0 {
			return nil, cerrs.New(cerrs.CodeInvariantViolation,
				"alias resolution of auxiliary entities synthesized further auxiliary entities")
		}
	}
	return out, nil
}

// isSamePath reports whether a resolved type denotes exactly the given
// qualified name: the direct self-reference case. Deeper alias cycles are
// caught by the converter's substitution depth limit.
func isSamePath(ty decl.TypeRef, qn names.QualifiedName) bool {
	return ty.Kind == decl.KindPath && len(ty.Args) == 0 && names.FromForeignPath(ty.Path) == qn
}
