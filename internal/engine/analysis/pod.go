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

// ClassifyByValue is the by-value-safety phase. Each struct is classified as
// pod (safe to hold by value on both sides) or opaque. Pod structs have
// their field types walked through the converter so every referenced type
// becomes a dependency; opaque structs are black boxes whose field list and
// dependency set are discarded. Forward declarations receive their fresh
// bridge names here, since their real name cannot be emitted yet.
//
// An explicit pod request for an ineligible type aborts the run; per-entity
// failures only demote that entity.
func ClassifyByValue(
	cfg *config.Config,
	tracker *BridgeNameTracker,
	entities []api.Entity[api.AliasAnalyzed],
) ([]api.Entity[api.PodAnalyzed], error) {
	checker, err := NewByValueChecker(entities, cfg)
	if err != nil {
		return nil, err
	}
	converter := convert.NewConverter(cfg, entities)
	var extra []api.Entity[api.Unanalyzed]

	process := func(e api.Entity[api.AliasAnalyzed]) (api.Entity[api.PodAnalyzed], error) {
		next := api.Advance[api.AliasAnalyzed, api.PodAnalyzed](e)
		switch d := e.Detail.(type) {
		case api.ForwardDeclaration:
			rename(&next, tracker.GetUniqueBridgeName(e.Name.Leaf(), e.Name.Namespace()), e.Name)

		case api.Struct:
			bases := names.NewSet()
			for _, f := range d.Decl.Fields {
				if f.IsBaseSlot() && f.Type.Kind == decl.KindPath {
					bases.Insert(names.FromForeignPath(f.Type.Path))
				}
			}
			kind := api.KindOpaque
			if checker.IsPod(e.Name) {
				kind = api.KindPod
				for _, f := range d.Decl.Fields {
					conv, err := converter.Convert(f.Type, e.Name.Namespace(), convert.BridgeInner)
					if err != nil {
						return api.Entity[api.PodAnalyzed]{}, cerrs.AddContext(err, cerrs.CtxName, e.Name.String())
					}
					next.Deps.Union(conv.Encountered)
					extra = append(extra, conv.Extra...)
				}
			} else {
				// Opaque types expose no internals, so no
				// field-level dependency edges either.
				next.Deps.Clear()
				d.Decl.Fields = nil
			}
			next.Detail = api.Struct{Decl: d.Decl, Kind: kind, Bases: bases}

			unique := tracker.GetUniqueBridgeName(e.Name.Leaf(), e.Name.Namespace())
			rename(&next, unique, e.Name)
			if err := next.Name.ValidateBridgeName(); err != nil {
				return api.Entity[api.PodAnalyzed]{}, err
			}
		}
		return next, nil
	}

	out := make([]api.Entity[api.PodAnalyzed], 0, len(entities))
	ConvertEntities(entities, &out, process)

	// POD-analysing the first set can concretize generic types; those run
	// through this same phase once. The dependency closure must be fully
	// discovered by then.
	if len(extra) > 0 {
		pending := make([]api.Entity[api.AliasAnalyzed], 0, len(extra))
		for _, ex := range extra {
			pending = append(pending, api.Advance[api.Unanalyzed, api.AliasAnalyzed](ex))
		}
		extra = nil
		observability.AuxiliaryEntities.WithLabelValues("pod").Add(float64(len(pending)))
		ConvertEntities(pending, &out, process)
		if len(extra) > 0 {
			return nil, cerrs.New(cerrs.CodeInvariantViolation,
				"pod analysis of auxiliary entities synthesized further auxiliary entities")
		}
	}
	return out, nil
}

// rename applies a uniqueness-allocator decision to an entity, preserving
// the original foreign spelling when the flat name had to change.
func rename[P api.Phase](e *api.Entity[P], unique string, original names.QualifiedName) {
	if unique == original.Leaf() {
		return
	}
	if e.OriginalName == "" {
		e.OriginalName = original.ForeignName()
	}
	e.RenameTo = original.Leaf()
	e.Name = names.NewQualifiedName(original.Namespace(), unique)
}
