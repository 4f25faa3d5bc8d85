// Package ingest turns the external parser's declaration dump into the
// entity set the pipeline analyzes. This is the only place the allow/block
// predicates filter whole declarations; type references to blocked names are
// caught later by the converter.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"crossbind/internal/api"
	"crossbind/internal/config"
	"crossbind/internal/decl"
	"crossbind/internal/names"
)

// Load reads the parser's JSON declaration list and produces unanalyzed
// entities: names qualified, allow/block lists applied, default utility
// entities injected.
func Load(path string, cfg *config.Config) ([]api.Entity[api.Unanalyzed], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read declarations %q: %w", path, err)
	}
	var raw []decl.Entity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode declarations %q: %w", path, err)
	}
	return FromDeclarations(raw, cfg)
}

// FromDeclarations maps raw parser records onto pipeline entities.
func FromDeclarations(raw []decl.Entity, cfg *config.Config) ([]api.Entity[api.Unanalyzed], error) {
	out := make([]api.Entity[api.Unanalyzed], 0, len(raw)+1)
	for i, r := range raw {
		if r.Path == "" {
			return nil, fmt.Errorf("declaration %d has no path", i)
		}
		qn := names.FromForeignPath(r.Path)
		if cfg != nil {
			foreign := qn.ForeignName()
			if cfg.IsBlocked(foreign) || !cfg.IsAllowed(foreign) {
				continue
			}
		}
		detail, err := detailFor(r)
		if err != nil {
			return nil, fmt.Errorf("declaration %s: %w", r.Path, err)
		}
		e := api.NewUnanalyzed(qn, detail)
		if r.ForeignName != "" && r.ForeignName != qn.ForeignName() {
			e.OriginalName = r.ForeignName
		}
		out = append(out, e)
	}

	if cfg != nil && !cfg.Generate.ExcludeUtilities {
		util := api.NewUnanalyzed(
			names.NewQualifiedName(names.NewNamespace(), cfg.MakeStringName()),
			api.StringConstructor{},
		)
		out = append(out, util)
	}
	return out, nil
}

func detailFor(r decl.Entity) (api.Detail, error) {
	switch r.Kind {
	case decl.KindStruct:
		if r.Struct == nil {
			return nil, fmt.Errorf("struct declaration missing payload")
		}
		return api.Struct{Decl: *r.Struct}, nil
	case decl.KindEnum:
		var d decl.EnumDecl
		if r.Enum != nil {
			d = *r.Enum
		}
		return api.Enum{Decl: d}, nil
	case decl.KindAlias:
		if r.Alias == nil {
			return nil, fmt.Errorf("alias declaration missing payload")
		}
		return api.Alias{Target: r.Alias.Target}, nil
	case decl.KindFunction:
		if r.Function == nil {
			return nil, fmt.Errorf("function declaration missing payload")
		}
		fn := *r.Function
		// Parsers spell void returns explicitly; downstream a nil return
		// means "returns nothing".
		if fn.Return != nil && fn.Return.Kind == decl.KindPath &&
			names.FromForeignPath(fn.Return.Path).IsVoid() {
			fn.Return = nil
		}
		return api.Function{Decl: fn}, nil
	case decl.KindConst:
		if r.Const == nil {
			return nil, fmt.Errorf("const declaration missing payload")
		}
		return api.Const{Decl: *r.Const}, nil
	case decl.KindForward:
		return api.ForwardDeclaration{}, nil
	case decl.KindPrimitive:
		return api.Primitive{}, nil
	case decl.KindStringCtor:
		return api.StringConstructor{}, nil
	case decl.KindConcrete:
		return api.ConcreteType{}, nil
	default:
		return nil, fmt.Errorf("unknown declaration kind %q", r.Kind)
	}
}
