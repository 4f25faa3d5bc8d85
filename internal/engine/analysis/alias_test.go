package analysis

import (
	"testing"

	"crossbind/internal/api"
	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/decl"
	"crossbind/internal/names"
)

func unanalyzed(path string, d api.Detail) api.Entity[api.Unanalyzed] {
	return api.NewUnanalyzed(names.FromForeignPath(path), d)
}

func findEntity[P api.Phase](t *testing.T, entities []api.Entity[P], leaf string) api.Entity[P] {
	t.Helper()
	for _, e := range entities {
		if e.Name.Leaf() == leaf {
			return e
		}
	}
	t.Fatalf("no entity with leaf %q", leaf)
	return api.Entity[P]{}
}

func TestResolveAliasesResolvesTarget(t *testing.T) {
	in := []api.Entity[api.Unanalyzed]{
		unanalyzed("root::IntAlias", api.Alias{Target: decl.PathRef("i32")}),
	}
	out, err := ResolveAliases(nil, NewBridgeNameTracker(), in)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	e := findEntity(t, out, "IntAlias")
	al, ok := e.Detail.(api.Alias)
	if !ok {
		t.Fatalf("detail = %T", e.Detail)
	}
	if al.Resolved == nil || al.Resolved.Path != "i32" {
		t.Errorf("Resolved = %+v", al.Resolved)
	}
	if !e.Deps.Contains(names.FromUserText("i32")) {
		t.Error("target missing from deps")
	}
}

func TestResolveAliasesPassesThroughNonAliases(t *testing.T) {
	in := []api.Entity[api.Unanalyzed]{
		unanalyzed("root::Point", api.Struct{Decl: decl.StructDecl{}}),
	}
	out, err := ResolveAliases(nil, NewBridgeNameTracker(), in)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	if _, ok := out[0].Detail.(api.Struct); !ok {
		t.Errorf("struct detail changed to %T", out[0].Detail)
	}
	if out[0].RenameTo != "" {
		t.Error("structs must not be renamed during alias resolution")
	}
}

func TestResolveAliasesSelfReferential(t *testing.T) {
	in := []api.Entity[api.Unanalyzed]{
		unanalyzed("root::Loop", api.Alias{Target: decl.PathRef("root::Loop")}),
	}
	out, err := ResolveAliases(nil, NewBridgeNameTracker(), in)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	ig, ok := out[0].Detail.(api.Ignored)
	if !ok {
		t.Fatalf("detail = %T, want Ignored", out[0].Detail)
	}
	if !cerrs.IsCode(ig.Err, cerrs.CodeSelfReferentialAlias) {
		t.Errorf("code = %q, want SELF_REFERENTIAL_ALIAS", cerrs.CodeOf(ig.Err))
	}
}

func TestResolveAliasesFailureIsolation(t *testing.T) {
	in := []api.Entity[api.Unanalyzed]{
		unanalyzed("root::Bad", api.Alias{Target: decl.PathRef("root::Missing")}),
		unanalyzed("root::Good", api.Alias{Target: decl.PathRef("u8")}),
	}
	out, err := ResolveAliases(nil, NewBridgeNameTracker(), in)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("entity count = %d, want 2", len(out))
	}
	bad := findEntity(t, out, "Bad")
	if _, ok := bad.Detail.(api.Ignored); !ok {
		t.Errorf("Bad detail = %T, want Ignored", bad.Detail)
	}
	good := findEntity(t, out, "Good")
	if _, ok := good.Detail.(api.Alias); !ok {
		t.Errorf("Good detail = %T, want Alias", good.Detail)
	}
}

func TestResolveAliasesRenamesCollisions(t *testing.T) {
	tracker := NewBridgeNameTracker()
	in := []api.Entity[api.Unanalyzed]{
		unanalyzed("root::Twin", api.Alias{Target: decl.PathRef("i32")}),
		unanalyzed("root::ns::Twin", api.Alias{Target: decl.PathRef("u8")}),
	}
	out, err := ResolveAliases(nil, tracker, in)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	first, second := out[0], out[1]
	if first.Name.Leaf() != "Twin" || first.RenameTo != "" {
		t.Errorf("first = %q (rename %q)", first.Name.Leaf(), first.RenameTo)
	}
	if second.Name.Leaf() != "ns_Twin" {
		t.Errorf("second leaf = %q, want ns_Twin", second.Name.Leaf())
	}
	if second.RenameTo != "Twin" || second.OriginalName != "ns::Twin" {
		t.Errorf("rename bookkeeping = (%q, %q)", second.RenameTo, second.OriginalName)
	}
}

func TestResolveAliasesSynthesizesInstantiations(t *testing.T) {
	in := []api.Entity[api.Unanalyzed]{
		unanalyzed("root::Tmpl", api.Struct{Decl: decl.StructDecl{}}),
		unanalyzed("root::Vec32", api.Alias{
			Target: decl.PathRef("root::Tmpl", decl.PathRef("i32")),
		}),
	}
	out, err := ResolveAliases(nil, NewBridgeNameTracker(), in)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	aux := findEntity(t, out, "Tmpl_int32_t")
	concrete, ok := aux.Detail.(api.ConcreteType)
	if !ok {
		t.Fatalf("aux detail = %T", aux.Detail)
	}
	if concrete.ForeignDefinition != "Tmpl<int32_t>" {
		t.Errorf("ForeignDefinition = %q", concrete.ForeignDefinition)
	}
	alias := findEntity(t, out, "Vec32")
	if !alias.Deps.Contains(names.FromUserText("Tmpl_int32_t")) {
		t.Error("alias should depend on the synthesized concrete type")
	}
}

func TestResolveAliasesReservedBridgeName(t *testing.T) {
	in := []api.Entity[api.Unanalyzed]{
		unanalyzed("root::func", api.Alias{Target: decl.PathRef("i32")}),
	}
	out, err := ResolveAliases(nil, NewBridgeNameTracker(), in)
	if err != nil {
		t.Fatalf("ResolveAliases: %v", err)
	}
	ig, ok := out[0].Detail.(api.Ignored)
	if !ok {
		t.Fatalf("detail = %T, want Ignored", out[0].Detail)
	}
	if !cerrs.IsCode(ig.Err, cerrs.CodeReservedName) {
		t.Errorf("code = %q, want RESERVED_NAME", cerrs.CodeOf(ig.Err))
	}
}
