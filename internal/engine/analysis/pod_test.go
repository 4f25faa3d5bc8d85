package analysis

import (
	"testing"

	"crossbind/internal/api"
	"crossbind/internal/decl"
	"crossbind/internal/names"
)

func classify(t *testing.T, in []api.Entity[api.AliasAnalyzed]) []api.Entity[api.PodAnalyzed] {
	t.Helper()
	out, err := ClassifyByValue(nil, NewBridgeNameTracker(), in)
	if err != nil {
		t.Fatalf("ClassifyByValue: %v", err)
	}
	return out
}

func TestClassifyPodKeepsFieldsAndDeps(t *testing.T) {
	out := classify(t, []api.Entity[api.AliasAnalyzed]{
		aliased("root::Point", plainStruct(field("x", "i32"), field("y", "f64"))),
	})
	e := findEntity(t, out, "Point")
	s, ok := e.Detail.(api.Struct)
	if !ok {
		t.Fatalf("detail = %T", e.Detail)
	}
	if s.Kind != api.KindPod {
		t.Errorf("Kind = %v, want pod", s.Kind)
	}
	if len(s.Decl.Fields) != 2 {
		t.Errorf("fields = %d, want 2", len(s.Decl.Fields))
	}
	if !e.Deps.Contains(names.FromUserText("i32")) || !e.Deps.Contains(names.FromUserText("f64")) {
		t.Errorf("field type deps missing: %v", e.Deps.Sorted())
	}
}

func TestClassifyOpaqueDiscardsInternals(t *testing.T) {
	in := []api.Entity[api.AliasAnalyzed]{
		aliased("root::Handle", api.Struct{Decl: decl.StructDecl{
			HasDestructor: true,
			Fields:        []decl.Field{field("secret", "root::Hidden")},
		}}),
	}
	in[0].Deps.Insert(names.FromUserText("Hidden"))

	out := classify(t, in)
	e := findEntity(t, out, "Handle")
	s := e.Detail.(api.Struct)
	if s.Kind != api.KindOpaque {
		t.Errorf("Kind = %v, want opaque", s.Kind)
	}
	if len(s.Decl.Fields) != 0 {
		t.Errorf("opaque struct kept %d fields", len(s.Decl.Fields))
	}
	if e.Deps.Len() != 0 {
		t.Errorf("opaque struct kept %d deps", e.Deps.Len())
	}
}

func TestClassifyCollectsBaseSlots(t *testing.T) {
	out := classify(t, []api.Entity[api.AliasAnalyzed]{
		aliased("root::Base", api.Struct{Decl: decl.StructDecl{HasVirtual: true}}),
		aliased("root::Derived", api.Struct{Decl: decl.StructDecl{
			HasVirtual: true,
			Fields: []decl.Field{
				field("_base_0", "root::Base"),
				field("own", "i32"),
			},
		}}),
	})
	e := findEntity(t, out, "Derived")
	s := e.Detail.(api.Struct)
	if !s.Bases.Contains(names.FromUserText("Base")) {
		t.Error("base slot not recorded")
	}
	if s.Bases.Contains(names.FromUserText("i32")) {
		t.Error("ordinary member recorded as base")
	}
}

func TestClassifyRenamesForwardDeclarations(t *testing.T) {
	out := classify(t, []api.Entity[api.AliasAnalyzed]{
		aliased("root::Opaque", plainStruct()),
		aliased("root::detail::Opaque", api.ForwardDeclaration{}),
	})
	fwd := findEntity(t, out, "detail_Opaque")
	if _, ok := fwd.Detail.(api.ForwardDeclaration); !ok {
		t.Fatalf("detail = %T", fwd.Detail)
	}
	if fwd.RenameTo != "Opaque" {
		t.Errorf("RenameTo = %q", fwd.RenameTo)
	}
}

func TestClassifyUniqueAcrossRun(t *testing.T) {
	out := classify(t, []api.Entity[api.AliasAnalyzed]{
		aliased("root::a::Thing", plainStruct()),
		aliased("root::b::Thing", plainStruct()),
		aliased("root::Thing", plainStruct()),
	})
	seen := map[string]bool{}
	for _, e := range out {
		if seen[e.Name.Leaf()] {
			t.Fatalf("duplicate flat name %q", e.Name.Leaf())
		}
		seen[e.Name.Leaf()] = true
	}
}

func TestClassifyTemplatedFieldDemotesToOpaque(t *testing.T) {
	// A field holding a template instantiation by value needs
	// bridge-managed indirection, so the holder cannot stay pod.
	out := classify(t, []api.Entity[api.AliasAnalyzed]{
		aliased("root::Tmpl", plainStruct()),
		aliased("root::Holder", plainStruct(decl.Field{
			Name: "t",
			Type: decl.PathRef("root::Tmpl", decl.PathRef("i32")),
		})),
	})
	holder := findEntity(t, out, "Holder")
	if holder.Detail.(api.Struct).Kind != api.KindOpaque {
		t.Error("Holder should be opaque")
	}
}
