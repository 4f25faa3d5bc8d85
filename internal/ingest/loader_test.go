package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"crossbind/internal/api"
	"crossbind/internal/config"
	"crossbind/internal/decl"
)

func loadConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crossbind.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func leafSet(entities []api.Entity[api.Unanalyzed]) map[string]bool {
	out := make(map[string]bool, len(entities))
	for _, e := range entities {
		out[e.Name.Leaf()] = true
	}
	return out
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "declarations.json")
	body := `[
  {"path": "root::ns::Point", "kind": "struct",
   "struct": {"fields": [{"name": "x", "type": {"kind": "path", "path": "i32"}}]}},
  {"path": "root::IntAlias", "kind": "alias",
   "alias": {"target": {"kind": "path", "path": "i32"}}}
]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entities = %d, want 2", len(got))
	}
	s, ok := got[0].Detail.(api.Struct)
	if !ok {
		t.Fatalf("first detail = %T", got[0].Detail)
	}
	if len(s.Decl.Fields) != 1 || s.Decl.Fields[0].Type.Path != "i32" {
		t.Errorf("struct payload = %+v", s.Decl)
	}
	if got[0].Name.String() != "ns::Point" {
		t.Errorf("name = %q, want ns::Point", got[0].Name.String())
	}
}

func TestFromDeclarationsAppliesAllowAndBlock(t *testing.T) {
	cfg := loadConfig(t, `
[generate]
allow = ["ns::*"]
block = ["ns::Hidden"]
exclude_utilities = true
`)
	raw := []decl.Entity{
		{Path: "root::ns::Visible", Kind: decl.KindStruct, Struct: &decl.StructDecl{}},
		{Path: "root::ns::Hidden", Kind: decl.KindStruct, Struct: &decl.StructDecl{}},
		{Path: "root::Unrequested", Kind: decl.KindStruct, Struct: &decl.StructDecl{}},
	}
	got, err := FromDeclarations(raw, cfg)
	if err != nil {
		t.Fatalf("FromDeclarations: %v", err)
	}
	leaves := leafSet(got)
	if !leaves["Visible"] {
		t.Error("Visible should pass the allow list")
	}
	if leaves["Hidden"] {
		t.Error("Hidden is blocked")
	}
	if leaves["Unrequested"] {
		t.Error("Unrequested was never allowed")
	}
}

func TestFromDeclarationsInjectsUtilities(t *testing.T) {
	cfg := loadConfig(t, "[generate]\nall = true\nmodule_name = \"demo\"")
	got, err := FromDeclarations(nil, cfg)
	if err != nil {
		t.Fatalf("FromDeclarations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("entities = %d, want the utility only", len(got))
	}
	if _, ok := got[0].Detail.(api.StringConstructor); !ok {
		t.Fatalf("detail = %T", got[0].Detail)
	}
	if got[0].Name.Leaf() != "crossbind_make_string_demo" {
		t.Errorf("utility name = %q", got[0].Name.Leaf())
	}

	cfg = loadConfig(t, "[generate]\nall = true\nexclude_utilities = true")
	got, err = FromDeclarations(nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("exclude_utilities should suppress injection, got %d entities", len(got))
	}
}

func TestFromDeclarationsNormalizesVoidReturns(t *testing.T) {
	voidRet := decl.PathRef("c_void")
	intRet := decl.PathRef("i32")
	raw := []decl.Entity{
		{Path: "root::reset", Kind: decl.KindFunction, Function: &decl.FunctionDecl{Return: &voidRet}},
		{Path: "root::count", Kind: decl.KindFunction, Function: &decl.FunctionDecl{Return: &intRet}},
	}
	got, err := FromDeclarations(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ret := got[0].Detail.(api.Function).Decl.Return; ret != nil {
		t.Errorf("void return kept: %+v", ret)
	}
	if ret := got[1].Detail.(api.Function).Decl.Return; ret == nil || ret.Path != "i32" {
		t.Errorf("non-void return lost: %+v", ret)
	}
}

func TestFromDeclarationsPreservesForeignSpelling(t *testing.T) {
	raw := []decl.Entity{
		{Path: "root::Renamed", Kind: decl.KindForward, ForeignName: "original::Spelling"},
	}
	got, err := FromDeclarations(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].OriginalName != "original::Spelling" {
		t.Errorf("OriginalName = %q", got[0].OriginalName)
	}
}

func TestFromDeclarationsRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  decl.Entity
	}{
		{"missing path", decl.Entity{Kind: decl.KindStruct, Struct: &decl.StructDecl{}}},
		{"struct without payload", decl.Entity{Path: "root::S", Kind: decl.KindStruct}},
		{"alias without payload", decl.Entity{Path: "root::A", Kind: decl.KindAlias}},
		{"function without payload", decl.Entity{Path: "root::f", Kind: decl.KindFunction}},
		{"unknown kind", decl.Entity{Path: "root::X", Kind: "mystery"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromDeclarations([]decl.Entity{tt.raw}, nil); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
