// Package api holds the entity model that flows through the analysis
// pipeline. Each pipeline phase produces entities tagged with its own phase
// marker type, so an entity that has completed phase N cannot be handed to
// phase N again, nor skipped ahead: phase functions only accept the previous
// phase's entity type.
package api

import (
	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/decl"
	"crossbind/internal/names"
)

// Phase is the marker constraint for pipeline stages.
type Phase interface {
	PhaseName() string
}

// Unanalyzed entities come straight from ingestion.
type Unanalyzed struct{}

// AliasAnalyzed entities have had typedef/using targets resolved.
type AliasAnalyzed struct{}

// PodAnalyzed entities have been classified for by-value safety.
type PodAnalyzed struct{}

func (Unanalyzed) PhaseName() string    { return "unanalyzed" }
func (AliasAnalyzed) PhaseName() string { return "alias" }
func (PodAnalyzed) PhaseName() string   { return "pod" }

// Entity is one declaration moving through the pipeline.
type Entity[P Phase] struct {
	// Name is the current canonical identity, possibly renamed for
	// uniqueness in the flat bridge namespace.
	Name names.QualifiedName
	// OriginalName preserves the foreign spelling when Name was renamed,
	// for diagnostics and generated aliasing. Empty when never renamed.
	OriginalName string
	// Deps are the entities whose definitions must be available wherever
	// this entity is emitted.
	Deps names.Set
	// RenameTo holds the original leaf identifier when the uniqueness
	// allocator picked a different bridge name; emitters use it to attach
	// a documentation alias.
	RenameTo string

	Detail Detail
}

// Advance re-tags an entity for the next phase, carrying identity and
// dependencies forward. The detail is passed through unchanged; phases that
// modify details do so before advancing.
func Advance[From Phase, To Phase](e Entity[From]) Entity[To] {
	return Entity[To]{
		Name:         e.Name,
		OriginalName: e.OriginalName,
		Deps:         e.Deps,
		RenameTo:     e.RenameTo,
		Detail:       e.Detail,
	}
}

// NewUnanalyzed builds a fresh entity in the earliest phase.
func NewUnanalyzed(name names.QualifiedName, d Detail) Entity[Unanalyzed] {
	return Entity[Unanalyzed]{Name: name, Deps: names.NewSet(), Detail: d}
}

// ErrorContext returns the diagnostic context this entity's failures should
// be keyed by.
func (e Entity[P]) ErrorContext() cerrs.Context {
	if fn, ok := e.Detail.(Function); ok && fn.Decl.SelfType != "" {
		return cerrs.MethodContext(fn.Decl.SelfType, e.Name.Leaf())
	}
	return cerrs.ItemContext(e.Name.Leaf())
}

// TypeKind is the by-value classification attached to structs by the pod
// phase.
type TypeKind int

const (
	// KindUnclassified is the value before the pod phase has run.
	KindUnclassified TypeKind = iota
	// KindPod marks types safe to copy, move and store by value across
	// the bridge.
	KindPod
	// KindOpaque marks types that must stay behind bridge-managed
	// indirection; their internals are not visible to either side.
	KindOpaque
)

func (k TypeKind) String() string {
	switch k {
	case KindPod:
		return "pod"
	case KindOpaque:
		return "opaque"
	default:
		return "unclassified"
	}
}

// Detail is the closed set of entity variants.
type Detail interface {
	isDetail()
}

// ForwardDeclaration is a type declared but never defined in the header.
type ForwardDeclaration struct{}

// ConcreteType is synthesized mid-analysis to materialize a template
// instantiation encountered as a field or parameter type.
type ConcreteType struct {
	BridgeDefinition  string
	ForeignDefinition string
}

// StringConstructor marks the generated make-string utility entity.
type StringConstructor struct{}

type Function struct {
	Decl decl.FunctionDecl
}

type Const struct {
	Decl decl.ConstDecl
}

// Alias is a typedef/using declaration. Resolved is populated by the alias
// resolution phase with the ultimate representable target.
type Alias struct {
	Target   decl.TypeRef
	Resolved *decl.TypeRef
}

// Primitive marks a plain C type exposed directly on the bridge.
type Primitive struct{}

// Struct is an aggregate declaration. Kind and Bases are populated by the
// by-value-safety phase; when Kind is KindOpaque the field list has been
// discarded.
type Struct struct {
	Decl  decl.StructDecl
	Kind  TypeKind
	Bases names.Set
}

type Enum struct {
	Decl decl.EnumDecl
}

// Ignored is the inert placeholder for an entity whose analysis failed. It
// carries the diagnostic and the context to report it against.
type Ignored struct {
	Err error
	Ctx cerrs.Context
}

func (ForwardDeclaration) isDetail() {}
func (ConcreteType) isDetail()       {}
func (StringConstructor) isDetail()  {}
func (Function) isDetail()           {}
func (Const) isDetail()              {}
func (Alias) isDetail()              {}
func (Primitive) isDetail()          {}
func (Struct) isDetail()             {}
func (Enum) isDetail()               {}
func (Ignored) isDetail()            {}
