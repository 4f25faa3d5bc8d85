// Package decl models the raw declaration set produced by the external
// foreign-header parser. The analysis core consumes these records as opaque
// input; nothing here parses C++ source text.
package decl

import "strings"

// TypeRef is a surface type reference exactly as the parser expressed it.
// Kind discriminates the variant; only the fields for that variant are set.
type TypeRef struct {
	Kind TypeKind `json:"kind"`

	// Path variant: a possibly root-prefixed qualified path, plus template
	// arguments when the reference instantiates a generic.
	Path string    `json:"path,omitempty"`
	Args []TypeRef `json:"args,omitempty"`

	// Pointer and reference variants.
	Pointee *TypeRef `json:"pointee,omitempty"`
	Const   bool     `json:"const,omitempty"`
}

type TypeKind string

const (
	KindPath      TypeKind = "path"
	KindPointer   TypeKind = "pointer"
	KindReference TypeKind = "reference"
)

// Describe renders the reference for diagnostics, close to its C++ spelling.
func (t TypeRef) Describe() string {
	switch t.Kind {
	case KindPath:
		if len(t.Args) == 0 {
			return t.Path
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.Describe()
		}
		return t.Path + "<" + strings.Join(args, ", ") + ">"
	case KindPointer:
		if t.Pointee == nil {
			return "*<nil>"
		}
		return t.Pointee.Describe() + "*"
	case KindReference:
		if t.Pointee == nil {
			return "&<nil>"
		}
		return t.Pointee.Describe() + "&"
	default:
		return "<" + string(t.Kind) + ">"
	}
}

// PathRef builds a plain path reference, for synthesis and tests.
func PathRef(path string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: KindPath, Path: path, Args: args}
}

// Field is one data member of a struct/class declaration. Fields whose name
// carries the parser's base-class prefix represent base-class subobject
// slots rather than ordinary members.
type Field struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// baseSlotPrefix is the naming convention the parser uses for synthesized
// base-class slot fields.
const baseSlotPrefix = "_base"

func (f Field) IsBaseSlot() bool {
	return strings.HasPrefix(f.Name, baseSlotPrefix)
}

// StructDecl carries everything the by-value-safety classifier needs to know
// about an aggregate, as observed by the parser.
type StructDecl struct {
	Fields            []Field `json:"fields"`
	HasDestructor     bool    `json:"has_destructor,omitempty"`
	HasVirtual        bool    `json:"has_virtual,omitempty"`
	HasNonTrivialCopy bool    `json:"has_non_trivial_copy,omitempty"`
	HasNonTrivialMove bool    `json:"has_non_trivial_move,omitempty"`
}

type AliasDecl struct {
	Target TypeRef `json:"target"`
}

type Param struct {
	Name string  `json:"name,omitempty"`
	Type TypeRef `json:"type"`
}

type FunctionDecl struct {
	Params []Param  `json:"params,omitempty"`
	Return *TypeRef `json:"return,omitempty"`
	// SelfType is set for member functions: the declaring type's leaf name.
	SelfType string `json:"self_type,omitempty"`
}

type ConstDecl struct {
	Type  TypeRef `json:"type"`
	Value string  `json:"value,omitempty"`
}

type EnumDecl struct {
	Values []string `json:"values,omitempty"`
}

// EntityKind discriminates the declaration payload.
type EntityKind string

const (
	KindStruct     EntityKind = "struct"
	KindEnum       EntityKind = "enum"
	KindAlias      EntityKind = "alias"
	KindFunction   EntityKind = "function"
	KindConst      EntityKind = "const"
	KindForward    EntityKind = "forward"
	KindPrimitive  EntityKind = "primitive"
	KindStringCtor EntityKind = "string_ctor"
	KindConcrete   EntityKind = "concrete"
)

// Entity is one raw declaration from the parser: a qualified path (possibly
// prefixed with the root marker), a kind, the kind's payload, and an
// optional pre-existing foreign spelling for cross-referencing.
type Entity struct {
	Path        string     `json:"path"`
	Kind        EntityKind `json:"kind"`
	ForeignName string     `json:"foreign_name,omitempty"`

	Struct   *StructDecl   `json:"struct,omitempty"`
	Alias    *AliasDecl    `json:"alias,omitempty"`
	Function *FunctionDecl `json:"function,omitempty"`
	Const    *ConstDecl    `json:"const,omitempty"`
	Enum     *EnumDecl     `json:"enum,omitempty"`
}
