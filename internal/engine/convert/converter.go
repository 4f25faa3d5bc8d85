// Package convert resolves surface type references from the foreign parser
// into bridge-representable types. Conversion reports every qualified name
// the reference depends on, and synthesizes concrete auxiliary entities for
// template instantiations that have no direct declaration yet.
package convert

import (
	"strings"

	"crossbind/internal/api"
	"crossbind/internal/config"
	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/decl"
	"crossbind/internal/names"
)

// Context selects how strict a conversion is. Struct fields, alias targets
// and function signatures use BridgeInner, which refuses types whose bridge
// representation is not fully known; BareReference tolerates them.
type Context int

const (
	BridgeInner Context = iota
	BareReference
)

// Deep typedef chains beyond this depth are treated as unrepresentable
// rather than looping. The direct self-reference case is detected separately
// by the alias phase.
const maxTypedefDepth = 32

// Converted is the outcome of one successful conversion.
type Converted struct {
	// Type is the bridge-representable rendering of the input reference.
	Type decl.TypeRef
	// Encountered collects every qualified name the reference depends on.
	Encountered names.Set
	// Extra holds auxiliary entities synthesized along the way; the
	// orchestrator re-runs them through the current phase exactly once.
	Extra []api.Entity[api.Unanalyzed]
}

func (c *Converted) merge(other Converted) {
	c.Encountered.Union(other.Encountered)
	c.Extra = append(c.Extra, other.Extra...)
}

// Converter resolves type references against the declaration set of one run.
type Converter struct {
	cfg      *config.Config
	typedefs map[names.QualifiedName]decl.TypeRef
	forward  map[names.QualifiedName]struct{}
	declared map[names.QualifiedName]struct{}
	// concrete memoizes synthesized instantiations by their foreign
	// spelling so each is materialized exactly once.
	concrete map[string]names.QualifiedName
}

// NewConverter indexes the entity set of the phase about to run. The phase
// parameter keeps one converter implementation usable by every phase.
func NewConverter[P api.Phase](cfg *config.Config, entities []api.Entity[P]) *Converter {
	c := &Converter{
		cfg:      cfg,
		typedefs: make(map[names.QualifiedName]decl.TypeRef),
		forward:  make(map[names.QualifiedName]struct{}),
		declared: make(map[names.QualifiedName]struct{}),
		concrete: make(map[string]names.QualifiedName),
	}
	for _, e := range entities {
		switch d := e.Detail.(type) {
		case api.Alias:
			c.typedefs[e.Name] = d.Target
		case api.ForwardDeclaration:
			c.forward[e.Name] = struct{}{}
		case api.Struct, api.Enum, api.ConcreteType, api.Primitive:
			c.declared[e.Name] = struct{}{}
		}
	}
	return c
}

// Convert resolves one surface type reference. Failures are typed
// ConvertErrors describing the offending type; the caller decides whether
// they demote the surrounding entity.
func (c *Converter) Convert(ty decl.TypeRef, ns names.Namespace, tcc Context) (Converted, error) {
	return c.convert(ty, ns, tcc, 0)
}

func (c *Converter) convert(ty decl.TypeRef, ns names.Namespace, tcc Context, depth int) (Converted, error) {
	switch ty.Kind {
	case decl.KindPath:
		return c.convertPath(ty, ns, tcc, depth)
	case decl.KindPointer:
		return c.convertPointer(ty, ns, depth)
	case decl.KindReference:
		return c.convertReference(ty, ns, depth)
	default:
		return Converted{}, cerrs.Newf(cerrs.CodeUnknownType, "encountered type not yet supported: %s", ty.Describe())
	}
}

func (c *Converter) convertPath(ty decl.TypeRef, ns names.Namespace, tcc Context, depth int) (Converted, error) {
	if depth > maxTypedefDepth {
		return Converted{}, cerrs.Newf(cerrs.CodeComplexAliasTarget, "unable to produce a typedef pointing to the complex type %s", ty.Describe())
	}
	qn := names.FromForeignPath(ty.Path)

	if c.cfg != nil && c.cfg.IsBlocked(qn.ForeignName()) {
		return Converted{}, cerrs.Newf(cerrs.CodeBlocked, "found an attempt at using a type marked as blocked (%s)", qn.ForeignName())
	}

	if target, ok := c.typedefs[qn]; ok {
		if len(ty.Args) > 0 {
			return Converted{}, cerrs.Newf(cerrs.CodeConflictingTemplateArgs, "type %s has templated arguments and so does the typedef to which it points", qn)
		}
		// A typedef naming itself substitutes to its own spelling and
		// stops; the alias phase reports the identity.
		if target.Kind == decl.KindPath && len(target.Args) == 0 && names.FromForeignPath(target.Path) == qn {
			return Converted{Type: decl.PathRef(qn.String()), Encountered: names.NewSet(qn)}, nil
		}
		res, err := c.convert(target, ns, tcc, depth+1)
		if err != nil {
			return Converted{}, err
		}
		res.Encountered.Insert(qn)
		return res, nil
	}

	if names.IsKnownType(qn) {
		return c.convertKnown(qn, ty, ns, depth)
	}

	if len(ty.Args) > 0 {
		return c.instantiate(qn, ty, ns, depth)
	}

	_, isDeclared := c.declared[qn]
	_, isForward := c.forward[qn]
	if !isDeclared && !isForward && tcc == BridgeInner {
		return Converted{}, cerrs.Newf(cerrs.CodeUnknownType, "encountered type not known to the analysis: %s%s", qn.Leaf(), qn.Namespace().DisplaySuffix())
	}

	res := Converted{Type: decl.PathRef(qn.String()), Encountered: names.NewSet(qn)}
	return res, nil
}

func (c *Converter) convertKnown(qn names.QualifiedName, ty decl.TypeRef, ns names.Namespace, depth int) (Converted, error) {
	if !names.IsSupportedKnownType(qn) {
		return Converted{}, cerrs.Newf(cerrs.CodeUnsupportedBuiltIn, "the built-in C++ type %s is not yet supported", qn.ForeignName())
	}
	if !names.IsTemplatedContainer(qn) {
		if len(ty.Args) > 0 {
			return Converted{}, cerrs.Newf(cerrs.CodeUnknownType, "built-in type %s does not take type arguments", qn.ForeignName())
		}
		return Converted{Type: decl.PathRef(qn.String()), Encountered: names.NewSet(qn)}, nil
	}

	// Templated containers: the argument's complete layout must be
	// emittable, so forward declarations are rejected here.
	res := Converted{Type: decl.TypeRef{Kind: decl.KindPath, Path: qn.String()}, Encountered: names.NewSet(qn)}
	for _, arg := range ty.Args {
		if arg.Kind != decl.KindPath {
			return Converted{}, cerrs.Newf(cerrs.CodeTemplateNonPathArg, "type %s was parameterized over something complex which is not yet supported", qn.ForeignName())
		}
		argName := names.FromForeignPath(arg.Path)
		if _, fwd := c.forward[argName]; fwd {
			return Converted{}, cerrs.Newf(cerrs.CodeForwardDeclInTemplate, "found an attempt at using a forward declaration (%s) inside a templated bridge type", argName.ForeignName())
		}
		conv, err := c.convert(arg, ns, BareReference, depth+1)
		if err != nil {
			return Converted{}, err
		}
		res.Type.Args = append(res.Type.Args, conv.Type)
		res.merge(conv)
	}
	return res, nil
}

// instantiate materializes a concrete auxiliary entity for a user-template
// instantiation that has no direct declaration.
func (c *Converter) instantiate(qn names.QualifiedName, ty decl.TypeRef, ns names.Namespace, depth int) (Converted, error) {
	for _, arg := range ty.Args {
		if arg.Kind != decl.KindPath {
			return Converted{}, cerrs.Newf(cerrs.CodeTemplateNonPathArg, "type %s was parameterized over something complex which is not yet supported", qn)
		}
		argName := names.FromForeignPath(arg.Path)
		if _, fwd := c.forward[argName]; fwd {
			return Converted{}, cerrs.Newf(cerrs.CodeForwardDeclInTemplate, "found an attempt at using a forward declaration (%s) inside a templated type", argName.ForeignName())
		}
	}

	foreignSpelling := foreignDescription(qn, ty)
	if existing, ok := c.concrete[foreignSpelling]; ok {
		return Converted{Type: decl.PathRef(existing.String()), Encountered: names.NewSet(existing)}, nil
	}

	res := Converted{Encountered: names.NewSet(qn)}
	flatArgs := make([]string, 0, len(ty.Args))
	for _, arg := range ty.Args {
		conv, err := c.convert(arg, ns, BareReference, depth+1)
		if err != nil {
			return Converted{}, err
		}
		res.merge(conv)
		flatArgs = append(flatArgs, flatten(arg.Path))
	}

	leaf := qn.Leaf() + "_" + strings.Join(flatArgs, "_")
	concreteName := names.NewQualifiedName(names.NewNamespace(), leaf)
	c.concrete[foreignSpelling] = concreteName
	c.declared[concreteName] = struct{}{}

	extra := api.NewUnanalyzed(concreteName, api.ConcreteType{
		BridgeDefinition:  leaf,
		ForeignDefinition: foreignSpelling,
	})
	extra.Deps.Insert(qn)

	res.Type = decl.PathRef(concreteName.String())
	res.Encountered.Insert(concreteName)
	res.Extra = append(res.Extra, extra)
	return res, nil
}

func (c *Converter) convertPointer(ty decl.TypeRef, ns names.Namespace, depth int) (Converted, error) {
	if ty.Pointee == nil || ty.Pointee.Kind == decl.KindReference {
		return Converted{}, cerrs.New(cerrs.CodeInvalidPointee, "pointer pointed to something unsupported")
	}
	inner, err := c.convert(*ty.Pointee, ns, BareReference, depth+1)
	if err != nil {
		return Converted{}, cerrs.Wrap(err, cerrs.CodeInvalidPointee, "pointer pointed to something unsupported")
	}
	out := inner
	out.Type = decl.TypeRef{Kind: decl.KindPointer, Pointee: &inner.Type, Const: ty.Const}
	return out, nil
}

func (c *Converter) convertReference(ty decl.TypeRef, ns names.Namespace, depth int) (Converted, error) {
	if ty.Pointee == nil {
		return Converted{}, cerrs.New(cerrs.CodeInvalidPointee, "reference referred to something unsupported")
	}
	inner, err := c.convert(*ty.Pointee, ns, BareReference, depth+1)
	if err != nil {
		return Converted{}, err
	}
	out := inner
	out.Type = decl.TypeRef{Kind: decl.KindReference, Pointee: &inner.Type, Const: ty.Const}
	return out, nil
}

// foreignDescription renders the instantiation's fully-qualified C++
// spelling, used both as the memo key and as the synthesized entity's
// foreign definition.
func foreignDescription(qn names.QualifiedName, ty decl.TypeRef) string {
	args := make([]string, len(ty.Args))
	for i, a := range ty.Args {
		args[i] = names.FromForeignPath(a.Path).ForeignName()
	}
	return qn.ForeignName() + "<" + strings.Join(args, ", ") + ">"
}

func flatten(path string) string {
	qn := names.FromForeignPath(path)
	flat := strings.ReplaceAll(qn.ForeignName(), "::", "_")
	flat = strings.ReplaceAll(flat, " ", "_")
	return flat
}
