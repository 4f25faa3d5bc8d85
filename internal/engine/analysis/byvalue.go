package analysis

import (
	"fmt"

	"crossbind/internal/api"
	"crossbind/internal/config"
	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/decl"
	"crossbind/internal/names"
)

// verdict records whether a type may be held by value across the bridge,
// with a human-readable reason when it may not.
type verdict struct {
	eligible bool
	reason   string
}

// ByValueChecker answers, for any qualified name in the run, whether values
// of that type are safe to copy, move and store by value across the bridge:
// no user destructor, no virtual dispatch, no non-trivial copy/move, and
// every transitively reachable field type itself safe.
type ByValueChecker struct {
	structs map[names.QualifiedName]decl.StructDecl
	aliases map[names.QualifiedName]decl.TypeRef
	enums   map[names.QualifiedName]struct{}
	forward map[names.QualifiedName]struct{}
	memo    map[names.QualifiedName]verdict
}

// NewByValueChecker indexes the entity set and then confirms every explicit
// pod request from the configuration. A request for an ineligible type is a
// hard error: the contract the user asked for cannot be honored.
func NewByValueChecker(entities []api.Entity[api.AliasAnalyzed], cfg *config.Config) (*ByValueChecker, error) {
	c := &ByValueChecker{
		structs: make(map[names.QualifiedName]decl.StructDecl),
		aliases: make(map[names.QualifiedName]decl.TypeRef),
		enums:   make(map[names.QualifiedName]struct{}),
		forward: make(map[names.QualifiedName]struct{}),
		memo:    make(map[names.QualifiedName]verdict),
	}
	for _, e := range entities {
		switch d := e.Detail.(type) {
		case api.Struct:
			c.structs[e.Name] = d.Decl
		case api.Alias:
			if d.Resolved != nil {
				c.aliases[e.Name] = *d.Resolved
			} else {
				c.aliases[e.Name] = d.Target
			}
		case api.Enum:
			c.enums[e.Name] = struct{}{}
		case api.ForwardDeclaration:
			c.forward[e.Name] = struct{}{}
		}
	}

	if cfg != nil {
		for _, req := range cfg.PodRequests() {
			qn := names.FromUserText(req)
			if v := c.check(qn, make(map[names.QualifiedName]struct{})); !v.eligible {
				return nil, cerrs.Newf(cerrs.CodeUnsafePodType,
					"the type %s was requested by value ('pod') but is not safe to hold by value: %s",
					qn.ForeignName(), v.reason)
			}
		}
	}
	return c, nil
}

// IsPod reports whether the named type is by-value safe.
func (c *ByValueChecker) IsPod(qn names.QualifiedName) bool {
	return c.check(qn, make(map[names.QualifiedName]struct{})).eligible
}

func (c *ByValueChecker) check(qn names.QualifiedName, visiting map[names.QualifiedName]struct{}) verdict {
	if v, ok := c.memo[qn]; ok {
		return v
	}
	// A type reachable from itself by value cannot have finite layout.
	if _, busy := visiting[qn]; busy {
		return verdict{reason: fmt.Sprintf("%s contains itself by value", qn.ForeignName())}
	}
	visiting[qn] = struct{}{}
	v := c.checkUncached(qn, visiting)
	delete(visiting, qn)
	c.memo[qn] = v
	return v
}

func (c *ByValueChecker) checkUncached(qn names.QualifiedName, visiting map[names.QualifiedName]struct{}) verdict {
	if names.IsKnownType(qn) {
		if names.IsByValueSafeKnownType(qn) {
			return verdict{eligible: true}
		}
		return verdict{reason: fmt.Sprintf("%s is bridge-managed and cannot be held by value", qn.ForeignName())}
	}
	if target, ok := c.aliases[qn]; ok {
		return c.checkTypeRef(target, visiting)
	}
	if _, ok := c.enums[qn]; ok {
		return verdict{eligible: true}
	}
	if _, ok := c.forward[qn]; ok {
		return verdict{reason: fmt.Sprintf("%s is a forward declaration with no definition", qn.ForeignName())}
	}
	s, ok := c.structs[qn]
	if !ok {
		return verdict{reason: fmt.Sprintf("%s is not a type known to be safe by value", qn.ForeignName())}
	}
	if s.HasDestructor {
		return verdict{reason: fmt.Sprintf("%s has a user-defined destructor", qn.ForeignName())}
	}
	if s.HasVirtual {
		return verdict{reason: fmt.Sprintf("%s has virtual functions or bases", qn.ForeignName())}
	}
	if s.HasNonTrivialCopy || s.HasNonTrivialMove {
		return verdict{reason: fmt.Sprintf("%s has non-trivial copy or move semantics", qn.ForeignName())}
	}
	for _, f := range s.Fields {
		if v := c.checkTypeRef(f.Type, visiting); !v.eligible {
			return verdict{reason: fmt.Sprintf("field %s of %s: %s", f.Name, qn.ForeignName(), v.reason)}
		}
	}
	return verdict{eligible: true}
}

func (c *ByValueChecker) checkTypeRef(ty decl.TypeRef, visiting map[names.QualifiedName]struct{}) verdict {
	switch ty.Kind {
	case decl.KindPointer:
		// Raw pointers copy freely; what they point at is the caller's
		// problem.
		return verdict{eligible: true}
	case decl.KindReference:
		return verdict{reason: "reference members cannot be modeled by value"}
	case decl.KindPath:
		if len(ty.Args) > 0 {
			return verdict{reason: fmt.Sprintf("%s is a templated type held through bridge-managed indirection", ty.Describe())}
		}
		return c.check(names.FromForeignPath(ty.Path), visiting)
	default:
		return verdict{reason: fmt.Sprintf("unsupported type %s", ty.Describe())}
	}
}
