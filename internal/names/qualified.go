package names

import "strings"

// rootMarker is the synthetic segment the foreign-header parser prepends to
// every path that lives inside the header's own namespace tree. It is
// stripped on ingestion; bridge-local paths are re-rooted under
// bind::root on output.
const rootMarker = "root"

// QualifiedName is the canonical identity of any type, function or constant
// known to the analysis: a namespace plus a final name. Two declarations are
// the same entity iff their QualifiedNames are equal. The zero value is not
// a valid QualifiedName; use one of the constructors.
type QualifiedName struct {
	ns   Namespace
	name string
}

// NewQualifiedName builds a name from an explicit namespace and leaf.
// An empty leaf is a logic error, not a recoverable condition.
func NewQualifiedName(ns Namespace, leaf string) QualifiedName {
	if leaf == "" {
		panic("names: empty leaf in qualified name")
	}
	return QualifiedName{ns: ns, name: leaf}
}

// FromForeignPath builds a name from a parser-assigned qualified path such
// as "root::ns::Ty". A leading root marker is stripped; paths without the
// marker are treated as already bridge-local (e.g. "i32").
func FromForeignPath(path string) QualifiedName {
	segs := strings.Split(path, separator)
	if len(segs) > 1 && segs[0] == rootMarker {
		segs = segs[1:]
	}
	return fromSegments(segs)
}

// FromUserText builds a name from raw user input such as an allow-list or
// pod directive value. Empty segments (e.g. a leading "::") are skipped.
func FromUserText(input string) QualifiedName {
	segs := make([]string, 0, 4)
	for _, seg := range strings.Split(input, separator) {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return fromSegments(segs)
}

func fromSegments(segs []string) QualifiedName {
	if len(segs) == 0 || segs[len(segs)-1] == "" {
		panic("names: qualified name needs at least a leaf segment")
	}
	ns := NewNamespace()
	for _, seg := range segs[:len(segs)-1] {
		ns = ns.Push(seg)
	}
	return QualifiedName{ns: ns, name: segs[len(segs)-1]}
}

// Leaf returns the final name without namespace qualification. Avoid unless
// the namespace genuinely does not matter.
func (q QualifiedName) Leaf() string {
	return q.name
}

func (q QualifiedName) Namespace() Namespace {
	return q.ns
}

// ForeignName renders the fully-qualified C++ spelling, substituting the
// native spelling for known built-ins (e.g. "i8" becomes "int8_t").
func (q QualifiedName) ForeignName() string {
	if kt, ok := lookupKnownType(q); ok {
		return kt.foreign
	}
	return q.String()
}

// BridgePath returns the path segments under which this entity lives in the
// generated bridge module. Known built-ins render as their native bridge
// spelling; everything else is rooted under bind::root.
func (q QualifiedName) BridgePath() []string {
	if kt, ok := lookupKnownType(q); ok {
		return []string{kt.bridge}
	}
	segs := make([]string, 0, q.ns.Depth()+3)
	segs = append(segs, "bind", rootMarker)
	segs = append(segs, q.ns.Segments()...)
	return append(segs, q.name)
}

// IsVoid reports whether this name denotes the C++ void type.
func (q QualifiedName) IsVoid() bool {
	return q.ForeignName() == "void"
}

func (q QualifiedName) String() string {
	if q.ns.IsEmpty() {
		return q.name
	}
	return q.ns.String() + separator + q.name
}
