package names

import "strings"

const separator = "::"

// Namespace is an ordered sequence of C++ scope segments. The zero value is
// the global namespace. Namespaces are immutable: Push returns a new value
// and never mutates the receiver, so namespaces are safe to share and to use
// as map keys.
type Namespace struct {
	path string
}

func NewNamespace() Namespace {
	return Namespace{}
}

// ParseNamespace builds a namespace from user text such as "std::chrono".
// Empty segments are skipped.
func ParseNamespace(input string) Namespace {
	ns := Namespace{}
	for _, seg := range strings.Split(input, separator) {
		if seg == "" {
			continue
		}
		ns = ns.Push(seg)
	}
	return ns
}

// Push appends one segment, returning a child namespace.
func (n Namespace) Push(segment string) Namespace {
	if segment == "" {
		panic("names: empty namespace segment")
	}
	if n.path == "" {
		return Namespace{path: segment}
	}
	return Namespace{path: n.path + separator + segment}
}

func (n Namespace) IsEmpty() bool {
	return n.path == ""
}

func (n Namespace) Depth() int {
	if n.path == "" {
		return 0
	}
	return strings.Count(n.path, separator) + 1
}

// Segments returns the segment list, outermost first.
func (n Namespace) Segments() []string {
	if n.path == "" {
		return nil
	}
	return strings.Split(n.path, separator)
}

func (n Namespace) String() string {
	return n.path
}

// DisplaySuffix renders " (in namespace a::b)" for diagnostics, or nothing
// for the global namespace.
func (n Namespace) DisplaySuffix() string {
	if n.IsEmpty() {
		return ""
	}
	return " (in namespace " + n.path + ")"
}
