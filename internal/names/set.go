package names

import "sort"

// Set is an unordered set of QualifiedNames, used for per-entity dependency
// tracking. The zero value is unusable; call NewSet.
type Set map[QualifiedName]struct{}

func NewSet(members ...QualifiedName) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s.Insert(m)
	}
	return s
}

func (s Set) Insert(q QualifiedName) {
	s[q] = struct{}{}
}

func (s Set) Contains(q QualifiedName) bool {
	_, ok := s[q]
	return ok
}

// Union inserts every member of other into s.
func (s Set) Union(other Set) {
	for q := range other {
		s[q] = struct{}{}
	}
}

// Clear removes every member. Used when a type is demoted to opaque and its
// field-level dependencies must no longer be exposed.
func (s Set) Clear() {
	for q := range s {
		delete(s, q)
	}
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members ordered by their rendered spelling, for
// deterministic output.
func (s Set) Sorted() []QualifiedName {
	out := make([]QualifiedName, 0, len(s))
	for q := range s {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
