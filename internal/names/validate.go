package names

import (
	"strings"

	cerrs "crossbind/internal/core/errors"
)

// Identifiers that are legal in C++ but collide with keywords on the bridge
// side. Not exhaustive; extended as collisions are reported.
var reservedBridgeNames = []string{
	"func", "type", "chan", "map", "range", "select", "go", "defer",
	"interface", "package",
}

// ValidateBridgeIdent rejects identifiers that cannot appear in the flat
// bridge namespace: reserved bridge-side keywords and names containing
// double underscores (reserved by the C++ standard, so never emitted).
func ValidateBridgeIdent(id string) error {
	for _, r := range reservedBridgeNames {
		if id == r {
			return cerrs.Newf(cerrs.CodeReservedName, "the name %q is reserved on the bridge side", id)
		}
	}
	if strings.Contains(id, "__") {
		return cerrs.Newf(cerrs.CodeTooManyUnderscores, "names containing __ are reserved by C++ so cannot be used on the bridge: %q", id)
	}
	return nil
}

// ValidateBridgeName applies ValidateBridgeIdent to a qualified name's leaf.
func (q QualifiedName) ValidateBridgeName() error {
	if err := ValidateBridgeIdent(q.Leaf()); err != nil {
		return cerrs.AddContext(err, cerrs.CtxNamespace, q.Namespace().String())
	}
	return nil
}
