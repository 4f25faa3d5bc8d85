package names

// knownType describes a built-in type the bridge understands natively: its
// C++ spelling and its flat bridge spelling.
type knownType struct {
	foreign string
	bridge  string
	// byValueSafe means values of this type may be copied across the
	// bridge with no lifecycle management.
	byValueSafe bool
	// templated containers take type arguments whose full definition must
	// be available; forward declarations are rejected inside them.
	templated bool
	// supported is false for built-ins we recognize but cannot represent.
	supported bool
}

var knownTypes = map[string]knownType{
	"i8":  {foreign: "int8_t", bridge: "int8", byValueSafe: true, supported: true},
	"i16": {foreign: "int16_t", bridge: "int16", byValueSafe: true, supported: true},
	"i32": {foreign: "int32_t", bridge: "int32", byValueSafe: true, supported: true},
	"i64": {foreign: "int64_t", bridge: "int64", byValueSafe: true, supported: true},
	"u8":  {foreign: "uint8_t", bridge: "uint8", byValueSafe: true, supported: true},
	"u16": {foreign: "uint16_t", bridge: "uint16", byValueSafe: true, supported: true},
	"u32": {foreign: "uint32_t", bridge: "uint32", byValueSafe: true, supported: true},
	"u64": {foreign: "uint64_t", bridge: "uint64", byValueSafe: true, supported: true},
	"f32": {foreign: "float", bridge: "float32", byValueSafe: true, supported: true},
	"f64": {foreign: "double", bridge: "float64", byValueSafe: true, supported: true},

	"bool":    {foreign: "bool", bridge: "bool", byValueSafe: true, supported: true},
	"c_char":  {foreign: "char", bridge: "byte", byValueSafe: true, supported: true},
	"c_int":   {foreign: "int", bridge: "int32", byValueSafe: true, supported: true},
	"c_uint":  {foreign: "unsigned int", bridge: "uint32", byValueSafe: true, supported: true},
	"c_long":  {foreign: "long", bridge: "int64", byValueSafe: true, supported: true},
	"c_ulong": {foreign: "unsigned long", bridge: "uint64", byValueSafe: true, supported: true},
	"c_void":  {foreign: "void", bridge: "unsafePointer", supported: true},

	"usize": {foreign: "size_t", bridge: "uintptr", byValueSafe: true, supported: true},
	"isize": {foreign: "ssize_t", bridge: "intptr", byValueSafe: true, supported: true},

	// Owned string and container types: representable, but only through
	// bridge-managed indirection, never by value.
	"std::string":     {foreign: "std::string", bridge: "BridgeString", supported: true},
	"std::unique_ptr": {foreign: "std::unique_ptr", bridge: "UniquePtr", templated: true, supported: true},
	"std::shared_ptr": {foreign: "std::shared_ptr", bridge: "SharedPtr", templated: true, supported: true},
	"std::vector":     {foreign: "std::vector", bridge: "BridgeVector", templated: true, supported: true},

	// Recognized but unrepresentable built-ins.
	"c_longdouble": {foreign: "long double", supported: false},
	"i128":         {foreign: "__int128", supported: false},
	"u128":         {foreign: "unsigned __int128", supported: false},
}

func lookupKnownType(q QualifiedName) (knownType, bool) {
	kt, ok := knownTypes[q.String()]
	return kt, ok
}

// IsKnownType reports whether the name denotes a built-in from the known
// types table, supported or not.
func IsKnownType(q QualifiedName) bool {
	_, ok := lookupKnownType(q)
	return ok
}

// IsSupportedKnownType reports whether the name is a built-in the bridge can
// actually represent.
func IsSupportedKnownType(q QualifiedName) bool {
	kt, ok := lookupKnownType(q)
	return ok && kt.supported
}

// IsTemplatedContainer reports whether the name is a built-in container that
// takes type arguments (and therefore needs its arguments' full definitions).
func IsTemplatedContainer(q QualifiedName) bool {
	kt, ok := lookupKnownType(q)
	return ok && kt.templated
}

// IsByValueSafeKnownType reports whether a known built-in may be held by
// value across the bridge.
func IsByValueSafeKnownType(q QualifiedName) bool {
	kt, ok := lookupKnownType(q)
	return ok && kt.byValueSafe
}
