package errors

// Context identifies which declaration a diagnostic should be reported
// against: either a free-standing item, or a method keyed by its declaring
// type.
type Context struct {
	Item     string
	SelfType string
}

func ItemContext(item string) Context {
	return Context{Item: item}
}

func MethodContext(selfType, method string) Context {
	return Context{Item: method, SelfType: selfType}
}

// ID returns the name the diagnostic should be attached to in the generated
// bridge module. Method failures attach to the declaring type.
func (c Context) ID() string {
	if c.SelfType != "" {
		return c.SelfType
	}
	return c.Item
}

func (c Context) String() string {
	if c.SelfType != "" {
		return c.SelfType + "::" + c.Item
	}
	return c.Item
}
