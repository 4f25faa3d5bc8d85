package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNoContent               ErrorCode = "NO_CONTENT"
	CodeUnsafePodType           ErrorCode = "UNSAFE_POD_TYPE"
	CodeUnsupportedBuiltIn      ErrorCode = "UNSUPPORTED_BUILTIN"
	CodeUnknownType             ErrorCode = "UNKNOWN_TYPE"
	CodeTemplateNonPathArg      ErrorCode = "TEMPLATE_NON_PATH_ARG"
	CodeConflictingTemplateArgs ErrorCode = "CONFLICTING_TEMPLATE_ARGS"
	CodeInvalidPointee          ErrorCode = "INVALID_POINTEE"
	CodeForwardDeclInTemplate   ErrorCode = "FORWARD_DECL_IN_TEMPLATE"
	CodeSelfReferentialAlias    ErrorCode = "SELF_REFERENTIAL_ALIAS"
	CodeComplexAliasTarget      ErrorCode = "COMPLEX_ALIAS_TARGET"
	CodeReservedName            ErrorCode = "RESERVED_NAME"
	CodeTooManyUnderscores      ErrorCode = "TOO_MANY_UNDERSCORES"
	CodeBlocked                 ErrorCode = "BLOCKED"
	CodeIgnoredDependent        ErrorCode = "IGNORED_DEPENDENT"
	CodeNotGenerated            ErrorCode = "NOT_GENERATED"
	CodeInvariantViolation      ErrorCode = "INVARIANT_VIOLATION"
	CodeInternal                ErrorCode = "INTERNAL_ERROR"
)

// ConvertError is a per-entity analysis failure. It carries enough context
// to render a compiler-style diagnostic against the original header.
type ConvertError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxName      = "name"
	CtxNamespace = "namespace"
	CtxType      = "type"
	CtxPhase     = "phase"
)

func (e *ConvertError) WithContext(key string, value interface{}) *ConvertError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *ConvertError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &ConvertError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &ConvertError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &ConvertError{Code: code, Message: msg, Err: err}
}

func AddContext(err error, key string, value interface{}) error {
	var ce *ConvertError
	if errors.As(err, &ce) {
		ce.WithContext(key, value)
		return ce
	}
	return &ConvertError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// CodeOf returns the error code, or CodeInternal for errors raised outside
// the analysis taxonomy.
func CodeOf(err error) ErrorCode {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeInternal
}
