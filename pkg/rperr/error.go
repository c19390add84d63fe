package rperr

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/debugvalue"
)

// Error reports a failed rp call. Arguments are sanitized on construction so
// the error never holds on to buffers or native handles.
type Error struct {
	Function  string
	Arguments []any
	Code      StatusCode
}

// New builds an Error for function called with args that returned code.
func New(function string, code StatusCode, args ...any) *Error {
	return &Error{
		Function:  function,
		Arguments: debugvalue.Sanitize(args...),
		Code:      code,
	}
}

// Check returns nil when code is OK and an *Error otherwise.
func Check(function string, code StatusCode, args ...any) error {
	if code == OK {
		return nil
	}
	return New(function, code, args...)
}

func (e *Error) Error() string {
	return fmt.Sprintf("While calling %s with arguments %s: %s (%d)",
		e.Function, formatArguments(e.Arguments), e.Code.Message(), int(e.Code))
}

// Is matches another *Error carrying the same status code, so callers can
// test with errors.Is(err, &rperr.Error{Code: rperr.EOOR}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

func formatArguments(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatArgument(arg)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// formatArgument prints arg the way Python's repr would for the kinds
// debugvalue preserves. Named string and bool types follow their kind.
func formatArgument(arg any) string {
	if arg == nil {
		return "None"
	}
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return "True"
		}
		return "False"
	case reflect.String:
		return fmt.Sprintf("'%s'", v.String())
	default:
		return fmt.Sprint(arg)
	}
}
