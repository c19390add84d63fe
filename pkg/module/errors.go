package module

import (
	"errors"
	"fmt"
)

// ErrMissingPlaceholder is matched by every *MissingPlaceholderError.
var ErrMissingPlaceholder = errors.New("module: missing placeholder")

// MissingPlaceholderError names the first placeholder that was not supplied.
type MissingPlaceholderError struct {
	Template string
	Name     string
}

func (e *MissingPlaceholderError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("module: missing placeholder %q", e.Name)
	}
	return fmt.Sprintf("module: template %s: missing placeholder %q", e.Template, e.Name)
}

// Is reports ErrMissingPlaceholder as a match.
func (e *MissingPlaceholderError) Is(target error) bool {
	return target == ErrMissingPlaceholder
}
