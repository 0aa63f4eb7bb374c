package interchange

import (
	"errors"
	"fmt"
)

var (
	ErrNotRepresentable  = errors.New("schema not representable in wire format")
	ErrMalformedSchema   = errors.New("malformed wire schema")
	ErrMalformedRowGroup = errors.New("malformed wire row group")
)

// NotRepresentableError names the schema node that has no wire encoding.
// Path is dot separated and starts at the root name.
type NotRepresentableError struct {
	Path   string
	Reason string
}

func (e *NotRepresentableError) Error() string {
	return fmt.Sprintf("schema node %q not representable in wire format: %s", e.Path, e.Reason)
}

func (e *NotRepresentableError) Is(target error) bool {
	return target == ErrNotRepresentable
}

func notRepresentable(path, format string, args ...any) error {
	return &NotRepresentableError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func malformed(base error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}
