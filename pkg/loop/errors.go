package loop

import (
	"errors"
	"fmt"
)

// ErrIO classifies every failure Decide reports. Missing files are not errors.
var ErrIO = errors.New("loop decision I/O error")

// Error wraps a file operation failure with the path it happened on.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrIO
}
