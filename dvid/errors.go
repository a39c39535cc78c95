package dvid

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every error caused by a malformed argument, e.g., a
// bad shape, scale factor, or grid position.  Use errors.Is() to test for it.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentf returns an error wrapping ErrInvalidArgument with a formatted message.
func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
