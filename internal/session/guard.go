package session

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// MsgUnexpected is shown when an operation fails in a way the user cannot
// act on.
const MsgUnexpected = "An unexpected error occurred. Please try again."

// ErrUnexpected is returned by Guard when fn panicked.
var ErrUnexpected = errors.New(MsgUnexpected)

// Guard runs fn and turns a panic into ErrUnexpected, logging the stack.
// The manager stays usable and the error is put on the banner.
func (m *Manager) Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("recovered from panic",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			m.errMsg = MsgUnexpected
			err = ErrUnexpected
		}
	}()
	return fn()
}
