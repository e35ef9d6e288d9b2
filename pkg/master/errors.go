package master

import (
	"errors"
	"fmt"

	"github.com/pimaster/ard.go/pkg/wire"
)

// ErrNotConfigure indicates Configure was called with an operation
// outside the configure families.
var ErrNotConfigure = errors.New("not a configure operation")

// ConfigRejectedError reports that the device did not echo the pin
// number back for a configure command. It is recoverable and
// distinguishable from a transport failure.
type ConfigRejectedError struct {
	Pin uint8
	Op  wire.Operation
	Got uint16
}

// Error implements error.
func (e *ConfigRejectedError) Error() string {
	return fmt.Sprintf("configure %v rejected for pin %d: device returned %d", e.Op, e.Pin, e.Got)
}

// CounterMismatchError reports a device request counter that does not
// match the number of exchanges issued, i.e. the device missed or
// double-counted requests.
type CounterMismatchError struct {
	Expected uint16
	Got      uint16
}

// Error implements error.
func (e *CounterMismatchError) Error() string {
	return fmt.Sprintf("request counter mismatch: expected %d, got %d", e.Expected, e.Got)
}

// EchoMismatchError reports an echo-mode reply differing from the
// byte sent, i.e. a correctness failure of the link itself.
type EchoMismatchError struct {
	Sent byte
	Got  uint16
}

// Error implements error.
func (e *EchoMismatchError) Error() string {
	return fmt.Sprintf("echo mismatch: sent %d, got %d", e.Sent, e.Got)
}
