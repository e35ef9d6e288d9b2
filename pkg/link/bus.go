// Package link moves 16-bit words over the raw byte link to the slave.
package link

import (
	"errors"
	"fmt"
)

// Bus is the narrow surface of the underlying hardware handle.
type Bus interface {
	// WriteByte transmits a single byte.
	WriteByte(b byte) error
	// ReadBytes fills p, reporting how many bytes were actually
	// received.
	ReadBytes(p []byte) (int, error)
	// Close releases the handle.
	Close() error
}

var (
	// ErrClosed indicates the transport was used after Close.
	ErrClosed = errors.New("transport closed")
	// ErrShortRead indicates the handle returned fewer bytes than a
	// full response word.
	ErrShortRead = errors.New("short read")
)

// TransportError wraps a byte-level read or write failure. It is
// surfaced to the caller unchanged and never retried here.
type TransportError struct {
	Op  string // "read" or "write"
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// DeviceUnavailableError indicates no usable responder at the
// requested address during open.
type DeviceUnavailableError struct {
	Dev  string
	Addr int
	Err  error
}

// Error implements error.
func (e *DeviceUnavailableError) Error() string {
	return fmt.Sprintf("no device at %s addr %#02x: %v", e.Dev, e.Addr, e.Err)
}
