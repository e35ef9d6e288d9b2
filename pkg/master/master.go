// Package master implements the host side of the command protocol:
// it encodes pin operations into wire words, performs the round trip
// and interprets the response.
package master

import (
	"github.com/golang/glog"

	"github.com/pimaster/ard.go/pkg/link"
	"github.com/pimaster/ard.go/pkg/wire"
)

// Master drives one slave through an open transport. It carries no
// protocol state: every operation is one independent write-then-read
// exchange.
type Master struct {
	t *link.Transport
}

// New wraps an open transport.
func New(t *link.Transport) *Master {
	return &Master{t: t}
}

// Transport exposes the underlying transport.
func (m *Master) Transport() *link.Transport {
	return m.t
}

// Close releases the transport.
func (m *Master) Close() error {
	return m.t.Close()
}

// ReadPin returns the current assignment or value of a pin: the pin's
// level for configured inputs, a status code from the reserved range
// otherwise (e.g. wire.StatusPinUnassigned).
func (m *Master) ReadPin(pin uint8) (uint16, error) {
	w, err := wire.Encode(wire.ReadAssignment, pin)
	if err != nil {
		return 0, err
	}
	return m.exchange(w)
}

// Configure assigns a pin mode. The device echoes the pin number back
// on success; any other response means the link worked but the device
// rejected the configuration, reported as *ConfigRejectedError.
func (m *Master) Configure(pin uint8, op wire.Operation) error {
	if !op.IsConfigure() {
		return ErrNotConfigure
	}
	w, err := wire.Encode(op, pin)
	if err != nil {
		return err
	}
	r, err := m.exchange(w)
	if err != nil {
		return err
	}
	if r != uint16(pin) {
		return &ConfigRejectedError{Pin: pin, Op: op, Got: r}
	}
	return nil
}

// SetOutput drives a configured output pin high or low, returning the
// raw device response (1 for high, 0 for low on conforming firmware;
// not validated here).
func (m *Master) SetOutput(pin uint8, high bool) (uint16, error) {
	op := wire.WriteLow
	if high {
		op = wire.WriteHigh
	}
	w, err := wire.Encode(op, pin)
	if err != nil {
		return 0, err
	}
	return m.exchange(w)
}

// Query sends a fixed diagnostic code verbatim and returns the raw
// response.
func (m *Master) Query(q wire.Query) (uint16, error) {
	return m.exchange(wire.EncodeQuery(q))
}

// Echo sends a byte value verbatim. The device must have been placed
// in echo mode out of band. The raw reply is always returned; a reply
// different from the byte sent additionally yields *EchoMismatchError,
// which marks a corrupted link rather than a failed operation.
func (m *Master) Echo(b byte) (uint16, error) {
	r, err := m.exchange(uint16(b))
	if err != nil {
		return 0, err
	}
	if r != uint16(b) {
		return r, &EchoMismatchError{Sent: b, Got: r}
	}
	return r, nil
}

func (m *Master) exchange(w uint16) (uint16, error) {
	r, err := m.t.Exchange(w)
	if glog.V(3) {
		glog.Infof("XCHG %#04x > %#04x %v", w, r, err)
	}
	return r, err
}
