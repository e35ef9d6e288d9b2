// Package sim provides a deterministic in-memory pin slave speaking
// the full command table, for tests and offline runs.
package sim

import (
	"errors"
	"sync"

	"github.com/pimaster/ard.go/pkg/wire"
)

// Mode is the assignment of a simulated pin.
type Mode int

// Pin modes.
const (
	Unassigned Mode = iota
	Input
	InputPullup
	AnalogInput
	Output
)

// statusBadCommand is what this simulator reports for commands it
// cannot act on. Real firmware reports its own codes from the
// reserved 240..255 range.
const statusBadCommand = wire.StatusMax

// ErrSlaveClosed indicates use of a closed simulated slave.
var ErrSlaveClosed = errors.New("simulated slave closed")

// Slave simulates the remote device behind a link.Bus. It assembles
// command words byte by byte, executes them against its pin table and
// queues the response bytes for the next read, so one instance also
// doubles as a scripted peer in transport-level tests.
type Slave struct {
	lock sync.Mutex

	echoMode bool

	modes  [wire.MaxPin + 1]Mode
	values [wire.MaxPin + 1]uint16

	requestCount uint16
	loopCount    uint16

	autoRange bool
	analogMin uint16
	analogMax uint16

	cmd    []byte
	resp   []byte
	closed bool
}

// NewSlave creates a freshly reset slave: all pins unassigned, both
// counters zero, auto-ranging enabled over the full 0..255 span.
func NewSlave() *Slave {
	return &Slave{
		autoRange: true,
		analogMax: 255,
	}
}

// SetEchoMode toggles the out-of-band echo-test mode. While enabled
// the slave answers every command word with the word itself.
func (s *Slave) SetEchoMode(on bool) {
	s.lock.Lock()
	s.echoMode = on
	s.lock.Unlock()
}

// SetPinValue drives the simulated input on a pin, e.g. a pressed
// button or a sensor level.
func (s *Slave) SetPinValue(pin uint8, v uint16) {
	s.lock.Lock()
	if pin <= wire.MaxPin {
		s.values[pin] = v
	}
	s.lock.Unlock()
}

// PinMode reports the current assignment of a pin.
func (s *Slave) PinMode(pin uint8) Mode {
	s.lock.Lock()
	defer s.lock.Unlock()
	if pin > wire.MaxPin {
		return Unassigned
	}
	return s.modes[pin]
}

// OutputValue reports the level last written to an output pin.
func (s *Slave) OutputValue(pin uint8) uint16 {
	s.lock.Lock()
	defer s.lock.Unlock()
	if pin > wire.MaxPin {
		return 0
	}
	return s.values[pin]
}

// AutoRange reports whether analog auto-ranging is enabled.
func (s *Slave) AutoRange() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.autoRange
}

// SetAnalogRange fixes the calibration bounds reported for the
// analog-range queries. Calibration itself is opaque to the host.
func (s *Slave) SetAnalogRange(min, max uint16) {
	s.lock.Lock()
	s.analogMin, s.analogMax = min, max
	s.lock.Unlock()
}

// WriteByte implements link.Bus. The second byte of each command word
// triggers execution.
func (s *Slave) WriteByte(b byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return ErrSlaveClosed
	}
	s.cmd = append(s.cmd, b)
	if len(s.cmd) < 2 {
		return nil
	}
	w := uint16(s.cmd[0]) | uint16(s.cmd[1])<<8
	s.cmd = s.cmd[:0]
	r := s.execute(w)
	s.resp = append(s.resp, byte(r), byte(r>>8))
	return nil
}

// ReadBytes implements link.Bus.
func (s *Slave) ReadBytes(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return 0, ErrSlaveClosed
	}
	n := copy(p, s.resp)
	s.resp = s.resp[n:]
	return n, nil
}

// Close implements link.Bus.
func (s *Slave) Close() error {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	return nil
}

func (s *Slave) execute(w uint16) uint16 {
	s.requestCount++
	s.loopCount++
	if s.echoMode {
		return w
	}
	word, err := wire.Decode(w)
	if err != nil {
		return statusBadCommand
	}
	switch word.Kind {
	case wire.KindPin:
		return s.executePin(word.Op, word.Pin)
	case wire.KindQuery:
		return s.executeQuery(word.Query)
	}
	// status codes are device-to-host only
	return statusBadCommand
}

func (s *Slave) executePin(op wire.Operation, pin uint8) uint16 {
	switch op {
	case wire.ReadAssignment:
		switch s.modes[pin] {
		case Unassigned:
			return wire.StatusPinUnassigned
		case Output:
			return wire.StatusPinAssignedOutput
		}
		return s.values[pin]
	case wire.ConfigureInput:
		s.modes[pin] = Input
		s.values[pin] = 0
		return uint16(pin)
	case wire.ConfigureInputPullup:
		s.modes[pin] = InputPullup
		// pulled up and inactive reads 1
		s.values[pin] = 1
		return uint16(pin)
	case wire.ConfigureAnalogInput:
		s.modes[pin] = AnalogInput
		s.values[pin] = 0
		return uint16(pin)
	case wire.ConfigureOutput:
		s.modes[pin] = Output
		s.values[pin] = 0
		return uint16(pin)
	case wire.WriteLow:
		if s.modes[pin] != Output {
			return wire.StatusPinUnassigned
		}
		s.values[pin] = 0
		return 0
	case wire.WriteHigh:
		if s.modes[pin] != Output {
			return wire.StatusPinUnassigned
		}
		s.values[pin] = 1
		return 1
	}
	return statusBadCommand
}

func (s *Slave) executeQuery(q wire.Query) uint16 {
	switch q {
	case wire.ResetRequestCount:
		s.requestCount = 0
		return 0
	case wire.RequestCount:
		return s.requestCount
	case wire.EchoTest:
		return uint16(wire.EchoTest)
	case wire.LoopCount:
		return s.loopCount
	case wire.ClearQueues:
		s.resp = s.resp[:0]
		s.cmd = s.cmd[:0]
		return 0
	case wire.AnalogRangeMin:
		return s.analogMin
	case wire.AnalogRangeMax:
		return s.analogMax
	case wire.AutoRangeOff:
		s.autoRange = false
		return 0
	case wire.AutoRangeOn:
		s.autoRange = true
		return 1
	}
	return statusBadCommand
}
