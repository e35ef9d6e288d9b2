package master

import (
	"context"
	"time"

	"github.com/pimaster/ard.go/pkg/run"
	"github.com/pimaster/ard.go/pkg/wire"
)

// EchoProbes is the default probe set for CheckEcho, covering zero,
// range edges and both bytes of interest near the top of the domain.
var EchoProbes = []byte{0, 1, 2, 4, 32, 63, 64, 127, 128, 228, 254, 255}

// CheckEcho sends each probe byte and verifies it comes back
// unchanged. The device must have been placed in echo mode out of
// band. Mismatches are collected so one bad byte does not hide the
// rest; a transport failure ends the sweep immediately.
func (m *Master) CheckEcho(probes []byte) error {
	if len(probes) == 0 {
		probes = EchoProbes
	}
	var errs run.Errors
	for _, b := range probes {
		if _, err := m.Echo(b); err != nil {
			if _, ok := err.(*EchoMismatchError); !ok {
				return err
			}
			errs = errs.Append(err)
		}
	}
	return errs.Err()
}

// Blink exercises an LED wired to an output pin: configure the pin,
// reset the device request counter, then run count on/off cycles.
// Afterwards the request counter must have seen exactly 2*count+1
// requests — the toggles plus the counter read itself.
func (m *Master) Blink(ctx context.Context, pin uint8, count int, interval time.Duration) error {
	if err := m.Configure(pin, wire.ConfigureOutput); err != nil {
		return err
	}
	if _, err := m.Query(wire.ResetRequestCount); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		for _, high := range []bool{true, false} {
			if _, err := m.SetOutput(pin, high); err != nil {
				return err
			}
			if interval > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(interval):
				}
			}
		}
	}
	expected := uint16(2*count + 1)
	got, err := m.Query(wire.RequestCount)
	if err != nil {
		return err
	}
	if got != expected {
		return &CounterMismatchError{Expected: expected, Got: got}
	}
	return nil
}

// PinSetup assigns one pin mode.
type PinSetup struct {
	Pin uint8
	Op  wire.Operation
}

// DefaultBenchSetup mirrors the reference bench: an LED on pin 5, a
// push button on pin 6, digital IR sensors on pins 7 and 9 and an
// analog IR sensor on pin 8.
var DefaultBenchSetup = []PinSetup{
	{Pin: 5, Op: wire.ConfigureOutput},
	{Pin: 6, Op: wire.ConfigureInputPullup},
	{Pin: 7, Op: wire.ConfigureInput},
	{Pin: 8, Op: wire.ConfigureAnalogInput},
	{Pin: 9, Op: wire.ConfigureInputPullup},
}

// Setup applies pin assignments in order, collecting rejections.
// Transport failures end the run immediately. An empty list applies
// DefaultBenchSetup.
func (m *Master) Setup(setups []PinSetup) error {
	if len(setups) == 0 {
		setups = DefaultBenchSetup
	}
	var errs run.Errors
	for _, s := range setups {
		if err := m.Configure(s.Pin, s.Op); err != nil {
			if _, ok := err.(*ConfigRejectedError); !ok {
				return err
			}
			errs = errs.Append(err)
		}
	}
	return errs.Err()
}

// ScanCodes is the probe sequence of the reference configuration
// check: the bench pins plus counters and analog range queries.
var ScanCodes = []uint16{
	0, 5, 6, 7, 8, 9,
	uint16(wire.EchoTest),
	uint16(wire.RequestCount),
	uint16(wire.LoopCount),
	uint16(wire.AnalogRangeMin),
	uint16(wire.AnalogRangeMax),
}

// Reading pairs a wire value sent verbatim with the response received.
type Reading struct {
	Sent     uint16
	Received uint16
}

// Scan exchanges each code verbatim and returns the readings. An
// empty list probes ScanCodes.
func (m *Master) Scan(codes []uint16) ([]Reading, error) {
	if len(codes) == 0 {
		codes = ScanCodes
	}
	readings := make([]Reading, 0, len(codes))
	for _, w := range codes {
		r, err := m.exchange(w)
		if err != nil {
			return readings, err
		}
		readings = append(readings, Reading{Sent: w, Received: r})
	}
	return readings, nil
}
