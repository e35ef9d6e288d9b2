package master

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pimaster/ard.go/pkg/link"
	"github.com/pimaster/ard.go/pkg/run"
	"github.com/pimaster/ard.go/pkg/sim"
	"github.com/pimaster/ard.go/pkg/wire"
)

func TestCheckEcho(t *testing.T) {
	m, slave := newSimMaster()
	slave.SetEchoMode(true)
	require.NoError(t, m.CheckEcho(nil))
}

func TestCheckEchoCollectsMismatches(t *testing.T) {
	// device not in echo mode: every probe comes back wrong, and
	// every mismatch must be reported, not only the first
	bus := &scriptedBus{replies: []uint16{1, 99, 99}}
	m := New(link.New(bus))
	err := m.CheckEcho([]byte{1, 2, 3})
	errs, ok := err.(run.Errors)
	require.True(t, ok, "expected run.Errors, got %T: %v", err, err)
	require.Len(t, errs, 2)
	for _, e := range errs {
		_, ok := e.(*EchoMismatchError)
		require.True(t, ok, "expected *EchoMismatchError, got %T: %v", e, e)
	}
}

func TestBlink(t *testing.T) {
	m, slave := newSimMaster()
	require.NoError(t, m.Blink(context.Background(), 5, 3, 0))
	require.Equal(t, sim.Output, slave.PinMode(5))
	require.Equal(t, uint16(0), slave.OutputValue(5), "a blink ends dark")
}

func TestBlinkCounterMismatch(t *testing.T) {
	// scripted device: configure ok, reset ok, 2 toggles, then a
	// request counter that disagrees with 2*1+1
	bus := &scriptedBus{replies: []uint16{5, 0, 1, 0, 7}}
	m := New(link.New(bus))
	err := m.Blink(context.Background(), 5, 1, 0)
	mismatch, ok := err.(*CounterMismatchError)
	require.True(t, ok, "expected *CounterMismatchError, got %T: %v", err, err)
	require.Equal(t, uint16(3), mismatch.Expected)
	require.Equal(t, uint16(7), mismatch.Got)
}

func TestBlinkCanceled(t *testing.T) {
	m, _ := newSimMaster()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Blink(ctx, 5, 2, time.Hour)
	require.Equal(t, context.Canceled, err)
}

func TestSetup(t *testing.T) {
	m, slave := newSimMaster()
	require.NoError(t, m.Setup(DefaultBenchSetup))
	require.Equal(t, sim.Output, slave.PinMode(5))
	require.Equal(t, sim.InputPullup, slave.PinMode(6))
	require.Equal(t, sim.Input, slave.PinMode(7))
	require.Equal(t, sim.AnalogInput, slave.PinMode(8))
	require.Equal(t, sim.InputPullup, slave.PinMode(9))
}

func TestSetupCollectsRejections(t *testing.T) {
	bus := &scriptedBus{replies: []uint16{5, 255, 7}}
	m := New(link.New(bus))
	err := m.Setup([]PinSetup{
		{Pin: 5, Op: wire.ConfigureOutput},
		{Pin: 6, Op: wire.ConfigureInputPullup},
		{Pin: 7, Op: wire.ConfigureInput},
	})
	errs, ok := err.(run.Errors)
	require.True(t, ok, "expected run.Errors, got %T: %v", err, err)
	require.Len(t, errs, 1)
	rej := errs[0].(*ConfigRejectedError)
	require.Equal(t, uint8(6), rej.Pin)
	require.Equal(t, uint16(255), rej.Got)
}

func TestScan(t *testing.T) {
	m, slave := newSimMaster()
	require.NoError(t, m.Setup(DefaultBenchSetup))
	slave.SetPinValue(8, 99)

	readings, err := m.Scan(ScanCodes)
	require.NoError(t, err)
	require.Len(t, readings, len(ScanCodes))

	received := make([]uint16, len(readings))
	for i, r := range readings {
		require.Equal(t, ScanCodes[i], r.Sent)
		received[i] = r.Received
	}
	require.Equal(t, []uint16{
		wire.StatusPinUnassigned,     // pin 0 never configured
		wire.StatusPinAssignedOutput, // pin 5 is the LED output
		1,                            // pin 6 button idles high
		0,                            // pin 7 digital IR
		99,                           // pin 8 analog IR
		1,                            // pin 9 digital IR on pullup
		uint16(wire.EchoTest),
		13, // request count: 5 setups plus 8 scan exchanges
		14, // loop count advanced once more by its own read
		0, 255,
	}, received)
}
