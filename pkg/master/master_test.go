package master

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pimaster/ard.go/pkg/link"
	"github.com/pimaster/ard.go/pkg/sim"
	"github.com/pimaster/ard.go/pkg/wire"
)

// scriptedBus answers each command word with the next scripted reply,
// for driving the master off the happy path.
type scriptedBus struct {
	replies []uint16
	sent    []uint16
	wbuf    []byte
	rbuf    []byte
}

func (b *scriptedBus) WriteByte(c byte) error {
	b.wbuf = append(b.wbuf, c)
	if len(b.wbuf) < 2 {
		return nil
	}
	w := uint16(b.wbuf[0]) | uint16(b.wbuf[1])<<8
	b.wbuf = b.wbuf[:0]
	b.sent = append(b.sent, w)
	var r uint16
	if len(b.replies) > 0 {
		r = b.replies[0]
		b.replies = b.replies[1:]
	}
	b.rbuf = append(b.rbuf, byte(r), byte(r>>8))
	return nil
}

func (b *scriptedBus) ReadBytes(p []byte) (int, error) {
	n := copy(p, b.rbuf)
	b.rbuf = b.rbuf[n:]
	return n, nil
}

func (b *scriptedBus) Close() error { return nil }

// faultyBus fails every byte-level call.
type faultyBus struct {
	err error
}

func (b *faultyBus) WriteByte(byte) error          { return b.err }
func (b *faultyBus) ReadBytes([]byte) (int, error) { return 0, b.err }
func (b *faultyBus) Close() error                  { return nil }

func newSimMaster() (*Master, *sim.Slave) {
	slave := sim.NewSlave()
	return New(link.New(slave)), slave
}

func TestConfigure(t *testing.T) {
	testCases := []struct {
		op  wire.Operation
		pin uint8
	}{
		{wire.ConfigureInput, 0},
		{wire.ConfigureInput, 7},
		{wire.ConfigureInputPullup, 6},
		{wire.ConfigureAnalogInput, 8},
		{wire.ConfigureOutput, 5},
		{wire.ConfigureOutput, 31},
	}
	for _, tc := range testCases {
		m, _ := newSimMaster()
		require.NoError(t, m.Configure(tc.pin, tc.op), "%v pin %d", tc.op, tc.pin)
	}
}

func TestConfigureRejected(t *testing.T) {
	// anything other than the pin number is a rejection, boundary
	// replies included
	for _, reply := range []uint16{0, 9, 250, 255} {
		bus := &scriptedBus{replies: []uint16{reply}}
		m := New(link.New(bus))
		err := m.Configure(5, wire.ConfigureOutput)
		rej, ok := err.(*ConfigRejectedError)
		require.True(t, ok, "reply %d: expected *ConfigRejectedError, got %T: %v", reply, err, err)
		require.Equal(t, uint8(5), rej.Pin)
		require.Equal(t, reply, rej.Got)
		require.Equal(t, []uint16{133}, bus.sent, "configure-output of pin 5 must encode to 128+5")
	}
}

func TestConfigureArguments(t *testing.T) {
	m, _ := newSimMaster()
	require.Equal(t, ErrNotConfigure, m.Configure(5, wire.WriteHigh))
	require.Equal(t, wire.ErrPinRange, m.Configure(wire.MaxPin+1, wire.ConfigureInput))
}

func TestSetOutput(t *testing.T) {
	m, slave := newSimMaster()
	require.NoError(t, m.Configure(5, wire.ConfigureOutput))

	r, err := m.SetOutput(5, true)
	require.NoError(t, err)
	require.Equal(t, uint16(1), r)
	require.Equal(t, uint16(1), slave.OutputValue(5))

	r, err = m.SetOutput(5, false)
	require.NoError(t, err)
	require.Equal(t, uint16(0), r)
	require.Equal(t, uint16(0), slave.OutputValue(5))
}

func TestReadPinUnconfigured(t *testing.T) {
	m, _ := newSimMaster()
	r, err := m.ReadPin(0)
	require.NoError(t, err)
	require.Equal(t, uint16(wire.StatusPinUnassigned), r)
}

func TestReadPinIdempotent(t *testing.T) {
	m, slave := newSimMaster()
	require.NoError(t, m.Configure(8, wire.ConfigureAnalogInput))
	slave.SetPinValue(8, 142)

	first, err := m.ReadPin(8)
	require.NoError(t, err)
	second, err := m.ReadPin(8)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, uint16(142), first)
}

func TestEchoLaw(t *testing.T) {
	m, slave := newSimMaster()
	slave.SetEchoMode(true)
	for b := 0; b <= 255; b++ {
		r, err := m.Echo(byte(b))
		require.NoError(t, err, "echo of %d", b)
		require.Equal(t, uint16(b), r)
	}
}

func TestEchoMismatch(t *testing.T) {
	bus := &scriptedBus{replies: []uint16{42}}
	m := New(link.New(bus))
	r, err := m.Echo(7)
	require.Equal(t, uint16(42), r, "the raw reply is still returned")
	mismatch, ok := err.(*EchoMismatchError)
	require.True(t, ok, "expected *EchoMismatchError, got %T: %v", err, err)
	require.Equal(t, byte(7), mismatch.Sent)
	require.Equal(t, uint16(42), mismatch.Got)
}

func TestTransportFailurePropagates(t *testing.T) {
	cause := errors.New("bus fault")
	m := New(link.New(&faultyBus{err: cause}))

	_, err := m.ReadPin(5)
	te, ok := err.(*link.TransportError)
	require.True(t, ok, "expected *link.TransportError, got %T: %v", err, err)
	require.Equal(t, cause, te.Err)

	err = m.Configure(5, wire.ConfigureOutput)
	_, ok = err.(*link.TransportError)
	require.True(t, ok, "expected *link.TransportError, got %T: %v", err, err)
}

func TestQuery(t *testing.T) {
	m, _ := newSimMaster()
	r, err := m.Query(wire.ResetRequestCount)
	require.NoError(t, err)
	require.Equal(t, uint16(0), r)
	r, err = m.Query(wire.RequestCount)
	require.NoError(t, err)
	require.Equal(t, uint16(1), r, "the counter read counts itself")
}
