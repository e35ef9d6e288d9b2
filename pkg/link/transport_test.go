package link

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptBus records writes and replays scripted reads.
type scriptBus struct {
	written  []byte
	reads    [][]byte
	writeErr error
	readErr  error
	closes   int
}

func (b *scriptBus) WriteByte(c byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.written = append(b.written, c)
	return nil
}

func (b *scriptBus) ReadBytes(p []byte) (int, error) {
	if b.readErr != nil {
		return 0, b.readErr
	}
	if len(b.reads) == 0 {
		return 0, nil
	}
	chunk := b.reads[0]
	b.reads = b.reads[1:]
	return copy(p, chunk), nil
}

func (b *scriptBus) Close() error {
	b.closes++
	return nil
}

func TestWriteWordOrder(t *testing.T) {
	bus := &scriptBus{}
	tr := New(bus)
	require.NoError(t, tr.WriteWord(0x01a5))
	// low byte must leave first, as two separate single-byte writes
	require.Equal(t, []byte{0xa5, 0x01}, bus.written)
}

func TestReadWordLittleEndian(t *testing.T) {
	bus := &scriptBus{reads: [][]byte{{0xfa, 0x00}}}
	tr := New(bus)
	w, err := tr.ReadWord()
	require.NoError(t, err)
	require.Equal(t, uint16(0x00fa), w)
}

func TestReadWordShort(t *testing.T) {
	bus := &scriptBus{reads: [][]byte{{0x01}}}
	tr := New(bus)
	_, err := tr.ReadWord()
	te, ok := err.(*TransportError)
	require.True(t, ok, "expected *TransportError, got %T: %v", err, err)
	require.Equal(t, "read", te.Op)
	require.Equal(t, ErrShortRead, te.Err)
}

func TestReadWordFailure(t *testing.T) {
	cause := errors.New("bus fault")
	bus := &scriptBus{readErr: cause}
	tr := New(bus)
	_, err := tr.ReadWord()
	te, ok := err.(*TransportError)
	require.True(t, ok, "expected *TransportError, got %T: %v", err, err)
	require.Equal(t, cause, te.Err)
}

func TestWriteWordFailure(t *testing.T) {
	cause := errors.New("device unplugged")
	bus := &scriptBus{writeErr: cause}
	tr := New(bus)
	err := tr.WriteWord(0x0005)
	te, ok := err.(*TransportError)
	require.True(t, ok, "expected *TransportError, got %T: %v", err, err)
	require.Equal(t, "write", te.Op)
	require.Equal(t, cause, te.Err)
}

func TestExchange(t *testing.T) {
	bus := &scriptBus{reads: [][]byte{{0x05, 0x00}}}
	tr := New(bus)
	r, err := tr.Exchange(0x0085)
	require.NoError(t, err)
	require.Equal(t, []byte{0x85, 0x00}, bus.written)
	require.Equal(t, uint16(5), r)
}

func TestCloseIdempotent(t *testing.T) {
	bus := &scriptBus{}
	tr := New(bus)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	require.Equal(t, 1, bus.closes)

	require.Equal(t, ErrClosed, tr.WriteWord(0))
	_, err := tr.ReadWord()
	require.Equal(t, ErrClosed, err)
	_, err = tr.Exchange(0)
	require.Equal(t, ErrClosed, err)
}
