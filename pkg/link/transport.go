package link

import (
	"sync"

	"github.com/golang/glog"
)

// Transport frames each exchange as exactly two bytes out and two
// bytes back, little-endian, with no interpretation of the payload.
//
// The bus is half duplex: a command word must be fully written before
// the response word is read, and at most one command may be
// outstanding per handle. Exchange enforces this with an internal
// lock; callers mixing WriteWord/ReadWord directly from multiple
// goroutines get no such protection.
type Transport struct {
	bus    Bus
	lock   sync.Mutex
	closed bool
}

// New wraps a Bus. The Transport owns the handle until Close.
func New(bus Bus) *Transport {
	return &Transport{bus: bus}
}

// WriteWord transmits w as two single-byte writes, low byte first.
func (t *Transport) WriteWord(w uint16) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.writeWord(w)
}

// ReadWord receives exactly two bytes and reassembles them low byte
// first. A short read is a transport failure, never zero-filled.
func (t *Transport) ReadWord() (uint16, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.readWord()
}

// Exchange performs one write-then-read round trip as a single
// critical section.
func (t *Transport) Exchange(w uint16) (uint16, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if err := t.writeWord(w); err != nil {
		return 0, err
	}
	return t.readWord()
}

// Close discards the handle. Closing twice is a no-op.
func (t *Transport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.bus.Close()
}

func (t *Transport) writeWord(w uint16) error {
	if t.closed {
		return ErrClosed
	}
	for _, b := range [2]byte{byte(w), byte(w >> 8)} {
		if err := t.bus.WriteByte(b); err != nil {
			return &TransportError{Op: "write", Err: err}
		}
	}
	if glog.V(4) {
		glog.Infof("SND %#04x", w)
	}
	return nil
}

func (t *Transport) readWord() (uint16, error) {
	if t.closed {
		return 0, ErrClosed
	}
	var buf [2]byte
	n, err := t.bus.ReadBytes(buf[:])
	if err != nil {
		return 0, &TransportError{Op: "read", Err: err}
	}
	if n != len(buf) {
		return 0, &TransportError{Op: "read", Err: ErrShortRead}
	}
	w := uint16(buf[0]) | uint16(buf[1])<<8
	if glog.V(4) {
		glog.Infof("RCV %#04x", w)
	}
	return w, nil
}
