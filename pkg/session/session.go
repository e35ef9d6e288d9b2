// Package session drives a periodic polling loop against a configured
// slave and hands readings to a publisher.
package session

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/pimaster/ard.go/pkg/master"
)

// Publisher consumes pin readings produced by a session.
type Publisher interface {
	PublishReading(pin uint8, value uint16) error
}

// PublishFunc is the func form of Publisher.
type PublishFunc func(pin uint8, value uint16) error

// PublishReading implements Publisher.
func (f PublishFunc) PublishReading(pin uint8, value uint16) error {
	return f(pin, value)
}

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = time.Second

// Session polls a set of pins on an interval. The loop keeps its own
// request counter as explicit local state, used purely for log
// correlation; the device's request counter is protocol state and
// stays untouched.
type Session struct {
	Master    *master.Master
	Pins      []uint8
	Interval  time.Duration
	Publisher Publisher // optional
}

// New creates a session polling the given pins at DefaultInterval.
func New(m *master.Master, pins []uint8) *Session {
	return &Session{Master: m, Pins: pins, Interval: DefaultInterval}
}

// Run implements run.Runnable: poll until the context is canceled.
// A failed exchange aborts the session — retry policy belongs to the
// caller, never to this loop.
func (s *Session) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	var requests uint64
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.poll(&requests); err != nil {
				return err
			}
		}
	}
}

func (s *Session) poll(requests *uint64) error {
	for _, pin := range s.Pins {
		*requests++
		v, err := s.Master.ReadPin(pin)
		if err != nil {
			return err
		}
		if glog.V(1) {
			glog.Infof("[%04d] pin %d = %d", *requests, pin, v)
		}
		if s.Publisher == nil {
			continue
		}
		// telemetry is best effort, the poll goes on
		if err := s.Publisher.PublishReading(pin, v); err != nil {
			glog.Warningf("publish pin %d: %v", pin, err)
		}
	}
	return nil
}
