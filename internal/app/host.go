package app

import (
	"context"
	"sync"
	"time"
)

// FrameHandle identifies one scheduled frame callback. Zero is never issued.
type FrameHandle uint64

// FrameCallback receives a monotonic timestamp measured from the host's own
// origin.
type FrameCallback func(now time.Duration)

// FrameHost schedules one-shot frame callbacks.
type FrameHost interface {
	RequestFrame(cb FrameCallback) FrameHandle
	CancelFrame(h FrameHandle)
}

// slot holds at most one pending callback, which is all a frame driver
// keeps outstanding.
type slot struct {
	mu      sync.Mutex
	next    FrameHandle
	pending FrameHandle
	cb      FrameCallback
}

func (s *slot) request(cb FrameCallback) FrameHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending, s.cb = s.next, cb
	return s.pending
}

func (s *slot) cancel(h FrameHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == h {
		s.pending, s.cb = 0, nil
	}
}

func (s *slot) take() FrameCallback {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb := s.cb
	s.pending, s.cb = 0, nil
	return cb
}

// TickerHost fires the pending callback on every tick of a wall-clock
// ticker. Callbacks run on the goroutine calling Run.
type TickerHost struct {
	slot
	interval time.Duration
}

func NewTickerHost(interval time.Duration) *TickerHost {
	return &TickerHost{interval: interval}
}

func (h *TickerHost) RequestFrame(cb FrameCallback) FrameHandle { return h.request(cb) }
func (h *TickerHost) CancelFrame(handle FrameHandle)            { h.cancel(handle) }

// Run drives frames until ctx is done.
func (h *TickerHost) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	origin := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			if cb := h.take(); cb != nil {
				cb(t.Sub(origin))
			}
		}
	}
}

// ManualHost advances time only when told to. It drives headless runs and
// tests deterministically.
type ManualHost struct {
	slot
	now time.Duration
}

func NewManualHost() *ManualHost { return &ManualHost{} }

func (h *ManualHost) RequestFrame(cb FrameCallback) FrameHandle { return h.request(cb) }
func (h *ManualHost) CancelFrame(handle FrameHandle)            { h.cancel(handle) }

// Pending reports whether a callback is scheduled.
func (h *ManualHost) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cb != nil
}

// Advance moves the clock by dt and fires the pending callback, if any. It
// reports whether a callback ran.
func (h *ManualHost) Advance(dt time.Duration) bool {
	h.now += dt
	cb := h.take()
	if cb == nil {
		return false
	}
	cb(h.now)
	return true
}
