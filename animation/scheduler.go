package animation

import (
	"sync"
	"time"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameScheduler is the host's per-frame callback primitive.
type FrameScheduler interface {
	RequestFrame(cb func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	cb func(time.Time)
}

// FrameLoop is a FrameScheduler driven by the host calling Tick once per
// display frame. Callbacks requested during a tick run on the next tick.
type FrameLoop struct {
	mu        sync.Mutex
	nextID    FrameID
	pending   []pendingFrame
	inflight  map[FrameID]struct{}
	cancelled map[FrameID]struct{}
}

// NewFrameLoop creates an empty frame loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{
		inflight:  make(map[FrameID]struct{}),
		cancelled: make(map[FrameID]struct{}),
	}
}

// RequestFrame queues cb for the next Tick.
func (l *FrameLoop) RequestFrame(cb func(now time.Time)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending = append(l.pending, pendingFrame{id: l.nextID, cb: cb})
	return l.nextID
}

// CancelFrame drops a queued callback. Cancelling a frame that already ran
// is a no-op.
func (l *FrameLoop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.pending {
		if f.id == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
	if _, ok := l.inflight[id]; ok {
		l.cancelled[id] = struct{}{}
	}
}

// Tick runs every callback queued before this call and returns how many ran.
func (l *FrameLoop) Tick(now time.Time) int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	for _, f := range batch {
		l.inflight[f.id] = struct{}{}
	}
	l.mu.Unlock()

	ran := 0
	for _, f := range batch {
		l.mu.Lock()
		_, skip := l.cancelled[f.id]
		delete(l.cancelled, f.id)
		delete(l.inflight, f.id)
		l.mu.Unlock()
		if skip {
			continue
		}
		f.cb(now)
		ran++
	}
	return ran
}

// Pending returns the number of callbacks waiting for the next Tick.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
