package sched

import "time"

// Bag owns every timer a component schedules so they can all be stopped in
// one place on teardown. Once closed, new timers are stopped as soon as they
// are added.
type Bag struct {
	s       Scheduler
	handles map[Handle]struct{}
	closed  bool
}

// NewBag creates a bag scheduling through s.
func NewBag(s Scheduler) *Bag {
	return &Bag{s: s, handles: make(map[Handle]struct{})}
}

// Scheduler returns the underlying scheduler.
func (b *Bag) Scheduler() Scheduler { return b.s }

// Now returns the scheduler time.
func (b *Bag) Now() time.Time { return b.s.Now() }

// AfterFunc schedules fn and tracks the handle. The handle is forgotten once
// fn runs.
func (b *Bag) AfterFunc(d time.Duration, fn func()) Handle {
	if b.closed {
		return stoppedHandle{}
	}
	var h Handle
	h = b.s.AfterFunc(d, func() {
		delete(b.handles, h)
		fn()
	})
	b.handles[h] = struct{}{}
	return h
}

// Stop stops h and forgets it.
func (b *Bag) Stop(h Handle) bool {
	if h == nil {
		return false
	}
	delete(b.handles, h)
	return h.Stop()
}

// Len returns the number of outstanding timers.
func (b *Bag) Len() int { return len(b.handles) }

// Closed reports whether Close has been called.
func (b *Bag) Closed() bool { return b.closed }

// Close stops every outstanding timer. Subsequent calls do nothing.
func (b *Bag) Close() {
	if b.closed {
		return
	}
	b.closed = true
	for h := range b.handles {
		h.Stop()
	}
	b.handles = nil
}

type stoppedHandle struct{}

func (stoppedHandle) Stop() bool { return false }
