package sched

import (
	"context"
	"sync"
	"time"
)

// Loop is a single-threaded event loop backed by the wall clock. Timers and
// posted functions all run on the goroutine that calls Run.
type Loop struct {
	q queue

	mu     sync.Mutex
	posted []func()
	wake   chan struct{}
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time { return time.Now() }

// AfterFunc schedules fn after d. It must be called from the loop goroutine;
// other goroutines use Post.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	return l.q.add(time.Now().Add(d), fn)
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine and is how host callbacks enter the UI thread.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted functions and due timers until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	idle := time.NewTimer(time.Hour)
	defer idle.Stop()
	for {
		l.drainPosted()
		now := time.Now()
		for t := l.q.popDue(now); t != nil; t = l.q.popDue(now) {
			t.fired = true
			t.fn()
			l.drainPosted()
		}

		wait := time.Hour
		if when, ok := l.q.next(); ok {
			wait = time.Until(when)
			if wait < 0 {
				wait = 0
			}
		}
		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-idle.C:
		}
	}
}

func (l *Loop) drainPosted() {
	for {
		l.mu.Lock()
		fns := l.posted
		l.posted = nil
		l.mu.Unlock()
		if len(fns) == 0 {
			return
		}
		for _, fn := range fns {
			fn()
		}
	}
}
