// Package sched provides the cooperative, single-threaded timer model the UI
// core runs on. Nothing here spawns work on other goroutines: callbacks run on
// whichever goroutine drives the scheduler.
package sched

import (
	"container/heap"
	"time"
)

// Handle is a scheduled callback that may be stopped before it runs.
type Handle interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer (false if it already ran or was stopped).
	Stop() bool
}

// Scheduler schedules callbacks on the UI thread.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Handle
}

// ============================================================================
// Timer heap
// ============================================================================

type timer struct {
	when    time.Time
	seq     uint64
	fn      func()
	index   int
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// queue is the deadline-ordered timer set shared by Loop and Manual.
type queue struct {
	timers timerHeap
	seq    uint64
}

func (q *queue) add(when time.Time, fn func()) *timer {
	q.seq++
	t := &timer{when: when, seq: q.seq, fn: fn}
	heap.Push(&q.timers, t)
	return t
}

// popDue removes and returns the earliest live timer due at or before now.
func (q *queue) popDue(now time.Time) *timer {
	for q.timers.Len() > 0 {
		t := q.timers[0]
		if t.stopped {
			heap.Pop(&q.timers)
			continue
		}
		if t.when.After(now) {
			return nil
		}
		heap.Pop(&q.timers)
		return t
	}
	return nil
}

// next returns the deadline of the earliest live timer.
func (q *queue) next() (time.Time, bool) {
	for q.timers.Len() > 0 {
		t := q.timers[0]
		if t.stopped {
			heap.Pop(&q.timers)
			continue
		}
		return t.when, true
	}
	return time.Time{}, false
}

func (q *queue) pending() int {
	n := 0
	for _, t := range q.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
