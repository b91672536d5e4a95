package sched

import "time"

// Manual is a Scheduler on a virtual clock. Time only moves when Advance is
// called, which makes render scheduling and animation ticks deterministic in
// tests.
type Manual struct {
	q   queue
	now time.Time
}

// NewManual returns a Manual scheduler starting at a fixed epoch.
func NewManual() *Manual {
	return &Manual{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time { return m.now }

// AfterFunc schedules fn at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	return m.q.add(m.now.Add(d), fn)
}

// Advance moves the clock forward by d, running every timer that becomes due
// in deadline order. Timers scheduled by callbacks run too if they fall inside
// the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		t := m.q.popDue(end)
		if t == nil {
			break
		}
		if t.when.After(m.now) {
			m.now = t.when
		}
		t.fired = true
		t.fn()
	}
	m.now = end
}

// Jump moves the clock without running timers, simulating a blocked thread.
func (m *Manual) Jump(d time.Duration) {
	m.now = m.now.Add(d)
}

// RunPending runs timers that are already due without moving the clock.
func (m *Manual) RunPending() {
	m.Advance(0)
}

// Pending returns the number of live timers.
func (m *Manual) Pending() int { return m.q.pending() }
