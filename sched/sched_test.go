package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualOrdersByDeadlineThenSequence(t *testing.T) {
	m := NewManual()
	var got []string
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)

	m.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	ran := false
	h := m.AfterFunc(time.Millisecond, func() { ran = true })
	assert.True(t, h.Stop())
	assert.False(t, h.Stop())
	m.Advance(time.Second)
	assert.False(t, ran)
	assert.Equal(t, 0, m.Pending())
}

func TestManualNestedScheduling(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	start := m.Now()
	var tick func()
	tick = func() {
		at = append(at, m.Now().Sub(start))
		if len(at) < 3 {
			m.AfterFunc(16*time.Millisecond, tick)
		}
	}
	m.AfterFunc(16*time.Millisecond, tick)
	m.Advance(100 * time.Millisecond)
	assert.Equal(t, []time.Duration{16 * time.Millisecond, 32 * time.Millisecond, 48 * time.Millisecond}, at)
}

func TestBagClose(t *testing.T) {
	m := NewManual()
	b := NewBag(m)
	count := 0
	b.AfterFunc(time.Millisecond, func() { count++ })
	b.AfterFunc(2*time.Millisecond, func() { count++ })
	require.Equal(t, 2, b.Len())

	m.Advance(time.Millisecond)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, b.Len())

	b.Close()
	b.Close()
	m.Advance(time.Second)
	assert.Equal(t, 1, count)

	h := b.AfterFunc(0, func() { count++ })
	assert.False(t, h.Stop())
	m.Advance(time.Second)
	assert.Equal(t, 1, count)
}

func TestLoopRunsPostedAndTimers(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan []string, 1)
	var got []string
	l.Post(func() {
		got = append(got, "posted")
		l.AfterFunc(5*time.Millisecond, func() {
			got = append(got, "timer")
			done <- got
			cancel()
		})
	})

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"posted", "timer"}, <-done)
}
