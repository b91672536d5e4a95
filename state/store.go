// Package state is the reactive store shared by every tree of an engine.
// Writes are batched and activated once per render wave, so all trees that
// read a key render exactly once per wave and see the same values.
package state

import (
	"log/slog"
	"time"

	"github.com/agiangrant/canvasui/sched"
)

// Subscriber is notified when keys it reads change. Trees implement it.
type Subscriber interface {
	// RequestStateRender schedules a render and calls done when a render
	// that reflects the current values has completed (or the subscriber
	// was destroyed).
	RequestStateRender(done func())
}

// cell holds one key. Updates that arrive while a wave renders go to next
// and are carried into the following wave.
type cell struct {
	value   any
	set     bool
	pending []func(any) any
	next    []func(any) any
}

// Store is a key/value store with render coordination.
type Store struct {
	coord *Coordinator
	cells map[string]*cell
	subs  map[string][]Subscriber
	log   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBatch sets how long writes are collected before a wave starts.
func WithBatch(d time.Duration) Option {
	return func(s *Store) { s.coord.batch = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
		s.coord.log = l
	}
}

// NewStore returns an empty store driven by scheduler sc.
func NewStore(sc sched.Scheduler, opts ...Option) *Store {
	s := &Store{
		cells: map[string]*cell{},
		subs:  map[string][]Subscriber{},
		log:   slog.Default(),
	}
	s.coord = newCoordinator(s, sc, s.log)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Coordinator returns the store's render coordinator.
func (s *Store) Coordinator() *Coordinator { return s.coord }

// Get returns the active value of key.
func (s *Store) Get(key string) (any, bool) {
	c, ok := s.cells[key]
	if !ok || !c.set {
		return nil, false
	}
	return c.value, true
}

// Use returns the active value of key, initializing it to initial if the
// key has never been set.
func (s *Store) Use(key string, initial any) any {
	c, ok := s.cells[key]
	if !ok {
		c = &cell{}
		s.cells[key] = c
	}
	if !c.set {
		c.value, c.set = initial, true
	}
	return c.value
}

// Set schedules key to become v.
func (s *Store) Set(key string, v any) {
	s.Update(key, func(any) any { return v })
}

// Update schedules fn to be applied to the value of key. Updates are
// applied in order when the next wave activates them.
func (s *Store) Update(key string, fn func(prev any) any) {
	c, ok := s.cells[key]
	if !ok {
		c = &cell{}
		s.cells[key] = c
	}
	if s.coord.busy() {
		c.next = append(c.next, fn)
	} else {
		c.pending = append(c.pending, fn)
	}
	s.coord.markDirty(key)
}

// Subscribe registers sub for changes of key. Repeated calls are no-ops.
func (s *Store) Subscribe(key string, sub Subscriber) {
	for _, existing := range s.subs[key] {
		if existing == sub {
			return
		}
	}
	s.subs[key] = append(s.subs[key], sub)
}

// Unsubscribe removes sub from key.
func (s *Store) Unsubscribe(key string, sub Subscriber) {
	list := s.subs[key]
	for i, existing := range list {
		if existing == sub {
			s.subs[key] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(s.subs[key]) == 0 {
		delete(s.subs, key)
	}
}

// UnsubscribeAll removes sub from every key.
func (s *Store) UnsubscribeAll(sub Subscriber) {
	for key := range s.subs {
		s.Unsubscribe(key, sub)
	}
}

// Subscribers returns the subscribers of key.
func (s *Store) Subscribers(key string) []Subscriber {
	return s.subs[key]
}

// activate applies the pending updates of keys.
func (s *Store) activate(keys []string) {
	for _, key := range keys {
		c, ok := s.cells[key]
		if !ok {
			continue
		}
		for _, fn := range c.pending {
			c.value = fn(c.value)
			c.set = true
		}
		c.pending = nil
	}
}

// promote moves carried-over updates into the pending buffer.
func (s *Store) promote(keys []string) {
	for _, key := range keys {
		if c, ok := s.cells[key]; ok {
			c.pending = append(c.pending, c.next...)
			c.next = nil
		}
	}
}

// Get returns the value of key as T. It reports false if the key is unset
// or holds another type.
func Get[T any](s *Store, key string) (T, bool) {
	v, ok := s.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
