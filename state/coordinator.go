package state

import (
	"log/slog"
	"sort"
	"time"

	"github.com/agiangrant/canvasui/sched"
)

// Phase is the coordinator's position in a render wave.
type Phase int

const (
	// PhaseFree means no writes are waiting.
	PhaseFree Phase = iota
	// PhaseBatch collects writes before a wave.
	PhaseBatch
	// PhaseRequestRender activates values and asks subscribers to render.
	PhaseRequestRender
	// PhaseRendering waits for every asked subscriber to finish.
	PhaseRendering
)

func (p Phase) String() string {
	switch p {
	case PhaseFree:
		return "free"
	case PhaseBatch:
		return "batch"
	case PhaseRequestRender:
		return "request_render"
	case PhaseRendering:
		return "rendering"
	}
	return "unknown"
}

// DefaultBatch is how long writes are collected before a wave.
const DefaultBatch = time.Millisecond

// Coordinator batches state writes into waves. A wave activates the
// pending values of all dirty keys at once, asks each affected subscriber
// for exactly one render, and waits for all of them before the next wave.
type Coordinator struct {
	store *Store
	sched sched.Scheduler
	log   *slog.Logger
	batch time.Duration

	phase   Phase
	dirty   map[string]struct{}
	carry   map[string]struct{}
	waiting int
	waves   uint64
}

func newCoordinator(s *Store, sc sched.Scheduler, log *slog.Logger) *Coordinator {
	return &Coordinator{
		store: s,
		sched: sc,
		log:   log,
		batch: DefaultBatch,
		dirty: map[string]struct{}{},
		carry: map[string]struct{}{},
	}
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase { return c.phase }

// Waves returns how many waves have completed.
func (c *Coordinator) Waves() uint64 { return c.waves }

func (c *Coordinator) busy() bool {
	return c.phase == PhaseRequestRender || c.phase == PhaseRendering
}

func (c *Coordinator) markDirty(key string) {
	if c.busy() {
		c.carry[key] = struct{}{}
		return
	}
	c.dirty[key] = struct{}{}
	if c.phase == PhaseFree {
		c.phase = PhaseBatch
		c.sched.AfterFunc(c.batch, c.flush)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Coordinator) flush() {
	c.phase = PhaseRequestRender
	keys := sortedKeys(c.dirty)
	c.dirty = map[string]struct{}{}
	c.store.activate(keys)

	var affected []Subscriber
	seen := map[Subscriber]bool{}
	for _, key := range keys {
		for _, sub := range c.store.subs[key] {
			if !seen[sub] {
				seen[sub] = true
				affected = append(affected, sub)
			}
		}
	}
	c.log.Debug("state wave", slog.Int("keys", len(keys)), slog.Int("subscribers", len(affected)))

	c.phase = PhaseRendering
	// One extra count is held until every request has been issued, so a
	// subscriber that renders synchronously cannot end the wave early.
	c.waiting = len(affected) + 1
	for _, sub := range affected {
		sub.RequestStateRender(c.doneOnce())
	}
	c.done()
}

func (c *Coordinator) doneOnce() func() {
	called := false
	return func() {
		if called {
			return
		}
		called = true
		c.done()
	}
}

func (c *Coordinator) done() {
	c.waiting--
	if c.waiting > 0 {
		return
	}
	c.waves++
	c.phase = PhaseFree
	if len(c.carry) == 0 {
		return
	}
	keys := sortedKeys(c.carry)
	c.carry = map[string]struct{}{}
	c.store.promote(keys)
	for _, key := range keys {
		c.markDirty(key)
	}
}
