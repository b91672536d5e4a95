package retained

import (
	"log/slog"
	"reflect"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/state"
)

// BuildContext is handed to a constructor on every full render. Reading
// state through it subscribes the tree to that key.
type BuildContext struct {
	tree    *Tree
	keys    map[string]bool
	effects []*effect
}

func newBuildContext(t *Tree) *BuildContext {
	return &BuildContext{tree: t, keys: map[string]bool{}}
}

// Store returns the state store the tree is attached to.
func (c *BuildContext) Store() *state.Store { return c.tree.store }

// Settings returns the tree's settings.
func (c *BuildContext) Settings() Settings { return c.tree.settings }

// Logger returns the tree's logger.
func (c *BuildContext) Logger() *slog.Logger { return c.tree.log }

// State returns the active value of key, initializing it to initial, and
// subscribes the tree to key.
func (c *BuildContext) State(key string, initial any) any {
	c.keys[key] = true
	return c.tree.store.Use(key, initial)
}

// SetState schedules key to become v.
func (c *BuildContext) SetState(key string, v any) { c.tree.store.Set(key, v) }

// UpdateState schedules fn to be applied to key.
func (c *BuildContext) UpdateState(key string, fn func(prev any) any) {
	c.tree.store.Update(key, fn)
}

// UseState is the typed form of State. It returns the value and a setter.
func UseState[T any](c *BuildContext, key string, initial T) (T, func(T)) {
	v, _ := c.State(key, initial).(T)
	return v, func(next T) { c.SetState(key, next) }
}

// Effect registers fn to run after the render is painted whenever deps
// differ from the previous render's deps. The function fn returns, if not
// nil, runs before the next run and when the tree is destroyed.
func (c *BuildContext) Effect(key string, fn func() func(), deps ...any) {
	c.effects = append(c.effects, &effect{key: key, fn: fn, deps: deps})
}

type effect struct {
	key     string
	fn      func() func()
	deps    []any
	cleanup func()
}

// commitBuild diffs state subscriptions and stages changed effects.
func (t *Tree) commitBuild(c *BuildContext) {
	for key := range t.stateKeys {
		if !c.keys[key] {
			t.store.Unsubscribe(key, t)
		}
	}
	for key := range c.keys {
		if !t.stateKeys[key] {
			t.store.Subscribe(key, t)
		}
	}
	t.stateKeys = c.keys

	seen := map[string]bool{}
	for _, e := range c.effects {
		seen[e.key] = true
		prev, ok := t.effects[e.key]
		if ok && reflect.DeepEqual(prev.deps, e.deps) {
			continue
		}
		if ok {
			e.cleanup = prev.cleanup
		}
		t.effects[e.key] = e
		t.pendingEffect = append(t.pendingEffect, e)
	}
	for key, e := range t.effects {
		if !seen[key] {
			t.runCleanup(e)
			delete(t.effects, key)
		}
	}
}

// runEffects runs staged effects once their render is on screen.
func (t *Tree) runEffects() {
	pending := t.pendingEffect
	t.pendingEffect = nil
	for _, e := range pending {
		if t.destroyed {
			return
		}
		t.runCleanup(e)
		err := errors.Guard("effect "+e.key, func() error {
			e.cleanup = e.fn()
			return nil
		})
		if err != nil {
			t.report(errors.Wrap("effect", errors.KindPanic, t.key, err))
		}
	}
}

func (t *Tree) runCleanup(e *effect) {
	fn := e.cleanup
	e.cleanup = nil
	if fn == nil {
		return
	}
	if err := errors.Guard("effect cleanup "+e.key, func() error { fn(); return nil }); err != nil {
		t.report(errors.Wrap("effect", errors.KindPanic, t.key, err))
	}
}

func (t *Tree) cleanupEffects() {
	for key, e := range t.effects {
		t.runCleanup(e)
		delete(t.effects, key)
	}
	t.pendingEffect = nil
}
