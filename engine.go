// Package canvasui keeps the set of on-screen trees of a host and the state
// they share.
//
// An Engine is not safe for concurrent use. Call it from the goroutine that
// runs its scheduler, for example through sched.Loop.Post.
package canvasui

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"reflect"
	"runtime"
	"sort"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/persist"
	"github.com/agiangrant/canvasui/retained"
	"github.com/agiangrant/canvasui/sched"
	"github.com/agiangrant/canvasui/state"
	"github.com/agiangrant/canvasui/surface"
)

// Engine shows constructors as trees, one tree per constructor.
type Engine struct {
	host     surface.Host
	sched    sched.Scheduler
	settings Settings
	log      *slog.Logger
	handler  errors.Handler
	store    *state.Store
	persist  persist.Store
	trees    map[string]*retained.Tree
	closed   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSettings replaces DefaultSettings.
func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithPersist overrides window.persist_path.
func WithPersist(p persist.Store) Option {
	return func(e *Engine) { e.persist = p }
}

// WithHandler receives errors that no caller can be handed, such as a
// click handler that panics.
func WithHandler(h errors.Handler) Option {
	return func(e *Engine) { e.handler = h }
}

// New creates an engine drawing on host.
func New(host surface.Host, s sched.Scheduler, opts ...Option) (*Engine, error) {
	e := &Engine{
		host:     host,
		sched:    s,
		settings: DefaultSettings(),
		log:      slog.Default(),
		trees:    map[string]*retained.Tree{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if e.persist == nil {
		if path := e.settings.Window.PersistPath; path != "" {
			f, err := persist.OpenFile(path)
			if err != nil {
				return nil, err
			}
			e.persist = f
		} else {
			e.persist = persist.NewMemoryStore()
		}
	}
	e.store = state.NewStore(s,
		state.WithBatch(ms(e.settings.Render.BatchMS)),
		state.WithLogger(e.log),
	)
	return e, nil
}

type showConfig struct {
	key   string
	onKey func(surface.KeyEvent) bool
}

// ShowOption configures one call to Show.
type ShowOption func(*showConfig)

// WithKey names the tree instead of deriving the name from the
// constructor. Use it to show one constructor more than once.
func WithKey(key string) ShowOption {
	return func(c *showConfig) { c.key = key }
}

// WithOnKey sees the tree's key events before focus handling.
func WithOnKey(fn func(surface.KeyEvent) bool) ShowOption {
	return func(c *showConfig) { c.onKey = fn }
}

// KeyOf returns the key Show derives for ctor.
func KeyOf(ctor retained.Constructor) string {
	name := runtime.FuncForPC(reflect.ValueOf(ctor).Pointer()).Name()
	h := fnv.New64a()
	h.Write([]byte(name))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Show displays ctor. If a live tree already has its key, the tree adopts
// ctor and re-renders instead. Validation errors of a first render are
// returned and leave nothing on screen.
func (e *Engine) Show(ctor retained.Constructor, opts ...ShowOption) (*retained.Tree, error) {
	if e.closed {
		return nil, errors.ErrTreeDestroyed
	}
	cfg := showConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.key == "" {
		cfg.key = KeyOf(ctor)
	}
	if t, ok := e.trees[cfg.key]; ok {
		if !t.Hiding() {
			t.Update(ctor)
			return t, nil
		}
		// A tree on its way out is replaced, not revived.
		t.Destroy()
	}

	var t *retained.Tree
	t = retained.NewTree(e.host, e.sched, ctor, retained.Options{
		Key:      cfg.key,
		Settings: e.settings.TreeSettings(),
		Store:    e.store,
		Persist:  e.persist,
		Logger:   e.log,
		Handler:  e.handler,
		Measurer: e.settings.Measurer(),
		OnKey:    cfg.onKey,
		OnDestroy: func() {
			if e.trees[cfg.key] == t {
				delete(e.trees, cfg.key)
			}
		},
	})
	e.trees[cfg.key] = t
	if err := t.Show(); err != nil {
		t.Destroy()
		return nil, err
	}
	e.log.Debug("tree shown", "tree", cfg.key)
	return t, nil
}

// Hide removes the tree of ctor after its unmount transitions. done runs
// once the tree is gone, or at once if there is no such tree.
func (e *Engine) Hide(ctor retained.Constructor, done func()) {
	e.HideKey(KeyOf(ctor), done)
}

// HideKey is Hide for a tree shown WithKey.
func (e *Engine) HideKey(key string, done func()) {
	t, ok := e.trees[key]
	if !ok {
		if done != nil {
			done()
		}
		return
	}
	t.Hide(done)
}

// HideAll hides every tree and runs done after the last one is gone.
func (e *Engine) HideAll(done func()) {
	keys := e.Trees()
	left := len(keys)
	if left == 0 {
		if done != nil {
			done()
		}
		return
	}
	for _, key := range keys {
		e.HideKey(key, func() {
			left--
			if left == 0 && done != nil {
				done()
			}
		})
	}
}

// Tree returns the live tree with key.
func (e *Engine) Tree(key string) (*retained.Tree, bool) {
	t, ok := e.trees[key]
	return t, ok
}

// Trees returns the keys of the live trees in sorted order.
func (e *Engine) Trees() []string {
	keys := make([]string, 0, len(e.trees))
	for k := range e.trees {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// State returns the store shared by all trees.
func (e *Engine) State() *state.Store { return e.store }

// Settings returns the engine settings.
func (e *Engine) Settings() Settings { return e.settings }

// Close destroys every tree without transitions. The engine cannot show
// anything afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	for _, key := range e.Trees() {
		e.trees[key].Destroy()
	}
	e.log.Debug("engine closed")
}
