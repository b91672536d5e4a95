package retained

import (
	"log/slog"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/persist"
	"github.com/agiangrant/canvasui/sched"
	"github.com/agiangrant/canvasui/state"
	"github.com/agiangrant/canvasui/surface"
)

// Constructor builds the declarative tree. It is called again on every full
// render and must be a pure function of its context.
type Constructor func(ctx *BuildContext) *Node

// Options configure a Tree.
type Options struct {
	// Key identifies the tree in logs and errors.
	Key      string
	Settings Settings
	// Store is the shared state store. Nil gives the tree a private store.
	Store *state.Store
	// Persist keeps window records. Nil keeps them in memory.
	Persist persist.Store
	Logger  *slog.Logger
	// Handler receives errors that cannot be returned. Nil uses the global
	// errors handler.
	Handler errors.Handler
	// Measurer measures text for layout. Nil uses the host if it implements
	// surface.Measurer, else the built-in bitmap face.
	Measurer surface.Measurer
	// OnKey sees key events first; returning true consumes the event.
	OnKey func(surface.KeyEvent) bool
	// OnDestroy runs once after the tree is torn down.
	OnDestroy func()
}

type renderMode int

const (
	modeRepaint renderMode = iota
	modeLayout
	modeFull
)

// RenderCounts tallies completed renders by how much of the pipeline ran.
type RenderCounts struct {
	Full, Layout, Repaint int
}

// Tree owns one declarative UI: its canvas, node graph, meta state and
// render scheduling. All methods must be called from the scheduler's
// goroutine.
type Tree struct {
	key      string
	host     surface.Host
	bag      *sched.Bag
	ctor     Constructor
	opts     Options
	settings Settings
	log      *slog.Logger
	store    *state.Store
	persist  persist.Store
	measurer surface.Measurer

	canvas surface.Canvas
	screen geom.Rect
	root   *Node
	arena  *arena
	gen    uint32
	list   []*Node

	meta        *MetaState
	renders     *RenderManager
	transitions *TransitionManager

	mode          renderMode
	frameLayout   bool
	awaitingPaint bool
	renderErr     error
	counts        RenderCounts

	stateKeys     map[string]bool
	stateWaiters  []func()
	inflight      []func()
	effects       map[string]*effect
	pendingEffect []*effect

	press        *press
	hoverLit     string
	hintsVisible bool
	cursorTimer  sched.Handle
	hoverTimer   sched.Handle

	destroyed bool
	hiding    bool
}

// NewTree creates a tree. Nothing is shown until Show.
func NewTree(host surface.Host, s sched.Scheduler, ctor Constructor, opts Options) *Tree {
	t := &Tree{
		key:       opts.Key,
		host:      host,
		bag:       sched.NewBag(s),
		ctor:      ctor,
		opts:      opts,
		settings:  opts.Settings.withDefaults(),
		store:     opts.Store,
		persist:   opts.Persist,
		meta:      NewMetaState(),
		stateKeys: map[string]bool{},
		effects:   map[string]*effect{},
	}
	if t.key == "" {
		t.key = "tree"
	}
	t.log = opts.Logger
	if t.log == nil {
		t.log = slog.Default()
	}
	t.log = t.log.With(slog.String("tree", t.key))
	if t.store == nil {
		t.store = state.NewStore(s, state.WithLogger(t.log))
	}
	if t.persist == nil {
		t.persist = persist.NewMemoryStore()
	}
	m := opts.Measurer
	if m == nil {
		if hm, ok := host.(surface.Measurer); ok {
			m = hm
		} else {
			m = surface.DefaultFaceMeasurer()
		}
	}
	t.measurer = newMeasureCache(m, 1024)
	t.renders = NewRenderManager(t.bag, t.runTask, t.settings.Debounce, t.settings.Throttle, t.log)
	t.transitions = NewTransitionManager(t.bag, t, t.settings.AnimationInterval, t.log)
	return t
}

// Key returns the tree's key.
func (t *Tree) Key() string { return t.key }

// Root returns the node graph of the last successful full render.
func (t *Tree) Root() *Node { return t.root }

// Meta returns the tree's meta state.
func (t *Tree) Meta() *MetaState { return t.meta }

// Renders returns the tree's render manager.
func (t *Tree) Renders() *RenderManager { return t.renders }

// Transitions returns the tree's transition manager.
func (t *Tree) Transitions() *TransitionManager { return t.transitions }

// Counts returns how many renders of each kind completed.
func (t *Tree) Counts() RenderCounts { return t.counts }

// Destroyed reports whether the tree has been torn down.
func (t *Tree) Destroyed() bool { return t.destroyed }

// Canvas returns the tree's canvas, nil before the first render.
func (t *Tree) Canvas() surface.Canvas { return t.canvas }

// Settings returns the effective settings.
func (t *Tree) Settings() Settings { return t.settings }

// Show renders the tree for the first time, or re-renders it if it is
// already shown. A first render that fails validation tears the tree down
// and returns the error.
func (t *Tree) Show() error {
	if t.destroyed {
		return errors.ErrTreeDestroyed
	}
	if t.canvas != nil {
		t.Render()
		return nil
	}
	t.renderErr = nil
	t.renders.Queue(NewRenderTask(CauseShow))
	if err := t.renderErr; err != nil && t.root == nil {
		t.Destroy()
		return err
	}
	return nil
}

// Update replaces the constructor and re-renders.
func (t *Tree) Update(ctor Constructor) {
	t.ctor = ctor
	t.Render()
}

// Render queues a full render.
func (t *Tree) Render() {
	if t.destroyed {
		return
	}
	t.renders.Queue(t.stateTask())
}

// RequestStateRender implements state.Subscriber. done is called after the
// next full render that started after this request completes.
func (t *Tree) RequestStateRender(done func()) {
	if t.destroyed {
		done()
		return
	}
	t.stateWaiters = append(t.stateWaiters, done)
	t.renders.Queue(t.stateTask())
}

// stateTask returns a full render that takes over the pending state
// waiters when it starts. Every CauseState task carries the hand-off, so
// one replacing another under take-latest cannot strand a wave.
func (t *Tree) stateTask() *RenderTask {
	task := NewRenderTask(CauseState)
	task.OnStart = func() {
		t.inflight = append(t.inflight, t.stateWaiters...)
		t.stateWaiters = nil
	}
	task.OnEnd = t.flushInflight
	return task
}

func (t *Tree) flushInflight() {
	w := t.inflight
	t.inflight = nil
	for _, done := range w {
		done()
	}
}

func (t *Tree) queue(c Cause) {
	if t.destroyed {
		return
	}
	t.renders.Queue(NewRenderTask(c))
}

func (t *Tree) modeFor(c Cause) renderMode {
	switch c {
	case CauseShow, CauseState, CauseRefMutation, CauseDragEnd:
		return modeFull
	case CauseScroll, CauseTextMutation, CauseCursor:
		return modeLayout
	case CauseAnimationFrame:
		if t.frameLayout {
			return modeLayout
		}
		return modeRepaint
	default:
		return modeRepaint
	}
}

// runTask executes one render task for the render manager.
func (t *Tree) runTask(task *RenderTask) {
	if t.destroyed {
		t.renders.Finish()
		return
	}
	t.mode = t.modeFor(task.Cause)
	if task.Cause == CauseAnimationFrame {
		t.frameLayout = false
	}
	err := errors.Guard("render", func() error {
		switch t.mode {
		case modeFull:
			return t.rebuild()
		case modeLayout:
			return t.relayout()
		}
		return nil
	})
	if err != nil {
		t.renderFailed(err)
		t.renders.Finish()
		return
	}
	if t.canvas == nil {
		t.renders.Finish()
		return
	}
	t.awaitingPaint = true
	t.canvas.Freeze()
}

// renderFailed aborts the render. Panics are pipeline failures that destroy
// the tree; validation and measurement errors keep the previous frame.
func (t *Tree) renderFailed(err error) {
	kind := errors.KindOf(err)
	if kind == errors.KindUnknown {
		kind = errors.KindRender
	}
	err = errors.Wrap("render", kind, t.key, err)
	t.renderErr = err
	if kind == errors.KindPanic {
		t.fail(err)
		return
	}
	if t.root != nil {
		t.report(err)
	}
}

func (t *Tree) report(err error) {
	if t.opts.Handler != nil {
		t.opts.Handler.HandleError(err)
		return
	}
	errors.Report(err)
}

// fail reports err and destroys the tree.
func (t *Tree) fail(err error) {
	t.log.Error("tree failed", slog.String("err", err.Error()))
	t.report(err)
	t.Destroy()
}

// rebuild runs the full pipeline: construct, wire, transition, layout.
// Nothing visible changes unless every step succeeds.
func (t *Tree) rebuild() error {
	ctx := newBuildContext(t)
	root := t.ctor(ctx)
	if root == nil {
		return errors.Invalid("tree", "", "root", "constructor returned nil")
	}
	if root.Kind != KindScreen {
		root = Screen(ScreenProps{}, root)
	}

	t.gen++
	a := newArena(t.gen)
	t.meta.PrepareNodeTransition()
	h := &hierarchy{arena: a, ids: map[string]*Node{}, meta: t.meta}
	if err := h.init(root, nil, 0); err != nil {
		t.meta.AbortNodeTransition()
		return err
	}
	if err := t.ensureCanvas(root.screen); err != nil {
		t.meta.AbortNodeTransition()
		return err
	}
	t.restoreWindows(root)
	t.meta.cursor = t.host.MousePos()
	restore := t.transitions.Checkpoint()
	t.transitions.Apply(root)
	applyCascade(root, nil)
	if err := runLayout(root, t.layoutContext(a)); err != nil {
		restore()
		t.meta.AbortNodeTransition()
		return err
	}

	for _, w := range t.meta.CommitNodeTransition() {
		w.Close()
	}
	old := t.arena
	t.arena, t.root = a, root
	if old != nil {
		old.release()
	}
	t.list = buildRenderList(root)
	t.commitBuild(ctx)
	t.syncLoops()
	return nil
}

// relayout re-runs layout on the existing graph.
func (t *Tree) relayout() error {
	if t.root == nil {
		return nil
	}
	t.root.walk(func(n *Node) bool {
		n.box = NewBoxModel(&n.Props)
		return true
	})
	applyCascade(t.root, nil)
	if err := runLayout(t.root, t.layoutContext(t.arena)); err != nil {
		return err
	}
	t.list = buildRenderList(t.root)
	return nil
}

func (t *Tree) layoutContext(a *arena) *layoutContext {
	return &layoutContext{
		measurer: t.measurer,
		settings: &t.settings,
		meta:     t.meta,
		arena:    a,
		screen:   t.screen,
	}
}

func (t *Tree) ensureCanvas(screen int) error {
	screens := t.host.Screens()
	if len(screens) == 0 {
		return errors.Wrap("canvas", errors.KindRender, t.key, errors.ErrNoSurface)
	}
	if screen < 0 || screen >= len(screens) {
		screen = 0
	}
	rect := screens[screen]
	if t.canvas == nil {
		c, err := t.host.CreateCanvas(rect)
		if err != nil {
			return errors.Wrap("canvas", errors.KindRender, t.key, err)
		}
		c.Register(surface.Handlers{
			Draw:   t.onDraw,
			Mouse:  t.onMouse,
			Scroll: t.onScroll,
			Key:    t.onKey,
		})
		t.canvas = c
	} else if rect != t.screen {
		t.canvas.SetRect(rect)
	}
	t.screen = rect
	return nil
}

// onDraw paints the current render list. A paint in response to a render
// task completes that task.
func (t *Tree) onDraw(p surface.Painter) {
	if t.destroyed || t.root == nil {
		return
	}
	err := errors.Guard("paint", func() error {
		paintList(t.list, newPaintContext(p, t.arena, t.meta))
		t.paintHints(p)
		return nil
	})
	if err != nil {
		t.fail(errors.Wrap("paint", errors.KindPaint, t.key, err))
		return
	}
	if !t.awaitingPaint {
		return
	}
	t.awaitingPaint = false
	t.afterPaint()
	if !t.destroyed {
		t.renders.Finish()
	}
}

func (t *Tree) afterPaint() {
	switch t.mode {
	case modeFull:
		t.counts.Full++
	case modeLayout:
		t.counts.Layout++
	default:
		t.counts.Repaint++
	}
	t.syncInputs()
	t.canvas.SetInputRegions(t.inputRegions())
	if t.mode == modeFull {
		t.runEffects()
	}
}

// nodeByID resolves id against the current graph.
func (t *Tree) nodeByID(id string) (*Node, bool) {
	ref, ok := t.meta.Node(id)
	if !ok {
		return nil, false
	}
	return t.arena.get(ref)
}

// NodeByID returns the current node with id.
func (t *Tree) NodeByID(id string) (*Node, bool) { return t.nodeByID(id) }

// animationFrame implements transitionHost.
func (t *Tree) animationFrame(layout bool) {
	if t.root != nil {
		applyCascade(t.root, nil)
	}
	if layout {
		t.frameLayout = true
	}
	t.queue(CauseAnimationFrame)
}

// Hiding reports whether Hide is waiting on unmount transitions.
func (t *Tree) Hiding() bool { return t.hiding && !t.destroyed }

// Hide runs unmount transitions, then destroys the tree and calls done.
func (t *Tree) Hide(done func()) {
	finish := func() {
		t.Destroy()
		if done != nil {
			done()
		}
	}
	if t.destroyed || t.hiding {
		if done != nil {
			done()
		}
		return
	}
	t.hiding = true
	if t.root == nil || !t.transitions.Unmount(t.root, finish) {
		finish()
	}
}

// Destroy tears the tree down immediately. It is safe to call repeatedly.
func (t *Tree) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.renders.Destroy()
	t.transitions.Stop()
	t.bag.Close()
	t.store.UnsubscribeAll(t)

	waiters := append(t.inflight, t.stateWaiters...)
	t.inflight, t.stateWaiters = nil, nil
	for _, done := range waiters {
		done()
	}
	t.cleanupEffects()
	t.meta.closeInputs()
	if t.canvas != nil {
		t.canvas.Unregister()
		t.canvas.Close()
	}
	if t.arena != nil {
		t.arena.release()
	}
	t.log.Debug("tree destroyed")
	if t.opts.OnDestroy != nil {
		t.opts.OnDestroy()
	}
}

// restoreWindows loads persisted drag offsets for windows seen for the
// first time.
func (t *Tree) restoreWindows(root *Node) {
	root.walk(func(n *Node) bool {
		if n.window == nil {
			return true
		}
		if _, ok := t.meta.drags[n.ID]; ok {
			return true
		}
		var rec WindowRecord
		ok, err := t.persist.Get(windowKey(n), &rec)
		if err != nil {
			t.report(errors.Wrap("restore window", errors.KindRender, t.key, err))
			return true
		}
		if ok {
			t.meta.Draggable(n.ID).Committed = rec.DragOffset
		}
		return true
	})
}

// WindowRecord is what a window persists between shows.
type WindowRecord struct {
	Position   geom.Point `yaml:"position"`
	DragOffset geom.Point `yaml:"drag_offset"`
}

// persistWindow saves the position a window drag in progress ends at.
func (t *Tree) persistWindow(id string) {
	n, ok := t.nodeByID(id)
	if !ok || n.window == nil {
		return
	}
	d := t.meta.Draggable(id)
	rec := WindowRecord{
		Position:   n.box.MarginRect.Pos().Add(d.Live),
		DragOffset: d.Committed.Add(d.Live),
	}
	if err := t.persist.Set(windowKey(n), rec); err != nil {
		t.report(errors.Wrap("persist window", errors.KindRender, t.key, err))
	}
}
