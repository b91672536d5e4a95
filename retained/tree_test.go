package retained

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/persist"
	"github.com/agiangrant/canvasui/sched"
	"github.com/agiangrant/canvasui/state"
	"github.com/agiangrant/canvasui/surface/surfacetest"
)

type harness struct {
	t     *testing.T
	tree  *Tree
	host  *surfacetest.Host
	clock *sched.Manual
	errs  []error
}

func newHarness(t *testing.T, ctor Constructor, configure ...func(*Options)) *harness {
	t.Helper()
	h := &harness{t: t, host: surfacetest.NewHost(), clock: sched.NewManual()}
	opts := Options{
		Key:     "test",
		Handler: errors.HandlerFunc(func(err error) { h.errs = append(h.errs, err) }),
	}
	for _, fn := range configure {
		fn(&opts)
	}
	h.tree = NewTree(h.host, h.clock, ctor, opts)
	return h
}

func (h *harness) show() *harness {
	h.t.Helper()
	require.NoError(h.t, h.tree.Show())
	return h
}

func (h *harness) canvas() *surfacetest.Canvas {
	h.t.Helper()
	require.NotEmpty(h.t, h.host.Canvases)
	return h.host.Canvases[0]
}

func (h *harness) node(id string) *Node {
	h.t.Helper()
	n, ok := h.tree.NodeByID(id)
	require.True(h.t, ok, "node %q", id)
	return n
}

func TestShowLaysOutFixedBox(t *testing.T) {
	h := newHarness(t, func(*BuildContext) *Node {
		return Div(Props{ID: "box", Width: Px(100), Height: Px(50)})
	}).show()

	box := h.node("box").Box()
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 100, Height: 50}, box.MarginRect)
	assert.Equal(t, KindScreen, h.tree.Root().Kind, "non-screen roots are wrapped")
	assert.Equal(t, 1, h.canvas().Frames)
	assert.Equal(t, RenderCounts{Full: 1}, h.tree.Counts())
	assert.True(t, h.tree.Renders().Idle())
}

func TestShowRejectsInvalidTrees(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Node
	}{
		{"nil child", func() *Node { return Div(Props{}, Text("a"), nil) }},
		{"td outside tr", func() *Node { return Div(Props{}, Td(Props{})) }},
		{"input without id", func() *Node { return InputText(InputProps{}) }},
		{"over-constrained horizontal", func() *Node {
			return Div(Props{Position: PositionAbsolute, Left: Float(0), Right: Float(0), Width: Px(10)})
		}},
		{"primitive outside svg", func() *Node { return Div(Props{}, Circle(1, 1, 1)) }},
		{"duplicate id", func() *Node { return Div(Props{}, Div(Props{ID: "x"}), Div(Props{ID: "x"})) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, func(*BuildContext) *Node { return tt.build() })
			err := h.tree.Show()
			require.Error(t, err)
			var ve *errors.ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
			assert.True(t, h.tree.Destroyed())
		})
	}
}

func TestInvalidRerenderKeepsPreviousFrame(t *testing.T) {
	broken := false
	h := newHarness(t, func(*BuildContext) *Node {
		if broken {
			return Div(Props{}, nil)
		}
		return Div(Props{ID: "ok", Width: Px(10), Height: Px(10)})
	}).show()

	broken = true
	h.tree.Render()

	assert.False(t, h.tree.Destroyed())
	require.Len(t, h.errs, 1)
	assert.Equal(t, errors.KindValidation, errors.KindOf(h.errs[0]))
	h.node("ok")
	assert.True(t, h.tree.Renders().Idle())
}

func TestConstructorPanicDestroysTree(t *testing.T) {
	calls := 0
	h := newHarness(t, func(*BuildContext) *Node {
		calls++
		if calls > 1 {
			panic("boom")
		}
		return Div(Props{})
	}).show()

	h.tree.Render()

	assert.True(t, h.tree.Destroyed())
	assert.True(t, h.canvas().Closed())
	require.NotEmpty(t, h.errs)
	assert.Equal(t, errors.KindPanic, errors.KindOf(h.errs[0]))
}

func TestStateRenderRebuildsSubscribers(t *testing.T) {
	clock := sched.NewManual()
	store := state.NewStore(clock)
	host := surfacetest.NewHost()

	build := func(label string) Constructor {
		return func(ctx *BuildContext) *Node {
			count, _ := UseState(ctx, "count", 0)
			return Text(label+":"+strconv.Itoa(count), Props{ID: "t", FontSize: 10})
		}
	}
	a := NewTree(host, clock, build("a"), Options{Key: "a", Store: store})
	b := NewTree(host, clock, build("b"), Options{Key: "b", Store: store})
	require.NoError(t, a.Show())
	require.NoError(t, b.Show())

	store.Set("count", 1)
	store.Set("count", 2)
	clock.Advance(5 * time.Millisecond)

	assert.Equal(t, "a:2", a.Ref("t").Text())
	assert.Equal(t, "b:2", b.Ref("t").Text())
	assert.Equal(t, 2, a.Counts().Full, "one render per wave")
	assert.Equal(t, 2, b.Counts().Full)
	assert.Equal(t, state.PhaseFree, store.Coordinator().Phase())

	b.Destroy()
	assert.Len(t, store.Subscribers("count"), 1)
}

func TestEffectsRunAfterPaintAndCleanUp(t *testing.T) {
	var log []string
	dep := 1
	h := newHarness(t, func(ctx *BuildContext) *Node {
		ctx.Effect("sync", func() func() {
			log = append(log, "run "+strconv.Itoa(dep))
			return func() { log = append(log, "cleanup "+strconv.Itoa(dep)) }
		}, dep)
		return Div(Props{})
	}).show()
	assert.Equal(t, []string{"run 1"}, log)

	h.tree.Render()
	assert.Equal(t, []string{"run 1"}, log, "same deps do not rerun")

	dep = 2
	h.tree.Render()
	assert.Equal(t, []string{"run 1", "cleanup 2", "run 2"}, log)

	h.tree.Destroy()
	assert.Equal(t, "cleanup 2", log[len(log)-1])
}

func TestDestroyIsIdempotent(t *testing.T) {
	destroyed := 0
	h := newHarness(t, func(*BuildContext) *Node { return Div(Props{}) }, func(o *Options) {
		o.OnDestroy = func() { destroyed++ }
	}).show()

	h.tree.Destroy()
	h.tree.Destroy()
	h.tree.Render()

	assert.Equal(t, 1, destroyed)
	assert.True(t, h.canvas().Closed())
	assert.ErrorIs(t, h.tree.Show(), errors.ErrTreeDestroyed)
}

func TestWindowDragPersists(t *testing.T) {
	store := persist.NewMemoryStore()
	ctor := func(*BuildContext) *Node {
		return Window(WindowProps{Props: Props{ID: "notes", Width: Px(300), Height: Px(200)}, Title: "Notes"})
	}
	h := newHarness(t, ctor, func(o *Options) { o.Persist = store }).show()
	c := h.canvas()

	c.MouseDown(60, 12)
	c.MouseMove(110, 62)
	c.MouseMove(160, 112)
	c.MouseUp(160, 112)

	assert.Equal(t, geom.Point{X: 100, Y: 100}, h.tree.Meta().Draggable("notes").Committed)
	assert.Equal(t, float32(100), h.node("notes").Box().BorderRect.X)
	assert.Empty(t, h.tree.Meta().Dragging())

	var rec WindowRecord
	ok, err := store.Get(windowKey(h.node("notes")), &rec)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 100, Y: 100}, rec.DragOffset)

	again := newHarness(t, ctor, func(o *Options) { o.Persist = store }).show()
	assert.Equal(t, float32(100), again.node("notes").Box().BorderRect.Y)
}

func TestWindowBodyDoesNotDrag(t *testing.T) {
	h := newHarness(t, func(*BuildContext) *Node {
		return Window(WindowProps{Props: Props{ID: "w", Width: Px(300), Height: Px(200)}, Title: "W"})
	}).show()
	c := h.canvas()

	c.MouseDown(150, 150)
	c.MouseMove(200, 190)
	c.MouseUp(200, 190)

	assert.Equal(t, geom.Point{}, h.tree.Meta().Draggable("w").Committed)
}

func TestWindowCloseButtonHidesTree(t *testing.T) {
	closed := 0
	h := newHarness(t, func(*BuildContext) *Node {
		return Window(WindowProps{Props: Props{ID: "w", Width: Px(300), Height: Px(200)}, Title: "W",
			OnClose: func() { closed++ }})
	}).show()

	var btn *Node
	h.tree.Root().walk(func(n *Node) bool {
		if n.closer {
			btn = n
		}
		return btn == nil
	})
	require.NotNil(t, btn)
	pos := btn.Box().BorderRect.Center()
	h.canvas().Click(pos.X, pos.Y)
	assert.Equal(t, 0, closed, "close is deferred")

	h.clock.RunPending()
	assert.Equal(t, 1, closed)
}

func TestRerenderDuringStateWaveCompletesWave(t *testing.T) {
	clock := sched.NewManual()
	store := state.NewStore(clock, state.WithBatch(time.Millisecond))
	host := surfacetest.NewHost()
	host.DeferPaint = true

	tree := NewTree(host, clock, func(ctx *BuildContext) *Node {
		n, _ := UseState(ctx, "n", 0)
		return Div(Props{ID: "box", Width: Px(float32(10 + n)), Height: Px(10)})
	}, Options{Key: "deferred", Store: store})
	require.NoError(t, tree.Show())
	host.Flush()

	width := func() float32 {
		n, ok := tree.NodeByID("box")
		require.True(t, ok)
		return n.Box().BorderRect.Width
	}

	tree.Render()
	store.Set("n", 1)
	clock.Advance(time.Millisecond)
	require.Equal(t, state.PhaseRendering, store.Coordinator().Phase())
	tree.Render()
	host.Flush()

	assert.Equal(t, state.PhaseFree, store.Coordinator().Phase())
	assert.Equal(t, uint64(1), store.Coordinator().Waves())
	assert.Equal(t, float32(11), width())

	store.Set("n", 2)
	clock.Advance(time.Millisecond)
	host.Flush()
	assert.Equal(t, float32(12), width())
	assert.Equal(t, state.PhaseFree, store.Coordinator().Phase())
}
