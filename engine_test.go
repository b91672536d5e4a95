package canvasui

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/retained"
	"github.com/agiangrant/canvasui/sched"
	"github.com/agiangrant/canvasui/surface/surfacetest"
)

func newEngine(t *testing.T, opts ...Option) (*Engine, *surfacetest.Host, *sched.Manual) {
	t.Helper()
	host := surfacetest.NewHost()
	clock := sched.NewManual()
	e, err := New(host, clock, opts...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, host, clock
}

func counter(ctx *retained.BuildContext) *retained.Node {
	count, _ := retained.UseState(ctx, "count", 0)
	return retained.Text("count:"+strconv.Itoa(count), retained.Props{ID: "label", FontSize: 10})
}

func panel(*retained.BuildContext) *retained.Node {
	return retained.Div(retained.Props{ID: "panel", Width: retained.Px(100), Height: retained.Px(40)})
}

func TestKeyOfIsStablePerConstructor(t *testing.T) {
	assert.Equal(t, KeyOf(counter), KeyOf(counter))
	assert.NotEqual(t, KeyOf(counter), KeyOf(panel))
	assert.Len(t, KeyOf(panel), 16)
}

func TestShowUpdatesExistingTree(t *testing.T) {
	e, host, _ := newEngine(t)

	first, err := e.Show(counter)
	require.NoError(t, err)
	second, err := e.Show(counter)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, host.Canvases, 1)
	assert.Equal(t, 2, first.Counts().Full)
	assert.Equal(t, []string{KeyOf(counter)}, e.Trees())
}

func TestShowWithKeyShowsConstructorTwice(t *testing.T) {
	e, host, _ := newEngine(t)

	_, err := e.Show(panel, WithKey("left"))
	require.NoError(t, err)
	_, err = e.Show(panel, WithKey("right"))
	require.NoError(t, err)

	assert.Equal(t, []string{"left", "right"}, e.Trees())
	assert.Len(t, host.Open(), 2)
	tree, ok := e.Tree("left")
	require.True(t, ok)
	assert.Equal(t, "left", tree.Key())
}

func TestShowReturnsValidationErrors(t *testing.T) {
	e, host, _ := newEngine(t)

	_, err := e.Show(func(*retained.BuildContext) *retained.Node {
		return retained.InputText(retained.InputProps{})
	}, WithKey("bad"))

	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Empty(t, e.Trees())
	assert.Empty(t, host.Open())
}

func TestTreesShareEngineState(t *testing.T) {
	e, _, clock := newEngine(t)
	a, err := e.Show(counter, WithKey("a"))
	require.NoError(t, err)
	b, err := e.Show(counter, WithKey("b"))
	require.NoError(t, err)

	e.State().Set("count", 7)
	clock.Advance(10 * time.Millisecond)

	assert.Equal(t, "count:7", a.Ref("label").Text())
	assert.Equal(t, "count:7", b.Ref("label").Text())
}

func TestHideAll(t *testing.T) {
	e, host, _ := newEngine(t)
	_, err := e.Show(panel)
	require.NoError(t, err)
	_, err = e.Show(counter)
	require.NoError(t, err)

	calls := 0
	e.HideAll(func() { calls++ })

	assert.Equal(t, 1, calls)
	assert.Empty(t, e.Trees())
	assert.Empty(t, host.Open())

	e.Hide(panel, func() { calls++ })
	assert.Equal(t, 2, calls, "hiding nothing finishes at once")
}

func TestCloseStopsEngine(t *testing.T) {
	e, host, _ := newEngine(t)
	tree, err := e.Show(panel)
	require.NoError(t, err)

	e.Close()
	assert.True(t, tree.Destroyed())
	assert.Empty(t, host.Open())

	_, err = e.Show(panel)
	assert.ErrorIs(t, err, errors.ErrTreeDestroyed)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.Scroll.Speed = 0
	_, err := New(surfacetest.NewHost(), sched.NewManual(), WithSettings(s))
	assert.ErrorContains(t, err, "scroll.speed")
}

func TestWindowPositionsPersistToFile(t *testing.T) {
	s := DefaultSettings()
	s.Window.PersistPath = filepath.Join(t.TempDir(), "windows.yaml")
	e, host, _ := newEngine(t, WithSettings(s))

	_, err := e.Show(func(*retained.BuildContext) *retained.Node {
		return retained.Window(retained.WindowProps{
			Props: retained.Props{ID: "notes", Width: retained.Px(300), Height: retained.Px(200)},
			Title: "Notes",
		})
	})
	require.NoError(t, err)

	c := host.Canvases[0]
	c.MouseDown(60, 12)
	c.MouseMove(80, 32)
	c.MouseUp(80, 32)

	raw, err := os.ReadFile(s.Window.PersistPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "drag_offset")
}
