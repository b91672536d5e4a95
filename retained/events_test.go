package retained

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

func buttonRow(clicks *[]string) func() *Node {
	return func() *Node {
		return Div(Props{FlexDirection: FlexRow, Gap: Float(10)},
			Button("", Props{ID: "ok", Width: Px(80), Height: Px(30), OnClick: func(ev ActionEvent) {
				*clicks = append(*clicks, ev.ID)
			}}),
			Button("", Props{ID: "cancel", Width: Px(80), Height: Px(30), OnClick: func(ev ActionEvent) {
				*clicks = append(*clicks, ev.ID)
			}}),
		)
	}
}

func TestClickRequiresPressAndReleaseOnSameTarget(t *testing.T) {
	var clicks []string
	h := showNode(t, buttonRow(&clicks))
	c := h.canvas()

	c.Click(10, 10)
	c.MouseDown(10, 10)
	c.MouseUp(100, 10)
	c.Click(100, 10)

	assert.Equal(t, []string{"ok", "cancel"}, clicks)
}

func TestClickHandlerPanicDestroysOnlyThatTree(t *testing.T) {
	h := showNode(t, func() *Node {
		return Button("go", Props{ID: "go", OnClick: func(ActionEvent) { panic("handler") }})
	})
	other := showNode(t, func() *Node { return Div(Props{}) })

	pos := h.node("go").Box().BorderRect.Center()
	h.canvas().Click(pos.X, pos.Y)

	assert.True(t, h.tree.Destroyed())
	assert.False(t, other.tree.Destroyed())
	require.NotEmpty(t, h.errs)
	assert.Equal(t, errors.KindInput, errors.KindOf(h.errs[0]))
}

func TestHoverHighlightIsIdempotent(t *testing.T) {
	var clicks []string
	h := showNode(t, buttonRow(&clicks))
	c := h.canvas()
	meta := h.tree.Meta()

	c.MouseMove(10, 10)
	assert.True(t, meta.IsHighlighted("ok"))
	assert.Equal(t, "ok", meta.Hovered())
	frames := c.Frames

	c.MouseMove(12, 12)
	assert.Equal(t, frames, c.Frames, "moving within the target does not repaint")

	c.MouseMove(100, 10)
	assert.False(t, meta.IsHighlighted("ok"))
	assert.True(t, meta.IsHighlighted("cancel"))

	c.MouseMove(500, 500)
	assert.False(t, meta.IsHighlighted("cancel"))
	assert.Empty(t, meta.Hovered())
}

func TestHoverClearsWhenPointerLeavesSilently(t *testing.T) {
	var clicks []string
	h := showNode(t, buttonRow(&clicks))
	h.canvas().MouseMove(10, 10)
	require.True(t, h.tree.Meta().IsHighlighted("ok"))

	h.host.Mouse = geom.Point{X: 5000, Y: 5000}
	h.clock.Advance(h.tree.Settings().HoverCheck)

	assert.False(t, h.tree.Meta().IsHighlighted("ok"))
}

func scrollList(count *int) func() *Node {
	return func() *Node {
		items := make([]*Node, *count)
		for i := range items {
			items[i] = Div(Props{Height: Px(50)})
		}
		return Div(Props{ID: "list", Width: Px(200), Height: Px(100), Overflow: OverflowScroll}, items...)
	}
}

func TestScrollClampsAndResets(t *testing.T) {
	count := 10
	h := showNode(t, scrollList(&count))
	c := h.canvas()
	list := h.node("list")
	require.True(t, list.Box().Scroll.Active)
	assert.Equal(t, float32(-400), list.Box().ScrollRange())

	c.Scroll(10, 10, 30)
	s := h.tree.Meta().Scrollable("list")
	assert.Equal(t, float32(-30), s.Offset)
	assert.Equal(t, float32(-30), h.node("list").Children[0].Box().BorderRect.Y)

	c.Scroll(10, 10, 1000)
	h.clock.Advance(20 * time.Millisecond)
	assert.Equal(t, float32(-400), s.Offset)
	assert.False(t, s.Clamp(-400), "clamping a clamped offset is a no-op")
	assert.Equal(t, float32(-400), s.Offset)

	thumb := h.node("list").Box().Scroll.Thumb
	track := h.node("list").Box().Scroll.Track
	assert.InDelta(t, track.Bottom(), thumb.Bottom(), 0.01)

	count = 3
	h.tree.Render()
	assert.Equal(t, float32(0), h.tree.Meta().Scrollable("list").Offset, "out of range offsets reset")
}

func TestScrollSpeedMultipliesWheel(t *testing.T) {
	count := 10
	h := newHarness(t, func(*BuildContext) *Node { return scrollList(&count)() }, func(o *Options) {
		o.Settings = DefaultSettings()
		o.Settings.ScrollSpeed = 3
	}).show()

	h.canvas().Scroll(10, 10, 10)
	assert.Equal(t, float32(-30), h.tree.Meta().Scrollable("list").Offset)
}

func TestDragMovesAndCommits(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{ID: "panel", Width: Px(100), Height: Px(100), Draggable: true})
	})
	c := h.canvas()

	c.MouseDown(10, 10)
	c.MouseMove(11, 11)
	assert.Empty(t, h.tree.Meta().Dragging(), "below the threshold")

	c.MouseMove(30, 40)
	assert.Equal(t, "panel", h.tree.Meta().Dragging())
	assert.Positive(t, c.Count("translate"))

	c.MouseUp(50, 60)
	assert.Equal(t, geom.Point{X: 40, Y: 50}, h.tree.Meta().Draggable("panel").Committed)
	assert.Equal(t, geom.Point{X: 40, Y: 50}, h.node("panel").Box().BorderRect.Pos())
	assert.Zero(t, c.Count("translate"))
}

func TestKeyboardFocusCycle(t *testing.T) {
	var clicks []string
	h := showNode(t, buttonRow(&clicks))
	c := h.canvas()

	c.Key("Tab", 0)
	assert.Equal(t, "ok", h.tree.Meta().Focused())
	c.Key("Tab", 0)
	assert.Equal(t, "cancel", h.tree.Meta().Focused())
	c.Key("Tab", 0)
	assert.Equal(t, "ok", h.tree.Meta().Focused())
	c.Key("Tab", surface.ModShift)
	assert.Equal(t, "cancel", h.tree.Meta().Focused())

	c.Key("Enter", 0)
	assert.Equal(t, []string{"cancel"}, clicks)

	c.Key("Escape", 0)
	assert.Empty(t, h.tree.Meta().Focused())
}

func TestOnKeyConsumesFirst(t *testing.T) {
	var seen []string
	h := newHarness(t, func(*BuildContext) *Node {
		return Button("b", Props{ID: "b"})
	}, func(o *Options) {
		o.OnKey = func(ev surface.KeyEvent) bool {
			seen = append(seen, ev.Key)
			return ev.Key == "Tab"
		}
	}).show()

	h.canvas().Key("Tab", 0)
	assert.Equal(t, []string{"Tab"}, seen)
	assert.Empty(t, h.tree.Meta().Focused())
}

func TestInputWidgetFollowsNode(t *testing.T) {
	value := "hello"
	var changes []string
	h := showNode(t, func() *Node {
		return Div(Props{Padding: geom.Uniform(20)},
			InputText(InputProps{
				Props:       Props{ID: "name", Width: Px(150)},
				Value:       value,
				Placeholder: "Name",
				OnChange:    func(v string) { changes = append(changes, v) },
			}),
		)
	})

	require.Len(t, h.host.Inputs, 1)
	in := h.host.Inputs[0]
	assert.Equal(t, "hello", in.Value())
	assert.Equal(t, h.node("name").Box().BorderRect, in.Rect())
	assert.Equal(t, "Name", in.Style().Placeholder)

	in.Type("hello world")
	assert.Equal(t, []string{"hello world"}, changes)

	h.tree.Render()
	assert.Equal(t, "hello world", in.Value(), "an unchanged declared value keeps user edits")

	value = "reset"
	h.tree.Render()
	assert.Equal(t, "reset", in.Value())
	assert.Len(t, h.host.Inputs, 1, "the widget is reused")

	pos := h.node("name").Box().BorderRect.Center()
	h.canvas().Click(pos.X, pos.Y)
	assert.True(t, in.Focused)

	h.tree.Destroy()
	assert.True(t, in.Closed)
}

func TestRemovedInputIsClosed(t *testing.T) {
	show := true
	h := showNode(t, func() *Node {
		if !show {
			return Div(Props{})
		}
		return InputText(InputProps{Props: Props{ID: "q"}})
	})
	require.Len(t, h.host.Inputs, 1)

	show = false
	h.tree.Render()
	assert.True(t, h.host.Inputs[0].Closed)
}

func TestInputRegionsCoverInteractiveContent(t *testing.T) {
	var clicks []string
	h := showNode(t, buttonRow(&clicks))

	assert.Equal(t, []geom.Rect{
		{X: 0, Y: 0, Width: 80, Height: 30},
		{X: 90, Y: 0, Width: 80, Height: 30},
	}, h.canvas().Regions)
}

func TestInteractiveAssignsHints(t *testing.T) {
	count := 10
	h := showNode(t, func() *Node {
		return Div(Props{},
			Button("a", Props{ID: "a"}),
			Link("b", Props{ID: "b"}),
			InputText(InputProps{Props: Props{ID: "c"}}),
			scrollList(&count)(),
		)
	})

	targets := h.tree.Interactive()
	hints := map[string]string{}
	for _, tg := range targets {
		hints[tg.ID] = tg.Hint
	}
	assert.Equal(t, map[string]string{"a": "a", "b": "b", "c": "a", "list": "1"}, hints)

	h.tree.SetHintsVisible(true)
	assert.True(t, h.tree.HintsVisible())
	assert.Contains(t, h.canvas().Texts(), "1")
}

func TestHintLabels(t *testing.T) {
	assert.Nil(t, hintLabels("ab", 0))
	assert.Equal(t, []string{"a", "b"}, hintLabels("ab", 2))
	assert.Equal(t, []string{"aa", "ab", "ba"}, hintLabels("ab", 3))
	assert.Equal(t, []string{"1", "2"}, hintLabels("", 2))
}

func TestActivateAndHighlight(t *testing.T) {
	var clicks []string
	h := showNode(t, buttonRow(&clicks))

	require.NoError(t, h.tree.Activate("cancel"))
	assert.Equal(t, []string{"cancel"}, clicks)
	assert.ErrorIs(t, h.tree.Activate("missing"), errors.ErrStaleNode)

	assert.True(t, h.tree.HighlightBriefly("ok", 200*time.Millisecond))
	assert.True(t, h.tree.Meta().IsHighlighted("ok"))
	h.clock.Advance(200 * time.Millisecond)
	assert.False(t, h.tree.Meta().IsHighlighted("ok"))
}

func TestModalBackdropCloses(t *testing.T) {
	open := true
	closes := 0
	var clicks []string
	h := newHarness(t, func(*BuildContext) *Node {
		return Div(Props{},
			buttonRow(&clicks)(),
			Modal(ModalProps{Props: Props{ID: "dlg", Width: Px(200), Height: Px(100)}, Open: open,
				OnClose: func() { closes++ }}),
		)
	}).show()
	c := h.canvas()

	c.Click(10, 10)
	assert.Empty(t, clicks, "the backdrop blocks content underneath")
	h.clock.RunPending()
	assert.Equal(t, 1, closes)

	c.Key("Tab", 0)
	assert.Empty(t, h.tree.Meta().Focused(), "focus stays inside the modal")

	open = false
	h.tree.Render()
	c.Click(10, 10)
	assert.Equal(t, []string{"ok"}, clicks)
}

func TestRefMutations(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{}, Text("before", Props{ID: "label", FontSize: 10}), Div(Props{ID: "box", Width: Px(10), Height: Px(10)}))
	})
	label := h.tree.Ref("label")

	label.SetText("after!")
	assert.Equal(t, "after!", label.Text())
	assert.InDelta(t, 36, h.node("label").Box().BorderRect.Width, 0.01)
	assert.Equal(t, 1, h.tree.Counts().Layout)

	h.tree.Render()
	assert.Equal(t, "after!", label.Text(), "text overrides survive full renders")

	box := h.tree.Ref("box")
	box.Update(func(p *Props) { p.Width = Px(50) })
	box.Update(func(p *Props) { p.Height = Px(60) })
	h.clock.Advance(h.tree.Settings().Debounce)
	r, ok := box.Rect()
	require.True(t, ok)
	assert.Equal(t, geom.Size{Width: 50, Height: 60}, r.Size())
	assert.Equal(t, 3, h.tree.Counts().Full)
}

func TestRefUpdatesStayBounded(t *testing.T) {
	clicked := 0
	h := showNode(t, func() *Node {
		return Div(Props{ID: "bar", Width: Px(0), Height: Px(10), OnClick: func(ActionEvent) { clicked++ }})
	})
	bar := h.tree.Ref("bar")

	for i := 1; i <= 1000; i++ {
		bar.Update(func(p *Props) { p.Width = Px(float32(i % 200)) })
	}
	bar.Update(func(p *Props) { p.Height = Px(20) })
	h.clock.Advance(h.tree.Settings().Debounce)

	o := h.tree.Meta().overrides["bar"]
	require.NotNil(t, o)
	assert.Len(t, o.fields, 2)
	r, _ := bar.Rect()
	assert.Equal(t, geom.Size{Width: 0, Height: 20}, r.Size())

	bar.Update(func(p *Props) { p.Width = Px(40) })
	h.clock.Advance(h.tree.Settings().Debounce)
	h.canvas().Click(5, 5)
	assert.Equal(t, 1, clicked)
	assert.Len(t, o.fields, 2)
}

func TestCursorFollowsPointer(t *testing.T) {
	h := showNode(t, func() *Node {
		return Cursor(Props{ID: "cur", Width: Px(8), Height: Px(8), Left: Float(2)})
	})

	h.host.Mouse = geom.Point{X: 300, Y: 200}
	h.clock.Advance(h.tree.Settings().CursorRefresh)

	assert.Equal(t, geom.Point{X: 302, Y: 200}, h.node("cur").Box().BorderRect.Pos())
	assert.Equal(t, KindScreen, h.tree.hitTest(geom.Point{X: 303, Y: 201}).Kind, "the cursor is not hit")
}
