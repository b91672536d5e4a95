package retained

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
)

func showNode(t *testing.T, n func() *Node) *harness {
	t.Helper()
	return newHarness(t, func(*BuildContext) *Node { return n() }).show()
}

func TestBoxModelNesting(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{
			ID:      "box",
			Width:   Px(100),
			Height:  Px(60),
			Margin:  geom.Uniform(5),
			Border:  geom.Uniform(2),
			Padding: geom.Uniform(3),
		})
	})

	b := h.node("box").Box()
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 110, Height: 70}, b.MarginRect)
	assert.Equal(t, geom.Rect{X: 5, Y: 5, Width: 100, Height: 60}, b.BorderRect)
	assert.Equal(t, geom.Rect{X: 7, Y: 7, Width: 96, Height: 56}, b.PaddingRect)
	assert.Equal(t, geom.Rect{X: 10, Y: 10, Width: 90, Height: 50}, b.ContentRect)
	assert.True(t, b.MarginRect.ContainsRect(b.BorderRect))
	assert.True(t, b.BorderRect.ContainsRect(b.PaddingRect))
	assert.True(t, b.PaddingRect.ContainsRect(b.ContentRect))
}

func TestFlexDistributesRemainingSpace(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{ID: "row", FlexDirection: FlexRow, Width: Px(400), Height: Px(50)},
			Div(Props{ID: "a", Flex: 1}),
			Div(Props{ID: "b", Flex: 1}),
			Div(Props{ID: "c", Flex: 2}),
		)
	})

	want := []geom.Rect{
		{X: 0, Y: 0, Width: 100, Height: 50},
		{X: 100, Y: 0, Width: 100, Height: 50},
		{X: 200, Y: 0, Width: 200, Height: 50},
	}
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, want[i], h.node(id).Box().BorderRect, id)
	}
}

func TestJustifySpaceBetween(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{FlexDirection: FlexRow, JustifyContent: JustifyBetween, Width: Px(300), Height: Px(20)},
			Div(Props{ID: "a", Width: Px(50), Height: Px(20)}),
			Div(Props{ID: "b", Width: Px(50), Height: Px(20)}),
			Div(Props{ID: "c", Width: Px(50), Height: Px(20)}),
		)
	})

	assert.Equal(t, float32(0), h.node("a").Box().BorderRect.X)
	assert.Equal(t, float32(125), h.node("b").Box().BorderRect.X)
	assert.Equal(t, float32(250), h.node("c").Box().BorderRect.X)
}

func TestJustifyAndAlignCenter(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{
			FlexDirection:  FlexRow,
			JustifyContent: JustifyCenter,
			AlignItems:     AlignCenter,
			Width:          Px(200),
			Height:         Px(100),
		}, Div(Props{ID: "dot", Width: Px(20), Height: Px(10)}))
	})

	assert.Equal(t, geom.Rect{X: 90, Y: 45, Width: 20, Height: 10}, h.node("dot").Box().BorderRect)
}

func TestGapAndImplicitTextGap(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{},
			Div(Props{ID: "col"},
				Text("ab", Props{ID: "t1", FontSize: 10}),
				Text("cd", Props{ID: "t2", FontSize: 10}),
			),
			Div(Props{ID: "gapped", Gap: Float(4)},
				Text("ab", Props{ID: "g1", FontSize: 10}),
				Text("cd", Props{ID: "g2", FontSize: 10}),
			),
		)
	})

	assert.InDelta(t, 12+16, h.node("t2").Box().BorderRect.Y, 0.01)
	g1 := h.node("g1").Box().BorderRect
	assert.InDelta(t, g1.Bottom()+4, h.node("g2").Box().BorderRect.Y, 0.01)
	assert.InDelta(t, 12, g1.Width, 0.01)
}

func TestPercentAndMinMax(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{Width: Px(400), Height: Px(100), FlexDirection: FlexRow},
			Div(Props{ID: "half", Width: Percent(50)}),
			Div(Props{ID: "capped", Flex: 1, MaxWidth: 80}),
		)
	})

	assert.Equal(t, float32(200), h.node("half").Box().BorderRect.Width)
	assert.Equal(t, float32(80), h.node("capped").Box().BorderRect.Width)
	assert.Equal(t, float32(200), h.node("capped").Box().BorderRect.X)
}

func TestTextWraps(t *testing.T) {
	h := showNode(t, func() *Node {
		return Text("aa bb cc", Props{ID: "w", FontSize: 10, Width: Px(31)})
	})

	assert.InDelta(t, 24, h.node("w").Box().BorderRect.Height, 0.01)
	assert.Equal(t, []string{"aa bb", "cc"}, h.canvas().Texts())
}

func TestWrappedLinesUseGap(t *testing.T) {
	h := showNode(t, func() *Node {
		return Text("aa bb cc dd ee", Props{ID: "w", FontSize: 10, Width: Px(31), Gap: Float(10)})
	})

	assert.InDelta(t, 3*12+2*10, h.node("w").Box().ContentRect.Height, 0.01)
	texts := opsNamed(h.canvas(), "text")
	require.Len(t, texts, 3)
	assert.InDelta(t, 22, texts[1].Rect.Y-texts[0].Rect.Y, 0.01)
	assert.InDelta(t, 22, texts[2].Rect.Y-texts[1].Rect.Y, 0.01)
}

func TestPositioning(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{ID: "parent", Width: Px(200), Height: Px(200), Padding: geom.Uniform(10)},
			Div(Props{ID: "rel", Width: Px(10), Height: Px(10), Position: PositionRelative, Left: Float(5), Top: Float(7)}),
			Div(Props{ID: "abs", Width: Px(20), Height: Px(20), Position: PositionAbsolute, Right: Float(0), Bottom: Float(0)}),
			Div(Props{ID: "fixed", Width: Px(30), Height: Px(30), Position: PositionFixed, Left: Float(100), Top: Float(300)}),
		)
	})

	assert.Equal(t, geom.Point{X: 15, Y: 17}, h.node("rel").Box().BorderRect.Pos())
	assert.Equal(t, geom.Point{X: 180, Y: 180}, h.node("abs").Box().BorderRect.Pos(), "anchored to the padding box")
	assert.Equal(t, geom.Point{X: 100, Y: 300}, h.node("fixed").Box().BorderRect.Pos())
}

func TestTableColumnsAlign(t *testing.T) {
	h := showNode(t, func() *Node {
		return Table(Props{ID: "tbl"},
			Tr(Props{}, Td(Props{ID: "a1"}, Text("a", Props{FontSize: 10})), Td(Props{ID: "b1"}, Text("b", Props{FontSize: 10}))),
			Tr(Props{}, Td(Props{ID: "a2"}, Text("aaaa", Props{FontSize: 10})), Td(Props{ID: "b2"}, Text("b", Props{FontSize: 10}))),
		)
	})

	assert.Equal(t, h.node("b1").Box().BorderRect.X, h.node("b2").Box().BorderRect.X)
	assert.InDelta(t, 24, h.node("a1").Box().BorderRect.Width, 0.01)
}

func TestTableRowHeightGrowsCells(t *testing.T) {
	h := showNode(t, func() *Node {
		return Table(Props{},
			Tr(Props{ID: "row", Height: Px(40), Padding: geom.Uniform(2)},
				Td(Props{ID: "c1"}, Text("a", Props{FontSize: 10})),
				Td(Props{ID: "c2"}, Text("b", Props{FontSize: 10})),
			),
			Tr(Props{}, Td(Props{ID: "c3"}, Text("c", Props{FontSize: 10}))),
		)
	})

	assert.Equal(t, float32(40), h.node("row").Box().BorderRect.Height)
	assert.Equal(t, float32(36), h.node("c1").Box().BorderRect.Height)
	assert.Equal(t, float32(36), h.node("c2").Box().BorderRect.Height)
	assert.InDelta(t, 12, h.node("c3").Box().BorderRect.Height, 0.01)
}

func TestRenderListOrdersByZThenPosition(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{ID: "root"},
			Div(Props{ID: "top", ZIndex: 5}),
			Div(Props{ID: "overlay", Position: PositionAbsolute, Left: Float(0), Top: Float(0)}),
			Div(Props{ID: "plain"}),
		)
	})

	var order []string
	for _, n := range h.tree.list {
		if !n.autoID {
			order = append(order, n.ID)
		}
	}
	assert.Equal(t, []string{"root", "plain", "overlay", "top"}, order)
}

func TestAutoIDsFollowStructure(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{}, Div(Props{}), Text("x"))
	})

	_, ok := h.tree.NodeByID("div@0")
	assert.True(t, ok)
	_, ok = h.tree.NodeByID("text@0.1")
	assert.True(t, ok)
}

func TestMeasureWithoutMeasurerFails(t *testing.T) {
	lc := &layoutContext{settings: &Settings{}, arena: newArena(1)}
	n := Text("hi")
	h := &hierarchy{arena: lc.arena, ids: map[string]*Node{}}
	require.NoError(t, h.init(n, nil, 0))
	applyCascade(n, nil)

	_, err := n.impl.measure(n, lc)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoSurface)
}

func TestLayoutIsDeterministic(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{FlexDirection: FlexRow, JustifyContent: JustifyBetween, Width: Px(333), Padding: geom.Uniform(7)},
			Div(Props{Flex: 1, Height: Px(13)}),
			Text("alpha beta", Props{FontSize: 11}),
			Div(Props{Flex: 2, Margin: geom.Uniform(3)}),
		)
	})
	rects := func() map[string]BoxModel {
		out := map[string]BoxModel{}
		h.tree.Root().walk(func(n *Node) bool {
			out[n.ID] = *n.Box()
			return true
		})
		return out
	}

	first := rects()
	h.tree.Render()
	assert.Equal(t, first, rects())
}

func TestSpaceBetweenSingleChild(t *testing.T) {
	h := showNode(t, func() *Node {
		return Div(Props{FlexDirection: FlexRow, JustifyContent: JustifyBetween, Width: Px(100), Height: Px(20)},
			Div(Props{ID: "only", Width: Px(20), Height: Px(20)}),
		)
	})
	assert.Equal(t, float32(0), h.node("only").Box().BorderRect.X)
}
