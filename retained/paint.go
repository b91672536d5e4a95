package retained

import (
	"sort"

	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

// buildRenderList flattens the tree in pre-order and stable-sorts it by
// z-index, then by subindex. Out-of-flow subtrees carry a higher subindex
// than their normal-flow siblings at the same z-index.
func buildRenderList(root *Node) []*Node {
	var list []*Node
	root.walk(func(n *Node) bool {
		list = append(list, n)
		return true
	})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].z != list[j].z {
			return list[i].z < list[j].z
		}
		return list[i].sub < list[j].sub
	})
	return list
}

// paintContext is the state of one paint pass.
type paintContext struct {
	p     surface.Painter
	arena *arena
	meta  *MetaState

	dragID    string
	dragDelta geom.Point
	dragged   map[NodeRef]bool
}

func newPaintContext(p surface.Painter, a *arena, meta *MetaState) *paintContext {
	pc := &paintContext{p: p, arena: a, meta: meta}
	if meta != nil && meta.dragging != "" {
		if ref, ok := meta.Node(meta.dragging); ok {
			if n, ok := a.get(ref); ok {
				pc.dragID = n.ID
				pc.dragDelta = meta.liveDrag(n.ID)
				pc.dragged = map[NodeRef]bool{}
				n.walk(func(c *Node) bool {
					pc.dragged[c.ref] = true
					return true
				})
			}
		}
	}
	return pc
}

// offset is the live drag translation applied to n.
func (pc *paintContext) offset(n *Node) geom.Point {
	if pc.dragged[n.ref] {
		return pc.dragDelta
	}
	return geom.Point{}
}

// dragOrder returns list with the dragged subtree raised by one subindex.
func (pc *paintContext) dragOrder(list []*Node) []*Node {
	if len(pc.dragged) == 0 {
		return list
	}
	sub := func(n *Node) int {
		if pc.dragged[n.ref] {
			return n.sub + 1
		}
		return n.sub
	}
	out := append([]*Node(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].z != out[j].z {
			return out[i].z < out[j].z
		}
		return sub(out[i]) < sub(out[j])
	})
	return out
}

// enter saves the painter state, applies n's ancestor clip cascade and its
// drag translation. Callers must call pc.p.Restore.
func (pc *paintContext) enter(n *Node) {
	pc.p.Save()
	for _, ref := range n.clips {
		c, ok := pc.arena.get(ref)
		if !ok {
			continue
		}
		d := pc.offset(c)
		r := c.box.PaddingRect.Translate(d.X, d.Y)
		radii := c.Props.BorderRadius.Clamp(r.Width, r.Height)
		if radii.IsZero() {
			pc.p.ClipRect(r)
		} else {
			pc.p.ClipPath(surface.RoundedRect(r, radii))
		}
	}
	if d := pc.offset(n); !d.IsZero() {
		pc.p.Translate(d.X, d.Y)
	}
}

// paintList paints nodes in render-list order followed by the decoration
// layers. A dragged subtree draws above its flow siblings at the same
// z-index without rebuilding the list.
func paintList(list []*Node, pc *paintContext) {
	list = pc.dragOrder(list)
	for _, n := range list {
		pc.enter(n)
		n.impl.paint(n, pc)
		pc.p.Restore()
	}
	for _, n := range list {
		paintDecorations(n, pc)
	}
}

func paintDecorations(n *Node, pc *paintContext) {
	meta := pc.meta
	hl, highlighted := meta.highlightColor(n.ID)
	focused := meta.focused == n.ID
	scroll := n.box.Scroll.Active
	if !highlighted && !focused && !scroll {
		return
	}
	pc.enter(n)
	defer pc.p.Restore()
	r := n.box.BorderRect
	radii := n.Props.BorderRadius.Clamp(r.Width, r.Height)
	if highlighted {
		pc.p.SetFill(hl)
		drawBox(pc.p, r, radii, surface.Fill)
	}
	if focused {
		pc.p.SetStroke(focusColor)
		pc.p.SetStrokeWidth(2)
		drawBox(pc.p, r.Outset(geom.Uniform(2)), radii, surface.Stroke)
	}
	if scroll {
		pc.p.SetFill(n.paintColor(scrollThumbColor))
		pc.p.DrawRoundRect(n.box.Scroll.Thumb, scrollbarWidth/2, surface.Fill)
	}
}

// paintBox draws background and border.
func paintBox(n *Node, pc *paintContext) {
	p := pc.p
	r := n.box.BorderRect
	if r.Empty() {
		return
	}
	radii := n.Props.BorderRadius.Clamp(r.Width, r.Height)
	if bg := n.Props.Background; bg.Visible() {
		p.SetFill(n.paintColor(bg))
		drawBox(p, r, radii, surface.Fill)
	}
	bw := n.Props.Border
	if bw.IsZero() {
		return
	}
	bc := n.Props.BorderColor
	if bc.IsZero() {
		bc = n.style.color
	}
	if !bc.Visible() {
		return
	}
	bc = n.paintColor(bc)
	if bw == geom.Uniform(bw.Top) {
		p.SetStroke(bc)
		p.SetStrokeWidth(bw.Top)
		drawBox(p, r.Inset(geom.Uniform(bw.Top/2)), radii, surface.Stroke)
		return
	}
	p.SetFill(bc)
	edges := []geom.Rect{
		{X: r.X, Y: r.Y, Width: r.Width, Height: bw.Top},
		{X: r.Right() - bw.Right, Y: r.Y, Width: bw.Right, Height: r.Height},
		{X: r.X, Y: r.Bottom() - bw.Bottom, Width: r.Width, Height: bw.Bottom},
		{X: r.X, Y: r.Y, Width: bw.Left, Height: r.Height},
	}
	for _, e := range edges {
		if !e.Empty() {
			p.DrawRect(e, surface.Fill)
		}
	}
}

// drawBox draws r with the fastest primitive its corner radii allow.
func drawBox(p surface.Painter, r geom.Rect, radii surface.Radii, mode surface.Mode) {
	switch {
	case radii.IsZero():
		p.DrawRect(r, mode)
	case radii.Uniform():
		p.DrawRoundRect(r, radii[0], mode)
	default:
		p.DrawPath(surface.RoundedRect(r, radii), mode)
	}
}
