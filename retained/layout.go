package retained

import (
	"github.com/chewxy/math32"

	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

// layoutContext carries what the layout phases need besides the node.
type layoutContext struct {
	measurer surface.Measurer
	settings *Settings
	meta     *MetaState
	arena    *arena
	screen   geom.Rect
}

func (lc *layoutContext) parent(n *Node) *Node {
	p, _ := lc.arena.get(n.parent)
	return p
}

// runLayout runs measure, grow, constrain and layout over the tree rooted
// at root, which must already be wired into lc.arena.
func runLayout(root *Node, lc *layoutContext) error {
	if _, err := root.impl.measure(root, lc); err != nil {
		return err
	}
	root.impl.grow(root, lc)
	root.impl.constrain(root, lc.screen.Size(), lc)
	root.impl.layout(root, lc.screen.Pos(), lc)
	return nil
}

// gapBetween is the primary-axis gap placed between adjacent in-flow
// children a and b of parent.
func (lc *layoutContext) gapBetween(parent, a, b *Node) float32 {
	if parent.Props.Gap != nil {
		return *parent.Props.Gap
	}
	if parent.Props.justify() == JustifyBetween {
		return 0
	}
	if a.Kind == KindText && b.Kind == KindText && a.Props.Flex == 0 && b.Props.Flex == 0 {
		return lc.settings.TextGap
	}
	return 0
}

func (n *Node) alignFor(child *Node) Align {
	if child.Props.AlignSelf != "" {
		return child.Props.AlignSelf
	}
	return n.Props.alignItems()
}

// accumulate sums the margin boxes of in-flow children along the primary
// axis (with gaps) and takes their maximum across it.
func accumulate(n *Node, lc *layoutContext) geom.Size {
	axis := n.Props.axis()
	cross := axis.Cross()
	var primary, crossMax float32
	var prev *Node
	for _, c := range n.Children {
		if !c.inLayout {
			continue
		}
		if prev != nil {
			primary += lc.gapBetween(n, prev, c)
		}
		sz := c.box.MarginSize()
		primary += sz.Along(axis)
		crossMax = math32.Max(crossMax, sz.Along(cross))
		prev = c
	}
	return geom.Size{}.With(axis, primary).With(cross, crossMax)
}

// container is the flex-like layout shared by screens, divs, buttons,
// windows and table parts.
type container struct{}

func (container) measure(n *Node, lc *layoutContext) (geom.Size, error) {
	for _, c := range n.Children {
		if _, err := c.impl.measure(c, lc); err != nil {
			return geom.Size{}, err
		}
	}
	return n.box.MeasureIntrinsic(accumulate(n, lc)), nil
}

func (container) grow(n *Node, lc *layoutContext) { growChildren(n, lc) }

func growChildren(n *Node, lc *layoutContext) {
	axis := n.Props.axis()
	cross := axis.Cross()
	content := n.box.ContentSize()

	for _, c := range n.Children {
		if c.Kind.IsSVGPrimitive() {
			continue
		}
		c.box.Resolve(geom.Horizontal, content.Width)
		c.box.Resolve(geom.Vertical, content.Height)
	}

	var totalFlex float32
	last := -1
	for i, c := range n.Children {
		if !c.inLayout {
			continue
		}
		if n.alignFor(c) == AlignStretch {
			c.box.GrowTo(cross, content.Along(cross))
		}
		if c.Props.Flex > 0 {
			totalFlex += c.Props.Flex
			last = i
		}
	}

	if totalFlex > 0 {
		remaining := content.Along(axis) - accumulate(n, lc).Along(axis)
		if remaining > 0 {
			var given float32
			for i, c := range n.Children {
				if !c.inLayout || c.Props.Flex <= 0 {
					continue
				}
				share := remaining * c.Props.Flex / totalFlex
				if i == last {
					share = remaining - given
				}
				given += share
				c.box.GrowTo(axis, c.box.MarginSize().Along(axis)+share)
			}
		}
	}

	for _, c := range n.Children {
		c.impl.grow(c, lc)
	}
	n.box.SetChildren(accumulate(n, lc))
}

func (container) constrain(n *Node, available geom.Size, lc *layoutContext) {
	n.box.Constrain(available)
	constrainChildren(n, lc)
}

func constrainChildren(n *Node, lc *layoutContext) {
	content := n.box.ContentSize()
	if n.box.Scrolls() {
		content.Height = math32.Inf(1)
	}
	for _, c := range n.Children {
		avail := content
		if c.Props.position() == PositionFixed {
			avail = lc.screen.Size()
		}
		c.impl.constrain(c, avail, lc)
	}
	n.box.recordChildren(accumulate(n, lc))
}

func (container) layout(n *Node, cursor geom.Point, lc *layoutContext) {
	placeBox(n, cursor, lc)
	layoutChildren(n, lc)
}

// placeBox positions n's box, applying relative and out-of-flow offsets,
// committed drag offsets and the scroll offset.
func placeBox(n *Node, cursor geom.Point, lc *layoutContext) {
	pos := cursor
	p := &n.Props
	switch p.position() {
	case PositionRelative:
		if p.Left != nil {
			pos.X += *p.Left
		} else if p.Right != nil {
			pos.X -= *p.Right
		}
		if p.Top != nil {
			pos.Y += *p.Top
		} else if p.Bottom != nil {
			pos.Y -= *p.Bottom
		}
	case PositionAbsolute:
		base := lc.screen
		if parent := lc.parent(n); parent != nil {
			base = parent.box.PaddingRect
		}
		pos = anchor(p, base, n.box.MarginSize())
	case PositionFixed:
		pos = anchor(p, lc.screen, n.box.MarginSize())
	}
	if p.Draggable && lc.meta != nil {
		pos = pos.Add(lc.meta.committedDrag(n.ID))
	}
	n.box.PositionForRender(pos, p.axis(), p.alignItems(), p.justify())
	if n.scrollable() && lc.meta != nil {
		off := lc.meta.Scrollable(n.ID).Reevaluate(n.box.ScrollRange())
		n.box.AdjustScroll(off)
	}
}

func anchor(p *Props, base geom.Rect, size geom.Size) geom.Point {
	pos := base.Pos()
	switch {
	case p.Left != nil:
		pos.X = base.X + *p.Left
	case p.Right != nil:
		pos.X = base.Right() - *p.Right - size.Width
	}
	switch {
	case p.Top != nil:
		pos.Y = base.Y + *p.Top
	case p.Bottom != nil:
		pos.Y = base.Bottom() - *p.Bottom - size.Height
	}
	return pos
}

func layoutChildren(n *Node, lc *layoutContext) {
	axis := n.Props.axis()
	cross := axis.Cross()
	cc := n.box.ContentChildrenRect

	var flow []*Node
	var used float32
	for _, c := range n.Children {
		if c.inLayout {
			flow = append(flow, c)
			used += c.box.MarginSize().Along(axis)
		}
	}
	between := n.Props.Gap == nil && n.Props.justify() == JustifyBetween && len(flow) > 1
	var spread float32
	if between {
		spread = math32.Max(0, (n.box.ContentRect.Size().Along(axis)-used)/float32(len(flow)-1))
	}

	cur := cc.Pos()
	for i, c := range flow {
		if i > 0 {
			if between {
				cur = cur.With(axis, cur.Along(axis)+spread)
			} else {
				cur = cur.With(axis, cur.Along(axis)+lc.gapBetween(n, flow[i-1], c))
			}
		}
		size := c.box.MarginSize()
		pos := cur
		switch n.alignFor(c) {
		case AlignCenter:
			pos = pos.With(cross, pos.Along(cross)+(cc.Size().Along(cross)-size.Along(cross))/2)
		case AlignEnd:
			pos = pos.With(cross, pos.Along(cross)+cc.Size().Along(cross)-size.Along(cross))
		}
		c.impl.layout(c, pos, lc)
		cur = cur.With(axis, cur.Along(axis)+size.Along(axis))
	}
	for _, c := range n.Children {
		if !c.inLayout && !c.Kind.IsSVGPrimitive() {
			c.impl.layout(c, cc.Pos(), lc)
		}
	}
}

func (container) paint(n *Node, pc *paintContext) { paintBox(n, pc) }

// screenElement sizes the root to its host screen.
type screenElement struct{ container }

func (e screenElement) measure(n *Node, lc *layoutContext) (geom.Size, error) {
	n.box.width = Px(lc.screen.Width)
	n.box.height = Px(lc.screen.Height)
	return e.container.measure(n, lc)
}
