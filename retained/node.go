package retained

import (
	"strconv"
	"strings"

	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

// NodeRef is a generation-tagged handle to a node of one render. A ref from
// an earlier render no longer resolves.
type NodeRef struct {
	index int32
	gen   uint32
}

// IsZero reports whether r refers to nothing.
func (r NodeRef) IsZero() bool { return r.gen == 0 }

// arena owns the nodes of one render. Nodes keep parents as refs so the
// whole graph is dropped at once when the arena is released.
type arena struct {
	gen   uint32
	nodes []*Node
}

func newArena(gen uint32) *arena { return &arena{gen: gen} }

func (a *arena) add(n *Node) NodeRef {
	a.nodes = append(a.nodes, n)
	return NodeRef{index: int32(len(a.nodes) - 1), gen: a.gen}
}

func (a *arena) get(r NodeRef) (*Node, bool) {
	if a == nil || r.gen != a.gen || r.index < 0 || int(r.index) >= len(a.nodes) {
		return nil, false
	}
	return a.nodes[r.index], true
}

func (a *arena) release() {
	for _, n := range a.nodes {
		n.parent = NodeRef{}
	}
	a.nodes = nil
	a.gen = 0
}

// element is the per-kind layout and paint behavior.
type element interface {
	measure(n *Node, lc *layoutContext) (geom.Size, error)
	grow(n *Node, lc *layoutContext)
	constrain(n *Node, available geom.Size, lc *layoutContext)
	layout(n *Node, cursor geom.Point, lc *layoutContext)
	paint(n *Node, pc *paintContext)
}

// cascade is the inherited style resolved for a node.
type cascade struct {
	color      colors.Color
	font       surface.Font
	lineHeight float32
	opacity    float32
	// inherited is true when opacity came from an ancestor.
	inherited bool
}

// Node is one element of a declarative tree. Nodes are built fresh by every
// constructor call and are immutable from the caller's point of view once
// handed to a Tree.
type Node struct {
	Kind     Kind
	ID       string
	Props    Props
	Children []*Node

	ref      NodeRef
	parent   NodeRef
	autoID   bool
	depth    int
	path     []int
	box      *BoxModel
	z, sub   int
	inLayout bool
	clips    []NodeRef
	style    cascade
	impl     element
	err      error

	text   string
	lines  []textLine
	lineH  float32
	input  *InputProps
	svg    *SVGProps
	shape  *shape
	window *WindowProps
	modal  *ModalProps
	table  *tableGrid
	screen int
	// closer marks a window close button.
	closer bool
}

func newNode(kind Kind, p Props, impl element, children []*Node) *Node {
	n := &Node{Kind: kind, Props: p, impl: impl}
	n.err = applyClasses(&n.Props, kind)
	for i, c := range children {
		if c == nil {
			if n.err == nil {
				n.err = errors.Invalid(string(kind), p.ID, "children", "child %d is nil", i)
			}
			continue
		}
		n.Children = append(n.Children, c)
	}
	if n.err == nil {
		n.err = n.Props.validate(kind)
	}
	return n
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for i, c := range children {
		if c == nil {
			if n.err == nil {
				n.err = errors.Invalid(string(n.Kind), n.Props.ID, "children", "child %d is nil", len(n.Children)+i)
			}
			continue
		}
		n.Children = append(n.Children, c)
	}
	return n
}

// Box returns the computed box of the last layout.
func (n *Node) Box() *BoxModel { return n.box }

// Text returns the content of a text node.
func (n *Node) Text() string { return n.text }

// Depth returns the distance from the root.
func (n *Node) Depth() int { return n.depth }

// IndexPath returns the child indices leading from the root to n.
func (n *Node) IndexPath() []int { return n.path }

func (n *Node) interactive() bool {
	switch n.Kind {
	case KindButton, KindLink, KindInputText:
		return true
	}
	return n.Props.OnClick != nil
}

func (n *Node) clipsChildren() bool {
	return n.Props.Overflow == OverflowHidden || n.Props.Overflow == OverflowScroll
}

func (n *Node) scrollable() bool { return n.Props.Overflow == OverflowScroll }

func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

func pathString(path []int) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}

// hierarchy assigns refs, ids, depth and stacking to a freshly built graph.
type hierarchy struct {
	arena *arena
	ids   map[string]*Node
	meta  *MetaState
}

func (h *hierarchy) init(n, parent *Node, index int) error {
	if parent != nil {
		n.parent = parent.ref
		n.depth = parent.depth + 1
		n.path = append(append([]int(nil), parent.path...), index)
	} else {
		n.parent = NodeRef{}
		n.depth = 0
		n.path = nil
	}
	n.ref = h.arena.add(n)
	n.ID = n.Props.ID
	n.autoID = n.ID == ""
	if n.autoID {
		n.ID = string(n.Kind) + "@" + pathString(n.path)
	}
	if n.err != nil {
		return n.err
	}
	if err := checkNesting(n, parent); err != nil {
		return err
	}
	if !n.autoID {
		if _, dup := h.ids[n.ID]; dup {
			return errors.Invalid(string(n.Kind), n.ID, "id", "duplicate id")
		}
	}
	h.ids[n.ID] = n
	if h.meta != nil {
		h.meta.applyOverrides(n)
	}

	n.box = NewBoxModel(&n.Props)
	n.inLayout = !n.Kind.IsSVGPrimitive() && !n.Props.outOfFlow()
	n.z, n.sub = 0, 0
	if parent != nil {
		n.z, n.sub = parent.z, parent.sub
		n.clips = parent.clips
		if parent.clipsChildren() {
			n.clips = append(append([]NodeRef(nil), parent.clips...), parent.ref)
		}
	}
	if n.Props.ZIndex != 0 {
		n.z = n.Props.ZIndex
	}
	if n.Props.position() != PositionStatic {
		n.sub++
	}
	for i, c := range n.Children {
		if err := h.init(c, n, i); err != nil {
			return err
		}
	}
	return nil
}

func checkNesting(n, parent *Node) error {
	var pk Kind
	if parent != nil {
		pk = parent.Kind
	}
	el := string(n.Kind)
	switch {
	case (n.Kind == KindTd || n.Kind == KindTh) && pk != KindTr:
		return errors.Invalid(el, n.Props.ID, "parent", "must be a child of tr, not %q", pk)
	case n.Kind == KindTr && pk != KindTable:
		return errors.Invalid(el, n.Props.ID, "parent", "must be a child of table, not %q", pk)
	case n.Kind.IsSVGPrimitive() && pk != KindSVG:
		return errors.Invalid(el, n.Props.ID, "parent", "must be a child of svg, not %q", pk)
	case n.Kind == KindInputText && n.Props.ID == "":
		return errors.Invalid(el, "", "id", "input_text requires an id")
	case n.Kind == KindScreen && parent != nil:
		return errors.Invalid(el, n.Props.ID, "parent", "screen must be the root")
	}
	return nil
}

var (
	defaultColor    = colors.White
	defaultFontSize = float32(16)
)

// applyCascade resolves inherited color, font and opacity top-down. It runs
// after transitions so animated values flow into descendants.
func applyCascade(n *Node, parent *cascade) {
	var c cascade
	if parent == nil {
		c = cascade{
			color:      defaultColor,
			font:       surface.Font{Size: defaultFontSize, Weight: 400},
			lineHeight: 1.2,
			opacity:    1,
		}
	} else {
		c = *parent
		c.inherited = true
	}
	p := &n.Props
	if !p.Color.IsZero() {
		c.color = p.Color
	}
	if p.FontSize > 0 {
		c.font.Size = p.FontSize
	}
	if p.FontFamily != "" {
		c.font.Family = p.FontFamily
	}
	if p.FontWeight > 0 {
		c.font.Weight = p.FontWeight
	}
	if p.LineHeight > 0 {
		c.lineHeight = p.LineHeight
	}
	if p.Opacity != nil {
		c.opacity = *p.Opacity
		c.inherited = false
	}
	n.style = c
	for _, ch := range n.Children {
		applyCascade(ch, &n.style)
	}
}

// paintColor bakes the node's effective opacity into c.
func (n *Node) paintColor(c colors.Color) colors.Color {
	return c.WithOpacity(n.style.opacity)
}
