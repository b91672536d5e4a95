package retained

import (
	"fmt"
	"hash/fnv"

	"github.com/agiangrant/canvasui/geom"
)

// Window is a draggable panel with an optional title bar. Its position is
// persisted across shows, keyed by a hash of its declared properties.
func Window(p WindowProps, children ...*Node) *Node {
	body := Props{
		FlexDirection:  p.FlexDirection,
		JustifyContent: p.JustifyContent,
		AlignItems:     p.AlignItems,
		Gap:            p.Gap,
		Padding:        p.Padding,
		Flex:           1,
		Overflow:       p.Overflow,
	}
	if body.Padding.IsZero() {
		body.Padding = geom.Uniform(12)
	}
	if p.ID != "" {
		body.ID = p.ID + "_body"
	}

	frame := p.Props
	frame.FlexDirection = FlexColumn
	frame.JustifyContent = ""
	frame.AlignItems = AlignStretch
	frame.Gap = nil
	frame.Padding = geom.Spacing{}
	frame.Overflow = ""
	frame.Draggable = true
	if frame.Background.IsZero() {
		frame.Background = windowBackground
	}
	if frame.Border.IsZero() {
		frame.Border = geom.Uniform(1)
	}
	if frame.BorderColor.IsZero() {
		frame.BorderColor = windowBorder
	}
	if frame.BorderRadius.IsZero() {
		frame.BorderRadius = [4]float32{8, 8, 8, 8}
	}

	var parts []*Node
	if !p.HideTitleBar {
		bar := Props{
			FlexDirection:  FlexRow,
			JustifyContent: JustifyBetween,
			AlignItems:     AlignCenter,
			Padding:        geom.Symmetric(6, 12),
			DragHandle:     true,
		}
		barChildren := []*Node{Text(p.Title, Props{FontWeight: 700})}
		if !p.HideClose {
			closeBtn := Button("×", Props{Padding: geom.Symmetric(0, 6)})
			closeBtn.closer = true
			barChildren = append(barChildren, closeBtn)
		}
		parts = append(parts, Div(bar, barChildren...))
	}
	parts = append(parts, Div(body, children...))

	n := newNode(KindWindow, frame, container{}, parts)
	n.window = &p
	return n
}

// windowKey is the persistence key of a window: a hash of the properties
// that identify it across shows.
func windowKey(n *Node) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s", n.ID, n.window.Title, n.Props.Width, n.Props.Height)
	return fmt.Sprintf("window:%016x", h.Sum64())
}

// Modal is a full-screen overlay that centers its children on a backdrop.
// Clicking the backdrop calls OnClose. A closed modal renders nothing.
func Modal(p ModalProps, children ...*Node) *Node {
	overlay := Props{
		ID:             p.ID,
		Position:       PositionFixed,
		Left:           Float(0),
		Top:            Float(0),
		JustifyContent: JustifyCenter,
		AlignItems:     AlignCenter,
		ZIndex:         p.ZIndex,
		Background:     p.Backdrop,
	}
	if overlay.ZIndex == 0 {
		overlay.ZIndex = 1000
	}
	if overlay.Background.IsZero() {
		overlay.Background = modalBackdrop
	}
	if !p.Open {
		n := newNode(KindModal, Props{ID: p.ID, Position: PositionFixed}, modalElement{}, nil)
		n.modal = &p
		return n
	}

	panel := p.Props
	panel.ID = ""
	panel.ZIndex = 0
	if p.ID != "" {
		panel.ID = p.ID + "_panel"
	}
	if panel.Background.IsZero() {
		panel.Background = windowBackground
	}
	if panel.Padding.IsZero() {
		panel.Padding = geom.Uniform(16)
	}
	if panel.BorderRadius.IsZero() {
		panel.BorderRadius = [4]float32{8, 8, 8, 8}
	}

	n := newNode(KindModal, overlay, modalElement{}, []*Node{Div(panel, children...)})
	n.modal = &p
	return n
}

// modalElement covers the whole screen when open.
type modalElement struct{ container }

func (e modalElement) measure(n *Node, lc *layoutContext) (geom.Size, error) {
	if n.modal != nil && n.modal.Open {
		n.box.width = Px(lc.screen.Width)
		n.box.height = Px(lc.screen.Height)
	}
	return e.container.measure(n, lc)
}

func (e modalElement) paint(n *Node, pc *paintContext) {
	if n.modal != nil && n.modal.Open {
		paintBox(n, pc)
	}
}

// Cursor follows the pointer. Left and Top offset it from the pointer.
func Cursor(p Props, children ...*Node) *Node {
	p.Position = PositionFixed
	if p.ZIndex == 0 {
		p.ZIndex = 2000
	}
	return newNode(KindCursor, p, cursorElement{}, children)
}

type cursorElement struct{ container }

func (cursorElement) layout(n *Node, _ geom.Point, lc *layoutContext) {
	var pos geom.Point
	if lc.meta != nil {
		pos = lc.meta.cursor
	}
	if n.Props.Left != nil {
		pos.X += *n.Props.Left
	}
	if n.Props.Top != nil {
		pos.Y += *n.Props.Top
	}
	p := &n.Props
	n.box.PositionForRender(pos, p.axis(), p.alignItems(), p.justify())
	layoutChildren(n, lc)
}
