package retained

import (
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

const defaultInputWidth = 200

// inputElement reserves space for a host text widget. The widget itself
// draws the text; the node paints only its box.
type inputElement struct{}

func (inputElement) measure(n *Node, lc *layoutContext) (geom.Size, error) {
	h := n.style.font.Size * n.style.lineHeight
	return n.box.MeasureIntrinsic(geom.Size{Width: defaultInputWidth, Height: h}), nil
}

func (inputElement) grow(*Node, *layoutContext) {}

func (inputElement) constrain(n *Node, available geom.Size, _ *layoutContext) {
	n.box.Constrain(available)
}

func (inputElement) layout(n *Node, cursor geom.Point, lc *layoutContext) {
	placeBox(n, cursor, lc)
}

func (inputElement) paint(n *Node, pc *paintContext) { paintBox(n, pc) }

// inputStyle derives the host widget theme from the node.
func inputStyle(n *Node) surface.TextInputStyle {
	return surface.TextInputStyle{
		Font:            n.style.font,
		Color:           n.paintColor(n.style.color),
		BackgroundColor: n.paintColor(n.Props.Background),
		BorderColor:     n.paintColor(n.Props.BorderColor),
		BorderWidth:     n.Props.Border.Top,
		BorderRadius:    n.Props.BorderRadius[0],
		Placeholder:     n.input.Placeholder,
	}
}
