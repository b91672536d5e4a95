package retained

import (
	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

func first(ps []Props) Props {
	if len(ps) > 0 {
		return ps[0]
	}
	return Props{}
}

// classed applies p.Class before a builder fills in its defaults. A class
// error is reported again by newNode.
func classed(p Props, kind Kind) Props {
	_ = applyClasses(&p, kind)
	return p
}

// Screen is the root element covering one host screen.
func Screen(p ScreenProps, children ...*Node) *Node {
	if p.AlignItems == "" {
		p.AlignItems = AlignStart
	}
	n := newNode(KindScreen, p.Props, screenElement{}, children)
	n.screen = p.Screen
	return n
}

// Div is a generic flex container.
func Div(p Props, children ...*Node) *Node {
	return newNode(KindDiv, p, container{}, children)
}

// Text is a run of text, wrapped when a width or max width is set.
func Text(content string, props ...Props) *Node {
	n := newNode(KindText, first(props), textElement{}, nil)
	n.text = content
	return n
}

// Button is a clickable container. A non-empty label becomes its first child.
func Button(label string, p Props, children ...*Node) *Node {
	p = classed(p, KindButton)
	if p.Padding.IsZero() {
		p.Padding = geom.Symmetric(6, 12)
	}
	if p.HighlightColor.IsZero() {
		p.HighlightColor = defaultHighlight
	}
	if p.FlexDirection == "" {
		p.FlexDirection = FlexRow
	}
	if p.AlignItems == "" {
		p.AlignItems = AlignCenter
	}
	if label != "" {
		children = append([]*Node{Text(label)}, children...)
	}
	return newNode(KindButton, p, container{}, children)
}

// Link is a clickable text element.
func Link(label string, p Props) *Node {
	p = classed(p, KindLink)
	if p.HighlightColor.IsZero() {
		p.HighlightColor = defaultHighlight
	}
	if p.Color.IsZero() {
		p.Color = linkColor
	}
	return newNode(KindLink, p, container{}, []*Node{Text(label)})
}

// InputText is a native single-line text input. It requires an id.
func InputText(p InputProps) *Node {
	p.Props = classed(p.Props, KindInputText)
	if p.Padding.IsZero() {
		p.Padding = geom.Symmetric(4, 8)
	}
	if p.Background.IsZero() {
		p.Background = inputBackground
	}
	n := newNode(KindInputText, p.Props, inputElement{}, nil)
	n.input = &p
	return n
}

// SVG is a fixed-size drawing area for svg primitives.
func SVG(p SVGProps, children ...*Node) *Node {
	if p.Size == 0 {
		p.Size = svgViewBox
	}
	if p.Width.IsAuto() {
		p.Width = Px(p.Size)
	}
	if p.Height.IsAuto() {
		p.Height = Px(p.Size)
	}
	if p.LineCap == surface.CapButt {
		p.LineCap = surface.CapRound
	}
	if p.LineJoin == surface.JoinMiter {
		p.LineJoin = surface.JoinRound
	}
	n := newNode(KindSVG, p.Props, svgElement{}, children)
	n.svg = &p
	return n
}

func primitive(kind Kind, s *shape) *Node {
	n := newNode(kind, Props{}, shapeElement{}, nil)
	n.shape = s
	return n
}

// Path draws svg path data.
func Path(d string, sp ...ShapeProps) *Node {
	return primitive(KindSVGPath, &shape{ShapeProps: firstShape(sp), d: d})
}

// Circle draws a circle centered at (cx, cy).
func Circle(cx, cy, r float32, sp ...ShapeProps) *Node {
	return primitive(KindSVGCircle, &shape{ShapeProps: firstShape(sp), cx: cx, cy: cy, r: r})
}

// Rect draws a rectangle with optional corner radius rx.
func Rect(x, y, w, h, rx float32, sp ...ShapeProps) *Node {
	return primitive(KindSVGRect, &shape{ShapeProps: firstShape(sp), x: x, y: y, w: w, h: h, rx: rx})
}

// Line draws a segment.
func Line(x1, y1, x2, y2 float32, sp ...ShapeProps) *Node {
	return primitive(KindSVGLine, &shape{ShapeProps: firstShape(sp), x1: x1, y1: y1, x2: x2, y2: y2})
}

// Polyline draws an open polyline.
func Polyline(points []geom.Point, sp ...ShapeProps) *Node {
	return primitive(KindSVGPolyline, &shape{ShapeProps: firstShape(sp), points: points})
}

// Polygon draws a closed polygon.
func Polygon(points []geom.Point, sp ...ShapeProps) *Node {
	return primitive(KindSVGPolygon, &shape{ShapeProps: firstShape(sp), points: points})
}

func firstShape(sp []ShapeProps) ShapeProps {
	if len(sp) > 0 {
		return sp[0]
	}
	return ShapeProps{}
}

// Table lays out rows of cells with shared column widths.
func Table(p Props, rows ...*Node) *Node {
	p.FlexDirection = FlexColumn
	return newNode(KindTable, p, tableElement{}, rows)
}

// Tr is a table row.
func Tr(p Props, cells ...*Node) *Node {
	p.FlexDirection = FlexRow
	return newNode(KindTr, p, container{}, cells)
}

// Td is a table cell.
func Td(p Props, children ...*Node) *Node {
	return newNode(KindTd, p, container{}, children)
}

// Th is a header cell, bold by default.
func Th(p Props, children ...*Node) *Node {
	if p.FontWeight == 0 {
		p.FontWeight = 700
	}
	return newNode(KindTh, p, container{}, children)
}

var (
	defaultHighlight = colors.RGBA(255, 255, 255, 0x26)
	linkColor        = colors.RGB(0x60, 0xa5, 0xfa)
	inputBackground  = colors.RGB(0x26, 0x26, 0x26)
	focusColor       = colors.RGB(0x3b, 0x82, 0xf6)
	windowBackground = colors.RGBA(0x1c, 0x1c, 0x1c, 0xf0)
	windowBorder     = colors.RGB(0x44, 0x44, 0x44)
	modalBackdrop    = colors.RGBA(0, 0, 0, 0x99)
	scrollThumbColor = colors.RGBA(255, 255, 255, 0x55)
)
