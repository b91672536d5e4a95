package retained

import (
	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

// svgViewBox is the coordinate extent primitives are authored in.
const svgViewBox = 24

type svgElement struct{ container }

func (e svgElement) layout(n *Node, cursor geom.Point, lc *layoutContext) {
	placeBox(n, cursor, lc)
}

// shape holds the geometry of one svg primitive in viewbox units.
type shape struct {
	ShapeProps
	d              string
	cx, cy, r      float32
	x, y, w, h, rx float32
	x1, y1, x2, y2 float32
	points         []geom.Point
}

// shapeElement paints a primitive relative to its svg parent. Primitives
// take no part in layout.
type shapeElement struct{}

func (shapeElement) measure(*Node, *layoutContext) (geom.Size, error) { return geom.Size{}, nil }
func (shapeElement) grow(*Node, *layoutContext)                       {}
func (shapeElement) constrain(*Node, geom.Size, *layoutContext)       {}
func (shapeElement) layout(*Node, geom.Point, *layoutContext)         {}

func (shapeElement) paint(n *Node, pc *paintContext) {
	parent, ok := pc.arena.get(n.parent)
	if !ok || parent.svg == nil {
		return
	}
	sp := parent.svg
	s := n.shape
	origin := parent.box.ContentRect.Pos()
	scale := parent.box.ContentRect.Width / svgViewBox
	pt := func(x, y float32) geom.Point {
		return geom.Point{X: origin.X + x*scale, Y: origin.Y + y*scale}
	}

	stroke := firstColor(s.Stroke, sp.Stroke, n.style.color)
	fill := firstColor(s.Fill, sp.Fill)
	width := s.StrokeWidth
	if width == 0 {
		width = sp.StrokeWidth
	}
	if width == 0 {
		width = 2
	}
	lineCap, join := sp.LineCap, sp.LineJoin
	if s.LineCap != nil {
		lineCap = *s.LineCap
	}
	if s.LineJoin != nil {
		join = *s.LineJoin
	}

	p := pc.p
	p.SetStroke(n.paintColor(stroke))
	p.SetFill(n.paintColor(fill))
	p.SetStrokeWidth(width * scale)
	p.SetStrokeCap(lineCap)
	p.SetStrokeJoin(join)

	modes := func(draw func(surface.Mode)) {
		if fill.Visible() {
			draw(surface.Fill)
		}
		if stroke.Visible() {
			draw(surface.Stroke)
		}
	}

	switch n.Kind {
	case KindSVGPath:
		path := surface.NewSVGPath(s.d, scale, origin)
		modes(func(m surface.Mode) { p.DrawPath(path, m) })
	case KindSVGCircle:
		modes(func(m surface.Mode) { p.DrawCircle(pt(s.cx, s.cy), s.r*scale, m) })
	case KindSVGRect:
		r := geom.Rect{X: origin.X + s.x*scale, Y: origin.Y + s.y*scale, Width: s.w * scale, Height: s.h * scale}
		modes(func(m surface.Mode) {
			if s.rx > 0 {
				p.DrawRoundRect(r, s.rx*scale, m)
			} else {
				p.DrawRect(r, m)
			}
		})
	case KindSVGLine:
		p.DrawLine(pt(s.x1, s.y1), pt(s.x2, s.y2))
	case KindSVGPolyline, KindSVGPolygon:
		pts := make([]geom.Point, len(s.points))
		for i, q := range s.points {
			pts[i] = pt(q.X, q.Y)
		}
		closed := n.Kind == KindSVGPolygon
		modes(func(m surface.Mode) { p.DrawPolyline(pts, closed, m) })
	}
}

func firstColor(cs ...colors.Color) colors.Color {
	for _, c := range cs {
		if !c.IsZero() {
			return c
		}
	}
	return colors.Transparent
}
