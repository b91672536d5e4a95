package surface

import "github.com/agiangrant/canvasui/geom"

// Kappa is the control point distance for approximating a quarter circle with
// one cubic Bezier segment.
const Kappa = 0.5522847498

// Verb is a path segment type.
type Verb int

const (
	VerbMove Verb = iota
	VerbLine
	VerbCubic
	VerbClose
)

// PathOp is one segment; Pts holds 1 point for move/line and 3 for cubic.
type PathOp struct {
	Verb Verb
	Pts  []geom.Point
}

// Path is either an explicit list of segments or an SVG path string the host
// parses. SVG paths are drawn scaled by Scale and translated by Offset.
type Path struct {
	Ops    []PathOp
	SVG    string
	Scale  float32
	Offset geom.Point
}

// NewSVGPath wraps SVG path data with a transform.
func NewSVGPath(d string, scale float32, offset geom.Point) *Path {
	return &Path{SVG: d, Scale: scale, Offset: offset}
}

// MoveTo starts a subpath.
func (p *Path) MoveTo(pt geom.Point) *Path {
	p.Ops = append(p.Ops, PathOp{Verb: VerbMove, Pts: []geom.Point{pt}})
	return p
}

// LineTo adds a straight segment.
func (p *Path) LineTo(pt geom.Point) *Path {
	p.Ops = append(p.Ops, PathOp{Verb: VerbLine, Pts: []geom.Point{pt}})
	return p
}

// CubicTo adds a cubic Bezier segment.
func (p *Path) CubicTo(c1, c2, end geom.Point) *Path {
	p.Ops = append(p.Ops, PathOp{Verb: VerbCubic, Pts: []geom.Point{c1, c2, end}})
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.Ops = append(p.Ops, PathOp{Verb: VerbClose})
	return p
}

// Radii holds per-corner radii: top-left, top-right, bottom-right, bottom-left.
type Radii [4]float32

// Uniform reports whether all corners share one radius.
func (r Radii) Uniform() bool {
	return r[0] == r[1] && r[1] == r[2] && r[2] == r[3]
}

// IsZero reports whether no corner is rounded.
func (r Radii) IsZero() bool { return r == Radii{} }

// Clamp limits each radius to half the smaller side of a w×h box.
func (r Radii) Clamp(w, h float32) Radii {
	limit := w / 2
	if h/2 < limit {
		limit = h / 2
	}
	for i := range r {
		if r[i] > limit {
			r[i] = limit
		}
		if r[i] < 0 {
			r[i] = 0
		}
	}
	return r
}

// RoundedRect builds a closed path for a rect with per-corner radii, each
// corner a single cubic quarter-circle approximation.
func RoundedRect(rect geom.Rect, radii Radii) *Path {
	radii = radii.Clamp(rect.Width, rect.Height)
	tl, tr, br, bl := radii[0], radii[1], radii[2], radii[3]
	x0, y0, x1, y1 := rect.X, rect.Y, rect.Right(), rect.Bottom()

	p := &Path{}
	p.MoveTo(geom.Point{X: x0 + tl, Y: y0})
	p.LineTo(geom.Point{X: x1 - tr, Y: y0})
	if tr > 0 {
		p.CubicTo(
			geom.Point{X: x1 - tr + tr*Kappa, Y: y0},
			geom.Point{X: x1, Y: y0 + tr - tr*Kappa},
			geom.Point{X: x1, Y: y0 + tr},
		)
	}
	p.LineTo(geom.Point{X: x1, Y: y1 - br})
	if br > 0 {
		p.CubicTo(
			geom.Point{X: x1, Y: y1 - br + br*Kappa},
			geom.Point{X: x1 - br + br*Kappa, Y: y1},
			geom.Point{X: x1 - br, Y: y1},
		)
	}
	p.LineTo(geom.Point{X: x0 + bl, Y: y1})
	if bl > 0 {
		p.CubicTo(
			geom.Point{X: x0 + bl - bl*Kappa, Y: y1},
			geom.Point{X: x0, Y: y1 - bl + bl*Kappa},
			geom.Point{X: x0, Y: y1 - bl},
		)
	}
	p.LineTo(geom.Point{X: x0, Y: y0 + tl})
	if tl > 0 {
		p.CubicTo(
			geom.Point{X: x0, Y: y0 + tl - tl*Kappa},
			geom.Point{X: x0 + tl - tl*Kappa, Y: y0},
			geom.Point{X: x0 + tl, Y: y0},
		)
	}
	return p.Close()
}
