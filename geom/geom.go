// Package geom provides the float32 value types used by layout and painting.
package geom

import "github.com/chewxy/math32"

// Axis selects the horizontal or vertical dimension.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Cross returns the perpendicular axis.
func (a Axis) Cross() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Point is a position in screen coordinates.
type Point struct {
	X, Y float32
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Along returns the coordinate on the given axis.
func (p Point) Along(a Axis) float32 {
	if a == Horizontal {
		return p.X
	}
	return p.Y
}

// With returns p with the coordinate on axis a replaced by v.
func (p Point) With(a Axis, v float32) Point {
	if a == Horizontal {
		p.X = v
	} else {
		p.Y = v
	}
	return p
}

// IsZero reports whether both coordinates are zero.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Size is a width/height pair.
type Size struct {
	Width, Height float32
}

// Along returns the extent on the given axis.
func (s Size) Along(a Axis) float32 {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}

// With returns s with the extent on axis a replaced by v.
func (s Size) With(a Axis, v float32) Size {
	if a == Horizontal {
		s.Width = v
	} else {
		s.Height = v
	}
	return s
}

// Max returns the component-wise maximum of s and o.
func (s Size) Max(o Size) Size {
	return Size{math32.Max(s.Width, o.Width), math32.Max(s.Height, o.Height)}
}

// Min returns the component-wise minimum of s and o.
func (s Size) Min(o Size) Size {
	return Size{math32.Min(s.Width, o.Width), math32.Min(s.Height, o.Height)}
}

// Grow returns s enlarged by the horizontal and vertical totals of sp.
func (s Size) Grow(sp Spacing) Size {
	return Size{s.Width + sp.Horizontal(), s.Height + sp.Vertical()}
}

// Shrink returns s reduced by the totals of sp, never below zero.
func (s Size) Shrink(sp Spacing) Size {
	return Size{
		math32.Max(0, s.Width-sp.Horizontal()),
		math32.Max(0, s.Height-sp.Vertical()),
	}
}

// Spacing holds per-edge amounts for margin, border or padding.
type Spacing struct {
	Top, Right, Bottom, Left float32
}

// Uniform returns a Spacing with v on every edge.
func Uniform(v float32) Spacing { return Spacing{v, v, v, v} }

// Symmetric returns a Spacing with vertical v and horizontal h.
func Symmetric(v, h float32) Spacing { return Spacing{v, h, v, h} }

// Horizontal returns Left + Right.
func (s Spacing) Horizontal() float32 { return s.Left + s.Right }

// Vertical returns Top + Bottom.
func (s Spacing) Vertical() float32 { return s.Top + s.Bottom }

// Along returns the total spacing on the given axis.
func (s Spacing) Along(a Axis) float32 {
	if a == Horizontal {
		return s.Horizontal()
	}
	return s.Vertical()
}

// Leading returns the spacing before content on the axis (Left or Top).
func (s Spacing) Leading(a Axis) float32 {
	if a == Horizontal {
		return s.Left
	}
	return s.Top
}

// IsZero reports whether every edge is zero.
func (s Spacing) IsZero() bool { return s == Spacing{} }

// Add returns the edge-wise sum.
func (s Spacing) Add(o Spacing) Spacing {
	return Spacing{s.Top + o.Top, s.Right + o.Right, s.Bottom + o.Bottom, s.Left + o.Left}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float32
}

// RectFrom builds a Rect from an origin and a size.
func RectFrom(p Point, s Size) Rect { return Rect{p.X, p.Y, s.Width, s.Height} }

// Pos returns the top-left corner.
func (r Rect) Pos() Point { return Point{r.X, r.Y} }

// Size returns the width and height.
func (r Rect) Size() Size { return Size{r.Width, r.Height} }

// Right returns X + Width.
func (r Rect) Right() float32 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() float32 { return r.Y + r.Height }

// Center returns the midpoint.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Inset shrinks r by sp on each edge. Width and height never go negative.
func (r Rect) Inset(sp Spacing) Rect {
	return Rect{
		X:      r.X + sp.Left,
		Y:      r.Y + sp.Top,
		Width:  math32.Max(0, r.Width-sp.Horizontal()),
		Height: math32.Max(0, r.Height-sp.Vertical()),
	}
}

// Outset grows r by sp on each edge.
func (r Rect) Outset(sp Spacing) Rect {
	return Rect{
		X:      r.X - sp.Left,
		Y:      r.Y - sp.Top,
		Width:  r.Width + sp.Horizontal(),
		Height: r.Height + sp.Vertical(),
	}
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	const eps = 1e-3
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Intersect returns the overlap of r and o and whether it is non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := math32.Max(r.X, o.X)
	y0 := math32.Max(r.Y, o.Y)
	x1 := math32.Min(r.Right(), o.Right())
	y1 := math32.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}, false
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}, true
}

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := math32.Min(r.X, o.X)
	y0 := math32.Min(r.Y, o.Y)
	x1 := math32.Max(r.Right(), o.Right())
	y1 := math32.Max(r.Bottom(), o.Bottom())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}
