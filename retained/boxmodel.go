package retained

import (
	"github.com/chewxy/math32"

	"github.com/agiangrant/canvasui/geom"
)

const (
	scrollbarWidth    = 8
	scrollbarMinThumb = 20
)

// ScrollBar is the computed scrollbar geometry of a scrolling box.
type ScrollBar struct {
	Active bool
	Track  geom.Rect
	Thumb  geom.Rect
	// View and Content are the visible and total content heights.
	View, Content float32
	Offset        float32
}

// BoxModel holds the nested rectangles of one node. Width and height props
// size the border box; margin sits outside it.
//
// Invariant after PositionForRender: MarginRect ⊇ BorderRect ⊇ PaddingRect ⊇
// ContentRect, and ContentChildrenRect is aligned inside ContentRect unless
// the box scrolls or overflows.
type BoxModel struct {
	MarginRect          geom.Rect
	BorderRect          geom.Rect
	PaddingRect         geom.Rect
	ContentRect         geom.Rect
	ContentChildrenRect geom.Rect
	Scroll              ScrollBar

	width, height       Dimension
	minWidth, minHeight float32
	maxWidth, maxHeight float32
	margin              geom.Spacing
	padding             geom.Spacing
	border              geom.Spacing
	scrollY             bool

	// border-box size; the margin box is derived from it.
	size     geom.Size
	children geom.Size
}

// NewBoxModel builds a box from the sizing props of p.
func NewBoxModel(p *Props) *BoxModel {
	return &BoxModel{
		width:     p.Width,
		height:    p.Height,
		minWidth:  p.MinWidth,
		minHeight: p.MinHeight,
		maxWidth:  p.MaxWidth,
		maxHeight: p.MaxHeight,
		margin:    p.Margin,
		padding:   p.Padding,
		border:    p.Border,
		scrollY:   p.Overflow == OverflowScroll,
	}
}

func (b *BoxModel) dim(a geom.Axis) Dimension {
	if a == geom.Horizontal {
		return b.width
	}
	return b.height
}

func (b *BoxModel) bounds(a geom.Axis) (lo, hi float32) {
	if a == geom.Horizontal {
		lo, hi = b.minWidth, b.maxWidth
	} else {
		lo, hi = b.minHeight, b.maxHeight
	}
	if hi == 0 {
		hi = math32.Inf(1)
	}
	return lo, hi
}

// chrome is padding plus border along a.
func (b *BoxModel) chrome(a geom.Axis) float32 {
	return b.padding.Along(a) + b.border.Along(a)
}

func (b *BoxModel) clamp(a geom.Axis, v float32) float32 {
	lo, hi := b.bounds(a)
	v = math32.Min(v, hi)
	v = math32.Max(v, lo)
	return math32.Max(v, b.chrome(a))
}

// Fixed reports whether the size along a is an explicit pixel value.
func (b *BoxModel) Fixed(a geom.Axis) bool { return b.dim(a).IsPx() }

// MeasureIntrinsic sizes the box around children (the accumulated size of
// its in-flow content) and returns the margin-box size. Explicit pixel
// sizes win; percentages resolve to the chrome size until Resolve.
func (b *BoxModel) MeasureIntrinsic(children geom.Size) geom.Size {
	b.children = children
	for _, a := range []geom.Axis{geom.Horizontal, geom.Vertical} {
		var v float32
		switch d := b.dim(a); d.Unit {
		case UnitPx:
			v = d.Value
		case UnitPercent:
			v = b.chrome(a)
		default:
			v = children.Along(a) + b.chrome(a)
		}
		b.size = b.size.With(a, b.clamp(a, v))
	}
	b.ContentChildrenRect.Width = children.Width
	b.ContentChildrenRect.Height = children.Height
	return b.MarginSize()
}

// Resolve sets a percentage size along a from the parent's content size.
// It reports whether the dimension was a percentage.
func (b *BoxModel) Resolve(a geom.Axis, parentContent float32) bool {
	d := b.dim(a)
	if !d.IsPercent() {
		return false
	}
	b.size = b.size.With(a, b.clamp(a, d.Value/100*parentContent))
	return true
}

// GrowTo grows the margin box along a to size, never shrinking and never
// exceeding the max bound. Explicit sizes do not grow. Reports whether the
// box changed.
func (b *BoxModel) GrowTo(a geom.Axis, size float32) bool {
	if !b.dim(a).IsAuto() {
		return false
	}
	want := b.clamp(a, size-b.margin.Along(a))
	if want <= b.size.Along(a) {
		return false
	}
	b.size = b.size.With(a, want)
	return true
}

// SetChildren records the accumulated child size after growth. Auto-sized
// axes expand to fit it.
func (b *BoxModel) SetChildren(children geom.Size) {
	b.children = children
	b.ContentChildrenRect.Width = children.Width
	b.ContentChildrenRect.Height = children.Height
	for _, a := range []geom.Axis{geom.Horizontal, geom.Vertical} {
		if b.dim(a).IsAuto() {
			need := b.clamp(a, children.Along(a)+b.chrome(a))
			if need > b.size.Along(a) {
				b.size = b.size.With(a, need)
			}
		}
	}
}

// recordChildren stores the child extent without growing the box.
func (b *BoxModel) recordChildren(children geom.Size) {
	b.children = children
	b.ContentChildrenRect.Width = children.Width
	b.ContentChildrenRect.Height = children.Height
}

// Constrain shrinks the margin box to fit available, honoring min sizes.
// A scrolling box keeps its full content-children height so the overflow
// can be scrolled.
func (b *BoxModel) Constrain(available geom.Size) {
	for _, a := range []geom.Axis{geom.Horizontal, geom.Vertical} {
		avail := available.Along(a) - b.margin.Along(a)
		if b.size.Along(a) > avail {
			b.size = b.size.With(a, b.clamp(a, avail))
		}
	}
}

// MarginSize returns the outer size including margin.
func (b *BoxModel) MarginSize() geom.Size { return b.size.Grow(b.margin) }

// BorderSize returns the border-box size.
func (b *BoxModel) BorderSize() geom.Size { return b.size }

// ContentSize returns the size available to children.
func (b *BoxModel) ContentSize() geom.Size {
	return b.size.Shrink(b.padding.Add(b.border))
}

// ChildrenSize returns the accumulated in-flow child size.
func (b *BoxModel) ChildrenSize() geom.Size { return b.children }

// Scrolls reports whether overflow is vertically scrollable.
func (b *BoxModel) Scrolls() bool { return b.scrollY }

// PositionForRender places the margin box at cursor and derives the inner
// rects. The content-children rect is aligned inside the content rect:
// justify along the primary axis dir, align along the cross axis.
func (b *BoxModel) PositionForRender(cursor geom.Point, dir geom.Axis, align Align, justify Justify) {
	b.MarginRect = geom.RectFrom(cursor, b.MarginSize())
	b.BorderRect = b.MarginRect.Inset(b.margin)
	b.PaddingRect = b.BorderRect.Inset(b.border)
	b.ContentRect = b.PaddingRect.Inset(b.padding)

	cc := geom.Rect{X: b.ContentRect.X, Y: b.ContentRect.Y, Width: b.children.Width, Height: b.children.Height}
	pos := cc.Pos()
	switch justify {
	case JustifyCenter:
		pos = pos.With(dir, pos.Along(dir)+free(b.ContentRect.Size(), b.children, dir)/2)
	case JustifyEnd:
		pos = pos.With(dir, pos.Along(dir)+free(b.ContentRect.Size(), b.children, dir))
	}
	cross := dir.Cross()
	switch align {
	case AlignCenter:
		pos = pos.With(cross, pos.Along(cross)+free(b.ContentRect.Size(), b.children, cross)/2)
	case AlignEnd:
		pos = pos.With(cross, pos.Along(cross)+free(b.ContentRect.Size(), b.children, cross))
	}
	cc.X, cc.Y = pos.X, pos.Y
	b.ContentChildrenRect = cc
	b.Scroll = ScrollBar{}
}

// free is the non-negative space left along a.
func free(outer, inner geom.Size, a geom.Axis) float32 {
	return math32.Max(0, outer.Along(a)-inner.Along(a))
}

// ScrollRange returns the valid offsets [min, 0] for the current geometry.
func (b *BoxModel) ScrollRange() float32 {
	view, content := b.scrollExtent()
	return math32.Min(0, view-content)
}

func (b *BoxModel) scrollExtent() (view, content float32) {
	view = b.PaddingRect.Height
	content = b.children.Height + b.padding.Vertical()
	return view, content
}

// AdjustScroll shifts the content children by offsetY (zero or negative)
// and computes the scrollbar. The thumb is proportional to view/content,
// never shorter than the minimum, and travels over the track as the offset
// moves across [view-content, 0].
func (b *BoxModel) AdjustScroll(offsetY float32) {
	view, content := b.scrollExtent()
	b.ContentChildrenRect.Y += offsetY
	if !b.scrollY || content <= view || view <= 0 {
		b.Scroll = ScrollBar{View: view, Content: content, Offset: offsetY}
		return
	}
	track := geom.Rect{
		X:      b.PaddingRect.Right() - scrollbarWidth,
		Y:      b.PaddingRect.Y,
		Width:  scrollbarWidth,
		Height: view,
	}
	thumbH := math32.Max(scrollbarMinThumb, view/content*track.Height)
	thumbH = math32.Min(thumbH, track.Height)
	travel := track.Height - thumbH
	frac := -offsetY / (content - view)
	frac = math32.Max(0, math32.Min(1, frac))
	b.Scroll = ScrollBar{
		Active:  true,
		Track:   track,
		Thumb:   geom.Rect{X: track.X, Y: track.Y + frac*travel, Width: track.Width, Height: thumbH},
		View:    view,
		Content: content,
		Offset:  offsetY,
	}
}

// Translate moves every rect by d.
func (b *BoxModel) Translate(d geom.Point) {
	b.MarginRect = b.MarginRect.Translate(d.X, d.Y)
	b.BorderRect = b.BorderRect.Translate(d.X, d.Y)
	b.PaddingRect = b.PaddingRect.Translate(d.X, d.Y)
	b.ContentRect = b.ContentRect.Translate(d.X, d.Y)
	b.ContentChildrenRect = b.ContentChildrenRect.Translate(d.X, d.Y)
	if b.Scroll.Active {
		b.Scroll.Track = b.Scroll.Track.Translate(d.X, d.Y)
		b.Scroll.Thumb = b.Scroll.Thumb.Translate(d.X, d.Y)
	}
}
