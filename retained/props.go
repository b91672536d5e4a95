package retained

import (
	"fmt"
	"strings"
	"time"

	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

// Kind identifies the element type of a node.
type Kind string

const (
	KindScreen      Kind = "screen"
	KindWindow      Kind = "window"
	KindDiv         Kind = "div"
	KindText        Kind = "text"
	KindButton      Kind = "button"
	KindLink        Kind = "link"
	KindInputText   Kind = "input_text"
	KindSVG         Kind = "svg"
	KindSVGPath     Kind = "path"
	KindSVGCircle   Kind = "circle"
	KindSVGRect     Kind = "rect"
	KindSVGLine     Kind = "line"
	KindSVGPolyline Kind = "polyline"
	KindSVGPolygon  Kind = "polygon"
	KindTable       Kind = "table"
	KindTr          Kind = "tr"
	KindTd          Kind = "td"
	KindTh          Kind = "th"
	KindModal       Kind = "modal"
	KindCursor      Kind = "cursor"
)

// IsSVGPrimitive reports whether k is drawn inside an svg element.
func (k Kind) IsSVGPrimitive() bool {
	switch k {
	case KindSVGPath, KindSVGCircle, KindSVGRect, KindSVGLine, KindSVGPolyline, KindSVGPolygon:
		return true
	}
	return false
}

// ============================================================================
// Enumerations
// ============================================================================

// FlexDirection selects the primary axis of a container.
type FlexDirection string

const (
	FlexColumn FlexDirection = "column"
	FlexRow    FlexDirection = "row"
)

// Justify aligns children along the primary axis.
type Justify string

const (
	JustifyStart   Justify = "flex_start"
	JustifyCenter  Justify = "center"
	JustifyEnd     Justify = "flex_end"
	JustifyBetween Justify = "space_between"
)

// Align aligns children along the cross axis.
type Align string

const (
	AlignStart   Align = "flex_start"
	AlignCenter  Align = "center"
	AlignEnd     Align = "flex_end"
	AlignStretch Align = "stretch"
)

// Overflow controls clipping and vertical scrolling of content.
type Overflow string

const (
	OverflowVisible Overflow = "visible"
	OverflowHidden  Overflow = "hidden"
	OverflowScroll  Overflow = "scroll"
)

// Position selects normal flow or out-of-flow placement.
type Position string

const (
	PositionStatic   Position = "static"
	PositionRelative Position = "relative"
	PositionAbsolute Position = "absolute"
	PositionFixed    Position = "fixed"
)

func validEnum[T ~string](v T, allowed ...T) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// ============================================================================
// Dimensions
// ============================================================================

// Unit is the unit of a Dimension.
type Unit uint8

const (
	UnitAuto Unit = iota
	UnitPx
	UnitPercent
)

// Dimension is an explicit pixel size, a percentage of the parent's content
// box, or auto (the zero value).
type Dimension struct {
	Value float32
	Unit  Unit
}

// Px returns a pixel dimension.
func Px(v float32) Dimension { return Dimension{Value: v, Unit: UnitPx} }

// Percent returns a percentage dimension; 50 means half the parent.
func Percent(v float32) Dimension { return Dimension{Value: v, Unit: UnitPercent} }

// Auto is the unset dimension.
var Auto = Dimension{}

// IsAuto reports whether d is unset.
func (d Dimension) IsAuto() bool { return d.Unit == UnitAuto }

// IsPx reports whether d is a pixel size.
func (d Dimension) IsPx() bool { return d.Unit == UnitPx }

// IsPercent reports whether d is relative to the parent.
func (d Dimension) IsPercent() bool { return d.Unit == UnitPercent }

func (d Dimension) String() string {
	switch d.Unit {
	case UnitPx:
		return fmt.Sprintf("%gpx", d.Value)
	case UnitPercent:
		return fmt.Sprintf("%g%%", d.Value)
	default:
		return "auto"
	}
}

// ============================================================================
// Transitions
// ============================================================================

// AnimProp names a property that can be transitioned.
type AnimProp string

const (
	PropOpacity     AnimProp = "opacity"
	PropWidth       AnimProp = "width"
	PropHeight      AnimProp = "height"
	PropLeft        AnimProp = "left"
	PropTop         AnimProp = "top"
	PropBackground  AnimProp = "background_color"
	PropColor       AnimProp = "color"
	PropBorderColor AnimProp = "border_color"
)

// affectsLayout reports whether animating p needs a layout pass rather than
// only a repaint.
func (p AnimProp) affectsLayout() bool {
	switch p {
	case PropWidth, PropHeight, PropLeft, PropTop:
		return true
	}
	return false
}

func (p AnimProp) isColor() bool {
	switch p {
	case PropBackground, PropColor, PropBorderColor:
		return true
	}
	return false
}

func (p AnimProp) valid() bool {
	switch p {
	case PropOpacity, PropWidth, PropHeight, PropLeft, PropTop, PropBackground, PropColor, PropBorderColor:
		return true
	}
	return false
}

// Transition declares how a property animates when its value changes.
type Transition struct {
	Duration time.Duration
	// Easing is an easing name understood by EasingByName; empty is linear.
	Easing string
}

// Style is a partial set of animatable values, used for mount and unmount
// animations.
type Style struct {
	Opacity     *float32
	Width       *float32
	Height      *float32
	Left        *float32
	Top         *float32
	Background  *colors.Color
	Color       *colors.Color
	BorderColor *colors.Color
}

func (s *Style) value(p AnimProp) (animValue, bool) {
	if s == nil {
		return animValue{}, false
	}
	num := func(f *float32) (animValue, bool) {
		if f == nil {
			return animValue{}, false
		}
		return animValue{num: *f}, true
	}
	col := func(c *colors.Color) (animValue, bool) {
		if c == nil {
			return animValue{}, false
		}
		return animValue{color: *c, isColor: true}, true
	}
	switch p {
	case PropOpacity:
		return num(s.Opacity)
	case PropWidth:
		return num(s.Width)
	case PropHeight:
		return num(s.Height)
	case PropLeft:
		return num(s.Left)
	case PropTop:
		return num(s.Top)
	case PropBackground:
		return col(s.Background)
	case PropColor:
		return col(s.Color)
	case PropBorderColor:
		return col(s.BorderColor)
	}
	return animValue{}, false
}

// ============================================================================
// Props
// ============================================================================

// ActionEvent is passed to click handlers.
type ActionEvent struct {
	ID   string
	Kind Kind
	Pos  geom.Point
}

// Props are the properties shared by every element kind. Zero values mean
// "unset"; colors, fonts and opacity cascade from the nearest ancestor that
// sets them.
type Props struct {
	ID    string
	Class string

	Width, Height       Dimension
	MinWidth, MinHeight float32
	MaxWidth, MaxHeight float32

	Margin       geom.Spacing
	Padding      geom.Spacing
	Border       geom.Spacing
	BorderRadius surface.Radii

	Background     colors.Color
	BorderColor    colors.Color
	Color          colors.Color
	HighlightColor colors.Color
	Opacity        *float32

	FontSize   float32
	FontFamily string
	FontWeight int
	LineHeight float32

	FlexDirection  FlexDirection
	JustifyContent Justify
	AlignItems     Align
	AlignSelf      Align
	Flex           float32
	Gap            *float32

	Overflow Overflow
	Position Position
	Top      *float32
	Right    *float32
	Bottom   *float32
	Left     *float32
	ZIndex   int

	Draggable  bool
	DragHandle bool
	Autofocus  bool

	OnClick func(ActionEvent)

	Transition   map[AnimProp]Transition
	MountStyle   *Style
	UnmountStyle *Style
}

// Float returns a pointer to v, for optional numeric props.
func Float(v float32) *float32 { return &v }

// ColorPtr returns a pointer to c, for Style fields.
func ColorPtr(c colors.Color) *colors.Color { return &c }

func (p *Props) direction() FlexDirection {
	if p.FlexDirection == "" {
		return FlexColumn
	}
	return p.FlexDirection
}

func (p *Props) axis() geom.Axis {
	if p.direction() == FlexRow {
		return geom.Horizontal
	}
	return geom.Vertical
}

func (p *Props) justify() Justify {
	if p.JustifyContent == "" {
		return JustifyStart
	}
	return p.JustifyContent
}

func (p *Props) alignItems() Align {
	if p.AlignItems == "" {
		return AlignStretch
	}
	return p.AlignItems
}

func (p *Props) position() Position {
	if p.Position == "" {
		return PositionStatic
	}
	return p.Position
}

func (p *Props) outOfFlow() bool {
	pos := p.position()
	return pos == PositionAbsolute || pos == PositionFixed
}

// validate checks enum values and conflicting constraints.
func (p *Props) validate(kind Kind) error {
	el := string(kind)
	switch {
	case !validEnum(p.FlexDirection, FlexRow, FlexColumn):
		return errors.Invalid(el, p.ID, "flex_direction", "unknown value %q", p.FlexDirection)
	case !validEnum(p.JustifyContent, JustifyStart, JustifyCenter, JustifyEnd, JustifyBetween):
		return errors.Invalid(el, p.ID, "justify_content", "unknown value %q", p.JustifyContent)
	case !validEnum(p.AlignItems, AlignStart, AlignCenter, AlignEnd, AlignStretch):
		return errors.Invalid(el, p.ID, "align_items", "unknown value %q", p.AlignItems)
	case !validEnum(p.AlignSelf, AlignStart, AlignCenter, AlignEnd, AlignStretch):
		return errors.Invalid(el, p.ID, "align_self", "unknown value %q", p.AlignSelf)
	case !validEnum(p.Overflow, OverflowVisible, OverflowHidden, OverflowScroll):
		return errors.Invalid(el, p.ID, "overflow", "unknown value %q", p.Overflow)
	case !validEnum(p.Position, PositionStatic, PositionRelative, PositionAbsolute, PositionFixed):
		return errors.Invalid(el, p.ID, "position", "unknown value %q", p.Position)
	}
	if p.Width.Value < 0 || p.Height.Value < 0 || p.MinWidth < 0 || p.MinHeight < 0 || p.MaxWidth < 0 || p.MaxHeight < 0 {
		return errors.Invalid(el, p.ID, "width", "sizes must not be negative")
	}
	if p.MaxWidth > 0 && p.MinWidth > p.MaxWidth {
		return errors.Invalid(el, p.ID, "min_width", "min_width %g exceeds max_width %g", p.MinWidth, p.MaxWidth)
	}
	if p.MaxHeight > 0 && p.MinHeight > p.MaxHeight {
		return errors.Invalid(el, p.ID, "min_height", "min_height %g exceeds max_height %g", p.MinHeight, p.MaxHeight)
	}
	if p.Flex < 0 {
		return errors.Invalid(el, p.ID, "flex", "flex weight must not be negative")
	}
	if p.Opacity != nil && (*p.Opacity < 0 || *p.Opacity > 1) {
		return errors.Invalid(el, p.ID, "opacity", "must be within [0, 1], got %g", *p.Opacity)
	}
	if p.Left != nil && p.Right != nil && !p.Width.IsAuto() {
		return errors.Invalid(el, p.ID, "position", "left, right and width are all set")
	}
	if p.Top != nil && p.Bottom != nil && !p.Height.IsAuto() {
		return errors.Invalid(el, p.ID, "position", "top, bottom and height are all set")
	}
	hasOffset := p.Left != nil || p.Right != nil || p.Top != nil || p.Bottom != nil
	if hasOffset && p.position() == PositionStatic {
		return errors.Invalid(el, p.ID, "position", "offsets require a non-static position")
	}
	for prop, tr := range p.Transition {
		if !prop.valid() {
			return errors.Invalid(el, p.ID, "transition", "property %q cannot be animated", prop)
		}
		if tr.Duration < 0 {
			return errors.Invalid(el, p.ID, "transition", "negative duration for %q", prop)
		}
		if tr.Easing != "" && EasingByName(tr.Easing) == nil {
			return errors.Invalid(el, p.ID, "transition", "unknown easing %q", tr.Easing)
		}
	}
	if p.ID != "" && strings.ContainsAny(p.ID, " \t\n") {
		return errors.Invalid(el, p.ID, "id", "ids must not contain whitespace")
	}
	return nil
}

// animValue reads an animatable property.
func (p *Props) animValue(prop AnimProp) (animValue, bool) {
	switch prop {
	case PropOpacity:
		if p.Opacity == nil {
			return animValue{num: 1}, true
		}
		return animValue{num: *p.Opacity}, true
	case PropWidth:
		if !p.Width.IsPx() {
			return animValue{}, false
		}
		return animValue{num: p.Width.Value}, true
	case PropHeight:
		if !p.Height.IsPx() {
			return animValue{}, false
		}
		return animValue{num: p.Height.Value}, true
	case PropLeft:
		if p.Left == nil {
			return animValue{}, false
		}
		return animValue{num: *p.Left}, true
	case PropTop:
		if p.Top == nil {
			return animValue{}, false
		}
		return animValue{num: *p.Top}, true
	case PropBackground:
		return animValue{color: p.Background, isColor: true}, true
	case PropColor:
		return animValue{color: p.Color, isColor: true}, true
	case PropBorderColor:
		return animValue{color: p.BorderColor, isColor: true}, true
	}
	return animValue{}, false
}

// setAnimValue writes an animatable property.
func (p *Props) setAnimValue(prop AnimProp, v animValue) {
	switch prop {
	case PropOpacity:
		p.Opacity = Float(v.num)
	case PropWidth:
		p.Width = Px(v.num)
	case PropHeight:
		p.Height = Px(v.num)
	case PropLeft:
		p.Left = Float(v.num)
	case PropTop:
		p.Top = Float(v.num)
	case PropBackground:
		p.Background = v.color
	case PropColor:
		p.Color = v.color
	case PropBorderColor:
		p.BorderColor = v.color
	}
}

// ============================================================================
// Kind-specific props
// ============================================================================

// ScreenProps configure the root element covering one host screen.
type ScreenProps struct {
	Props
	// Screen is the index into Host.Screens().
	Screen int
}

// InputProps configure a native text input.
type InputProps struct {
	Props
	Value       string
	Placeholder string
	OnChange    func(value string)
}

// SVGProps configure an svg element. Primitives are drawn on a 24-unit
// viewbox scaled to Size.
type SVGProps struct {
	Props
	Size        float32
	Stroke      colors.Color
	Fill        colors.Color
	StrokeWidth float32
	LineCap     surface.LineCap
	LineJoin    surface.LineJoin
}

// ShapeProps are the paint overrides shared by svg primitives. Unset values
// fall back to the enclosing svg.
type ShapeProps struct {
	Stroke      colors.Color
	Fill        colors.Color
	StrokeWidth float32
	LineCap     *surface.LineCap
	LineJoin    *surface.LineJoin
}

// WindowProps configure a draggable window with a title bar.
type WindowProps struct {
	Props
	Title        string
	HideTitleBar bool
	HideClose    bool
	OnClose      func()
}

// ModalProps configure a full-screen modal overlay.
type ModalProps struct {
	Props
	Open     bool
	Backdrop colors.Color
	OnClose  func()
}
