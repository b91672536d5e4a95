// Package surface defines the host collaborator the UI core paints onto and
// receives input from. Hosts implement Host and Canvas; the core never talks
// to a windowing system directly.
package surface

import (
	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/geom"
)

// Host creates canvases and native widgets on the host's screens.
type Host interface {
	// Screens returns the bounds of every screen, main screen first.
	Screens() []geom.Rect
	// CreateCanvas opens a transparent drawing surface covering rect.
	CreateCanvas(rect geom.Rect) (Canvas, error)
	// CreateTextInput opens a native single-line text input widget.
	CreateTextInput() (TextInput, error)
	// MousePos returns the current global pointer position.
	MousePos() geom.Point
}

// Handlers are the callbacks a canvas delivers. Nil fields are not delivered.
type Handlers struct {
	Draw   func(Painter)
	Mouse  func(MouseEvent)
	Scroll func(ScrollEvent)
	Key    func(KeyEvent)
}

// Canvas is one host drawing surface.
type Canvas interface {
	Rect() geom.Rect
	SetRect(r geom.Rect)
	// Register replaces the delivered callbacks.
	Register(h Handlers)
	// Unregister stops all callback delivery.
	Unregister()
	// SetInputRegions limits where the canvas captures mouse input; events
	// outside every region pass through to whatever is underneath.
	SetInputRegions(regions []geom.Rect)
	// Freeze asks the host to repaint, which invokes the Draw handler.
	Freeze()
	Close()
}

// TextInputStyle themes a native text input.
type TextInputStyle struct {
	Font            Font
	Color           colors.Color
	BackgroundColor colors.Color
	BorderColor     colors.Color
	BorderWidth     float32
	BorderRadius    float32
	Placeholder     string
}

// TextInput is a native editable text widget owned by the host. The core only
// positions it and reads its value.
type TextInput interface {
	Rect() geom.Rect
	SetRect(r geom.Rect)
	// SetClip restricts the visible part of the widget, used when it sits
	// inside a scrolled container. An empty rect clears the clip.
	SetClip(r geom.Rect)
	Value() string
	SetValue(v string)
	SetStyle(s TextInputStyle)
	// OnChange registers the value-change callback, replacing any previous one.
	OnChange(fn func(value string))
	Focus()
	Close()
}

// ============================================================================
// Events
// ============================================================================

// MouseKind distinguishes mouse events.
type MouseKind int

const (
	MouseMove MouseKind = iota
	MouseDown
	MouseUp
)

func (k MouseKind) String() string {
	switch k {
	case MouseDown:
		return "down"
	case MouseUp:
		return "up"
	default:
		return "move"
	}
}

// MouseEvent is a pointer event in global coordinates.
type MouseEvent struct {
	Kind   MouseKind
	Button int
	Pos    geom.Point
}

// ScrollEvent carries either wheel notches or precise trackpad pixels.
type ScrollEvent struct {
	Pos      geom.Point
	Delta    geom.Point
	Trackpad bool
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModCmd
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Cmd() bool   { return m&ModCmd != 0 }

// KeyEvent is a key press or release.
type KeyEvent struct {
	Key  string
	Mods Modifiers
	Down bool
}

// ============================================================================
// Painting
// ============================================================================

// Mode selects filling or stroking for shape primitives.
type Mode int

const (
	Fill Mode = iota
	Stroke
)

// LineCap is the stroke end style.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// LineJoin is the stroke corner style.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Font describes the text style to measure or draw.
type Font struct {
	Family string
	Size   float32
	Weight int
}

// TextMetrics is the measured extent of a single line of text.
type TextMetrics struct {
	Width      float32
	LineHeight float32
}

// Measurer measures single-line text.
type Measurer interface {
	MeasureText(text string, font Font) (TextMetrics, error)
}

// Painter is the immediate-mode drawing API handed to Draw callbacks.
type Painter interface {
	Measurer

	SetFill(c colors.Color)
	SetStroke(c colors.Color)
	SetStrokeWidth(w float32)
	SetStrokeCap(c LineCap)
	SetStrokeJoin(j LineJoin)

	DrawRect(r geom.Rect, mode Mode)
	DrawRoundRect(r geom.Rect, radius float32, mode Mode)
	DrawCircle(center geom.Point, radius float32, mode Mode)
	DrawLine(from, to geom.Point)
	DrawPolyline(points []geom.Point, closed bool, mode Mode)
	DrawPath(p *Path, mode Mode)
	// DrawText draws one line with its top-left corner at pos.
	DrawText(text string, font Font, pos geom.Point)

	Save()
	Restore()
	ClipRect(r geom.Rect)
	ClipPath(p *Path)
	Translate(dx, dy float32)
}
