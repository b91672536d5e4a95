// Package surfacetest provides an in-memory surface.Host that records every
// draw call. Repaints run synchronously inside Freeze so tests observe a
// finished frame as soon as a render completes.
package surfacetest

import (
	"fmt"

	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

// Host is a fake surface.Host.
type Host struct {
	ScreenRects []geom.Rect
	Measurer    surface.Measurer
	Mouse       geom.Point
	// DeferPaint makes Freeze only mark the canvas dirty; Flush paints.
	DeferPaint  bool

	Canvases []*Canvas
	Inputs   []*TextInput
}

// NewHost returns a host with one 1920x1080 screen and the cell measurer, so
// text widths are exact multiples of the font size.
func NewHost() *Host {
	return &Host{
		ScreenRects: []geom.Rect{{Width: 1920, Height: 1080}},
		Measurer:    surface.NewCellMeasurer(),
	}
}

// Screens implements surface.Host.
func (h *Host) Screens() []geom.Rect { return h.ScreenRects }

// MousePos implements surface.Host.
func (h *Host) MousePos() geom.Point { return h.Mouse }

// MeasureText lets the host serve as the layout measurer.
func (h *Host) MeasureText(text string, f surface.Font) (surface.TextMetrics, error) {
	return h.Measurer.MeasureText(text, f)
}

// CreateCanvas implements surface.Host.
func (h *Host) CreateCanvas(rect geom.Rect) (surface.Canvas, error) {
	c := &Canvas{host: h, rect: rect}
	h.Canvases = append(h.Canvases, c)
	return c, nil
}

// CreateTextInput implements surface.Host.
func (h *Host) CreateTextInput() (surface.TextInput, error) {
	in := &TextInput{}
	h.Inputs = append(h.Inputs, in)
	return in, nil
}

// Flush paints pending frames until none are left, including frames
// requested while painting.
func (h *Host) Flush() {
	for {
		painted := false
		for _, c := range h.Canvases {
			if c.Flush() {
				painted = true
			}
		}
		if !painted {
			return
		}
	}
}

// Open returns the canvases that have not been closed.
func (h *Host) Open() []*Canvas {
	var open []*Canvas
	for _, c := range h.Canvases {
		if !c.closed {
			open = append(open, c)
		}
	}
	return open
}

// ============================================================================
// Canvas
// ============================================================================

// Canvas records the ops of its most recent frame.
type Canvas struct {
	host     *Host
	rect     geom.Rect
	handlers surface.Handlers
	closed   bool
	pending  bool

	Regions []geom.Rect
	Frames  int
	ops     []Op
}

func (c *Canvas) Rect() geom.Rect { return c.rect }
func (c *Canvas) SetRect(r geom.Rect) { c.rect = r }
func (c *Canvas) Register(h surface.Handlers) { c.handlers = h }
func (c *Canvas) Unregister() { c.handlers = surface.Handlers{} }
func (c *Canvas) SetInputRegions(rs []geom.Rect) { c.Regions = append([]geom.Rect(nil), rs...) }
func (c *Canvas) Closed() bool { return c.closed }

// Close implements surface.Canvas.
func (c *Canvas) Close() {
	c.closed = true
	c.handlers = surface.Handlers{}
}

// Freeze paints a frame synchronously, or marks one pending when the host
// defers painting.
func (c *Canvas) Freeze() {
	if c.closed || c.handlers.Draw == nil {
		return
	}
	if c.host.DeferPaint {
		c.pending = true
		return
	}
	c.paint()
}

// Flush paints a pending frame and reports whether there was one.
func (c *Canvas) Flush() bool {
	if !c.pending || c.closed || c.handlers.Draw == nil {
		c.pending = false
		return false
	}
	c.pending = false
	c.paint()
	return true
}

func (c *Canvas) paint() {
	p := &Painter{measurer: c.host.Measurer}
	c.handlers.Draw(p)
	c.ops = p.Ops
	c.Frames++
}

// Ops returns the ops of the last painted frame.
func (c *Canvas) Ops() []Op { return c.ops }

// Texts returns the strings drawn in the last frame, in paint order.
func (c *Canvas) Texts() []string {
	var out []string
	for _, op := range c.ops {
		if op.Name == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// Count returns how many ops named name were in the last frame.
func (c *Canvas) Count(name string) int {
	n := 0
	for _, op := range c.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// MouseMove delivers a move event.
func (c *Canvas) MouseMove(x, y float32) { c.mouse(surface.MouseMove, x, y) }

// MouseDown delivers a left-button press.
func (c *Canvas) MouseDown(x, y float32) { c.mouse(surface.MouseDown, x, y) }

// MouseUp delivers a left-button release.
func (c *Canvas) MouseUp(x, y float32) { c.mouse(surface.MouseUp, x, y) }

// Click delivers down and up at the same point.
func (c *Canvas) Click(x, y float32) {
	c.MouseDown(x, y)
	c.MouseUp(x, y)
}

func (c *Canvas) mouse(kind surface.MouseKind, x, y float32) {
	c.host.Mouse = geom.Point{X: x, Y: y}
	if c.handlers.Mouse != nil {
		c.handlers.Mouse(surface.MouseEvent{Kind: kind, Pos: c.host.Mouse})
	}
}

// Scroll delivers a wheel event.
func (c *Canvas) Scroll(x, y, dy float32) {
	if c.handlers.Scroll != nil {
		c.handlers.Scroll(surface.ScrollEvent{Pos: geom.Point{X: x, Y: y}, Delta: geom.Point{Y: dy}})
	}
}

// Key delivers a key press.
func (c *Canvas) Key(key string, mods surface.Modifiers) {
	if c.handlers.Key != nil {
		c.handlers.Key(surface.KeyEvent{Key: key, Mods: mods, Down: true})
	}
}

// ============================================================================
// Painter
// ============================================================================

// Op is one recorded draw call.
type Op struct {
	Name  string
	Rect  geom.Rect
	Color colors.Color
	Text  string
	Value float32
	Path  *surface.Path
}

func (o Op) String() string {
	if o.Text != "" {
		return fmt.Sprintf("%s(%q @ %v)", o.Name, o.Text, o.Rect)
	}
	return fmt.Sprintf("%s(%v %s)", o.Name, o.Rect, o.Color)
}

// Painter records draw calls.
type Painter struct {
	measurer surface.Measurer
	fill     colors.Color
	stroke   colors.Color

	Ops []Op
}

func (p *Painter) MeasureText(text string, f surface.Font) (surface.TextMetrics, error) {
	return p.measurer.MeasureText(text, f)
}

func (p *Painter) color(mode surface.Mode) colors.Color {
	if mode == surface.Stroke {
		return p.stroke
	}
	return p.fill
}

func (p *Painter) record(op Op) { p.Ops = append(p.Ops, op) }

func (p *Painter) SetFill(c colors.Color) { p.fill = c }
func (p *Painter) SetStroke(c colors.Color) { p.stroke = c }
func (p *Painter) SetStrokeWidth(w float32) { p.record(Op{Name: "stroke_width", Value: w}) }
func (p *Painter) SetStrokeCap(surface.LineCap) {}
func (p *Painter) SetStrokeJoin(surface.LineJoin) {}
func (p *Painter) Save() { p.record(Op{Name: "save"}) }
func (p *Painter) Restore() { p.record(Op{Name: "restore"}) }
func (p *Painter) ClipRect(r geom.Rect) { p.record(Op{Name: "clip_rect", Rect: r}) }
func (p *Painter) ClipPath(path *surface.Path) { p.record(Op{Name: "clip_path", Path: path}) }
func (p *Painter) Translate(dx, dy float32) { p.record(Op{Name: "translate", Rect: geom.Rect{X: dx, Y: dy}}) }
func (p *Painter) DrawLine(from, to geom.Point) { p.record(Op{Name: "line", Rect: geom.Rect{X: from.X, Y: from.Y, Width: to.X - from.X, Height: to.Y - from.Y}, Color: p.stroke}) }

func (p *Painter) DrawRect(r geom.Rect, mode surface.Mode) {
	p.record(Op{Name: "rect", Rect: r, Color: p.color(mode)})
}

func (p *Painter) DrawRoundRect(r geom.Rect, radius float32, mode surface.Mode) {
	p.record(Op{Name: "round_rect", Rect: r, Color: p.color(mode), Value: radius})
}

func (p *Painter) DrawCircle(c geom.Point, radius float32, mode surface.Mode) {
	p.record(Op{Name: "circle", Rect: geom.Rect{X: c.X - radius, Y: c.Y - radius, Width: radius * 2, Height: radius * 2}, Color: p.color(mode)})
}

func (p *Painter) DrawPolyline(points []geom.Point, closed bool, mode surface.Mode) {
	name := "polyline"
	if closed {
		name = "polygon"
	}
	p.record(Op{Name: name, Color: p.color(mode), Value: float32(len(points))})
}

func (p *Painter) DrawPath(path *surface.Path, mode surface.Mode) {
	p.record(Op{Name: "path", Color: p.color(mode), Path: path})
}

func (p *Painter) DrawText(text string, f surface.Font, pos geom.Point) {
	m, _ := p.measurer.MeasureText(text, f)
	p.record(Op{Name: "text", Text: text, Rect: geom.Rect{X: pos.X, Y: pos.Y, Width: m.Width, Height: m.LineHeight}, Color: p.fill})
}

// ============================================================================
// Text input
// ============================================================================

// TextInput is a fake native input.
type TextInput struct {
	rect     geom.Rect
	clip     geom.Rect
	value    string
	style    surface.TextInputStyle
	onChange func(string)
	Focused  bool
	Closed   bool
}

func (t *TextInput) Rect() geom.Rect { return t.rect }
func (t *TextInput) SetRect(r geom.Rect) { t.rect = r }
func (t *TextInput) SetClip(r geom.Rect) { t.clip = r }
func (t *TextInput) Clip() geom.Rect { return t.clip }
func (t *TextInput) Value() string { return t.value }
func (t *TextInput) SetValue(v string) { t.value = v }
func (t *TextInput) SetStyle(s surface.TextInputStyle) { t.style = s }
func (t *TextInput) Style() surface.TextInputStyle { return t.style }
func (t *TextInput) OnChange(fn func(string)) { t.onChange = fn }
func (t *TextInput) Focus() { t.Focused = true }
func (t *TextInput) Close() { t.Closed = true }

// Type simulates the user editing the value.
func (t *TextInput) Type(v string) {
	t.value = v
	if t.onChange != nil {
		t.onChange(v)
	}
}
