package surface

import (
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FaceMeasurer measures text with a golang.org/x/image font face, scaling the
// face's metrics from BaseSize to the requested font size.
type FaceMeasurer struct {
	Face     font.Face
	BaseSize float32

	mu sync.Mutex
}

// NewFaceMeasurer returns a measurer for face rendered at baseSize pixels.
func NewFaceMeasurer(face font.Face, baseSize float32) *FaceMeasurer {
	return &FaceMeasurer{Face: face, BaseSize: baseSize}
}

// DefaultFaceMeasurer uses the built-in 7x13 bitmap face.
func DefaultFaceMeasurer() *FaceMeasurer {
	return NewFaceMeasurer(basicfont.Face7x13, 13)
}

// MeasureText implements Measurer.
func (m *FaceMeasurer) MeasureText(text string, f Font) (TextMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scale := float32(1)
	if f.Size > 0 && m.BaseSize > 0 {
		scale = f.Size / m.BaseSize
	}
	adv := font.MeasureString(m.Face, text)
	h := m.Face.Metrics().Height
	return TextMetrics{
		Width:      float32(adv) / 64 * scale,
		LineHeight: float32(h) / 64 * scale,
	}, nil
}

// CellMeasurer measures text on a monospace cell grid using East Asian width
// rules, for hosts that render with fixed-pitch fonts.
type CellMeasurer struct {
	// Aspect is cell width as a fraction of font size.
	Aspect float32
	// LineHeight is line height as a multiple of font size.
	LineHeight float32
}

// NewCellMeasurer returns a measurer with common monospace proportions.
func NewCellMeasurer() *CellMeasurer {
	return &CellMeasurer{Aspect: 0.6, LineHeight: 1.2}
}

// MeasureText implements Measurer.
func (m *CellMeasurer) MeasureText(text string, f Font) (TextMetrics, error) {
	cells := runewidth.StringWidth(text)
	return TextMetrics{
		Width:      float32(cells) * f.Size * m.Aspect,
		LineHeight: f.Size * m.LineHeight,
	}, nil
}
