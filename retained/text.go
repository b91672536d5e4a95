package retained

import (
	"math"
	"strings"

	"github.com/chewxy/math32"

	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

type textLine struct {
	text  string
	width float32
}

type textElement struct{}

func (textElement) lineHeight(n *Node, m surface.Measurer) (float32, error) {
	tm, err := m.MeasureText("", n.style.font)
	if err != nil {
		return 0, err
	}
	lh := n.style.font.Size * n.style.lineHeight
	return math32.Max(lh, tm.LineHeight), nil
}

func (e textElement) measure(n *Node, lc *layoutContext) (geom.Size, error) {
	if lc.measurer == nil {
		return geom.Size{}, errors.Wrap("measure", errors.KindMeasure, "", errors.ErrNoSurface)
	}
	limit := math32.Inf(1)
	chrome := n.box.chrome(geom.Horizontal)
	switch {
	case n.Props.Width.IsPx():
		limit = n.Props.Width.Value - chrome
	case n.Props.MaxWidth > 0:
		limit = n.Props.MaxWidth - chrome
	}
	lines, err := wrapText(n.text, limit, lc.measurer, n.style.font)
	if err != nil {
		return geom.Size{}, errors.Wrap("measure", errors.KindMeasure, "", err)
	}
	lh, err := e.lineHeight(n, lc.measurer)
	if err != nil {
		return geom.Size{}, errors.Wrap("measure", errors.KindMeasure, "", err)
	}
	n.lines = lines
	n.lineH = lh
	var w float32
	for _, l := range lines {
		w = math32.Max(w, l.width)
	}
	h := lh*float32(len(lines)) + textLineGap(n)*float32(len(lines)-1)
	return n.box.MeasureIntrinsic(geom.Size{Width: w, Height: h}), nil
}

// textLineGap is the space between wrapped lines of a text node.
func textLineGap(n *Node) float32 {
	if n.Props.Gap != nil {
		return *n.Props.Gap
	}
	return 0
}

func (textElement) grow(*Node, *layoutContext) {}

func (textElement) constrain(n *Node, available geom.Size, _ *layoutContext) {
	n.box.Constrain(available)
}

func (textElement) layout(n *Node, cursor geom.Point, lc *layoutContext) {
	placeBox(n, cursor, lc)
}

func (textElement) paint(n *Node, pc *paintContext) {
	paintBox(n, pc)
	if len(n.lines) == 0 {
		return
	}
	step := n.lineH + textLineGap(n)
	pos := n.box.ContentChildrenRect.Pos()
	pc.p.SetFill(n.paintColor(n.style.color))
	for i, l := range n.lines {
		if l.text == "" {
			continue
		}
		pc.p.DrawText(l.text, n.style.font, geom.Point{X: pos.X, Y: pos.Y + step*float32(i)})
	}
}

// wrapText breaks text into lines at explicit newlines and, when limit is
// finite, greedily at spaces so no line exceeds limit. A single word wider
// than limit stays on its own line.
func wrapText(text string, limit float32, m surface.Measurer, f surface.Font) ([]textLine, error) {
	var lines []textLine
	width := func(s string) (float32, error) {
		tm, err := m.MeasureText(s, f)
		return tm.Width, err
	}
	for _, para := range strings.Split(text, "\n") {
		if limit >= math.MaxFloat32 {
			w, err := width(para)
			if err != nil {
				return nil, err
			}
			lines = append(lines, textLine{text: para, width: w})
			continue
		}
		words := strings.Split(para, " ")
		line := ""
		var lineW float32
		for _, word := range words {
			cand := word
			if line != "" {
				cand = line + " " + word
			}
			w, err := width(cand)
			if err != nil {
				return nil, err
			}
			if w <= limit || line == "" {
				line, lineW = cand, w
				continue
			}
			lines = append(lines, textLine{text: line, width: lineW})
			line = word
			if lineW, err = width(word); err != nil {
				return nil, err
			}
		}
		lines = append(lines, textLine{text: line, width: lineW})
	}
	return lines, nil
}
