package retained

import (
	"github.com/chewxy/math32"

	"github.com/agiangrant/canvasui/geom"
)

// tableElement sizes every column to its widest cell and every row to its
// tallest cell or its explicit height, then lays rows and cells out with the ordinary container
// algorithm.
type tableElement struct{ container }

type tableGrid struct {
	cols []float32
	rows []float32
}

func (e tableElement) measure(n *Node, lc *layoutContext) (geom.Size, error) {
	var g tableGrid
	var gap float32
	if n.Props.Gap != nil {
		gap = *n.Props.Gap
	}
	for i, tr := range n.Children {
		g.rows = append(g.rows, 0)
		for j, cell := range tr.Children {
			sz, err := cell.impl.measure(cell, lc)
			if err != nil {
				return geom.Size{}, err
			}
			if j >= len(g.cols) {
				g.cols = append(g.cols, 0)
			}
			g.cols[j] = math32.Max(g.cols[j], sz.Width)
			g.rows[i] = math32.Max(g.rows[i], sz.Height)
		}
		if tr.Props.Height.IsPx() {
			g.rows[i] = math32.Max(g.rows[i], tr.Props.Height.Value-tr.box.chrome(geom.Vertical))
		}
	}
	var rowWidth float32
	for j, w := range g.cols {
		if j > 0 {
			rowWidth += gap
		}
		rowWidth += w
	}
	for i, tr := range n.Children {
		tr.Props.Gap = Float(gap)
		tr.box.MeasureIntrinsic(geom.Size{Width: rowWidth, Height: g.rows[i]})
	}
	n.Props.Gap = Float(gap)
	n.table = &g
	return n.box.MeasureIntrinsic(accumulate(n, lc)), nil
}

func (e tableElement) grow(n *Node, lc *layoutContext) {
	if g := n.table; g != nil {
		for i, tr := range n.Children {
			for j, cell := range tr.Children {
				cell.box.GrowTo(geom.Horizontal, g.cols[j])
				cell.box.GrowTo(geom.Vertical, g.rows[i])
			}
		}
	}
	growChildren(n, lc)
}
