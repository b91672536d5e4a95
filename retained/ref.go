package retained

import "github.com/agiangrant/canvasui/geom"

// Ref addresses one element by id across renders. Mutations made through a
// ref are remembered and reapplied to every later render of that id until
// the id disappears.
type Ref struct {
	tree *Tree
	id   string
}

// Ref returns a handle for id. The id need not exist yet.
func (t *Tree) Ref(id string) *Ref { return &Ref{tree: t, id: id} }

// ID returns the referenced id.
func (r *Ref) ID() string { return r.id }

// Node returns the current node, if the id is in the last render.
func (r *Ref) Node() (*Node, bool) { return r.tree.nodeByID(r.id) }

// Rect returns the border rect of the current node.
func (r *Ref) Rect() (geom.Rect, bool) {
	n, ok := r.Node()
	if !ok {
		return geom.Rect{}, false
	}
	return n.box.BorderRect, true
}

// Text returns the content of a text node.
func (r *Ref) Text() string {
	if n, ok := r.Node(); ok {
		return n.text
	}
	return ""
}

// SetText replaces the content of a text node and relayouts without
// calling the constructor.
func (r *Ref) SetText(s string) {
	t := r.tree
	if t.destroyed {
		return
	}
	t.meta.overrideFor(r.id).text = &s
	if n, ok := r.Node(); ok && n.Kind == KindText {
		n.text = s
	}
	t.queue(CauseTextMutation)
}

// Update records a property mutation. fn sees the props of the current
// render; the fields it changes are kept and reapplied to later renders.
// It takes effect on a debounced full render, so bursts of updates cost
// one render.
func (r *Ref) Update(fn func(p *Props)) {
	t := r.tree
	if t.destroyed {
		return
	}
	var base Props
	if n, ok := r.Node(); ok {
		base = n.Props
	}
	t.meta.overrideFor(r.id).record(base, fn)
	t.queue(CauseRefMutation)
}

// Value returns the current value of an input's host widget.
func (r *Ref) Value() string {
	if in, ok := r.tree.meta.inputs[r.id]; ok && in.widget != nil {
		return in.widget.Value()
	}
	if n, ok := r.Node(); ok && n.input != nil {
		return n.input.Value
	}
	return ""
}

// SetValue sets the value of an input's host widget.
func (r *Ref) SetValue(v string) {
	if in, ok := r.tree.meta.inputs[r.id]; ok && in.widget != nil {
		in.widget.SetValue(v)
	}
}

// Focus gives the element keyboard focus.
func (r *Ref) Focus() {
	if _, ok := r.Node(); ok {
		r.tree.focus(r.id)
	}
}
