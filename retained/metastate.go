package retained

import (
	"reflect"

	"github.com/chewxy/math32"

	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

// Scrollable is the scroll position of one scrolling node. Offsets are zero
// or negative: content moves up as the user scrolls down.
type Scrollable struct {
	Offset float32
	lo     float32
}

// Clamp keeps the offset within [lo, 0] and reports whether it moved.
func (s *Scrollable) Clamp(lo float32) bool {
	s.lo = lo
	clamped := math32.Max(lo, math32.Min(0, s.Offset))
	changed := clamped != s.Offset
	s.Offset = clamped
	return changed
}

// ScrollBy moves the offset by -delta within the last known range and
// reports whether it moved.
func (s *Scrollable) ScrollBy(delta float32) bool {
	before := s.Offset
	s.Offset -= delta
	s.Clamp(s.lo)
	return s.Offset != before
}

// Reevaluate records a new range after layout. An offset that no longer
// fits resets to the top.
func (s *Scrollable) Reevaluate(lo float32) float32 {
	s.lo = lo
	if s.Offset < lo || s.Offset > 0 {
		s.Offset = 0
	}
	return s.Offset
}

// Draggable is the drag state of one draggable node.
type Draggable struct {
	// Committed is the offset accumulated by finished drags.
	Committed geom.Point
	// Live is the delta of the drag in progress.
	Live geom.Point
}

type inputState struct {
	widget surface.TextInput
	// declared is the value the constructor last asked for. The widget is
	// only overwritten when it changes, so typing is not undone by renders.
	declared string
	onChange func(string)
}

type override struct {
	text *string
	// fields maps Props field indexes to their overridden values. Repeated
	// updates of a field replace its entry.
	fields map[int]reflect.Value
}

// record applies fn to base with the fields already overridden and keeps
// every field it changed.
func (o *override) record(base Props, fn func(*Props)) {
	o.apply(&base)
	after := base
	fn(&after)
	bv, av := reflect.ValueOf(base), reflect.ValueOf(after)
	if o.fields == nil {
		o.fields = map[int]reflect.Value{}
	}
	for i := 0; i < av.NumField(); i++ {
		b, a := bv.Field(i), av.Field(i)
		var changed bool
		if a.Kind() == reflect.Func {
			changed = a.Pointer() != b.Pointer()
		} else {
			changed = !reflect.DeepEqual(b.Interface(), a.Interface())
		}
		if changed {
			o.fields[i] = a
		}
	}
}

func (o *override) apply(p *Props) {
	pv := reflect.ValueOf(p).Elem()
	for i, v := range o.fields {
		pv.Field(i).Set(v)
	}
}

// MetaState is the per-tree state that survives re-renders, keyed by node
// id. Id to node mappings are double-buffered: a render prepares a new
// mapping and commits it only once the new graph is complete.
type MetaState struct {
	ids     map[string]NodeRef
	pending map[string]NodeRef

	highlighted map[string]colors.Color
	scrolls     map[string]*Scrollable
	drags       map[string]*Draggable
	inputs      map[string]*inputState
	overrides   map[string]*override
	hints       map[string]string

	focused  string
	hovered  string
	dragging string
	cursor   geom.Point
}

// NewMetaState returns empty meta state.
func NewMetaState() *MetaState {
	return &MetaState{
		ids:         map[string]NodeRef{},
		highlighted: map[string]colors.Color{},
		scrolls:     map[string]*Scrollable{},
		drags:       map[string]*Draggable{},
		inputs:      map[string]*inputState{},
		overrides:   map[string]*override{},
		hints:       map[string]string{},
	}
}

// PrepareNodeTransition starts collecting the id mapping of a new graph.
func (m *MetaState) PrepareNodeTransition() {
	m.pending = map[string]NodeRef{}
}

func (m *MetaState) register(id string, ref NodeRef) {
	if m.pending != nil {
		m.pending[id] = ref
	}
}

// AbortNodeTransition drops a prepared mapping.
func (m *MetaState) AbortNodeTransition() { m.pending = nil }

// CommitNodeTransition makes the prepared mapping current and prunes state
// of ids that disappeared. It returns the input widgets of removed inputs
// so the caller can close them.
func (m *MetaState) CommitNodeTransition() []surface.TextInput {
	if m.pending == nil {
		return nil
	}
	m.ids = m.pending
	m.pending = nil
	return m.prune()
}

func (m *MetaState) prune() []surface.TextInput {
	live := func(id string) bool {
		_, ok := m.ids[id]
		return ok
	}
	for id := range m.highlighted {
		if !live(id) {
			delete(m.highlighted, id)
		}
	}
	for id := range m.scrolls {
		if !live(id) {
			delete(m.scrolls, id)
		}
	}
	for id := range m.drags {
		if !live(id) {
			delete(m.drags, id)
		}
	}
	for id := range m.overrides {
		if !live(id) {
			delete(m.overrides, id)
		}
	}
	for id := range m.hints {
		if !live(id) {
			delete(m.hints, id)
		}
	}
	var closed []surface.TextInput
	for id, in := range m.inputs {
		if !live(id) {
			if in.widget != nil {
				closed = append(closed, in.widget)
			}
			delete(m.inputs, id)
		}
	}
	if !live(m.focused) {
		m.focused = ""
	}
	if !live(m.hovered) {
		m.hovered = ""
	}
	if !live(m.dragging) {
		m.dragging = ""
	}
	return closed
}

// Node resolves an id against the committed mapping.
func (m *MetaState) Node(id string) (NodeRef, bool) {
	ref, ok := m.ids[id]
	return ref, ok
}

// IDs returns the number of committed ids.
func (m *MetaState) IDs() int { return len(m.ids) }

// SetHighlighted highlights id with c and reports whether anything changed.
func (m *MetaState) SetHighlighted(id string, c colors.Color) bool {
	if prev, ok := m.highlighted[id]; ok && prev == c {
		return false
	}
	m.highlighted[id] = c
	return true
}

// SetUnhighlighted clears the highlight of id and reports whether it was set.
func (m *MetaState) SetUnhighlighted(id string) bool {
	if _, ok := m.highlighted[id]; !ok {
		return false
	}
	delete(m.highlighted, id)
	return true
}

// IsHighlighted reports whether id is highlighted.
func (m *MetaState) IsHighlighted(id string) bool {
	_, ok := m.highlighted[id]
	return ok
}

func (m *MetaState) highlightColor(id string) (colors.Color, bool) {
	c, ok := m.highlighted[id]
	return c, ok
}

// Scrollable returns the scroll state of id, creating it at offset zero.
func (m *MetaState) Scrollable(id string) *Scrollable {
	s, ok := m.scrolls[id]
	if !ok {
		s = &Scrollable{}
		m.scrolls[id] = s
	}
	return s
}

// Draggable returns the drag state of id, creating it.
func (m *MetaState) Draggable(id string) *Draggable {
	d, ok := m.drags[id]
	if !ok {
		d = &Draggable{}
		m.drags[id] = d
	}
	return d
}

func (m *MetaState) committedDrag(id string) geom.Point {
	if d, ok := m.drags[id]; ok {
		return d.Committed
	}
	return geom.Point{}
}

func (m *MetaState) liveDrag(id string) geom.Point {
	if d, ok := m.drags[id]; ok {
		return d.Live
	}
	return geom.Point{}
}

// StartDrag marks id as being dragged.
func (m *MetaState) StartDrag(id string) {
	m.dragging = id
	m.Draggable(id).Live = geom.Point{}
}

// Drag sets the live delta of the drag in progress.
func (m *MetaState) Drag(delta geom.Point) {
	if m.dragging == "" {
		return
	}
	m.Draggable(m.dragging).Live = delta
}

// CommitDragOffset folds the live delta into the committed offset and ends
// the drag. It returns the new committed offset.
func (m *MetaState) CommitDragOffset(id string) geom.Point {
	d := m.Draggable(id)
	d.Committed = d.Committed.Add(d.Live)
	d.Live = geom.Point{}
	if m.dragging == id {
		m.dragging = ""
	}
	return d.Committed
}

// Dragging returns the id being dragged, if any.
func (m *MetaState) Dragging() string { return m.dragging }

// Focused returns the focused id.
func (m *MetaState) Focused() string { return m.focused }

// Hovered returns the hovered id.
func (m *MetaState) Hovered() string { return m.hovered }

func (m *MetaState) overrideFor(id string) *override {
	o, ok := m.overrides[id]
	if !ok {
		o = &override{}
		m.overrides[id] = o
	}
	return o
}

// applyOverrides applies ref mutations to a freshly built node.
func (m *MetaState) applyOverrides(n *Node) {
	m.register(n.ID, n.ref)
	o, ok := m.overrides[n.ID]
	if !ok {
		return
	}
	if o.text != nil && n.Kind == KindText {
		n.text = *o.text
	}
	o.apply(&n.Props)
}

// closeInputs closes every input widget.
func (m *MetaState) closeInputs() {
	for id, in := range m.inputs {
		if in.widget != nil {
			in.widget.Close()
		}
		delete(m.inputs, id)
	}
}
