package retained

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/chewxy/math32"

	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/errors"
	"github.com/agiangrant/canvasui/geom"
	"github.com/agiangrant/canvasui/surface"
)

var (
	hintBackground = colors.RGB(250, 204, 21)
	hintColor      = colors.RGB(17, 24, 39)
)

// press is a mouse button held down since MouseDown.
type press struct {
	targetID string
	modalID  string
	dragID   string
	start    geom.Point
	dragging bool
}

func (t *Tree) parentOf(n *Node) *Node {
	p, _ := t.arena.get(n.parent)
	return p
}

// dragOffset is the live drag translation of n's subtree, if any.
func (t *Tree) dragOffset(n *Node) geom.Point {
	id := t.meta.dragging
	if id == "" {
		return geom.Point{}
	}
	for c := n; c != nil; c = t.parentOf(c) {
		if c.ID == id {
			return t.meta.liveDrag(id)
		}
	}
	return geom.Point{}
}

// visibleRect is n's border rect as painted: translated by any live drag
// and cut by its clip ancestors.
func (t *Tree) visibleRect(n *Node) (geom.Rect, bool) {
	d := t.dragOffset(n)
	r := n.box.BorderRect.Translate(d.X, d.Y)
	for _, ref := range n.clips {
		c, ok := t.arena.get(ref)
		if !ok {
			continue
		}
		cd := t.dragOffset(c)
		var visible bool
		r, visible = r.Intersect(c.box.PaddingRect.Translate(cd.X, cd.Y))
		if !visible {
			return geom.Rect{}, false
		}
	}
	return r, !r.Empty()
}

// hitTest returns the top-most node under pos.
func (t *Tree) hitTest(pos geom.Point) *Node {
	for i := len(t.list) - 1; i >= 0; i-- {
		n := t.list[i]
		if n.Kind == KindCursor || n.Kind.IsSVGPrimitive() {
			continue
		}
		if n.Kind == KindModal && (n.modal == nil || !n.modal.Open) {
			continue
		}
		if t.insideCursor(n) {
			continue
		}
		if r, ok := t.visibleRect(n); ok && r.Contains(pos) {
			return n
		}
	}
	return nil
}

func (t *Tree) insideCursor(n *Node) bool {
	for c := t.parentOf(n); c != nil; c = t.parentOf(c) {
		if c.Kind == KindCursor {
			return true
		}
	}
	return false
}

// targetFor returns the nearest interactive ancestor-or-self of n. Routing
// stops at a modal.
func (t *Tree) targetFor(n *Node) *Node {
	for c := n; c != nil; c = t.parentOf(c) {
		if c.interactive() {
			return c
		}
		if c.Kind == KindModal {
			return nil
		}
	}
	return nil
}

// dragTargetFor returns the draggable node a press on n would move.
// Interactive nodes never start drags. A window moves only by its title
// bar; other draggables move from anywhere inside them.
func (t *Tree) dragTargetFor(n *Node) *Node {
	handle := false
	for c := n; c != nil; c = t.parentOf(c) {
		if c.interactive() {
			return nil
		}
		if c.Props.DragHandle {
			handle = true
		}
		if c.Props.Draggable {
			if c.window != nil && !handle {
				return nil
			}
			return c
		}
		if c.Kind == KindModal {
			return nil
		}
	}
	return nil
}

// onMouse routes a pointer event. A panic in routing or a click handler
// destroys the tree.
func (t *Tree) onMouse(ev surface.MouseEvent) {
	if t.destroyed || t.root == nil {
		return
	}
	err := errors.Guard("mouse "+ev.Kind.String(), func() error {
		switch ev.Kind {
		case surface.MouseDown:
			t.mouseDown(ev.Pos)
		case surface.MouseUp:
			t.mouseUp(ev.Pos)
		default:
			t.mouseMove(ev.Pos)
		}
		return nil
	})
	if err != nil {
		t.fail(errors.Wrap("mouse", errors.KindInput, t.key, err))
	}
}

func (t *Tree) mouseDown(pos geom.Point) {
	hit := t.hitTest(pos)
	p := &press{start: pos}
	if hit != nil {
		if target := t.targetFor(hit); target != nil {
			p.targetID = target.ID
		} else if hit.Kind == KindModal {
			p.modalID = hit.ID
		}
		if d := t.dragTargetFor(hit); d != nil {
			p.dragID = d.ID
		}
	}
	t.press = p
}

func (t *Tree) mouseMove(pos geom.Point) {
	p := t.press
	if p != nil && p.dragID != "" {
		delta := pos.Sub(p.start)
		if !p.dragging {
			if math32.Max(math32.Abs(delta.X), math32.Abs(delta.Y)) < t.settings.DragThreshold {
				return
			}
			p.dragging = true
			t.meta.StartDrag(p.dragID)
			t.clearHover()
			t.meta.Drag(delta)
			t.queue(CauseDragStart)
			return
		}
		t.meta.Drag(delta)
		t.queue(CauseDragging)
		return
	}
	t.updateHover(pos)
}

func (t *Tree) mouseUp(pos geom.Point) {
	p := t.press
	t.press = nil
	if p == nil {
		return
	}
	if p.dragging {
		id := p.dragID
		t.meta.Drag(pos.Sub(p.start))
		t.persistWindow(id)
		t.meta.CommitDragOffset(id)
		t.queue(CauseDragEnd)
		return
	}
	hit := t.hitTest(pos)
	if hit == nil {
		return
	}
	if target := t.targetFor(hit); target != nil {
		if target.ID == p.targetID {
			t.click(target, pos)
		}
		return
	}
	if hit.Kind == KindModal && hit.ID == p.modalID && hit.modal.OnClose != nil {
		onClose := hit.modal.OnClose
		t.bag.AfterFunc(0, func() { t.callback("modal close", onClose) })
	}
}

// click activates n. Close buttons act on the next scheduler turn so the
// tree is not torn down from inside its own event handler.
func (t *Tree) click(n *Node, pos geom.Point) {
	if n.closer {
		t.closeWindow(n)
		return
	}
	if n.Kind == KindInputText {
		t.focus(n.ID)
		return
	}
	if t.meta.focused != "" && t.meta.focused != n.ID {
		t.focus("")
	}
	if fn := n.Props.OnClick; fn != nil {
		fn(ActionEvent{ID: n.ID, Kind: n.Kind, Pos: pos})
	}
}

func (t *Tree) closeWindow(btn *Node) {
	var win *Node
	for c := btn; c != nil; c = t.parentOf(c) {
		if c.window != nil {
			win = c
			break
		}
	}
	var onClose func()
	if win != nil {
		onClose = win.window.OnClose
	}
	t.bag.AfterFunc(0, func() {
		if onClose != nil {
			t.callback("window close", onClose)
			return
		}
		t.Hide(nil)
	})
}

// callback runs a user callback outside event routing.
func (t *Tree) callback(op string, fn func()) {
	if t.destroyed {
		return
	}
	if err := errors.Guard(op, func() error { fn(); return nil }); err != nil {
		t.fail(errors.Wrap(op, errors.KindInput, t.key, err))
	}
}

// updateHover moves the hover highlight to the interactive node under pos.
func (t *Tree) updateHover(pos geom.Point) {
	var id string
	var target *Node
	if hit := t.hitTest(pos); hit != nil {
		target = t.targetFor(hit)
	}
	if target != nil {
		id = target.ID
	}
	if id == t.meta.hovered {
		return
	}
	changed := false
	if t.hoverLit != "" {
		changed = t.meta.SetUnhighlighted(t.hoverLit)
		t.hoverLit = ""
	}
	t.meta.hovered = id
	if target != nil && target.Props.HighlightColor.Visible() {
		if t.meta.SetHighlighted(id, target.Props.HighlightColor) {
			changed = true
		}
		t.hoverLit = id
	}
	if changed {
		t.queue(CauseHighlight)
	}
	if id != "" {
		t.watchHover()
	}
}

func (t *Tree) clearHover() {
	t.meta.hovered = ""
	if t.hoverLit != "" {
		if t.meta.SetUnhighlighted(t.hoverLit) {
			t.queue(CauseHighlight)
		}
		t.hoverLit = ""
	}
}

// watchHover polls the pointer while something is hovered, clearing the
// hover when the pointer left without the host reporting it.
func (t *Tree) watchHover() {
	if t.hoverTimer != nil {
		return
	}
	t.hoverTimer = t.bag.AfterFunc(t.settings.HoverCheck, func() {
		t.hoverTimer = nil
		if t.destroyed || t.meta.hovered == "" {
			return
		}
		pos := t.host.MousePos()
		n, ok := t.nodeByID(t.meta.hovered)
		if !ok || t.canvas == nil || !t.canvas.Rect().Contains(pos) {
			t.clearHover()
			return
		}
		if r, visible := t.visibleRect(n); !visible || !r.Contains(pos) {
			t.updateHover(pos)
			if t.meta.hovered == "" {
				return
			}
		}
		t.watchHover()
	})
}

// onScroll scrolls the innermost active scrollable under the pointer that
// can still move in the requested direction.
func (t *Tree) onScroll(ev surface.ScrollEvent) {
	if t.destroyed || t.root == nil {
		return
	}
	delta := ev.Delta.Y
	if !ev.Trackpad {
		delta *= t.settings.ScrollSpeed
	}
	if delta == 0 {
		return
	}
	for n := t.hitTest(ev.Pos); n != nil; n = t.parentOf(n) {
		if !n.scrollable() || !n.box.Scroll.Active {
			continue
		}
		if t.meta.Scrollable(n.ID).ScrollBy(delta) {
			t.queue(CauseScroll)
			return
		}
	}
}

// onKey handles tree-level keys, then focus traversal and activation.
func (t *Tree) onKey(ev surface.KeyEvent) {
	if t.destroyed || t.root == nil || !ev.Down {
		return
	}
	if fn := t.opts.OnKey; fn != nil {
		consumed := false
		err := errors.Guard("key", func() error {
			consumed = fn(ev)
			return nil
		})
		if err != nil {
			t.fail(errors.Wrap("key", errors.KindInput, t.key, err))
			return
		}
		if consumed {
			return
		}
	}
	switch ev.Key {
	case "Tab":
		t.cycleFocus(ev.Mods.Shift())
	case "Enter", "Space", " ":
		if id := t.meta.focused; id != "" {
			if n, ok := t.nodeByID(id); ok && n.Kind != KindInputText {
				if err := t.Activate(id); err != nil {
					t.report(err)
				}
			}
		}
	case "Escape":
		t.focus("")
	}
}

// focusable returns interactive nodes in document order, limited to the
// top-most open modal when one is showing.
func (t *Tree) focusable() []*Node {
	scope := t.root
	if m := t.topModal(); m != nil {
		scope = m
	}
	var out []*Node
	scope.walk(func(n *Node) bool {
		if n.Kind == KindModal && n != scope && (n.modal == nil || !n.modal.Open) {
			return false
		}
		if n.interactive() && !n.closer {
			if _, ok := t.visibleRect(n); ok {
				out = append(out, n)
			}
		}
		return true
	})
	return out
}

func (t *Tree) topModal() *Node {
	for i := len(t.list) - 1; i >= 0; i-- {
		if n := t.list[i]; n.Kind == KindModal && n.modal != nil && n.modal.Open {
			return n
		}
	}
	return nil
}

func (t *Tree) cycleFocus(back bool) {
	nodes := t.focusable()
	if len(nodes) == 0 {
		return
	}
	cur := -1
	for i, n := range nodes {
		if n.ID == t.meta.focused {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && back:
		next = len(nodes) - 1
	case cur < 0:
		next = 0
	case back:
		next = (cur - 1 + len(nodes)) % len(nodes)
	default:
		next = (cur + 1) % len(nodes)
	}
	t.focus(nodes[next].ID)
}

// focus moves keyboard focus to id, or clears it when id is empty.
func (t *Tree) focus(id string) {
	if t.meta.focused == id {
		return
	}
	t.meta.focused = id
	if in, ok := t.meta.inputs[id]; ok && in.widget != nil {
		in.widget.Focus()
	}
	t.queue(CauseHighlight)
}

// syncInputs creates, positions and themes a host widget for every input
// node, after the frame that placed them is painted.
func (t *Tree) syncInputs() {
	for _, n := range t.list {
		if n.Kind != KindInputText {
			continue
		}
		st, ok := t.meta.inputs[n.ID]
		if !ok {
			w, err := t.host.CreateTextInput()
			if err != nil {
				t.report(errors.Wrap("create input", errors.KindRender, t.key, err))
				continue
			}
			st = &inputState{widget: w, declared: n.input.Value}
			w.SetValue(n.input.Value)
			w.OnChange(func(v string) {
				if fn := st.onChange; fn != nil {
					t.callback("input change", func() { fn(v) })
				}
			})
			t.meta.inputs[n.ID] = st
			if n.Props.Autofocus && t.meta.focused == "" {
				t.meta.focused = n.ID
				w.Focus()
			}
		} else if st.declared != n.input.Value {
			st.declared = n.input.Value
			st.widget.SetValue(n.input.Value)
		}
		st.onChange = n.input.OnChange

		d := t.dragOffset(n)
		rect := n.box.BorderRect.Translate(d.X, d.Y+t.settings.InputNudgeY)
		st.widget.SetRect(rect)
		st.widget.SetStyle(inputStyle(n))
		if vis, ok := t.visibleRect(n); !ok {
			st.widget.SetClip(geom.Rect{X: rect.X, Y: rect.Y})
		} else if vis != n.box.BorderRect.Translate(d.X, d.Y) {
			st.widget.SetClip(vis)
		} else {
			st.widget.SetClip(geom.Rect{})
		}
	}
}

// inputRegions are the rects the canvas captures. Everything else passes
// through to whatever is underneath.
func (t *Tree) inputRegions() []geom.Rect {
	var regions []geom.Rect
	for _, n := range t.list {
		capture := n.interactive() || n.Props.Draggable || (n.scrollable() && n.box.Scroll.Active)
		if n.Kind == KindModal {
			capture = n.modal != nil && n.modal.Open
		}
		if !capture || t.insideCursor(n) || n.Kind == KindCursor {
			continue
		}
		if r, ok := t.visibleRect(n); ok {
			regions = append(regions, r)
		}
	}
	return regions
}

// Target is an element a voice command can address.
type Target struct {
	ID   string
	Kind Kind
	Rect geom.Rect
	// Hint is the short label shown next to the element when hints are
	// visible.
	Hint string
	// Scroll is true for scroll containers.
	Scroll bool
}

// Interactive lists the addressable elements in document order and assigns
// their hint labels. Clickables, scroll containers and inputs draw labels
// from separate alphabets.
func (t *Tree) Interactive() []Target {
	if t.root == nil || t.destroyed {
		return nil
	}
	scope := t.root
	if m := t.topModal(); m != nil {
		scope = m
	}
	var clicks, scrolls, inputs []*Target
	var all []*Target
	scope.walk(func(n *Node) bool {
		if n.Kind == KindModal && n != scope && (n.modal == nil || !n.modal.Open) {
			return false
		}
		r, ok := t.visibleRect(n)
		if !ok {
			return true
		}
		tg := &Target{ID: n.ID, Kind: n.Kind, Rect: r}
		switch {
		case n.Kind == KindInputText:
			inputs = append(inputs, tg)
		case n.interactive():
			clicks = append(clicks, tg)
		case n.scrollable() && n.box.Scroll.Active:
			tg.Scroll = true
			scrolls = append(scrolls, tg)
		default:
			return true
		}
		all = append(all, tg)
		return true
	})
	clear(t.meta.hints)
	label := func(ts []*Target, chars string) {
		for i, l := range hintLabels(chars, len(ts)) {
			ts[i].Hint = l
			t.meta.hints[ts[i].ID] = l
		}
	}
	label(clicks, t.settings.ClickableChars)
	label(scrolls, t.settings.ScrollableChars)
	label(inputs, t.settings.InputChars)

	out := make([]Target, len(all))
	for i, tg := range all {
		out[i] = *tg
	}
	return out
}

// hintLabels returns count labels of equal length drawn from chars.
func hintLabels(chars string, count int) []string {
	runes := []rune(chars)
	if count == 0 {
		return nil
	}
	labels := make([]string, 0, count)
	if len(runes) < 2 {
		for i := 0; i < count; i++ {
			labels = append(labels, strconv.Itoa(i+1))
		}
		return labels
	}
	width, capacity := 1, len(runes)
	for capacity < count {
		width++
		capacity *= len(runes)
	}
	buf := make([]rune, width)
	for i := 0; i < count; i++ {
		v := i
		for d := width - 1; d >= 0; d-- {
			buf[d] = runes[v%len(runes)]
			v /= len(runes)
		}
		labels = append(labels, string(buf))
	}
	return labels
}

// SetHintsVisible shows or hides hint labels. It has no effect when hints
// are disabled in the settings.
func (t *Tree) SetHintsVisible(v bool) {
	v = v && t.settings.ShowHints
	if t.hintsVisible == v {
		return
	}
	t.hintsVisible = v
	if v {
		t.Interactive()
	}
	t.queue(CauseHighlight)
}

// HintsVisible reports whether hint labels are painted.
func (t *Tree) HintsVisible() bool { return t.hintsVisible }

func (t *Tree) paintHints(p surface.Painter) {
	if !t.hintsVisible {
		return
	}
	font := surface.Font{Size: t.settings.HintSize, Weight: 700}
	for id, label := range t.meta.hints {
		n, ok := t.nodeByID(id)
		if !ok {
			continue
		}
		r, ok := t.visibleRect(n)
		if !ok {
			continue
		}
		tm, err := t.measurer.MeasureText(label, font)
		if err != nil {
			continue
		}
		box := geom.Rect{X: r.X - 4, Y: r.Y - 4, Width: tm.Width + 8, Height: tm.LineHeight + 4}
		p.SetFill(hintBackground)
		p.DrawRoundRect(box, 4, surface.Fill)
		p.SetFill(hintColor)
		p.DrawText(label, font, geom.Point{X: box.X + 4, Y: box.Y + 2})
	}
}

// Activate clicks the element with id, or focuses it when it is an input.
func (t *Tree) Activate(id string) error {
	if t.destroyed {
		return errors.ErrTreeDestroyed
	}
	n, ok := t.nodeByID(id)
	if !ok {
		return fmt.Errorf("activate %q: %w", id, errors.ErrStaleNode)
	}
	r, _ := t.visibleRect(n)
	err := errors.Guard("activate", func() error {
		t.click(n, r.Center())
		return nil
	})
	if err != nil {
		err = errors.Wrap("activate", errors.KindInput, t.key, err)
		t.fail(err)
	}
	return err
}

// Highlight highlights id with its highlight color, or the default.
func (t *Tree) Highlight(id string) bool {
	n, ok := t.nodeByID(id)
	if !ok {
		return false
	}
	c := n.Props.HighlightColor
	if !c.Visible() {
		c = defaultHighlight
	}
	if t.meta.SetHighlighted(id, c) {
		t.queue(CauseHighlight)
	}
	return true
}

// Unhighlight clears the highlight of id.
func (t *Tree) Unhighlight(id string) {
	if t.hoverLit == id {
		t.hoverLit = ""
	}
	if t.meta.SetUnhighlighted(id) {
		t.queue(CauseHighlight)
	}
}

// HighlightBriefly highlights id and clears it after d.
func (t *Tree) HighlightBriefly(id string, d time.Duration) bool {
	if !t.Highlight(id) {
		return false
	}
	t.bag.AfterFunc(d, func() {
		if !t.destroyed {
			t.Unhighlight(id)
		}
	})
	return true
}

// syncLoops starts or stops the cursor-follow loop depending on whether the
// graph contains a cursor element.
func (t *Tree) syncLoops() {
	hasCursor := false
	t.root.walk(func(n *Node) bool {
		if n.Kind == KindCursor {
			hasCursor = true
			return false
		}
		return true
	})
	if !hasCursor {
		if t.cursorTimer != nil {
			t.bag.Stop(t.cursorTimer)
			t.cursorTimer = nil
		}
		return
	}
	if t.cursorTimer == nil {
		t.log.Debug("cursor loop started", slog.Duration("interval", t.settings.CursorRefresh))
		t.scheduleCursor()
	}
}

func (t *Tree) scheduleCursor() {
	t.cursorTimer = t.bag.AfterFunc(t.settings.CursorRefresh, func() {
		t.cursorTimer = nil
		if t.destroyed {
			return
		}
		if pos := t.host.MousePos(); pos != t.meta.cursor {
			t.meta.cursor = pos
			t.queue(CauseCursor)
		}
		t.scheduleCursor()
	})
}
