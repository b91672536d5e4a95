package retained

import (
	"log/slog"
	"maps"
	"sort"
	"time"

	"github.com/agiangrant/canvasui/colors"
	"github.com/agiangrant/canvasui/sched"
)

// animValue is a number or a color.
type animValue struct {
	num     float32
	color   colors.Color
	isColor bool
}

func (v animValue) equal(o animValue) bool {
	if v.isColor != o.isColor {
		return false
	}
	if v.isColor {
		return v.color == o.color
	}
	return v.num == o.num
}

func lerpValue(a, b animValue, t float64) animValue {
	if a.isColor || b.isColor {
		return animValue{color: colors.Lerp(a.color, b.color, t), isColor: true}
	}
	return animValue{num: a.num + (b.num-a.num)*float32(t)}
}

// ActiveAnimation interpolates one property of one node.
type ActiveAnimation struct {
	NodeID   string
	Prop     AnimProp
	From, To animValue
	Easing   EasingFunc
	Start    time.Time
	Duration time.Duration

	// deferred animations hold From until the tick after mount.
	deferred bool
	unmount  bool
}

// Progress returns the linear time progress in [0,1] at now.
func (a *ActiveAnimation) Progress(now time.Time) float64 {
	if a.deferred {
		return 0
	}
	if a.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(a.Start)) / float64(a.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Sample returns the interpolated value at now. The endpoints are exact.
func (a *ActiveAnimation) Sample(now time.Time) animValue {
	p := a.Progress(now)
	switch p {
	case 0:
		return a.From
	case 1:
		return a.To
	}
	return lerpValue(a.From, a.To, a.Easing(p))
}

// Done reports whether the animation has reached its target.
func (a *ActiveAnimation) Done(now time.Time) bool { return a.Progress(now) >= 1 }

type animKey struct {
	id   string
	prop AnimProp
}

// transitionHost is what the manager needs from its tree.
type transitionHost interface {
	nodeByID(id string) (*Node, bool)
	// animationFrame is called after each tick applied new values.
	animationFrame(layout bool)
}

// TransitionManager animates declared property transitions across renders.
// All animations of a tree share one timer.
type TransitionManager struct {
	bag      *sched.Bag
	host     transitionHost
	interval time.Duration
	log      *slog.Logger

	last   map[animKey]animValue
	active map[animKey]*ActiveAnimation

	tick         sched.Handle
	lastTick     time.Time
	deferPending bool
	unmountDone  func()
}

// NewTransitionManager returns a manager ticking every interval.
func NewTransitionManager(bag *sched.Bag, host transitionHost, interval time.Duration, log *slog.Logger) *TransitionManager {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &TransitionManager{
		bag:      bag,
		host:     host,
		interval: interval,
		log:      log,
		last:     map[animKey]animValue{},
		active:   map[animKey]*ActiveAnimation{},
	}
}

// Checkpoint saves the declared values and running animations. The
// returned func restores them, for a render that fails after Apply.
func (tm *TransitionManager) Checkpoint() (restore func()) {
	last, active := maps.Clone(tm.last), maps.Clone(tm.active)
	return func() { tm.last, tm.active = last, active }
}

// Active returns the number of running animations.
func (tm *TransitionManager) Active() int { return len(tm.active) }

// Animation returns the running animation of id's prop.
func (tm *TransitionManager) Animation(id string, prop AnimProp) (*ActiveAnimation, bool) {
	a, ok := tm.active[animKey{id, prop}]
	return a, ok
}

// Apply compares the declared values of a freshly built graph with the
// last declared values, starts or retargets animations, and writes the
// current interpolated values into the nodes.
func (tm *TransitionManager) Apply(root *Node) {
	now := tm.bag.Now()
	seen := map[string]bool{}
	root.walk(func(n *Node) bool {
		seen[n.ID] = true
		for prop, tr := range n.Props.Transition {
			tm.applyProp(n, prop, tr, now)
		}
		return true
	})
	for k := range tm.last {
		if !seen[k.id] {
			delete(tm.last, k)
		}
	}
	for k, a := range tm.active {
		if !seen[k.id] && !a.unmount {
			delete(tm.active, k)
		}
	}
	if len(tm.active) > 0 {
		tm.ensureTicking()
	}
}

func (tm *TransitionManager) applyProp(n *Node, prop AnimProp, tr Transition, now time.Time) {
	declared, ok := n.Props.animValue(prop)
	if !ok {
		return
	}
	key := animKey{n.ID, prop}
	prev, seen := tm.last[key]
	tm.last[key] = declared

	if a, running := tm.active[key]; running {
		if !a.To.equal(declared) {
			tm.active[key] = tm.newAnimation(n.ID, prop, a.Sample(now), declared, tr, now)
		}
	} else if seen && !prev.equal(declared) {
		tm.active[key] = tm.newAnimation(n.ID, prop, prev, declared, tr, now)
	} else if !seen {
		if from, ok := n.Props.MountStyle.value(prop); ok && !from.equal(declared) {
			a := tm.newAnimation(n.ID, prop, from, declared, tr, now)
			a.deferred = true
			tm.active[key] = a
			tm.deferStart()
		}
	}

	if a, running := tm.active[key]; running {
		n.Props.setAnimValue(prop, a.Sample(now))
	}
}

func (tm *TransitionManager) newAnimation(id string, prop AnimProp, from, to animValue, tr Transition, now time.Time) *ActiveAnimation {
	easing := EasingByName(tr.Easing)
	if easing == nil {
		easing = EaseLinear
	}
	tm.log.Debug("transition", slog.String("id", id), slog.String("prop", string(prop)), slog.Duration("duration", tr.Duration))
	return &ActiveAnimation{
		NodeID:   id,
		Prop:     prop,
		From:     from,
		To:       to,
		Easing:   easing,
		Start:    now,
		Duration: tr.Duration,
	}
}

// deferStart releases mount animations on the next scheduler turn, so the
// mount values are painted at least once.
func (tm *TransitionManager) deferStart() {
	if tm.deferPending {
		return
	}
	tm.deferPending = true
	tm.bag.AfterFunc(0, func() {
		tm.deferPending = false
		now := tm.bag.Now()
		for _, a := range tm.active {
			if a.deferred {
				a.deferred = false
				a.Start = now
			}
		}
		tm.ensureTicking()
	})
}

func (tm *TransitionManager) ensureTicking() {
	if tm.tick != nil {
		return
	}
	tm.tick = tm.bag.AfterFunc(tm.interval, tm.onTick)
}

func (tm *TransitionManager) onTick() {
	tm.tick = nil
	now := tm.bag.Now()
	if !tm.lastTick.IsZero() {
		// A stalled scheduler shifts running animations forward so they
		// resume instead of jumping.
		if gap := now.Sub(tm.lastTick); gap > 2*tm.interval {
			shift := gap - tm.interval
			for _, a := range tm.active {
				if !a.deferred {
					a.Start = a.Start.Add(shift)
				}
			}
		}
	}
	tm.lastTick = now

	layout := tm.step(now)
	tm.host.animationFrame(layout)

	if tm.unmountDone != nil && !tm.unmounting() {
		done := tm.unmountDone
		tm.unmountDone = nil
		done()
		return
	}
	if len(tm.active) > 0 {
		tm.ensureTicking()
	} else {
		tm.lastTick = time.Time{}
	}
}

// step writes the values at now into the current nodes. Opacity goes last
// so colors derived from it see the final alpha. It reports whether any
// layout-affecting property changed.
func (tm *TransitionManager) step(now time.Time) bool {
	keys := make([]animKey, 0, len(tm.active))
	for k := range tm.active {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, oj := keys[i].prop == PropOpacity, keys[j].prop == PropOpacity
		if oi != oj {
			return oj
		}
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}
		return keys[i].prop < keys[j].prop
	})
	layout := false
	for _, k := range keys {
		a := tm.active[k]
		n, ok := tm.host.nodeByID(a.NodeID)
		if !ok {
			delete(tm.active, k)
			continue
		}
		if a.deferred {
			continue
		}
		n.Props.setAnimValue(a.Prop, a.Sample(now))
		if a.Prop.affectsLayout() {
			layout = true
		}
		if a.Done(now) {
			delete(tm.active, k)
		}
	}
	return layout
}

func (tm *TransitionManager) unmounting() bool {
	for _, a := range tm.active {
		if a.unmount {
			return true
		}
	}
	return false
}

// Unmount starts the declared unmount animations of every node under root
// and calls done once all of them finish. It reports false, without calling
// done, when no node declares an unmount animation.
func (tm *TransitionManager) Unmount(root *Node, done func()) bool {
	now := tm.bag.Now()
	started := false
	root.walk(func(n *Node) bool {
		for prop, tr := range n.Props.Transition {
			to, ok := n.Props.UnmountStyle.value(prop)
			if !ok {
				continue
			}
			from, ok := n.Props.animValue(prop)
			if !ok {
				continue
			}
			key := animKey{n.ID, prop}
			if a, running := tm.active[key]; running {
				from = a.Sample(now)
			}
			a := tm.newAnimation(n.ID, prop, from, to, tr, now)
			a.unmount = true
			tm.active[key] = a
			started = true
		}
		return true
	})
	if !started {
		return false
	}
	tm.unmountDone = done
	tm.ensureTicking()
	return true
}

// Stop cancels everything without calling callbacks.
func (tm *TransitionManager) Stop() {
	if tm.tick != nil {
		tm.bag.Stop(tm.tick)
		tm.tick = nil
	}
	tm.active = map[animKey]*ActiveAnimation{}
	tm.unmountDone = nil
}
