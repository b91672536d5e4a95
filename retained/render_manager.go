package retained

import (
	"log/slog"
	"time"

	"github.com/agiangrant/canvasui/sched"
)

// Cause is why a render was requested. It selects the queueing policy and
// how much of the pipeline the render runs.
type Cause int

const (
	CauseShow Cause = iota
	CauseState
	CauseDragStart
	CauseDragging
	CauseDragEnd
	CauseScroll
	CauseRefMutation
	CauseTextMutation
	CauseHighlight
	CauseAnimationFrame
	CauseCursor
)

var causeNames = [...]string{
	CauseShow:           "show",
	CauseState:          "state",
	CauseDragStart:      "drag_start",
	CauseDragging:       "dragging",
	CauseDragEnd:        "drag_end",
	CauseScroll:         "scroll",
	CauseRefMutation:    "ref_mutation",
	CauseTextMutation:   "text_mutation",
	CauseHighlight:      "highlight",
	CauseAnimationFrame: "animation_frame",
	CauseCursor:         "cursor",
}

func (c Cause) String() string {
	if c >= 0 && int(c) < len(causeNames) {
		return causeNames[c]
	}
	return "unknown"
}

// Policy controls how a task is queued relative to others of its cause.
type Policy int

const (
	// PolicyTakeAll queues every task.
	PolicyTakeAll Policy = iota
	// PolicyTakeLatest replaces a queued, not yet started task of the same
	// cause. The replaced task's OnEnd is not called.
	PolicyTakeLatest
	// PolicyThrottle runs at most once per interval, leading and trailing.
	PolicyThrottle
	// PolicyDebounce runs once the cause has been quiet for the interval.
	PolicyDebounce
)

// DefaultPolicy returns the policy used for c.
func (c Cause) DefaultPolicy() Policy {
	switch c {
	case CauseState, CauseTextMutation, CauseHighlight, CauseAnimationFrame:
		return PolicyTakeLatest
	case CauseDragging, CauseScroll, CauseCursor:
		return PolicyThrottle
	case CauseRefMutation:
		return PolicyDebounce
	default:
		return PolicyTakeAll
	}
}

// RenderTask is one queued render.
type RenderTask struct {
	Cause   Cause
	Policy  Policy
	OnStart func()
	OnEnd   func()
}

// NewRenderTask returns a task for c with its default policy.
func NewRenderTask(c Cause) *RenderTask {
	return &RenderTask{Cause: c, Policy: c.DefaultPolicy()}
}

// RenderManager serializes renders of one tree: at most one task runs at a
// time, and a finished task starts the next queued one.
type RenderManager struct {
	bag      *sched.Bag
	run      func(*RenderTask)
	log      *slog.Logger
	debounce time.Duration
	throttle time.Duration

	current    *RenderTask
	queue      []*RenderTask
	pumping    bool
	destroying bool

	debounced     map[Cause]sched.Handle
	throttleUntil map[Cause]time.Time
	trailing      map[Cause]*RenderTask
	trailTimers   map[Cause]sched.Handle
}

// NewRenderManager returns a manager that executes tasks with run. run must
// eventually call Finish for the task it was given.
func NewRenderManager(bag *sched.Bag, run func(*RenderTask), debounce, throttle time.Duration, log *slog.Logger) *RenderManager {
	if log == nil {
		log = slog.Default()
	}
	return &RenderManager{
		bag:           bag,
		run:           run,
		log:           log,
		debounce:      debounce,
		throttle:      throttle,
		debounced:     map[Cause]sched.Handle{},
		throttleUntil: map[Cause]time.Time{},
		trailing:      map[Cause]*RenderTask{},
		trailTimers:   map[Cause]sched.Handle{},
	}
}

// Queue submits a task according to its policy. It is a no-op once the
// manager is destroying.
func (m *RenderManager) Queue(t *RenderTask) {
	if m.destroying {
		return
	}
	switch t.Policy {
	case PolicyDebounce:
		if h, ok := m.debounced[t.Cause]; ok {
			m.bag.Stop(h)
		}
		m.debounced[t.Cause] = m.bag.AfterFunc(m.debounce, func() {
			delete(m.debounced, t.Cause)
			m.enqueue(t)
		})
	case PolicyThrottle:
		now := m.bag.Now()
		if until, ok := m.throttleUntil[t.Cause]; ok && now.Before(until) {
			m.trailing[t.Cause] = t
			if _, armed := m.trailTimers[t.Cause]; !armed {
				m.trailTimers[t.Cause] = m.bag.AfterFunc(until.Sub(now), func() { m.trail(t.Cause) })
			}
			return
		}
		m.throttleUntil[t.Cause] = now.Add(m.throttle)
		m.enqueue(t)
	case PolicyTakeLatest:
		for i, q := range m.queue {
			if q.Cause == t.Cause {
				m.queue[i] = t
				return
			}
		}
		m.enqueue(t)
	default:
		m.enqueue(t)
	}
}

func (m *RenderManager) trail(c Cause) {
	delete(m.trailTimers, c)
	t, ok := m.trailing[c]
	if !ok {
		return
	}
	delete(m.trailing, c)
	m.throttleUntil[c] = m.bag.Now().Add(m.throttle)
	m.enqueue(t)
}

func (m *RenderManager) enqueue(t *RenderTask) {
	if m.destroying {
		return
	}
	m.queue = append(m.queue, t)
	m.pump()
}

// pump starts queued tasks while idle. Tasks that finish synchronously are
// drained iteratively rather than recursively.
func (m *RenderManager) pump() {
	if m.pumping {
		return
	}
	m.pumping = true
	defer func() { m.pumping = false }()
	for m.current == nil && len(m.queue) > 0 && !m.destroying {
		t := m.queue[0]
		m.queue = m.queue[1:]
		m.current = t
		m.log.Debug("render start", slog.String("cause", t.Cause.String()))
		if t.OnStart != nil {
			t.OnStart()
		}
		m.run(t)
	}
}

// Finish completes the running task, calls its OnEnd and starts the next.
func (m *RenderManager) Finish() {
	t := m.current
	if t == nil {
		return
	}
	m.current = nil
	m.log.Debug("render end", slog.String("cause", t.Cause.String()))
	if t.OnEnd != nil {
		t.OnEnd()
	}
	m.pump()
}

// Current returns the running task.
func (m *RenderManager) Current() *RenderTask { return m.current }

// Pending returns the number of queued tasks.
func (m *RenderManager) Pending() int { return len(m.queue) }

// Idle reports whether nothing is running or queued.
func (m *RenderManager) Idle() bool { return m.current == nil && len(m.queue) == 0 }

// Destroy drops queued work and ignores further Queue calls.
func (m *RenderManager) Destroy() {
	m.destroying = true
	for c, h := range m.debounced {
		m.bag.Stop(h)
		delete(m.debounced, c)
	}
	for c, h := range m.trailTimers {
		m.bag.Stop(h)
		delete(m.trailTimers, c)
	}
	m.trailing = map[Cause]*RenderTask{}
	m.queue = nil
	m.current = nil
}
