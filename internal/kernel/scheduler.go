package kernel

import (
	"container/heap"
	"fmt"
	"sort"
	"sync"
	"time"
)

// scheduledEvent is one entry in the scheduler's priority queue: an event
// bound to the component that must receive it, ordered by (Time, seq).
type scheduledEvent struct {
	target *Component
	ev     Event
}

// eventQueue is a container/heap.Interface ordering by (Time, seq): ties
// within the same timestamp are broken by emission order.
type eventQueue []*scheduledEvent

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].ev.Time != q[j].ev.Time {
		return q[i].ev.Time < q[j].ev.Time
	}
	return q[i].ev.seq < q[j].ev.seq
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)   { *q = append(*q, x.(*scheduledEvent)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Scheduler is the single-threaded discrete-event loop: it owns a min-heap
// of pending events ordered by (timestamp, sequence), delivers one event at
// a time to the target component's private goroutine, blocks until that
// component's handler returns an Effector, and commits the Effector's
// writes, emissions, and logs before proceeding to the next heap entry.
type Scheduler struct {
	board   *Blackboard
	Logger  LogSink
	MaxTime time.Duration

	mu         sync.Mutex
	components map[ComponentID]*Component
	nextID     ComponentID
	queue      eventQueue
	seq        uint64
	rootID     ComponentID
	hasRoot    bool
}

// LogSink receives the log records an Effector accumulates, once committed.
// Implemented by the caller (typically wrapping log/slog) so the kernel
// itself has no logging dependency.
type LogSink interface {
	Log(componentName string, rec LogRecord)
}

// NewScheduler creates an empty Scheduler. Components are added with
// Register before Run is called.
func NewScheduler() *Scheduler {
	return &Scheduler{
		board:      newBlackboard(),
		components: make(map[ComponentID]*Component),
	}
}

// Board returns the kernel's blackboard, for read-only inspection (e.g. by
// the control plane) outside of a handler.
func (s *Scheduler) Board() *Blackboard {
	return s.board
}

// Register allocates a new component id, spawns its worker goroutine, and
// returns the Component. parentID is the id of the component's logical
// owner in the id tree (use 0, the world root, for top-level components).
func (s *Scheduler) Register(parentID ComponentID, name string, handler Handler) *Component {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	c := newComponent(id, parentID, name, s, handler)

	s.mu.Lock()
	s.components[id] = c
	s.mu.Unlock()

	return c
}

// SetRoot designates the component whose "finished" event stops the
// simulation.
func (s *Scheduler) SetRoot(id ComponentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootID = id
	s.hasRoot = true
}

// Component looks up a registered component by id.
func (s *Scheduler) Component(id ComponentID) (*Component, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.components[id]
	return c, ok
}

// Components returns every registered component, for control-plane listing.
func (s *Scheduler) Components() []*Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Component, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c)
	}
	return out
}

func (s *Scheduler) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (s *Scheduler) pushEvent(target *Component, ev Event) {
	ev.seq = s.nextSeq()
	s.mu.Lock()
	heap.Push(&s.queue, &scheduledEvent{target: target, ev: ev})
	s.mu.Unlock()
}

// Inject schedules an externally supplied event directly, bypassing port
// resolution. Used by the control plane to drive a running simulation and
// by tests that want to start a scenario without an "init 0" handler.
func (s *Scheduler) Inject(target *Component, name, port string, payload any, at time.Duration) {
	s.pushEvent(target, Event{Name: name, Port: port, Payload: payload, Time: at})
}

// Run seeds an "init 0" event for every registered component at time zero,
// then drains the event queue in (timestamp, sequence) order. It returns
// when the queue is empty, when a committed Effector has called Stop, after
// the designated root handles a "finished" event, or when the next event
// lies beyond a non-zero MaxTime.
func (s *Scheduler) Run() {
	s.mu.Lock()
	ordered := make([]*Component, 0, len(s.components))
	for _, c := range s.components {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	for _, c := range ordered {
		s.queue = append(s.queue, &scheduledEvent{target: c, ev: Event{Name: EventInit, Time: 0, seq: s.seq}})
		s.seq++
	}
	heap.Init(&s.queue)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.queue.Len() == 0 {
			s.mu.Unlock()
			return
		}
		next := heap.Pop(&s.queue).(*scheduledEvent)
		s.mu.Unlock()

		if s.MaxTime > 0 && next.ev.Time > s.MaxTime {
			return
		}

		resp := make(chan *Effector, 1)
		next.target.inbox <- inboxItem{ev: next.ev, resp: resp}
		eff := <-resp

		s.commit(next.target, eff)

		rootFinished := s.hasRoot && next.target.ID == s.rootID && next.ev.Name == EventFinished
		if eff.stop || rootFinished {
			return
		}
	}
}

// commit applies one handler's Effector: writes land in the blackboard
// under the owning component's id, emissions are resolved against the
// owner's connection table (or delivered back to the owner itself for
// self-scheduled events) and pushed onto the queue, and log records are
// handed to the configured LogSink.
func (s *Scheduler) commit(owner *Component, eff *Effector) {
	for key, value := range eff.writes {
		s.board.set(owner.ID, key, value)
	}

	for _, rec := range eff.logs {
		if s.Logger != nil {
			s.Logger.Log(owner.Name, rec)
		}
	}

	for _, em := range eff.emissions {
		at := eff.now + em.delay
		if em.port == "" {
			// Self-scheduled: timer, finished, or any event a component
			// raises against itself.
			s.pushEvent(owner, Event{Name: em.name, Payload: em.payload, Time: at})
			continue
		}
		conn := owner.resolve(em.port)
		if conn.target == nil {
			if s.Logger != nil {
				s.Logger.Log(owner.Name, LogRecord{
					Level:   LevelError,
					Message: "dispatch gap: emission on unconnected port",
					Args:    []any{"port", em.port},
				})
			}
			continue
		}
		s.pushEvent(conn.target, Event{Name: em.name, Port: conn.portName, Payload: em.payload, Time: at})
	}
}

// Shutdown closes every registered component's inbox, causing their worker
// goroutines to return. Call after Run returns so tests can assert clean
// goroutine teardown (e.g. with go.uber.org/goleak).
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.components {
		close(c.inbox)
	}
	for _, c := range s.components {
		<-c.done
	}
}

// String renders the component tree for debugging.
func (c *Component) String() string {
	return fmt.Sprintf("%s(#%d, parent=#%d)", c.Name, c.ID, c.ParentID)
}
