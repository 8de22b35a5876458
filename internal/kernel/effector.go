package kernel

import "time"

// pendingEmission is one outgoing event recorded by an Effector, not yet
// committed to the scheduler's heap.
type pendingEmission struct {
	// port is the OutPort name to resolve against the owner's connections.
	// Empty means "deliver back to the owner itself" (used for timers and
	// the finished signal).
	port    string
	name    string
	payload any
	delay   time.Duration
}

// Effector is the batched set of state mutations, outgoing events, and log
// records produced by one handler invocation. A handler never mutates
// shared state or sends an event directly; it records intent on the
// Effector and returns, and the kernel commits that intent atomically.
type Effector struct {
	owner *Component
	now   time.Duration

	writes    map[string]Value
	emissions []pendingEmission
	logs      []LogRecord
	stop      bool
}

func newEffector(owner *Component, now time.Duration) *Effector {
	return &Effector{owner: owner, now: now, writes: make(map[string]Value)}
}

// SetState records a write to key under the owning component's keyspace.
func (e *Effector) SetState(key string, value Value) {
	e.writes[key] = value
}

// Emit sends a named event with payload out through the named OutPort,
// arriving at whatever component that port is connected to, at the current
// timestamp. Multiple Emit calls within one handler arrive at their
// destination in the order they were called.
func (e *Effector) Emit(port, name string, payload any) {
	e.emissions = append(e.emissions, pendingEmission{port: port, name: name, payload: payload})
}

// EmitAfter is like Emit but schedules delivery no earlier than now+delay.
func (e *Effector) EmitAfter(port, name string, payload any, delay time.Duration) {
	e.emissions = append(e.emissions, pendingEmission{port: port, name: name, payload: payload, delay: delay})
}

// ScheduleSelf schedules an event the owning component will deliver to
// itself, e.g. a "timer" or "finished" event that was not received through
// any port.
func (e *Effector) ScheduleSelf(name string, payload any, delay time.Duration) {
	e.emissions = append(e.emissions, pendingEmission{name: name, payload: payload, delay: delay})
}

// Log records a structured log line to be emitted once this Effector
// commits.
func (e *Effector) Log(level LogLevel, message string, args ...any) {
	e.logs = append(e.logs, LogRecord{Level: level, Message: message, Args: args})
}

// Stop requests kernel shutdown once this Effector commits. Conventionally
// called by the designated root component's handler for a "finished" event.
func (e *Effector) Stop() {
	e.stop = true
}
