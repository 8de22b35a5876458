// Package kernel implements the discrete-event kernel that the rest of snet
// treats as an external collaborator: component registration, typed ports,
// one-event-at-a-time delivery with a state snapshot, and an effector batch
// committed atomically after a handler returns. Built around a
// goroutine-per-worker, channel-handoff, mutex-guarded-shared-map style of
// concurrency rather than a single literal source to copy from.
package kernel

import "time"

// Standard event names. Case-sensitive.
const (
	EventInit     = "init 0"
	EventSendDown = "send_down"
	EventSendUp   = "send_up"
	EventTimer    = "timer"
	EventFinished = "finished"
)

// Value is a blackboard-storable state value. By convention it holds one of
// int64, float64, string, or bool; the kernel itself does not enforce this,
// components and tests do via type assertion.
type Value = any

// Event is a timestamped, named message with a typed payload, delivered to
// exactly one component at a time.
type Event struct {
	// Name is the event name: "init 0", "send_down", "send_up", "timer", or
	// "finished".
	Name string
	// Port is the in-port name the event was delivered on, empty for
	// self-scheduled events (init, timer, finished).
	Port string
	// Payload is the typed tuple carried by the event; components assert it
	// to the type their port contract promises.
	Payload any
	// Time is the virtual timestamp the kernel delivered this event at.
	Time time.Duration

	seq uint64
}

// LogRecord is one structured log line accumulated by an Effector and
// emitted by the kernel after the handler that produced it returns.
type LogRecord struct {
	Level   LogLevel
	Message string
	Args    []any
}

// LogLevel mirrors log/slog's level scale without importing slog into the
// kernel's core types, so components can accumulate log records inside an
// Effector without the kernel committing them synchronously mid-handler.
type LogLevel int

const (
	LevelDebug LogLevel = -4
	LevelInfo  LogLevel = 0
	LevelWarn  LogLevel = 4
	LevelError LogLevel = 8
)
