package kernel

import "time"

// OutPort is a typed outgoing endpoint on a Component. An implementer may
// realize ports either as direct function references into the scheduler or
// as typed message queues; this one is a thin name tag resolved against the
// owning Component's connection table at commit time, which is sufficient
// to preserve the emission-order and timestamp-ordering guarantees the
// kernel promises.
type OutPort[T any] struct {
	owner *Component
	name  string
}

// NewOutPort declares an outgoing port named name on owner.
func NewOutPort[T any](owner *Component, name string) *OutPort[T] {
	owner.declareOutPort(name)
	return &OutPort[T]{owner: owner, name: name}
}

// Name returns the port's name.
func (p *OutPort[T]) Name() string {
	return p.name
}

// Send records an emission of the named event with payload through this
// port, to be delivered once the handler's Effector commits. The port name
// is resolved against the connections of the component that owns eff, so
// Send belongs in the handler of the component that owns this port.
func (p *OutPort[T]) Send(eff *Effector, eventName string, payload T) {
	eff.Emit(p.name, eventName, payload)
}

// SendAfter is like Send but delays delivery by dt.
func (p *OutPort[T]) SendAfter(eff *Effector, eventName string, payload T, dt time.Duration) {
	eff.EmitAfter(p.name, eventName, payload, dt)
}

// InPort is a typed incoming endpoint on a Component. It exists mainly to
// name the port and to provide a typed accessor for an Event's payload;
// dispatch itself happens on Event.Port against a handler's own switch.
type InPort[T any] struct {
	name string
}

// NewInPort declares an incoming port named name.
func NewInPort[T any](name string) *InPort[T] {
	return &InPort[T]{name: name}
}

// Name returns the port's name.
func (p *InPort[T]) Name() string {
	return p.name
}

// Payload asserts ev's payload to T. Panics if the event was not sent with
// a T payload — a mismatched port wiring is a structural programming error.
func (p *InPort[T]) Payload(ev Event) T {
	return ev.Payload.(T)
}

// Connect wires out, an OutPort on one component, to in, an InPort on
// target. A subsequent Send on out arrives at target as an event whose Port
// is in's name.
func Connect[T any](out *OutPort[T], target *Component, in *InPort[T]) {
	out.owner.connect(out.name, target, in.name)
}
