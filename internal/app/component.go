// Package app implements the application shim: the thin component that
// sits at the top of the stack and hands received packets (and the chance
// to send new ones) to user-supplied code.
package app

import (
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
)

// Callback is user code installed at the top of the stack. It is a plain
// function rather than a closure type so a Component can be handed to
// multiple callback implementations without capturing state other than
// what the blackboard and Effector already provide.
type Callback func(app *Component, ev kernel.Event, snap kernel.Snapshot, eff *kernel.Effector)

const (
	portLowerIn  = "lower_in"
	portLowerOut = "lower_out"
)

// Component sits at the top of the network stack: it owns one mutable
// Callback pointer, invoked for every event the worker loop receives
// ("init 0", "send_up" off the wire, or anything injected by a control
// plane). If no callback is installed, received events are logged and
// dropped rather than silently ignored.
type Component struct {
	comp     *kernel.Component
	Callback Callback

	LowerIn  *kernel.InPort[ipv4.UpperFrame]
	LowerOut *kernel.OutPort[ipv4.DownFrame]
}

// Register adds an app Component to sched, parented under parentID. The
// callback may be installed afterward by assigning Component.Callback.
func Register(sched *kernel.Scheduler, parentID kernel.ComponentID, name string) *Component {
	c := &Component{
		LowerIn: kernel.NewInPort[ipv4.UpperFrame](portLowerIn),
	}
	c.comp = sched.Register(parentID, name, c.handle)
	c.LowerOut = kernel.NewOutPort[ipv4.DownFrame](c.comp, portLowerOut)
	return c
}

// ID returns the component's kernel identity.
func (c *Component) ID() kernel.ComponentID {
	return c.comp.ID
}

// Raw returns the underlying kernel component, for wiring by a composite
// device that owns several layered components.
func (c *Component) Raw() *kernel.Component {
	return c.comp
}

func (c *Component) handle(ev kernel.Event, snap kernel.Snapshot, eff *kernel.Effector) {
	if c.Callback == nil {
		eff.Log(kernel.LevelWarn, "dropping event: no callback installed", "event", ev.Name)
		return
	}
	c.Callback(c, ev, snap, eff)
}

// Send is a convenience the callback uses to transmit a new datagram
// through lower_out as a "send_down" event.
func (c *Component) Send(eff *kernel.Effector, info ipv4.Info, options ipv4.SocketOptions, p *packet.Packet) {
	c.LowerOut.Send(eff, kernel.EventSendDown, ipv4.DownFrame{Info: info, Options: options, Packet: p})
}
