package pcaptap

import (
	"time"

	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
)

const (
	portUpperIn = "upper_in"
	portLowerIn = "lower_in"
)

// Component is a transparent tap inserted between a MAC component and
// whatever it's wired to below (a peer's MAC directly, or a shared medium).
// Every frame that passes through, in either direction, is handed to a Sink
// and then forwarded unchanged. With a NopSink this is a no-op pass-through;
// with a Writer it produces a pcap capture.
type Component struct {
	comp *kernel.Component
	sink Sink

	UpperIn  *kernel.InPort[*packet.Packet]
	LowerOut *kernel.OutPort[*packet.Packet]

	LowerIn  *kernel.InPort[*packet.Packet]
	UpperOut *kernel.OutPort[*packet.Packet]
}

// Register adds a tap Component to sched, parented under parentID, writing
// every observed frame to sink. Pass NopSink{} to disable capture.
func Register(sched *kernel.Scheduler, parentID kernel.ComponentID, name string, sink Sink) *Component {
	if sink == nil {
		sink = NopSink{}
	}
	c := &Component{
		sink:    sink,
		UpperIn: kernel.NewInPort[*packet.Packet](portUpperIn),
		LowerIn: kernel.NewInPort[*packet.Packet](portLowerIn),
	}
	c.comp = sched.Register(parentID, name, c.handle)
	c.LowerOut = kernel.NewOutPort[*packet.Packet](c.comp, "lower_out")
	c.UpperOut = kernel.NewOutPort[*packet.Packet](c.comp, "upper_out")
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
	switch {
	case ev.Port == portUpperIn && ev.Name == kernel.EventSendDown:
		p := c.UpperIn.Payload(ev)
		c.capture(eff, ev.Time, p)
		c.LowerOut.Send(eff, kernel.EventSendDown, p)
	case ev.Port == portLowerIn && ev.Name == kernel.EventSendUp:
		p := c.LowerIn.Payload(ev)
		c.capture(eff, ev.Time, p)
		c.UpperOut.Send(eff, kernel.EventSendUp, p)
	}
}

func (c *Component) capture(eff *kernel.Effector, at time.Duration, p *packet.Packet) {
	if err := c.sink.WriteFrame(at, p.Bytes()); err != nil {
		eff.Log(kernel.LevelWarn, "pcap write failed", "error", err)
	}
}
