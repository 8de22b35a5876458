package transport

import (
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
)

// placeholderPort is used for both source and destination ports: nothing in
// this model's InternetInfo/SocketOptions carries a port number (the
// original source had the same gap, marked "TODO: use an ephemeral port"),
// so every datagram is addressed with the same placeholder pair. Anything
// that cares about port-level demultiplexing is out of scope here.
const placeholderPort uint16 = 1

const (
	portUpperIn  = "upper_in"
	portLowerIn  = "lower_in"
	portUpperOut = "upper_out"
	portLowerOut = "lower_out"
)

// Component is the transport layer: it pushes a UDP header on the way down
// to the internet layer and pops one on the way back up to the application
// layer. Its event shapes mirror ipv4.Component's exactly, since UDP sits
// between two layers that both exchange (Info, SocketOptions, Packet) down
// and (Info, Packet) up.
type Component struct {
	comp *kernel.Component

	UpperIn  *kernel.InPort[ipv4.DownFrame]
	LowerIn  *kernel.InPort[ipv4.UpperFrame]
	UpperOut *kernel.OutPort[ipv4.UpperFrame]
	LowerOut *kernel.OutPort[ipv4.DownFrame]
}

// Register adds a UDP Component to sched, parented under parentID.
func Register(sched *kernel.Scheduler, parentID kernel.ComponentID, name string) *Component {
	c := &Component{
		UpperIn: kernel.NewInPort[ipv4.DownFrame](portUpperIn),
		LowerIn: kernel.NewInPort[ipv4.UpperFrame](portLowerIn),
	}
	c.comp = sched.Register(parentID, name, c.handle)
	c.UpperOut = kernel.NewOutPort[ipv4.UpperFrame](c.comp, portUpperOut)
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

func (c *Component) handle(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
	switch {
	case ev.Port == portUpperIn && ev.Name == kernel.EventSendDown:
		c.sendDown(c.UpperIn.Payload(ev), eff)
	case ev.Port == portLowerIn && ev.Name == kernel.EventSendUp:
		c.sendUp(c.LowerIn.Payload(ev), eff)
	}
}

func (c *Component) sendDown(frame ipv4.DownFrame, eff *kernel.Effector) {
	header := New(placeholderPort, placeholderPort)
	header.Push(frame.Packet, frame.Info.SourceAddr.AsIPv4(), frame.Info.DestAddr.AsIPv4())

	c.LowerOut.Send(eff, kernel.EventSendDown, frame)
}

func (c *Component) sendUp(frame ipv4.UpperFrame, eff *kernel.Effector) {
	if _, err := Pop(frame.Packet); err != nil {
		eff.Log(kernel.LevelWarn, "dropping packet with invalid UDP header", "error", err)
		return
	}

	c.UpperOut.Send(eff, kernel.EventSendUp, frame)
}
