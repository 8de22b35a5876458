package ipv4

import (
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
)

// DownFrame is what a transport-layer component sends this layer on its
// upper-facing in-port: the descriptor, the socket's per-datagram options,
// and the packet to wrap.
type DownFrame struct {
	Info    Info
	Options SocketOptions
	Packet  *packet.Packet
}

// LowerFrame is what this layer emits toward the link layer: the header it
// just pushed, alongside the packet it now fronts.
type LowerFrame struct {
	Header Header
	Packet *packet.Packet
}

// UpFrame is what the link layer sends this layer on its lower-facing
// in-port: the link-layer descriptor for the frame that carried this
// packet, and the packet itself (still carrying the IPv4 header).
type UpFrame struct {
	Link   LinkInfo
	Packet *packet.Packet
}

// UpperFrame is what this layer emits toward the transport layer once an
// incoming header has been popped and validated.
type UpperFrame struct {
	Info   Info
	Packet *packet.Packet
}

const (
	portUpperIn  = "upper_in"
	portLowerIn  = "lower_in"
	portUpperOut = "upper_out"
	portLowerOut = "lower_out"

	eventSendDown = kernel.EventSendDown
	eventSendUp   = kernel.EventSendUp
)

// Component is the internet layer: it pushes an IPv4 header on the way down
// to the link layer and pops one on the way back up to the transport layer.
type Component struct {
	comp *kernel.Component

	UpperIn  *kernel.InPort[DownFrame]
	LowerIn  *kernel.InPort[UpFrame]
	UpperOut *kernel.OutPort[UpperFrame]
	LowerOut *kernel.OutPort[LowerFrame]
}

// Register adds an IPv4 Component to sched, parented under parentID.
func Register(sched *kernel.Scheduler, parentID kernel.ComponentID, name string) *Component {
	c := &Component{
		UpperIn: kernel.NewInPort[DownFrame](portUpperIn),
		LowerIn: kernel.NewInPort[UpFrame](portLowerIn),
	}
	c.comp = sched.Register(parentID, name, c.handle)
	c.UpperOut = kernel.NewOutPort[UpperFrame](c.comp, portUpperOut)
	c.LowerOut = kernel.NewOutPort[LowerFrame](c.comp, portLowerOut)
	return c
}

// ID returns the component's kernel identity, for wiring and control-plane
// lookups.
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
	case ev.Port == portUpperIn && ev.Name == eventSendDown:
		c.sendDown(c.UpperIn.Payload(ev), eff)
	case ev.Port == portLowerIn && ev.Name == eventSendUp:
		c.sendUp(c.LowerIn.Payload(ev), eff)
	}
}

func (c *Component) sendDown(frame DownFrame, eff *kernel.Effector) {
	header := New(frame.Info.Protocol, frame.Info.SourceAddr, frame.Info.DestAddr)
	header.TTL = frame.Options.TTL
	header.DontFragment = frame.Options.DontFragment

	header.Push(frame.Packet)

	c.LowerOut.Send(eff, eventSendDown, LowerFrame{Header: header, Packet: frame.Packet})
}

func (c *Component) sendUp(frame UpFrame, eff *kernel.Effector) {
	header, err := Pop(frame.Packet)
	if err != nil {
		eff.Log(kernel.LevelWarn, "dropping packet with invalid IPv4 header", "error", err)
		return
	}

	info := NewInfo(header.Protocol, header.SourceAddr, header.DestAddr)
	c.UpperOut.Send(eff, eventSendUp, UpperFrame{Info: info, Packet: frame.Packet})
}
