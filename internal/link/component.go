package link

import (
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
)

// MacFrame is the LLC ↔ MAC boundary payload, carried both downward (LLC
// handing a framed packet to the MAC layer) and upward (MAC handing a
// received frame's link addresses back to LLC) — spec's boundary table
// gives the two directions an identical shape.
type MacFrame struct {
	Src    MacAddress
	Dst    MacAddress
	Packet *packet.Packet
}

const (
	llcUpperIn  = "upper_in"
	llcLowerIn  = "lower_in"
	llcUpperOut = "upper_out"
	llcLowerOut = "lower_out"
)

// LlcComponent maps between the internet layer's (IPv4Header, Packet)
// events and the MAC layer's (MacAddress, MacAddress, Packet) events.
type LlcComponent struct {
	comp *kernel.Component

	UpperIn  *kernel.InPort[ipv4.LowerFrame]
	LowerIn  *kernel.InPort[MacFrame]
	UpperOut *kernel.OutPort[ipv4.UpFrame]
	LowerOut *kernel.OutPort[MacFrame]
}

// RegisterLLC adds an LlcComponent to sched, parented under parentID.
func RegisterLLC(sched *kernel.Scheduler, parentID kernel.ComponentID, name string) *LlcComponent {
	c := &LlcComponent{
		UpperIn: kernel.NewInPort[ipv4.LowerFrame](llcUpperIn),
		LowerIn: kernel.NewInPort[MacFrame](llcLowerIn),
	}
	c.comp = sched.Register(parentID, name, c.handle)
	c.UpperOut = kernel.NewOutPort[ipv4.UpFrame](c.comp, llcUpperOut)
	c.LowerOut = kernel.NewOutPort[MacFrame](c.comp, llcLowerOut)
	return c
}

// ID returns the component's kernel identity.
func (c *LlcComponent) ID() kernel.ComponentID {
	return c.comp.ID
}

// Raw returns the underlying kernel component, for wiring by a composite
// device that owns several layered components.
func (c *LlcComponent) Raw() *kernel.Component {
	return c.comp
}

func (c *LlcComponent) handle(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
	switch {
	case ev.Port == llcUpperIn && ev.Name == kernel.EventSendDown:
		c.sendDown(c.UpperIn.Payload(ev), eff)
	case ev.Port == llcLowerIn && ev.Name == kernel.EventSendUp:
		c.sendUp(c.LowerIn.Payload(ev), eff)
	}
}

// zeroPadMAC derives a placeholder 6-byte MAC by zero-padding a 4-byte IPv4
// address on the left, standing in for an ARP table this model doesn't have.
func zeroPadMAC(addr [4]byte) MacAddress {
	return MacAddress{0, 0, addr[0], addr[1], addr[2], addr[3]}
}

func (c *LlcComponent) sendDown(frame ipv4.LowerFrame, eff *kernel.Effector) {
	header := WithIPv4()
	header.Push(frame.Packet)

	src := zeroPadMAC(frame.Header.SourceAddr.AsIPv4())
	dst := zeroPadMAC(frame.Header.DestAddr.AsIPv4())
	c.LowerOut.Send(eff, kernel.EventSendDown, MacFrame{Src: src, Dst: dst, Packet: frame.Packet})
}

func (c *LlcComponent) sendUp(frame MacFrame, eff *kernel.Effector) {
	header, err := PopLlc(frame.Packet)
	if err != nil {
		eff.Log(kernel.LevelWarn, "dropping frame with invalid LLC header", "error", err)
		return
	}

	link := ipv4.LinkInfo{EtherType: header.EtherType.Uint16(), SourceMAC: frame.Src, DestMAC: frame.Dst}
	c.UpperOut.Send(eff, kernel.EventSendUp, ipv4.UpFrame{Link: link, Packet: frame.Packet})
}

const (
	macUpperIn  = "upper_in"
	macLowerIn  = "lower_in"
	macUpperOut = "upper_out"
	macLowerOut = "lower_out"

	stateSeqNum = "sn"
)

// Mac80211Component is the 802.11 MAC layer: a per-component sequence
// counter, frame serialization, and FCS generation/verification.
type Mac80211Component struct {
	comp *kernel.Component

	UpperIn  *kernel.InPort[MacFrame]
	LowerIn  *kernel.InPort[*packet.Packet]
	UpperOut *kernel.OutPort[MacFrame]
	LowerOut *kernel.OutPort[*packet.Packet]
}

// RegisterMac80211 adds a Mac80211Component to sched, parented under
// parentID.
func RegisterMac80211(sched *kernel.Scheduler, parentID kernel.ComponentID, name string) *Mac80211Component {
	c := &Mac80211Component{
		UpperIn: kernel.NewInPort[MacFrame](macUpperIn),
		LowerIn: kernel.NewInPort[*packet.Packet](macLowerIn),
	}
	c.comp = sched.Register(parentID, name, c.handle)
	c.UpperOut = kernel.NewOutPort[MacFrame](c.comp, macUpperOut)
	c.LowerOut = kernel.NewOutPort[*packet.Packet](c.comp, macLowerOut)
	return c
}

// ID returns the component's kernel identity.
func (c *Mac80211Component) ID() kernel.ComponentID {
	return c.comp.ID
}

// Raw returns the underlying kernel component, for wiring by a composite
// device that owns several layered components.
func (c *Mac80211Component) Raw() *kernel.Component {
	return c.comp
}

func (c *Mac80211Component) handle(ev kernel.Event, snap kernel.Snapshot, eff *kernel.Effector) {
	switch {
	case ev.Name == kernel.EventInit:
		eff.SetState(stateSeqNum, int64(0))
	case ev.Port == macUpperIn && ev.Name == kernel.EventSendDown:
		c.sendDown(c.UpperIn.Payload(ev), snap, eff)
	case ev.Port == macLowerIn && ev.Name == kernel.EventSendUp:
		c.sendUp(c.LowerIn.Payload(ev), eff)
	}
}

func (c *Mac80211Component) sendDown(frame MacFrame, snap kernel.Snapshot, eff *kernel.Effector) {
	sn, _ := snap.Get(c.comp.ID, stateSeqNum)
	seqNum, _ := sn.(int64)
	eff.SetState(stateSeqNum, (seqNum+1)%4096)

	dataFrame := NewDataFrame(frame.Src, frame.Dst, uint16(seqNum))
	dataFrame.Push(frame.Packet)

	c.LowerOut.Send(eff, kernel.EventSendDown, frame.Packet)
}

func (c *Mac80211Component) sendUp(p *packet.Packet, eff *kernel.Effector) {
	header, err := PopDataFrame(p)
	if err != nil {
		eff.Log(kernel.LevelWarn, "dropping frame with invalid 802.11 header", "error", err)
		return
	}

	c.UpperOut.Send(eff, kernel.EventSendUp, MacFrame{Src: header.SA, Dst: header.DA, Packet: p})
}
