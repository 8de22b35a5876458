// Package device composes the layered components — app, UDP, IPv4, LLC,
// 802.11 MAC, and a pcap tap — into a single network endpoint, and wires
// two endpoints together either directly or through a shared medium.
package device

import (
	"github.com/jesse99/snet/internal/app"
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/link"
	"github.com/jesse99/snet/internal/packet"
	"github.com/jesse99/snet/internal/pcaptap"
	"github.com/jesse99/snet/internal/physical"
	"github.com/jesse99/snet/internal/transport"
)

const (
	startX = 25.0
	startY = 5.0
	dy     = 10.0

	stateDisplayName = "display-name"
	stateDisplayX    = "display-location-x"
	stateDisplayY    = "display-location-y"
)

// Endpoint is a complete network device: one app, one UDP, one IPv4, one
// LLC, one 802.11 MAC, and a pcap tap, wired app-down-to-wire and
// wire-up-to-app. Endpoint itself is also a kernel component, existing
// mainly as the parent id its children share and the owner of the
// display-* state a GUI would read.
type Endpoint struct {
	Name string

	App  *app.Component
	UDP  *transport.Component
	IPv4 *ipv4.Component
	LLC  *link.LlcComponent
	MAC  *link.Mac80211Component
	Tap  *pcaptap.Component

	self *kernel.Component
}

// NewEndpoint registers a complete endpoint under parentID, wires its
// layers together, and writes its display metadata. sink receives every
// frame the endpoint's MAC transmits or receives; pass pcaptap.NopSink{}
// to disable capture.
func NewEndpoint(sched *kernel.Scheduler, parentID kernel.ComponentID, name string, sink pcaptap.Sink) *Endpoint {
	siblings := 0
	for _, c := range sched.Components() {
		if c.ParentID == parentID {
			siblings++
		}
	}

	e := &Endpoint{Name: name}
	e.self = sched.Register(parentID, name, func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name != kernel.EventInit {
			return
		}
		eff.SetState(stateDisplayName, name)
		eff.SetState(stateDisplayX, startX)
		eff.SetState(stateDisplayY, startY+dy*float64(siblings))
	})

	e.App = app.Register(sched, e.self.ID, name+".app")
	e.UDP = transport.Register(sched, e.self.ID, name+".udp")
	e.IPv4 = ipv4.Register(sched, e.self.ID, name+".ipv4")
	e.LLC = link.RegisterLLC(sched, e.self.ID, name+".llc")
	e.MAC = link.RegisterMac80211(sched, e.self.ID, name+".mac")
	e.Tap = pcaptap.Register(sched, e.self.ID, name+".pcap", sink)

	kernel.Connect(e.App.LowerOut, e.UDP.Raw(), e.UDP.UpperIn)
	kernel.Connect(e.UDP.UpperOut, e.App.Raw(), e.App.LowerIn)

	kernel.Connect(e.UDP.LowerOut, e.IPv4.Raw(), e.IPv4.UpperIn)
	kernel.Connect(e.IPv4.UpperOut, e.UDP.Raw(), e.UDP.LowerIn)

	kernel.Connect(e.IPv4.LowerOut, e.LLC.Raw(), e.LLC.UpperIn)
	kernel.Connect(e.LLC.UpperOut, e.IPv4.Raw(), e.IPv4.LowerIn)

	kernel.Connect(e.LLC.LowerOut, e.MAC.Raw(), e.MAC.UpperIn)
	kernel.Connect(e.MAC.UpperOut, e.LLC.Raw(), e.LLC.LowerIn)

	kernel.Connect(e.MAC.LowerOut, e.Tap.Raw(), e.Tap.UpperIn)
	kernel.Connect(e.Tap.UpperOut, e.MAC.Raw(), e.MAC.LowerIn)

	return e
}

// ID returns the endpoint's own kernel identity, the parent of every
// layer it owns.
func (e *Endpoint) ID() kernel.ComponentID {
	return e.self.ID
}

// radioOut and radioIn are the endpoint's wire-facing ports, below the
// pcap tap: what a direct peer-to-peer link or a shared medium attaches to.
func (e *Endpoint) radioOut() *kernel.OutPort[*packet.Packet] { return e.Tap.LowerOut }
func (e *Endpoint) radioIn() *kernel.InPort[*packet.Packet]   { return e.Tap.LowerIn }

// Connect wires this endpoint directly to other: each one's transmit port
// feeds the other's receive port, with no shared medium between them.
func (e *Endpoint) Connect(other *Endpoint) {
	kernel.Connect(e.radioOut(), other.Tap.Raw(), other.radioIn())
	kernel.Connect(other.radioOut(), e.Tap.Raw(), e.radioIn())
}

// ConnectMedium attaches this endpoint to a shared Medium80211Component,
// so its transmissions reach every other endpoint attached to the same
// medium instead of just one direct peer.
func (e *Endpoint) ConnectMedium(medium *physical.Medium80211Component) {
	medium.Connect(e.radioOut(), e.radioIn(), e.Tap.Raw())
}
