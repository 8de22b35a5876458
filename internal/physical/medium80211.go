// Package physical implements the shared wireless medium: a broadcast
// fan-out point that delivers every transmission to every connected peer
// except the one that sent it.
package physical

import (
	"fmt"

	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
)

type slot struct {
	inPortName string
	in         *kernel.InPort[*packet.Packet]
	out        *kernel.OutPort[*packet.Packet]
}

// Medium80211Component is the wireless medium: any number of MAC peers
// attach to it with Connect, and a transmission from one peer is cloned and
// delivered to every other attached peer. No propagation delay, bit errors,
// or collisions are modeled — reserved as future work.
//
// Each peer gets its own in-port ("upper_in_N"), so the medium identifies
// the sender by which port an event arrived on rather than by a field
// carried in the payload — the transmitted frame itself is exactly what
// every other peer's MAC receives, matching what a real radio would hand
// its neighbors.
type Medium80211Component struct {
	comp  *kernel.Component
	slots []slot
}

// Register adds a Medium80211Component to sched, parented under parentID.
func Register(sched *kernel.Scheduler, parentID kernel.ComponentID, name string) *Medium80211Component {
	m := &Medium80211Component{}
	m.comp = sched.Register(parentID, name, m.handle)
	return m
}

// ID returns the component's kernel identity.
func (m *Medium80211Component) ID() kernel.ComponentID {
	return m.comp.ID
}

// Raw returns the underlying kernel component.
func (m *Medium80211Component) Raw() *kernel.Component {
	return m.comp
}

// Connect attaches one MAC peer to the medium: aboveOut is the peer's
// transmit port, aboveIn is the peer's receive port. Each call allocates a
// distinct in-port name "upper_in_N" so the medium can tell slots apart at
// dispatch time.
func (m *Medium80211Component) Connect(aboveOut *kernel.OutPort[*packet.Packet], aboveIn *kernel.InPort[*packet.Packet], peer *kernel.Component) {
	portName := fmt.Sprintf("upper_in_%d", len(m.slots))
	in := kernel.NewInPort[*packet.Packet](portName)
	kernel.Connect(aboveOut, m.comp, in)

	out := kernel.NewOutPort[*packet.Packet](m.comp, fmt.Sprintf("upper_out_%d", len(m.slots)))
	kernel.Connect(out, peer, aboveIn)

	m.slots = append(m.slots, slot{inPortName: portName, in: in, out: out})
}

func (m *Medium80211Component) handle(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
	if ev.Name != kernel.EventSendDown {
		return
	}
	if ev.Port == "" {
		panic("physical: medium received a send_down event on an unnamed port")
	}

	p := ev.Payload.(*packet.Packet)

	for _, s := range m.slots {
		if s.inPortName == ev.Port {
			continue
		}
		s.out.Send(eff, kernel.EventSendUp, p.Clone())
	}
}
