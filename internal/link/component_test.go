package link

import (
	"testing"

	"github.com/jesse99/snet/internal/addrfam"
	"github.com/jesse99/snet/internal/ianaproto"
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
	"go.uber.org/goleak"
)

func TestLlcMacRoundTripThroughKernel(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := kernel.NewScheduler()
	llc := RegisterLLC(sched, 0, "llc")
	mac := RegisterMac80211(sched, 0, "mac")

	kernel.Connect(llc.LowerOut, mac.comp, mac.UpperIn)
	kernel.Connect(mac.UpperOut, llc.comp, llc.LowerIn)

	// Stand in for a one-peer wireless medium: relay whatever the MAC layer
	// transmits straight back to it as a received frame, retagging the
	// event from "send_down" to "send_up".
	var relayOut *kernel.OutPort[*packet.Packet]
	relayIn := kernel.NewInPort[*packet.Packet]("in")
	relay := sched.Register(0, "relay", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name == kernel.EventSendDown {
			p := relayIn.Payload(ev)
			relayOut.Send(eff, kernel.EventSendUp, p)
		}
	})
	relayOut =kernel.NewOutPort[*packet.Packet](relay, "out")
	kernel.Connect(mac.LowerOut, relay, relayIn)
	kernel.Connect(relayOut, mac.comp, mac.LowerIn)

	var received ipv4.UpFrame
	appIn := kernel.NewInPort[ipv4.UpFrame]("in")
	app := sched.Register(0, "app", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name == kernel.EventSendUp {
			received = appIn.Payload(ev)
			eff.Stop()
		}
	})
	kernel.Connect(llc.UpperOut, app, appIn)
	sched.SetRoot(app.ID)

	var root *kernel.Component
	root = sched.Register(0, "root", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name == kernel.EventInit {
			p := packet.New("test", "#>1.1")
			p.PushBytes([]byte("hello world"))
			h := ipv4.New(ianaproto.FromByte(253), addrfam.NewIPv4(127, 0, 0, 1), addrfam.NewIPv4(10, 0, 0, 255))

			out := kernel.NewOutPort[ipv4.LowerFrame](root, "out")
			kernel.Connect(out, llc.comp, llc.UpperIn)
			out.Send(eff, kernel.EventSendDown, ipv4.LowerFrame{Header: h, Packet: p})
		}
	})
	_ = root

	sched.Run()
	sched.Shutdown()

	if received.Packet == nil {
		t.Fatalf("app never received an UpFrame")
	}
	if received.Link.EtherType != 0x0800 {
		t.Fatalf("got ether type %#x, want 0x0800", received.Link.EtherType)
	}
	if string(received.Packet.Bytes()) != "hello world" {
		t.Fatalf("got payload %q, want %q", received.Packet.Bytes(), "hello world")
	}
}
