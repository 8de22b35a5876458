package device

import (
	"testing"

	"github.com/jesse99/snet/internal/addrfam"
	"github.com/jesse99/snet/internal/app"
	"github.com/jesse99/snet/internal/ianaproto"
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
	"github.com/jesse99/snet/internal/pcaptap"
	"go.uber.org/goleak"
)

func TestEndpointRoundTripDirectLink(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := kernel.NewScheduler()

	sender := NewEndpoint(sched, 0, "sender", pcaptap.NopSink{})
	receiver := NewEndpoint(sched, 0, "receiver", pcaptap.NopSink{})
	sender.Connect(receiver)

	var received string
	receiver.App.Callback = func(a *app.Component, ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name != kernel.EventSendUp {
			return
		}
		frame := receiver.App.LowerIn.Payload(ev)
		received = string(frame.Packet.Bytes())
		eff.ScheduleSelf(kernel.EventFinished, nil, 0)
	}

	root := sched.Register(0, "root", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name == kernel.EventFinished {
			eff.Stop()
		}
	})
	sched.SetRoot(root.ID)

	sender.App.Callback = func(a *app.Component, ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name != kernel.EventInit {
			return
		}
		info := ipv4.NewInfo(ianaproto.UDP, addrfam.NewIPv4(10, 0, 0, 1), addrfam.NewIPv4(10, 0, 0, 2))
		p := packet.New("hello", "#>1.1")
		p.PushBytes([]byte("hello"))
		a.Send(eff, info, ipv4.DefaultSocketOptions(), p)
	}

	sched.Run()
	sched.Shutdown()

	if received != "hello" {
		t.Fatalf("got payload %q, want %q", received, "hello")
	}

	name, ok := sched.Board().Get(sender.ID(), "display-name")
	if !ok || name.(string) != "sender" {
		t.Fatalf("got display-name %v, %v, want sender", name, ok)
	}
}
