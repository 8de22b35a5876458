package app

import (
	"testing"

	"github.com/jesse99/snet/internal/addrfam"
	"github.com/jesse99/snet/internal/ianaproto"
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
	"go.uber.org/goleak"
)

func TestCallbackSendsOnInit(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := kernel.NewScheduler()
	a := Register(sched, 0, "app")

	downIn := kernel.NewInPort[ipv4.DownFrame]("in")
	var captured ipv4.DownFrame
	downstream := sched.Register(0, "downstream", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name == kernel.EventSendDown {
			captured = downIn.Payload(ev)
			eff.Stop()
		}
	})
	kernel.Connect(a.LowerOut, downstream, downIn)
	sched.SetRoot(downstream.ID)

	a.Callback = func(app *Component, ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name != kernel.EventInit {
			return
		}
		info := ipv4.NewInfo(ianaproto.FromByte(253), addrfam.NewIPv4(127, 0, 0, 1), addrfam.NewIPv4(10, 0, 0, 255))
		p := packet.New("app data", "#>1.1")
		p.PushBytes([]byte("ping"))
		app.Send(eff, info, ipv4.DefaultSocketOptions(), p)
	}

	sched.Run()
	sched.Shutdown()

	if captured.Packet == nil {
		t.Fatalf("downstream never received a datagram")
	}
	if string(captured.Packet.Bytes()) != "ping" {
		t.Fatalf("got payload %q, want %q", captured.Packet.Bytes(), "ping")
	}
}

func TestMissingCallbackLogsWarning(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := kernel.NewScheduler()
	a := Register(sched, 0, "app")

	var logged bool
	sched.Logger = logFunc(func(_ string, rec kernel.LogRecord) {
		if rec.Level == kernel.LevelWarn {
			logged = true
		}
	})

	root := sched.Register(0, "root", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name == kernel.EventInit {
			eff.Stop()
		}
	})
	sched.SetRoot(root.ID)
	_ = a

	sched.Run()
	sched.Shutdown()

	if !logged {
		t.Fatalf("expected a warning for the missing callback")
	}
}

type logFunc func(componentName string, rec kernel.LogRecord)

func (f logFunc) Log(componentName string, rec kernel.LogRecord) { f(componentName, rec) }
