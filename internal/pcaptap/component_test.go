package pcaptap

import (
	"testing"
	"time"

	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
	"go.uber.org/goleak"
)

type recordingSink struct {
	frames [][]byte
}

func (s *recordingSink) WriteFrame(_ time.Duration, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.frames = append(s.frames, cp)
	return nil
}
func (s *recordingSink) Close() error { return nil }

func TestTapForwardsAndCaptures(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := kernel.NewScheduler()
	sink := &recordingSink{}
	tap := Register(sched, 0, "tap", sink)

	var sourceOut *kernel.OutPort[*packet.Packet]
	source := sched.Register(0, "source", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name != kernel.EventInit {
			return
		}
		p := packet.New("frame", "#>1.1")
		p.PushBytes([]byte("data"))
		sourceOut.Send(eff, kernel.EventSendDown, p)
	})
	sourceOut = kernel.NewOutPort[*packet.Packet](source, "out")
	kernel.Connect(sourceOut, tap.comp, tap.UpperIn)

	below := kernel.NewInPort[*packet.Packet]("in")
	var receivedDown *packet.Packet
	downstream := sched.Register(0, "downstream", func(ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name == kernel.EventSendDown {
			receivedDown = below.Payload(ev)
			eff.Stop()
		}
	})
	kernel.Connect(tap.LowerOut, downstream, below)
	sched.SetRoot(downstream.ID)

	sched.Run()
	sched.Shutdown()

	if receivedDown == nil {
		t.Fatalf("downstream never received the forwarded frame")
	}
	if len(sink.frames) != 1 {
		t.Fatalf("got %d captured frames, want 1", len(sink.frames))
	}
	if string(sink.frames[0]) != "data" {
		t.Fatalf("captured %q, want %q", sink.frames[0], "data")
	}
}
