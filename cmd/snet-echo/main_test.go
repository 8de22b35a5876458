package main

import (
	"testing"

	"github.com/jesse99/snet/internal/device"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/pcaptap"
	"github.com/jesse99/snet/internal/physical"
	"go.uber.org/goleak"
)

func TestWireEchoOverSharedMedium(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := kernel.NewScheduler()
	sender := device.NewEndpoint(sched, 0, "sender", pcaptap.NopSink{})
	receiver := device.NewEndpoint(sched, 0, "receiver", pcaptap.NopSink{})

	medium := physical.Register(sched, 0, "air")
	sender.ConnectMedium(medium)
	receiver.ConnectMedium(medium)

	wireEcho(sched, sender, receiver)

	sched.Run()
	sched.Shutdown()

	senderRecv, ok := sched.Board().Get(sender.App.ID(), "num_recv")
	if !ok || senderRecv.(int64) != 1 {
		t.Fatalf("sender.app.num_recv = %v, %v, want 1, true", senderRecv, ok)
	}

	receiverRecv, ok := sched.Board().Get(receiver.App.ID(), "num_recv")
	if !ok || receiverRecv.(int64) != 1 {
		t.Fatalf("receiver.app.num_recv = %v, %v, want 1, true", receiverRecv, ok)
	}
}

func TestWireEchoDirectLink(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := kernel.NewScheduler()
	sender := device.NewEndpoint(sched, 0, "sender", pcaptap.NopSink{})
	receiver := device.NewEndpoint(sched, 0, "receiver", pcaptap.NopSink{})
	sender.Connect(receiver)

	wireEcho(sched, sender, receiver)

	sched.Run()
	sched.Shutdown()

	senderRecv, ok := sched.Board().Get(sender.App.ID(), "num_recv")
	if !ok || senderRecv.(int64) != 1 {
		t.Fatalf("sender.app.num_recv = %v, %v, want 1, true", senderRecv, ok)
	}

	receiverRecv, ok := sched.Board().Get(receiver.App.ID(), "num_recv")
	if !ok || receiverRecv.(int64) != 1 {
		t.Fatalf("receiver.app.num_recv = %v, %v, want 1, true", receiverRecv, ok)
	}
}
