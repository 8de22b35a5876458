// snet-echo -- a two-endpoint scenario: sender transmits one packet over a
// shared medium, receiver echoes it back, both sides count what they
// received. Grounded on the original snet crate's examples/echo.rs.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/jesse99/snet/internal/addrfam"
	"github.com/jesse99/snet/internal/app"
	"github.com/jesse99/snet/internal/config"
	"github.com/jesse99/snet/internal/device"
	"github.com/jesse99/snet/internal/ianaproto"
	"github.com/jesse99/snet/internal/ipv4"
	"github.com/jesse99/snet/internal/kernel"
	"github.com/jesse99/snet/internal/packet"
	"github.com/jesse99/snet/internal/pcaptap"
	"github.com/jesse99/snet/internal/physical"
)

func main() {
	os.Exit(run())
}

func run() int {
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	maxTime := flag.Duration("max-time", 0, "maximum simulated time to run, 0 for no limit")
	direct := flag.Bool("direct", false, "connect sender and receiver directly instead of through a shared medium")
	pcapSender := flag.String("pcap-sender", "", "write the sender's captured frames to this pcap file")
	pcapReceiver := flag.String("pcap-receiver", "", "write the receiver's captured frames to this pcap file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.ParseLogLevel(*logLevel),
	}))

	senderSink, err := openSink(*pcapSender)
	if err != nil {
		logger.Error("failed to open sender pcap file", slog.String("error", err.Error()))
		return 1
	}
	receiverSink, err := openSink(*pcapReceiver)
	if err != nil {
		logger.Error("failed to open receiver pcap file", slog.String("error", err.Error()))
		return 1
	}

	sched := kernel.NewScheduler()
	sched.MaxTime = *maxTime
	sched.Logger = slogSink{logger: logger}

	sender := device.NewEndpoint(sched, 0, "sender", senderSink)
	receiver := device.NewEndpoint(sched, 0, "receiver", receiverSink)

	if *direct {
		sender.Connect(receiver)
	} else {
		medium := physical.Register(sched, 0, "air")
		sender.ConnectMedium(medium)
		receiver.ConnectMedium(medium)
	}

	wireEcho(sched, sender, receiver)

	sched.Run()
	sched.Shutdown()

	senderRecv, _ := sched.Board().Get(sender.App.ID(), "num_recv")
	receiverRecv, _ := sched.Board().Get(receiver.App.ID(), "num_recv")
	logger.Info("scenario complete",
		slog.Any("sender.num_recv", senderRecv),
		slog.Any("receiver.num_recv", receiverRecv),
	)

	return 0
}

// wireEcho installs the sender's and receiver's app callbacks: the sender
// sends "hello" one second in, the receiver echoes "echoed hello" back on
// receipt, and the sender stops the simulation once its echo arrives.
func wireEcho(sched *kernel.Scheduler, sender, receiver *device.Endpoint) {
	senderAddr := addrfam.NewIPv4(10, 0, 0, 1)
	receiverAddr := addrfam.NewIPv4(127, 0, 0, 2)

	receiver.App.Callback = func(a *app.Component, ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		if ev.Name != kernel.EventSendUp {
			return
		}
		frame := receiver.App.LowerIn.Payload(ev)
		eff.Log(kernel.LevelInfo, "received a packet", "bytes", string(frame.Packet.Bytes()))
		bumpRecvCount(sched, eff, a.ID())

		reply := packet.New("echoed", packet.FormatID(int64(receiver.ID()), 0))
		reply.PushBytes([]byte("echoed hello"))
		info := ipv4.NewInfo(ianaproto.UDP, receiverAddr, senderAddr)
		a.Send(eff, info, ipv4.DefaultSocketOptions(), reply)
	}

	sender.App.Callback = func(a *app.Component, ev kernel.Event, _ kernel.Snapshot, eff *kernel.Effector) {
		switch ev.Name {
		case kernel.EventInit:
			eff.ScheduleSelf(kernel.EventTimer, nil, time.Second)
		case kernel.EventTimer:
			p := packet.New("hello", packet.FormatID(int64(sender.ID()), 0))
			p.PushBytes([]byte("hello"))
			info := ipv4.NewInfo(ianaproto.UDP, senderAddr, receiverAddr)
			a.Send(eff, info, ipv4.DefaultSocketOptions(), p)
		case kernel.EventSendUp:
			frame := sender.App.LowerIn.Payload(ev)
			eff.Log(kernel.LevelInfo, "received echo", "bytes", string(frame.Packet.Bytes()))
			bumpRecvCount(sched, eff, a.ID())
			eff.Stop()
		}
	}
}

// bumpRecvCount increments the num_recv blackboard counter for a component,
// reading its prior value through the scheduler's board so the handler
// stays stateless between events.
func bumpRecvCount(sched *kernel.Scheduler, eff *kernel.Effector, id kernel.ComponentID) {
	n := int64(0)
	if v, ok := sched.Board().Get(id, "num_recv"); ok {
		if existing, ok := v.(int64); ok {
			n = existing
		}
	}
	n++
	eff.SetState("num_recv", n)
}

func openSink(path string) (pcaptap.Sink, error) {
	if path == "" {
		return pcaptap.NopSink{}, nil
	}
	return pcaptap.NewWriter(path, 0, 0)
}

type slogSink struct {
	logger *slog.Logger
}

func (s slogSink) Log(componentName string, rec kernel.LogRecord) {
	l := s.logger.With(slog.String("component", componentName))
	switch rec.Level {
	case kernel.LevelDebug:
		l.Debug(rec.Message, rec.Args...)
	case kernel.LevelWarn:
		l.Warn(rec.Message, rec.Args...)
	case kernel.LevelError:
		l.Error(rec.Message, rec.Args...)
	default:
		l.Info(rec.Message, rec.Args...)
	}
}
