package snetmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	snetmetrics "github.com/jesse99/snet/internal/metrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := snetmetrics.NewCollector(reg)

	if c.EventsDispatched == nil {
		t.Error("EventsDispatched is nil")
	}
	if c.FramesSent == nil {
		t.Error("FramesSent is nil")
	}
	if c.FramesReceived == nil {
		t.Error("FramesReceived is nil")
	}
	if c.FramesDropped == nil {
		t.Error("FramesDropped is nil")
	}
	if c.ActiveComponents == nil {
		t.Error("ActiveComponents is nil")
	}
	if c.SimTime == nil {
		t.Error("SimTime is nil")
	}

	// Registration must not panic, even with no data gathered yet.
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
}

func TestEventsDispatched(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := snetmetrics.NewCollector(reg)

	c.IncEventsDispatched("sender.app", "send_down")
	c.IncEventsDispatched("sender.app", "send_down")
	c.IncEventsDispatched("sender.app", "init")

	val := counterValue(t, c.EventsDispatched, "sender.app", "send_down")
	if val != 2 {
		t.Errorf("EventsDispatched(sender.app, send_down) = %v, want 2", val)
	}

	val = counterValue(t, c.EventsDispatched, "sender.app", "init")
	if val != 1 {
		t.Errorf("EventsDispatched(sender.app, init) = %v, want 1", val)
	}
}

func TestFrameCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := snetmetrics.NewCollector(reg)

	c.IncFramesSent("sender.mac")
	c.IncFramesSent("sender.mac")
	c.IncFramesSent("sender.mac")

	val := counterValue(t, c.FramesSent, "sender.mac")
	if val != 3 {
		t.Errorf("FramesSent = %v, want 3", val)
	}

	c.IncFramesReceived("receiver.mac")
	c.IncFramesReceived("receiver.mac")

	val = counterValue(t, c.FramesReceived, "receiver.mac")
	if val != 2 {
		t.Errorf("FramesReceived = %v, want 2", val)
	}

	c.IncFramesDropped("receiver.mac", "checksum_error")

	val = counterValue(t, c.FramesDropped, "receiver.mac", "checksum_error")
	if val != 1 {
		t.Errorf("FramesDropped = %v, want 1", val)
	}
}

func TestGauges(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := snetmetrics.NewCollector(reg)

	c.SetActiveComponents(7)
	if got := gaugeValue(t, c.ActiveComponents); got != 7 {
		t.Errorf("ActiveComponents = %v, want 7", got)
	}

	c.SetSimTimeSeconds(1.5)
	if got := gaugeValue(t, c.SimTime); got != 1.5 {
		t.Errorf("SimTime = %v, want 1.5", got)
	}

	// Gauges must be idempotent overwrites, not accumulations.
	c.SetSimTimeSeconds(2.0)
	if got := gaugeValue(t, c.SimTime); got != 2.0 {
		t.Errorf("SimTime after second Set = %v, want 2.0", got)
	}
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

// gaugeValue reads the current value of a plain Gauge.
func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetGauge().GetValue()
}

// counterValue reads the current value of a CounterVec with the given labels.
func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}

	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}
