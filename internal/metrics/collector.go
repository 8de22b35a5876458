package snetmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "snet"
	subsystem = "sim"
)

// Label names for simulation metrics.
const (
	labelComponent = "component"
	labelEvent     = "event"
	labelReason    = "reason"
)

// -------------------------------------------------------------------------
// Collector — Prometheus Simulation Metrics
// -------------------------------------------------------------------------

// Collector holds all simulation Prometheus metrics.
//
//   - EventsDispatched tracks kernel throughput per component and event
//     name, the simulation's equivalent of a packets-per-second counter.
//   - FramesSent/FramesReceived track successful wire-level traffic per
//     endpoint MAC.
//   - FramesDropped tracks validation failures (bad checksum, corrupt
//     header, etc.) per endpoint and reason, for alerting on a noisy link.
//   - ActiveComponents is a gauge of how many components are currently
//     registered with the scheduler.
//   - SimTime reports the scheduler's current virtual clock, in seconds.
type Collector struct {
	EventsDispatched *prometheus.CounterVec

	FramesSent     *prometheus.CounterVec
	FramesReceived *prometheus.CounterVec
	FramesDropped  *prometheus.CounterVec

	ActiveComponents prometheus.Gauge
	SimTime          prometheus.Gauge
}

// NewCollector creates a Collector with all simulation metrics registered
// against the provided prometheus.Registerer. If reg is nil,
// prometheus.DefaultRegisterer is used.
//
// All metrics are created with the "snet_sim_" prefix (namespace_subsystem)
// to avoid collisions with other exporters.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.EventsDispatched,
		c.FramesSent,
		c.FramesReceived,
		c.FramesDropped,
		c.ActiveComponents,
		c.SimTime,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	eventLabels := []string{labelComponent, labelEvent}
	endpointLabels := []string{labelComponent}
	dropLabels := []string{labelComponent, labelReason}

	return &Collector{
		EventsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_dispatched_total",
			Help:      "Total kernel events dispatched, per component and event name.",
		}, eventLabels),

		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_sent_total",
			Help:      "Total 802.11 frames transmitted by an endpoint's MAC.",
		}, endpointLabels),

		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_received_total",
			Help:      "Total 802.11 frames successfully received by an endpoint's MAC.",
		}, endpointLabels),

		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_dropped_total",
			Help:      "Total frames dropped at any layer due to a validation failure.",
		}, dropLabels),

		ActiveComponents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_components",
			Help:      "Number of components currently registered with the scheduler.",
		}),

		SimTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "time_seconds",
			Help:      "Current virtual simulation time, in seconds.",
		}),
	}
}

// -------------------------------------------------------------------------
// Event Throughput
// -------------------------------------------------------------------------

// IncEventsDispatched increments the dispatch counter for a component and
// event name pair. Nothing in the scheduler, the control plane, or the
// daemon calls it: the kernel's commit path has no metrics hook.
func (c *Collector) IncEventsDispatched(component, event string) {
	c.EventsDispatched.WithLabelValues(component, event).Inc()
}

// -------------------------------------------------------------------------
// Frame Counters
// -------------------------------------------------------------------------

// IncFramesSent increments the transmitted-frames counter for an endpoint.
func (c *Collector) IncFramesSent(component string) {
	c.FramesSent.WithLabelValues(component).Inc()
}

// IncFramesReceived increments the received-frames counter for an endpoint.
func (c *Collector) IncFramesReceived(component string) {
	c.FramesReceived.WithLabelValues(component).Inc()
}

// IncFramesDropped increments the dropped-frames counter for an endpoint
// and the reason it was dropped (e.g. "checksum_error", "length_mismatch").
func (c *Collector) IncFramesDropped(component, reason string) {
	c.FramesDropped.WithLabelValues(component, reason).Inc()
}

// -------------------------------------------------------------------------
// Gauges
// -------------------------------------------------------------------------

// SetActiveComponents sets the currently-registered component count.
func (c *Collector) SetActiveComponents(n int) {
	c.ActiveComponents.Set(float64(n))
}

// SetSimTimeSeconds sets the scheduler's current virtual clock.
func (c *Collector) SetSimTimeSeconds(seconds float64) {
	c.SimTime.Set(seconds)
}
