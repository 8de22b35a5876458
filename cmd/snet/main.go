// snet daemon -- discrete-event network stack simulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jesse99/snet/internal/config"
	"github.com/jesse99/snet/internal/control"
	"github.com/jesse99/snet/internal/device"
	"github.com/jesse99/snet/internal/kernel"
	snetmetrics "github.com/jesse99/snet/internal/metrics"
	"github.com/jesse99/snet/internal/pcaptap"
	"github.com/jesse99/snet/internal/physical"
	appversion "github.com/jesse99/snet/internal/version"
)

// shutdownTimeout is the maximum time to wait for HTTP servers to drain
// active connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()),
		)
		return 1
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLoggerWithLevel(cfg.Log, logLevel)

	logger.Info("snet starting",
		slog.String("version", appversion.Version),
		slog.String("control_addr", cfg.Control.Addr),
		slog.String("metrics_addr", cfg.Metrics.Addr),
	)

	reg := prometheus.NewRegistry()
	collector := snetmetrics.NewCollector(reg)

	sched := kernel.NewScheduler()
	sched.MaxTime = cfg.Sim.MaxTime
	sched.Logger = slogSink{logger: logger}

	endpoints, err := buildTopology(sched, cfg.Endpoints)
	if err != nil {
		logger.Error("failed to build topology", slog.String("error", err.Error()))
		return 1
	}

	if err := runServers(cfg, sched, endpoints, collector, reg, logger, configPath, logLevel); err != nil {
		logger.Error("snet exited with error", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("snet stopped")
	return 0
}

// runServers runs the simulation, the control plane, and the metrics
// endpoint under one errgroup with signal-aware shutdown.
func runServers(
	cfg *config.Config,
	sched *kernel.Scheduler,
	endpoints map[string]*device.Endpoint,
	collector *snetmetrics.Collector,
	reg *prometheus.Registry,
	logger *slog.Logger,
	configPath *string,
	logLevel *slog.LevelVar,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	metricsSrv := newMetricsServer(cfg.Metrics, reg)
	g.Go(func() error {
		logger.Info("metrics server listening",
			slog.String("addr", cfg.Metrics.Addr),
			slog.String("path", cfg.Metrics.Path),
		)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	ctrlSrv := control.New(sched, cfg.Control.Addr, logger)
	g.Go(func() error {
		return ctrlSrv.Run(gCtx)
	})

	logger.Info("topology built", slog.Int("endpoints", len(endpoints)))

	g.Go(func() error {
		return runSimulation(gCtx, sched, collector)
	})

	g.Go(func() error {
		return runWatchdog(gCtx, logger)
	})

	sigHUP := make(chan os.Signal, 1)
	signal.Notify(sigHUP, syscall.SIGHUP)
	g.Go(func() error {
		defer signal.Stop(sigHUP)
		handleSIGHUP(gCtx, sigHUP, *configPath, logLevel, logger)
		return nil
	})

	notifyReady(logger)

	g.Go(func() error {
		<-gCtx.Done()
		return gracefulShutdown(gCtx, logger, metricsSrv)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run servers: %w", err)
	}
	return nil
}

// runSimulation drives the scheduler to completion in a dedicated
// goroutine, periodically publishing gauge metrics, then exits when ctx is
// cancelled or the run finishes on its own.
func runSimulation(ctx context.Context, sched *kernel.Scheduler, collector *snetmetrics.Collector) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.Run()
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	collector.SetActiveComponents(len(sched.Components()))

	for {
		select {
		case <-done:
			sched.Shutdown()
			return nil
		case <-ctx.Done():
			sched.Shutdown()
			<-done
			return nil
		case <-ticker.C:
			collector.SetActiveComponents(len(sched.Components()))
		}
	}
}

// buildTopology constructs one device.Endpoint per declared endpoint, then
// wires direct peers and shared media as declared in the config.
func buildTopology(sched *kernel.Scheduler, declared []config.EndpointConfig) (map[string]*device.Endpoint, error) {
	endpoints := make(map[string]*device.Endpoint, len(declared))
	media := make(map[string]*physical.Medium80211Component)
	peerOf := make(map[string]string, len(declared))

	for _, ec := range declared {
		peerOf[ec.Name] = ec.Peer
		var sink pcaptap.Sink = pcaptap.NopSink{}
		if ec.PcapPath != "" {
			w, err := pcaptap.NewWriter(ec.PcapPath, 0, 0)
			if err != nil {
				return nil, fmt.Errorf("open pcap file for endpoint %q: %w", ec.Name, err)
			}
			sink = w
		}
		endpoints[ec.Name] = device.NewEndpoint(sched, 0, ec.Name, sink)
	}

	for _, ec := range declared {
		ep := endpoints[ec.Name]
		switch {
		case ec.Peer != "":
			// Wire each pair once: from the lexicographically first name when
			// both sides name each other, otherwise from the side that does.
			if ec.Name < ec.Peer || peerOf[ec.Peer] != ec.Name {
				ep.Connect(endpoints[ec.Peer])
			}
		case ec.Medium != "":
			m, ok := media[ec.Medium]
			if !ok {
				m = physical.Register(sched, 0, ec.Medium)
				media[ec.Medium] = m
			}
			ep.ConnectMedium(m)
		}
	}

	return endpoints, nil
}

// -------------------------------------------------------------------------
// Systemd Integration
// -------------------------------------------------------------------------

func notifyReady(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.Warn("failed to notify systemd readiness", slog.String("error", err.Error()))
		return
	}
	if sent {
		logger.Info("notified systemd: READY")
	}
}

func notifyStopping(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil {
		logger.Warn("failed to notify systemd stopping", slog.String("error", err.Error()))
		return
	}
	if sent {
		logger.Info("notified systemd: STOPPING")
	}
}

func runWatchdog(ctx context.Context, logger *slog.Logger) error {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.Warn("failed to check systemd watchdog", slog.String("error", err.Error()))
		return nil
	}
	if interval == 0 {
		logger.Debug("systemd watchdog not configured, skipping keepalive")
		return nil
	}

	tickInterval := interval / 2
	logger.Info("systemd watchdog enabled",
		slog.Duration("watchdog_sec", interval),
		slog.Duration("keepalive_interval", tickInterval),
	)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, wdErr := daemon.SdNotify(false, daemon.SdNotifyWatchdog); wdErr != nil {
				logger.Warn("failed to send watchdog keepalive", slog.String("error", wdErr.Error()))
			}
		}
	}
}

// -------------------------------------------------------------------------
// SIGHUP Reload -- log level only; topology is fixed for the life of a run
// -------------------------------------------------------------------------

func handleSIGHUP(ctx context.Context, sigHUP <-chan os.Signal, configPath string, logLevel *slog.LevelVar, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigHUP:
			logger.Info("received SIGHUP, reloading log level")
			newCfg, err := loadConfig(configPath)
			if err != nil {
				logger.Error("failed to reload configuration, keeping current settings",
					slog.String("error", err.Error()))
				continue
			}
			oldLevel := logLevel.Level()
			newLevel := config.ParseLogLevel(newCfg.Log.Level)
			logLevel.Set(newLevel)
			logger.Info("configuration reloaded",
				slog.String("old_log_level", oldLevel.String()),
				slog.String("new_log_level", newLevel.String()),
			)
		}
	}
}

// -------------------------------------------------------------------------
// Graceful Shutdown
// -------------------------------------------------------------------------

func gracefulShutdown(ctx context.Context, logger *slog.Logger, servers ...*http.Server) error {
	logger.Info("initiating graceful shutdown")
	notifyStopping(logger)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("shutdown server: %w", err))
		}
	}
	return shutdownErr
}

// -------------------------------------------------------------------------
// Server Setup
// -------------------------------------------------------------------------

func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func newLoggerWithLevel(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// slogSink adapts a *slog.Logger to kernel.LogSink, giving every component
// its own named sub-logger.
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
