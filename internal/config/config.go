// Package config manages snet daemon configuration using koanf/v2.
//
// Supports YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete snet configuration: how the simulation ends,
// what topology it runs, and where its ambient services (control plane,
// metrics, logging) listen.
type Config struct {
	Control   ControlConfig    `koanf:"control"`
	Metrics   MetricsConfig    `koanf:"metrics"`
	Log       LogConfig        `koanf:"log"`
	Sim       SimConfig        `koanf:"sim"`
	Endpoints []EndpointConfig `koanf:"endpoints"`
}

// ControlConfig holds the HTTP/JSON control-plane server configuration.
type ControlConfig struct {
	// Addr is the HTTP listen address (e.g., ":8080").
	Addr string `koanf:"addr"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// SimConfig holds the parameters governing the discrete-event run itself.
type SimConfig struct {
	// MaxTime bounds virtual time: the run stops if no root "finished"
	// event arrives first. Zero means unbounded.
	MaxTime time.Duration `koanf:"max_time"`
}

// EndpointConfig describes one network device the daemon brings up at
// startup. Exactly one of Peer or Medium should be set: Peer wires this
// endpoint directly to another named endpoint, Medium attaches it to a
// shared wireless medium group that any number of endpoints can join.
type EndpointConfig struct {
	// Name identifies the endpoint; referenced by other endpoints' Peer
	// or Medium fields.
	Name string `koanf:"name"`

	// Peer, if set, is the Name of another endpoint this one links to
	// directly (point-to-point, no shared medium).
	Peer string `koanf:"peer"`

	// Medium, if set, is the name of a shared medium group this endpoint
	// joins; every endpoint naming the same Medium hears every other's
	// transmissions.
	Medium string `koanf:"medium"`

	// PcapPath, if non-empty, captures every frame this endpoint's MAC
	// sends or receives to a pcap file at this path.
	PcapPath string `koanf:"pcap_path"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults: an
// unbounded simulation and no declared endpoints (a daemon with an empty
// topology is valid; the control plane has no route that adds endpoints).
func DefaultConfig() *Config {
	return &Config{
		Control: ControlConfig{
			Addr: ":8080",
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Sim: SimConfig{
			MaxTime: 0,
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for snet configuration.
// Variables are named SNET_<section>_<key>, e.g., SNET_CONTROL_ADDR.
const envPrefix = "SNET_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (SNET_ prefix), and merges on top of DefaultConfig().
// Missing fields inherit defaults.
//
// Environment variable mapping:
//
//	SNET_CONTROL_ADDR  -> control.addr
//	SNET_METRICS_ADDR  -> metrics.addr
//	SNET_METRICS_PATH  -> metrics.path
//	SNET_LOG_LEVEL     -> log.level
//	SNET_LOG_FORMAT    -> log.format
//	SNET_SIM_MAX_TIME  -> sim.max_time
//
// Uses koanf/v2 with file + env providers and YAML parser.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load defaults first.
	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	// Load YAML file on top of defaults.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	// Load environment variable overrides on top of YAML.
	// SNET_CONTROL_ADDR -> control.addr (strip prefix, lowercase, first _ -> .).
	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms SNET_CONTROL_ADDR -> control.addr.
// Strips the SNET_ prefix, lowercases, and replaces the first _ (the
// section separator) with ., so SNET_SIM_MAX_TIME -> sim.max_time.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"control.addr": defaults.Control.Addr,
		"metrics.addr": defaults.Metrics.Addr,
		"metrics.path": defaults.Metrics.Path,
		"log.level":    defaults.Log.Level,
		"log.format":   defaults.Log.Format,
		"sim.max_time": defaults.Sim.MaxTime.String(),
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyControlAddr indicates the control-plane listen address is empty.
	ErrEmptyControlAddr = errors.New("control.addr must not be empty")

	// ErrEmptyEndpointName indicates a declared endpoint has no name.
	ErrEmptyEndpointName = errors.New("endpoint name must not be empty")

	// ErrDuplicateEndpointName indicates two endpoints share the same name.
	ErrDuplicateEndpointName = errors.New("duplicate endpoint name")

	// ErrEndpointBothPeerAndMedium indicates an endpoint names both a
	// direct peer and a shared medium group.
	ErrEndpointBothPeerAndMedium = errors.New("endpoint must not set both peer and medium")

	// ErrUnknownEndpointPeer indicates an endpoint's peer names an
	// endpoint that isn't declared anywhere in the topology.
	ErrUnknownEndpointPeer = errors.New("endpoint peer is not a declared endpoint")

	// ErrEndpointSelfPeer indicates an endpoint names itself as its peer.
	ErrEndpointSelfPeer = errors.New("endpoint cannot peer with itself")
)

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Control.Addr == "" {
		return ErrEmptyControlAddr
	}

	return validateEndpoints(cfg.Endpoints)
}

// validateEndpoints checks each declared endpoint and its peer references.
func validateEndpoints(endpoints []EndpointConfig) error {
	names := make(map[string]struct{}, len(endpoints))
	for i, ep := range endpoints {
		if ep.Name == "" {
			return fmt.Errorf("endpoints[%d]: %w", i, ErrEmptyEndpointName)
		}
		if _, dup := names[ep.Name]; dup {
			return fmt.Errorf("endpoints[%d] name %q: %w", i, ep.Name, ErrDuplicateEndpointName)
		}
		names[ep.Name] = struct{}{}
	}

	for i, ep := range endpoints {
		if ep.Peer != "" && ep.Medium != "" {
			return fmt.Errorf("endpoints[%d] %q: %w", i, ep.Name, ErrEndpointBothPeerAndMedium)
		}
		if ep.Peer == "" {
			continue
		}
		if ep.Peer == ep.Name {
			return fmt.Errorf("endpoints[%d] %q: %w", i, ep.Name, ErrEndpointSelfPeer)
		}
		if _, ok := names[ep.Peer]; !ok {
			return fmt.Errorf("endpoints[%d] %q peer %q: %w", i, ep.Name, ep.Peer, ErrUnknownEndpointPeer)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
