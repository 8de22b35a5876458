package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jesse99/snet/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	if cfg.Control.Addr != ":8080" {
		t.Errorf("Control.Addr = %q, want %q", cfg.Control.Addr, ":8080")
	}

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/metrics")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}

	if cfg.Sim.MaxTime != 0 {
		t.Errorf("Sim.MaxTime = %v, want 0 (unbounded)", cfg.Sim.MaxTime)
	}

	// Defaults must pass validation.
	if err := config.Validate(cfg); err != nil {
		t.Errorf("DefaultConfig() failed validation: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	yamlContent := `
control:
  addr: ":60000"
metrics:
  addr: ":9200"
  path: "/custom-metrics"
log:
  level: "debug"
  format: "text"
sim:
  max_time: "5s"
endpoints:
  - name: sender
    medium: air
    pcap_path: /tmp/sender.pcap
  - name: receiver
    medium: air
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Control.Addr != ":60000" {
		t.Errorf("Control.Addr = %q, want %q", cfg.Control.Addr, ":60000")
	}

	if cfg.Metrics.Addr != ":9200" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9200")
	}

	if cfg.Metrics.Path != "/custom-metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/custom-metrics")
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}

	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "text")
	}

	if cfg.Sim.MaxTime != 5*time.Second {
		t.Errorf("Sim.MaxTime = %v, want %v", cfg.Sim.MaxTime, 5*time.Second)
	}

	if len(cfg.Endpoints) != 2 {
		t.Fatalf("Endpoints count = %d, want 2", len(cfg.Endpoints))
	}
	if cfg.Endpoints[0].Name != "sender" || cfg.Endpoints[0].Medium != "air" {
		t.Errorf("Endpoints[0] = %+v", cfg.Endpoints[0])
	}
	if cfg.Endpoints[0].PcapPath != "/tmp/sender.pcap" {
		t.Errorf("Endpoints[0].PcapPath = %q, want %q", cfg.Endpoints[0].PcapPath, "/tmp/sender.pcap")
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	t.Parallel()

	// Partial YAML: only override control.addr and log.level.
	// Everything else should inherit from defaults.
	yamlContent := `
control:
  addr: ":55555"
log:
  level: "warn"
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	// Overridden values.
	if cfg.Control.Addr != ":55555" {
		t.Errorf("Control.Addr = %q, want %q", cfg.Control.Addr, ":55555")
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}

	// Default values should be preserved.
	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want default %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, "/metrics")
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want default %q", cfg.Log.Format, "json")
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr error
	}{
		{
			name: "empty control addr",
			modify: func(cfg *config.Config) {
				cfg.Control.Addr = ""
			},
			wantErr: config.ErrEmptyControlAddr,
		},
		{
			name: "empty endpoint name",
			modify: func(cfg *config.Config) {
				cfg.Endpoints = []config.EndpointConfig{{Name: ""}}
			},
			wantErr: config.ErrEmptyEndpointName,
		},
		{
			name: "duplicate endpoint name",
			modify: func(cfg *config.Config) {
				cfg.Endpoints = []config.EndpointConfig{{Name: "a"}, {Name: "a"}}
			},
			wantErr: config.ErrDuplicateEndpointName,
		},
		{
			name: "both peer and medium",
			modify: func(cfg *config.Config) {
				cfg.Endpoints = []config.EndpointConfig{
					{Name: "a", Peer: "b", Medium: "air"},
					{Name: "b"},
				}
			},
			wantErr: config.ErrEndpointBothPeerAndMedium,
		},
		{
			name: "self peer",
			modify: func(cfg *config.Config) {
				cfg.Endpoints = []config.EndpointConfig{{Name: "a", Peer: "a"}}
			},
			wantErr: config.ErrEndpointSelfPeer,
		},
		{
			name: "unknown peer",
			modify: func(cfg *config.Config) {
				cfg.Endpoints = []config.EndpointConfig{{Name: "a", Peer: "ghost"}}
			},
			wantErr: config.ErrUnknownEndpointPeer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.modify(cfg)

			err := config.Validate(cfg)
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDirectPeerPair(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Endpoints = []config.EndpointConfig{
		{Name: "a", Peer: "b"},
		{Name: "b", Peer: "a"},
	}

	if err := config.Validate(cfg); err != nil {
		t.Errorf("Validate() returned error for a valid peer pair: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "INFO", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "WARN", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "Error", want: slog.LevelError},
		{input: "unknown", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "trace", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := config.ParseLogLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/nonexistent/path/config.yml")
	if err == nil {
		t.Fatal("Load() returned nil error for nonexistent file")
	}
}

// -------------------------------------------------------------------------
// Environment Variable Override Tests
// -------------------------------------------------------------------------

func TestLoadEnvOverrides(t *testing.T) {
	// Environment variable tests cannot be parallel because they modify
	// process-wide state (os.Setenv).

	yamlContent := `
control:
  addr: ":50051"
log:
  level: "info"
`
	path := writeTemp(t, yamlContent)

	// Set env overrides.
	t.Setenv("SNET_CONTROL_ADDR", ":60000")
	t.Setenv("SNET_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Control.Addr != ":60000" {
		t.Errorf("Control.Addr = %q, want %q (from env)", cfg.Control.Addr, ":60000")
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q (from env)", cfg.Log.Level, "debug")
	}
}

func TestLoadEnvOverridesMetrics(t *testing.T) {
	yamlContent := `
control:
  addr: ":50051"
metrics:
  addr: ":9100"
  path: "/metrics"
`
	path := writeTemp(t, yamlContent)

	t.Setenv("SNET_METRICS_ADDR", ":9200")
	t.Setenv("SNET_METRICS_PATH", "/custom")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Metrics.Addr != ":9200" {
		t.Errorf("Metrics.Addr = %q, want %q (from env)", cfg.Metrics.Addr, ":9200")
	}

	if cfg.Metrics.Path != "/custom" {
		t.Errorf("Metrics.Path = %q, want %q (from env)", cfg.Metrics.Path, "/custom")
	}
}

// writeTemp creates a temporary YAML file and returns its path.
// The file is automatically cleaned up when the test finishes.
func writeTemp(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "snet.yml")

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	return path
}
