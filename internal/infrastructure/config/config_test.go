package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
node:
  id: "pump-house"
  timezone: "Europe/London"
  tick_interval_ms: 5
  publish_interval_ms: 500
storage:
  backend: "sqlite"
database:
  path: "/tmp/test.db"
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
  qos: 1
api:
  port: 9090
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Node.ID != "pump-house" {
		t.Errorf("Node.ID = %q, want %q", cfg.Node.ID, "pump-house")
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if cfg.GetTickInterval() != 5*time.Millisecond {
		t.Errorf("GetTickInterval() = %v", cfg.GetTickInterval())
	}
	if cfg.Location().String() != "Europe/London" {
		t.Errorf("Location() = %v", cfg.Location())
	}
	// Unset fields keep their defaults.
	if cfg.WebSocket.Path != "/ws" {
		t.Errorf("WebSocket.Path = %q, want /ws", cfg.WebSocket.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
node:
  id: ""
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "node.id is required") {
		t.Errorf("Load() error = %v, want node.id failure", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "zero tick interval",
			modify:  func(c *Config) { c.Node.TickInterval = 0 },
			wantErr: "tick_interval_ms",
		},
		{
			name:    "publish faster than tick",
			modify:  func(c *Config) { c.Node.TickInterval = 100; c.Node.PublishInterval = 50 },
			wantErr: "publish_interval_ms",
		},
		{
			name:    "unknown timezone",
			modify:  func(c *Config) { c.Node.Timezone = "Mars/Olympus" },
			wantErr: "node.timezone",
		},
		{
			name:    "unknown storage backend",
			modify:  func(c *Config) { c.Storage.Backend = "eeprom" },
			wantErr: "storage.backend",
		},
		{
			name:    "file backend without dir",
			modify:  func(c *Config) { c.Storage.Dir = "" },
			wantErr: "storage.dir",
		},
		{
			name:    "invalid qos",
			modify:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
		{
			name:    "influx without url",
			modify:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: "influxdb.url",
		},
		{
			name:    "auth without secret",
			modify:  func(c *Config) { c.Security.AuthEnabled = true },
			wantErr: "security.jwt.secret is required",
		},
		{
			name: "auth with short secret",
			modify: func(c *Config) {
				c.Security.AuthEnabled = true
				c.Security.JWT.Secret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "auth with good secret",
			modify: func(c *Config) {
				c.Security.AuthEnabled = true
				c.Security.JWT.Secret = "a-very-long-secret-key-for-tests-only"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.GetReadTimeout(); got != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 30s", got)
	}
	if got := cfg.GetWriteTimeout(); got != 30*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want 30s", got)
	}
	if got := cfg.GetIdleTimeout(); got != 60*time.Second {
		t.Errorf("GetIdleTimeout() = %v, want 60s", got)
	}
	if got := cfg.GetPublishInterval(); got != time.Second {
		t.Errorf("GetPublishInterval() = %v, want 1s", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GRAYLOGIC_NODE_ID", "env-node")
	t.Setenv("GRAYLOGIC_STORAGE_BACKEND", "sqlite")
	t.Setenv("GRAYLOGIC_API_PORT", "9999")
	t.Setenv("GRAYLOGIC_JWT_SECRET", "env-secret")

	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Node.ID != "env-node" {
		t.Errorf("Node.ID = %q, want env-node", cfg.Node.ID)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", cfg.API.Port)
	}
	if cfg.Security.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env-secret", cfg.Security.JWT.Secret)
	}
}

func TestApplyEnvOverrides_BadPortIgnored(t *testing.T) {
	t.Setenv("GRAYLOGIC_API_PORT", "not-a-port")

	cfg := Default()
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want default 8080", cfg.API.Port)
	}
}
