package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOSTWATCH_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, int64(1<<20), cfg.MaxSnapshotBytes)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration())
	assert.True(t, cfg.RegistrationEnabled)
	assert.Equal(t, "default", cfg.Source("storage_backend"))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOSTWATCH_CONFIG_PATH", dir)
	writeConfig(t, dir, `
storage_backend: badger
badger_path: /data/hw
registration_enabled: false
max_snapshot_bytes: 2048
trusted_proxies: ["10.0.0.0/8"]
`)
	t.Setenv("HOSTWATCH_MAX_SNAPSHOT_BYTES", "4096")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendBadger, cfg.StorageBackend)
	assert.Equal(t, "file", cfg.Source("storage_backend"))
	assert.False(t, cfg.RegistrationEnabled)
	assert.Equal(t, "file", cfg.Source("registration_enabled"))
	assert.Equal(t, int64(4096), cfg.MaxSnapshotBytes)
	assert.Equal(t, "environment", cfg.Source("max_snapshot_bytes"))
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFilePath())
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOSTWATCH_CONFIG_PATH", dir)
	writeConfig(t, dir, "storage_backend: [unclosed")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HostwatchConfig)
	}{
		{name: "backend", mutate: func(c *HostwatchConfig) { c.StorageBackend = "mysql" }},
		{name: "badger without path", mutate: func(c *HostwatchConfig) { c.StorageBackend = BackendBadger; c.BadgerPath = "" }},
		{name: "snapshot size", mutate: func(c *HostwatchConfig) { c.MaxSnapshotBytes = 0 }},
		{name: "session ttl", mutate: func(c *HostwatchConfig) { c.SessionTTL = -1 }},
		{name: "proxy", mutate: func(c *HostwatchConfig) { c.TrustedProxies = []string{"nope"} }},
		{name: "exporter", mutate: func(c *HostwatchConfig) { c.TraceExporter = "jaeger" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFormat(t *testing.T) {
	t.Setenv("HOSTWATCH_CONFIG_PATH", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.FormatText(), "storage_backend")
	assert.Contains(t, cfg.FormatText(), "(not set)")

	js, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"name": "trace_exporter"`)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOSTWATCH_CONFIG_PATH", dir)
	writeConfig(t, dir, "registration_enabled: true\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *HostwatchConfig, 4)
	go func() {
		_ = Watch(ctx, func(cfg *HostwatchConfig, err error) {
			if err == nil {
				changes <- cfg
			}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "registration_enabled: false\n")

	// A write may be observed as truncate then write; wait for the final state.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.RegistrationEnabled {
				continue
			}
			assert.False(t, Get().RegistrationEnabled)
			return
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}
