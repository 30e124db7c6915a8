package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/hostwatch"
	ConfigFileName    = "hostwatch.yml"
)

// Storage backends
const (
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
)

// ValidTraceExporters is the list of supported trace exporters
var ValidTraceExporters = []string{"none", "stdout"}

// HostwatchConfig holds all non-secret hostwatch settings. Keys and
// connection strings stay in the environment.
type HostwatchConfig struct {
	// StorageBackend selects the credential store: postgres or badger
	StorageBackend string `yaml:"storage_backend" json:"storage_backend"`

	// BadgerPath is the data directory of the embedded store
	BadgerPath string `yaml:"badger_path" json:"badger_path"`

	// MaxSnapshotBytes caps the size of an ingested snapshot body
	MaxSnapshotBytes int64 `yaml:"max_snapshot_bytes" json:"max_snapshot_bytes"`

	// SessionTTL is the lifetime of an owner session in seconds
	SessionTTL int `yaml:"session_ttl" json:"session_ttl"`

	// RegistrationEnabled allows self-service account creation
	RegistrationEnabled bool `yaml:"registration_enabled" json:"registration_enabled"`

	// MetricsEnabled exposes /metrics
	MetricsEnabled bool `yaml:"metrics_enabled" json:"metrics_enabled"`

	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For is honoured
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// AuditNATSURL enables publishing audit events to NATS
	AuditNATSURL string `yaml:"audit_nats_url" json:"audit_nats_url"`

	// AuditNATSSubject is the subject prefix for audit events
	AuditNATSSubject string `yaml:"audit_nats_subject" json:"audit_nats_subject"`

	// TraceExporter is none or stdout
	TraceExporter string `yaml:"trace_exporter" json:"trace_exporter"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors HostwatchConfig with pointers so explicit false and
// zero values in the file are honoured.
type fileConfig struct {
	StorageBackend      *string  `yaml:"storage_backend"`
	BadgerPath          *string  `yaml:"badger_path"`
	MaxSnapshotBytes    *int64   `yaml:"max_snapshot_bytes"`
	SessionTTL          *int     `yaml:"session_ttl"`
	RegistrationEnabled *bool    `yaml:"registration_enabled"`
	MetricsEnabled      *bool    `yaml:"metrics_enabled"`
	TrustedProxies      []string `yaml:"trusted_proxies"`
	AuditNATSURL        *string  `yaml:"audit_nats_url"`
	AuditNATSSubject    *string  `yaml:"audit_nats_subject"`
	TraceExporter       *string  `yaml:"trace_exporter"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *HostwatchConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *HostwatchConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() (*HostwatchConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

// newDefault returns a config with default values
func newDefault() *HostwatchConfig {
	return &HostwatchConfig{
		StorageBackend:      BackendPostgres,
		BadgerPath:          "/var/lib/hostwatch/badger",
		MaxSnapshotBytes:    1 << 20,
		SessionTTL:          86400,
		RegistrationEnabled: true,
		MetricsEnabled:      true,
		TrustedProxies:      []string{},
		AuditNATSSubject:    "hostwatch.audit",
		TraceExporter:       "none",
		sources:             make(map[string]string),
	}
}

// Dir returns the directory holding the config file.
func Dir() string {
	if p := os.Getenv("HOSTWATCH_CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*HostwatchConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	config.configFilePath = filepath.Join(Dir(), ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"storage_backend", "badger_path", "max_snapshot_bytes", "session_ttl",
		"registration_enabled", "metrics_enabled", "trusted_proxies",
		"audit_nats_url", "audit_nats_subject", "trace_exporter",
	}
}

func (c *HostwatchConfig) applyFileConfig(file *fileConfig) {
	if file.StorageBackend != nil {
		c.StorageBackend = *file.StorageBackend
		c.sources["storage_backend"] = "file"
	}
	if file.BadgerPath != nil {
		c.BadgerPath = *file.BadgerPath
		c.sources["badger_path"] = "file"
	}
	if file.MaxSnapshotBytes != nil {
		c.MaxSnapshotBytes = *file.MaxSnapshotBytes
		c.sources["max_snapshot_bytes"] = "file"
	}
	if file.SessionTTL != nil {
		c.SessionTTL = *file.SessionTTL
		c.sources["session_ttl"] = "file"
	}
	if file.RegistrationEnabled != nil {
		c.RegistrationEnabled = *file.RegistrationEnabled
		c.sources["registration_enabled"] = "file"
	}
	if file.MetricsEnabled != nil {
		c.MetricsEnabled = *file.MetricsEnabled
		c.sources["metrics_enabled"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.AuditNATSURL != nil {
		c.AuditNATSURL = *file.AuditNATSURL
		c.sources["audit_nats_url"] = "file"
	}
	if file.AuditNATSSubject != nil {
		c.AuditNATSSubject = *file.AuditNATSSubject
		c.sources["audit_nats_subject"] = "file"
	}
	if file.TraceExporter != nil {
		c.TraceExporter = *file.TraceExporter
		c.sources["trace_exporter"] = "file"
	}
}

func (c *HostwatchConfig) applyEnvConfig() {
	if val := os.Getenv("HOSTWATCH_STORAGE_BACKEND"); val != "" {
		c.StorageBackend = val
		c.sources["storage_backend"] = "environment"
	}
	if val := os.Getenv("HOSTWATCH_BADGER_PATH"); val != "" {
		c.BadgerPath = val
		c.sources["badger_path"] = "environment"
	}
	if val := os.Getenv("HOSTWATCH_MAX_SNAPSHOT_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.MaxSnapshotBytes = i
			c.sources["max_snapshot_bytes"] = "environment"
		}
	}
	if val := os.Getenv("HOSTWATCH_SESSION_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SessionTTL = i
			c.sources["session_ttl"] = "environment"
		}
	}
	if val := os.Getenv("HOSTWATCH_REGISTRATION_ENABLED"); val != "" {
		c.RegistrationEnabled = val == "true" || val == "1"
		c.sources["registration_enabled"] = "environment"
	}
	if val := os.Getenv("HOSTWATCH_METRICS_ENABLED"); val != "" {
		c.MetricsEnabled = val == "true" || val == "1"
		c.sources["metrics_enabled"] = "environment"
	}
	if val := os.Getenv("HOSTWATCH_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("HOSTWATCH_AUDIT_NATS_URL"); val != "" {
		c.AuditNATSURL = val
		c.sources["audit_nats_url"] = "environment"
	}
	if val := os.Getenv("HOSTWATCH_AUDIT_NATS_SUBJECT"); val != "" {
		c.AuditNATSSubject = val
		c.sources["audit_nats_subject"] = "environment"
	}
	if val := os.Getenv("HOSTWATCH_TRACE_EXPORTER"); val != "" {
		c.TraceExporter = val
		c.sources["trace_exporter"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *HostwatchConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *HostwatchConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// SessionDuration returns the session TTL as a duration
func (c *HostwatchConfig) SessionDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

// Validate validates the configuration
func (c *HostwatchConfig) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
	case BackendBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("badger_path is required when storage_backend is %s", BackendBadger)
		}
	default:
		return fmt.Errorf("invalid storage_backend: %s", c.StorageBackend)
	}

	if c.MaxSnapshotBytes <= 0 {
		return fmt.Errorf("max_snapshot_bytes must be positive, got %d", c.MaxSnapshotBytes)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %d", c.SessionTTL)
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	valid := false
	for _, e := range ValidTraceExporters {
		if c.TraceExporter == e {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("invalid trace_exporter: %s", c.TraceExporter)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *HostwatchConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "storage_backend", Value: c.StorageBackend, Source: c.Source("storage_backend")},
		{Name: "badger_path", Value: c.BadgerPath, Source: c.Source("badger_path")},
		{Name: "max_snapshot_bytes", Value: strconv.FormatInt(c.MaxSnapshotBytes, 10), Source: c.Source("max_snapshot_bytes")},
		{Name: "session_ttl", Value: strconv.Itoa(c.SessionTTL), Source: c.Source("session_ttl")},
		{Name: "registration_enabled", Value: strconv.FormatBool(c.RegistrationEnabled), Source: c.Source("registration_enabled")},
		{Name: "metrics_enabled", Value: strconv.FormatBool(c.MetricsEnabled), Source: c.Source("metrics_enabled")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "audit_nats_url", Value: c.AuditNATSURL, Source: c.Source("audit_nats_url")},
		{Name: "audit_nats_subject", Value: c.AuditNATSSubject, Source: c.Source("audit_nats_subject")},
		{Name: "trace_exporter", Value: c.TraceExporter, Source: c.Source("trace_exporter")},
	}
}

// FormatText returns a text representation of the configuration
func (c *HostwatchConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-34s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-34s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-34s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *HostwatchConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
