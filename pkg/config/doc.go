// Package config provides configuration management for hostwatch.
//
// Settings are read from $HOSTWATCH_CONFIG_PATH/hostwatch.yml (default
// /etc/hostwatch) and overridden by HOSTWATCH_* environment variables.
// Each attribute remembers whether its value came from the default, the
// file or the environment, which `hostwatchctl configuration show` prints.
//
// Secrets are never read from the file:
//
//   - DATABASE_URL: PostgreSQL connection for the credential store
//   - HOSTWATCH_DATA_KEY: base64 key sealing agent secrets at rest
//   - HOSTWATCH_SESSION_KEY: base64 key signing owner sessions
//   - AUDIT_DATABASE_URL: optional PostgreSQL connection for audit messages
package config
