package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials are issued once at enrollment.
type Credentials struct {
	ServerID  string `json:"server_id"`
	SecretKey string `json:"secret_key"`
}

// LoadCredentials reads path. A missing file is reported with an error
// satisfying errors.Is(err, os.ErrNotExist).
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.ServerID == "" || c.SecretKey == "" {
		return nil, fmt.Errorf("%s: server_id and secret_key are required", path)
	}
	return &c, nil
}

// SaveCredentials writes c to path with mode 0600, replacing any previous
// file atomically.
func SaveCredentials(path string, c *Credentials) error {
	if c == nil {
		return errors.New("nil credentials")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".credentials-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
