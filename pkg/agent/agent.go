package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the time between pushes.
const DefaultInterval = 10 * time.Second

// Agent pushes a snapshot every Interval.
type Agent struct {
	Client   *Client
	Creds    *Credentials
	Collect  CollectFunc
	Interval time.Duration
	Logger   *zap.Logger
}

// EnsureCredentials loads the credentials file, enrolling first when it
// does not exist yet.
func EnsureCredentials(ctx context.Context, client *Client, path, installToken, ip string, logger *zap.Logger) (*Credentials, error) {
	creds, err := LoadCredentials(path)
	if err == nil {
		logger.Info("agent restarted", zap.String("server_id", creds.ServerID))
		return creds, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if installToken == "" {
		return nil, fmt.Errorf("no credentials at %s: --token is required for the first run", path)
	}

	id, err := DetectIdentity(ctx, ip)
	if err != nil {
		return nil, err
	}
	logger.Info("enrolling",
		zap.String("hostname", id.Hostname),
		zap.String("username", id.Username),
		zap.String("ip", id.IP),
	)
	creds, err = client.Enroll(ctx, id, installToken)
	if err != nil {
		return nil, fmt.Errorf("enrollment failed: %w", err)
	}
	if err := SaveCredentials(path, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	logger.Info("enrolled", zap.String("server_id", creds.ServerID))
	return creds, nil
}

// PushOnce collects, encodes and pushes a single snapshot.
func (a *Agent) PushOnce(ctx context.Context) error {
	snap, err := a.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	pushCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	if err := a.Client.Push(pushCtx, a.Creds, body); err != nil {
		return err
	}

	a.Logger.Debug("snapshot sent",
		zap.Float64("load_1", snap.Host.Load1),
		zap.Float64("memory_used_percent", snap.Memory.UsedPercent),
		zap.Int("interfaces", len(snap.Network)),
	)
	return nil
}

// Run pushes immediately and then every Interval until ctx is done. A
// failed push is logged and retried on the next tick.
func (a *Agent) Run(ctx context.Context) error {
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := a.PushOnce(ctx); err != nil && ctx.Err() == nil {
			a.Logger.Warn("push failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
