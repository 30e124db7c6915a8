package fleet

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	"github.com/doodlesbykumbi/hostwatch/pkg/signature"
	"github.com/doodlesbykumbi/hostwatch/pkg/telemetry"
)

// Ingest accepts a snapshot only if sig is the HMAC-SHA256 of body under
// the server's current secret. The body is verified as received and stored
// byte for byte, replacing the previous snapshot. Nothing is parsed or
// written for a body that fails verification.
func (s *Service) Ingest(ctx context.Context, serverID, sig string, body []byte) (err error) {
	ctx, span := s.startSpan(ctx, "Ingest",
		attribute.String("server.id", serverID),
		attribute.Int("snapshot.bytes", len(body)),
	)
	defer func() { endSpan(span, err) }()

	outcome := telemetry.ResultError
	defer func() { s.metrics.Ingestions.WithLabelValues(outcome).Inc() }()

	if serverID == "" || sig == "" {
		outcome = telemetry.ResultInvalid
		return ErrMissingHeaders
	}

	srv, err := s.servers.GetServer(ctx, serverID)
	if errors.Is(err, store.ErrServerNotFound) {
		outcome = telemetry.ResultUnauthorized
		s.rejectIngest(ctx, serverID, "unknown server")
		return authError(AuthReasonUnknownServer)
	}
	if err != nil {
		return internalError("get server", err)
	}

	if !signature.Verify(srv.SecretKey, body, sig) {
		outcome = telemetry.ResultUnauthorized
		s.rejectIngest(ctx, serverID, "bad signature")
		return authError(AuthReasonBadSignature)
	}

	if !json.Valid(body) {
		outcome = telemetry.ResultInvalid
		return validationError(ValidationReasonMalformedBody)
	}

	err = s.servers.RecordSnapshot(ctx, serverID, body, s.now().UTC())
	if errors.Is(err, store.ErrServerNotFound) {
		outcome = telemetry.ResultUnauthorized
		return authError(AuthReasonUnknownServer)
	}
	if err != nil {
		return internalError("record snapshot", err)
	}

	outcome = telemetry.ResultSuccess
	s.metrics.SnapshotBytes.Observe(float64(len(body)))
	s.logger.Debug("snapshot accepted", zap.String("server_id", serverID), zap.Int("bytes", len(body)))
	return nil
}

func (s *Service) rejectIngest(ctx context.Context, serverID, reason string) {
	s.logger.Warn("snapshot rejected", zap.String("server_id", serverID), zap.String("reason", reason))
	audit.Log(audit.IngestEvent{ServerID: serverID, ClientIP: clientIP(ctx), ErrorMessage: reason})
}
