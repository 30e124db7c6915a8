package fleet

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/model"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	"github.com/doodlesbykumbi/hostwatch/pkg/telemetry"
)

// EnrollRequest is what an agent presents on first contact.
type EnrollRequest struct {
	Hostname     string `json:"hostname"`
	Username     string `json:"username"`
	IP           string `json:"ip"`
	InstallToken string `json:"install_token"`
}

// EnrollResult is returned exactly once per enrollment. The secret is
// never readable again through any operation.
type EnrollResult struct {
	ServerID  string `json:"server_id"`
	SecretKey string `json:"secret_key"`
}

// Enroll binds a host triple to the owner of the install token. Enrolling
// the same triple again replaces owner and secret on the same record and
// invalidates the previous secret.
func (s *Service) Enroll(ctx context.Context, req EnrollRequest) (result *EnrollResult, err error) {
	ctx, span := s.startSpan(ctx, "Enroll", attribute.String("host.name", req.Hostname))
	defer func() { endSpan(span, err) }()

	outcome := telemetry.ResultError
	defer func() { s.metrics.Enrollments.WithLabelValues(outcome).Inc() }()

	req.Hostname = strings.TrimSpace(req.Hostname)
	req.Username = strings.TrimSpace(req.Username)
	req.IP = strings.TrimSpace(req.IP)
	req.InstallToken = strings.TrimSpace(req.InstallToken)

	if req.Hostname == "" || req.Username == "" || req.IP == "" || req.InstallToken == "" {
		outcome = telemetry.ResultInvalid
		return nil, validationError(ValidationReasonMissingFields)
	}

	owner, err := s.users.FindUserByInstallToken(ctx, req.InstallToken)
	if errors.Is(err, store.ErrUserNotFound) {
		outcome = telemetry.ResultUnauthorized
		audit.Log(audit.EnrollEvent{Hostname: req.Hostname, ClientIP: clientIP(ctx), ErrorMessage: "invalid install token"})
		return nil, authError(AuthReasonInvalidToken)
	}
	if err != nil {
		return nil, internalError("find install token", err)
	}

	secret, err := s.newSecret()
	if err != nil {
		return nil, internalError("generate secret", err)
	}

	serverID := model.ServerID(req.Hostname, req.Username, req.IP)
	err = s.servers.UpsertServer(ctx, store.ServerRecord{
		ID:        serverID,
		SecretKey: []byte(secret),
		Hostname:  req.Hostname,
		Username:  req.Username,
		IP:        req.IP,
		OwnerID:   owner.ID,
		LastSeen:  s.now().UTC(),
	})
	if err != nil {
		return nil, internalError("upsert server", err)
	}

	outcome = telemetry.ResultSuccess
	span.SetAttributes(attribute.String("server.id", serverID))
	s.logger.Info("server enrolled", zap.String("server_id", serverID), zap.String("owner_id", owner.ID))
	audit.Log(audit.EnrollEvent{
		ServerID: serverID,
		OwnerID:  owner.ID,
		Hostname: req.Hostname,
		ClientIP: clientIP(ctx),
		Success:  true,
	})

	return &EnrollResult{ServerID: serverID, SecretKey: secret}, nil
}
