package fleet

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

// CurrentToken returns the owner's active install token.
func (s *Service) CurrentToken(ctx context.Context, userID string) (token string, err error) {
	ctx, span := s.startSpan(ctx, "CurrentToken", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return "", authError(AuthReasonUnauthenticated)
	}

	u, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return "", authError(AuthReasonUnauthenticated)
	}
	if err != nil {
		return "", internalError("find user", err)
	}

	audit.Log(audit.TokenEvent{UserID: userID, ClientIP: clientIP(ctx), Operation: "read", Success: true})
	return u.InstallToken, nil
}

// RotateToken replaces the owner's install token with a fresh one. The
// previous token stops enrolling as soon as this returns; agents already
// enrolled keep their secrets.
func (s *Service) RotateToken(ctx context.Context, userID string) (token string, err error) {
	ctx, span := s.startSpan(ctx, "RotateToken", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return "", authError(AuthReasonUnauthenticated)
	}

	token, err = s.newToken()
	if err != nil {
		return "", internalError("generate install token", err)
	}

	err = s.users.ReplaceInstallToken(ctx, userID, token)
	if errors.Is(err, store.ErrUserNotFound) {
		return "", authError(AuthReasonUnauthenticated)
	}
	if err != nil {
		audit.Log(audit.TokenEvent{UserID: userID, ClientIP: clientIP(ctx), Operation: "rotate", ErrorMessage: "storage failure"})
		return "", internalError("replace install token", err)
	}

	s.metrics.TokenRotations.Inc()
	s.logger.Info("install token rotated", zap.String("user_id", userID))
	audit.Log(audit.TokenEvent{UserID: userID, ClientIP: clientIP(ctx), Operation: "rotate", Success: true})
	return token, nil
}
