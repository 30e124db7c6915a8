package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/model"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	"github.com/doodlesbykumbi/hostwatch/pkg/telemetry"
)

const DefaultBcryptCost = bcrypt.DefaultCost

// CreateOwner creates an account with a fresh install token.
func (s *Service) CreateOwner(ctx context.Context, email, password string) (*store.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError(ValidationReasonMissingFields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	token, err := s.newToken()
	if err != nil {
		return nil, internalError("generate install token", err)
	}

	u, err := s.users.CreateUser(ctx, email, hash, token)
	if errors.Is(err, store.ErrUserExists) {
		audit.Log(audit.AccountEvent{Email: email, ClientIP: clientIP(ctx), Operation: "register", ErrorMessage: "already exists"})
		return nil, validationError(ValidationReasonEmailTaken)
	}
	if err != nil {
		return nil, internalError("create user", err)
	}

	s.logger.Info("owner account created", zap.String("user_id", u.ID))
	audit.Log(audit.AccountEvent{Email: email, UserID: u.ID, ClientIP: clientIP(ctx), Operation: "register", Success: true})
	return u, nil
}

// Authenticate checks an owner's password. Unknown email and wrong
// password produce the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, validationError(ValidationReasonMissingFields)
	}

	u, err := s.users.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		return nil, internalError("find user", err)
	}

	if u == nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		s.metrics.Logins.WithLabelValues(telemetry.ResultUnauthorized).Inc()
		audit.Log(audit.AccountEvent{Email: email, ClientIP: clientIP(ctx), Operation: "login", ErrorMessage: "invalid credentials"})
		return nil, authError(AuthReasonInvalidCredentials)
	}

	s.metrics.Logins.WithLabelValues(telemetry.ResultSuccess).Inc()
	audit.Log(audit.AccountEvent{Email: email, UserID: u.ID, ClientIP: clientIP(ctx), Operation: "login", Success: true})
	return u, nil
}

// FindOwner looks up an account by email for administrative tooling.
func (s *Service) FindOwner(ctx context.Context, email string) (*store.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, validationError(ValidationReasonMissingFields)
	}
	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("no owner with email %q", email)
	}
	if err != nil {
		return nil, internalError("find user", err)
	}
	return u, nil
}
