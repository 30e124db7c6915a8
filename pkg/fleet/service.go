package fleet

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/model"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	"github.com/doodlesbykumbi/hostwatch/pkg/telemetry"
)

// Service runs token, enrollment, ingestion and stats operations against
// one users store and one servers store. It is safe for concurrent use
// and holds no per-record state.
type Service struct {
	users   store.UsersStore
	servers store.ServersStore

	logger  *zap.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer

	now        func() time.Time
	newToken   func() (string, error)
	newSecret  func() (string, error)
	bcryptCost int
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost overrides the password hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// NewService returns a Service over the given stores.
func NewService(users store.UsersStore, servers store.ServersStore, opts ...Option) *Service {
	s := &Service{
		users:      users,
		servers:    servers,
		logger:     zap.NewNop(),
		tracer:     telemetry.Tracer(),
		now:        time.Now,
		newToken:   model.GenerateInstallToken,
		newSecret:  model.GenerateSecretKey,
		bcryptCost: DefaultBcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewMetrics(nil)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "fleet."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type clientIPKey struct{}

// WithClientIP records the caller's address for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
