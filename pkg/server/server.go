package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/config"
	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/middleware"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

type Server struct {
	Fleet             *fleet.Service
	Sessions          *session.Manager
	HealthStore       store.HealthStore
	SessionMiddleware *middleware.SessionAuthenticator
	Router            *mux.Router
	Logger            *zap.Logger

	config  atomic.Pointer[config.HostwatchConfig]
	srv     *http.Server
	closeMu sync.Mutex
	closers []io.Closer
}

func NewServer(
	svc *fleet.Service,
	sessions *session.Manager,
	healthStore store.HealthStore,
	cfg *config.HostwatchConfig,
	logger *zap.Logger,
	host string,
	port string,
) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// trusted_proxies is read once; changing it requires a restart.
	clientIP, err := middleware.NewClientIP(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Use(clientIP.Middleware)

	srv := &http.Server{
		Handler:           handlers.LoggingHandler(os.Stdout, router),
		Addr:              host + ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s := &Server{
		Fleet:             svc,
		Sessions:          sessions,
		HealthStore:       healthStore,
		SessionMiddleware: middleware.NewSessionAuthenticator(sessions, clientIP),
		Router:            router,
		Logger:            logger,
		srv:               srv,
	}
	s.config.Store(cfg)
	return s, nil
}

// Config returns the configuration in effect for the current request.
func (s *Server) Config() *config.HostwatchConfig {
	return s.config.Load()
}

// SetConfig swaps the configuration. In-flight requests keep the value
// they already loaded.
func (s *Server) SetConfig(cfg *config.HostwatchConfig) {
	s.config.Store(cfg)
}

// AddCloser registers a resource released by Shutdown after the listener
// has drained, in registration order.
func (s *Server) AddCloser(c io.Closer) {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	s.closers = append(s.closers, c)
}

// Handler returns the root handler including the access log.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, waits for in-flight requests and
// then closes every registered resource.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)

	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil {
			s.Logger.Error("failed to close resource", zap.Error(cerr))
			if err == nil {
				err = cerr
			}
		}
	}
	s.closers = nil
	return err
}
