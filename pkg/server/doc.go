// Package server provides the HTTP server for the hostwatch API.
//
// It uses gorilla/mux for routing and gorilla/handlers for the access log.
// Endpoints are registered by the endpoints subpackage:
//
//	srv, err := server.NewServer(svc, sessions, health, cfg, logger, host, port)
//	endpoints.RegisterAll(srv)
//	go srv.Start()
//	...
//	srv.Shutdown(ctx)
//
// # Components
//
// The Server struct holds:
//
//   - Fleet: token, enrollment, ingestion and stats operations
//   - Sessions: owner session signing and verification
//   - HealthStore: store connectivity for the status endpoint
//   - SessionMiddleware: owner authentication for /api/user/token and /api/stats
//   - Router: HTTP request router
//
// The configuration is held behind an atomic pointer so a reload never
// tears a request.
package server
