package endpoints

import "github.com/doodlesbykumbi/hostwatch/pkg/server"

// RegisterAll registers every hostwatch endpoint on srv.
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterUserEndpoints(srv)
	RegisterTokenEndpoints(srv)
	RegisterEnrollEndpoint(srv)
	RegisterIngestEndpoint(srv)
	RegisterStatsEndpoint(srv)
}
