package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/hostwatch"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	"github.com/doodlesbykumbi/hostwatch/pkg/telemetry"
)

// StatusResponse is returned by GET /
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// RegisterStatusEndpoints registers the status and Prometheus endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s.HealthStore)).Methods("GET")

	promHandler := telemetry.Handler()
	s.Router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if !s.Config().MetricsEnabled {
			http.NotFound(w, r)
			return
		}
		promHandler.ServeHTTP(w, r)
	}).Methods("GET")
}

func handleStatus(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := hostwatch.Version()

		if healthStore != nil {
			if err := healthStore.CheckConnectivity(); err != nil {
				respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: "unavailable", Version: version})
				return
			}
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok", Version: version})
	}
}
