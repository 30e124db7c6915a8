package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/identity"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
)

// RegisterStatsEndpoint registers the owner's fleet view
func RegisterStatsEndpoint(s *server.Server) {
	statsRouter := s.Router.PathPrefix("/api/stats").Subrouter()
	statsRouter.Use(s.SessionMiddleware.Middleware)

	statsRouter.HandleFunc("", handleStats(s.Fleet, s.Logger)).Methods("GET")
}

func handleStats(svc *fleet.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		servers, err := svc.ListServers(r.Context(), id.UserID)
		if err != nil {
			respondWithServiceError(w, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, servers)
	}
}
