package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/identity"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
)

// RegisterTokenEndpoints registers install token read and rotation
func RegisterTokenEndpoints(s *server.Server) {
	tokenRouter := s.Router.PathPrefix("/api/user/token").Subrouter()
	tokenRouter.Use(s.SessionMiddleware.Middleware)

	tokenRouter.HandleFunc("", handleGetToken(s.Fleet, s.Logger)).Methods("GET")
	tokenRouter.HandleFunc("", handleRotateToken(s.Fleet, s.Logger)).Methods("POST")
}

func handleGetToken(svc *fleet.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		token, err := svc.CurrentToken(r.Context(), id.UserID)
		if err != nil {
			respondWithServiceError(w, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func handleRotateToken(svc *fleet.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		token, err := svc.RotateToken(r.Context(), id.UserID)
		if err != nil {
			respondWithServiceError(w, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}
