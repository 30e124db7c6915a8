package endpoints

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
)

// RegisterEnrollEndpoint registers agent enrollment. Authentication is the
// install token in the body.
func RegisterEnrollEndpoint(s *server.Server) {
	s.Router.HandleFunc("/api/register", handleEnroll(s.Fleet, s.Logger)).Methods("POST")
}

func handleEnroll(svc *fleet.Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fleet.EnrollRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Missing fields")
			return
		}

		result, err := svc.Enroll(r.Context(), req)
		if err != nil {
			respondWithServiceError(w, logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}
