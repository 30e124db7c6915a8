package endpoints

import (
	"errors"
	"io"
	"net/http"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
	"github.com/doodlesbykumbi/hostwatch/pkg/signature"
)

// RegisterIngestEndpoint registers signed snapshot submission
func RegisterIngestEndpoint(s *server.Server) {
	s.Router.HandleFunc("/api/metrics", handleIngest(s)).Methods("POST")
}

func handleIngest(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverID := r.Header.Get(signature.ServerIDHeader)
		sig := r.Header.Get(signature.Header)
		if serverID == "" || sig == "" {
			respondWithServiceError(w, s.Logger, fleet.ErrMissingHeaders)
			return
		}

		// The signature covers the body exactly as sent, so it is read raw
		// and never re-encoded.
		limit := s.Config().MaxSnapshotBytes
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithServiceError(w, s.Logger, fleet.ErrBodyTooLarge)
				return
			}
			respondWithError(w, http.StatusBadRequest, "Invalid JSON Body")
			return
		}

		if err := s.Fleet.Ingest(r.Context(), serverID, sig, body); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
