package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// statusFor maps the fleet error taxonomy to an HTTP status.
func statusFor(err error) int {
	var (
		verr *fleet.ValidationError
		aerr *fleet.AuthError
	)
	switch {
	case errors.As(err, &verr):
		if verr.Reason == fleet.ValidationReasonBodyTooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case errors.As(err, &aerr):
		switch aerr.Reason {
		case fleet.AuthReasonInvalidToken, fleet.AuthReasonUnknownServer:
			return http.StatusForbidden
		default:
			return http.StatusUnauthorized
		}
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes err using its public message. Internal
// errors are logged and reported without detail.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		respondWithError(w, code, "Internal Error")
		return
	}
	respondWithError(w, code, err.Error())
}

// decodeJSON reads a bounded JSON object into v.
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(v)
}
