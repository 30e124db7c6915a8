package endpoints

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/middleware"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/user/login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterUserEndpoints registers account creation and login
func RegisterUserEndpoints(s *server.Server) {
	s.Router.HandleFunc("/api/user/register", handleRegisterUser(s)).Methods("POST")
	s.Router.HandleFunc("/api/user/login", handleLogin(s.Fleet, s.Sessions, s.Logger)).Methods("POST")
}

func handleRegisterUser(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Config().RegistrationEnabled {
			respondWithError(w, http.StatusNotFound, "Not Found")
			return
		}

		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Missing fields")
			return
		}

		u, err := s.Fleet.CreateOwner(r.Context(), req.Email, req.Password)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"email":   u.Email,
		})
	}
}

func handleLogin(svc *fleet.Service, sessions *session.Manager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Missing fields")
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			respondWithServiceError(w, logger, err)
			return
		}

		token, expiresAt, err := sessions.Issue(u.ID, u.Email)
		if err != nil {
			respondWithServiceError(w, logger, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
			SameSite: http.SameSiteLaxMode,
		})
		respondWithJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
	}
}
