package middleware

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/doodlesbykumbi/hostwatch/pkg/identity"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

// CookieName is the cookie carrying a session token for browser clients.
const CookieName = "hostwatch_session"

var bearerRegex = regexp.MustCompile(`^Bearer\s+(\S+)$`)

// SessionParser verifies a session token.
type SessionParser interface {
	Parse(token string) (*session.Claims, error)
}

// SessionAuthenticator is middleware that requires a valid owner session
type SessionAuthenticator struct {
	Sessions SessionParser
	ClientIP *ClientIP
}

// NewSessionAuthenticator creates a new session middleware
func NewSessionAuthenticator(sessions SessionParser, clientIP *ClientIP) *SessionAuthenticator {
	if clientIP == nil {
		clientIP = &ClientIP{}
	}
	return &SessionAuthenticator{Sessions: sessions, ClientIP: clientIP}
}

// Middleware rejects the request with 401 unless it carries a valid
// session, and stores the owner's Identity in the request context.
func (a *SessionAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			unauthorized(w)
			return
		}

		claims, err := a.Sessions.Parse(token)
		if err != nil {
			unauthorized(w)
			return
		}

		id := identity.FromClaims(claims).WithRemoteIP(a.ClientIP.Resolve(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if m := bearerRegex.FindStringSubmatch(header); len(m) == 2 {
			return m[1]
		}
		return ""
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
