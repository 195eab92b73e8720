package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var errTokenMissing = errors.New("authentication token missing")

// withAuth resolves the bearer token to a tutor and attaches it to the
// request context. Handlers behind it read identity only from the context.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			unauthorized(w, r, err.Error())
			return
		}

		tutor, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				unauthorized(w, r, "invalid or expired token")
			case errors.Is(err, auth.ErrNotFound):
				unauthorized(w, r, "user not found")
			default:
				writeServiceError(w, r, err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithTutor(r.Context(), tutor)))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tutortrack"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) < len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return "", errTokenMissing
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errTokenMissing
	}
	return token, nil
}
