package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/actor"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
)

type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (uuid.UUID, error)
}

// ErrorHandler writes err as an API error response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate requires a valid bearer token and stores its user in the
// request context.
func Authenticate(auth Authenticator, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				onError(w, r, apperr.UnauthorizedErr)
				return
			}

			userID, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(actor.NewContext(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
