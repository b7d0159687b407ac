package http

import (
	"context"
	"net/http"
	"strings"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/security"
)

type contextKey string

const actorContextKey contextKey = "actor"

// AuthMiddleware validates the bearer token and places the resolved
// actor on the request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Error:   "UNAUTHENTICATED",
					Message: "missing bearer token",
				})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Error:   "UNAUTHENTICATED",
					Message: err.Error(),
				})
				return
			}
			actor, err := claims.Actor()
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Error:   "UNAUTHENTICATED",
					Message: err.Error(),
				})
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the actor placed on the context by the auth
// middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}

// mustActor is the handler-side accessor; a missing actor means a route
// was registered outside the auth middleware.
func mustActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		logger.Error("Handler reached without an authenticated actor", "path", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Error:   "UNAUTHENTICATED",
			Message: "no authenticated actor",
		})
	}
	return actor, ok
}
