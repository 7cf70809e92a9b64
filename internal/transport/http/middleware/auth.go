package middleware

import (
	"context"
	"net/http"
	"strings"

	"carepay/internal/auth"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// Actor identifies the authenticated user acting on payroll records.
type Actor struct {
	ID   string
	Name string
}

// Auth extracts the acting user from a bearer token. Requests without a
// valid token pass through anonymous; handlers that need an actor reject
// them.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyActor, Actor{ID: claims.ActorID, Name: claims.Name})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(Actor)
	return actor, ok
}
