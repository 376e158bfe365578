// internal/api/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorClaims are the JWT claims the workflow cares about: which agent is
// acting. Authentication itself (issuing tokens, sessions) lives outside this
// service; the middleware only enforces the interface boundary that every
// mutating call carries an authenticated actor id.
type ActorClaims struct {
	AgentID  int64  `json:"agent_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ParseActorToken validates an HS256 token and returns its claims.
func ParseActorToken(tokenStr string, secret []byte) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ActorClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected token signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid || claims.AgentID <= 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Authenticator returns middleware that requires a Bearer token and injects
// the acting agent's id into the request context.
func Authenticator(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := ParseActorToken(tokenStr, secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, claims.AgentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the authenticated agent id placed by Authenticator.
func ActorFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorContextKey).(int64)
	return id, ok
}

// WithActor returns a context carrying the given actor id. Intended for tests
// and internal callers that bypass the HTTP middleware.
func WithActor(ctx context.Context, agentID int64) context.Context {
	return context.WithValue(ctx, actorContextKey, agentID)
}
