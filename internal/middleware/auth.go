// Package middleware provides HTTP middleware for the industrain API.
package middleware

import (
	"context"
	"net/http"

	"industrain/internal/auth"
	"industrain/internal/jwtauth"
	"industrain/internal/logger"
	"industrain/internal/profile"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// IdentityContextKey is the context key for the authenticated identity.
const IdentityContextKey contextKey = "identity"

// TokenVerifier verifies a session token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*jwtauth.Claims, error)
}

// GetIdentity retrieves the authenticated identity from the request context.
func GetIdentity(ctx context.Context) (profile.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(profile.Identity)
	return identity, ok
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity profile.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// RequireAuth returns middleware that authenticates requests with a Clerk
// session token and attaches the caller's identity to the request.
//
// Error responses:
//   - 401 Unauthorized: Missing or malformed Authorization header
//   - 403 Forbidden: Token failed verification
//   - 500 Internal Server Error: Verifier not configured
func RequireAuth(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearerToken(r)
			if err != nil {
				auth.WriteUnauthorized(w)
				return
			}

			if verifier == nil {
				log.Error("auth verifier not configured", "path", r.URL.Path)
				auth.WriteJSONError(w, http.StatusInternalServerError, "authentication is not configured", "configuration")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("session token rejected", "path", r.URL.Path, "error", err)
				auth.WriteForbidden(w)
				return
			}

			ctx := jwtauth.WithClaims(r.Context(), claims)
			ctx = WithIdentity(ctx, identityFromClaims(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromClaims(c *jwtauth.Claims) profile.Identity {
	return profile.Identity{
		ClerkID:   c.ClerkUserID(),
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.Name,
		ImageURL:  c.ImageURL,
		Role:      c.UserRole(),
	}
}
