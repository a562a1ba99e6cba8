// Package jwtauth verifies Clerk session tokens against the instance JWKS.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"industrain/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingKeyID       = errors.New("token has no kid header")
	ErrUnauthorizedParty  = errors.New("token issued for an unauthorized party")
	ErrMissingSubject     = errors.New("token has no subject")
	ErrVerifierNotEnabled = errors.New("token verifier not configured")
)

// Metadata holds the public metadata Clerk copies into session tokens
// when the session template includes it.
type Metadata struct {
	Role string `json:"role,omitempty"`
}

// Claims represents the claims in a Clerk session token. Profile claims
// are only present when the instance's session template adds them.
type Claims struct {
	jwt.RegisteredClaims
	AuthorizedParty string   `json:"azp,omitempty"`
	SessionID       string   `json:"sid,omitempty"`
	Email           string   `json:"email,omitempty"`
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
	Name            string   `json:"name,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	Role            string   `json:"role,omitempty"`
	Metadata        Metadata `json:"metadata,omitempty"`
}

// ClerkUserID returns the Clerk user ID (the sub claim).
func (c *Claims) ClerkUserID() string {
	return c.Subject
}

// UserRole returns the role claim, falling back to the metadata role.
func (c *Claims) UserRole() string {
	if c.Role != "" {
		return c.Role
	}
	return c.Metadata.Role
}

// Config holds the verifier configuration.
type Config struct {
	Issuer            string
	JWKSURL           string
	AuthorizedParties []string
}

// Verifier validates session tokens.
type Verifier struct {
	issuer  string
	parties []string
	jwks    *JWKSCache
	leeway  time.Duration
}

// NewVerifier creates a verifier for the given Clerk instance.
func NewVerifier(cfg Config, log *logger.Logger) (*Verifier, error) {
	issuer := strings.TrimSuffix(strings.TrimSpace(cfg.Issuer), "/")
	if issuer == "" {
		return nil, errors.New("jwtauth: issuer is required")
	}

	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = issuer + "/.well-known/jwks.json"
	}

	return &Verifier{
		issuer:  issuer,
		parties: cfg.AuthorizedParties,
		jwks:    NewJWKSCache(jwksURL, log),
		leeway:  5 * time.Second,
	}, nil
}

// Verify parses and validates a session token, returning its claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	if v == nil {
		return nil, ErrVerifierNotEnabled
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, ErrMissingKeyID
		}
		return v.jwks.GetKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	// azp is only enforced when both sides carry it
	if len(v.parties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.parties, claims.AuthorizedParty) {
		return nil, ErrUnauthorizedParty
	}

	return claims, nil
}

type contextKey string

// ClaimsContextKey is the context key for verified claims.
const ClaimsContextKey contextKey = "jwt_claims"

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// GetClaims retrieves verified claims from the context.
func GetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}
