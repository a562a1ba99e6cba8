package jwtauth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"industrain/internal/logger"
)

const (
	defaultKeyTTL = 10 * time.Minute
	// minRefreshGap bounds refetches triggered by unknown kids.
	minRefreshGap = 30 * time.Second
)

// JWKSCache caches the instance's signing keys.
type JWKSCache struct {
	url        string
	mu         sync.RWMutex
	keys       map[string]any // kid -> public key
	lastFetch  time.Time
	cacheTTL   time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// NewJWKSCache creates a new JWKS cache.
func NewJWKSCache(jwksURL string, log *logger.Logger) *JWKSCache {
	if log == nil {
		log = logger.Nop()
	}
	return &JWKSCache{
		url:      jwksURL,
		keys:     make(map[string]any),
		cacheTTL: defaultKeyTTL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// GetKey returns the public key for the given key ID.
func (c *JWKSCache) GetKey(ctx context.Context, kid string) (any, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	needsRefresh := time.Since(c.lastFetch) > c.cacheTTL
	c.mu.RUnlock()

	if ok && !needsRefresh {
		return key, nil
	}

	if err := c.refresh(ctx, !ok); err != nil {
		if ok {
			c.log.Warn("JWKS refresh failed, using cached key", "kid", kid, "error", err)
			return key, nil
		}
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("key %s not found in JWKS", kid)
	}

	return key, nil
}

// JWKS represents a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key.
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use,omitempty"`
	N   string `json:"n"`
	E   string `json:"e"`
	Alg string `json:"alg,omitempty"`
}

// refresh refetches the key set. An unknown kid may force a refetch of a
// fresh cache, since Clerk rotates keys without notice.
func (c *JWKSCache) refresh(ctx context.Context, unknownKid bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	age := time.Since(c.lastFetch)
	if len(c.keys) > 0 {
		if !unknownKid && age < c.cacheTTL {
			return nil
		}
		if unknownKid && age < minRefreshGap {
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := decodeJSON(resp.Body, &jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	newKeys := make(map[string]any)
	for _, key := range jwks.Keys {
		// Clerk omits "use" on some instances
		if key.Kty != "RSA" || (key.Use != "" && key.Use != "sig") {
			continue
		}

		publicKey, err := parseRSAPublicKey(key.N, key.E)
		if err != nil {
			c.log.Warn("failed to parse RSA key", "kid", key.Kid, "error", err)
			continue
		}

		newKeys[key.Kid] = publicKey
	}

	c.keys = newKeys
	c.lastFetch = time.Now()
	c.log.Debug("JWKS refreshed", "keys", len(newKeys))

	return nil
}
