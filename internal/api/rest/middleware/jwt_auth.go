package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codleo/cod-order-capture/pkg/keyfetcher"
)

type contextKey string

const (
	BearerPrefix                         = "bearer"
	DefaultClockSkewTolerance            = 5 * time.Minute
	IdentityContextKey        contextKey = "identity"
)

// Identity is the authenticated caller the external identity layer vouches
// for: the token subject plus the role claim used for authorization.
type Identity struct {
	ID   string
	Role string
}

// Claims extends the registered JWT claims with the caller role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthMiddleware validates bearer tokens and sets the caller identity in
// the request context.
type JWTAuthMiddleware struct {
	keyFetcher keyfetcher.PublicKeyFetcher
	issuer     string
	audience   string
	clockSkew  time.Duration
}

// JWTConfig holds configuration for JWT authentication middleware
type JWTConfig struct {
	KeyFetcher keyfetcher.PublicKeyFetcher
	Issuer     string
	Audience   string
	ClockSkew  time.Duration // Optional: defaults to DefaultClockSkewTolerance
}

// NewJWTAuthMiddleware creates a new JWT authentication middleware
func NewJWTAuthMiddleware(config JWTConfig) *JWTAuthMiddleware {
	clockSkew := config.ClockSkew
	if clockSkew == 0 {
		clockSkew = DefaultClockSkewTolerance
	}

	return &JWTAuthMiddleware{
		keyFetcher: config.KeyFetcher,
		issuer:     config.Issuer,
		audience:   config.Audience,
		clockSkew:  clockSkew,
	}
}

// Handler returns an HTTP middleware function that validates JWT tokens
func (m *JWTAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.validateJWTAndExtractIdentity(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validateJWTAndExtractIdentity validates the token and returns the caller identity
func (m *JWTAuthMiddleware) validateJWTAndExtractIdentity(r *http.Request) (Identity, error) {
	token, err := m.parseToken(r)
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	if err := m.validateClaims(claims); err != nil {
		return Identity{}, fmt.Errorf("invalid claims: %w", err)
	}

	return Identity{ID: claims.Subject, Role: claims.Role}, nil
}

// parseToken extracts and parses JWT token from request
func (m *JWTAuthMiddleware) parseToken(r *http.Request) (*jwt.Token, error) {
	tokenString, err := extractBearerToken(r)
	if err != nil {
		return nil, err
	}

	key, err := m.keyFetcher.FetchPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Ensure token uses RSA signing method
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return token, nil
}

// validateClaims validates issuer, audience, subject, and timing claims
func (m *JWTAuthMiddleware) validateClaims(claims *Claims) error {
	if claims.Subject == "" {
		return errors.New("missing subject claim")
	}

	if claims.Issuer != m.issuer {
		return fmt.Errorf("invalid issuer: got %s, want %s", claims.Issuer, m.issuer)
	}

	if !slices.Contains(claims.Audience, m.audience) {
		return fmt.Errorf("invalid audience: missing %s", m.audience)
	}

	return m.validateTiming(claims)
}

// validateTiming validates expiration and issued-at claims with clock skew tolerance
func (m *JWTAuthMiddleware) validateTiming(claims *Claims) error {
	now := time.Now()

	// Check expiration (required)
	if claims.ExpiresAt == nil {
		return errors.New("missing expiration claim")
	}

	// Check issued-at time with clock skew tolerance (optional claim)
	if claims.IssuedAt != nil && claims.IssuedAt.After(now.Add(m.clockSkew)) {
		return errors.New("token issued too far in future")
	}

	return nil
}

// extractBearerToken extracts JWT token from Authorization header
func extractBearerToken(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerPrefix) {
		return "", errors.New("invalid authorization format")
	}

	return parts[1], nil
}

// GetIdentityFromContext extracts the caller identity from request context
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(Identity)
	return identity, ok
}
