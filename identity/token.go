package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
)

// ErrEmptySigningSecret is returned when a TokenSigner is created without a secret.
var ErrEmptySigningSecret = errors.New("bearer token signing secret must not be empty")

const defaultTokenTTL = 24 * time.Hour

// BearerClaims is what a circulation bearer token carries.
type BearerClaims struct {
	Provider      string `json:"provider"`
	ProviderToken string `json:"provider_token"`
	jwt.RegisteredClaims
}

// PermanentID is the provider's permanent id of the patron.
func (c BearerClaims) PermanentID() string {
	return c.Subject
}

// TokenSigner issues and verifies HS256 bearer tokens, so a client can authenticate with the
// circulation manager after the OAuth callback without going back to the identity provider.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenSignerOption configures a TokenSigner.
type TokenSignerOption func(*TokenSigner)

// WithTokenTTL sets how long issued tokens are valid.
func WithTokenTTL(ttl time.Duration) TokenSignerOption {
	return func(s *TokenSigner) { s.ttl = ttl }
}

// WithTokenClock sets the clock, for tests.
func WithTokenClock(now func() time.Time) TokenSignerOption {
	return func(s *TokenSigner) { s.now = now }
}

func NewTokenSigner(secret string, options ...TokenSignerOption) (TokenSigner, error) {
	if secret == "" {
		return TokenSigner{}, ErrEmptySigningSecret
	}

	s := TokenSigner{secret: []byte(secret), ttl: defaultTokenTTL, now: time.Now}
	for _, option := range options {
		option(&s)
	}

	return s, nil
}

// Sign issues a token for the patron verified by provider.
func (s TokenSigner) Sign(provider string, patron PatronData, providerToken string) (string, error) {
	now := s.now()
	claims := BearerClaims{
		Provider:      provider,
		ProviderToken: providerToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   patron.PermanentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses token. Any failure is an InvalidCredentials problem.
func (s TokenSigner) Verify(token string) (BearerClaims, error) {
	claims := new(BearerClaims)

	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return BearerClaims{}, problem.Detailed(problem.InvalidCredentials, "Invalid bearer token.")
	}

	return *claims, nil
}
