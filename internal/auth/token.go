package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrMisconfigured indicates the signing secret, issuer, or audience is
// missing. This is a server fault, never a client one.
var ErrMisconfigured = errors.New("token configuration incomplete")

// TokenConfig carries the signing parameters. It is injected at construction;
// the manager never reads ambient state.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// TokenManager handles issuing and validating JWT access tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(cfg TokenConfig) *TokenManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
	}
}

// Claims describes the JWT payload. Subject carries the user id.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID returns the user id the token was issued for.
func (c *Claims) SubjectID() string {
	return c.Subject
}

func (tm *TokenManager) checkConfig() error {
	if len(tm.secret) == 0 || tm.issuer == "" || tm.audience == "" {
		return ErrMisconfigured
	}
	return nil
}

// Issue builds and signs a token for the subject, valid for [now, now+ttl).
// No token is emitted when the configuration is incomplete.
func (tm *TokenManager) Issue(subjectID, name, role string) (string, time.Time, error) {
	if err := tm.checkConfig(); err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature, issuer, audience, and validity window, and
// returns the embedded claims. Callers must collapse any failure into a
// single unauthenticated outcome; the reason is not surfaced to clients.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	if err := tm.checkConfig(); err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
