package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = time.Hour

// ErrVerification wraps every reason a token is rejected. Callers cannot tell
// an expired token from a forged one.
var ErrVerification = errors.New("token verification failed")

// TokenService issues and verifies HS256 session tokens signed with a shared
// secret. It holds no per-user state and there is no revocation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs every field of identity plus iat and exp. Issuance metadata
// wins over caller-supplied iat/exp.
func (s *TokenService) Issue(identity map[string]any) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("sign token: %w: empty signing secret", jwt.ErrInvalidKey)
	}

	now := s.now()
	claims := make(jwt.MapClaims, len(identity)+2)
	for k, v := range identity {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (s *TokenService) Verify(tokenString string) (map[string]any, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: %w: empty signing secret", ErrVerification, jwt.ErrInvalidKey)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !token.Valid {
		return nil, ErrVerification
	}
	return map[string]any(claims), nil
}
