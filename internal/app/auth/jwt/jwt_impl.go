package jwt

import (
	"errors"
	"time"

	customErrors "github.com/Miraines/storefront-auth/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/storefront-auth/internal/domain/auth/jwt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = time.Hour

type JwtUtilImpl struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*JwtUtilImpl)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(j *JwtUtilImpl) { j.now = now }
}

// NewJWTUtil fails on an empty secret. A non-positive ttl means DefaultTTL.
func NewJWTUtil(secret string, ttl time.Duration, opts ...Option) (*JwtUtilImpl, error) {
	if secret == "" {
		return nil, errors.New("jwt: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	j := &JwtUtilImpl{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *JwtUtilImpl) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := j.now()

	claims := jwt2.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID.String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) Verify(raw string) (jwt2.Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	)

	if err != nil || !token.Valid {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.Claims)
	if !ok {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}

	return *claims, nil
}
