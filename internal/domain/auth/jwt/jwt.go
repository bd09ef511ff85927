package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

type TokenIssuer interface {
	Issue(userID uuid.UUID) (token string, exp time.Time, err error)
	Verify(token string) (Claims, error)
}
