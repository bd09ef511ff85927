package middleware

import (
	"context"
	"net/http"
	"strings"

	customErrors "github.com/Miraines/storefront-auth/internal/domain/auth/errors"
	"github.com/Miraines/storefront-auth/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "auth.identity"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

// RequireBearer validates the bearer token and attaches the caller's
// identity. A valid token whose user no longer exists passes through with
// no identity attached; handlers decide what that means.
func RequireBearer(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(identityKey, &identity)
		case customErrors.IsNotFound(err):
		case customErrors.IsInvalidToken(err):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		default:
			log.Error("authenticate", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by RequireBearer, or nil.
func IdentityFrom(c *gin.Context) *model.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*model.Identity)
	return identity
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
