package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	customErrors "github.com/Miraines/storefront-auth/internal/domain/auth/errors"
	"github.com/Miraines/storefront-auth/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authStub struct {
	identity model.Identity
	err      error
	gotToken string
}

func (a *authStub) Authenticate(_ context.Context, token string) (model.Identity, error) {
	a.gotToken = token
	return a.identity, a.err
}

func protectedRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireBearer(auth, zap.NewNop()), func(c *gin.Context) {
		if id := IdentityFrom(c); id != nil {
			c.JSON(http.StatusOK, id)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, authz string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireBearer_AttachesIdentity(t *testing.T) {
	stub := &authStub{identity: model.Identity{ID: uuid.New(), Email: "a@x.com"}}
	w := get(protectedRouter(stub), "Bearer tok")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "tok", stub.gotToken)
	require.Contains(t, w.Body.String(), `"email":"a@x.com"`)
}

func TestRequireBearer_SchemeCaseInsensitive(t *testing.T) {
	stub := &authStub{identity: model.Identity{ID: uuid.New()}}
	w := get(protectedRouter(stub), "bearer tok")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireBearer_MissingOrMalformed(t *testing.T) {
	r := protectedRouter(&authStub{})
	for _, h := range []string{"", "Basic abc", "Bearer", "Bearer    "} {
		require.Equal(t, http.StatusUnauthorized, get(r, h).Code, h)
	}
}

func TestRequireBearer_InvalidToken(t *testing.T) {
	w := get(protectedRouter(&authStub{err: customErrors.ErrInvalidToken}), "Bearer tok")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

func TestRequireBearer_UnknownUserPassesWithoutIdentity(t *testing.T) {
	w := get(protectedRouter(&authStub{err: customErrors.ErrNotFound}), "Bearer tok")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireBearer_InternalError(t *testing.T) {
	w := get(protectedRouter(&authStub{err: customErrors.WrapInternal(errors.New("db down"), "x")}), "Bearer tok")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "db down")
}
