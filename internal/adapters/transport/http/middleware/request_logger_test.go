package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_RedactsCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer super-secret-token")
	req.Header.Set("Cookie", "session=abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	incoming := logs.FilterMessage("incoming request").All()
	require.Len(t, incoming, 1)
	hdr, _ := incoming[0].ContextMap()["hdr"].(string)
	require.NotContains(t, hdr, "super-secret-token")
	require.NotContains(t, hdr, "session=abc")
	require.Contains(t, hdr, "[redacted]")

	require.Equal(t, 1, logs.FilterMessage("completed").Len())
}

func TestRequestLogger_Aborted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, 1, logs.FilterMessage("aborted").Len())
}
