package http

import (
	"context"
	"net/http"

	"github.com/Miraines/storefront-auth/internal/adapters/transport/http/dto"
	"github.com/Miraines/storefront-auth/internal/adapters/transport/http/middleware"
	appsvc "github.com/Miraines/storefront-auth/internal/app/auth/service"
	authErrors "github.com/Miraines/storefront-auth/internal/domain/auth/errors"
	lg "github.com/Miraines/storefront-auth/internal/infra/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type HealthChecker interface {
	Check(ctx context.Context) error
}

type Handler struct {
	svc     appsvc.Service
	health  HealthChecker
	log     *zap.Logger
	metrics *authMetrics
}

func NewHandler(svc appsvc.Service, health HealthChecker, log *zap.Logger, reg prometheus.Registerer) *Handler {
	return &Handler{
		svc:     svc,
		health:  health,
		log:     log,
		metrics: newAuthMetrics(reg),
	}
}

func (h *Handler) Register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.metrics.observe("register", authErrors.ErrInvalidArgument)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}
	h.log.Info("/auth/register", lg.Email(body.Email))

	res, err := h.svc.Register(c.Request.Context(), body)
	h.metrics.observe("register", err)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token:  res.Token,
		UserID: res.UserID.String(),
		Email:  res.Email,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.metrics.observe("login", authErrors.ErrInvalidArgument)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}
	h.log.Info("/auth/login", lg.Email(body.Email))

	res, err := h.svc.Login(c.Request.Context(), body)
	h.metrics.observe("login", err)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:  res.Token,
		UserID: res.UserID.String(),
		Email:  res.Email,
	})
}

func (h *Handler) Profile(c *gin.Context) {
	identity, err := h.svc.Profile(c.Request.Context(), middleware.IdentityFrom(c))
	h.metrics.observe("profile", err)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, identity)
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.health.Check(c.Request.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleError maps service errors onto HTTP. Anything unrecognised is
// logged in full and answered with a bare 500.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid token"})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "email already registered"})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "user not found"})
	default:
		h.log.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
