package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payswift/payswift_backend/internal/apperrors"
	portssvc "github.com/payswift/payswift_backend/internal/core/ports/services"
	"github.com/payswift/payswift_backend/internal/dto"
	"github.com/payswift/payswift_backend/internal/middleware"
)

// authHandler handles the demo login and the session profile.
type authHandler struct {
	sessionService portssvc.SessionSvcFacade
}

func newAuthHandler(ss portssvc.SessionSvcFacade) *authHandler {
	return &authHandler{sessionService: ss}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, sessionService portssvc.SessionSvcFacade) {
	h := newAuthHandler(sessionService)
	r.POST("/api/v1/auth/login", h.login)
}

// registerUserRoutes registers the authenticated profile routes.
func registerUserRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := newAuthHandler(sessionService)
	rg.GET("/users/me", h.getProfile)
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for login request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.sessionService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Login rejected", slog.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Failed to log in", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	logger.Info("User logged in", slog.String("user_id", resp.User.ID))
	c.JSON(http.StatusOK, resp)
}

func (h *authHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.sessionService.GetProfile(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
			return
		}
		logger.Error("Failed to get profile", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}
