package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/NTying/VideoAppWebAPI/internal/service"
	"github.com/NTying/VideoAppWebAPI/internal/token"
)

// Handler wires HTTP routes to the auth services.
type Handler struct {
	auth     service.AuthService
	register service.RegistrationService
	issuer   *token.Issuer
	logger   *logrus.Logger
}

func NewHandler(auth service.AuthService, register service.RegistrationService, issuer *token.Issuer, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:     auth,
		register: register,
		issuer:   issuer,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestLogger(h.logger))

	api := router.Group("/api")
	{
		api.POST("/login", h.login)
		api.POST("/register", h.registerUser)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authed := api.Group("", authRequired(h.issuer))
		authed.GET("/me", h.me)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	signed, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var locked *service.AccountLockedError
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.String(http.StatusBadRequest, service.ErrInvalidCredentials.Error())
		case errors.As(err, &locked):
			c.String(http.StatusBadRequest, locked.Error())
		default:
			h.logger.Errorf("login %q: %v", req.Username, err)
			c.String(http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.String(http.StatusOK, signed)
}

func (h *Handler) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if err := h.register.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrRoleCreation),
			errors.Is(err, service.ErrUserCreation),
			errors.Is(err, service.ErrRoleAssignment):
			c.String(http.StatusBadRequest, err.Error())
		default:
			h.logger.Errorf("register %q: %v", req.Username, err)
			c.String(http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.String(http.StatusOK, "Ok")
}

type meResponse struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

func (h *Handler) me(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		c.String(http.StatusUnauthorized, "unauthorized")
		return
	}
	c.JSON(http.StatusOK, meResponse{
		Name:  claims.Name,
		Roles: claims.Roles,
	})
}
