package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/goldenlabs/golden_gold_app/internal/middleware"
	"github.com/goldenlabs/golden_gold_app/pkg/config"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles identity selection. There is no password flow: the demo
// reduces authentication to picking one of the seeded identities.
type AuthHandler struct {
	tokenService portssvc.TokenSvcFacade
	userService  portssvc.UserSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(ts portssvc.TokenSvcFacade, us portssvc.UserSvcFacade) *AuthHandler {
	return &AuthHandler{tokenService: ts, userService: us}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the public routes for identity selection.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, ts portssvc.TokenSvcFacade, us portssvc.UserSvcFacade) {
	h := NewAuthHandler(ts, us)

	// Login is rate limited: 5 requests per minute per IP.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	{
		auth.GET("/identities", h.ListIdentities)
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.Login)
	}

	// Logout needs a valid session to acknowledge.
	r.POST("/api/v1/auth/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.Logout)
}

// ListIdentities godoc
// @Summary List seeded identities
// @Description Returns the identity cards shown on the login picker
// @Tags auth
// @Produce json
// @Success 200 {object} dto.ListIdentitiesResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/identities [get]
func (h *AuthHandler) ListIdentities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	users, err := h.userService.ListIdentities(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list identities", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list identities"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListIdentitiesResponse(users))
}

// Login godoc
// @Summary Select an identity
// @Description Issues a session token for the selected seeded identity
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Identity selection"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.tokenService.Login(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login with unknown identity", slog.String("target_user_id", req.UserID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown identity"})
		} else {
			logger.Error("Failed to issue session token", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		}
		return
	}

	logger.Info("Identity selected", slog.String("user_id", resp.User.UserID))
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary End the session
// @Description Stateless acknowledgement; the client discards its token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Sessions are stateless JWTs; there is nothing to revoke server-side.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
