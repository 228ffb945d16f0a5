package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/goldenlabs/golden_gold_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AssistantHandler handles the in-app AI assistant chat.
type AssistantHandler struct {
	assistantService portssvc.AssistantSvcFacade
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(as portssvc.AssistantSvcFacade) *AssistantHandler {
	return &AssistantHandler{assistantService: as}
}

// registerAssistantRoutes sets up the chat route. Chat is rate limited per IP
// because every call fans out to the remote generation service.
func registerAssistantRoutes(rg *gin.RouterGroup, as portssvc.AssistantSvcFacade) {
	h := NewAssistantHandler(as)

	rate, _ := limiter.NewRateFromFormatted("20-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	rg.POST("/assistant/chat", middleware.RateLimit(ipLimiter), h.Chat)
}

// Chat godoc
// @Summary Ask the assistant
// @Description Answers a free-form question with the user's balances and history as context
// @Tags assistant
// @Accept json
// @Produce json
// @Param chat body dto.ChatRequest true "Question"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Chat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.assistantService.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondServiceError(c, logger, err, "chat with assistant")
		return
	}

	if resp.Fallback {
		logger.Warn("Assistant chat served fallback reply", slog.String("user_id", userID))
	}

	c.JSON(http.StatusOK, resp)
}
