package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/goldenlabs/golden_gold_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles the approval queue and the admin user console.
type AdminHandler struct {
	ledgerService    portssvc.LedgerSvcFacade
	userService      portssvc.UserSvcFacade
	assistantService portssvc.AssistantSvcFacade
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ls portssvc.LedgerSvcFacade, us portssvc.UserSvcFacade, as portssvc.AssistantSvcFacade) *AdminHandler {
	return &AdminHandler{ledgerService: ls, userService: us, assistantService: as}
}

// registerAdminRoutes sets up the admin console routes. The role check runs
// on every request, not just at login, so a token for a non-admin identity
// can never reach these handlers.
func registerAdminRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, us portssvc.UserSvcFacade, as portssvc.AssistantSvcFacade) {
	h := NewAdminHandler(ls, us, as)

	admin := rg.Group("/admin", middleware.AdminOnly(us))
	{
		admin.GET("/approvals", h.ListApprovals)
		admin.POST("/approvals/:transactionID", h.ResolveApproval)
		admin.GET("/users", h.ListUsers)
		admin.POST("/users/:userID/summary", h.SummarizeUser)
	}
}

// ListApprovals godoc
// @Summary Pending approval queue
// @Description Returns every pending transaction, date descending
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ListApprovalsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/approvals [get]
func (h *AdminHandler) ListApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txns, err := h.ledgerService.ListPendingApprovals(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "list approvals")
		return
	}

	c.JSON(http.StatusOK, dto.ListApprovalsResponse{Approvals: dto.ToTransactionResponses(txns)})
}

// ResolveApproval godoc
// @Summary Resolve a pending transaction
// @Description Approves or rejects a pending conversion or withdrawal
// @Tags admin
// @Accept json
// @Produce json
// @Param transactionID path string true "Pending transaction ID"
// @Param decision body dto.ResolveApprovalRequest true "Verdict"
// @Success 200 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/approvals/{transactionID} [post]
func (h *AdminHandler) ResolveApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req dto.ResolveApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveApproval", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txnID := c.Param("transactionID")
	decision := portssvc.ApprovalDecision(req.Decision)

	txn, err := h.ledgerService.ResolveApproval(c.Request.Context(), adminID, txnID, decision)
	if err != nil {
		respondServiceError(c, logger, err, "resolve approval")
		return
	}

	logger.Info("Approval resolved",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("decision", string(decision)),
		slog.String("status", string(txn.Status)))

	verdict := "approved"
	if decision == portssvc.DecisionReject {
		verdict = "rejected"
	}

	c.JSON(http.StatusOK, dto.MutationResponse{
		Transaction: dto.ToTransactionResponse(txn),
		Notification: dto.Notification{
			Message:  fmt.Sprintf("Transaction %s %s.", txn.TransactionID, verdict),
			Severity: dto.SeveritySuccess,
		},
	})
}

// ListUsers godoc
// @Summary List all users
// @Description Returns every account with balances for the admin console
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ListUsersResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "list users")
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// SummarizeUser godoc
// @Summary AI behavioral summary
// @Description Generates a structured behavior summary for a user's account
// @Tags admin
// @Produce json
// @Param userID path string true "Target user ID"
// @Success 200 {object} dto.BehaviorSummary
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{userID}/summary [post]
func (h *AdminHandler) SummarizeUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	targetID := c.Param("userID")

	summary, err := h.assistantService.SummarizeUser(c.Request.Context(), targetID)
	if err != nil {
		respondServiceError(c, logger, err, "summarize user")
		return
	}

	logger.Info("Behavior summary generated", slog.String("target_user_id", targetID))
	c.JSON(http.StatusOK, summary)
}
