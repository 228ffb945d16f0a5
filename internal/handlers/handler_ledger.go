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

// LedgerHandler handles the balance-affecting ledger operations and the
// transaction history of the acting user.
type LedgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	userService   portssvc.UserSvcFacade
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ls portssvc.LedgerSvcFacade, us portssvc.UserSvcFacade) *LedgerHandler {
	return &LedgerHandler{ledgerService: ls, userService: us}
}

// registerLedgerRoutes sets up the authenticated ledger routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, us portssvc.UserSvcFacade) {
	h := NewLedgerHandler(ls, us)

	rg.GET("/transactions", h.ListTransactions)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/purchases/quote", h.QuotePurchase)
		ledger.POST("/purchases", h.RecordPurchase)
		ledger.POST("/transfers", h.Transfer)
		ledger.POST("/withdrawals", h.RequestWithdrawal)
		ledger.POST("/loans", h.RequestLoan)
		ledger.POST("/loans/:transactionID/repay", h.RepayLoan)
	}
}

// ListTransactions godoc
// @Summary Transaction history
// @Description Returns a date-descending page of the acting user's transactions
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, nextToken, err := h.ledgerService.ListUserTransactions(c.Request.Context(), userID, params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	})
}

// QuotePurchase godoc
// @Summary Quote a gold purchase
// @Description Converts a birr amount to grams at the live price without recording anything
// @Tags ledger
// @Accept json
// @Produce json
// @Param quote body dto.PurchaseQuoteRequest true "Amount to convert"
// @Success 200 {object} dto.PurchaseQuoteResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/purchases/quote [post]
func (h *LedgerHandler) QuotePurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PurchaseQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for QuotePurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	quote, err := h.ledgerService.QuotePurchase(c.Request.Context(), req.AmountETB)
	if err != nil {
		respondServiceError(c, logger, err, "quote purchase")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// RecordPurchase godoc
// @Summary Submit a gold purchase
// @Description Records a manual-payment conversion as pending admin approval
// @Tags ledger
// @Accept json
// @Produce json
// @Param purchase body dto.PurchaseRequest true "Accepted quote"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/purchases [post]
func (h *LedgerHandler) RecordPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.RecordPurchaseRequest(c.Request.Context(), userID, req.AmountETB, req.AmountGrams)
	if err != nil {
		respondServiceError(c, logger, err, "record purchase")
		return
	}

	logger.Info("Purchase request recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount_grams", txn.AmountGrams.String()))

	c.JSON(http.StatusCreated, dto.MutationResponse{
		Transaction: dto.ToTransactionResponse(txn),
		User:        h.freshUser(c, userID),
		Notification: dto.Notification{
			Message:  fmt.Sprintf("Purchase request for %sg submitted. Awaiting admin approval.", txn.AmountGrams.String()),
			Severity: dto.SeveritySuccess,
		},
	})
}

// Transfer godoc
// @Summary Transfer gold
// @Description Moves grams to another user resolved by phone or email
// @Tags ledger
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Recipient and amount"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/transfers [post]
func (h *LedgerHandler) Transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.ledgerService.Transfer(c.Request.Context(), userID, req.Recipient, req.AmountGrams)
	if err != nil {
		respondServiceError(c, logger, err, "transfer gold")
		return
	}

	logger.Info("Transfer completed",
		slog.String("transaction_id", result.Outgoing.TransactionID),
		slog.String("amount_grams", result.Outgoing.AmountGrams.String()))

	c.JSON(http.StatusCreated, dto.MutationResponse{
		Transaction: result.Outgoing,
		User:        &result.Sender,
		Notification: dto.Notification{
			Message:  fmt.Sprintf("Sent %sg to %s.", result.Outgoing.AmountGrams.String(), result.Outgoing.To),
			Severity: dto.SeveritySuccess,
		},
	})
}

// RequestWithdrawal godoc
// @Summary Request a withdrawal
// @Description Records a pending withdrawal; grams are debited only on admin approval
// @Tags ledger
// @Accept json
// @Produce json
// @Param withdrawal body dto.WithdrawalRequest true "Amount to withdraw"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/withdrawals [post]
func (h *LedgerHandler) RequestWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestWithdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.RequestWithdrawal(c.Request.Context(), userID, req.AmountGrams)
	if err != nil {
		respondServiceError(c, logger, err, "request withdrawal")
		return
	}

	logger.Info("Withdrawal requested",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount_grams", txn.AmountGrams.String()))

	c.JSON(http.StatusCreated, dto.MutationResponse{
		Transaction: dto.ToTransactionResponse(txn),
		User:        h.freshUser(c, userID),
		Notification: dto.Notification{
			Message:  fmt.Sprintf("Withdrawal request for %sg submitted. Awaiting admin approval.", txn.AmountGrams.String()),
			Severity: dto.SeveritySuccess,
		},
	})
}

// RequestLoan godoc
// @Summary Take a collateralized loan
// @Description Locks gold collateral and credits ETB net of commission, immediately
// @Tags ledger
// @Accept json
// @Produce json
// @Param loan body dto.LoanRequest true "Requested loan amount"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/loans [post]
func (h *LedgerHandler) RequestLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	var req dto.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.ledgerService.RequestLoan(c.Request.Context(), userID, req.AmountETB)
	if err != nil {
		respondServiceError(c, logger, err, "request loan")
		return
	}

	logger.Info("Loan disbursed",
		slog.String("transaction_id", result.Transaction.TransactionID),
		slog.String("received_etb", result.ReceivedETB.String()))

	c.JSON(http.StatusCreated, dto.MutationResponse{
		Transaction: result.Transaction,
		User:        &result.Borrower,
		Notification: dto.Notification{
			Message:  fmt.Sprintf("Loan approved. %s ETB credited to your balance.", result.ReceivedETB.String()),
			Severity: dto.SeveritySuccess,
		},
	})
}

// RepayLoan godoc
// @Summary Repay a loan
// @Description Debits the gross loan amount and returns the locked collateral
// @Tags ledger
// @Produce json
// @Param transactionID path string true "Loan transaction ID"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/loans/{transactionID}/repay [post]
func (h *LedgerHandler) RepayLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	loanTxID := c.Param("transactionID")

	result, err := h.ledgerService.RepayLoan(c.Request.Context(), userID, loanTxID)
	if err != nil {
		respondServiceError(c, logger, err, "repay loan")
		return
	}

	logger.Info("Loan repaid",
		slog.String("loan_transaction_id", loanTxID),
		slog.String("transaction_id", result.Transaction.TransactionID))

	c.JSON(http.StatusCreated, dto.MutationResponse{
		Transaction: result.Transaction,
		User:        &result.Borrower,
		Notification: dto.Notification{
			Message:  fmt.Sprintf("Loan repaid. %sg collateral returned.", result.Transaction.AmountGrams.String()),
			Severity: dto.SeveritySuccess,
		},
	})
}

// freshUser reloads the acting user for the mutation envelope. A failed
// reload is logged and omitted rather than failing the whole response.
func (h *LedgerHandler) freshUser(c *gin.Context, userID string) *dto.UserResponse {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("Failed to reload user for response", slog.String("error", err.Error()))
		return nil
	}
	resp := dto.ToUserResponse(user)
	return &resp
}
