package dto

import (
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	UserID        string                   `json:"userID"`
	Type          domain.TransactionType   `json:"type"`
	Status        domain.TransactionStatus `json:"status"`
	AmountGrams   decimal.Decimal          `json:"amountGrams"`
	AmountETB     decimal.Decimal          `json:"amountETB,omitempty"`
	From          string                   `json:"from,omitempty"`
	To            string                   `json:"to,omitempty"`
	LinkedTxID    string                   `json:"linkedTxID,omitempty"`
	Date          time.Time                `json:"date"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		UserID:        txn.UserID,
		Type:          txn.Type,
		Status:        txn.Status,
		AmountGrams:   txn.AmountGrams,
		AmountETB:     txn.AmountETB,
		From:          txn.FromName,
		To:            txn.ToName,
		LinkedTxID:    txn.LinkedTxID,
		Date:          txn.Date,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
