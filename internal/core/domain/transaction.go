package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the ledger operation that produced a transaction.
type TransactionType string

const (
	TxConversion        TransactionType = "conversion"
	TxTransferIn        TransactionType = "transfer_in"
	TxTransferOut       TransactionType = "transfer_out"
	TxWithdrawal        TransactionType = "withdrawal"
	TxLoan              TransactionType = "loan"
	TxGuaranteeProvided TransactionType = "guarantee_provided"
	TxLoanRepayment     TransactionType = "loan_repayment"
	TxReferralBonus     TransactionType = "referral_bonus"
)

// TransactionStatus is the only mutable attribute of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable record of a balance-affecting user action,
// except for Status which transitions exactly once from pending to a
// terminal state. Completed and failed are absorbing.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary key (UUID)
	UserID        string            `json:"userID"`        // Owning user
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	AmountGrams   decimal.Decimal   `json:"amountGrams"`         // positive
	AmountETB     decimal.Decimal   `json:"amountETB,omitempty"` // optional, positive when set
	FromName      string            `json:"from,omitempty"`      // display name only, not a key
	ToName        string            `json:"to,omitempty"`        // display name only, not a key
	LinkedTxID    string            `json:"linkedTxID,omitempty"`
	Date          time.Time         `json:"date"` // creation timestamp, immutable

	AuditFields
}

// IsTerminal reports whether the transaction has reached an absorbing state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// CanTransitionTo reports whether the status state machine permits moving to
// next. Only pending transactions may transition, and only to a terminal state.
func (t *Transaction) CanTransitionTo(next TransactionStatus) bool {
	if t.Status != StatusPending {
		return false
	}
	return next == StatusCompleted || next == StatusFailed
}
