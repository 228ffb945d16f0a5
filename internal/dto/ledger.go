package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationSeverity classifies a human-readable notification event.
type NotificationSeverity string

const (
	SeveritySuccess NotificationSeverity = "success"
	SeverityError   NotificationSeverity = "error"
)

// Notification is the human-readable event emitted alongside a successful
// mutating ledger operation.
type Notification struct {
	Message  string               `json:"message"`
	Severity NotificationSeverity `json:"severity"`
}

// PurchaseQuoteRequest asks how many grams a birr amount buys right now.
type PurchaseQuoteRequest struct {
	AmountETB decimal.Decimal `json:"amountETB" binding:"required"`
}

// PurchaseQuoteResponse is a read-only valuation at the live price.
type PurchaseQuoteResponse struct {
	AmountETB   decimal.Decimal `json:"amountETB"`
	AmountGrams decimal.Decimal `json:"amountGrams"`
	Price       decimal.Decimal `json:"price"` // ETB per gram used for the quote
	QuotedAt    time.Time       `json:"quotedAt"`
}

// PurchaseRequest confirms a manual bank-transfer conversion. Both amounts
// come from the quote the client accepted.
type PurchaseRequest struct {
	AmountETB   decimal.Decimal `json:"amountETB" binding:"required"`
	AmountGrams decimal.Decimal `json:"amountGrams" binding:"required"`
}

// TransferRequest moves grams to a recipient identified by phone or email.
type TransferRequest struct {
	Recipient   string          `json:"recipient" binding:"required"`
	AmountGrams decimal.Decimal `json:"amountGrams" binding:"required"`
}

// WithdrawalRequest asks to withdraw grams; debited only on admin approval.
type WithdrawalRequest struct {
	AmountGrams decimal.Decimal `json:"amountGrams" binding:"required"`
}

// LoanRequest asks for a collateralized ETB loan.
type LoanRequest struct {
	AmountETB decimal.Decimal `json:"amountETB" binding:"required"`
}

// ResolveApprovalRequest carries the admin verdict on a pending transaction.
type ResolveApprovalRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// MutationResponse is the common envelope for mutating ledger operations:
// the created or updated transaction, the acting user's fresh snapshot, and
// the notification to display.
type MutationResponse struct {
	Transaction  TransactionResponse `json:"transaction"`
	User         *UserResponse       `json:"user,omitempty"`
	Notification Notification        `json:"notification"`
}

// TransferResult carries both halves of the linked pair plus the updated sender.
type TransferResult struct {
	Outgoing TransactionResponse `json:"outgoing"`
	Incoming TransactionResponse `json:"incoming"`
	Sender   UserResponse        `json:"sender"`
}

// LoanResult carries the loan or repayment transaction plus the updated borrower.
type LoanResult struct {
	Transaction TransactionResponse `json:"transaction"`
	Borrower    UserResponse        `json:"borrower"`
	ReceivedETB decimal.Decimal     `json:"receivedETB,omitempty"` // net of commission, loans only
}

// ListApprovalsResponse wraps the admin approval queue.
type ListApprovalsResponse struct {
	Approvals []TransactionResponse `json:"approvals"`
}
