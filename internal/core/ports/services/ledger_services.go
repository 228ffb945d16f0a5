package services

import (
	"context"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ApprovalDecision is the admin verdict on a pending transaction.
type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "approve"
	DecisionReject  ApprovalDecision = "reject"
)

// LedgerReaderSvc defines read operations over the ledger.
type LedgerReaderSvc interface {
	// ListUserTransactions returns a date-descending page of the user's
	// transactions plus a token for the next page.
	ListUserTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListPendingApprovals returns every pending transaction, date descending.
	ListPendingApprovals(ctx context.Context) ([]domain.Transaction, error)
}

// LedgerWriterSvc defines the balance-affecting operations. Every operation
// validates fully before mutating anything; on success the affected entities
// are returned as fresh copies for immediate display.
type LedgerWriterSvc interface {
	// QuotePurchase converts an ETB amount to grams at the live price.
	// Read-only; no transaction is recorded.
	QuotePurchase(ctx context.Context, amountETB decimal.Decimal) (*dto.PurchaseQuoteResponse, error)

	// RecordPurchaseRequest records a manual-payment conversion as a pending
	// transaction. Balances change only when an admin approves it.
	RecordPurchaseRequest(ctx context.Context, userID string, amountETB, amountGrams decimal.Decimal) (*domain.Transaction, error)

	// Transfer moves grams from the sender to a recipient resolved by phone or
	// email. Value is conserved; the linked transfer_out/transfer_in pair is
	// created atomically with status completed.
	Transfer(ctx context.Context, senderID string, recipientIdentifier string, amountGrams decimal.Decimal) (*dto.TransferResult, error)

	// RequestWithdrawal records a pending withdrawal. The balance is checked
	// at request time but debited only on approval.
	RequestWithdrawal(ctx context.Context, userID string, amountGrams decimal.Decimal) (*domain.Transaction, error)

	// RequestLoan takes gold collateral and credits ETB net of commission,
	// immediately and without a pending state.
	RequestLoan(ctx context.Context, userID string, amountETB decimal.Decimal) (*dto.LoanResult, error)

	// RepayLoan settles a completed loan: debits the gross ETB amount and
	// returns the collateral grams.
	RepayLoan(ctx context.Context, userID string, loanTransactionID string) (*dto.LoanResult, error)

	// ResolveApproval applies an admin decision to a pending transaction.
	// Resolving a terminal transaction fails with ErrAlreadyResolved.
	ResolveApproval(ctx context.Context, adminID string, transactionID string, decision ApprovalDecision) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
