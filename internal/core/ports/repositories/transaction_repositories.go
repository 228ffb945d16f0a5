package repositories

import (
	"context"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUserID retrieves a date-descending page of transactions
	// owned by a user using token-based pagination. It returns the
	// transactions, a token for the next page, and an error.
	ListTransactionsByUserID(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListTransactionsByStatus retrieves all transactions in the given status,
	// date descending. Used by the admin approval queue.
	ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error)

	// FindTransactionsByUserID retrieves every transaction owned by a user in
	// insertion order. Internal use (loan repayment and referral checks);
	// display paths use the paginated listing.
	FindTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransactions appends one or more transactions in a single write.
	// Linked pairs (transfer_out/transfer_in) must be saved together.
	SaveTransactions(ctx context.Context, transactions ...domain.Transaction) error

	// UpdateTransaction replaces an existing transaction record.
	UpdateTransaction(ctx context.Context, transaction domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
