package filestore

import (
	"context"
	"fmt"
	"sort"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
	"github.com/goldenlabs/golden_gold_app/internal/utils/pagination"
)

// TransactionRepository implements the transaction repository facade over the
// snapshot store. The snapshot keeps insertion order; ordering guarantees for
// display (date descending) are applied here at read time.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

// FindTransactionByID retrieves a specific transaction by its unique identifier.
func (r *TransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var found *domain.Transaction
	err := r.store.View(func(s *Snapshot) error {
		for i := range s.Transactions {
			if s.Transactions[i].TransactionID == transactionID {
				cp := s.Transactions[i]
				found = &cp
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return found, nil
}

// ListTransactionsByUserID retrieves a date-descending page of a user's
// transactions using token-based pagination.
func (r *TransactionRepository) ListTransactionsByUserID(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var owned []domain.Transaction
	err := r.store.View(func(s *Snapshot) error {
		for _, txn := range s.Transactions {
			if txn.UserID == userID {
				owned = append(owned, txn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sortByDateDesc(owned)

	start := 0
	if nextToken != nil && *nextToken != "" {
		afterDate, afterID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		matched := false
		for i, txn := range owned {
			if txn.Date.Equal(afterDate) && txn.TransactionID == afterID {
				start = i + 1
				matched = true
				break
			}
		}
		// A decodable token that points at no owned transaction is stale or
		// belongs to someone else; restarting at page one would be surprising.
		if !matched {
			return nil, nil, fmt.Errorf("%w: pagination token does not match any transaction", apperrors.ErrValidation)
		}
	}

	end := start + limit
	if end > len(owned) {
		end = len(owned)
	}
	page := owned[start:end]

	var token *string
	if end < len(owned) && len(page) > 0 {
		last := page[len(page)-1]
		t := pagination.EncodeToken(last.Date, last.TransactionID)
		token = &t
	}
	return page, token, nil
}

// ListTransactionsByStatus retrieves all transactions in the given status, date descending.
func (r *TransactionRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	var matched []domain.Transaction
	err := r.store.View(func(s *Snapshot) error {
		for _, txn := range s.Transactions {
			if txn.Status == status {
				matched = append(matched, txn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByDateDesc(matched)
	return matched, nil
}

// FindTransactionsByUserID retrieves every transaction owned by a user in insertion order.
func (r *TransactionRepository) FindTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	var owned []domain.Transaction
	err := r.store.View(func(s *Snapshot) error {
		for _, txn := range s.Transactions {
			if txn.UserID == userID {
				owned = append(owned, txn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return owned, nil
}

// SaveTransactions appends one or more transactions in a single write.
func (r *TransactionRepository) SaveTransactions(ctx context.Context, transactions ...domain.Transaction) error {
	return r.store.Update(ctx, func(s *Snapshot) error {
		for _, txn := range transactions {
			for i := range s.Transactions {
				if s.Transactions[i].TransactionID == txn.TransactionID {
					return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrValidation, txn.TransactionID)
				}
			}
		}
		s.Transactions = append(s.Transactions, transactions...)
		return nil
	})
}

// UpdateTransaction replaces an existing transaction record.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	return r.store.Update(ctx, func(s *Snapshot) error {
		for i := range s.Transactions {
			if s.Transactions[i].TransactionID == transaction.TransactionID {
				s.Transactions[i] = transaction
				return nil
			}
		}
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transaction.TransactionID)
	})
}

func sortByDateDesc(txns []domain.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if txns[i].Date.Equal(txns[j].Date) {
			return txns[i].TransactionID > txns[j].TransactionID
		}
		return txns[i].Date.After(txns[j].Date)
	})
}
