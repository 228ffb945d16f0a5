package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/goldenlabs/golden_gold_app/internal/utils/goldmath"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService is the single authority for mutating balances and transaction
// status. A mutex serializes operations so that validation and mutation of one
// operation never interleave with another; within an operation, validation
// fully precedes mutation, so no partial application is ever observable.
type ledgerService struct {
	mu       sync.Mutex
	userRepo portsrepo.UserRepositoryFacade
	txnRepo  portsrepo.TransactionRepositoryFacade
	price    portssvc.PriceSvcFacade
	logger   *slog.Logger
}

// NewLedgerService creates the ledger engine.
func NewLedgerService(
	userRepo portsrepo.UserRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	price portssvc.PriceSvcFacade,
	logger *slog.Logger,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		userRepo: userRepo,
		txnRepo:  txnRepo,
		price:    price,
		logger:   logger,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// tolerate downgrades snapshot flush failures to a warning: the in-memory
// state is authoritative and the mutation has already applied.
func (s *ledgerService) tolerate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrPersistence) {
		s.logger.Warn("Snapshot flush failed, in-memory state remains authoritative", slog.String("error", err.Error()))
		return nil
	}
	return err
}

func newTransaction(userID string, txType domain.TransactionType, status domain.TransactionStatus, grams, etb decimal.Decimal, actorID string) domain.Transaction {
	now := time.Now().UTC()
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          txType,
		Status:        status,
		AmountGrams:   grams,
		AmountETB:     etb,
		Date:          now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

// QuotePurchase converts an ETB amount to grams at the live price.
func (s *ledgerService) QuotePurchase(ctx context.Context, amountETB decimal.Decimal) (*dto.PurchaseQuoteResponse, error) {
	if amountETB.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	tick := s.price.Current()
	return &dto.PurchaseQuoteResponse{
		AmountETB:   amountETB,
		AmountGrams: goldmath.GramsForETB(amountETB, tick.Price),
		Price:       tick.Price,
		QuotedAt:    tick.At,
	}, nil
}

// RecordPurchaseRequest records a manual-payment conversion as a pending
// transaction. No balance changes until an admin approves it.
func (s *ledgerService) RecordPurchaseRequest(ctx context.Context, userID string, amountETB, amountGrams decimal.Decimal) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountETB.LessThanOrEqual(decimal.Zero) || amountGrams.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amounts must be positive", apperrors.ErrValidation)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	txn := newTransaction(user.UserID, domain.TxConversion, domain.StatusPending, amountGrams, amountETB, user.UserID)
	if err := s.tolerate(s.txnRepo.SaveTransactions(ctx, txn)); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Transfer debits the sender and credits a recipient resolved by phone or
// email, conserving total gold, and records the linked completed pair.
func (s *ledgerService) Transfer(ctx context.Context, senderID string, recipientIdentifier string, amountGrams decimal.Decimal) (*dto.TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountGrams.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	sender, err := s.userRepo.FindUserByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.FindUserByIdentifier(ctx, recipientIdentifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipient not found", apperrors.ErrValidation)
		}
		return nil, err
	}
	if recipient.UserID == sender.UserID {
		return nil, fmt.Errorf("%w: cannot transfer to yourself", apperrors.ErrValidation)
	}
	if amountGrams.GreaterThan(sender.GoldBalance) {
		return nil, fmt.Errorf("%w: insufficient gold balance", apperrors.ErrValidation)
	}

	// Validation complete; apply.
	now := time.Now().UTC()
	updatedSender := *sender
	updatedSender.GoldBalance = sender.GoldBalance.Sub(amountGrams)
	updatedSender.LastUpdatedAt = now
	updatedSender.LastUpdatedBy = sender.UserID

	updatedRecipient := *recipient
	updatedRecipient.GoldBalance = recipient.GoldBalance.Add(amountGrams)
	updatedRecipient.LastUpdatedAt = now
	updatedRecipient.LastUpdatedBy = sender.UserID

	if err := s.tolerate(s.userRepo.UpdateUser(ctx, updatedSender)); err != nil {
		return nil, err
	}
	if err := s.tolerate(s.userRepo.UpdateUser(ctx, updatedRecipient)); err != nil {
		return nil, err
	}

	out := newTransaction(sender.UserID, domain.TxTransferOut, domain.StatusCompleted, amountGrams, decimal.Zero, sender.UserID)
	in := newTransaction(recipient.UserID, domain.TxTransferIn, domain.StatusCompleted, amountGrams, decimal.Zero, sender.UserID)
	out.FromName, out.ToName = sender.Name, recipient.Name
	in.FromName, in.ToName = sender.Name, recipient.Name
	out.LinkedTxID, in.LinkedTxID = in.TransactionID, out.TransactionID
	if err := s.tolerate(s.txnRepo.SaveTransactions(ctx, out, in)); err != nil {
		return nil, err
	}

	return &dto.TransferResult{
		Outgoing: dto.ToTransactionResponse(&out),
		Incoming: dto.ToTransactionResponse(&in),
		Sender:   dto.ToUserResponse(&updatedSender),
	}, nil
}

// RequestWithdrawal records a pending withdrawal. The balance is checked here
// for early feedback but debited only on approval; nothing is reserved, so
// several pending withdrawals may together exceed the balance. Approval
// re-validates the debit, which is what keeps balances non-negative.
func (s *ledgerService) RequestWithdrawal(ctx context.Context, userID string, amountGrams decimal.Decimal) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountGrams.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amountGrams.GreaterThan(user.GoldBalance) {
		return nil, fmt.Errorf("%w: insufficient gold balance", apperrors.ErrValidation)
	}

	txn := newTransaction(user.UserID, domain.TxWithdrawal, domain.StatusPending, amountGrams, decimal.Zero, user.UserID)
	if err := s.tolerate(s.txnRepo.SaveTransactions(ctx, txn)); err != nil {
		return nil, err
	}
	return &txn, nil
}

// RequestLoan sizes the loan against the live price, debits collateral and
// credits proceeds net of commission, immediately and without a pending state.
// The recorded amountETB is the gross amount; the commission is implicit.
func (s *ledgerService) RequestLoan(ctx context.Context, userID string, amountETB decimal.Decimal) (*dto.LoanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountETB.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tick := s.price.Current()
	maxLoanable := goldmath.MaxLoanable(user.GoldBalance, tick.Price)
	if amountETB.GreaterThan(maxLoanable) {
		return nil, fmt.Errorf("%w: amount exceeds maximum loanable %s ETB", apperrors.ErrValidation, maxLoanable.StringFixed(2))
	}

	collateral := goldmath.CollateralGrams(amountETB, tick.Price)
	received := goldmath.NetLoanProceeds(amountETB)

	now := time.Now().UTC()
	updated := *user
	updated.GoldBalance = user.GoldBalance.Sub(collateral)
	updated.ETBBalance = user.ETBBalance.Add(received)
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = user.UserID

	if err := s.tolerate(s.userRepo.UpdateUser(ctx, updated)); err != nil {
		return nil, err
	}

	txn := newTransaction(user.UserID, domain.TxLoan, domain.StatusCompleted, collateral, amountETB, user.UserID)
	if err := s.tolerate(s.txnRepo.SaveTransactions(ctx, txn)); err != nil {
		return nil, err
	}

	return &dto.LoanResult{
		Transaction: dto.ToTransactionResponse(&txn),
		Borrower:    dto.ToUserResponse(&updated),
		ReceivedETB: received,
	}, nil
}

// RepayLoan settles a completed loan: the borrower pays back the gross ETB
// amount and the collateral grams return to their gold balance.
func (s *ledgerService) RepayLoan(ctx context.Context, userID string, loanTransactionID string) (*dto.LoanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, err := s.txnRepo.FindTransactionByID(ctx, loanTransactionID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID || loan.Type != domain.TxLoan || loan.Status != domain.StatusCompleted {
		return nil, fmt.Errorf("%w: no open loan %s", apperrors.ErrNotFound, loanTransactionID)
	}

	history, err := s.txnRepo.FindTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, txn := range history {
		if txn.Type == domain.TxLoanRepayment && txn.LinkedTxID == loan.TransactionID {
			return nil, fmt.Errorf("%w: loan already repaid", apperrors.ErrValidation)
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if loan.AmountETB.GreaterThan(user.ETBBalance) {
		return nil, fmt.Errorf("%w: insufficient ETB balance", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	updated := *user
	updated.ETBBalance = user.ETBBalance.Sub(loan.AmountETB)
	updated.GoldBalance = user.GoldBalance.Add(loan.AmountGrams)
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = user.UserID

	if err := s.tolerate(s.userRepo.UpdateUser(ctx, updated)); err != nil {
		return nil, err
	}

	repayment := newTransaction(user.UserID, domain.TxLoanRepayment, domain.StatusCompleted, loan.AmountGrams, loan.AmountETB, user.UserID)
	repayment.LinkedTxID = loan.TransactionID
	if err := s.tolerate(s.txnRepo.SaveTransactions(ctx, repayment)); err != nil {
		return nil, err
	}

	return &dto.LoanResult{
		Transaction: dto.ToTransactionResponse(&repayment),
		Borrower:    dto.ToUserResponse(&updated),
	}, nil
}

// ResolveApproval applies an admin decision to a pending transaction.
// Terminal transactions are guarded: a second resolution returns
// ErrAlreadyResolved and never re-applies balance changes.
func (s *ledgerService) ResolveApproval(ctx context.Context, adminID string, transactionID string, decision portssvc.ApprovalDecision) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, err := s.userRepo.FindUserByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, fmt.Errorf("%w: approval requires an admin", apperrors.ErrForbidden)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsTerminal() {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrAlreadyResolved, txn.TransactionID, txn.Status)
	}

	switch decision {
	case portssvc.DecisionReject:
		return s.finishResolution(ctx, *txn, domain.StatusFailed, adminID)
	case portssvc.DecisionApprove:
		// fallthrough to type-specific handling below
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, decision)
	}

	owner, err := s.userRepo.FindUserByID(ctx, txn.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updatedOwner := *owner
	updatedOwner.LastUpdatedAt = now
	updatedOwner.LastUpdatedBy = adminID

	switch txn.Type {
	case domain.TxConversion:
		updatedOwner.GoldBalance = owner.GoldBalance.Add(txn.AmountGrams)
	case domain.TxWithdrawal:
		// The request never reserved anything, so the debit is re-validated
		// here. An overdraw fails the approval and the transaction stays
		// pending rather than driving the balance negative.
		if txn.AmountGrams.GreaterThan(owner.GoldBalance) {
			return nil, fmt.Errorf("%w: gold balance no longer covers the withdrawal", apperrors.ErrValidation)
		}
		updatedOwner.GoldBalance = owner.GoldBalance.Sub(txn.AmountGrams)
	default:
		return nil, fmt.Errorf("%w: approval not supported for type %s", apperrors.ErrValidation, txn.Type)
	}

	if err := s.tolerate(s.userRepo.UpdateUser(ctx, updatedOwner)); err != nil {
		return nil, err
	}

	resolved, err := s.finishResolution(ctx, *txn, domain.StatusCompleted, adminID)
	if err != nil {
		return nil, err
	}

	if txn.Type == domain.TxConversion {
		if err := s.creditReferralBonus(ctx, &updatedOwner, resolved, adminID); err != nil {
			// The conversion itself is already approved; the bonus is promo
			// sugar and must not fail the approval.
			s.logger.Warn("Referral bonus not credited", slog.String("error", err.Error()))
		}
	}
	return resolved, nil
}

// finishResolution moves a pending transaction to a terminal status.
func (s *ledgerService) finishResolution(ctx context.Context, txn domain.Transaction, status domain.TransactionStatus, adminID string) (*domain.Transaction, error) {
	if !txn.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrAlreadyResolved, txn.TransactionID, txn.Status)
	}
	txn.Status = status
	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = adminID
	if err := s.tolerate(s.txnRepo.UpdateTransaction(ctx, txn)); err != nil {
		return nil, err
	}
	return &txn, nil
}

// creditReferralBonus pays the referrer once, on the referred user's first
// approved conversion.
func (s *ledgerService) creditReferralBonus(ctx context.Context, owner *domain.User, approved *domain.Transaction, adminID string) error {
	if owner.ReferredBy == "" {
		return nil
	}
	history, err := s.txnRepo.FindTransactionsByUserID(ctx, owner.UserID)
	if err != nil {
		return err
	}
	for _, txn := range history {
		if txn.Type == domain.TxConversion && txn.Status == domain.StatusCompleted && txn.TransactionID != approved.TransactionID {
			return nil // not the first approved conversion
		}
	}

	referrer, err := s.userRepo.FindUserByID(ctx, owner.ReferredBy)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	updated := *referrer
	updated.GoldBalance = referrer.GoldBalance.Add(goldmath.ReferralBonusGrams)
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = adminID
	if err := s.tolerate(s.userRepo.UpdateUser(ctx, updated)); err != nil {
		return err
	}

	bonus := newTransaction(referrer.UserID, domain.TxReferralBonus, domain.StatusCompleted, goldmath.ReferralBonusGrams, decimal.Zero, adminID)
	bonus.FromName = owner.Name
	bonus.LinkedTxID = approved.TransactionID
	return s.tolerate(s.txnRepo.SaveTransactions(ctx, bonus))
}

// ListUserTransactions returns a date-descending page of the user's transactions.
func (s *ledgerService) ListUserTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	return s.txnRepo.ListTransactionsByUserID(ctx, userID, limit, nextToken)
}

// ListPendingApprovals returns every pending transaction, date descending.
func (s *ledgerService) ListPendingApprovals(ctx context.Context) ([]domain.Transaction, error) {
	return s.txnRepo.ListTransactionsByStatus(ctx, domain.StatusPending)
}
