package services_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/adapters/storage/filestore"
	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fixedPrice satisfies the price port with a constant tick so loan and quote
// arithmetic is deterministic.
type fixedPrice struct {
	price decimal.Decimal
}

func (f *fixedPrice) Current() domain.PriceTick {
	return domain.PriceTick{Price: f.price, At: time.Now().UTC()}
}

func (f *fixedPrice) Start(ctx context.Context) {}

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *filestore.Store
	userRepo *filestore.UserRepository
	txnRepo  *filestore.TransactionRepository
	ledger   portssvc.LedgerSvcFacade

	admin domain.User
	alice domain.User // 10g gold, 20000 ETB
	bob   domain.User // 2g gold
	carol domain.User // referred by alice, empty balances
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	store, err := filestore.Open(filepath.Join(s.T().TempDir(), "snapshot.json"))
	require.NoError(s.T(), err)
	s.store = store
	s.userRepo = filestore.NewUserRepository(store)
	s.txnRepo = filestore.NewTransactionRepository(store)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ledger = services.NewLedgerService(s.userRepo, s.txnRepo, &fixedPrice{price: decimal.NewFromInt(8000)}, logger)

	s.admin = s.seedUser("Almaz", "+251911000000", "almaz@example.com", domain.RoleAdmin, "0", "0")
	s.alice = s.seedUser("Alice", "+251911000001", "alice@example.com", domain.RoleUser, "10", "20000")
	s.bob = s.seedUser("Bob", "+251911000002", "bob@example.com", domain.RoleUser, "2", "0")

	s.carol = s.seedUser("Carol", "+251911000003", "carol@example.com", domain.RoleUser, "0", "0")
	s.carol.ReferredBy = s.alice.UserID
	require.NoError(s.T(), s.userRepo.UpdateUser(s.ctx, s.carol))
}

func (s *LedgerServiceTestSuite) TearDownTest() {
	s.store.Close()
}

func (s *LedgerServiceTestSuite) seedUser(name, phone, email string, role domain.UserRole, gold, etb string) domain.User {
	now := time.Now().UTC()
	user := domain.User{
		UserID:      uuid.NewString(),
		Name:        name,
		Phone:       phone,
		Email:       email,
		Role:        role,
		GoldBalance: decimal.RequireFromString(gold),
		ETBBalance:  decimal.RequireFromString(etb),
		JoinDate:    now,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	require.NoError(s.T(), s.userRepo.SaveUser(s.ctx, user))
	return user
}

func (s *LedgerServiceTestSuite) reload(userID string) *domain.User {
	user, err := s.userRepo.FindUserByID(s.ctx, userID)
	require.NoError(s.T(), err)
	return user
}

// --- Quotes and purchases ---

func (s *LedgerServiceTestSuite) TestQuotePurchase() {
	quote, err := s.ledger.QuotePurchase(s.ctx, decimal.NewFromInt(16000))
	require.NoError(s.T(), err)
	assert.True(s.T(), quote.AmountGrams.Equal(decimal.NewFromInt(2)), "16000 ETB at 8000/g buys 2g, got %s", quote.AmountGrams)
	assert.True(s.T(), quote.Price.Equal(decimal.NewFromInt(8000)))
}

func (s *LedgerServiceTestSuite) TestQuotePurchaseRejectsNonPositive() {
	_, err := s.ledger.QuotePurchase(s.ctx, decimal.Zero)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestRecordPurchaseRequestIsPendingAndDoesNotTouchBalances() {
	txn, err := s.ledger.RecordPurchaseRequest(s.ctx, s.alice.UserID, decimal.NewFromInt(8000), decimal.NewFromInt(1))
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.TxConversion, txn.Type)
	assert.Equal(s.T(), domain.StatusPending, txn.Status)

	after := s.reload(s.alice.UserID)
	assert.True(s.T(), after.GoldBalance.Equal(s.alice.GoldBalance), "gold must not move before approval")
	assert.True(s.T(), after.ETBBalance.Equal(s.alice.ETBBalance), "ETB must not move before approval")
}

// --- Transfers ---

func (s *LedgerServiceTestSuite) TestTransferConservesGoldAndLinksPair() {
	result, err := s.ledger.Transfer(s.ctx, s.alice.UserID, s.bob.Phone, decimal.NewFromInt(3))
	require.NoError(s.T(), err)

	alice := s.reload(s.alice.UserID)
	bob := s.reload(s.bob.UserID)
	assert.True(s.T(), alice.GoldBalance.Equal(decimal.NewFromInt(7)))
	assert.True(s.T(), bob.GoldBalance.Equal(decimal.NewFromInt(5)))

	total := alice.GoldBalance.Add(bob.GoldBalance)
	assert.True(s.T(), total.Equal(s.alice.GoldBalance.Add(s.bob.GoldBalance)), "transfer must conserve total gold")

	assert.Equal(s.T(), domain.TxTransferOut, result.Outgoing.Type)
	assert.Equal(s.T(), domain.TxTransferIn, result.Incoming.Type)
	assert.Equal(s.T(), domain.StatusCompleted, result.Outgoing.Status)
	assert.Equal(s.T(), domain.StatusCompleted, result.Incoming.Status)
	assert.Equal(s.T(), result.Incoming.TransactionID, result.Outgoing.LinkedTxID)
	assert.Equal(s.T(), result.Outgoing.TransactionID, result.Incoming.LinkedTxID)
	assert.Equal(s.T(), "Alice", result.Outgoing.From)
	assert.Equal(s.T(), "Bob", result.Outgoing.To)
}

func (s *LedgerServiceTestSuite) TestTransferResolvesRecipientByEmail() {
	_, err := s.ledger.Transfer(s.ctx, s.alice.UserID, "BOB@example.com", decimal.NewFromInt(1))
	require.NoError(s.T(), err)
	assert.True(s.T(), s.reload(s.bob.UserID).GoldBalance.Equal(decimal.NewFromInt(3)))
}

func (s *LedgerServiceTestSuite) TestTransferInsufficientBalance() {
	_, err := s.ledger.Transfer(s.ctx, s.bob.UserID, s.alice.Phone, decimal.NewFromInt(5))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	assert.True(s.T(), s.reload(s.bob.UserID).GoldBalance.Equal(s.bob.GoldBalance), "failed transfer must not move balances")
	assert.True(s.T(), s.reload(s.alice.UserID).GoldBalance.Equal(s.alice.GoldBalance))
}

func (s *LedgerServiceTestSuite) TestTransferToSelfRejected() {
	_, err := s.ledger.Transfer(s.ctx, s.alice.UserID, s.alice.Email, decimal.NewFromInt(1))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestTransferUnknownRecipient() {
	_, err := s.ledger.Transfer(s.ctx, s.alice.UserID, "nobody@example.com", decimal.NewFromInt(1))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestTransferToleratesSnapshotFlushFailure() {
	// Closing the backing file breaks every flush. The in-memory snapshot is
	// authoritative, so the operation must still succeed and move balances.
	require.NoError(s.T(), s.store.Close())

	result, err := s.ledger.Transfer(s.ctx, s.alice.UserID, s.bob.Phone, decimal.NewFromInt(3))
	require.NoError(s.T(), err, "a failed flush must not fail the operation")

	assert.True(s.T(), result.Sender.GoldBalance.Equal(decimal.NewFromInt(7)))
	assert.True(s.T(), s.reload(s.alice.UserID).GoldBalance.Equal(decimal.NewFromInt(7)))
	assert.True(s.T(), s.reload(s.bob.UserID).GoldBalance.Equal(decimal.NewFromInt(5)))
}

// --- Loans ---

func (s *LedgerServiceTestSuite) TestRequestLoanArithmetic() {
	// 10g at 8000/g values holdings at 80000; half is loanable. A 40000 loan
	// locks 5g collateral and credits 38000 after the 5% commission.
	result, err := s.ledger.RequestLoan(s.ctx, s.alice.UserID, decimal.NewFromInt(40000))
	require.NoError(s.T(), err)

	assert.True(s.T(), result.ReceivedETB.Equal(decimal.NewFromInt(38000)), "got %s", result.ReceivedETB)
	assert.True(s.T(), result.Transaction.AmountGrams.Equal(decimal.NewFromInt(5)))
	assert.True(s.T(), result.Transaction.AmountETB.Equal(decimal.NewFromInt(40000)), "recorded amount is gross")
	assert.Equal(s.T(), domain.StatusCompleted, result.Transaction.Status)

	alice := s.reload(s.alice.UserID)
	assert.True(s.T(), alice.GoldBalance.Equal(decimal.NewFromInt(5)))
	assert.True(s.T(), alice.ETBBalance.Equal(decimal.NewFromInt(58000)))
}

func (s *LedgerServiceTestSuite) TestRequestLoanExceedingMaxLoanable() {
	_, err := s.ledger.RequestLoan(s.ctx, s.alice.UserID, decimal.NewFromInt(40001))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	assert.True(s.T(), s.reload(s.alice.UserID).GoldBalance.Equal(s.alice.GoldBalance))
}

func (s *LedgerServiceTestSuite) TestRepayLoanRestoresBalances() {
	loan, err := s.ledger.RequestLoan(s.ctx, s.alice.UserID, decimal.NewFromInt(40000))
	require.NoError(s.T(), err)

	repay, err := s.ledger.RepayLoan(s.ctx, s.alice.UserID, loan.Transaction.TransactionID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.TxLoanRepayment, repay.Transaction.Type)
	assert.Equal(s.T(), loan.Transaction.TransactionID, repay.Transaction.LinkedTxID)

	alice := s.reload(s.alice.UserID)
	assert.True(s.T(), alice.GoldBalance.Equal(decimal.NewFromInt(10)), "collateral must return")
	// 20000 + 38000 disbursed - 40000 gross repaid: the commission is the cost.
	assert.True(s.T(), alice.ETBBalance.Equal(decimal.NewFromInt(18000)), "got %s", alice.ETBBalance)
}

func (s *LedgerServiceTestSuite) TestRepayLoanTwiceRejected() {
	loan, err := s.ledger.RequestLoan(s.ctx, s.alice.UserID, decimal.NewFromInt(8000))
	require.NoError(s.T(), err)

	_, err = s.ledger.RepayLoan(s.ctx, s.alice.UserID, loan.Transaction.TransactionID)
	require.NoError(s.T(), err)

	_, err = s.ledger.RepayLoan(s.ctx, s.alice.UserID, loan.Transaction.TransactionID)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestRepayLoanOfAnotherUser() {
	loan, err := s.ledger.RequestLoan(s.ctx, s.alice.UserID, decimal.NewFromInt(8000))
	require.NoError(s.T(), err)

	_, err = s.ledger.RepayLoan(s.ctx, s.bob.UserID, loan.Transaction.TransactionID)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

// --- Withdrawals and the approval queue ---

func (s *LedgerServiceTestSuite) TestWithdrawalApprovalDebitsOnlyOnApproval() {
	txn, err := s.ledger.RequestWithdrawal(s.ctx, s.alice.UserID, decimal.NewFromInt(4))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusPending, txn.Status)
	assert.True(s.T(), s.reload(s.alice.UserID).GoldBalance.Equal(s.alice.GoldBalance), "request must not debit")

	resolved, err := s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionApprove)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusCompleted, resolved.Status)
	assert.True(s.T(), s.reload(s.alice.UserID).GoldBalance.Equal(decimal.NewFromInt(6)))
}

func (s *LedgerServiceTestSuite) TestWithdrawalRejectionLeavesBalance() {
	txn, err := s.ledger.RequestWithdrawal(s.ctx, s.alice.UserID, decimal.NewFromInt(4))
	require.NoError(s.T(), err)

	resolved, err := s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionReject)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusFailed, resolved.Status)
	assert.True(s.T(), s.reload(s.alice.UserID).GoldBalance.Equal(s.alice.GoldBalance))
}

func (s *LedgerServiceTestSuite) TestWithdrawalRequestOverBalanceRejected() {
	_, err := s.ledger.RequestWithdrawal(s.ctx, s.bob.UserID, decimal.NewFromInt(3))
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestResolveApprovalIsAbsorbing() {
	txn, err := s.ledger.RequestWithdrawal(s.ctx, s.alice.UserID, decimal.NewFromInt(4))
	require.NoError(s.T(), err)

	_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionApprove)
	require.NoError(s.T(), err)

	_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionApprove)
	assert.ErrorIs(s.T(), err, apperrors.ErrAlreadyResolved)

	// The balance was debited exactly once.
	assert.True(s.T(), s.reload(s.alice.UserID).GoldBalance.Equal(decimal.NewFromInt(6)))
}

func (s *LedgerServiceTestSuite) TestCompetingWithdrawalsNeverOverdraw() {
	// Nothing is reserved at request time, so two requests of 6g each are
	// both accepted against a 10g balance. Approval re-validates the debit.
	first, err := s.ledger.RequestWithdrawal(s.ctx, s.alice.UserID, decimal.NewFromInt(6))
	require.NoError(s.T(), err)
	second, err := s.ledger.RequestWithdrawal(s.ctx, s.alice.UserID, decimal.NewFromInt(6))
	require.NoError(s.T(), err)

	_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, first.TransactionID, portssvc.DecisionApprove)
	require.NoError(s.T(), err)

	_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, second.TransactionID, portssvc.DecisionApprove)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	alice := s.reload(s.alice.UserID)
	assert.True(s.T(), alice.GoldBalance.Equal(decimal.NewFromInt(4)), "balance must never go negative")

	// The failed approval leaves the second request pending for a later retry.
	stillPending, err := s.txnRepo.FindTransactionByID(s.ctx, second.TransactionID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusPending, stillPending.Status)
}

func (s *LedgerServiceTestSuite) TestResolveApprovalRequiresAdmin() {
	txn, err := s.ledger.RequestWithdrawal(s.ctx, s.alice.UserID, decimal.NewFromInt(1))
	require.NoError(s.T(), err)

	_, err = s.ledger.ResolveApproval(s.ctx, s.bob.UserID, txn.TransactionID, portssvc.DecisionApprove)
	assert.ErrorIs(s.T(), err, apperrors.ErrForbidden)
}

func (s *LedgerServiceTestSuite) TestApprovedConversionCreditsGrams() {
	txn, err := s.ledger.RecordPurchaseRequest(s.ctx, s.bob.UserID, decimal.NewFromInt(8000), decimal.NewFromInt(1))
	require.NoError(s.T(), err)

	_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionApprove)
	require.NoError(s.T(), err)

	assert.True(s.T(), s.reload(s.bob.UserID).GoldBalance.Equal(decimal.NewFromInt(3)))
}

func (s *LedgerServiceTestSuite) TestListPendingApprovals() {
	_, err := s.ledger.RequestWithdrawal(s.ctx, s.alice.UserID, decimal.NewFromInt(1))
	require.NoError(s.T(), err)
	_, err = s.ledger.RecordPurchaseRequest(s.ctx, s.bob.UserID, decimal.NewFromInt(8000), decimal.NewFromInt(1))
	require.NoError(s.T(), err)

	pending, err := s.ledger.ListPendingApprovals(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), pending, 2)
	for _, txn := range pending {
		assert.Equal(s.T(), domain.StatusPending, txn.Status)
	}
}

// --- Referral bonus ---

func (s *LedgerServiceTestSuite) TestReferralBonusOnFirstApprovedConversion() {
	txn, err := s.ledger.RecordPurchaseRequest(s.ctx, s.carol.UserID, decimal.NewFromInt(8000), decimal.NewFromInt(1))
	require.NoError(s.T(), err)

	_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionApprove)
	require.NoError(s.T(), err)

	referrer := s.reload(s.alice.UserID)
	assert.True(s.T(), referrer.GoldBalance.Equal(decimal.RequireFromString("10.1")), "referrer gets the bonus, got %s", referrer.GoldBalance)

	history, err := s.txnRepo.FindTransactionsByUserID(s.ctx, s.alice.UserID)
	require.NoError(s.T(), err)
	var bonus *domain.Transaction
	for i := range history {
		if history[i].Type == domain.TxReferralBonus {
			bonus = &history[i]
		}
	}
	require.NotNil(s.T(), bonus)
	assert.Equal(s.T(), txn.TransactionID, bonus.LinkedTxID)
	assert.Equal(s.T(), "Carol", bonus.FromName)
}

func (s *LedgerServiceTestSuite) TestReferralBonusPaidOnlyOnce() {
	for i := 0; i < 2; i++ {
		txn, err := s.ledger.RecordPurchaseRequest(s.ctx, s.carol.UserID, decimal.NewFromInt(8000), decimal.NewFromInt(1))
		require.NoError(s.T(), err)
		_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionApprove)
		require.NoError(s.T(), err)
	}

	referrer := s.reload(s.alice.UserID)
	assert.True(s.T(), referrer.GoldBalance.Equal(decimal.RequireFromString("10.1")), "second conversion must not pay again, got %s", referrer.GoldBalance)
}

func (s *LedgerServiceTestSuite) TestNoReferralBonusWithoutReferrer() {
	txn, err := s.ledger.RecordPurchaseRequest(s.ctx, s.bob.UserID, decimal.NewFromInt(8000), decimal.NewFromInt(1))
	require.NoError(s.T(), err)
	_, err = s.ledger.ResolveApproval(s.ctx, s.admin.UserID, txn.TransactionID, portssvc.DecisionApprove)
	require.NoError(s.T(), err)

	history, err := s.txnRepo.FindTransactionsByUserID(s.ctx, s.bob.UserID)
	require.NoError(s.T(), err)
	for _, h := range history {
		assert.NotEqual(s.T(), domain.TxReferralBonus, h.Type)
	}
}

// --- History ---

func (s *LedgerServiceTestSuite) TestListUserTransactionsPaginates() {
	for i := 0; i < 5; i++ {
		_, err := s.ledger.Transfer(s.ctx, s.alice.UserID, s.bob.Phone, decimal.NewFromInt(1))
		require.NoError(s.T(), err)
	}

	page1, token, err := s.ledger.ListUserTransactions(s.ctx, s.alice.UserID, 3, nil)
	require.NoError(s.T(), err)
	assert.Len(s.T(), page1, 3)
	require.NotNil(s.T(), token)

	page2, token2, err := s.ledger.ListUserTransactions(s.ctx, s.alice.UserID, 3, token)
	require.NoError(s.T(), err)
	assert.Len(s.T(), page2, 2)
	assert.Nil(s.T(), token2)
}
