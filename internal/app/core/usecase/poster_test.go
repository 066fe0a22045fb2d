package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase/mocks"
)

type posterFixture struct {
	uow          *mocks.UnitOfWork
	accounts     *mocks.AccountStore
	transactions *mocks.TransactionStore
}

func newPosterFixture(t *testing.T) *posterFixture {
	f := &posterFixture{
		uow:          mocks.NewUnitOfWork(t),
		accounts:     mocks.NewAccountStore(t),
		transactions: mocks.NewTransactionStore(t),
	}
	stores := usecase.Stores{Accounts: f.accounts, Transactions: f.transactions}
	f.uow.On("Do", mock.Anything, mock.Anything).Maybe().Return(
		func(ctx context.Context, fn func(context.Context, usecase.Stores) error) error {
			return fn(ctx, stores)
		})
	return f
}

func usdAccount(balance string, version int64) *domain.Account {
	return &domain.Account{
		ID:         uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		ExternalID: "account-id",
		Balance:    domain.MustAmount("USD", balance),
		Version:    version,
	}
}

func postCommand() usecase.PostCommand {
	return usecase.PostCommand{
		ExternalAccountID: "account-id",
		Amount:            domain.MustAmount("USD", "1.00"),
		OperationID:       "op-1",
		ValueDate:         time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func balanceIs(balance string, version int64) interface{} {
	return mock.MatchedBy(func(a domain.Account) bool {
		return a.Balance.Equal(domain.MustAmount("USD", balance)) && a.Version == version
	})
}

func TestPosterPost(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newPosterFixture(t)
		account := usdAccount("0.00", 0)

		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(account, nil)
		f.transactions.On("FindByOperationID", mock.Anything, "op-1").Return(nil, domain.ErrRecordNotFound)
		f.transactions.On("Save", mock.Anything, mock.MatchedBy(func(trxn domain.Transaction) bool {
			return trxn.OperationID == "op-1" &&
				trxn.AccountID == account.ID &&
				trxn.Amount.Equal(domain.MustAmount("USD", "1.00")) &&
				trxn.ValueDate.Equal(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
		})).Return(&domain.Transaction{}, nil)
		f.accounts.On("Save", mock.Anything, balanceIs("1.00", 0)).Return(usdAccount("1.00", 1), nil)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.NoError(t, err)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		f := newPosterFixture(t)
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(nil, domain.ErrRecordNotFound)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.Contains(t, err.Error(), "account-id")
		f.transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Currency Mismatch", func(t *testing.T) {
		f := newPosterFixture(t)
		account := usdAccount("0.00", 0)
		account.Balance = domain.MustAmount("RUB", "0.00")
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(account, nil)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
		f.transactions.AssertNotCalled(t, "FindByOperationID", mock.Anything, mock.Anything)
		f.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Idempotent Repeat", func(t *testing.T) {
		f := newPosterFixture(t)
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(usdAccount("1.00", 1), nil)
		f.transactions.On("FindByOperationID", mock.Anything, "op-1").Return(&domain.Transaction{OperationID: "op-1"}, nil)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.NoError(t, err)
		f.transactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent Insert", func(t *testing.T) {
		f := newPosterFixture(t)
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(usdAccount("0.00", 0), nil)
		f.transactions.On("FindByOperationID", mock.Anything, "op-1").Return(nil, domain.ErrRecordNotFound)
		f.transactions.On("Save", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateKey)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.ErrorIs(t, err, domain.ErrConcurrentInsert)
		f.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Optimistic Conflict Is Retried From Fresh Balance", func(t *testing.T) {
		f := newPosterFixture(t)
		account := usdAccount("0.00", 0)
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(account, nil)
		f.transactions.On("FindByOperationID", mock.Anything, "op-1").Return(nil, domain.ErrRecordNotFound)
		f.transactions.On("Save", mock.Anything, mock.Anything).Return(&domain.Transaction{}, nil)
		f.accounts.On("Save", mock.Anything, balanceIs("1.00", 0)).Once().Return(nil, domain.ErrOptimisticConflict)
		f.accounts.On("FindByID", mock.Anything, account.ID).Once().Return(usdAccount("5.00", 3), nil)
		f.accounts.On("Save", mock.Anything, balanceIs("6.00", 3)).Once().Return(usdAccount("6.00", 4), nil)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.NoError(t, err)
	})

	t.Run("Retries Exhausted", func(t *testing.T) {
		f := newPosterFixture(t)
		account := usdAccount("0.00", 0)
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(account, nil)
		f.transactions.On("FindByOperationID", mock.Anything, "op-1").Return(nil, domain.ErrRecordNotFound)
		f.transactions.On("Save", mock.Anything, mock.Anything).Return(&domain.Transaction{}, nil)
		f.accounts.On("Save", mock.Anything, mock.Anything).Return(nil, domain.ErrOptimisticConflict)
		f.accounts.On("FindByID", mock.Anything, account.ID).Return(usdAccount("0.00", 0), nil)

		err := usecase.NewPoster(f.uow, usecase.WithMaxRetries(2)).Post(context.Background(), postCommand())

		assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
		f.accounts.AssertNumberOfCalls(t, "Save", 3)
		f.accounts.AssertNumberOfCalls(t, "FindByID", 2)
	})

	t.Run("Account Disappeared", func(t *testing.T) {
		f := newPosterFixture(t)
		account := usdAccount("0.00", 0)
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(account, nil)
		f.transactions.On("FindByOperationID", mock.Anything, "op-1").Return(nil, domain.ErrRecordNotFound)
		f.transactions.On("Save", mock.Anything, mock.Anything).Return(&domain.Transaction{}, nil)
		f.accounts.On("Save", mock.Anything, mock.Anything).Return(nil, domain.ErrOptimisticConflict)
		f.accounts.On("FindByID", mock.Anything, account.ID).Return(nil, domain.ErrRecordNotFound)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.ErrorIs(t, err, domain.ErrAccountDisappeared)
		assert.Equal(t, domain.KindInconsistency, domain.KindOf(err))
	})

	t.Run("Store Failure Is Wrapped", func(t *testing.T) {
		f := newPosterFixture(t)
		storeErr := errors.New("connection reset")
		f.accounts.On("FindByExternalID", mock.Anything, "account-id").Return(nil, storeErr)

		err := usecase.NewPoster(f.uow).Post(context.Background(), postCommand())

		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
	})

	t.Run("Invalid Command Skips Unit Of Work", func(t *testing.T) {
		uow := mocks.NewUnitOfWork(t)
		cmd := postCommand()
		cmd.OperationID = ""

		err := usecase.NewPoster(uow).Post(context.Background(), cmd)

		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
	})
}
