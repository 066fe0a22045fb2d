package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
)

var valueDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func post(accountID, amount, operationID string) usecase.PostCommand {
	return usecase.PostCommand{
		ExternalAccountID: accountID,
		Amount:            domain.MustAmount("USD", amount),
		OperationID:       operationID,
		ValueDate:         valueDate,
	}
}

func accountState(t *testing.T, s *Store, externalID string) domain.Account {
	t.Helper()
	accounts, _ := s.Snapshot()
	for _, a := range accounts {
		if a.ExternalID == externalID {
			return a
		}
	}
	t.Fatalf("account %s not found", externalID)
	return domain.Account{}
}

func TestPostScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("Idempotent Double Post", func(t *testing.T) {
		s := newTestStore(t)
		createAccount(t, s, "account-id", "USD")
		poster := usecase.NewPoster(s)

		require.NoError(t, poster.Post(ctx, post("account-id", "1.00", "op-1")))
		require.NoError(t, poster.Post(ctx, post("account-id", "1.00", "op-1")))

		account := accountState(t, s, "account-id")
		assert.Equal(t, "USD 1.00", account.Balance.String())
		assert.Equal(t, int64(1), account.Version)

		_, trxns := s.Snapshot()
		require.Len(t, trxns, 1)
		assert.Equal(t, "op-1", trxns[0].OperationID)
		assert.Equal(t, "USD 1.00", trxns[0].Amount.String())
		assert.Equal(t, valueDate, trxns[0].ValueDate)
		assert.Equal(t, account.ID, trxns[0].AccountID)
	})

	t.Run("Currency Mismatch", func(t *testing.T) {
		s := newTestStore(t)
		createAccount(t, s, "account-id", "RUB")

		err := usecase.NewPoster(s).Post(ctx, post("account-id", "1.00", "op-1"))

		assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
		account := accountState(t, s, "account-id")
		assert.Equal(t, int64(0), account.Version)
		assert.Equal(t, "RUB 0.00", account.Balance.String())
		_, trxns := s.Snapshot()
		assert.Empty(t, trxns)
	})

	t.Run("Version Increments", func(t *testing.T) {
		s := newTestStore(t)
		createAccount(t, s, "acc-ver", "USD")
		poster := usecase.NewPoster(s)

		require.NoError(t, poster.Post(ctx, post("acc-ver", "1.00", "op-1")))
		require.NoError(t, poster.Post(ctx, post("acc-ver", "1.00", "op-2")))

		account := accountState(t, s, "acc-ver")
		assert.Equal(t, "USD 2.00", account.Balance.String())
		assert.Equal(t, int64(2), account.Version)
		_, trxns := s.Snapshot()
		assert.Len(t, trxns, 2)
	})

	t.Run("Missing Account", func(t *testing.T) {
		s := newTestStore(t)

		err := usecase.NewPoster(s).Post(ctx, post("account-id", "1.00", "op-1"))

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		_, trxns := s.Snapshot()
		assert.Empty(t, trxns)
	})

	t.Run("Zero Amount Bumps Version", func(t *testing.T) {
		s := newTestStore(t)
		createAccount(t, s, "acc", "USD")

		require.NoError(t, usecase.NewPoster(s).Post(ctx, post("acc", "0", "op-zero")))

		account := accountState(t, s, "acc")
		assert.Equal(t, "USD 0.00", account.Balance.String())
		assert.Equal(t, int64(1), account.Version)
		_, trxns := s.Snapshot()
		assert.Len(t, trxns, 1)
	})

	t.Run("Canceled Context Leaves No Trace", func(t *testing.T) {
		s := newTestStore(t)
		createAccount(t, s, "acc", "USD")
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		err := usecase.NewPoster(s).Post(canceled, post("acc", "1.00", "op-1"))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int64(0), accountState(t, s, "acc").Version)
	})
}

func TestConcurrentPostersSameOperation(t *testing.T) {
	s := newTestStore(t)
	createAccount(t, s, "a", "USD")
	poster := usecase.NewPoster(s)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = poster.Post(context.Background(), post("a", "1.00", "op-x"))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err == nil {
			continue
		}
		require.ErrorIs(t, err, domain.ErrConcurrentInsert)
		// 呼叫端重試會走冪等路徑
		assert.NoError(t, poster.Post(context.Background(), post("a", "1.00", "op-x")))
	}

	account := accountState(t, s, "a")
	assert.Equal(t, "USD 1.00", account.Balance.String())
	assert.Equal(t, int64(1), account.Version)
	_, trxns := s.Snapshot()
	assert.Len(t, trxns, 1)
}

func TestConcurrentPostersDistinctOperations(t *testing.T) {
	s := newTestStore(t)
	createAccount(t, s, "a", "USD")
	poster := usecase.NewPoster(s)

	const callers = 32
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- poster.Post(context.Background(), post("a", "1.00", fmt.Sprintf("op-%d", i)))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	account := accountState(t, s, "a")
	assert.Equal(t, "USD 32.00", account.Balance.String())
	assert.Equal(t, int64(callers), account.Version)
	_, trxns := s.Snapshot()
	assert.Len(t, trxns, callers)
}

func TestBalanceEqualsSumOfDistinctOperations(t *testing.T) {
	s := newTestStore(t)
	createAccount(t, s, "a", "USD")
	poster := usecase.NewPoster(s)
	ctx := context.Background()

	amounts := map[string]string{"op-1": "10.25", "op-2": "-3.10", "op-3": "0.85"}
	for round := 0; round < 3; round++ {
		for op, amount := range amounts {
			require.NoError(t, poster.Post(ctx, post("a", amount, op)))
		}
	}

	account := accountState(t, s, "a")
	assert.Equal(t, "USD 8.00", account.Balance.String())
	assert.Equal(t, int64(len(amounts)), account.Version)

	mismatches, err := usecase.NewReconciler(s, zerolog.Nop()).Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestReconcilerReportsDrift(t *testing.T) {
	s := newTestStore(t)
	account := createAccount(t, s, "a", "USD")
	ctx := context.Background()

	// 繞過 Poster 直接改餘額
	require.NoError(t, s.Do(ctx, func(ctx context.Context, stores usecase.Stores) error {
		_, err := stores.Accounts.Save(ctx, account.WithBalance(domain.MustAmount("USD", "4.00")))
		return err
	}))

	mismatches, err := usecase.NewReconciler(s, zerolog.Nop()).Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "a", mismatches[0].ExternalID)
	assert.Equal(t, "USD 0.00", mismatches[0].Expected.String())
}

func TestReconcileReadBlocksConcurrentPost(t *testing.T) {
	s := newTestStore(t)
	account := createAccount(t, s, "a", "USD")
	poster := usecase.NewPoster(s)
	ctx := context.Background()
	require.NoError(t, poster.Post(ctx, post("a", "1.00", "op-1")))

	locked := make(chan struct{})
	finish := make(chan struct{})
	readDone := make(chan error, 1)
	go func() {
		readDone <- s.Do(ctx, func(ctx context.Context, stores usecase.Stores) error {
			current, err := stores.Accounts.FindByIDForShare(ctx, account.ID)
			if err != nil {
				return err
			}
			close(locked)
			<-finish
			sum, err := stores.Transactions.SumByAccount(ctx, account.ID, current.Currency())
			if err != nil {
				return err
			}
			if !current.Balance.Equal(sum) {
				return fmt.Errorf("balance %s, sum %s", current.Balance, sum)
			}
			return nil
		})
	}()
	<-locked

	postDone := make(chan error, 1)
	go func() {
		postDone <- poster.Post(ctx, post("a", "2.00", "op-2"))
	}()

	// 帳戶被鎖住時入帳無法 commit
	select {
	case err := <-postDone:
		t.Fatalf("post finished while account was locked: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(finish)

	require.NoError(t, <-readDone)
	require.NoError(t, <-postDone)
	assert.Equal(t, "USD 3.00", accountState(t, s, "a").Balance.String())

	mismatches, err := usecase.NewReconciler(s, zerolog.Nop()).Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestCoreUseCaseAccounts(t *testing.T) {
	s := newTestStore(t)
	core := usecase.NewCoreUseCase(s, usecase.NewPoster(s), zerolog.Nop())
	ctx := context.Background()

	created, err := core.CreateAccount(ctx, "acc", domain.MustCurrency("EUR"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), created.Version)

	_, err = core.CreateAccount(ctx, "acc", domain.MustCurrency("EUR"))
	assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)

	require.NoError(t, core.PostTransaction(ctx, usecase.PostCommand{
		ExternalAccountID: "acc",
		Amount:            domain.MustAmount("EUR", "12.34"),
		OperationID:       "op-1",
		ValueDate:         valueDate,
	}))
	account, err := core.GetAccount(ctx, "acc")
	require.NoError(t, err)
	assert.Equal(t, "EUR 12.34", account.Balance.String())
	assert.Equal(t, int64(1), account.Version)

	_, err = core.GetAccount(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
}
