package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

// Mismatch 帳戶餘額與交易加總不一致
type Mismatch struct {
	ExternalID string
	Balance    domain.Amount
	Expected   domain.Amount
}

// Reconciler 對帳: 帳戶建立時餘額為 0，所以餘額應等於所有交易金額加總
type Reconciler struct {
	uow    UnitOfWork
	logger zerolog.Logger
}

func NewReconciler(uow UnitOfWork, logger zerolog.Logger) *Reconciler {
	return &Reconciler{uow: uow, logger: logger}
}

// Reconcile 逐一比對所有帳戶，回傳不一致的清單
func (r *Reconciler) Reconcile(ctx context.Context) ([]Mismatch, error) {
	var accounts []domain.Account
	err := r.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		var err error
		accounts, err = stores.Accounts.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	var mismatches []Mismatch
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return mismatches, err
		}
		// 先鎖住帳戶再加總: 入帳在更新餘額時會被擋住，
		// 加總只看得到餘額已一併 commit 的交易
		var current *domain.Account
		var sum domain.Amount
		err := r.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
			var err error
			current, err = stores.Accounts.FindByIDForShare(ctx, account.ID)
			if err != nil {
				return err
			}
			sum, err = stores.Transactions.SumByAccount(ctx, account.ID, current.Currency())
			return err
		})
		if err != nil {
			return mismatches, fmt.Errorf("reconcile account %s: %w", account.ExternalID, err)
		}
		if !current.Balance.Equal(sum) {
			r.logger.Error().
				Str("account_id", current.ExternalID).
				Str("balance", current.Balance.String()).
				Str("expected", sum.String()).
				Msg("balance does not match transactions")
			mismatches = append(mismatches, Mismatch{
				ExternalID: current.ExternalID,
				Balance:    current.Balance,
				Expected:   sum,
			})
		}
	}
	r.logger.Info().
		Int("accounts", len(accounts)).
		Int("mismatches", len(mismatches)).
		Msg("reconciliation finished")
	return mismatches, nil
}
