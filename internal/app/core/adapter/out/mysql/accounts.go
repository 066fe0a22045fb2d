package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.Account, error) {
	var row sqlAccount
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain()
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var row sqlAccount
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain()
}

// FindByIDForShare SELECT ... FOR SHARE，入帳的 UPDATE 會等到本交易結束
func (r *accountRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var row sqlAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return row.toDomain()
}

func (r *accountRepository) Create(ctx context.Context, account domain.Account) (*domain.Account, error) {
	now := time.Now().UTC()
	account.ID = uuid.New()
	account.Version = 0
	account.UpdatedAt = now

	row := newSQLAccount(account)
	row.CreatedAt = now
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// Save UPDATE ... WHERE id = ? AND version = ?，沒有更新到任何 row 代表版本已被其他交易推進
func (r *accountRepository) Save(ctx context.Context, account domain.Account) (*domain.Account, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&sqlAccount{}).
		Where("id = ? AND version = ? AND currency = ?", account.ID, account.Version, account.Currency().Code()).
		Updates(map[string]interface{}{
			"balance":    account.Balance.Value(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, r.explainMiss(ctx, account)
	}

	account.Version++
	account.UpdatedAt = now
	return &account, nil
}

// explainMiss 判斷 UPDATE 沒命中的原因
func (r *accountRepository) explainMiss(ctx context.Context, account domain.Account) error {
	current, err := r.FindByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrRecordNotFound
		}
		return err
	}
	if current.Currency() != account.Currency() {
		return fmt.Errorf("%w: account %s currency is %s", domain.ErrCurrencyMismatch, account.ExternalID, current.Currency())
	}
	return fmt.Errorf("%w: account %s has version %d, got %d",
		domain.ErrOptimisticConflict, account.ExternalID, current.Version, account.Version)
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	var rows []sqlAccount
	if err := r.db.WithContext(ctx).Order("external_id").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	accounts := make([]domain.Account, 0, len(rows))
	for i := range rows {
		account, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

var _ usecase.AccountStore = (*accountRepository)(nil)
