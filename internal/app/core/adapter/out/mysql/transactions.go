package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) FindByOperationID(ctx context.Context, operationID string) (*domain.Transaction, error) {
	var row sqlTransaction
	if err := r.db.WithContext(ctx).Where("operation_id = ?", operationID).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain()
}

// Save 寫入交易，operation_id 唯一索引衝突時回傳 domain.ErrDuplicateKey
func (r *transactionRepository) Save(ctx context.Context, trxn domain.Transaction) (*domain.Transaction, error) {
	trxn.ID = uuid.New()
	trxn.ValueDate = domain.DateOf(trxn.ValueDate)
	trxn.CreatedAt = time.Now().UTC()

	row := newSQLTransaction(trxn)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return &trxn, nil
}

func (r *transactionRepository) SumByAccount(ctx context.Context, accountID uuid.UUID, currency domain.Currency) (domain.Amount, error) {
	var sum decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&sqlTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND currency = ?", accountID, currency.Code()).
		Row()
	if err := row.Scan(&sum); err != nil {
		return domain.Amount{}, translateError(err)
	}
	return domain.NewAmount(currency, sum)
}

var _ usecase.TransactionStore = (*transactionRepository)(nil)
