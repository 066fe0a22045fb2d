package mysql

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID         uuid.UUID       `gorm:"primaryKey;type:char(36)"`
	ExternalID string          `gorm:"column:external_id;type:varchar(128);uniqueIndex;not null"`
	Currency   string          `gorm:"type:char(3);not null"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Version    int64           `gorm:"not null;default:0"` // 樂觀鎖版本號
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

func newSQLAccount(a domain.Account) sqlAccount {
	return sqlAccount{
		ID:         a.ID,
		ExternalID: a.ExternalID,
		Currency:   a.Currency().Code(),
		Balance:    a.Balance.Value(),
		Version:    a.Version,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (s *sqlAccount) toDomain() (*domain.Account, error) {
	currency, err := domain.LookupCurrency(s.Currency)
	if err != nil {
		return nil, err
	}
	balance, err := domain.NewAmount(currency, s.Balance)
	if err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:         s.ID,
		ExternalID: s.ExternalID,
		Balance:    balance,
		Version:    s.Version,
		UpdatedAt:  s.UpdatedAt,
	}, nil
}

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:char(36)"`
	OperationID string          `gorm:"column:operation_id;type:varchar(128);uniqueIndex;not null"` // 冪等鍵
	AccountID   uuid.UUID       `gorm:"type:char(36);index;not null"`
	Currency    string          `gorm:"type:char(3);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	ValueDate   time.Time       `gorm:"type:date;not null"`
	CreatedAt   time.Time
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

func newSQLTransaction(t domain.Transaction) sqlTransaction {
	return sqlTransaction{
		ID:          t.ID,
		OperationID: t.OperationID,
		AccountID:   t.AccountID,
		Currency:    t.Amount.Currency().Code(),
		Amount:      t.Amount.Value(),
		ValueDate:   domain.DateOf(t.ValueDate),
		CreatedAt:   t.CreatedAt,
	}
}

func (s *sqlTransaction) toDomain() (*domain.Transaction, error) {
	currency, err := domain.LookupCurrency(s.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := domain.NewAmount(currency, s.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		ID:          s.ID,
		OperationID: s.OperationID,
		ValueDate:   domain.DateOf(s.ValueDate),
		AccountID:   s.AccountID,
		Amount:      amount,
		CreatedAt:   s.CreatedAt,
	}, nil
}
