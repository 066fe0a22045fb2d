package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction 交易紀錄，寫入後不再修改
type Transaction struct {
	ID uuid.UUID
	// OperationID: 外部冪等鍵，全局唯一
	OperationID string
	// ValueDate: 生效日 (只取年月日)
	ValueDate time.Time
	// AccountID: 所屬帳戶內部 ID
	AccountID uuid.UUID
	Amount    Amount
	CreatedAt time.Time
}

// NewTransaction 建立尚未存檔的交易
func NewTransaction(operationID string, valueDate time.Time, accountID uuid.UUID, amount Amount) Transaction {
	return Transaction{
		OperationID: operationID,
		ValueDate:   DateOf(valueDate),
		AccountID:   accountID,
		Amount:      amount,
	}
}

// DateOf 取 t 在自身時區的年月日，以 UTC 零點表示 (civil date)
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
