package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account 帳戶
//
// 結構:
//
//	ID: 內部 ID，由 store 指派
//	ExternalID: 對外帳號，唯一
//	Balance: 餘額，幣別在建立後不變
//	Version: 樂觀鎖版本號，每次餘額寫入 +1 (由 store 負責)
type Account struct {
	ID         uuid.UUID
	ExternalID string
	Balance    Amount
	Version    int64
	UpdatedAt  time.Time
}

// NewAccount 建立尚未存檔的新帳戶，餘額為 0
func NewAccount(externalID string, currency Currency) Account {
	return Account{
		ExternalID: externalID,
		Balance:    Zero(currency),
	}
}

// WithBalance 回傳換上新餘額的副本，版本號不變
func (a Account) WithBalance(balance Amount) Account {
	a.Balance = balance
	return a
}

// Currency 帳戶幣別
func (a Account) Currency() Currency {
	return a.Balance.Currency()
}
