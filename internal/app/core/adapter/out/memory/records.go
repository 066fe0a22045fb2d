package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

// walEntry 一次 commit 的所有寫入
type walEntry struct {
	Accounts     []accountRecord     `json:"accounts,omitempty"`
	Transactions []transactionRecord `json:"transactions,omitempty"`
}

type accountRecord struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Currency   string    `json:"currency"`
	Balance    string    `json:"balance"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newAccountRecord(a domain.Account) accountRecord {
	return accountRecord{
		ID:         a.ID,
		ExternalID: a.ExternalID,
		Currency:   a.Currency().Code(),
		Balance:    a.Balance.Value().String(),
		Version:    a.Version,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (r accountRecord) toDomain() (domain.Account, error) {
	balance, err := domain.ParseAmount(r.Currency, r.Balance)
	if err != nil {
		return domain.Account{}, err
	}
	return domain.Account{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Balance:    balance,
		Version:    r.Version,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

type transactionRecord struct {
	ID          uuid.UUID `json:"id"`
	OperationID string    `json:"operation_id"`
	AccountID   uuid.UUID `json:"account_id"`
	Currency    string    `json:"currency"`
	Amount      string    `json:"amount"`
	ValueDate   string    `json:"value_date"`
	CreatedAt   time.Time `json:"created_at"`
}

const dateLayout = "2006-01-02"

func newTransactionRecord(t domain.Transaction) transactionRecord {
	return transactionRecord{
		ID:          t.ID,
		OperationID: t.OperationID,
		AccountID:   t.AccountID,
		Currency:    t.Amount.Currency().Code(),
		Amount:      t.Amount.Value().String(),
		ValueDate:   t.ValueDate.Format(dateLayout),
		CreatedAt:   t.CreatedAt,
	}
}

func (r transactionRecord) toDomain() (domain.Transaction, error) {
	amount, err := domain.ParseAmount(r.Currency, r.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	valueDate, err := time.Parse(dateLayout, r.ValueDate)
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		ID:          r.ID,
		OperationID: r.OperationID,
		ValueDate:   valueDate,
		AccountID:   r.AccountID,
		Amount:      amount,
		CreatedAt:   r.CreatedAt,
	}, nil
}
