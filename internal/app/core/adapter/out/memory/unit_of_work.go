package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
)

// unitOfWork 單一交易的暫存寫入與持有的 row lock
type unitOfWork struct {
	store        *Store
	accounts     map[uuid.UUID]domain.Account
	transactions map[string]domain.Transaction
	held         map[string]struct{}
}

func newUnitOfWork(s *Store) *unitOfWork {
	return &unitOfWork{
		store:        s,
		accounts:     make(map[uuid.UUID]domain.Account),
		transactions: make(map[string]domain.Transaction),
		held:         make(map[string]struct{}),
	}
}

func (tx *unitOfWork) commit() error {
	if len(tx.accounts) == 0 && len(tx.transactions) == 0 {
		return nil
	}
	entry := walEntry{}
	for _, a := range tx.accounts {
		entry.Accounts = append(entry.Accounts, newAccountRecord(a))
	}
	for _, t := range tx.transactions {
		entry.Transactions = append(entry.Transactions, newTransactionRecord(t))
	}

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 寫入 WAL (Critical Path)
	if s.wal != nil {
		if err := s.wal.Append(entry); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}
	// 2. 更新記憶體
	return s.apply(entry)
}

// release 釋放所有 row lock，喚醒等待者
func (tx *unitOfWork) release() {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range tx.held {
		if ch, ok := s.locks[key]; ok {
			close(ch)
			delete(s.locks, key)
		}
	}
	tx.held = map[string]struct{}{}
}

// account 讀取帳戶: 先看自己的寫入，再看已 commit 的資料
func (tx *unitOfWork) account(id uuid.UUID) (domain.Account, bool) {
	if a, ok := tx.accounts[id]; ok {
		return a, true
	}
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	return a, ok
}

func (tx *unitOfWork) accountIDByExternalID(externalID string) (uuid.UUID, bool) {
	for id, a := range tx.accounts {
		if a.ExternalID == externalID {
			return id, true
		}
	}
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byExternalID[externalID]
	return id, ok
}

func (tx *unitOfWork) transaction(operationID string) (domain.Transaction, bool) {
	if t, ok := tx.transactions[operationID]; ok {
		return t, true
	}
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[operationID]
	return t, ok
}

// accountStore implements usecase.AccountStore
type accountStore struct {
	tx *unitOfWork
}

func (a accountStore) FindByExternalID(ctx context.Context, externalID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, ok := a.tx.accountIDByExternalID(externalID)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return a.FindByID(ctx, id)
}

func (a accountStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	account, ok := a.tx.account(id)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &account, nil
}

// FindByIDForShare 記憶體版以 row lock 代替共享鎖，讀取者之間也會互相等待
func (a accountStore) FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if err := a.tx.store.lock(ctx, a.tx, "account:"+id.String()); err != nil {
		return nil, err
	}
	return a.FindByID(ctx, id)
}

func (a accountStore) Create(ctx context.Context, account domain.Account) (*domain.Account, error) {
	if err := a.tx.store.lock(ctx, a.tx, "external:"+account.ExternalID); err != nil {
		return nil, err
	}
	if _, exists := a.tx.accountIDByExternalID(account.ExternalID); exists {
		return nil, fmt.Errorf("%w: external_id %s", domain.ErrDuplicateKey, account.ExternalID)
	}
	account.ID = uuid.New()
	account.Version = 0
	account.UpdatedAt = a.tx.store.now()
	if err := a.tx.store.lock(ctx, a.tx, "account:"+account.ID.String()); err != nil {
		return nil, err
	}
	a.tx.accounts[account.ID] = account
	return &account, nil
}

// Save 以 version 做 compare-and-swap，成功時 version +1
func (a accountStore) Save(ctx context.Context, account domain.Account) (*domain.Account, error) {
	// 與資料庫的 UPDATE 一樣，先拿 row lock 再比對版本
	if err := a.tx.store.lock(ctx, a.tx, "account:"+account.ID.String()); err != nil {
		return nil, err
	}
	current, ok := a.tx.account(account.ID)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	if current.Version != account.Version {
		return nil, fmt.Errorf("%w: account %s has version %d, got %d",
			domain.ErrOptimisticConflict, account.ExternalID, current.Version, account.Version)
	}
	if current.Currency() != account.Currency() {
		return nil, fmt.Errorf("%w: account %s currency is %s", domain.ErrCurrencyMismatch, account.ExternalID, current.Currency())
	}
	current.Balance = account.Balance
	current.Version++
	current.UpdatedAt = a.tx.store.now()
	a.tx.accounts[current.ID] = current
	return &current, nil
}

func (a accountStore) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	committed, _ := a.tx.store.Snapshot()
	byID := make(map[uuid.UUID]domain.Account, len(committed)+len(a.tx.accounts))
	for _, acc := range committed {
		byID[acc.ID] = acc
	}
	for id, acc := range a.tx.accounts {
		byID[id] = acc
	}
	accounts := make([]domain.Account, 0, len(byID))
	for _, acc := range byID {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ExternalID < accounts[j].ExternalID })
	return accounts, nil
}

// transactionStore implements usecase.TransactionStore
type transactionStore struct {
	tx *unitOfWork
}

func (t transactionStore) FindByOperationID(ctx context.Context, operationID string) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trxn, ok := t.tx.transaction(operationID)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &trxn, nil
}

// Save 寫入交易，operation id 的唯一索引會等待其他交易 commit 後再判斷
func (t transactionStore) Save(ctx context.Context, trxn domain.Transaction) (*domain.Transaction, error) {
	if err := t.tx.store.lock(ctx, t.tx, "operation:"+trxn.OperationID); err != nil {
		return nil, err
	}
	if _, exists := t.tx.transaction(trxn.OperationID); exists {
		return nil, fmt.Errorf("%w: operation_id %s", domain.ErrDuplicateKey, trxn.OperationID)
	}
	if _, ok := t.tx.account(trxn.AccountID); !ok {
		return nil, fmt.Errorf("transaction %s references unknown account %s", trxn.OperationID, trxn.AccountID)
	}
	trxn.ID = uuid.New()
	trxn.ValueDate = domain.DateOf(trxn.ValueDate)
	trxn.CreatedAt = t.tx.store.now()
	t.tx.transactions[trxn.OperationID] = trxn
	return &trxn, nil
}

func (t transactionStore) SumByAccount(ctx context.Context, accountID uuid.UUID, currency domain.Currency) (domain.Amount, error) {
	if err := ctx.Err(); err != nil {
		return domain.Amount{}, err
	}
	sum := domain.Zero(currency)
	add := func(trxn domain.Transaction) error {
		if trxn.AccountID != accountID {
			return nil
		}
		var err error
		sum, err = sum.Add(trxn.Amount)
		return err
	}

	_, committed := t.tx.store.Snapshot()
	for _, trxn := range committed {
		if _, staged := t.tx.transactions[trxn.OperationID]; staged {
			continue
		}
		if err := add(trxn); err != nil {
			return domain.Amount{}, err
		}
	}
	for _, trxn := range t.tx.transactions {
		if err := add(trxn); err != nil {
			return domain.Amount{}, err
		}
	}
	return sum, nil
}

var (
	_ usecase.AccountStore     = accountStore{}
	_ usecase.TransactionStore = transactionStore{}
)
