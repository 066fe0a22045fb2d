package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-ledger/pkg/wal"
)

// Store 記憶體版的帳戶/交易儲存
//
// 行為對齊 READ COMMITTED 的資料庫:
//
//	讀取只看已 commit 的資料 (加上自己交易內尚未 commit 的寫入)
//	寫入會拿 row lock，直到 commit / rollback 才釋放
//	帳戶以 version 做 compare-and-swap，operation id 有唯一限制
//
// 有設定 WAL 時每次 commit 先寫 WAL 再更新記憶體，啟動時重放。
type Store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]domain.Account
	byExternalID map[string]uuid.UUID
	// 依 operation id 索引
	transactions map[string]domain.Transaction
	// row locks: key -> 釋放時 close 的 channel
	locks map[string]chan struct{}

	wal    *wal.WAL
	now    func() time.Time
	logger zerolog.Logger
}

// Option Store 設定選項
type Option func(*Store)

// WithWAL 使用 WAL 持久化
func WithWAL(w *wal.WAL) Option {
	return func(s *Store) {
		s.wal = w
	}
}

// WithClock 替換時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger 設定 logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore 建立 Store，有 WAL 時先恢復資料
//
// 回傳:
//
//	*Store: Store 實例
//	error: WAL 恢復失敗
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{
		accounts:     make(map[uuid.UUID]domain.Account),
		byExternalID: make(map[string]uuid.UUID),
		transactions: make(map[string]domain.Transaction),
		locks:        make(map[string]chan struct{}),
		now:          time.Now,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.wal != nil {
		if err := s.recoverFromWAL(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// recoverFromWAL 從 WAL 檔案恢復狀態
// 只有 NewStore 呼叫，無需 Lock (單執行緒)
func (s *Store) recoverFromWAL() error {
	err := s.wal.Replay(func(raw json.RawMessage) error {
		var entry walEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return err
		}
		return s.apply(entry)
	})
	if err != nil {
		return fmt.Errorf("recover from wal: %w", err)
	}
	s.logger.Info().
		Int("accounts", len(s.accounts)).
		Int("transactions", len(s.transactions)).
		Msg("memory store recovered from wal")
	return nil
}

// apply 將一次 commit 的結果寫入記憶體，呼叫端需持有 s.mu (或在初始化階段)
func (s *Store) apply(entry walEntry) error {
	for _, rec := range entry.Accounts {
		account, err := rec.toDomain()
		if err != nil {
			return err
		}
		s.accounts[account.ID] = account
		s.byExternalID[account.ExternalID] = account.ID
	}
	for _, rec := range entry.Transactions {
		trxn, err := rec.toDomain()
		if err != nil {
			return err
		}
		s.transactions[trxn.OperationID] = trxn
	}
	return nil
}

// Do 在單一交易內執行 fn，fn 回傳錯誤或 panic 時所有寫入都會被丟棄
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, stores usecase.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := newUnitOfWork(s)
	// rollback: 釋放 row lock，staged 寫入直接丟棄
	defer tx.release()

	if err := fn(ctx, usecase.Stores{
		Accounts:     accountStore{tx},
		Transactions: transactionStore{tx},
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

// Ping implements usecase.UnitOfWork.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// lock 取得 row lock，已被其他交易持有時等待其 commit / rollback
func (s *Store) lock(ctx context.Context, tx *unitOfWork, key string) error {
	if _, ok := tx.held[key]; ok {
		return nil
	}
	for {
		s.mu.Lock()
		ch, held := s.locks[key]
		if !held {
			s.locks[key] = make(chan struct{})
			s.mu.Unlock()
			tx.held[key] = struct{}{}
			return nil
		}
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Snapshot 回傳目前已 commit 的帳戶與交易 (依對外帳號 / operation id 排序)
func (s *Store) Snapshot() ([]domain.Account, []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ExternalID < accounts[j].ExternalID })

	trxns := make([]domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		trxns = append(trxns, t)
	}
	sort.Slice(trxns, func(i, j int) bool { return trxns[i].OperationID < trxns[j].OperationID })
	return accounts, trxns
}

var _ usecase.UnitOfWork = (*Store)(nil)
