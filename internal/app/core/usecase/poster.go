package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

// DefaultMaxRetries 樂觀鎖衝突後最多重新存檔次數
const DefaultMaxRetries = 3

// PostCommand 入帳請求
type PostCommand struct {
	ExternalAccountID string
	Amount            domain.Amount
	OperationID       string
	ValueDate         time.Time
}

func (c PostCommand) validate() error {
	if c.OperationID == "" {
		return fmt.Errorf("%w: operation_id must not be empty", domain.ErrInvalidArgument)
	}
	if c.ExternalAccountID == "" {
		return fmt.Errorf("%w: account_id must not be empty", domain.ErrInvalidArgument)
	}
	if c.ValueDate.IsZero() {
		return fmt.Errorf("%w: value_date must be set", domain.ErrInvalidArgument)
	}
	if c.Amount.Currency().IsZero() {
		return fmt.Errorf("%w: amount currency must be set", domain.ErrInvalidArgument)
	}
	return nil
}

// Poster 冪等入帳
//
// 一次 Post 的所有讀寫都在同一個 UnitOfWork 內，任何未處理的錯誤都會 rollback。
// Poster 本身沒有共享可變狀態，可被多個 goroutine 同時呼叫。
type Poster struct {
	uow        UnitOfWork
	maxRetries int
	logger     zerolog.Logger
}

// PosterOption Poster 設定選項
type PosterOption func(*Poster)

// WithMaxRetries 設定樂觀鎖衝突後的重試上限，小於 1 時使用 1
func WithMaxRetries(n int) PosterOption {
	return func(p *Poster) {
		if n < 1 {
			n = 1
		}
		p.maxRetries = n
	}
}

// WithLogger 設定 logger
func WithLogger(logger zerolog.Logger) PosterOption {
	return func(p *Poster) {
		p.logger = logger
	}
}

// NewPoster 建立 Poster
func NewPoster(uow UnitOfWork, opts ...PosterOption) *Poster {
	p := &Poster{
		uow:        uow,
		maxRetries: DefaultMaxRetries,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Post 入帳
//
// 參數:
//
//	ctx: 上下文，取消或逾時會 rollback
//	cmd: 入帳請求
//
// 回傳:
//
//	error: nil (含冪等重送) 或
//	  domain.ErrInvalidArgument, domain.ErrAccountNotFound, domain.ErrCurrencyMismatch,
//	  domain.ErrConcurrentInsert, domain.ErrConcurrentUpdate, domain.ErrAccountDisappeared
func (p *Poster) Post(ctx context.Context, cmd PostCommand) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	return p.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		return p.post(ctx, stores, cmd)
	})
}

func (p *Poster) post(ctx context.Context, stores Stores, cmd PostCommand) error {
	log := p.logger.With().
		Str("account_id", cmd.ExternalAccountID).
		Str("operation_id", cmd.OperationID).
		Logger()

	// 1. 找帳戶
	account, err := stores.Accounts.FindByExternalID(ctx, cmd.ExternalAccountID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return fmt.Errorf("%w: account %s not found", domain.ErrAccountNotFound, cmd.ExternalAccountID)
	}
	if err != nil {
		return fmt.Errorf("find account %s: %w", cmd.ExternalAccountID, err)
	}

	// 2. 幣別檢查
	if cmd.Amount.Currency() != account.Currency() {
		return fmt.Errorf("%w: amount currency %s, account %s currency %s",
			domain.ErrCurrencyMismatch, cmd.Amount.Currency(), cmd.ExternalAccountID, account.Currency())
	}

	// 3. 冪等檢查，已有紀錄就直接成功，不重算餘額
	_, err = stores.Transactions.FindByOperationID(ctx, cmd.OperationID)
	if err == nil {
		log.Info().Msg("transaction already created")
		return nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return fmt.Errorf("find transaction %s: %w", cmd.OperationID, err)
	}

	// 4. 寫入交易，唯一鍵衝突代表有並發的同 operation id 請求
	_, err = stores.Transactions.Save(ctx, domain.NewTransaction(cmd.OperationID, cmd.ValueDate, account.ID, cmd.Amount))
	if errors.Is(err, domain.ErrDuplicateKey) {
		log.Info().Msg("duplicate key on transaction insert")
		return fmt.Errorf("%w: operation %s", domain.ErrConcurrentInsert, cmd.OperationID)
	}
	if err != nil {
		return fmt.Errorf("save transaction %s: %w", cmd.OperationID, err)
	}

	// 5. 更新餘額 6. 衝突時重讀並重試
	return p.applyBalance(ctx, stores.Accounts, account, cmd.Amount, log)
}

func (p *Poster) applyBalance(ctx context.Context, accounts AccountStore, account *domain.Account, amount domain.Amount, log zerolog.Logger) error {
	for attempt := 0; ; attempt++ {
		balance, err := account.Balance.Add(amount)
		if err != nil {
			return err
		}
		saved, err := accounts.Save(ctx, account.WithBalance(balance))
		if err == nil {
			log.Debug().
				Str("balance", saved.Balance.String()).
				Int64("version", saved.Version).
				Msg("balance updated")
			return nil
		}
		if !errors.Is(err, domain.ErrOptimisticConflict) {
			return fmt.Errorf("save account %s: %w", account.ExternalID, err)
		}
		if attempt >= p.maxRetries {
			log.Error().Int("attempts", attempt+1).Msg("optimistic lock retries exhausted")
			return fmt.Errorf("%w: account %s after %d attempts", domain.ErrConcurrentUpdate, account.ExternalID, attempt+1)
		}

		log.Warn().
			Str("account_internal_id", account.ID.String()).
			Int64("version", account.Version).
			Int("retry", attempt+1).
			Msg("optimistic lock conflict on account")

		reloaded, err := accounts.FindByID(ctx, account.ID)
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("%w: account %s", domain.ErrAccountDisappeared, account.ExternalID)
		}
		if err != nil {
			return fmt.Errorf("reload account %s: %w", account.ExternalID, err)
		}
		account = reloaded
	}
}
