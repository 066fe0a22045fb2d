package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層
type CoreUseCase struct {
	uow    UnitOfWork
	poster *Poster
	logger zerolog.Logger
}

func NewCoreUseCase(uow UnitOfWork, poster *Poster, logger zerolog.Logger) *CoreUseCase {
	return &CoreUseCase{
		uow:    uow,
		poster: poster,
		logger: logger,
	}
}

// PostTransaction 處理交易
func (c *CoreUseCase) PostTransaction(ctx context.Context, cmd PostCommand) error {
	return c.poster.Post(ctx, cmd)
}

// CreateAccount 建立餘額為 0 的帳戶
//
// 參數:
//
//	ctx: 上下文
//	externalID: 對外帳號
//	currency: 帳戶幣別，建立後不可變
//
// 回傳:
//
//	*domain.Account: 建立後的帳戶 (version 0)
//	error: domain.ErrInvalidArgument, domain.ErrAccountAlreadyExists
func (c *CoreUseCase) CreateAccount(ctx context.Context, externalID string, currency domain.Currency) (*domain.Account, error) {
	if externalID == "" {
		return nil, fmt.Errorf("%w: account_id must not be empty", domain.ErrInvalidArgument)
	}
	if currency.IsZero() {
		return nil, fmt.Errorf("%w: currency must be set", domain.ErrInvalidArgument)
	}

	var created *domain.Account
	err := c.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		var err error
		created, err = stores.Accounts.Create(ctx, domain.NewAccount(externalID, currency))
		if errors.Is(err, domain.ErrDuplicateKey) {
			return fmt.Errorf("%w: account %s", domain.ErrAccountAlreadyExists, externalID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("account_id", externalID).
		Str("currency", currency.Code()).
		Msg("account created")
	return created, nil
}

// GetAccount 依對外帳號取得帳戶
func (c *CoreUseCase) GetAccount(ctx context.Context, externalID string) (*domain.Account, error) {
	var account *domain.Account
	err := c.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		var err error
		account, err = stores.Accounts.FindByExternalID(ctx, externalID)
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("%w: account %s not found", domain.ErrAccountNotFound, externalID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Ping 檢查儲存層
func (c *CoreUseCase) Ping(ctx context.Context) error {
	return c.uow.Ping(ctx)
}
