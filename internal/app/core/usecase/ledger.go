package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name="AccountStore|TransactionStore|UnitOfWork" --output=mocks --outpkg=mocks

// AccountStore 帳戶儲存介面 (需在 UnitOfWork 內使用)
type AccountStore interface {
	// FindByExternalID 依對外帳號查詢，查無時回傳 domain.ErrRecordNotFound
	FindByExternalID(ctx context.Context, externalID string) (*domain.Account, error)
	// FindByID 依內部 ID 查詢，查無時回傳 domain.ErrRecordNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// FindByIDForShare 同 FindByID，並對該帳戶加共享鎖直到交易結束
	// 期間其他交易對此帳戶的 Save 會等待
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// Create 建立帳戶，對外帳號重複時回傳 domain.ErrDuplicateKey
	Create(ctx context.Context, account domain.Account) (*domain.Account, error)
	// Save 以版本號比對寫入，不符時回傳 domain.ErrOptimisticConflict
	// 成功後回傳版本號 +1 的新狀態
	Save(ctx context.Context, account domain.Account) (*domain.Account, error)
	// List 列出所有帳戶
	List(ctx context.Context) ([]domain.Account, error)
}

// TransactionStore 交易儲存介面 (需在 UnitOfWork 內使用)
type TransactionStore interface {
	// FindByOperationID 查無時回傳 domain.ErrRecordNotFound
	FindByOperationID(ctx context.Context, operationID string) (*domain.Transaction, error)
	// Save 寫入交易，operation id 重複時回傳 domain.ErrDuplicateKey
	Save(ctx context.Context, trxn domain.Transaction) (*domain.Transaction, error)
	// SumByAccount 加總帳戶所有交易金額
	SumByAccount(ctx context.Context, accountID uuid.UUID, currency domain.Currency) (domain.Amount, error)
}

// Stores 綁定在同一個資料庫交易上的 store
type Stores struct {
	Accounts     AccountStore
	Transactions TransactionStore
}

// UnitOfWork 在單一資料庫交易內執行 fn
// fn 回傳 nil 時 commit，回傳錯誤或 panic 時 rollback
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
	// Ping 檢查底層儲存是否可用
	Ping(ctx context.Context) error
}
