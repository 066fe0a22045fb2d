package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-ledger/pkg/mysql"
)

// mysqlErrDuplicateEntry ER_DUP_ENTRY
const mysqlErrDuplicateEntry = 1062

// readCommitted 樂觀鎖衝突後重讀帳戶必須看到其他交易已 commit 的版本，所以不能用 REPEATABLE READ
var readCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// MySQLLedger 以 MySQL 實作 usecase.UnitOfWork
type MySQLLedger struct {
	client *mysql.Client
}

func NewMySQLLedger(client *mysql.Client) *MySQLLedger {
	return &MySQLLedger{
		client: client,
	}
}

// Migrate 建立/更新 accounts 與 transactions 表
func (ledger *MySQLLedger) Migrate(ctx context.Context) error {
	return ledger.client.DB().WithContext(ctx).AutoMigrate(&sqlAccount{}, &sqlTransaction{})
}

// Do 以 READ COMMITTED 開啟資料庫交易，store 的所有讀寫都綁在同一個 tx 上
func (ledger *MySQLLedger) Do(ctx context.Context, fn func(ctx context.Context, stores usecase.Stores) error) error {
	return ledger.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, usecase.Stores{
			Accounts:     &accountRepository{db: tx},
			Transactions: &transactionRepository{db: tx},
		})
	}, readCommitted)
}

// Ping implements usecase.UnitOfWork.
func (ledger *MySQLLedger) Ping(ctx context.Context) error {
	return ledger.client.Ping(ctx)
}

// translateError 將 gorm / driver 錯誤轉為 domain store 錯誤
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domain.ErrDuplicateKey, err)
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry {
		return fmt.Errorf("%w: %v", domain.ErrDuplicateKey, err)
	}
	return err
}

var _ usecase.UnitOfWork = (*MySQLLedger)(nil)
