package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Client 封裝 GORM DB 實例
type Client struct {
	db *gorm.DB
}

// NewClient 建立並回傳一個新的 MySQL 客戶端實例 (GORM)
//
// 參數:
//
//	ctx: 上下文，取消時停止重試
//	cfg: Config - MySQL 連線配置
//	log: zerolog logger，GORM 的 log 也會導向這裡
//
// 回傳值:
//
//	*Client: 封裝後的 MySQL 客戶端
//	error: 若連線失敗則回傳錯誤
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	cfg.SetDefaults()
	gormConfig := &gorm.Config{
		// 需要交易的地方一律自己開 Transaction
		SkipDefaultTransaction: true,
		// 把 driver 錯誤轉成 gorm.ErrDuplicatedKey 等通用錯誤
		TranslateError: true,
		Logger:         NewLogger(log, cfg.LogLevel, cfg.SlowThreshold),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var db *gorm.DB
	var err error

	// Retry mechanism for database connection
	for i := 0; i < cfg.ConnectRetries; i++ {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
		if err == nil {
			// Try pinging to ensure connection is actually alive
			rawDB, dbErr := db.DB()
			if dbErr == nil {
				if err = rawDB.PingContext(ctx); err == nil {
					break // Connection successful
				}
			} else {
				err = dbErr
			}
		}

		if i < cfg.ConnectRetries-1 {
			log.Warn().Err(err).
				Int("attempt", i+1).
				Int("max_attempts", cfg.ConnectRetries).
				Dur("retry_in", cfg.ConnectRetryInterval).
				Msg("failed to connect to mysql")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.ConnectRetryInterval):
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql after %d attempts: %w", cfg.ConnectRetries, err)
	}

	// 取得底層 sql.DB 物件以設定連線池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.db: %w", err)
	}

	// 設定連線池參數，防止資料庫連線耗盡
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Client{db: db}, nil
}

// NewClientFromDB 包裝既有的 *gorm.DB (測試用)
func NewClientFromDB(db *gorm.DB) *Client {
	return &Client{db: db}
}

// DB 回傳底層的 *gorm.DB 實例，供業務邏輯層使用
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Ping 檢查連線
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉資料庫連線
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
