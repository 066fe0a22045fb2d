package mysql

import (
	"fmt"
	"net/url"
	"time"
)

// Config 定義 MySQL 連線與連線池的配置
type Config struct {
	Host     string `yaml:"host"`     // 資料庫主機地址
	Port     int    `yaml:"port"`     // 資料庫埠號 (預設 3306)
	User     string `yaml:"user"`     // 使用者名稱
	Password string `yaml:"password"` // 密碼
	DBName   string `yaml:"db_name"`  // 資料庫名稱

	// 連線池設定 (Connection Pool)
	// 參考: https://github.com/go-sql-driver/mysql#important-settings
	MaxOpenConns    int           `yaml:"max_open_conns"`    // 最大開啟連線數
	MaxIdleConns    int           `yaml:"max_idle_conns"`    // 最大閒置連線數
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"` // 連線最大存活時間

	// 啟動時連線重試
	ConnectRetries       int           `yaml:"connect_retries"`
	ConnectRetryInterval time.Duration `yaml:"connect_retry_interval"`

	// GORM 設定
	LogLevel      string        `yaml:"log_level"`      // Log 等級: "silent", "error", "warn", "info"
	SlowThreshold time.Duration `yaml:"slow_threshold"` // 慢查詢門檻
	AutoMigrate   bool          `yaml:"auto_migrate"`   // 啟動時建立/更新資料表
}

// SetDefaults 補全未設定的欄位
func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	if c.ConnectRetries == 0 {
		c.ConnectRetries = 10
	}
	if c.ConnectRetryInterval == 0 {
		c.ConnectRetryInterval = 2 * time.Second
	}
	if c.SlowThreshold == 0 {
		c.SlowThreshold = 200 * time.Millisecond
	}
}

// DSN (Data Source Name) 產生連線字串
// 格式: user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=UTC
// value date 以 UTC 零點儲存，所以 loc 固定 UTC
func (c *Config) DSN() string {
	params := url.Values{}
	params.Set("charset", "utf8mb4")
	params.Set("parseTime", "True")
	params.Set("loc", "UTC")
	params.Set("transaction_isolation", "'READ-COMMITTED'")
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		params.Encode(),
	)
}
