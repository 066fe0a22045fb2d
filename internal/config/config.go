package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // 容器映像不一定帶 zoneinfo

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-ledger/pkg/mysql"
)

// DefaultPath 預設設定檔位置 (相對於工作目錄)
const DefaultPath = "config/config.yaml"

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	MySQL     mysql.Config    `yaml:"mysql"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Log       LogConfig       `yaml:"log"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
}

type ServerConfig struct {
	GRPCAddr       string        `yaml:"grpc_addr"`
	HTTPAddr       string        `yaml:"http_addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      float64       `yaml:"rate_limit"` // 每秒請求數，0 代表不限制
	RateBurst      int           `yaml:"rate_burst"`
}

type StorageConfig struct {
	Driver  string `yaml:"driver"`   // "mysql" | "memory"
	WALPath string `yaml:"wal_path"` // memory driver 的 WAL 檔，空字串代表不持久化
}

type LedgerConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	TimeZone   string `yaml:"time_zone"` // value_date 所屬時區 (IANA 名稱)
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" | "json"
}

type ReconcileConfig struct {
	Schedule string `yaml:"schedule"` // cron 表示式，空字串代表停用
}

// Load 讀取設定
//
// 順序: yaml 檔 -> .env (若存在) -> 環境變數覆寫 -> 預設值 -> 驗證
//
// 參數:
//
//	path: yaml 路徑，檔案不存在時只使用環境變數與預設值
//
// 回傳:
//
//	*Config: 設定
//	error: 讀檔、解析或驗證失敗
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env 可有可無
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults 補全未設定的欄位
func (c *Config) SetDefaults() {
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":50051"
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 5 * time.Second
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = 100
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMySQL
	}
	if c.Ledger.MaxRetries == 0 {
		c.Ledger.MaxRetries = 3
	}
	if c.Ledger.TimeZone == "" {
		c.Ledger.TimeZone = "UTC"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	c.MySQL.SetDefaults()
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMySQL, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == StorageMySQL && c.MySQL.Host == "" {
		return fmt.Errorf("mysql.host is required for storage driver %q", StorageMySQL)
	}
	if c.Ledger.MaxRetries < 1 {
		return fmt.Errorf("ledger.max_retries must be >= 1, got %d", c.Ledger.MaxRetries)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location value_date 使用的時區
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Ledger.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("ledger.time_zone %q: %w", c.Ledger.TimeZone, err)
	}
	return loc, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.GRPCAddr, "LEDGER_GRPC_ADDR")
	setString(&c.Server.HTTPAddr, "LEDGER_HTTP_ADDR")
	setString(&c.Storage.Driver, "LEDGER_STORAGE_DRIVER")
	setString(&c.Storage.WALPath, "LEDGER_WAL_PATH")
	setString(&c.Ledger.TimeZone, "LEDGER_TIME_ZONE")
	setString(&c.Log.Level, "LEDGER_LOG_LEVEL")
	setString(&c.Log.Format, "LEDGER_LOG_FORMAT")
	setString(&c.Reconcile.Schedule, "LEDGER_RECONCILE_SCHEDULE")

	setString(&c.MySQL.Host, "MYSQL_HOST")
	setString(&c.MySQL.User, "MYSQL_USER")
	setString(&c.MySQL.Password, "MYSQL_PASSWORD")
	setString(&c.MySQL.DBName, "MYSQL_DATABASE")

	if err := setInt(&c.MySQL.Port, "MYSQL_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Ledger.MaxRetries, "LEDGER_MAX_RETRIES"); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("LEDGER_REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LEDGER_REQUEST_TIMEOUT: %w", err)
		}
		c.Server.RequestTimeout = d
	}
	if v, ok := os.LookupEnv("LEDGER_RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LEDGER_RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
