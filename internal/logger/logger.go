package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger 建立全域 logger
//
// 參數:
//
//	level: trace/debug/info/warn/error，無法解析時使用 info
//	format: "json" 輸出 JSON，其餘使用 console writer
func InitLogger(level, format string) zerolog.Logger {
	return New(os.Stderr, level, format)
}

// New 同 InitLogger，可指定輸出 (測試用)
func New(out io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if !strings.EqualFold(format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "ledger").Logger()
	log.Logger = logger
	return logger
}
