package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidArgument 參數不合法
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownCurrency 不支援的幣別
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidScale 小數位數超過幣別精度
	ErrInvalidScale = errors.New("invalid amount scale")

	// ErrCurrencyMismatch 幣別不一致
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrConcurrentInsert 同一 operation id 被並發寫入，呼叫端可重試 (重試會走冪等路徑)
	ErrConcurrentInsert = errors.New("concurrent transaction insert failed")

	// ErrConcurrentUpdate 帳戶餘額更新重試次數用盡
	ErrConcurrentUpdate = errors.New("concurrent account update failed")

	// ErrAccountDisappeared 帳戶在同一次入帳中消失
	ErrAccountDisappeared = errors.New("account disappeared")
)

// Store 層錯誤，由 adapter 將底層 driver 錯誤轉換而來
var (
	// ErrRecordNotFound 查無資料
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey 違反唯一索引
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrOptimisticConflict 版本號不符
	ErrOptimisticConflict = errors.New("optimistic lock conflict")
)

// Kind 錯誤分類
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindValidation 呼叫端參數錯誤
	KindValidation
	// KindNotFound 找不到資源
	KindNotFound
	// KindConflict 資源已存在
	KindConflict
	// KindContention 並發衝突，可重試
	KindContention
	// KindInconsistency 內部資料不一致
	KindInconsistency
	// KindCanceled 呼叫被取消或逾時
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindContention:
		return "contention"
	case KindInconsistency:
		return "inconsistency"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// KindOf 回傳 err 的分類
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrUnknownCurrency),
		errors.Is(err, ErrInvalidScale),
		errors.Is(err, ErrCurrencyMismatch):
		return KindValidation
	case errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrConcurrentInsert),
		errors.Is(err, ErrConcurrentUpdate):
		return KindContention
	case errors.Is(err, ErrAccountDisappeared):
		return KindInconsistency
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}
