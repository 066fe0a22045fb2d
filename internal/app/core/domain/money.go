package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency ISO-4217 幣別
type Currency struct {
	code   string
	digits int32
}

// currencyTable 支援的幣別與小數位數 (ISO-4217 minor units)
var currencyTable = map[string]int32{
	"AUD": 2,
	"CAD": 2,
	"CHF": 2,
	"CNY": 2,
	"CZK": 2,
	"DKK": 2,
	"EUR": 2,
	"GBP": 2,
	"HKD": 2,
	"NOK": 2,
	"NZD": 2,
	"PLN": 2,
	"RUB": 2,
	"SEK": 2,
	"SGD": 2,
	"TWD": 2,
	"USD": 2,
}

// LookupCurrency 依代碼取得幣別
//
// 參數:
//
//	code: ISO-4217 字母代碼 (e.g. "USD")
//
// 回傳:
//
//	Currency: 幣別
//	error: ErrUnknownCurrency
func LookupCurrency(code string) (Currency, error) {
	digits, ok := currencyTable[code]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return Currency{code: code, digits: digits}, nil
}

// MustCurrency 同 LookupCurrency，失敗時 panic，僅供常數與測試使用
func MustCurrency(code string) Currency {
	c, err := LookupCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code 回傳字母代碼
func (c Currency) Code() string { return c.code }

// Digits 回傳小數位數
func (c Currency) Digits() int32 { return c.digits }

func (c Currency) String() string { return c.code }

// IsZero 是否為未初始化的幣別
func (c Currency) IsZero() bool { return c.code == "" }

// Amount 帶幣別的金額，值不可變
type Amount struct {
	currency Currency
	value    decimal.Decimal
}

// NewAmount 建立金額
//
// 參數:
//
//	currency: 幣別
//	value: 十進位數值，小數位數不可超過幣別的 Digits
//
// 回傳:
//
//	Amount: 金額
//	error: ErrUnknownCurrency, ErrInvalidScale
func NewAmount(currency Currency, value decimal.Decimal) (Amount, error) {
	if currency.IsZero() {
		return Amount{}, fmt.Errorf("%w: empty currency", ErrUnknownCurrency)
	}
	// 尾數 0 不算精度，1.000 視為 1.00
	if !value.Equal(value.Truncate(currency.digits)) {
		return Amount{}, fmt.Errorf("%w: %s has more than %d fractional digits for %s",
			ErrInvalidScale, value.String(), currency.digits, currency.code)
	}
	return Amount{currency: currency, value: value.Truncate(currency.digits)}, nil
}

// ParseAmount 由字母代碼與字串建立金額 e.g. ("USD", "1.00")
func ParseAmount(code, value string) (Amount, error) {
	currency, err := LookupCurrency(code)
	if err != nil {
		return Amount{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal", ErrInvalidArgument, value)
	}
	return NewAmount(currency, d)
}

// MustAmount 同 ParseAmount，失敗時 panic (測試用)
func MustAmount(code, value string) Amount {
	a, err := ParseAmount(code, value)
	if err != nil {
		panic(err)
	}
	return a
}

// Zero 回傳該幣別的零值金額
func Zero(currency Currency) Amount {
	return Amount{currency: currency, value: decimal.Zero}
}

// Currency 幣別
func (a Amount) Currency() Currency { return a.currency }

// Value 數值
func (a Amount) Value() decimal.Decimal { return a.value }

// Add 相加，幣別不同時回傳 ErrCurrencyMismatch
func (a Amount) Add(b Amount) (Amount, error) {
	if a.currency != b.currency {
		return Amount{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, b.currency, a.currency)
	}
	return Amount{currency: a.currency, value: a.value.Add(b.value)}, nil
}

// Equal 幣別與數值相等 (尾數 0 不影響)
func (a Amount) Equal(b Amount) bool {
	return a.currency == b.currency && a.value.Equal(b.value)
}

// IsZero 數值是否為 0
func (a Amount) IsZero() bool { return a.value.IsZero() }

// String e.g. "USD 1.00"
func (a Amount) String() string {
	return a.currency.code + " " + a.value.StringFixed(a.currency.digits)
}
