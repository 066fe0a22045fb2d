package grpc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/genproto/googleapis/type/money"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
)

const nanosPerUnit = 1_000_000_000

// amountFromProto google.type.Money {units, nanos} 轉為 domain.Amount
// units 與 nanos 必須同號，小數位數超過幣別精度時回傳 domain.ErrInvalidScale (不截斷)
func amountFromProto(m *money.Money) (domain.Amount, error) {
	if m == nil {
		return domain.Amount{}, fmt.Errorf("%w: amount must be set", domain.ErrInvalidArgument)
	}
	units, nanos := m.GetUnits(), m.GetNanos()
	if nanos <= -nanosPerUnit || nanos >= nanosPerUnit {
		return domain.Amount{}, fmt.Errorf("%w: nanos %d out of range", domain.ErrInvalidArgument, nanos)
	}
	if (units > 0 && nanos < 0) || (units < 0 && nanos > 0) {
		return domain.Amount{}, fmt.Errorf("%w: units %d and nanos %d have different signs", domain.ErrInvalidArgument, units, nanos)
	}
	currency, err := domain.LookupCurrency(m.GetCurrencyCode())
	if err != nil {
		return domain.Amount{}, err
	}
	value := decimal.New(units, 0).Add(decimal.New(int64(nanos), -9))
	return domain.NewAmount(currency, value)
}

// amountToProto domain.Amount 轉為 {units, nanos}
func amountToProto(a domain.Amount) *money.Money {
	value := a.Value()
	units := value.Truncate(0)
	nanos := value.Sub(units).Shift(9)
	return &money.Money{
		CurrencyCode: a.Currency().Code(),
		Units:        units.IntPart(),
		Nanos:        int32(nanos.IntPart()),
	}
}

// dateFromProto 以設定的時區解讀 google.type.Date 日曆日
func dateFromProto(d *date.Date, loc *time.Location) (time.Time, error) {
	if d == nil {
		return time.Time{}, fmt.Errorf("%w: value_date must be set", domain.ErrInvalidArgument)
	}
	year, month, day := int(d.GetYear()), time.Month(d.GetMonth()), int(d.GetDay())
	if year < 1 || year > 9999 || month < time.January || month > time.December || day < 1 {
		return time.Time{}, fmt.Errorf("%w: invalid value_date %04d-%02d-%02d", domain.ErrInvalidArgument, year, month, day)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	// time.Date 會把 2月30日 正規化成 3月，這裡要擋下
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: invalid value_date %04d-%02d-%02d", domain.ErrInvalidArgument, year, month, day)
	}
	return t, nil
}
