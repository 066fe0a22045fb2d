package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmount(t *testing.T) {
	usd := MustCurrency("USD")

	t.Run("Accepts Currency Scale", func(t *testing.T) {
		a, err := NewAmount(usd, decimal.RequireFromString("1.25"))
		require.NoError(t, err)
		assert.Equal(t, "USD 1.25", a.String())
	})

	t.Run("Trailing Zeros Are Not Significant", func(t *testing.T) {
		a, err := NewAmount(usd, decimal.RequireFromString("1.000000000"))
		require.NoError(t, err)
		assert.True(t, a.Equal(MustAmount("USD", "1")))
		assert.Equal(t, "USD 1.00", a.String())
	})

	t.Run("Rejects Excess Scale", func(t *testing.T) {
		_, err := NewAmount(usd, decimal.RequireFromString("1.001"))
		assert.ErrorIs(t, err, ErrInvalidScale)
	})

	t.Run("Rejects Unknown Currency", func(t *testing.T) {
		_, err := ParseAmount("XYZ", "1.00")
		assert.ErrorIs(t, err, ErrUnknownCurrency)
	})

	t.Run("Rejects Empty Currency", func(t *testing.T) {
		_, err := NewAmount(Currency{}, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrUnknownCurrency)
	})

	t.Run("Rejects Non Decimal", func(t *testing.T) {
		_, err := ParseAmount("USD", "one")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestAmountAdd(t *testing.T) {
	t.Run("Same Currency", func(t *testing.T) {
		sum, err := MustAmount("USD", "1.10").Add(MustAmount("USD", "0.95"))
		require.NoError(t, err)
		assert.True(t, sum.Equal(MustAmount("USD", "2.05")))
	})

	t.Run("Negative Values", func(t *testing.T) {
		sum, err := MustAmount("EUR", "1.00").Add(MustAmount("EUR", "-3.50"))
		require.NoError(t, err)
		assert.Equal(t, "EUR -2.50", sum.String())
	})

	t.Run("Currency Mismatch", func(t *testing.T) {
		_, err := MustAmount("USD", "1.00").Add(MustAmount("RUB", "1.00"))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("Exact Decimal Arithmetic", func(t *testing.T) {
		sum := Zero(MustCurrency("USD"))
		for i := 0; i < 10; i++ {
			var err error
			sum, err = sum.Add(MustAmount("USD", "0.10"))
			require.NoError(t, err)
		}
		assert.True(t, sum.Equal(MustAmount("USD", "1.00")))
	})
}

func TestAmountEqual(t *testing.T) {
	assert.True(t, MustAmount("USD", "0").Equal(Zero(MustCurrency("USD"))))
	assert.False(t, MustAmount("USD", "1.00").Equal(MustAmount("EUR", "1.00")))
	assert.False(t, MustAmount("USD", "1.00").Equal(MustAmount("USD", "1.01")))
}

func TestKindOf(t *testing.T) {
	cases := map[error]Kind{
		ErrCurrencyMismatch:   KindValidation,
		ErrInvalidScale:       KindValidation,
		ErrAccountNotFound:    KindNotFound,
		ErrConcurrentInsert:   KindContention,
		ErrConcurrentUpdate:   KindContention,
		ErrAccountDisappeared: KindInconsistency,
		ErrDuplicateKey:       KindUnknown,
	}
	for err, want := range cases {
		assert.Equal(t, want, KindOf(err), err.Error())
	}
}

func TestAccountWithBalanceKeepsVersion(t *testing.T) {
	acc := NewAccount("acc", MustCurrency("USD"))
	acc.Version = 7

	next := acc.WithBalance(MustAmount("USD", "5.00"))

	assert.Equal(t, int64(7), next.Version)
	assert.True(t, next.Balance.Equal(MustAmount("USD", "5.00")))
	assert.True(t, acc.Balance.IsZero())
}
