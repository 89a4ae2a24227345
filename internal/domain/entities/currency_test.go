package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valutatrade-hub/internal/domain/errs"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    string
		wantErr bool
	}{
		{
			name: "lowercase is uppercased",
			code: "usd",
			want: "USD",
		},
		{
			name: "surrounding whitespace is trimmed",
			code: "  btc  ",
			want: "BTC",
		},
		{
			name: "five characters allowed",
			code: "MATIC",
			want: "MATIC",
		},
		{
			name:    "empty code",
			code:    "",
			wantErr: true,
		},
		{
			name:    "single character too short",
			code:    "X",
			wantErr: true,
		},
		{
			name:    "six characters too long",
			code:    "TOOBIG",
			wantErr: true,
		},
		{
			name:    "inner whitespace rejected",
			code:    "U SD",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(tt.code)
			if tt.wantErr {
				var invalidErr *errs.InvalidCurrencyCodeError
				require.Error(t, err)
				assert.True(t, errors.As(err, &invalidErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCurrency(t *testing.T) {
	t.Run("known code", func(t *testing.T) {
		cur, err := GetCurrency("btc")
		require.NoError(t, err)
		assert.Equal(t, "BTC", cur.Code)
		assert.Equal(t, KindCrypto, cur.Kind)
	})

	t.Run("unknown code is a distinct class from malformed", func(t *testing.T) {
		_, err := GetCurrency("XYZ")
		var notFound *errs.CurrencyNotFoundError
		require.Error(t, err)
		assert.True(t, errors.As(err, &notFound))
		assert.Equal(t, "XYZ", notFound.Code)

		_, err = GetCurrency("X")
		var invalid *errs.InvalidCurrencyCodeError
		require.Error(t, err)
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestCurrencyDisplayInfo(t *testing.T) {
	fiat, err := GetCurrency("USD")
	require.NoError(t, err)
	assert.Equal(t, "[FIAT] USD - US Dollar (Issuing: United States)", fiat.DisplayInfo())

	crypto, err := GetCurrency("BTC")
	require.NoError(t, err)
	assert.Contains(t, crypto.DisplayInfo(), "[CRYPTO] BTC - Bitcoin")
	assert.Contains(t, crypto.DisplayInfo(), "SHA-256")
}

func TestCurrenciesSorted(t *testing.T) {
	list := Currencies()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Code, list[i].Code)
	}
}
