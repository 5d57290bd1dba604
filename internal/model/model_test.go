package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommodityCreateValidate(t *testing.T) {
	assert.NoError(t, CommodityCreate{Name: "USD"}.Validate())

	err := CommodityCreate{Name: "  "}.Validate()
	require.Error(t, err)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "name", fe.Field)
}

func TestCommodityFormat(t *testing.T) {
	amt := decimal.RequireFromString("-150.00")

	tests := []struct {
		commodity Commodity
		want      string
	}{
		{Commodity{Name: "USD"}, "-150.00 USD"},
		{Commodity{Name: "$", Prefix: true}, "$ -150.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.commodity.Format(amt), "Format(%q)", tt.commodity.Name)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[string]string{
		"150":     "150.00",
		"-150.5":  "-150.50",
		"0.125":   "0.125",
		"12.3400": "12.34",
		"0":       "0.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in)), in)
	}
}

func TestAccountType(t *testing.T) {
	for _, at := range AccountTypes {
		assert.True(t, at.Valid(), "%s should be valid", at)
	}
	assert.False(t, AccountType("revenue").Valid())
	assert.False(t, AccountType("").Valid())
}

func TestAccountCreateValidate(t *testing.T) {
	tests := []struct {
		name  string
		acct  AccountCreate
		field string
	}{
		{"valid", AccountCreate{Name: "assets:cash", Type: AccountTypeAsset}, ""},
		{"empty name", AccountCreate{Name: "", Type: AccountTypeAsset}, "name"},
		{"bad type", AccountCreate{Name: "assets:cash", Type: "stuff"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acct.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestAccountStatusValidate(t *testing.T) {
	when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, AccountStatus{AccountID: 1, Date: when, Status: StatusClose}.Validate())

	var fe *FieldError
	require.ErrorAs(t, AccountStatus{Date: when, Status: StatusOpen}.Validate(), &fe)
	assert.Equal(t, "account_id", fe.Field)
	require.ErrorAs(t, AccountStatus{AccountID: 1, Date: when, Status: "frozen"}.Validate(), &fe)
	assert.Equal(t, "status", fe.Field)
	require.ErrorAs(t, AccountStatus{AccountID: 1, Status: StatusOpen}.Validate(), &fe)
	assert.Equal(t, "date", fe.Field)
}

func TestTransactionCreateValidate(t *testing.T) {
	when := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	ok := TransactionCreate{
		Date:        when,
		Description: "groceries",
		Splits: []SplitCreate{
			{Amount: decimal.RequireFromString("-150.00"), CommodityID: 1, AccountID: 1},
			{Amount: decimal.RequireFromString("150.00"), CommodityID: 1, AccountID: 2},
		},
	}
	assert.NoError(t, ok.Validate())

	noDate := ok
	noDate.Date = time.Time{}
	var fe *FieldError
	require.ErrorAs(t, noDate.Validate(), &fe)
	assert.Equal(t, "date", fe.Field)

	badSplit := ok
	badSplit.Splits = []SplitCreate{ok.Splits[0], {Amount: decimal.NewFromInt(150), CommodityID: 1}}
	require.ErrorAs(t, badSplit.Validate(), &fe)
	assert.Equal(t, "splits[1].account_id", fe.Field)

	noCommodity := ok
	noCommodity.Splits = []SplitCreate{{Amount: decimal.NewFromInt(1), AccountID: 1}}
	require.ErrorAs(t, noCommodity.Validate(), &fe)
	assert.Equal(t, "splits[0].commodity_id", fe.Field)

	// Trailing zeros past the scale are harmless.
	padded := ok
	padded.Splits = []SplitCreate{
		{Amount: decimal.RequireFromString("-150.000000000000000"), CommodityID: 1, AccountID: 1},
		ok.Splits[1],
	}
	assert.NoError(t, padded.Validate())

	tooPrecise := ok
	tooPrecise.Splits = []SplitCreate{
		ok.Splits[0],
		{Amount: decimal.RequireFromString("150.0000000000001"), CommodityID: 1, AccountID: 2},
	}
	require.ErrorAs(t, tooPrecise.Validate(), &fe)
	assert.Equal(t, "splits[1].amount", fe.Field)
}
