package ledger

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledge-dev/ledge/internal/model"
)

const (
	usd model.CommodityID = 1
	cad model.CommodityID = 2
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func split(amount string, commodity model.CommodityID, account model.AccountID) model.SplitCreate {
	return model.SplitCreate{Amount: dec(amount), CommodityID: commodity, AccountID: account}
}

func TestValidateBalance_Balanced(t *testing.T) {
	err := ValidateBalance([]model.SplitCreate{
		split("-150.00", usd, 1),
		split("150.00", usd, 2),
	})
	assert.NoError(t, err)
}

func TestValidateBalance_Unbalanced(t *testing.T) {
	err := ValidateBalance([]model.SplitCreate{
		split("-150.00", usd, 1),
		split("140.00", usd, 2),
	})
	var ie *ImbalanceError
	require.ErrorAs(t, err, &ie)
	require.Len(t, ie.Residuals, 1)
	assert.True(t, ie.Residuals[usd].Equal(dec("-10.00")), "residual = %s", ie.Residuals[usd])
	assert.Contains(t, err.Error(), "commodity 1 off by -10")
}

func TestValidateBalance_SingleSplit(t *testing.T) {
	// A lone zero split sums to zero but is still not a double entry.
	err := ValidateBalance([]model.SplitCreate{split("0", usd, 1)})
	var ie *ImbalanceError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.Splits)
	assert.Empty(t, ie.Residuals)
	assert.Contains(t, err.Error(), "need at least 2 splits")
}

func TestValidateBalance_Empty(t *testing.T) {
	var ie *ImbalanceError
	require.ErrorAs(t, ValidateBalance(nil), &ie)
	assert.Equal(t, 0, ie.Splits)
}

func TestValidateBalance_PerCommodity(t *testing.T) {
	// USD balances, CAD does not; totals across commodities are never mixed.
	err := ValidateBalance([]model.SplitCreate{
		split("-100", usd, 1),
		split("100", usd, 2),
		split("-20", cad, 1),
		split("100", cad, 3),
	})
	var ie *ImbalanceError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []model.CommodityID{cad}, ie.Commodities())
	assert.True(t, ie.Residuals[cad].Equal(dec("80")))

	// Opposite-signed amounts in different commodities do not cancel.
	err = ValidateBalance([]model.SplitCreate{
		split("-5", usd, 1),
		split("5", cad, 2),
	})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []model.CommodityID{usd, cad}, ie.Commodities())
}

func TestValidateBalance_ExactDecimals(t *testing.T) {
	// 0.1 + 0.2 - 0.3 is not zero in binary floating point.
	err := ValidateBalance([]model.SplitCreate{
		split("0.1", usd, 1),
		split("0.2", usd, 1),
		split("-0.3", usd, 2),
	})
	assert.NoError(t, err)
}

func TestValidateBalance_MultiSplit(t *testing.T) {
	err := ValidateBalance([]model.SplitCreate{
		split("60.00", usd, 5),
		split("40.00", usd, 6),
		split("-100.00", usd, 1),
	})
	assert.NoError(t, err)
}

// TestValidateBalance_Property checks on generated inputs that validation
// succeeds iff there are at least two splits and every commodity nets to zero.
func TestValidateBalance_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(6)
		splits := make([]model.SplitCreate, 0, n+1)
		totals := map[model.CommodityID]int64{}
		for j := 0; j < n; j++ {
			c := model.CommodityID(rng.Intn(3) + 1)
			cents := rng.Int63n(20001) - 10000
			splits = append(splits, model.SplitCreate{
				Amount:      decimal.New(cents, -2),
				CommodityID: c,
				AccountID:   model.AccountID(j + 1),
			})
			totals[c] += cents
		}
		// Half the time, add balancing splits so the positive case is well covered.
		if rng.Intn(2) == 0 {
			for c, cents := range totals {
				if cents != 0 {
					splits = append(splits, model.SplitCreate{Amount: decimal.New(-cents, -2), CommodityID: c, AccountID: 99})
					totals[c] = 0
				}
			}
		}

		balanced := true
		for _, cents := range totals {
			if cents != 0 {
				balanced = false
			}
		}
		want := balanced && len(splits) >= 2

		err := ValidateBalance(splits)
		assert.Equal(t, want, err == nil, "case %d: splits=%v err=%v", i, splits, err)
	}
}
