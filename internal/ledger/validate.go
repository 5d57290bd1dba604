package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ledge-dev/ledge/internal/model"
)

// MinSplits is the fewest splits a transaction may have.
const MinSplits = 2

// ValidateBalance checks that splits form a balanced double entry: at least
// two splits, and for every commodity the signed amounts sum to exactly zero.
// It returns *ImbalanceError otherwise.
func ValidateBalance(splits []model.SplitCreate) error {
	totals := make(map[model.CommodityID]decimal.Decimal)
	for _, s := range splits {
		totals[s.CommodityID] = totals[s.CommodityID].Add(s.Amount)
	}

	residuals := make(map[model.CommodityID]decimal.Decimal)
	for id, total := range totals {
		if !total.IsZero() {
			residuals[id] = total
		}
	}

	if len(splits) < MinSplits || len(residuals) > 0 {
		return &ImbalanceError{Splits: len(splits), Residuals: residuals}
	}
	return nil
}
