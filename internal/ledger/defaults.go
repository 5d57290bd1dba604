package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ledge-dev/ledge/internal/model"
)

// DefaultCommodity is the commodity created by Seed.
var DefaultCommodity = model.CommodityCreate{Name: "USD", Description: "US Dollar"}

// DefaultChart returns the starter chart of accounts for a personal ledger.
func DefaultChart() []model.AccountCreate {
	return []model.AccountCreate{
		{Name: "assets:checking", Type: model.AccountTypeAsset, Description: "Primary checking account"},
		{Name: "assets:cash", Type: model.AccountTypeAsset, Description: "Wallet"},
		{Name: "liabilities:credit-card", Type: model.AccountTypeLiability},
		{Name: "equity:opening-balances", Type: model.AccountTypeEquity},
		{Name: "income:salary", Type: model.AccountTypeIncome},
		{Name: "expense:groceries", Type: model.AccountTypeExpense},
	}
}

// Seed adds DefaultCommodity and opens DefaultChart on date, each account
// defaulting to the new commodity.
func (s *Service) Seed(ctx context.Context, date time.Time) ([]model.Account, error) {
	usd, err := s.AddCommodity(ctx, DefaultCommodity)
	if err != nil {
		return nil, fmt.Errorf("seeding commodity: %w", err)
	}

	chart := DefaultChart()
	opened := make([]model.Account, 0, len(chart))
	for _, a := range chart {
		a.CommodityID = usd.ID
		acct, err := s.OpenAccount(ctx, a, date)
		if err != nil {
			return opened, fmt.Errorf("seeding account %s: %w", a.Name, err)
		}
		opened = append(opened, acct)
	}
	return opened, nil
}
