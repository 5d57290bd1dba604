package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledge-dev/ledge/internal/ledger"
	"github.com/ledge-dev/ledge/internal/model"
)

// splitArg is one parsed --split value.
type splitArg struct {
	Account   string
	Amount    decimal.Decimal
	Commodity string // empty: use the account's default commodity
}

// parseSplit parses "ACCOUNT=AMOUNT [COMMODITY]". The commodity may come
// before or after the amount, so both "-150.00 USD" and "USD -150.00" work.
func parseSplit(s string) (splitArg, error) {
	account, amountText, ok := strings.Cut(s, "=")
	account = strings.TrimSpace(account)
	if !ok || account == "" {
		return splitArg{}, fmt.Errorf("split %q: want ACCOUNT=AMOUNT [COMMODITY]", s)
	}

	amount, commodity, err := parseAmount(amountText)
	if err != nil {
		return splitArg{}, fmt.Errorf("split %q: %w", s, err)
	}
	return splitArg{Account: account, Amount: amount, Commodity: commodity}, nil
}

func parseAmount(text string) (decimal.Decimal, string, error) {
	fields := strings.Fields(text)
	switch len(fields) {
	case 1:
		amt, err := decimal.NewFromString(fields[0])
		if err != nil {
			return decimal.Decimal{}, "", fmt.Errorf("invalid amount %q", fields[0])
		}
		return amt, "", nil
	case 2:
		if amt, err := decimal.NewFromString(fields[0]); err == nil {
			return amt, fields[1], nil
		}
		if amt, err := decimal.NewFromString(fields[1]); err == nil {
			return amt, fields[0], nil
		}
		return decimal.Decimal{}, "", fmt.Errorf("no amount in %q", text)
	default:
		return decimal.Decimal{}, "", fmt.Errorf("want AMOUNT [COMMODITY], got %q", strings.TrimSpace(text))
	}
}

// resolveAccount finds an account by exact name, then by numeric id.
func resolveAccount(ctx context.Context, svc *ledger.Service, ref string) (model.Account, error) {
	matches, err := svc.GetAccountByName(ctx, ref)
	if err != nil {
		return model.Account{}, err
	}
	for _, a := range matches {
		if a.Name == ref {
			return a, nil
		}
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		a, err := svc.GetAccountByID(ctx, model.AccountID(id))
		if err != nil {
			return model.Account{}, err
		}
		if a != nil {
			return *a, nil
		}
	}
	return model.Account{}, fmt.Errorf("no account named %q", ref)
}

// resolveCommodity finds a commodity by name, ignoring case.
func resolveCommodity(ctx context.Context, svc *ledger.Service, name string) (model.Commodity, error) {
	cs, err := svc.GetCommodities(ctx)
	if err != nil {
		return model.Commodity{}, err
	}
	for _, c := range cs {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return model.Commodity{}, fmt.Errorf("no commodity named %q", name)
}
