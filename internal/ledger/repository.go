package ledger

import (
	"context"
	"time"

	"github.com/ledge-dev/ledge/internal/model"
)

// Repository is the storage contract the Service depends on.
//
// Lookups of a single row return nil without error when the row is absent.
// OpenAccount, SetAccountStatus and AddTransaction each write several rows and
// must commit them in one atomic unit: either every row is visible afterwards
// or none is.
type Repository interface {
	AddCommodity(ctx context.Context, c model.CommodityCreate) (model.Commodity, error)
	GetCommodity(ctx context.Context, id model.CommodityID) (*model.Commodity, error)
	GetCommodities(ctx context.Context) ([]model.Commodity, error)

	// OpenAccount inserts the account and its first "open" status dated openDate.
	OpenAccount(ctx context.Context, a model.AccountCreate, openDate time.Time) (model.Account, error)
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetAccountByID(ctx context.Context, id model.AccountID) (*model.Account, error)
	// GetAccountByName matches name substrings case-insensitively.
	GetAccountByName(ctx context.Context, substring string) ([]model.Account, error)

	// SetAccountStatus appends a status entry and refreshes the account's open flag
	// from its latest entry.
	SetAccountStatus(ctx context.Context, s model.AccountStatus) (model.AccountStatus, error)
	// GetStatusByAccount returns the history newest first.
	GetStatusByAccount(ctx context.Context, id model.AccountID) ([]model.AccountStatus, error)

	// GetTransactions returns every transaction touching the account with all of
	// its splits, newest first and in insertion order within a date.
	GetTransactions(ctx context.Context, id model.AccountID) ([]model.Transaction, error)
	// AddTransaction inserts the transaction and all splits, preserving split order.
	AddTransaction(ctx context.Context, t model.TransactionCreate) (model.Transaction, error)

	// Close releases the session. It is safe to call more than once.
	Close() error
}
