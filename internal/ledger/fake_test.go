package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ledge-dev/ledge/internal/model"
)

// memRepo is an in-memory Repository. Each write applies all of its rows or
// none of them; the fail* fields inject errors before anything is applied.
type memRepo struct {
	commodities  []model.Commodity
	accounts     []model.Account
	statuses     []model.AccountStatus
	transactions []model.Transaction

	nextID int64
	writes int
	closed int

	failAddTransaction error
	failOpenAccount    error
	failSetStatus      error
	failRead           error
}

func newMemRepo() *memRepo {
	return &memRepo{}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) AddCommodity(_ context.Context, c model.CommodityCreate) (model.Commodity, error) {
	m.writes++
	stored := model.Commodity{ID: model.CommodityID(m.id()), Name: c.Name, Prefix: c.Prefix, Description: c.Description}
	m.commodities = append(m.commodities, stored)
	return stored, nil
}

func (m *memRepo) GetCommodity(_ context.Context, id model.CommodityID) (*model.Commodity, error) {
	if m.failRead != nil {
		return nil, m.failRead
	}
	for _, c := range m.commodities {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memRepo) GetCommodities(_ context.Context) ([]model.Commodity, error) {
	return append([]model.Commodity(nil), m.commodities...), nil
}

func (m *memRepo) OpenAccount(ctx context.Context, a model.AccountCreate, openDate time.Time) (model.Account, error) {
	m.writes++
	if m.failOpenAccount != nil {
		return model.Account{}, m.failOpenAccount
	}
	acct := model.Account{ID: model.AccountID(m.id()), Name: a.Name, Description: a.Description, Type: a.Type, Open: true}
	if a.CommodityID != 0 {
		acct.Commodity, _ = m.GetCommodity(ctx, a.CommodityID)
	}
	m.accounts = append(m.accounts, acct)
	m.statuses = append(m.statuses, model.AccountStatus{
		ID: model.StatusID(m.id()), AccountID: acct.ID, Date: openDate, Status: model.StatusOpen,
	})
	return acct, nil
}

func (m *memRepo) GetAccounts(_ context.Context) ([]model.Account, error) {
	if m.failRead != nil {
		return nil, m.failRead
	}
	return append([]model.Account(nil), m.accounts...), nil
}

func (m *memRepo) GetAccountByID(_ context.Context, id model.AccountID) (*model.Account, error) {
	if m.failRead != nil {
		return nil, m.failRead
	}
	for _, a := range m.accounts {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memRepo) GetAccountByName(_ context.Context, substring string) ([]model.Account, error) {
	var out []model.Account
	for _, a := range m.accounts {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(substring)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) SetAccountStatus(ctx context.Context, s model.AccountStatus) (model.AccountStatus, error) {
	m.writes++
	if m.failSetStatus != nil {
		return model.AccountStatus{}, m.failSetStatus
	}
	s.ID = model.StatusID(m.id())
	m.statuses = append(m.statuses, s)

	history, _ := m.GetStatusByAccount(ctx, s.AccountID)
	for i := range m.accounts {
		if m.accounts[i].ID == s.AccountID {
			m.accounts[i].Open = history[0].Status == model.StatusOpen
		}
	}
	return s, nil
}

func (m *memRepo) GetStatusByAccount(_ context.Context, id model.AccountID) ([]model.AccountStatus, error) {
	var out []model.AccountStatus
	for _, s := range m.statuses {
		if s.AccountID == id {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memRepo) GetTransactions(_ context.Context, id model.AccountID) ([]model.Transaction, error) {
	if m.failRead != nil {
		return nil, m.failRead
	}
	var out []model.Transaction
	for _, t := range m.transactions {
		for _, s := range t.Splits {
			if s.AccountID == id {
				out = append(out, t)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memRepo) AddTransaction(_ context.Context, t model.TransactionCreate) (model.Transaction, error) {
	m.writes++
	if m.failAddTransaction != nil {
		return model.Transaction{}, m.failAddTransaction
	}
	txn := model.Transaction{ID: model.TransactionID(m.id()), Date: t.Date, Description: t.Description, Notes: t.Notes}
	for _, s := range t.Splits {
		txn.Splits = append(txn.Splits, model.Split{
			ID:            model.SplitID(m.id()),
			Amount:        s.Amount,
			CommodityID:   s.CommodityID,
			AccountID:     s.AccountID,
			TransactionID: txn.ID,
		})
	}
	m.transactions = append(m.transactions, txn)
	return txn, nil
}

func (m *memRepo) Close() error {
	m.closed++
	return nil
}
