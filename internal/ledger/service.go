package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ledge-dev/ledge/internal/model"
)

// Service is the only place validation and persistence meet. It holds one
// repository session and is not safe for concurrent use; open one Service
// per session instead.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a ledger Service over repo. A nil logger disables logging.
func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log.Named("ledger")}
}

// Close releases the underlying repository session.
func (s *Service) Close() error {
	return s.repo.Close()
}

// AddCommodity validates and stores a new commodity. Names are unique
// ignoring case.
func (s *Service) AddCommodity(ctx context.Context, c model.CommodityCreate) (model.Commodity, error) {
	const op = "add commodity"
	if err := c.Validate(); err != nil {
		return model.Commodity{}, s.rejected(op, err)
	}
	existing, err := s.repo.GetCommodities(ctx)
	if err != nil {
		return model.Commodity{}, &PersistenceError{Op: op, Err: err}
	}
	for _, e := range existing {
		if strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(c.Name)) {
			return model.Commodity{}, s.rejected(op, &model.FieldError{Field: "name", Reason: fmt.Sprintf("commodity %q already exists", e.Name)})
		}
	}

	stored, err := s.repo.AddCommodity(ctx, c)
	if err != nil {
		return model.Commodity{}, s.failed(op, err)
	}

	s.log.Info("commodity added", zap.Int64("commodity_id", int64(stored.ID)), zap.String("name", stored.Name))
	return stored, nil
}

// GetCommodity returns the commodity with id, or nil if there is none.
func (s *Service) GetCommodity(ctx context.Context, id model.CommodityID) (*model.Commodity, error) {
	c, err := s.repo.GetCommodity(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get commodity", Err: err}
	}
	return c, nil
}

// GetCommodities returns every commodity.
func (s *Service) GetCommodities(ctx context.Context) ([]model.Commodity, error) {
	cs, err := s.repo.GetCommodities(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "get commodities", Err: err}
	}
	return cs, nil
}

// OpenAccount creates an account together with its initial open status dated
// openDate. Both rows are committed together or not at all.
func (s *Service) OpenAccount(ctx context.Context, a model.AccountCreate, openDate time.Time) (model.Account, error) {
	const op = "open account"
	if err := a.Validate(); err != nil {
		return model.Account{}, s.rejected(op, err)
	}
	if openDate.IsZero() {
		return model.Account{}, s.rejected(op, &model.FieldError{Field: "open_date", Reason: "must be set"})
	}
	if a.CommodityID != 0 {
		if err := s.requireCommodity(ctx, op, a.CommodityID); err != nil {
			return model.Account{}, err
		}
	}

	acct, err := s.repo.OpenAccount(ctx, a, openDate)
	if err != nil {
		return model.Account{}, s.failed(op, err)
	}

	s.log.Info("account opened",
		zap.Int64("account_id", int64(acct.ID)),
		zap.String("name", acct.Name),
		zap.String("type", string(acct.Type)),
		zap.Time("date", openDate),
	)
	return acct, nil
}

// SetAccountStatus appends a status entry for an existing account. Dates are
// not checked against earlier entries, so history may be backfilled.
func (s *Service) SetAccountStatus(ctx context.Context, st model.AccountStatus) (model.AccountStatus, error) {
	const op = "set account status"
	if err := st.Validate(); err != nil {
		return model.AccountStatus{}, s.rejected(op, err)
	}
	if err := s.requireAccount(ctx, op, st.AccountID); err != nil {
		return model.AccountStatus{}, err
	}

	stored, err := s.repo.SetAccountStatus(ctx, st)
	if err != nil {
		return model.AccountStatus{}, s.failed(op, err)
	}

	s.log.Info("account status set",
		zap.Int64("account_id", int64(stored.AccountID)),
		zap.String("status", string(stored.Status)),
		zap.Time("date", stored.Date),
	)
	return stored, nil
}

// CloseAccount records a close entry for the account on date.
func (s *Service) CloseAccount(ctx context.Context, id model.AccountID, date time.Time) (model.AccountStatus, error) {
	return s.SetAccountStatus(ctx, model.AccountStatus{AccountID: id, Date: date, Status: model.StatusClose})
}

// ReopenAccount records an open entry for the account on date.
func (s *Service) ReopenAccount(ctx context.Context, id model.AccountID, date time.Time) (model.AccountStatus, error) {
	return s.SetAccountStatus(ctx, model.AccountStatus{AccountID: id, Date: date, Status: model.StatusOpen})
}

// GetStatusByAccount returns an account's status history, newest first.
func (s *Service) GetStatusByAccount(ctx context.Context, id model.AccountID) ([]model.AccountStatus, error) {
	const op = "get account status"
	if err := s.requireAccount(ctx, op, id); err != nil {
		return nil, err
	}
	sts, err := s.repo.GetStatusByAccount(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return sts, nil
}

// GetAccounts returns every account.
func (s *Service) GetAccounts(ctx context.Context) ([]model.Account, error) {
	accts, err := s.repo.GetAccounts(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "get accounts", Err: err}
	}
	return accts, nil
}

// GetAccountByID returns the account with id, or nil if there is none.
func (s *Service) GetAccountByID(ctx context.Context, id model.AccountID) (*model.Account, error) {
	a, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get account", Err: err}
	}
	return a, nil
}

// GetAccountByName returns accounts whose name contains substring, ignoring case.
func (s *Service) GetAccountByName(ctx context.Context, substring string) ([]model.Account, error) {
	accts, err := s.repo.GetAccountByName(ctx, substring)
	if err != nil {
		return nil, &PersistenceError{Op: "find accounts", Err: err}
	}
	return accts, nil
}

// AddTransaction balances and stores a transaction with its splits.
// Nothing is written unless the splits balance per commodity and every
// referenced account and commodity exists.
func (s *Service) AddTransaction(ctx context.Context, t model.TransactionCreate) (model.Transaction, error) {
	const op = "add transaction"
	if err := t.Validate(); err != nil {
		return model.Transaction{}, s.rejected(op, err)
	}
	if err := ValidateBalance(t.Splits); err != nil {
		return model.Transaction{}, s.rejected(op, err)
	}

	seenAccounts := make(map[model.AccountID]bool)
	seenCommodities := make(map[model.CommodityID]bool)
	for _, split := range t.Splits {
		if !seenAccounts[split.AccountID] {
			if err := s.requireAccount(ctx, op, split.AccountID); err != nil {
				return model.Transaction{}, err
			}
			seenAccounts[split.AccountID] = true
		}
		if !seenCommodities[split.CommodityID] {
			if err := s.requireCommodity(ctx, op, split.CommodityID); err != nil {
				return model.Transaction{}, err
			}
			seenCommodities[split.CommodityID] = true
		}
	}

	txn, err := s.repo.AddTransaction(ctx, t)
	if err != nil {
		return model.Transaction{}, s.failed(op, err)
	}

	s.log.Info("transaction added",
		zap.Int64("transaction_id", int64(txn.ID)),
		zap.Int("splits", len(txn.Splits)),
		zap.Time("date", txn.Date),
	)
	return txn, nil
}

// GetTransactions returns every transaction with at least one split against
// the account. Each transaction carries its complete split set.
func (s *Service) GetTransactions(ctx context.Context, id model.AccountID) ([]model.Transaction, error) {
	const op = "get transactions"
	if err := s.requireAccount(ctx, op, id); err != nil {
		return nil, err
	}
	txns, err := s.repo.GetTransactions(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return txns, nil
}

func (s *Service) requireAccount(ctx context.Context, op string, id model.AccountID) error {
	a, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	if a == nil {
		nf := &NotFoundError{Entity: "account", ID: int64(id)}
		s.log.Warn(op+" rejected", zap.Error(nf))
		return nf
	}
	return nil
}

func (s *Service) requireCommodity(ctx context.Context, op string, id model.CommodityID) error {
	c, err := s.repo.GetCommodity(ctx, id)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	if c == nil {
		nf := &NotFoundError{Entity: "commodity", ID: int64(id)}
		s.log.Warn(op+" rejected", zap.Error(nf))
		return nf
	}
	return nil
}

func (s *Service) rejected(op string, err error) error {
	s.log.Warn(op+" rejected", zap.Error(err))
	return &ValidationError{Op: op, Err: err}
}

func (s *Service) failed(op string, err error) error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	s.log.Error(op+" failed", zap.Error(err))
	return &PersistenceError{Op: op, Err: err}
}
