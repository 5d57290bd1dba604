package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledge-dev/ledge/internal/model"
)

// AddCommodity inserts a commodity.
func (s *Store) AddCommodity(ctx context.Context, c model.CommodityCreate) (model.Commodity, error) {
	db, err := s.session(ctx)
	if err != nil {
		return model.Commodity{}, err
	}

	rec := commodityRecord{Name: c.Name, Prefix: c.Prefix, Description: c.Description}
	if err := db.Create(&rec).Error; err != nil {
		return model.Commodity{}, fmt.Errorf("inserting commodity: %w", err)
	}
	return rec.toModel(), nil
}

// GetCommodity returns the commodity with id, or nil if there is none.
func (s *Store) GetCommodity(ctx context.Context, id model.CommodityID) (*model.Commodity, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var rec commodityRecord
	err = db.First(&rec, int64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting commodity %d: %w", id, err)
	}
	c := rec.toModel()
	return &c, nil
}

// GetCommodities returns every commodity by id.
func (s *Store) GetCommodities(ctx context.Context) ([]model.Commodity, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var recs []commodityRecord
	if err := db.Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("selecting commodities: %w", err)
	}
	out := make([]model.Commodity, len(recs))
	for i, r := range recs {
		out[i] = r.toModel()
	}
	return out, nil
}

// OpenAccount inserts the account and its first open status in one
// database transaction.
func (s *Store) OpenAccount(ctx context.Context, a model.AccountCreate, openDate time.Time) (model.Account, error) {
	db, err := s.session(ctx)
	if err != nil {
		return model.Account{}, err
	}

	rec := accountRecord{
		Name:        a.Name,
		Description: a.Description,
		Type:        string(a.Type),
		Open:        true,
	}
	if a.CommodityID != 0 {
		id := int64(a.CommodityID)
		rec.CommodityID = &id
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting account: %w", err)
		}
		status := statusRecord{AccountID: rec.ID, Date: day(openDate), Status: string(model.StatusOpen)}
		if err := tx.Omit(clause.Associations).Create(&status).Error; err != nil {
			return fmt.Errorf("inserting open status: %w", err)
		}
		if rec.CommodityID != nil {
			var c commodityRecord
			if err := tx.First(&c, *rec.CommodityID).Error; err != nil {
				return fmt.Errorf("selecting account commodity: %w", err)
			}
			rec.Commodity = &c
		}
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return rec.toModel(), nil
}

// GetAccounts returns every account by id.
func (s *Store) GetAccounts(ctx context.Context) ([]model.Account, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var recs []accountRecord
	if err := db.Preload("Commodity").Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("selecting accounts: %w", err)
	}
	return accountModels(recs), nil
}

// GetAccountByID returns the account with id, or nil if there is none.
func (s *Store) GetAccountByID(ctx context.Context, id model.AccountID) (*model.Account, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var rec accountRecord
	err = db.Preload("Commodity").First(&rec, int64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting account %d: %w", id, err)
	}
	a := rec.toModel()
	return &a, nil
}

// GetAccountByName returns accounts whose name contains substring, ignoring case.
// LIKE wildcards in substring are not escaped.
func (s *Store) GetAccountByName(ctx context.Context, substring string) ([]model.Account, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var recs []accountRecord
	err = db.Preload("Commodity").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(substring)+"%").
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("searching accounts: %w", err)
	}
	return accountModels(recs), nil
}

// SetAccountStatus appends a status entry and refreshes the account's open
// flag from its latest entry, in one database transaction.
func (s *Store) SetAccountStatus(ctx context.Context, st model.AccountStatus) (model.AccountStatus, error) {
	db, err := s.session(ctx)
	if err != nil {
		return model.AccountStatus{}, err
	}

	rec := statusRecord{AccountID: int64(st.AccountID), Date: day(st.Date), Status: string(st.Status)}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting status: %w", err)
		}

		var latest statusRecord
		err := tx.Where("account_id = ?", rec.AccountID).
			Order("date DESC").Order("id DESC").
			First(&latest).Error
		if err != nil {
			return fmt.Errorf("selecting latest status: %w", err)
		}

		err = tx.Model(&accountRecord{}).
			Where("id = ?", rec.AccountID).
			Update("open", latest.Status == string(model.StatusOpen)).Error
		if err != nil {
			return fmt.Errorf("updating open flag: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.AccountStatus{}, err
	}
	return rec.toModel(), nil
}

// GetStatusByAccount returns an account's status history, newest first.
func (s *Store) GetStatusByAccount(ctx context.Context, id model.AccountID) ([]model.AccountStatus, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var recs []statusRecord
	err = db.Where("account_id = ?", int64(id)).
		Order("date DESC").Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("selecting statuses: %w", err)
	}
	out := make([]model.AccountStatus, len(recs))
	for i, r := range recs {
		out[i] = r.toModel()
	}
	return out, nil
}

func accountModels(recs []accountRecord) []model.Account {
	out := make([]model.Account, len(recs))
	for i, r := range recs {
		out[i] = r.toModel()
	}
	return out
}
