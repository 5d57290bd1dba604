package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledge-dev/ledge/internal/model"
)

// AddTransaction inserts the transaction and its splits in one database
// transaction. Splits are inserted in input order, so ascending split ids
// reproduce it.
func (s *Store) AddTransaction(ctx context.Context, t model.TransactionCreate) (model.Transaction, error) {
	db, err := s.session(ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	rec := transactionRecord{Date: day(t.Date), Description: t.Description, Notes: t.Notes}
	splits := make([]splitRecord, len(t.Splits))

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}
		for i, sp := range t.Splits {
			splits[i] = splitRecord{
				Amount:        amount{sp.Amount},
				CommodityID:   int64(sp.CommodityID),
				AccountID:     int64(sp.AccountID),
				TransactionID: rec.ID,
			}
			if err := tx.Omit(clause.Associations).Create(&splits[i]).Error; err != nil {
				return fmt.Errorf("inserting split %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}

	txn := transactionModel(rec)
	for _, sp := range splits {
		txn.Splits = append(txn.Splits, sp.toModel())
	}
	return txn, nil
}

// GetTransactions returns every transaction with a split against the account,
// newest first and in insertion order within a date. Each carries all of its
// splits, not only those touching the account.
func (s *Store) GetTransactions(ctx context.Context, id model.AccountID) ([]model.Transaction, error) {
	db, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	touching := db.Session(&gorm.Session{NewDB: true}).
		Model(&splitRecord{}).
		Select("transaction_id").
		Where("account_id = ?", int64(id))

	var recs []transactionRecord
	err = db.Where("id IN (?)", touching).
		Order("date DESC").Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("selecting transactions: %w", err)
	}
	if len(recs) == 0 {
		return []model.Transaction{}, nil
	}

	ids := make([]int64, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	var splits []splitRecord
	if err := db.Where("transaction_id IN ?", ids).Order("id").Find(&splits).Error; err != nil {
		return nil, fmt.Errorf("selecting splits: %w", err)
	}

	byTxn := make(map[int64][]model.Split, len(recs))
	for _, sp := range splits {
		byTxn[sp.TransactionID] = append(byTxn[sp.TransactionID], sp.toModel())
	}

	out := make([]model.Transaction, len(recs))
	for i, r := range recs {
		out[i] = transactionModel(r)
		out[i].Splits = byTxn[r.ID]
	}
	return out, nil
}

func transactionModel(r transactionRecord) model.Transaction {
	return model.Transaction{
		ID:          model.TransactionID(r.ID),
		Date:        r.Date.UTC(),
		Description: r.Description,
		Notes:       r.Notes,
	}
}
