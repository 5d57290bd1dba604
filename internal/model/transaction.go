package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionID identifies a transaction.
type TransactionID int64

// SplitID identifies a split.
type SplitID int64

// SplitCreate is one proposed leg of a transaction.
type SplitCreate struct {
	Amount      decimal.Decimal // signed
	CommodityID CommodityID
	AccountID   AccountID
}

// Split is a stored leg, owned by exactly one transaction.
type Split struct {
	ID            SplitID
	Amount        decimal.Decimal
	CommodityID   CommodityID
	AccountID     AccountID
	TransactionID TransactionID
}

// MaxScale is the most decimal places an amount may carry. Fixed-scale
// columns would otherwise round a balanced set of splits out of balance.
const MaxScale = 12

// TransactionCreate is a transaction and its splits before they are stored.
type TransactionCreate struct {
	Date        time.Time
	Description string
	Notes       string
	Splits      []SplitCreate
}

// Validate checks structure only. Balancing is the ledger's job.
func (t TransactionCreate) Validate() error {
	if t.Date.IsZero() {
		return &FieldError{Field: "date", Reason: "must be set"}
	}
	for i, s := range t.Splits {
		if s.AccountID == 0 {
			return &FieldError{Field: fmt.Sprintf("splits[%d].account_id", i), Reason: "must reference an account"}
		}
		if s.CommodityID == 0 {
			return &FieldError{Field: fmt.Sprintf("splits[%d].commodity_id", i), Reason: "must reference a commodity"}
		}
		if !s.Amount.Equal(s.Amount.Round(MaxScale)) {
			return &FieldError{Field: fmt.Sprintf("splits[%d].amount", i), Reason: fmt.Sprintf("more than %d decimal places", MaxScale)}
		}
	}
	return nil
}

// Transaction is a stored transaction with its splits in insertion order.
type Transaction struct {
	ID          TransactionID
	Date        time.Time
	Description string
	Notes       string
	Splits      []Split
}
