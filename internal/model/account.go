package model

import (
	"fmt"
	"time"
)

// AccountID identifies an account. Zero means none.
type AccountID int64

// StatusID identifies a single account status transition.
type StatusID int64

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeIncome    AccountType = "income"
	AccountTypeEquity    AccountType = "equity"
)

// AccountTypes lists every valid account type in display order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeExpense,
	AccountTypeIncome,
	AccountTypeEquity,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// StatusKind is the lifecycle event recorded for an account.
type StatusKind string

const (
	StatusOpen  StatusKind = "open"
	StatusClose StatusKind = "close"
)

// Valid reports whether k is open or close.
func (k StatusKind) Valid() bool {
	return k == StatusOpen || k == StatusClose
}

// AccountCreate is an account that has not been opened yet.
type AccountCreate struct {
	Name        string
	Description string
	Type        AccountType
	CommodityID CommodityID // 0 = no default commodity
}

// Validate checks the account is well-formed.
func (a AccountCreate) Validate() error {
	if err := requireName("name", a.Name); err != nil {
		return err
	}
	if !a.Type.Valid() {
		return &FieldError{Field: "type", Reason: fmt.Sprintf("unknown account type %q", a.Type)}
	}
	return nil
}

// Account is a stored account. Open mirrors the most recent status entry.
type Account struct {
	ID          AccountID
	Name        string
	Description string
	Type        AccountType
	Commodity   *Commodity
	Open        bool
}

// AccountStatus is one entry in an account's append-only status history.
type AccountStatus struct {
	ID        StatusID
	AccountID AccountID
	Date      time.Time
	Status    StatusKind
}

// Validate checks the status entry is well-formed.
func (s AccountStatus) Validate() error {
	if s.AccountID == 0 {
		return &FieldError{Field: "account_id", Reason: "must reference an account"}
	}
	if !s.Status.Valid() {
		return &FieldError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s.Status)}
	}
	if s.Date.IsZero() {
		return &FieldError{Field: "date", Reason: "must be set"}
	}
	return nil
}
