package store

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/ledge-dev/ledge/internal/model"
)

// amount stores a decimal exactly. SQLite gets a text column so numeric
// affinity never turns it into a float.
type amount struct {
	decimal.Decimal
}

func (amount) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "decimal(38,12)"
	case "postgres":
		return "numeric"
	default:
		return "text"
	}
}

type commodityRecord struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"not null;uniqueIndex"`
	Prefix      bool   `gorm:"not null"`
	Description string
}

func (commodityRecord) TableName() string { return "commodity" }

func (r commodityRecord) toModel() model.Commodity {
	return model.Commodity{
		ID:          model.CommodityID(r.ID),
		Name:        r.Name,
		Prefix:      r.Prefix,
		Description: r.Description,
	}
}

type accountRecord struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"not null;index"`
	Description string
	Type        string           `gorm:"not null"`
	CommodityID *int64           `gorm:"index"`
	Commodity   *commodityRecord `gorm:"foreignKey:CommodityID"`
	Open        bool             `gorm:"not null"`
}

func (accountRecord) TableName() string { return "accounts" }

func (r accountRecord) toModel() model.Account {
	a := model.Account{
		ID:          model.AccountID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		Type:        model.AccountType(r.Type),
		Open:        r.Open,
	}
	if r.Commodity != nil {
		c := r.Commodity.toModel()
		a.Commodity = &c
	}
	return a
}

type statusRecord struct {
	ID        int64          `gorm:"primaryKey"`
	AccountID int64          `gorm:"not null;index"`
	Account   *accountRecord `gorm:"foreignKey:AccountID"`
	Date      time.Time      `gorm:"not null;index"`
	Status    string         `gorm:"not null"`
}

func (statusRecord) TableName() string { return "account_statuses" }

func (r statusRecord) toModel() model.AccountStatus {
	return model.AccountStatus{
		ID:        model.StatusID(r.ID),
		AccountID: model.AccountID(r.AccountID),
		Date:      r.Date.UTC(),
		Status:    model.StatusKind(r.Status),
	}
}

type transactionRecord struct {
	ID          int64     `gorm:"primaryKey"`
	Date        time.Time `gorm:"not null;index"`
	Description string
	Notes       string
}

func (transactionRecord) TableName() string { return "transactions" }

type splitRecord struct {
	ID            int64              `gorm:"primaryKey"`
	Amount        amount             `gorm:"not null"`
	CommodityID   int64              `gorm:"not null;index"`
	Commodity     *commodityRecord   `gorm:"foreignKey:CommodityID"`
	AccountID     int64              `gorm:"not null;index"`
	Account       *accountRecord     `gorm:"foreignKey:AccountID"`
	TransactionID int64              `gorm:"not null;index"`
	Transaction   *transactionRecord `gorm:"foreignKey:TransactionID"`
}

func (splitRecord) TableName() string { return "splits" }

func (r splitRecord) toModel() model.Split {
	return model.Split{
		ID:            model.SplitID(r.ID),
		Amount:        r.Amount.Decimal,
		CommodityID:   model.CommodityID(r.CommodityID),
		AccountID:     model.AccountID(r.AccountID),
		TransactionID: model.TransactionID(r.TransactionID),
	}
}

// schemaModels lists the tables in dependency order.
var schemaModels = []any{
	&commodityRecord{},
	&accountRecord{},
	&statusRecord{},
	&transactionRecord{},
	&splitRecord{},
}

// day drops the clock so dates sort and compare as calendar days.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
