package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CommodityID identifies a commodity. Zero means none.
type CommodityID int64

// CommodityCreate is a commodity that has not been stored yet.
type CommodityCreate struct {
	Name        string
	Prefix      bool // render the name before the amount
	Description string
}

// Validate checks the commodity is well-formed.
func (c CommodityCreate) Validate() error {
	return requireName("name", c.Name)
}

// Commodity is a unit of value (currency, shares, points) amounts are denominated in.
type Commodity struct {
	ID          CommodityID
	Name        string
	Prefix      bool
	Description string
}

// Format renders an amount with the commodity name on the configured side.
// "USD" with Prefix: "USD -150.00"; without: "-150.00 USD".
func (c Commodity) Format(amount decimal.Decimal) string {
	if c.Prefix {
		return c.Name + " " + FormatAmount(amount)
	}
	return FormatAmount(amount) + " " + c.Name
}

// FormatAmount renders amount with at least two decimal places and no
// trailing zeros beyond them.
func FormatAmount(amount decimal.Decimal) string {
	places := int32(2)
	if s := amount.String(); strings.Contains(s, ".") {
		if frac := int32(len(s) - strings.Index(s, ".") - 1); frac > places {
			places = frac
		}
	}
	return amount.StringFixed(places)
}
