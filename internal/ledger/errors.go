package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledge-dev/ledge/internal/model"
)

// ErrNotFound matches any NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError is returned for input rejected before any write.
// It wraps either a *model.FieldError or an *ImbalanceError.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ImbalanceError reports splits that do not sum to zero per commodity,
// or a split set too small to be a double entry.
type ImbalanceError struct {
	Splits    int
	Residuals map[model.CommodityID]decimal.Decimal // non-zero totals only
}

func (e *ImbalanceError) Error() string {
	var parts []string
	if e.Splits < MinSplits {
		parts = append(parts, fmt.Sprintf("need at least %d splits, got %d", MinSplits, e.Splits))
	}
	if len(e.Residuals) > 0 {
		res := make([]string, 0, len(e.Residuals))
		for _, id := range e.Commodities() {
			res = append(res, fmt.Sprintf("commodity %d off by %s", id, e.Residuals[id]))
		}
		parts = append(parts, strings.Join(res, ", "))
	}
	return "transaction does not balance: " + strings.Join(parts, "; ")
}

// Commodities returns the unbalanced commodity ids in ascending order.
func (e *ImbalanceError) Commodities() []model.CommodityID {
	ids := make([]model.CommodityID, 0, len(e.Residuals))
	for id := range e.Residuals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NotFoundError reports a reference to an account or commodity that does not exist.
type NotFoundError struct {
	Entity string // "account" or "commodity"
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a failure from the repository. Multi-step writes
// that fail this way have been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
