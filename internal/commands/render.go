package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ledge-dev/ledge/internal/model"
)

// registerHeader is the CSV header for transaction list --format csv.
const registerHeader = "transaction_id,date,description,notes,split_id,account,amount,commodity"

// lookup resolves ids to display names for rendering.
type lookup struct {
	accounts    map[model.AccountID]model.Account
	commodities map[model.CommodityID]model.Commodity
}

func newLookup(accts []model.Account, cs []model.Commodity) lookup {
	l := lookup{
		accounts:    make(map[model.AccountID]model.Account, len(accts)),
		commodities: make(map[model.CommodityID]model.Commodity, len(cs)),
	}
	for _, a := range accts {
		l.accounts[a.ID] = a
	}
	for _, c := range cs {
		l.commodities[c.ID] = c
	}
	return l
}

func (l lookup) accountName(id model.AccountID) string {
	if a, ok := l.accounts[id]; ok {
		return a.Name
	}
	return "#" + strconv.FormatInt(int64(id), 10)
}

func (l lookup) commodity(id model.CommodityID) model.Commodity {
	if c, ok := l.commodities[id]; ok {
		return c
	}
	return model.Commodity{ID: id, Name: "#" + strconv.FormatInt(int64(id), 10)}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func accountState(a model.Account) string {
	if a.Open {
		return "open"
	}
	return "closed"
}

func writeAccounts(w io.Writer, accts []model.Account, verbose bool) error {
	tw := newTable(w)
	if verbose {
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tCOMMODITY\tDESCRIPTION")
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS")
	}
	for _, a := range accts {
		if !verbose {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, accountState(a))
			continue
		}
		commodity := "-"
		if a.Commodity != nil {
			commodity = a.Commodity.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, accountState(a), commodity, a.Description)
	}
	return tw.Flush()
}

func writeCommodities(w io.Writer, cs []model.Commodity, verbose bool) error {
	tw := newTable(w)
	if verbose {
		fmt.Fprintln(tw, "ID\tNAME\tPREFIX\tDESCRIPTION")
	} else {
		fmt.Fprintln(tw, "ID\tNAME")
	}
	for _, c := range cs {
		if verbose {
			fmt.Fprintf(tw, "%d\t%s\t%t\t%s\n", c.ID, c.Name, c.Prefix, c.Description)
		} else {
			fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
		}
	}
	return tw.Flush()
}

func writeStatuses(w io.Writer, history []model.AccountStatus) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tSTATUS")
	for _, s := range history {
		fmt.Fprintf(tw, "%s\t%s\n", s.Date.Format(dateFormat), s.Status)
	}
	return tw.Flush()
}

// writeRegisterTable prints one line per split, with the transaction
// columns on its first split only.
func writeRegisterTable(w io.Writer, txns []model.Transaction, l lookup) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tID\tDESCRIPTION\tACCOUNT\tAMOUNT")
	for _, t := range txns {
		for i, s := range t.Splits {
			date, id, desc := "", "", ""
			if i == 0 {
				date, id, desc = t.Date.Format(dateFormat), strconv.FormatInt(int64(t.ID), 10), t.Description
			}
			amount := l.commodity(s.CommodityID).Format(s.Amount)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", date, id, desc, l.accountName(s.AccountID), amount)
		}
	}
	return tw.Flush()
}

// writeRegisterCSV writes one row per split, including the header.
func writeRegisterCSV(w io.Writer, txns []model.Transaction, l lookup) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(registerHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, t := range txns {
		for _, s := range t.Splits {
			rec := []string{
				strconv.FormatInt(int64(t.ID), 10),
				t.Date.Format(dateFormat),
				t.Description,
				t.Notes,
				strconv.FormatInt(int64(s.ID), 10),
				l.accountName(s.AccountID),
				model.FormatAmount(s.Amount),
				l.commodity(s.CommodityID).Name,
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	cw.Flush()
	return cw.Error()
}
