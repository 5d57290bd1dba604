package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledge-dev/ledge/internal/ledger"
	"github.com/ledge-dev/ledge/internal/model"
)

func newTransactionCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"txn"},
		Short:   "Record and list transactions",
	}
	cmd.AddCommand(newTransactionAddCommand(opts), newTransactionListCommand(opts))
	return cmd
}

func newTransactionAddCommand(opts *options) *cobra.Command {
	var description, notes, dateStr string
	var splits []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a balanced transaction",
		Example: `  ledge transaction add --description groceries \
    --split "assets:checking=-150.00 USD" \
    --split "expense:groceries=150.00 USD"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			parsed := make([]splitArg, len(splits))
			for i, s := range splits {
				if parsed[i], err = parseSplit(s); err != nil {
					return err
				}
			}

			return opts.withService(cmd, func(svc *ledger.Service) error {
				t := model.TransactionCreate{Date: date, Description: description, Notes: notes}
				for _, p := range parsed {
					sc, err := resolveSplit(cmd, svc, p)
					if err != nil {
						return err
					}
					t.Splits = append(t.Splits, sc)
				}

				txn, err := svc.AddTransaction(cmd.Context(), t)
				if err != nil {
					return explainImbalance(cmd, svc, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added transaction %d with %d splits\n", txn.ID, len(txn.Splits))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringArrayVar(&splits, "split", nil, `split as "ACCOUNT=AMOUNT [COMMODITY]" (repeatable)`)

	return cmd
}

func resolveSplit(cmd *cobra.Command, svc *ledger.Service, p splitArg) (model.SplitCreate, error) {
	a, err := resolveAccount(cmd.Context(), svc, p.Account)
	if err != nil {
		return model.SplitCreate{}, err
	}

	sc := model.SplitCreate{Amount: p.Amount, AccountID: a.ID}
	switch {
	case p.Commodity != "":
		c, err := resolveCommodity(cmd.Context(), svc, p.Commodity)
		if err != nil {
			return model.SplitCreate{}, err
		}
		sc.CommodityID = c.ID
	case a.Commodity != nil:
		sc.CommodityID = a.Commodity.ID
	default:
		return model.SplitCreate{}, fmt.Errorf("split for %s needs a commodity: the account has no default", a.Name)
	}
	return sc, nil
}

// imbalanceReport is an ImbalanceError rendered with commodity names.
type imbalanceReport struct {
	msg string
	err error
}

func (e *imbalanceReport) Error() string { return e.msg }

func (e *imbalanceReport) Unwrap() error { return e.err }

// explainImbalance rewrites an imbalance with commodity names in place of ids.
func explainImbalance(cmd *cobra.Command, svc *ledger.Service, err error) error {
	var ie *ledger.ImbalanceError
	if !errors.As(err, &ie) || len(ie.Residuals) == 0 {
		return err
	}
	cs, lerr := svc.GetCommodities(cmd.Context())
	if lerr != nil {
		return err
	}
	l := newLookup(nil, cs)

	res := make([]string, 0, len(ie.Residuals))
	for _, id := range ie.Commodities() {
		res = append(res, fmt.Sprintf("%s off by %s", l.commodity(id).Name, model.FormatAmount(ie.Residuals[id])))
	}
	var parts []string
	if ie.Splits < ledger.MinSplits {
		parts = append(parts, fmt.Sprintf("need at least %d splits, got %d", ledger.MinSplits, ie.Splits))
	}
	parts = append(parts, strings.Join(res, ", "))
	return &imbalanceReport{msg: "transaction does not balance: " + strings.Join(parts, "; "), err: err}
}

func newTransactionListCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list <account>",
		Short: "List transactions touching an account, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "csv" {
				return fmt.Errorf("unknown format %q (want table or csv)", format)
			}
			return opts.withService(cmd, func(svc *ledger.Service) error {
				a, err := resolveAccount(cmd.Context(), svc, args[0])
				if err != nil {
					return err
				}
				txns, err := svc.GetTransactions(cmd.Context(), a.ID)
				if err != nil {
					return err
				}
				accts, err := svc.GetAccounts(cmd.Context())
				if err != nil {
					return err
				}
				cs, err := svc.GetCommodities(cmd.Context())
				if err != nil {
					return err
				}

				l := newLookup(accts, cs)
				if format == "csv" {
					return writeRegisterCSV(cmd.OutOrStdout(), txns, l)
				}
				return writeRegisterTable(cmd.OutOrStdout(), txns, l)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table or csv")

	return cmd
}
