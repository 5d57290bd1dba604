package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledge-dev/ledge/internal/ledger"
	"github.com/ledge-dev/ledge/internal/model"
)

func newAccountCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountListCommand(opts),
		newAccountOpenCommand(opts),
		newAccountStatusChangeCommand(opts, model.StatusClose),
		newAccountStatusChangeCommand(opts, model.StatusOpen),
		newAccountStatusCommand(opts),
		newAccountFindCommand(opts),
	)
	return cmd
}

func newAccountListCommand(opts *options) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(svc *ledger.Service) error {
				accts, err := svc.GetAccounts(cmd.Context())
				if err != nil {
					return err
				}
				return writeAccounts(cmd.OutOrStdout(), accts, verbose)
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show commodity and description")

	return cmd
}

func newAccountOpenCommand(opts *options) *cobra.Command {
	var accountType, commodity, dateStr, description string

	types := make([]string, len(model.AccountTypes))
	for i, t := range model.AccountTypes {
		types[i] = string(t)
	}

	cmd := &cobra.Command{
		Use:   "open <name>",
		Short: "Open a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			return opts.withService(cmd, func(svc *ledger.Service) error {
				create := model.AccountCreate{
					Name:        args[0],
					Description: description,
					Type:        model.AccountType(accountType),
				}
				if commodity != "" {
					c, err := resolveCommodity(cmd.Context(), svc, commodity)
					if err != nil {
						return err
					}
					create.CommodityID = c.ID
				}

				a, err := svc.OpenAccount(cmd.Context(), create, date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Opened %s (id %d) on %s\n", a.Name, a.ID, date.Format(dateFormat))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "account type: "+strings.Join(types, ", ")+" (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&commodity, "commodity", "", "default commodity name")
	cmd.Flags().StringVar(&dateStr, "date", "", "open date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "description", "", "description")

	return cmd
}

// newAccountStatusChangeCommand builds "close" or "reopen", which append a
// status entry of the given kind.
func newAccountStatusChangeCommand(opts *options, kind model.StatusKind) *cobra.Command {
	var dateStr string

	use, short, verb := "close", "Close an account", "Closed"
	if kind == model.StatusOpen {
		use, short, verb = "reopen", "Reopen a closed account", "Reopened"
	}

	cmd := &cobra.Command{
		Use:   use + " <account>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			return opts.withService(cmd, func(svc *ledger.Service) error {
				a, err := resolveAccount(cmd.Context(), svc, args[0])
				if err != nil {
					return err
				}
				_, err = svc.SetAccountStatus(cmd.Context(), model.AccountStatus{AccountID: a.ID, Date: date, Status: kind})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s\n", verb, a.Name, date.Format(dateFormat))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "effective date (YYYY-MM-DD, default today)")

	return cmd
}

func newAccountStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <account>",
		Short: "Show an account's status history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(svc *ledger.Service) error {
				a, err := resolveAccount(cmd.Context(), svc, args[0])
				if err != nil {
					return err
				}
				history, err := svc.GetStatusByAccount(cmd.Context(), a.ID)
				if err != nil {
					return err
				}
				return writeStatuses(cmd.OutOrStdout(), history)
			})
		},
	}
}

func newAccountFindCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "find <substring>",
		Short: "Find accounts whose name contains substring, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(svc *ledger.Service) error {
				accts, err := svc.GetAccountByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeAccounts(cmd.OutOrStdout(), accts, false)
			})
		},
	}
}
