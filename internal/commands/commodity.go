package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledge-dev/ledge/internal/ledger"
	"github.com/ledge-dev/ledge/internal/model"
)

func newCommodityCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commodity",
		Short: "Manage commodities",
	}
	cmd.AddCommand(newCommodityListCommand(opts), newCommodityAddCommand(opts))
	return cmd
}

func newCommodityListCommand(opts *options) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List commodities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(svc *ledger.Service) error {
				cs, err := svc.GetCommodities(cmd.Context())
				if err != nil {
					return err
				}
				return writeCommodities(cmd.OutOrStdout(), cs, verbose)
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show prefix and description")

	return cmd
}

func newCommodityAddCommand(opts *options) *cobra.Command {
	var prefix bool
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a commodity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(svc *ledger.Service) error {
				c, err := svc.AddCommodity(cmd.Context(), model.CommodityCreate{
					Name:        args[0],
					Prefix:      prefix,
					Description: description,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added commodity %s (id %d)\n", c.Name, c.ID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&prefix, "prefix", false, "write the name before amounts")
	cmd.Flags().StringVar(&description, "description", "", "description")

	return cmd
}
