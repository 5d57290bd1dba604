package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledge-dev/ledge/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "ledge",
		Short:   "Double-entry bookkeeping ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "ledge.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "env file with LEDGE_* overrides")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log at debug level, including SQL")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newCommodityCommand(opts),
		newAccountCommand(opts),
		newTransactionCommand(opts),
	)

	return rootCmd
}
