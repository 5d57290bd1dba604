package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledge-dev/ledge/internal/config"
	"github.com/ledge-dev/ledge/internal/ledger"
	"github.com/ledge-dev/ledge/internal/logging"
	"github.com/ledge-dev/ledge/internal/model"
	"github.com/ledge-dev/ledge/internal/store"
)

func newInitCommand(opts *options) *cobra.Command {
	var seed bool
	var dateStr string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file and provision a new ledger database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, seed, dateStr)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "add USD and a starter chart of accounts")
	cmd.Flags().StringVar(&dateStr, "date", "", "open date for seeded accounts (YYYY-MM-DD, default today)")

	return cmd
}

func runInit(cmd *cobra.Command, opts *options, seed bool, dateStr string) error {
	out := cmd.OutOrStdout()

	openDate, err := parseDate(dateStr)
	if err != nil {
		return err
	}

	// Write ledge.yaml unless one is already there.
	if _, err := os.Stat(opts.configPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(opts.configPath), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := config.Save(opts.configPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", opts.configPath)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := store.Create(cmd.Context(), cfg.Database, log)
	if errors.Is(err, store.ErrDatabaseExists) {
		return fmt.Errorf("%w: remove it or point the database settings at a new target", err)
	}
	if err != nil {
		return fmt.Errorf("provisioning database: %w", err)
	}

	svc := ledger.NewService(st, log)
	defer svc.Close()

	fmt.Fprintf(out, "Initialized %s ledger\n", cfg.Database.Driver)

	if seed {
		accts, err := svc.Seed(cmd.Context(), openDate)
		if err != nil {
			return err
		}
		printSeeded(out, accts)
	}
	return nil
}

func printSeeded(out io.Writer, accts []model.Account) {
	fmt.Fprintf(out, "Seeded %d accounts:\n", len(accts))
	for _, a := range accts {
		fmt.Fprintf(out, "  %s (%s)\n", a.Name, a.Type)
	}
}
