package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledge-dev/ledge/internal/config"
	"github.com/ledge-dev/ledge/internal/ledger"
	"github.com/ledge-dev/ledge/internal/logging"
	"github.com/ledge-dev/ledge/internal/store"
)

const dateFormat = "2006-01-02"

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	envFile    string
	debug      bool
}

// loadConfig resolves the effective configuration. A relative sqlite path is
// taken relative to the config file.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(o.configPath, o.envFile)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite && !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(filepath.Dir(o.configPath), cfg.Database.Path)
	}
	return cfg, nil
}

// withService opens a session on the configured ledger, runs fn, and closes
// the session.
func (o *options) withService(cmd *cobra.Command, fn func(*ledger.Service) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := store.Open(cmd.Context(), cfg.Database, log)
	if err != nil {
		var ce *store.ConnectionError
		if errors.As(err, &ce) && ce.Cause == store.CauseMissingDatabase {
			return fmt.Errorf("%w (run 'ledge init' first)", err)
		}
		return err
	}

	svc := ledger.NewService(st, log)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn("closing session", zap.Error(err))
		}
	}()
	return fn(svc)
}

// parseDate parses a YYYY-MM-DD flag value. An empty value means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
