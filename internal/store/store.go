// Package store persists the ledger in a relational database through gorm.
// SQLite is the default; PostgreSQL and MySQL are selected by configuration.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledge-dev/ledge/internal/config"
)

// Store is one session against the ledger database. It holds a single
// connection and is not safe for concurrent use.
type Store struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	driver string
	log    *zap.Logger
	closed bool
}

// Open connects to an existing, provisioned ledger database.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("store")

	if cfg.Driver == config.DriverSQLite {
		if _, err := os.Stat(cfg.Path); errors.Is(err, fs.ErrNotExist) {
			return nil, &ConnectionError{Driver: cfg.Driver, Cause: CauseMissingDatabase, Err: err}
		}
	}

	s, err := connect(ctx, cfg, dialector(cfg, cfg.Name), log)
	if err != nil {
		return nil, err
	}
	log.Debug("session opened", zap.String("driver", cfg.Driver))
	return s, nil
}

// Create provisions a new ledger database and its schema, returning an open
// session on it. It fails with ErrDatabaseExists if the target exists.
func Create(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("store")

	switch cfg.Driver {
	case config.DriverSQLite:
		if _, err := os.Stat(cfg.Path); err == nil {
			return nil, fmt.Errorf("%s: %w", cfg.Path, ErrDatabaseExists)
		}
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	case config.DriverPostgres, config.DriverMySQL:
		if err := createServerDatabase(ctx, cfg, log); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	s, err := connect(ctx, cfg, dialector(cfg, cfg.Name), log)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).AutoMigrate(schemaModels...); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	log.Info("database created", zap.String("driver", cfg.Driver), zap.String("name", target(cfg)))
	return s, nil
}

// Close releases the session. Calling it again is a no-op.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Debug("session closed", zap.String("driver", s.driver))
	return s.sqlDB.Close()
}

// session returns the gorm handle bound to ctx, or a ConnectionError once closed.
func (s *Store) session(ctx context.Context) (*gorm.DB, error) {
	if s.closed {
		return nil, &ConnectionError{Driver: s.driver, Cause: CauseClosed, Err: ErrClosed}
	}
	return s.db.WithContext(ctx), nil
}

func connect(ctx context.Context, cfg config.DatabaseConfig, d gorm.Dialector, log *zap.Logger) (*Store, error) {
	if d == nil {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:  newGormLogger(log),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, classify(cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying DB: %w", err)
	}
	// One connection per session. This also keeps SQLite pragmas from the DSN
	// and its single-writer lock on one handle.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, classify(cfg.Driver, err)
	}

	return &Store{db: db, sqlDB: sqlDB, driver: cfg.Driver, log: log}, nil
}

// createServerDatabase issues CREATE DATABASE through the server's
// maintenance database.
func createServerDatabase(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) error {
	admin := ""
	if cfg.Driver == config.DriverPostgres {
		admin = "postgres"
	}

	s, err := connect(ctx, cfg, dialector(cfg, admin), log)
	if err != nil {
		return err
	}
	defer s.Close()

	err = s.db.WithContext(ctx).Exec("CREATE DATABASE ?", clause.Table{Name: cfg.Name}).Error
	if isDuplicateDatabase(err) {
		return fmt.Errorf("%s: %w", cfg.Name, ErrDatabaseExists)
	}
	if err != nil {
		return fmt.Errorf("creating database %s: %w", cfg.Name, err)
	}
	return nil
}

// dialector builds the gorm dialector for cfg connected to database name.
// It returns nil for an unknown driver.
func dialector(cfg config.DatabaseConfig, name string) gorm.Dialector {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(cfg.Path))
	case config.DriverPostgres:
		return postgres.Open(postgresDSN(cfg, name))
	case config.DriverMySQL:
		return mysql.Open(mysqlDSN(cfg, name))
	}
	return nil
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

func postgresDSN(cfg config.DatabaseConfig, name string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.EffectivePort())),
		Path:   "/" + name,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

func mysqlDSN(cfg config.DatabaseConfig, name string) string {
	c := mysqldriver.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.EffectivePort()))
	c.DBName = name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

func target(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.Path
	}
	return cfg.Name
}
