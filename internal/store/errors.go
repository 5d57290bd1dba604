package store

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDatabaseExists is returned by Create when the target database is already there.
var ErrDatabaseExists = errors.New("database already exists")

// ErrClosed is the underlying error of a ConnectionError returned after Close.
var ErrClosed = errors.New("store is closed")

// Cause classifies why a session could not be used.
type Cause string

const (
	CauseAuth            Cause = "authentication failed"
	CauseMissingDatabase Cause = "database does not exist"
	CauseUnavailable     Cause = "database unavailable"
	CauseClosed          Cause = "session closed"
)

// ConnectionError reports a failure to open or use a database session.
type ConnectionError struct {
	Driver string
	Cause  Cause
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Driver, e.Cause, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Server error codes that map to a Cause.
const (
	pgInvalidPassword      = "28P01"
	pgInvalidAuthorization = "28000"
	pgInvalidCatalogName   = "3D000"
	pgDuplicateDatabase    = "42P04"

	myAccessDenied   = 1045
	myBadDatabase    = 1049
	myDatabaseExists = 1007
)

// classify wraps a connection failure in a ConnectionError with the best
// matching Cause. Anything unrecognised is reported as unavailable.
func classify(driver string, err error) error {
	cause := CauseUnavailable

	var pgErr *pgconn.PgError
	var myErr *mysqldriver.MySQLError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case pgInvalidPassword, pgInvalidAuthorization:
			cause = CauseAuth
		case pgInvalidCatalogName:
			cause = CauseMissingDatabase
		}
	case errors.As(err, &myErr):
		switch myErr.Number {
		case myAccessDenied:
			cause = CauseAuth
		case myBadDatabase:
			cause = CauseMissingDatabase
		}
	}
	return &ConnectionError{Driver: driver, Cause: cause, Err: err}
}

// isDuplicateDatabase reports whether err is a server's "database exists" error.
func isDuplicateDatabase(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgDuplicateDatabase
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == myDatabaseExists
	}
	return false
}
