package sources

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/constants"
	"github.com/gridlot/mastermatch/pkg/errors"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads canonical entries from a master data table.
type SQLite struct {
	dsn     string
	table   string
	columns [3]string
}

// SQLiteOption configures a SQLite source.
type SQLiteOption func(*SQLite) error

// WithTable sets the table holding canonical entries.
func WithTable(table string) SQLiteOption {
	return func(s *SQLite) error {
		if !identifier.MatchString(table) {
			return errors.NewValidationError("table", table, "must be a plain SQL identifier")
		}
		s.table = table
		return nil
	}
}

// WithColumns sets the make, model and variant column names.
func WithColumns(makeCol, modelCol, variantCol string) SQLiteOption {
	return func(s *SQLite) error {
		for _, c := range []string{makeCol, modelCol, variantCol} {
			if !identifier.MatchString(c) {
				return errors.NewValidationError("column", c, "must be a plain SQL identifier")
			}
		}
		s.columns = [3]string{makeCol, modelCol, variantCol}
		return nil
	}
}

// NewSQLite creates a source over the database at dsn. The database is
// opened on each load and closed afterwards.
func NewSQLite(dsn string, opts ...SQLiteOption) (*SQLite, error) {
	s := &SQLite{
		dsn:     dsn,
		table:   constants.DefaultMasterTable,
		columns: [3]string{"make", "model", "variant"},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ID returns "sqlite:<dsn>".
func (s *SQLite) ID() ID {
	return ID(string(KindSQLite) + ":" + s.dsn)
}

// Query returns the statement used to read the snapshot.
func (s *SQLite) Query() string {
	return fmt.Sprintf("SELECT %s, %s, %s FROM %s", s.columns[0], s.columns[1], s.columns[2], s.table)
}

// Load reads all rows of the master table. NULL fields load as empty
// strings and are dropped when the index is built.
func (s *SQLite) Load(ctx context.Context) ([]catalog.Entry, error) {
	db, err := sql.Open("sqlite3", s.dsn)
	if err != nil {
		return nil, errors.WrapIO("open", s.dsn, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.WrapIO("open", s.dsn, err)
	}

	rows, err := db.QueryContext(ctx, s.Query())
	if err != nil {
		return nil, errors.WrapIO("query", s.dsn, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []catalog.Entry
	for rows.Next() {
		var mk, md, vr sql.NullString
		if err := rows.Scan(&mk, &md, &vr); err != nil {
			return nil, errors.WrapIO("scan", s.dsn, err)
		}
		entries = append(entries, catalog.Entry{Make: mk.String, Model: md.String, Variant: vr.String})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("query", s.dsn, err)
	}
	return entries, nil
}
