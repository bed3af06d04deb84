package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/sig-0/exilian/storage"
	"github.com/sig-0/exilian/storage/types"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var errUnsupportedDriver = errors.New("unsupported SQL driver")

const (
	getQuery = `SELECT payload FROM snapshots WHERE league = ? AND family = ? AND dataset_type = ?`

	putQuery = `INSERT INTO snapshots (league, family, dataset_type, payload, stored_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (league, family, dataset_type)
DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at`
)

// Storage keeps snapshot payloads in a single SQL table.
// Each Put is one upsert statement, so a slot is never half-written
type Storage struct {
	db     *sql.DB
	driver string
}

// Open opens the database with the given driver ("sqlite" or "pgx")
func Open(driver, dsn string) (*sql.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", errUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open DB: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1) // SQLite serializes writers anyway
	}

	return db, nil
}

func NewStorage(db *sql.DB, driver string) *Storage {
	return &Storage{
		db:     db,
		driver: driver,
	}
}

// Migrate runs all embedded schema files, in name order
func (s *Storage) Migrate(ctx context.Context) error {
	names, err := Migrations()
	if err != nil {
		return err
	}

	for _, name := range names {
		schema, err := SchemaFS.ReadFile("schema/" + name)
		if err != nil {
			return fmt.Errorf("unable to read migration %q: %w", name, err)
		}

		if _, err = s.db.ExecContext(ctx, string(schema)); err != nil {
			return fmt.Errorf("unable to run migration %q: %w", name, err)
		}
	}

	return nil
}

func (s *Storage) Get(ctx context.Context, key types.Key) ([]byte, error) {
	var payload string

	err := s.db.QueryRowContext(
		ctx,
		s.rebind(getQuery),
		key.League.String(),
		key.Category.Family(),
		key.Type.String(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("unable to fetch snapshot: %w", err)
	}

	return []byte(payload), nil
}

func (s *Storage) Put(ctx context.Context, key types.Key, payload []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		s.rebind(putQuery),
		key.League.String(),
		key.Category.Family(),
		key.Type.String(),
		string(payload),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}

	return nil
}

// Migrations lists the embedded schema file names, sorted
func Migrations() ([]string, error) {
	entries, err := fs.ReadDir(SchemaFS, "schema")
	if err != nil {
		return nil, fmt.Errorf("unable to list migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	sort.Strings(names)

	return names, nil
}

// rebind rewrites '?' placeholders into the driver's positional form
func (s *Storage) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)

	b.Grow(len(query) + 8)

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)

			continue
		}

		n++

		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}
