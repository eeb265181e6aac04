// Package store archives programs in wire form, with their last evaluated
// result, in a SQL database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("program not found")

type Program struct {
	Name      string
	Wire      string
	Result    sql.NullString
	UpdatedAt time.Time
}

type Store struct {
	db      *sql.DB
	dialect dialect
}

// driverNames lists the accepted driver names.
func driverNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects with the named driver, checks the connection and creates the
// programs table if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q (want %s)", driver, strings.Join(driverNames(), ", "))
	}
	if dsn == "" {
		return nil, fmt.Errorf("no dsn configured for store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	if driver == "sqlite3" {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s store: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s store: %w", driver, err)
	}

	slog.Debug("store opened", slog.String("driver", driver))
	return &Store{db: db, dialect: d}, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

// Save stores wire under name, replacing any previous program and clearing its
// result.
func (s *Store) Save(ctx context.Context, name, wire string) error {
	if name == "" {
		return errors.New("program name must not be empty")
	}
	if _, err := s.exec(ctx, s.dialect.upsert, name, wire, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to save program %q: %w", name, err)
	}
	return nil
}

// SaveResult records the evaluated result of an archived program.
func (s *Store) SaveResult(ctx context.Context, name, result string) error {
	res, err := s.exec(ctx,
		"UPDATE programs SET result = ?, updated_at = ? WHERE name = ?",
		result, time.Now().UnixNano(), name)
	if err != nil {
		return fmt.Errorf("failed to save result for %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save result for %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, name string) (Program, error) {
	row := s.db.QueryRowContext(ctx,
		s.dialect.rebind("SELECT name, wire, result, updated_at FROM programs WHERE name = ?"), name)
	p, err := scanProgram(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Program{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Program{}, fmt.Errorf("failed to load program %q: %w", name, err)
	}
	return p, nil
}

// List returns every archived program ordered by name.
func (s *Store) List(ctx context.Context) ([]Program, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, wire, result, updated_at FROM programs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var programs []Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list programs: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.exec(ctx, "DELETE FROM programs WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete program %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgram(row scanner) (Program, error) {
	var p Program
	var updated int64
	if err := row.Scan(&p.Name, &p.Wire, &p.Result, &updated); err != nil {
		return Program{}, err
	}
	p.UpdatedAt = time.Unix(0, updated)
	return p, nil
}
