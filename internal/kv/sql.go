package kv

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLList keeps the list in a table, newest row first by id.
// Supported drivers are "sqlite" and "postgres".
type SQLList struct {
	db     *sql.DB
	driver string
	key    string
}

// OpenSQLList opens dsn with driver and creates the backing table.
func OpenSQLList(ctx context.Context, driver, dsn, key string) (*SQLList, error) {
	if driver == "" || dsn == "" {
		return nil, ErrNotConfigured
	}
	if driver != "sqlite" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	l := NewSQLList(db, driver, key)
	if err := l.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// NewSQLList wraps an existing *sql.DB. The table must already exist or be
// created with Migrate.
func NewSQLList(db *sql.DB, driver, key string) *SQLList {
	if key == "" {
		key = DefaultKey
	}
	return &SQLList{db: db, driver: driver, key: key}
}

// Migrate creates the list table and index if missing.
func (s *SQLList) Migrate(ctx context.Context) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "postgres" {
		id = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS completion_list (
			id ` + id + `,
			list_key TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS completion_list_key_idx ON completion_list (list_key, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate completion_list: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLList) rebind(q string) string {
	if s.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLList) Name() string { return s.driver }

func (s *SQLList) Push(ctx context.Context, value string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO completion_list (list_key, payload) VALUES (?, ?)`), s.key, value)
	return err
}

func (s *SQLList) Range(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT payload FROM completion_list WHERE list_key = ? ORDER BY id DESC`), s.key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var vals []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

func (s *SQLList) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM completion_list WHERE list_key = ?`), s.key).Scan(&n)
	return n, err
}

// Close closes the database handle.
func (s *SQLList) Close() error {
	return s.db.Close()
}
