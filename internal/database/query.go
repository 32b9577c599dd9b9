package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a 1-based pagination window.
type Page struct {
	Page  int
	Limit int
}

// Offset normalizes the window in place and returns the row offset.
// Limit is clamped to MaxLimit and Page to the last page whose offset fits in an int.
func (p *Page) Offset() int {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if p.Page < 1 {
		p.Page = 1
	}

	if maxPage := math.MaxInt/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}

	return (p.Page - 1) * p.Limit
}

// Clause renders the window as a LIMIT/OFFSET suffix.
func (p Page) Clause() string {
	offset := p.Offset()

	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, offset)
}

// NamedExt is satisfied by both *sqlx.DB and *sqlx.Tx.
type NamedExt interface {
	sqlx.ExtContext
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// NamedReturning runs a named statement and scans its single RETURNING row into dest.
func NamedReturning(ctx context.Context, db NamedExt, query string, arg any, dest ...any) error {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.QueryRowxContext(ctx, arg).Scan(dest...)
}

func NamedSelect(ctx context.Context, db NamedExt, dest any, query string, arg any) error {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.SelectContext(ctx, dest, arg)
}

func NamedCount(ctx context.Context, db NamedExt, query string, arg any) (int, error) {
	var n int

	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &n, arg); err != nil {
		return 0, err
	}

	return n, nil
}

// OrderBy whitelists the sort column; unknown columns fall back to fallback DESC.
func OrderBy(allowed map[string]string, sortBy, sortOrder, fallback string) string {
	col, ok := allowed[sortBy]
	if !ok {
		return " ORDER BY " + fallback + " DESC"
	}

	if strings.EqualFold(sortOrder, "asc") {
		return " ORDER BY " + col + " ASC"
	}

	return " ORDER BY " + col + " DESC"
}

// ExpectOne returns notFound when res touched no rows.
func ExpectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}
