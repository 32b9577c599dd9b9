//go:build integration

// Package dbtest opens a throwaway Postgres schema for integration tests.
// Tests are skipped unless TEST_DATABASE_URL points at a reachable server.
package dbtest

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Kesavaawalakbari/konek/internal/database"
)

//go:embed schema.sql
var schema string

const envURL = "TEST_DATABASE_URL"

// Open creates a fresh schema, loads the tables into it and returns a pool
// whose connections all use it. The schema is dropped when t finishes.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	base := os.Getenv(envURL)
	if base == "" {
		t.Skipf("%s not set", envURL)
	}

	admin, err := database.New(base)
	require.NoError(t, err)
	t.Cleanup(func() { admin.Close() })

	name := "konek_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	ctx := context.Background()
	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+name)
	require.NoError(t, err)

	t.Cleanup(func() {
		if _, err := admin.ExecContext(context.Background(), "DROP SCHEMA "+name+" CASCADE"); err != nil {
			t.Logf("dropping schema %s: %v", name, err)
		}
	})

	connStr, err := withSearchPath(base, name)
	require.NoError(t, err)

	db, err := database.New(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, schema)
	require.NoError(t, err)

	return db
}

// withSearchPath adds search_path as a runtime parameter, which pgx sends on
// every new connection.
func withSearchPath(connStr, schema string) (string, error) {
	if !strings.Contains(connStr, "://") {
		return connStr + " search_path=" + schema, nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", envURL, err)
	}

	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
