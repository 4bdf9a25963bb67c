package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	dbh, err := Open(ctx, DriverSQLite, "file:connect_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer dbh.Close()

	_, err = dbh.ExecContext(ctx,
		`INSERT INTO session_values (session_id, key, value) VALUES ('s1','k','v')`)
	require.NoError(t, err)

	// idempotent
	require.NoError(t, ensureSchema(ctx, dbh, DriverSQLite))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("mysql"), "")
	require.Error(t, err)
}

func TestDialectsCoverDrivers(t *testing.T) {
	for _, d := range []Driver{DriverSQLite, DriverPostgres} {
		dl, ok := dialects[d]
		require.True(t, ok, d)
		require.NotEmpty(t, dl.sqlDriver, d)
		require.NotEmpty(t, dl.defaultDSN, d)
		require.Contains(t, dl.schema, "session_values", d)
	}
}
