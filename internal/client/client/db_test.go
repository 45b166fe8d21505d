package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_CreatesSessionTable(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "plume.db"))
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info('sessions') ORDER BY cid`)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		cols = append(cols, c)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"server", "user_id", "pseudo", "role", "access_token", "saved_at"}, cols)
}

func TestInitDatabase_ReopenKeepsSessions(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "plume.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions(server, user_id, pseudo, role, access_token, saved_at) VALUES ('a:1', 5, 'ink', 'user', 'tok', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, RunMigrations(ctx, db))

	var token string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT access_token FROM sessions WHERE server = 'a:1'`).Scan(&token))
	assert.Equal(t, "tok", token)
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "plume.db"))
	assert.Error(t, err)
}
