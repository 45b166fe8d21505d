package session

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/plume/internal/client/models"
	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE sessions (
  server       TEXT PRIMARY KEY,
  user_id      INTEGER NOT NULL,
  pseudo       TEXT NOT NULL,
  role         TEXT NOT NULL,
  access_token TEXT NOT NULL,
  saved_at     TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func session(server, token string) *models.Session {
	return &models.Session{
		Server:      server,
		UserID:      7,
		Pseudo:      "ink",
		Role:        "user",
		AccessToken: token,
		SavedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, session("a:1", "t1")))

	got, err := r.Get(ctx, "a:1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "t1", got.AccessToken)
	assert.True(t, got.SavedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "nowhere")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSave_UpsertsPerServer(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, session("a:1", "old")))
	require.NoError(t, r.Save(ctx, session("a:1", "new")))
	require.NoError(t, r.Save(ctx, session("b:2", "other")))

	got, err := r.Get(ctx, "a:1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)

	got, err = r.Get(ctx, "b:2")
	require.NoError(t, err)
	assert.Equal(t, "other", got.AccessToken)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, session("a:1", "t")))
	require.NoError(t, r.Delete(ctx, "a:1"))
	require.NoError(t, r.Delete(ctx, "a:1"))

	_, err := r.Get(ctx, "a:1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id").WillReturnError(sql.ErrConnDone)
	mock.ExpectExec("INSERT INTO sessions").WillReturnError(sql.ErrConnDone)
	mock.ExpectExec("DELETE FROM sessions").WillReturnError(sql.ErrConnDone)

	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err = r.Get(ctx, "a:1")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.ErrorIs(t, r.Save(ctx, session("a:1", "t")), sql.ErrConnDone)
	assert.ErrorIs(t, r.Delete(ctx, "a:1"), sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
