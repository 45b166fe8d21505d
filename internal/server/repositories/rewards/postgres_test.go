package rewards

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByCode(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	q := `^SELECT\s+id,\s*code,\s*label\s+FROM\s+rewards\s+WHERE\s+code\s*=\s*\$1$`
	mock.ExpectQuery(q).
		WithArgs("GOLDEN_QUILL").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "label"}).AddRow(int64(6), "GOLDEN_QUILL", "Golden Quill"))

	rw, err := repo.GetByCode(context.Background(), "GOLDEN_QUILL")
	require.NoError(t, err)
	assert.Equal(t, int64(6), rw.ID)

	mock.ExpectQuery(q).WithArgs("NOPE").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`FROM\s+rewards\s+ORDER\s+BY\s+id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "label"}).
			AddRow(int64(1), "FIRST_FEATHER_CAST", "First Feather").
			AddRow(int64(2), "GENEROUS_READER", "Generous Reader"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
