package users

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

const userColumns = `id, email, pseudo, password_hash, role, totem_id, locked, failed_login_count, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var role string
	var totemID sql.NullInt64
	err := row.Scan(&u.ID, &u.Email, &u.Pseudo, &u.PasswordHash, &role, &totemID,
		&u.Locked, &u.FailedLoginCount, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = vocab.Role(role)
	if totemID.Valid {
		id := totemID.Int64
		u.TotemID = &id
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, pseudo, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Pseudo, user.PasswordHash, string(user.Role)).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, dbx.Classify(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

// GetByEmail matches case-insensitively, the same way the unique index does.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

// SetTotem assigns a totem to a user that has none yet. It returns
// common.ErrorAlreadyExists when the user already holds one and
// common.ErrorNotFound when the user is missing.
func (r *PostgresRepository) SetTotem(ctx context.Context, userID, totemID int64) error {
	query :=
		`UPDATE users SET totem_id = $2
		 WHERE id = $1 AND totem_id IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, userID, totemID)
	if err != nil {
		return dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 1 {
		return nil
	}

	if err := r.exists(ctx, userID); err != nil {
		return err
	}
	return common.ErrorAlreadyExists
}

// RecordLoginOutcome applies one authentication attempt atomically: success
// resets the failure counter, failure increments it and locks the account
// once it reaches maxFailures. A non-positive maxFailures never locks.
func (r *PostgresRepository) RecordLoginOutcome(ctx context.Context, userID int64, success bool, maxFailures int) (*models.User, error) {
	query :=
		`UPDATE users SET
		    failed_login_count = CASE WHEN $2 THEN 0 ELSE failed_login_count + 1 END,
		    locked = locked OR (NOT $2 AND $3 > 0 AND failed_login_count + 1 >= $3)
		 WHERE id = $1
		 RETURNING ` + userColumns + `
		 `

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID, success, maxFailures))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

func (r *PostgresRepository) Unlock(ctx context.Context, userID int64) error {
	query :=
		`UPDATE users SET locked = FALSE, failed_login_count = 0
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return dbx.Classify(err)
	}
	return expectOneRow(res)
}

// Delete removes a user. Poems or votes still pointing at the user make it
// fail with common.ErrorReferenced.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return dbx.Classify(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) exists(ctx context.Context, userID int64) error {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&ok)
	if err != nil {
		return dbx.Classify(err)
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
