package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/plume/internal/client/models"
	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, server string) (*models.Session, error) {
	s := &models.Session{Server: server}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, pseudo, role, access_token, saved_at
		FROM sessions WHERE server = ?`, server).
		Scan(&s.UserID, &s.Pseudo, &s.Role, &s.AccessToken, &s.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", server, err)
	}
	return s, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s *models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (server, user_id, pseudo, role, access_token, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(server) DO UPDATE SET
			user_id = excluded.user_id,
			pseudo = excluded.pseudo,
			role = excluded.role,
			access_token = excluded.access_token,
			saved_at = excluded.saved_at
	`, s.Server, s.UserID, s.Pseudo, s.Role, s.AccessToken, s.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session[%s]: %w", s.Server, err)
	}
	return nil
}

// Delete is a no-op when nothing is stored for server.
func (r *SQLiteRepository) Delete(ctx context.Context, server string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE server = ?`, server); err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", server, err)
	}
	return nil
}
