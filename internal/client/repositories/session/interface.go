// Package session persists CLI logins in the local SQLite database, one row
// per server address.
package session

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/client/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when no login is stored for server.
	Get(ctx context.Context, server string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, server string) error
}
