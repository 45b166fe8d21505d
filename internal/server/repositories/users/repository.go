package users

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetTotem(ctx context.Context, userID, totemID int64) error
	RecordLoginOutcome(ctx context.Context, userID int64, success bool, maxFailures int) (*models.User, error)
	Unlock(ctx context.Context, userID int64) error
	Delete(ctx context.Context, userID int64) error
}
