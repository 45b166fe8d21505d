package rewards

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/server/models"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*models.Reward, error)
	List(ctx context.Context) ([]*models.Reward, error)
}
