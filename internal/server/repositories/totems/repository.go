package totems

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, totem *models.Totem) (*models.Totem, error)
	GetByID(ctx context.Context, id int64) (*models.Totem, error)
	List(ctx context.Context) ([]*models.Totem, error)
}
