package userrewards

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/server/models"
)

type Repository interface {
	Grant(ctx context.Context, userID, rewardID int64) (*models.UserReward, error)
	FindOneByUserAndReward(ctx context.Context, userID, rewardID int64) (*models.UserReward, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.UserReward, error)
}
