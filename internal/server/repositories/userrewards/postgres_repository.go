// Package userrewards records which rewards each user has unlocked.
package userrewards

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Grant records the reward for the user. A grant that already exists is
// reported as common.ErrorAlreadyExists without aborting an enclosing
// transaction.
func (r *PostgresRepository) Grant(ctx context.Context, userID, rewardID int64) (*models.UserReward, error) {
	query :=
		`INSERT INTO user_rewards (user_id, reward_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, reward_id) DO NOTHING
		 RETURNING id, granted_at
		 `

	ur := &models.UserReward{UserID: userID, RewardID: rewardID}
	err := r.db.QueryRowContext(ctx, query, userID, rewardID).Scan(&ur.ID, &ur.GrantedAt)
	if err != nil {
		err = dbx.Classify(err)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return ur, nil
}

func (r *PostgresRepository) FindOneByUserAndReward(ctx context.Context, userID, rewardID int64) (*models.UserReward, error) {
	query :=
		`SELECT id, user_id, reward_id, granted_at FROM user_rewards
		 WHERE user_id = $1 AND reward_id = $2
		 `

	ur := &models.UserReward{}
	err := r.db.QueryRowContext(ctx, query, userID, rewardID).Scan(&ur.ID, &ur.UserID, &ur.RewardID, &ur.GrantedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return ur, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.UserReward, error) {
	query :=
		`SELECT ur.id, ur.user_id, ur.reward_id, ur.granted_at, rw.code, rw.label
		 FROM user_rewards ur
		 JOIN rewards rw ON rw.id = ur.reward_id
		 WHERE ur.user_id = $1
		 ORDER BY ur.granted_at, ur.id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.UserReward
	for rows.Next() {
		ur := &models.UserReward{Reward: &models.Reward{}}
		if err := rows.Scan(&ur.ID, &ur.UserID, &ur.RewardID, &ur.GrantedAt, &ur.Reward.Code, &ur.Reward.Label); err != nil {
			return nil, dbx.Classify(err)
		}
		ur.Reward.ID = ur.RewardID
		out = append(out, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}
