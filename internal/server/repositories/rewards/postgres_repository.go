// Package rewards reads the reward catalog.
package rewards

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*models.Reward, error) {
	query := `SELECT id, code, label FROM rewards WHERE code = $1`

	rw := &models.Reward{}
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&rw.ID, &rw.Code, &rw.Label); err != nil {
		return nil, dbx.Classify(err)
	}
	return rw, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Reward, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, label FROM rewards ORDER BY id`)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Reward
	for rows.Next() {
		rw := &models.Reward{}
		if err := rows.Scan(&rw.ID, &rw.Code, &rw.Label); err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}
