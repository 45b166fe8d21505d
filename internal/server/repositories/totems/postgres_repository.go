// Package totems stores the avatar catalog.
package totems

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

func (r *PostgresRepository) Create(ctx context.Context, totem *models.Totem) (*models.Totem, error) {
	query :=
		`INSERT INTO totems (name, description, picture_key)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, totem.Name, totem.Description, totem.PictureKey).Scan(&totem.ID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return totem, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Totem, error) {
	query := `SELECT id, name, description, picture_key FROM totems WHERE id = $1`

	t := &models.Totem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.PictureKey)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Totem, error) {
	query := `SELECT id, name, description, picture_key FROM totems ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Totem
	for rows.Next() {
		t := &models.Totem{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.PictureKey); err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}
