// Package poems stores poems in PostgreSQL.
package poems

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

const poemColumns = `id, author_id, title, content, mood, status, created_at, updated_at, published_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPoem(row scanner) (*models.Poem, error) {
	p := &models.Poem{}
	var mood, status string
	var publishedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &mood, &status,
		&p.CreatedAt, &p.UpdatedAt, &publishedAt); err != nil {
		return nil, err
	}
	p.Mood = vocab.Mood(mood)
	p.Status = vocab.PoemStatus(status)
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, poem *models.Poem) (*models.Poem, error) {
	query :=
		`INSERT INTO poems (author_id, title, content, mood, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		poem.AuthorID, poem.Title, poem.Content, string(poem.Mood), string(poem.Status)).
		Scan(&poem.ID, &poem.CreatedAt, &poem.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return poem, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64, lock dbx.LockMode) (*models.Poem, error) {
	query := `SELECT ` + poemColumns + ` FROM poems WHERE id = $1` + lock.Clause()

	poem, err := scanPoem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return poem, nil
}

func (r *PostgresRepository) Update(ctx context.Context, poem *models.Poem) error {
	query :=
		`UPDATE poems SET title = $2, content = $3, mood = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, poem.ID, poem.Title, poem.Content, string(poem.Mood)).
		Scan(&poem.UpdatedAt)
	if err != nil {
		return dbx.Classify(err)
	}
	return nil
}

// MarkPublished moves a draft to published. A poem that is missing or
// already published is reported as common.ErrorNotFound.
func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	query :=
		`UPDATE poems SET status = 'published', published_at = $2, updated_at = $2
		 WHERE id = $1 AND status = 'draft'
		 `

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return dbx.Classify(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM poems WHERE id = $1`, id)
	if err != nil {
		return dbx.Classify(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) ListPublished(ctx context.Context, page models.Page) ([]*models.Poem, error) {
	query :=
		`SELECT ` + poemColumns + ` FROM poems
		 WHERE status = 'published'
		 ORDER BY published_at DESC, id DESC
		 LIMIT $1 OFFSET $2
		 `

	return r.list(ctx, query, page.Limit, page.Offset)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID int64, includeDrafts bool, page models.Page) ([]*models.Poem, error) {
	query :=
		`SELECT ` + poemColumns + ` FROM poems
		 WHERE author_id = $1 AND ($2 OR status = 'published')
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3 OFFSET $4
		 `

	return r.list(ctx, query, authorID, includeDrafts, page.Limit, page.Offset)
}

func (r *PostgresRepository) CountByAuthor(ctx context.Context, authorID int64, publishedOnly bool) (int, error) {
	query :=
		`SELECT count(*) FROM poems
		 WHERE author_id = $1 AND (NOT $2 OR status = 'published')
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, authorID, publishedOnly).Scan(&n); err != nil {
		return 0, dbx.Classify(err)
	}
	return n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Poem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.Poem
	for rows.Next() {
		p, err := scanPoem(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
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
