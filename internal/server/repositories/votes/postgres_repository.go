// Package votes stores feather votes in PostgreSQL.
package votes

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

const voteColumns = `id, voter_id, poem_id, weight, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVote(row scanner) (*models.FeatherVote, error) {
	v := &models.FeatherVote{}
	var weight string
	if err := row.Scan(&v.ID, &v.VoterID, &v.PoemID, &weight, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.Weight = vocab.FeatherWeight(weight)
	return v, nil
}

// Create inserts a vote. A second vote by the same voter on the same poem
// fails with common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, vote *models.FeatherVote) (*models.FeatherVote, error) {
	query :=
		`INSERT INTO feather_votes (voter_id, poem_id, weight)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, vote.VoterID, vote.PoemID, string(vote.Weight)).
		Scan(&vote.ID, &vote.CreatedAt, &vote.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return vote, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.FeatherVote, error) {
	query := `SELECT ` + voteColumns + ` FROM feather_votes WHERE id = $1`

	v, err := scanVote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return v, nil
}

func (r *PostgresRepository) FindOneByVoterAndPoem(ctx context.Context, voterID, poemID int64) (*models.FeatherVote, error) {
	query := `SELECT ` + voteColumns + ` FROM feather_votes WHERE voter_id = $1 AND poem_id = $2`

	v, err := scanVote(r.db.QueryRowContext(ctx, query, voterID, poemID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return v, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feather_votes WHERE id = $1`, id)
	if err != nil {
		return dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByPoem(ctx context.Context, poemID int64) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM feather_votes WHERE poem_id = $1`, poemID)
}

func (r *PostgresRepository) CountByVoter(ctx context.Context, voterID int64) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM feather_votes WHERE voter_id = $1`, voterID)
}

func (r *PostgresRepository) TallyByPoem(ctx context.Context, poemID int64) (models.Tally, error) {
	query :=
		`SELECT weight, count(*) FROM feather_votes
		 WHERE poem_id = $1
		 GROUP BY weight
		 `

	var t models.Tally
	err := r.eachWeightCount(ctx, query, []any{poemID}, func(_ int64, w vocab.FeatherWeight, n int) {
		t.Add(w, n)
	}, false)
	return t, err
}

// TallyReceivedByAuthor sums the feathers on every poem written by authorID.
func (r *PostgresRepository) TallyReceivedByAuthor(ctx context.Context, authorID int64) (models.Tally, error) {
	query :=
		`SELECT v.weight, count(*) FROM feather_votes v
		 JOIN poems p ON p.id = v.poem_id
		 WHERE p.author_id = $1
		 GROUP BY v.weight
		 `

	var t models.Tally
	err := r.eachWeightCount(ctx, query, []any{authorID}, func(_ int64, w vocab.FeatherWeight, n int) {
		t.Add(w, n)
	}, false)
	return t, err
}

// TalliesByAuthor returns the per-poem tallies of authorID's poems. Poems
// without votes are absent from the map.
func (r *PostgresRepository) TalliesByAuthor(ctx context.Context, authorID int64) (map[int64]models.Tally, error) {
	query :=
		`SELECT v.poem_id, v.weight, count(*) FROM feather_votes v
		 JOIN poems p ON p.id = v.poem_id
		 WHERE p.author_id = $1
		 GROUP BY v.poem_id, v.weight
		 `

	out := make(map[int64]models.Tally)
	err := r.eachWeightCount(ctx, query, []any{authorID}, func(poemID int64, w vocab.FeatherWeight, n int) {
		t := out[poemID]
		t.Add(w, n)
		out[poemID] = t
	}, true)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) ListForPoem(ctx context.Context, poemID int64, page models.Page) ([]*models.FeatherVote, error) {
	query :=
		`SELECT ` + voteColumns + ` FROM feather_votes
		 WHERE poem_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3
		 `
	return r.list(ctx, query, poemID, page.Limit, page.Offset)
}

func (r *PostgresRepository) ListForVoter(ctx context.Context, voterID int64, page models.Page) ([]*models.FeatherVote, error) {
	query :=
		`SELECT ` + voteColumns + ` FROM feather_votes
		 WHERE voter_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3
		 `
	return r.list(ctx, query, voterID, page.Limit, page.Offset)
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, dbx.Classify(err)
	}
	return n, nil
}

// eachWeightCount scans (weight, count) rows, or (poem_id, weight, count)
// rows when withPoem is set.
func (r *PostgresRepository) eachWeightCount(ctx context.Context, query string, args []any,
	fn func(poemID int64, w vocab.FeatherWeight, n int), withPoem bool) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return dbx.Classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			poemID int64
			weight string
			n      int
		)
		if withPoem {
			err = rows.Scan(&poemID, &weight, &n)
		} else {
			err = rows.Scan(&weight, &n)
		}
		if err != nil {
			return dbx.Classify(err)
		}
		fn(poemID, vocab.FeatherWeight(weight), n)
	}
	return dbx.Classify(rows.Err())
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.FeatherVote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	var out []*models.FeatherVote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, dbx.Classify(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}

var _ Repository = (*PostgresRepository)(nil)
