package votes

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, vote *models.FeatherVote) (*models.FeatherVote, error)
	GetByID(ctx context.Context, id int64) (*models.FeatherVote, error)
	FindOneByVoterAndPoem(ctx context.Context, voterID, poemID int64) (*models.FeatherVote, error)
	Delete(ctx context.Context, id int64) error
	CountByPoem(ctx context.Context, poemID int64) (int, error)
	CountByVoter(ctx context.Context, voterID int64) (int, error)
	TallyByPoem(ctx context.Context, poemID int64) (models.Tally, error)
	TallyReceivedByAuthor(ctx context.Context, authorID int64) (models.Tally, error)
	TalliesByAuthor(ctx context.Context, authorID int64) (map[int64]models.Tally, error)
	ListForPoem(ctx context.Context, poemID int64, page models.Page) ([]*models.FeatherVote, error)
	ListForVoter(ctx context.Context, voterID int64, page models.Page) ([]*models.FeatherVote, error)
}
