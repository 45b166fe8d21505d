package poems

import (
	"context"
	"time"

	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, poem *models.Poem) (*models.Poem, error)
	GetByID(ctx context.Context, id int64, lock dbx.LockMode) (*models.Poem, error)
	Update(ctx context.Context, poem *models.Poem) error
	MarkPublished(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	ListPublished(ctx context.Context, page models.Page) ([]*models.Poem, error)
	ListByAuthor(ctx context.Context, authorID int64, includeDrafts bool, page models.Page) ([]*models.Poem, error)
	CountByAuthor(ctx context.Context, authorID int64, publishedOnly bool) (int, error)
}
