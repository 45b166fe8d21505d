package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/config"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/plume/internal/server/symbol"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// PoemService owns the draft -> published lifecycle.
type PoemService struct {
	base
	resolver *symbol.Resolver
	rewards  *RewardService
}

func NewPoemService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	resolver *symbol.Resolver, rewards *RewardService, opts ...Option) *PoemService {
	return &PoemService{
		base:     newBase(db, m, cfg.RepositoryTimeout, "poems", opts),
		resolver: resolver,
		rewards:  rewards,
	}
}

func validatePoemText(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.Validation("title must not be empty")
	}
	if strings.TrimSpace(content) == "" {
		return apperrors.Validation("content must not be empty")
	}
	return nil
}

// CreateDraft stores a new draft authored by p.
func (s *PoemService) CreateDraft(ctx context.Context, p policy.Principal, title, content string, mood vocab.Mood) (*models.Poem, error) {
	if err := validatePoemText(title, content); err != nil {
		return nil, err
	}
	if !mood.Valid() {
		return nil, apperrors.Validation("unknown mood " + string(mood))
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	poem, err := s.repomanager.Poems(s.db).Create(ctx, &models.Poem{
		AuthorID: p.UserID,
		Title:    title,
		Content:  content,
		Mood:     mood,
		Status:   vocab.StatusDraft,
	})
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "create draft")
	}
	poem.Symbol = vocab.SymbolWings

	s.log.Info(ctx, "draft created", "poem_id", poem.ID, "author_id", poem.AuthorID)
	return poem, nil
}

// Publish moves a draft to published. The author must hold a totem and must
// not be locked. Reward evaluation for the author happens in the same
// transaction.
func (s *PoemService) Publish(ctx context.Context, p policy.Principal, poemID int64) (*models.Poem, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var poem *models.Poem
	var granted []*models.Reward

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		poem, err = s.repomanager.Poems(tx).GetByID(ctx, poemID, dbx.LockForUpdate)
		if err != nil {
			return apperrors.FromStorage(err, apperrors.CodePoemNotFound, "load poem")
		}
		if err := authorize(p, policy.ActionPublishPoem, policy.Poem(poem)); err != nil {
			return err
		}
		if !poem.Status.CanTransitionTo(vocab.StatusPublished) {
			return apperrors.CannotPublishPoem(poem.ID)
		}

		author, err := s.repomanager.Users(tx).GetByID(ctx, poem.AuthorID)
		if err != nil {
			return apperrors.FromStorage(err, apperrors.CodeUserNotFound, "load author")
		}
		if author.Locked {
			return apperrors.UserLocked(author.ID)
		}
		if !author.HasTotem() {
			return apperrors.CannotPublishWithoutTotem(poem.ID, author.ID)
		}

		at := now()
		if err := s.repomanager.Poems(tx).MarkPublished(ctx, poem.ID, at); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return apperrors.CannotPublishPoem(poem.ID)
			}
			return apperrors.FromStorage(err, "", "publish poem")
		}
		poem.Status = vocab.StatusPublished
		poem.PublishedAt = &at
		poem.UpdatedAt = at

		granted, err = s.rewards.evaluateTx(ctx, tx, author.ID, EventPoemPublished)
		return err
	})
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "publish poem")
	}

	if err := s.withSymbol(ctx, poem); err != nil {
		return nil, err
	}

	s.metrics.PoemPublished()
	s.log.Info(ctx, "poem published", "poem_id", poem.ID, "rewards", len(granted))
	return poem, nil
}

// Update applies the present fields. Poems that already received a feather
// are frozen.
func (s *PoemService) Update(ctx context.Context, p policy.Principal, poemID int64, changes models.PoemChanges) (*models.Poem, error) {
	if changes.Empty() {
		return nil, apperrors.New(apperrors.CodeEmptyUpdate, "at least one of title, content or mood is required")
	}
	if changes.Title != nil && strings.TrimSpace(*changes.Title) == "" {
		return nil, apperrors.Validation("title must not be empty")
	}
	if changes.Content != nil && strings.TrimSpace(*changes.Content) == "" {
		return nil, apperrors.Validation("content must not be empty")
	}
	if changes.Mood != nil && !changes.Mood.Valid() {
		return nil, apperrors.Validation("unknown mood " + string(*changes.Mood))
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var poem *models.Poem
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		poem, err = s.repomanager.Poems(tx).GetByID(ctx, poemID, dbx.LockForUpdate)
		if err != nil {
			return apperrors.FromStorage(err, apperrors.CodePoemNotFound, "load poem")
		}
		if err := authorize(p, policy.ActionEditPoem, policy.Poem(poem)); err != nil {
			return err
		}

		n, err := s.repomanager.Votes(tx).CountByPoem(ctx, poem.ID)
		if err != nil {
			return apperrors.FromStorage(err, "", "count feathers")
		}
		if n > 0 {
			return apperrors.CannotUpdatePoem(poem.ID, n)
		}

		changes.Apply(poem)
		if err := s.repomanager.Poems(tx).Update(ctx, poem); err != nil {
			return apperrors.FromStorage(err, apperrors.CodePoemNotFound, "update poem")
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "update poem")
	}

	poem.Symbol = vocab.SymbolWings
	return poem, nil
}

// Delete removes a poem that never received a feather. Published poems
// qualify too: the vote count is the only guard.
func (s *PoemService) Delete(ctx context.Context, p policy.Principal, poemID int64) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		poem, err := s.repomanager.Poems(tx).GetByID(ctx, poemID, dbx.LockForUpdate)
		if err != nil {
			return apperrors.FromStorage(err, apperrors.CodePoemNotFound, "load poem")
		}
		if err := authorize(p, policy.ActionDeletePoem, policy.Poem(poem)); err != nil {
			return err
		}

		n, err := s.repomanager.Votes(tx).CountByPoem(ctx, poem.ID)
		if err != nil {
			return apperrors.FromStorage(err, "", "count feathers")
		}
		if n > 0 {
			return apperrors.CannotDeletePoemWithVotes(poem.ID, n)
		}

		err = s.repomanager.Poems(tx).Delete(ctx, poem.ID)
		switch {
		case errors.Is(err, common.ErrorReferenced):
			return apperrors.CannotDeletePoemWithVotes(poem.ID, 1)
		case err != nil:
			return apperrors.FromStorage(err, apperrors.CodePoemNotFound, "delete poem")
		}
		return nil
	})
	if err != nil {
		return apperrors.FromStorage(err, "", "delete poem")
	}

	s.metrics.PoemDeleted()
	s.log.Info(ctx, "poem deleted", "poem_id", poemID)
	return nil
}

// Get returns a poem with its current symbol. Drafts are visible to their
// author and to admins only; anybody else gets PoemNotFound.
func (s *PoemService) Get(ctx context.Context, p policy.Principal, poemID int64) (*models.Poem, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	poem, err := s.repomanager.Poems(s.db).GetByID(ctx, poemID, dbx.NoLock)
	if err != nil {
		return nil, apperrors.FromStorage(err, apperrors.CodePoemNotFound, "load poem")
	}
	if !poem.IsPublished() && !policy.Can(p, policy.ActionReadDraft, policy.Poem(poem)) {
		return nil, apperrors.PoemNotFound(poemID)
	}
	if err := s.withSymbol(ctx, poem); err != nil {
		return nil, err
	}
	return poem, nil
}

// ListPublished returns published poems, newest first.
func (s *PoemService) ListPublished(ctx context.Context, page models.Page) ([]*models.Poem, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	list, err := s.repomanager.Poems(s.db).ListPublished(ctx, normalizePage(page))
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "list poems")
	}
	for _, poem := range list {
		if err := s.withSymbol(ctx, poem); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ListByAuthor lists an author's poems; drafts are included only when p
// may read them.
func (s *PoemService) ListByAuthor(ctx context.Context, p policy.Principal, authorID int64, page models.Page) ([]*models.Poem, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	includeDrafts := policy.Can(p, policy.ActionReadDraft, policy.Resource{Kind: policy.ResourcePoem, OwnerID: authorID})

	list, err := s.repomanager.Poems(s.db).ListByAuthor(ctx, authorID, includeDrafts, normalizePage(page))
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "list poems")
	}

	tallies, err := s.repomanager.Votes(s.db).TalliesByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "tally feathers")
	}
	for _, poem := range list {
		poem.Symbol = s.resolver.Resolve(tallies[poem.ID])
	}
	return list, nil
}

func (s *PoemService) withSymbol(ctx context.Context, poem *models.Poem) error {
	t, err := s.repomanager.Votes(s.db).TallyByPoem(ctx, poem.ID)
	if err != nil {
		return apperrors.FromStorage(err, "", "tally feathers")
	}
	poem.Symbol = s.resolver.Resolve(t)
	return nil
}
