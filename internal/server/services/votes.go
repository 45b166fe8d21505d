package services

import (
	"context"
	"database/sql"
	"errors"

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

// VoteOutcome is what an admitted feather produced.
type VoteOutcome struct {
	Vote *models.FeatherVote
	// Tally and Symbol describe the poem right after the vote.
	Tally  models.Tally
	Symbol vocab.Symbol
	// Unlocked lists the voter's rewards granted by this vote.
	Unlocked []*models.Reward
}

type VoteService struct {
	base
	resolver *symbol.Resolver
	rewards  *RewardService
}

func NewVoteService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	resolver *symbol.Resolver, rewards *RewardService, opts ...Option) *VoteService {
	return &VoteService{
		base:     newBase(db, m, cfg.RepositoryTimeout, "votes", opts),
		resolver: resolver,
		rewards:  rewards,
	}
}

// CastVote admits one feather of the given weight from p on a published
// poem. The unique (voter, poem) constraint is the final arbiter: a
// concurrent duplicate that slips past the lookup fails the same way.
func (s *VoteService) CastVote(ctx context.Context, p policy.Principal, poemID int64, weight vocab.FeatherWeight) (*VoteOutcome, error) {
	if !weight.Valid() {
		return nil, apperrors.Validation("unknown feather weight " + string(weight))
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	out := &VoteOutcome{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		voter, err := s.repomanager.Users(tx).GetByID(ctx, p.UserID)
		if err != nil {
			return apperrors.FromStorage(err, apperrors.CodeUserNotFound, "load voter")
		}

		poem, err := s.repomanager.Poems(tx).GetByID(ctx, poemID, dbx.LockForShare)
		if err != nil {
			return apperrors.FromStorage(err, apperrors.CodePoemNotFound, "load poem")
		}
		if poem.AuthorID == voter.ID {
			return apperrors.CannotVoteOwnPoem(voter.ID, poem.ID)
		}
		if voter.Locked {
			return apperrors.UserLocked(voter.ID)
		}
		if !poem.IsPublished() {
			return apperrors.PoemNotFound(poem.ID)
		}

		repo := s.repomanager.Votes(tx)
		_, err = repo.FindOneByVoterAndPoem(ctx, voter.ID, poem.ID)
		switch {
		case err == nil:
			return apperrors.VoteAlreadyCast(voter.ID, poem.ID)
		case !errors.Is(err, common.ErrorNotFound):
			return apperrors.FromStorage(err, "", "look up feather")
		}

		out.Vote, err = repo.Create(ctx, &models.FeatherVote{VoterID: voter.ID, PoemID: poem.ID, Weight: weight})
		if errors.Is(err, common.ErrorAlreadyExists) {
			return apperrors.VoteAlreadyCast(voter.ID, poem.ID)
		}
		if err != nil {
			return apperrors.FromStorage(err, "", "store feather")
		}

		out.Unlocked, err = s.rewards.evaluateTx(ctx, tx, voter.ID, EventVoteCast)
		if err != nil {
			return err
		}
		if _, err := s.rewards.evaluateTx(ctx, tx, poem.AuthorID, EventVoteReceived); err != nil {
			return err
		}

		out.Tally, err = repo.TallyByPoem(ctx, poem.ID)
		if err != nil {
			return apperrors.FromStorage(err, "", "tally feathers")
		}
		out.Symbol = s.resolver.Resolve(out.Tally)
		return nil
	})
	if err != nil {
		err = apperrors.FromStorage(err, "", "cast feather")
		s.metrics.VoteRejected(string(apperrors.CodeOf(err)))
		return nil, err
	}

	s.metrics.VoteCast(string(weight))
	s.log.Info(ctx, "feather cast", "vote_id", out.Vote.ID, "poem_id", poemID, "weight", string(weight), "symbol", string(out.Symbol))
	return out, nil
}

// WithdrawVote deletes a vote on behalf of its voter or an admin.
func (s *VoteService) WithdrawVote(ctx context.Context, p policy.Principal, voteID int64) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Votes(tx)
		vote, err := repo.GetByID(ctx, voteID)
		if err != nil {
			return apperrors.FromStorage(err, apperrors.CodeFeatherVoteNotFound, "load feather")
		}
		if err := authorize(p, policy.ActionWithdrawVote, policy.Vote(vote)); err != nil {
			return err
		}
		if err := repo.Delete(ctx, vote.ID); err != nil {
			return apperrors.FromStorage(err, apperrors.CodeFeatherVoteNotFound, "delete feather")
		}
		return nil
	})
	if err != nil {
		return apperrors.FromStorage(err, "", "withdraw feather")
	}

	s.metrics.VoteWithdrawn()
	s.log.Info(ctx, "feather withdrawn", "vote_id", voteID, "by", p.UserID)
	return nil
}

// Tally aggregates the feathers on a poem and resolves its symbol.
func (s *VoteService) Tally(ctx context.Context, poemID int64) (models.Tally, vocab.Symbol, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	if _, err := s.repomanager.Poems(s.db).GetByID(ctx, poemID, dbx.NoLock); err != nil {
		return models.Tally{}, "", apperrors.FromStorage(err, apperrors.CodePoemNotFound, "load poem")
	}
	t, err := s.repomanager.Votes(s.db).TallyByPoem(ctx, poemID)
	if err != nil {
		return models.Tally{}, "", apperrors.FromStorage(err, "", "tally feathers")
	}
	return t, s.resolver.Resolve(t), nil
}

func (s *VoteService) ListForPoem(ctx context.Context, poemID int64, page models.Page) ([]*models.FeatherVote, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	list, err := s.repomanager.Votes(s.db).ListForPoem(ctx, poemID, normalizePage(page))
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "list feathers")
	}
	return list, nil
}

func (s *VoteService) ListForVoter(ctx context.Context, voterID int64, page models.Page) ([]*models.FeatherVote, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	list, err := s.repomanager.Votes(s.db).ListForVoter(ctx, voterID, normalizePage(page))
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "list feathers")
	}
	return list, nil
}
