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
	"github.com/dmitrijs2005/plume/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/plume/internal/server/symbol"
)

// Event describes what just happened to the user being evaluated.
type Event string

const (
	EventVoteCast      Event = "vote_cast"
	EventVoteReceived  Event = "vote_received"
	EventPoemPublished Event = "poem_published"
)

// RewardService grants rewards whose predicate the user satisfies, at most
// once per (user, reward).
type RewardService struct {
	base
	resolver *symbol.Resolver
	rules    []Rule
}

func NewRewardService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	resolver *symbol.Resolver, opts ...Option) *RewardService {
	return &RewardService{
		base:     newBase(db, m, cfg.RepositoryTimeout, "rewards", opts),
		resolver: resolver,
		rules:    DefaultRules(),
	}
}

// Evaluate checks every rule triggered by event for userID in its own
// transaction and returns the rewards granted by this call.
func (s *RewardService) Evaluate(ctx context.Context, userID int64, event Event) ([]*models.Reward, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var granted []*models.Reward
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		granted, err = s.evaluateTx(ctx, tx, userID, event)
		return err
	})
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "evaluate rewards")
	}
	return granted, nil
}

// evaluateTx runs inside the caller's transaction so the grant commits
// together with the triggering write. A rule naming a reward missing from
// the catalog is logged and skipped.
func (s *RewardService) evaluateTx(ctx context.Context, tx dbx.DBTX, userID int64, event Event) ([]*models.Reward, error) {
	st := &Standing{
		userID:   userID,
		votes:    s.repomanager.Votes(tx),
		poems:    s.repomanager.Poems(tx),
		resolver: s.resolver,
	}
	catalog := s.repomanager.Rewards(tx)
	grants := s.repomanager.UserRewards(tx)

	var granted []*models.Reward
	for _, rule := range s.rules {
		if !rule.triggeredBy(event) {
			continue
		}

		ok, err := rule.Qualifies(ctx, st)
		if err != nil {
			return nil, apperrors.FromStorage(err, "", "evaluate "+rule.Code)
		}
		if !ok {
			continue
		}

		reward, err := catalog.GetByCode(ctx, rule.Code)
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "reward missing from catalog", "error", apperrors.RewardNotFound(rule.Code), "code", rule.Code)
			continue
		}
		if err != nil {
			return nil, apperrors.FromStorage(err, "", "load reward "+rule.Code)
		}

		_, err = grants.Grant(ctx, userID, reward.ID)
		if errors.Is(err, common.ErrorAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, apperrors.FromStorage(err, "", "grant reward "+rule.Code)
		}

		s.metrics.RewardGranted(reward.Code)
		s.log.Info(ctx, "reward granted", "user_id", userID, "code", reward.Code, "event", string(event))
		granted = append(granted, reward)
	}
	return granted, nil
}
