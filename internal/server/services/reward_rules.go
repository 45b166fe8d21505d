package services

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/repositories/poems"
	"github.com/dmitrijs2005/plume/internal/server/repositories/votes"
	"github.com/dmitrijs2005/plume/internal/server/symbol"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// Rule ties a reward code to the events that may unlock it and the
// predicate over the user's standing.
type Rule struct {
	Code      string
	Triggers  []Event
	Qualifies func(ctx context.Context, s *Standing) (bool, error)
}

func (r Rule) triggeredBy(e Event) bool {
	for _, t := range r.Triggers {
		if t == e {
			return true
		}
	}
	return false
}

// DefaultRules is the catalog seeded by the migrations.
func DefaultRules() []Rule {
	return []Rule{
		{
			Code:     "FIRST_FEATHER_CAST",
			Triggers: []Event{EventVoteCast},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				n, err := s.VotesCast(ctx)
				return n >= 1, err
			},
		},
		{
			Code:     "GENEROUS_READER",
			Triggers: []Event{EventVoteCast},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				n, err := s.VotesCast(ctx)
				return n >= 10, err
			},
		},
		{
			Code:     "FIRST_POEM_PUBLISHED",
			Triggers: []Event{EventPoemPublished},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				n, err := s.PoemsPublished(ctx)
				return n >= 1, err
			},
		},
		{
			Code:     "PROLIFIC_POET",
			Triggers: []Event{EventPoemPublished},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				n, err := s.PoemsPublished(ctx)
				return n >= 5, err
			},
		},
		{
			Code:     "FIRST_FEATHER_RECEIVED",
			Triggers: []Event{EventVoteReceived},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				t, err := s.Received(ctx)
				return t.Total() >= 1, err
			},
		},
		{
			Code:     "GOLDEN_QUILL",
			Triggers: []Event{EventVoteReceived},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				t, err := s.Received(ctx)
				return t.Gold >= 10, err
			},
		},
		{
			Code:     "HALO_BEARER",
			Triggers: []Event{EventVoteReceived},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				symbols, err := s.SymbolsReached(ctx)
				return symbols[vocab.SymbolHalo], err
			},
		},
		{
			Code:     "SYMBOL_COLLECTOR",
			Triggers: []Event{EventVoteReceived},
			Qualifies: func(ctx context.Context, s *Standing) (bool, error) {
				symbols, err := s.SymbolsReached(ctx)
				return len(symbols) >= 3, err
			},
		},
	}
}

// Standing is the lazily loaded aggregate state of one user, shared by the
// rules of a single evaluation.
type Standing struct {
	userID   int64
	votes    votes.Repository
	poems    poems.Repository
	resolver *symbol.Resolver

	votesCast      *int
	poemsPublished *int
	received       *models.Tally
	symbols        map[vocab.Symbol]bool
}

func (s *Standing) VotesCast(ctx context.Context) (int, error) {
	if s.votesCast == nil {
		n, err := s.votes.CountByVoter(ctx, s.userID)
		if err != nil {
			return 0, err
		}
		s.votesCast = &n
	}
	return *s.votesCast, nil
}

func (s *Standing) PoemsPublished(ctx context.Context) (int, error) {
	if s.poemsPublished == nil {
		n, err := s.poems.CountByAuthor(ctx, s.userID, true)
		if err != nil {
			return 0, err
		}
		s.poemsPublished = &n
	}
	return *s.poemsPublished, nil
}

// Received is the tally over all poems the user wrote.
func (s *Standing) Received(ctx context.Context) (models.Tally, error) {
	if s.received == nil {
		t, err := s.votes.TallyReceivedByAuthor(ctx, s.userID)
		if err != nil {
			return models.Tally{}, err
		}
		s.received = &t
	}
	return *s.received, nil
}

// SymbolsReached is the set of symbols, wings excluded, currently held by
// the user's poems.
func (s *Standing) SymbolsReached(ctx context.Context) (map[vocab.Symbol]bool, error) {
	if s.symbols == nil {
		tallies, err := s.votes.TalliesByAuthor(ctx, s.userID)
		if err != nil {
			return nil, err
		}
		s.symbols = make(map[vocab.Symbol]bool)
		for _, t := range tallies {
			if sym := s.resolver.Resolve(t); sym != vocab.SymbolWings {
				s.symbols[sym] = true
			}
		}
	}
	return s.symbols, nil
}
