// Package symbol derives a poem's symbol from its feather tally.
//
// The tally is reduced to a weighted score; the score is then placed on a
// ladder of thresholds. Any non-zero score earns at least a meteor shard,
// and a poem nobody has voted on keeps its wings.
package symbol

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// Weights is the score each feather weight contributes.
type Weights struct {
	Bronze int
	Silver int
	Gold   int
}

// Thresholds are the minimum scores for the upper symbols.
type Thresholds struct {
	Vortex  int
	Horizon int
	Halo    int
}

// Policy bundles the scoring inputs of the resolver.
type Policy struct {
	Weights    Weights
	Thresholds Thresholds
}

// DefaultPolicy scores bronze=1, silver=3, gold=9 and climbs to vortex at
// 10, horizon at 30 and halo at 75.
func DefaultPolicy() Policy {
	return Policy{
		Weights:    Weights{Bronze: 1, Silver: 3, Gold: 9},
		Thresholds: Thresholds{Vortex: 10, Horizon: 30, Halo: 75},
	}
}

var ErrInvalidPolicy = errors.New("invalid symbol policy")

// Validate rejects policies that would break monotonicity: weights must be
// positive and thresholds strictly increasing above 1.
func (p Policy) Validate() error {
	w, t := p.Weights, p.Thresholds
	if w.Bronze <= 0 || w.Silver <= 0 || w.Gold <= 0 {
		return fmt.Errorf("%w: weights must be positive, got %+v", ErrInvalidPolicy, w)
	}
	if t.Vortex <= 1 || t.Horizon <= t.Vortex || t.Halo <= t.Horizon {
		return fmt.Errorf("%w: thresholds must satisfy 1 < vortex < horizon < halo, got %+v", ErrInvalidPolicy, t)
	}
	return nil
}

type Resolver struct {
	policy Policy
}

func NewResolver(p Policy) (*Resolver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{policy: p}, nil
}

// MustDefault returns a resolver over DefaultPolicy.
func MustDefault() *Resolver {
	r, err := NewResolver(DefaultPolicy())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Resolver) Policy() Policy {
	return r.policy
}

// Score computes the weighted sum of t.
func (r *Resolver) Score(t models.Tally) int {
	w := r.policy.Weights
	return t.Bronze*w.Bronze + t.Silver*w.Silver + t.Gold*w.Gold
}

// ForScore places a score on the symbol ladder.
func (r *Resolver) ForScore(score int) vocab.Symbol {
	t := r.policy.Thresholds
	switch {
	case score <= 0:
		return vocab.SymbolWings
	case score >= t.Halo:
		return vocab.SymbolHalo
	case score >= t.Horizon:
		return vocab.SymbolHorizon
	case score >= t.Vortex:
		return vocab.SymbolVortex
	default:
		return vocab.SymbolMeteorShard
	}
}

// Resolve returns the symbol earned by t.
func (r *Resolver) Resolve(t models.Tally) vocab.Symbol {
	return r.ForScore(r.Score(t))
}
