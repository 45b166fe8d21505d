package models

import (
	"time"

	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// FeatherVote is one reader's weighted endorsement of one poem.
// At most one exists per (VoterID, PoemID).
type FeatherVote struct {
	ID        int64
	VoterID   int64
	PoemID    int64
	Weight    vocab.FeatherWeight
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tally counts the feathers a poem (or an author) received, by weight.
type Tally struct {
	Bronze int
	Silver int
	Gold   int
}

func (t Tally) Total() int {
	return t.Bronze + t.Silver + t.Gold
}

// Add increments the counter matching w.
func (t *Tally) Add(w vocab.FeatherWeight, n int) {
	switch w {
	case vocab.FeatherBronze:
		t.Bronze += n
	case vocab.FeatherSilver:
		t.Silver += n
	case vocab.FeatherGold:
		t.Gold += n
	}
}
