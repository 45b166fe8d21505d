package models

import "time"

// Reward is an entry in the static achievement catalog.
type Reward struct {
	ID    int64
	Code  string
	Label string
}

// UserReward records that a reward was granted; at most one per (UserID, RewardID).
type UserReward struct {
	ID        int64
	UserID    int64
	RewardID  int64
	GrantedAt time.Time
	Reward    *Reward
}
