package client

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/api"
)

// Client is the CLI's view of the Plume backend.
type Client interface {
	Close() error
	SetAccessToken(token string)
	Ping(ctx context.Context) error

	Register(ctx context.Context, email, pseudo, password string) (*api.User, error)
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	GetUser(ctx context.Context, userID int64) (*api.User, error)
	ChooseTotem(ctx context.Context, totemID int64) (*api.User, error)
	UnlockUser(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
	ListRewards(ctx context.Context, userID int64) ([]*api.Reward, error)

	ListTotems(ctx context.Context) ([]*api.Totem, error)
	GetTotem(ctx context.Context, totemID int64) (*api.Totem, error)
	CreateTotem(ctx context.Context, name, description string) (*api.Totem, string, error)

	CreateDraft(ctx context.Context, title, content, mood string) (*api.Poem, error)
	PublishPoem(ctx context.Context, poemID int64) (*api.Poem, error)
	UpdatePoem(ctx context.Context, req *api.UpdatePoemRequest) (*api.Poem, error)
	DeletePoem(ctx context.Context, poemID int64) error
	GetPoem(ctx context.Context, poemID int64) (*api.Poem, error)
	ListPoems(ctx context.Context, authorID int64, page api.Page) ([]*api.Poem, error)

	CastVote(ctx context.Context, poemID int64, weight string) (*api.CastVoteResponse, error)
	WithdrawVote(ctx context.Context, voteID int64) error
	Tally(ctx context.Context, poemID int64) (*api.TallyResponse, error)
	ListVotes(ctx context.Context, req *api.ListVotesRequest) ([]*api.Vote, error)

	Lore(ctx context.Context, kind string) ([]*api.LoreEntry, error)
}
