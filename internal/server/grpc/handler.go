package grpc

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/lore"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

var _ api.PlumeServer = (*GRPCServer)(nil)

// caller returns the authenticated principal. Protected methods always have
// one; public methods may not.
func caller(ctx context.Context) (policy.Principal, error) {
	p, ok := policy.PrincipalFrom(ctx)
	if !ok {
		return policy.Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	return p, nil
}

func optionalCaller(ctx context.Context) policy.Principal {
	p, _ := policy.PrincipalFrom(ctx)
	return p
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.UserResponse, error) {
	u, err := s.services.Users.Register(ctx, req.Email, req.Pseudo, req.Password)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toUser(u, true)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	session, err := s.services.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &api.LoginResponse{AccessToken: session.AccessToken, User: toUser(session.User, true)}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.UserResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id := req.UserID
	if id == 0 {
		id = p.UserID
	}
	u, err := s.services.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toUser(u, id == p.UserID || p.IsAdmin())}, nil
}

func (s *GRPCServer) ChooseTotem(ctx context.Context, req *api.ChooseTotemRequest) (*api.UserResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.services.Users.ChooseTotem(ctx, p, req.TotemID)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toUser(u, true)}, nil
}

func (s *GRPCServer) UnlockUser(ctx context.Context, req *api.UserIDRequest) (*api.Empty, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Users.Unlock(ctx, p, req.UserID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *api.UserIDRequest) (*api.Empty, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id := req.UserID
	if id == 0 {
		id = p.UserID
	}
	if err := s.services.Users.Delete(ctx, p, id); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) ListRewards(ctx context.Context, req *api.GetUserRequest) (*api.ListRewardsResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id := req.UserID
	if id == 0 {
		id = p.UserID
	}
	list, err := s.services.Users.ListRewards(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*api.Reward, 0, len(list))
	for _, ur := range list {
		out = append(out, toUserReward(ur))
	}
	return &api.ListRewardsResponse{Rewards: out}, nil
}

func (s *GRPCServer) ListTotems(ctx context.Context, _ *api.Empty) (*api.ListTotemsResponse, error) {
	list, err := s.services.Totems.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*api.Totem, 0, len(list))
	for _, t := range list {
		out = append(out, toTotem(t))
	}
	return &api.ListTotemsResponse{Totems: out}, nil
}

func (s *GRPCServer) GetTotem(ctx context.Context, req *api.GetTotemRequest) (*api.TotemResponse, error) {
	t, err := s.services.Totems.Get(ctx, req.TotemID)
	if err != nil {
		return nil, err
	}
	return &api.TotemResponse{Totem: toTotem(t)}, nil
}

func (s *GRPCServer) CreateTotem(ctx context.Context, req *api.CreateTotemRequest) (*api.CreateTotemResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	t, url, err := s.services.Totems.Create(ctx, p, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	return &api.CreateTotemResponse{Totem: toTotem(t), UploadURL: url}, nil
}

func (s *GRPCServer) CreateDraft(ctx context.Context, req *api.CreateDraftRequest) (*api.PoemResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	poem, err := s.services.Poems.CreateDraft(ctx, p, req.Title, req.Content, vocab.Mood(req.Mood))
	if err != nil {
		return nil, err
	}
	return &api.PoemResponse{Poem: toPoem(poem)}, nil
}

func (s *GRPCServer) PublishPoem(ctx context.Context, req *api.PoemIDRequest) (*api.PoemResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	poem, err := s.services.Poems.Publish(ctx, p, req.PoemID)
	if err != nil {
		return nil, err
	}
	return &api.PoemResponse{Poem: toPoem(poem)}, nil
}

func (s *GRPCServer) UpdatePoem(ctx context.Context, req *api.UpdatePoemRequest) (*api.PoemResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	poem, err := s.services.Poems.Update(ctx, p, req.PoemID, toChanges(req))
	if err != nil {
		return nil, err
	}
	return &api.PoemResponse{Poem: toPoem(poem)}, nil
}

func (s *GRPCServer) DeletePoem(ctx context.Context, req *api.PoemIDRequest) (*api.Empty, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Poems.Delete(ctx, p, req.PoemID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) GetPoem(ctx context.Context, req *api.PoemIDRequest) (*api.PoemResponse, error) {
	poem, err := s.services.Poems.Get(ctx, optionalCaller(ctx), req.PoemID)
	if err != nil {
		return nil, err
	}
	return &api.PoemResponse{Poem: toPoem(poem)}, nil
}

func (s *GRPCServer) ListPoems(ctx context.Context, req *api.ListPoemsRequest) (*api.ListPoemsResponse, error) {
	var list []*models.Poem
	var err error
	if req.AuthorID != 0 {
		list, err = s.services.Poems.ListByAuthor(ctx, optionalCaller(ctx), req.AuthorID, toPage(req.Page))
	} else {
		list, err = s.services.Poems.ListPublished(ctx, toPage(req.Page))
	}
	if err != nil {
		return nil, err
	}
	return &api.ListPoemsResponse{Poems: toPoems(list)}, nil
}

func (s *GRPCServer) CastVote(ctx context.Context, req *api.CastVoteRequest) (*api.CastVoteResponse, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.services.Votes.CastVote(ctx, p, req.PoemID, vocab.FeatherWeight(req.Weight))
	if err != nil {
		return nil, err
	}
	resp := &api.CastVoteResponse{
		Vote:   toVote(out.Vote),
		Tally:  toTally(out.Tally),
		Symbol: string(out.Symbol),
	}
	for _, r := range out.Unlocked {
		resp.Unlocked = append(resp.Unlocked, toReward(r))
	}
	return resp, nil
}

func (s *GRPCServer) WithdrawVote(ctx context.Context, req *api.WithdrawVoteRequest) (*api.Empty, error) {
	p, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Votes.WithdrawVote(ctx, p, req.VoteID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) Tally(ctx context.Context, req *api.PoemIDRequest) (*api.TallyResponse, error) {
	t, sym, err := s.services.Votes.Tally(ctx, req.PoemID)
	if err != nil {
		return nil, err
	}
	return &api.TallyResponse{Tally: toTally(t), Symbol: string(sym)}, nil
}

func (s *GRPCServer) ListVotes(ctx context.Context, req *api.ListVotesRequest) (*api.ListVotesResponse, error) {
	page := toPage(req.Page)
	if req.PoemID != 0 {
		list, err := s.services.Votes.ListForPoem(ctx, req.PoemID, page)
		if err != nil {
			return nil, err
		}
		return &api.ListVotesResponse{Votes: toVotes(list)}, nil
	}

	voterID := req.VoterID
	if voterID == 0 {
		p, err := caller(ctx)
		if err != nil {
			return nil, err
		}
		voterID = p.UserID
	}
	list, err := s.services.Votes.ListForVoter(ctx, voterID, page)
	if err != nil {
		return nil, err
	}
	return &api.ListVotesResponse{Votes: toVotes(list)}, nil
}

func (s *GRPCServer) Lore(ctx context.Context, req *api.LoreRequest) (*api.LoreResponse, error) {
	entries, err := s.services.Lore.List(lore.Kind(req.Kind))
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	out := make([]*api.LoreEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLore(e))
	}
	return &api.LoreResponse{Entries: out}, nil
}
