package grpc

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/lore"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/services"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// seen records the principal each fake was called with.
type seen struct {
	mu sync.Mutex
	p  *policy.Principal
}

func (s *seen) set(p policy.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = &p
}

func (s *seen) get() *policy.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

type fakeUsers struct {
	seen
	user    *models.User
	session *services.Session
	err     error
}

func (f *fakeUsers) Register(context.Context, string, string, string) (*models.User, error) {
	return f.user, f.err
}
func (f *fakeUsers) Login(context.Context, string, string) (*services.Session, error) {
	return f.session, f.err
}
func (f *fakeUsers) ChooseTotem(_ context.Context, p policy.Principal, _ int64) (*models.User, error) {
	f.set(p)
	return f.user, f.err
}
func (f *fakeUsers) Unlock(_ context.Context, p policy.Principal, _ int64) error {
	f.set(p)
	return f.err
}
func (f *fakeUsers) Delete(_ context.Context, p policy.Principal, _ int64) error {
	f.set(p)
	return f.err
}
func (f *fakeUsers) Get(context.Context, int64) (*models.User, error) { return f.user, f.err }
func (f *fakeUsers) ListRewards(context.Context, int64) ([]*models.UserReward, error) {
	return nil, f.err
}

type fakeTotems struct {
	seen
	totems []*models.Totem
	err    error
}

func (f *fakeTotems) List(context.Context) ([]*models.Totem, error) { return f.totems, f.err }
func (f *fakeTotems) Get(context.Context, int64) (*models.Totem, error) {
	if len(f.totems) == 0 {
		return nil, apperrors.TotemNotFound(0)
	}
	return f.totems[0], f.err
}
func (f *fakeTotems) Create(_ context.Context, p policy.Principal, name, desc string) (*models.Totem, string, error) {
	f.set(p)
	return &models.Totem{ID: 1, Name: name, Description: desc}, "https://upload", f.err
}

type fakePoems struct {
	seen
	poem *models.Poem
	list []*models.Poem
	err  error
}

func (f *fakePoems) CreateDraft(_ context.Context, p policy.Principal, title, content string, mood vocab.Mood) (*models.Poem, error) {
	f.set(p)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Poem{ID: 1, AuthorID: p.UserID, Title: title, Content: content, Mood: mood, Status: vocab.StatusDraft, Symbol: vocab.SymbolWings}, nil
}
func (f *fakePoems) Publish(_ context.Context, p policy.Principal, _ int64) (*models.Poem, error) {
	f.set(p)
	return f.poem, f.err
}
func (f *fakePoems) Update(_ context.Context, p policy.Principal, _ int64, c models.PoemChanges) (*models.Poem, error) {
	f.set(p)
	if f.err != nil {
		return nil, f.err
	}
	out := *f.poem
	c.Apply(&out)
	return &out, nil
}
func (f *fakePoems) Delete(_ context.Context, p policy.Principal, _ int64) error {
	f.set(p)
	return f.err
}
func (f *fakePoems) Get(_ context.Context, p policy.Principal, _ int64) (*models.Poem, error) {
	f.set(p)
	return f.poem, f.err
}
func (f *fakePoems) ListPublished(context.Context, models.Page) ([]*models.Poem, error) {
	return f.list, f.err
}
func (f *fakePoems) ListByAuthor(_ context.Context, p policy.Principal, _ int64, _ models.Page) ([]*models.Poem, error) {
	f.set(p)
	return f.list, f.err
}

type fakeVotes struct {
	seen
	outcome *services.VoteOutcome
	votes   []*models.FeatherVote
	err     error
}

func (f *fakeVotes) CastVote(_ context.Context, p policy.Principal, _ int64, _ vocab.FeatherWeight) (*services.VoteOutcome, error) {
	f.set(p)
	return f.outcome, f.err
}
func (f *fakeVotes) WithdrawVote(_ context.Context, p policy.Principal, _ int64) error {
	f.set(p)
	return f.err
}
func (f *fakeVotes) Tally(context.Context, int64) (models.Tally, vocab.Symbol, error) {
	return models.Tally{Gold: 1}, vocab.SymbolMeteorShard, f.err
}
func (f *fakeVotes) ListForPoem(context.Context, int64, models.Page) ([]*models.FeatherVote, error) {
	return f.votes, f.err
}
func (f *fakeVotes) ListForVoter(context.Context, int64, models.Page) ([]*models.FeatherVote, error) {
	return f.votes, f.err
}

type fakes struct {
	users  *fakeUsers
	totems *fakeTotems
	poems  *fakePoems
	votes  *fakeVotes
}

func newFakes() (*fakes, Services) {
	catalog, err := lore.Default()
	if err != nil {
		panic(err)
	}
	f := &fakes{
		users:  &fakeUsers{},
		totems: &fakeTotems{},
		poems:  &fakePoems{},
		votes:  &fakeVotes{},
	}
	return f, Services{Users: f.users, Totems: f.totems, Poems: f.poems, Votes: f.votes, Lore: catalog}
}
