package cli

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/dmitrijs2005/plume/internal/client/models"
	"github.com/dmitrijs2005/plume/internal/common"
)

type call struct {
	name string
	args []any
}

// fakeClient records every call; err, when set, is returned by all of them.
type fakeClient struct {
	mu     sync.Mutex
	token  string
	calls  []call
	err    error
	closed bool

	user    *api.User
	poems   []*api.Poem
	outcome *api.CastVoteResponse
	rewards []*api.Reward
	totems  []*api.Totem
	entries []*api.LoreEntry
	update  *api.UpdatePoemRequest
	listReq *api.ListVotesRequest
}

func (f *fakeClient) record(name string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{name: name, args: args})
	return f.err
}

func (f *fakeClient) called(name string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.name == name {
			return c.args
		}
	}
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeClient) SetAccessToken(token string) { f.token = token }

func (f *fakeClient) Ping(context.Context) error { return f.record("Ping") }

func (f *fakeClient) Register(_ context.Context, email, pseudo, password string) (*api.User, error) {
	if err := f.record("Register", email, pseudo, password); err != nil {
		return nil, err
	}
	return &api.User{ID: 9, Pseudo: pseudo, Role: "user"}, nil
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*api.LoginResponse, error) {
	if err := f.record("Login", email, password); err != nil {
		return nil, err
	}
	f.token = "tok"
	return &api.LoginResponse{AccessToken: "tok", User: f.user}, nil
}

func (f *fakeClient) GetUser(_ context.Context, id int64) (*api.User, error) {
	if err := f.record("GetUser", id); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeClient) ChooseTotem(_ context.Context, id int64) (*api.User, error) {
	if err := f.record("ChooseTotem", id); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeClient) UnlockUser(_ context.Context, id int64) error {
	return f.record("UnlockUser", id)
}

func (f *fakeClient) DeleteUser(_ context.Context, id int64) error {
	return f.record("DeleteUser", id)
}

func (f *fakeClient) ListRewards(_ context.Context, id int64) ([]*api.Reward, error) {
	if err := f.record("ListRewards", id); err != nil {
		return nil, err
	}
	return f.rewards, nil
}

func (f *fakeClient) ListTotems(context.Context) ([]*api.Totem, error) {
	if err := f.record("ListTotems"); err != nil {
		return nil, err
	}
	return f.totems, nil
}

func (f *fakeClient) GetTotem(_ context.Context, id int64) (*api.Totem, error) {
	if err := f.record("GetTotem", id); err != nil {
		return nil, err
	}
	return f.totems[0], nil
}

func (f *fakeClient) CreateTotem(_ context.Context, name, description string) (*api.Totem, string, error) {
	if err := f.record("CreateTotem", name, description); err != nil {
		return nil, "", err
	}
	return &api.Totem{ID: 4, Name: name, Description: description}, "https://s3.test/put/totems/x", nil
}

func (f *fakeClient) CreateDraft(_ context.Context, title, content, mood string) (*api.Poem, error) {
	if err := f.record("CreateDraft", title, content, mood); err != nil {
		return nil, err
	}
	return &api.Poem{ID: 12, Title: title, Content: content, Mood: mood, Status: "draft", Symbol: "wings"}, nil
}

func (f *fakeClient) PublishPoem(_ context.Context, id int64) (*api.Poem, error) {
	if err := f.record("PublishPoem", id); err != nil {
		return nil, err
	}
	return &api.Poem{ID: id, Title: "Ember", Status: "published"}, nil
}

func (f *fakeClient) UpdatePoem(_ context.Context, req *api.UpdatePoemRequest) (*api.Poem, error) {
	f.update = req
	if err := f.record("UpdatePoem", req.PoemID); err != nil {
		return nil, err
	}
	return &api.Poem{ID: req.PoemID}, nil
}

func (f *fakeClient) DeletePoem(_ context.Context, id int64) error {
	return f.record("DeletePoem", id)
}

func (f *fakeClient) GetPoem(_ context.Context, id int64) (*api.Poem, error) {
	if err := f.record("GetPoem", id); err != nil {
		return nil, err
	}
	return f.poems[0], nil
}

func (f *fakeClient) ListPoems(_ context.Context, authorID int64, page api.Page) ([]*api.Poem, error) {
	if err := f.record("ListPoems", authorID, page); err != nil {
		return nil, err
	}
	return f.poems, nil
}

func (f *fakeClient) CastVote(_ context.Context, poemID int64, weight string) (*api.CastVoteResponse, error) {
	if err := f.record("CastVote", poemID, weight); err != nil {
		return nil, err
	}
	return f.outcome, nil
}

func (f *fakeClient) WithdrawVote(_ context.Context, id int64) error {
	return f.record("WithdrawVote", id)
}

func (f *fakeClient) Tally(_ context.Context, id int64) (*api.TallyResponse, error) {
	if err := f.record("Tally", id); err != nil {
		return nil, err
	}
	return &api.TallyResponse{Tally: api.Tally{Bronze: 2, Gold: 1}, Symbol: "meteor_shard"}, nil
}

func (f *fakeClient) ListVotes(_ context.Context, req *api.ListVotesRequest) ([]*api.Vote, error) {
	f.listReq = req
	if err := f.record("ListVotes"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeClient) Lore(_ context.Context, kind string) ([]*api.LoreEntry, error) {
	if err := f.record("Lore", kind); err != nil {
		return nil, err
	}
	return f.entries, nil
}

type memSessions struct {
	mu   sync.Mutex
	rows map[string]*models.Session
}

func newMemSessions() *memSessions {
	return &memSessions{rows: map[string]*models.Session{}}
}

func (m *memSessions) Get(_ context.Context, server string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[server]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.rows[s.Server] = &cp
	return nil
}

func (m *memSessions) Delete(_ context.Context, server string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, server)
	return nil
}
