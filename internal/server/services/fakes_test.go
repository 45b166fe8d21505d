package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/config"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/repositories/poems"
	"github.com/dmitrijs2005/plume/internal/server/repositories/rewards"
	"github.com/dmitrijs2005/plume/internal/server/repositories/totems"
	"github.com/dmitrijs2005/plume/internal/server/repositories/userrewards"
	"github.com/dmitrijs2005/plume/internal/server/repositories/users"
	"github.com/dmitrijs2005/plume/internal/server/repositories/votes"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// store is an in-memory backing for every fake repository. Transactions are
// not modelled: rules under test fail before any write.
type store struct {
	mu sync.Mutex

	nextID      int64
	users       map[int64]*models.User
	totems      map[int64]*models.Totem
	poems       map[int64]*models.Poem
	votes       map[int64]*models.FeatherVote
	rewards     map[string]*models.Reward
	userRewards []*models.UserReward

	// err, when set, is returned by the named operation ("Poems.GetByID").
	err map[string]error
}

func newStore() *store {
	return &store{
		users:   map[int64]*models.User{},
		totems:  map[int64]*models.Totem{},
		poems:   map[int64]*models.Poem{},
		votes:   map[int64]*models.FeatherVote{},
		rewards: map[string]*models.Reward{},
		err:     map[string]error{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) fail(op string) error {
	return s.err[op]
}

// seedCatalog installs every reward code used by DefaultRules.
func (s *store) seedCatalog() {
	for _, r := range DefaultRules() {
		s.rewards[r.Code] = &models.Reward{ID: s.id(), Code: r.Code, Label: strings.ToLower(r.Code)}
	}
}

func (s *store) addUser(email string, role vocab.Role, totemID *int64) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.id(), Email: email, Pseudo: email, Role: role, TotemID: totemID}
	s.users[u.ID] = u
	return u
}

func (s *store) addTotem(name string) *models.Totem {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Totem{ID: s.id(), Name: name, PictureKey: "totems/" + name}
	s.totems[t.ID] = t
	return t
}

func (s *store) voteCount(poemID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.votes {
		if v.PoemID == poemID {
			n++
		}
	}
	return n
}

func (s *store) grantedCodes(userID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, ur := range s.userRewards {
		if ur.UserID == userID {
			out = append(out, ur.Reward.Code)
		}
	}
	sort.Strings(out)
	return out
}

func clonePoem(p *models.Poem) *models.Poem {
	c := *p
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

// --- users ---

type fakeUsers struct{ s *store }

func (r fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.Create"); err != nil {
		return nil, err
	}
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := cloneUser(u)
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r fakeUsers) SetTotem(_ context.Context, userID, totemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	if u.TotemID != nil {
		return common.ErrorAlreadyExists
	}
	u.TotemID = &totemID
	return nil
}

func (r fakeUsers) RecordLoginOutcome(_ context.Context, userID int64, success bool, maxFailures int) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if success {
		u.FailedLoginCount = 0
	} else {
		u.FailedLoginCount++
		if maxFailures > 0 && u.FailedLoginCount >= maxFailures {
			u.Locked = true
		}
	}
	return cloneUser(u), nil
}

func (r fakeUsers) Unlock(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Locked = false
	u.FailedLoginCount = 0
	return nil
}

func (r fakeUsers) Delete(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.users[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, userID)
	return nil
}

// --- totems ---

type fakeTotems struct{ s *store }

func (r fakeTotems) Create(_ context.Context, t *models.Totem) (*models.Totem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.totems {
		if x.Name == t.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *t
	c.ID = r.s.id()
	r.s.totems[c.ID] = &c
	out := c
	return &out, nil
}

func (r fakeTotems) GetByID(_ context.Context, id int64) (*models.Totem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.totems[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (r fakeTotems) List(_ context.Context) ([]*models.Totem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Totem
	for _, t := range r.s.totems {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- poems ---

type fakePoems struct{ s *store }

func (r fakePoems) Create(_ context.Context, p *models.Poem) (*models.Poem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := clonePoem(p)
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.poems[c.ID] = c
	return clonePoem(c), nil
}

func (r fakePoems) GetByID(_ context.Context, id int64, _ dbx.LockMode) (*models.Poem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Poems.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.poems[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clonePoem(p), nil
}

func (r fakePoems) Update(_ context.Context, p *models.Poem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.poems[p.ID]; !ok {
		return common.ErrorNotFound
	}
	r.s.poems[p.ID] = clonePoem(p)
	return nil
}

func (r fakePoems) MarkPublished(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.poems[id]
	if !ok || p.Status != vocab.StatusDraft {
		return common.ErrorNotFound
	}
	p.Status = vocab.StatusPublished
	p.PublishedAt = &at
	p.UpdatedAt = at
	return nil
}

func (r fakePoems) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Poems.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.poems[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.poems, id)
	return nil
}

func (r fakePoems) filter(keep func(*models.Poem) bool, page models.Page) []*models.Poem {
	var out []*models.Poem
	for _, p := range r.s.poems {
		if keep(p) {
			out = append(out, clonePoem(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if page.Offset >= len(out) {
		return nil
	}
	out = out[page.Offset:]
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return out
}

func (r fakePoems) ListPublished(_ context.Context, page models.Page) ([]*models.Poem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(p *models.Poem) bool { return p.IsPublished() }, page), nil
}

func (r fakePoems) ListByAuthor(_ context.Context, authorID int64, includeDrafts bool, page models.Page) ([]*models.Poem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(p *models.Poem) bool {
		return p.AuthorID == authorID && (includeDrafts || p.IsPublished())
	}, page), nil
}

func (r fakePoems) CountByAuthor(_ context.Context, authorID int64, publishedOnly bool) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.poems {
		if p.AuthorID == authorID && (!publishedOnly || p.IsPublished()) {
			n++
		}
	}
	return n, nil
}

// --- votes ---

type fakeVotes struct{ s *store }

func (r fakeVotes) Create(_ context.Context, v *models.FeatherVote) (*models.FeatherVote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Votes.Create"); err != nil {
		return nil, err
	}
	for _, x := range r.s.votes {
		if x.VoterID == v.VoterID && x.PoemID == v.PoemID {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *v
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	r.s.votes[c.ID] = &c
	out := c
	return &out, nil
}

func (r fakeVotes) GetByID(_ context.Context, id int64) (*models.FeatherVote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.votes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *v
	return &c, nil
}

func (r fakeVotes) FindOneByVoterAndPoem(_ context.Context, voterID, poemID int64) (*models.FeatherVote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Votes.FindOneByVoterAndPoem"); err != nil {
		return nil, err
	}
	for _, v := range r.s.votes {
		if v.VoterID == voterID && v.PoemID == poemID {
			c := *v
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r fakeVotes) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.votes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.votes, id)
	return nil
}

func (r fakeVotes) count(keep func(*models.FeatherVote) bool) int {
	n := 0
	for _, v := range r.s.votes {
		if keep(v) {
			n++
		}
	}
	return n
}

func (r fakeVotes) tally(keep func(*models.FeatherVote) bool) models.Tally {
	var t models.Tally
	for _, v := range r.s.votes {
		if keep(v) {
			t.Add(v.Weight, 1)
		}
	}
	return t
}

func (r fakeVotes) CountByPoem(_ context.Context, poemID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.count(func(v *models.FeatherVote) bool { return v.PoemID == poemID }), nil
}

func (r fakeVotes) CountByVoter(_ context.Context, voterID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.count(func(v *models.FeatherVote) bool { return v.VoterID == voterID }), nil
}

func (r fakeVotes) TallyByPoem(_ context.Context, poemID int64) (models.Tally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tally(func(v *models.FeatherVote) bool { return v.PoemID == poemID }), nil
}

func (r fakeVotes) TallyReceivedByAuthor(_ context.Context, authorID int64) (models.Tally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tally(func(v *models.FeatherVote) bool {
		p, ok := r.s.poems[v.PoemID]
		return ok && p.AuthorID == authorID
	}), nil
}

func (r fakeVotes) TalliesByAuthor(_ context.Context, authorID int64) (map[int64]models.Tally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[int64]models.Tally{}
	for _, v := range r.s.votes {
		p, ok := r.s.poems[v.PoemID]
		if !ok || p.AuthorID != authorID {
			continue
		}
		t := out[p.ID]
		t.Add(v.Weight, 1)
		out[p.ID] = t
	}
	return out, nil
}

func (r fakeVotes) list(keep func(*models.FeatherVote) bool) []*models.FeatherVote {
	var out []*models.FeatherVote
	for _, v := range r.s.votes {
		if keep(v) {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r fakeVotes) ListForPoem(_ context.Context, poemID int64, _ models.Page) ([]*models.FeatherVote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(v *models.FeatherVote) bool { return v.PoemID == poemID }), nil
}

func (r fakeVotes) ListForVoter(_ context.Context, voterID int64, _ models.Page) ([]*models.FeatherVote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(v *models.FeatherVote) bool { return v.VoterID == voterID }), nil
}

// --- rewards ---

type fakeRewards struct{ s *store }

func (r fakeRewards) GetByCode(_ context.Context, code string) (*models.Reward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rw, ok := r.s.rewards[code]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *rw
	return &c, nil
}

func (r fakeRewards) List(_ context.Context) ([]*models.Reward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Reward
	for _, rw := range r.s.rewards {
		c := *rw
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeUserRewards struct{ s *store }

func (r fakeUserRewards) Grant(_ context.Context, userID, rewardID int64) (*models.UserReward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var reward *models.Reward
	for _, rw := range r.s.rewards {
		if rw.ID == rewardID {
			reward = rw
		}
	}
	for _, ur := range r.s.userRewards {
		if ur.UserID == userID && ur.RewardID == rewardID {
			return nil, common.ErrorAlreadyExists
		}
	}
	ur := &models.UserReward{ID: r.s.id(), UserID: userID, RewardID: rewardID, GrantedAt: time.Now(), Reward: reward}
	r.s.userRewards = append(r.s.userRewards, ur)
	return ur, nil
}

func (r fakeUserRewards) FindOneByUserAndReward(_ context.Context, userID, rewardID int64) (*models.UserReward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ur := range r.s.userRewards {
		if ur.UserID == userID && ur.RewardID == rewardID {
			return ur, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r fakeUserRewards) ListByUser(_ context.Context, userID int64) ([]*models.UserReward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.UserReward
	for _, ur := range r.s.userRewards {
		if ur.UserID == userID {
			out = append(out, ur)
		}
	}
	return out, nil
}

// fakeRepoManager hands out repositories over the shared store whatever
// DBTX they are bound to.
type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return fakeUsers{m.s} }
func (m *fakeRepoManager) Totems(dbx.DBTX) totems.Repository           { return fakeTotems{m.s} }
func (m *fakeRepoManager) Poems(dbx.DBTX) poems.Repository             { return fakePoems{m.s} }
func (m *fakeRepoManager) Votes(dbx.DBTX) votes.Repository             { return fakeVotes{m.s} }
func (m *fakeRepoManager) Rewards(dbx.DBTX) rewards.Repository         { return fakeRewards{m.s} }
func (m *fakeRepoManager) UserRewards(dbx.DBTX) userrewards.Repository { return fakeUserRewards{m.s} }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.RepositoryTimeout = time.Second
	return cfg
}

// openDB returns an in-memory sqlite handle that satisfies dbx.WithTx.
func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
