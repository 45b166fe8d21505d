package grpc

import (
	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/dmitrijs2005/plume/internal/server/lore"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// toUser hides the email and lock state unless private is set.
func toUser(u *models.User, private bool) *api.User {
	out := &api.User{
		ID:        u.ID,
		Pseudo:    u.Pseudo,
		Role:      string(u.Role),
		TotemID:   u.TotemID,
		CreatedAt: u.CreatedAt,
	}
	if private {
		out.Email = u.Email
		out.Locked = u.Locked
	}
	return out
}

func toTotem(t *models.Totem) *api.Totem {
	return &api.Totem{ID: t.ID, Name: t.Name, Description: t.Description, PictureURL: t.PictureURL}
}

func toPoem(p *models.Poem) *api.Poem {
	return &api.Poem{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Content:     p.Content,
		Mood:        string(p.Mood),
		Status:      string(p.Status),
		Symbol:      string(p.Symbol),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		PublishedAt: p.PublishedAt,
	}
}

func toPoems(list []*models.Poem) []*api.Poem {
	out := make([]*api.Poem, 0, len(list))
	for _, p := range list {
		out = append(out, toPoem(p))
	}
	return out
}

func toVote(v *models.FeatherVote) *api.Vote {
	return &api.Vote{ID: v.ID, VoterID: v.VoterID, PoemID: v.PoemID, Weight: string(v.Weight), CreatedAt: v.CreatedAt}
}

func toVotes(list []*models.FeatherVote) []*api.Vote {
	out := make([]*api.Vote, 0, len(list))
	for _, v := range list {
		out = append(out, toVote(v))
	}
	return out
}

func toTally(t models.Tally) api.Tally {
	return api.Tally{Bronze: t.Bronze, Silver: t.Silver, Gold: t.Gold}
}

func toReward(r *models.Reward) *api.Reward {
	return &api.Reward{Code: r.Code, Label: r.Label}
}

func toUserReward(ur *models.UserReward) *api.Reward {
	out := &api.Reward{GrantedAt: &ur.GrantedAt}
	if ur.Reward != nil {
		out.Code = ur.Reward.Code
		out.Label = ur.Reward.Label
	}
	return out
}

func toLore(e lore.Entry) *api.LoreEntry {
	return &api.LoreEntry{Key: e.Key, Label: e.Label, Description: e.Description, Icon: e.Icon}
}

func toPage(p api.Page) models.Page {
	return models.Page{Limit: p.Limit, Offset: p.Offset}
}

func toChanges(req *api.UpdatePoemRequest) models.PoemChanges {
	c := models.PoemChanges{Title: req.Title, Content: req.Content}
	if req.Mood != nil {
		m := vocab.Mood(*req.Mood)
		c.Mood = &m
	}
	return c
}
