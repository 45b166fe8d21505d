// Package policy provides authorization decisions for poem, vote, user and
// totem actions.
package policy

import (
	"context"

	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
)

// Principal is the already-authenticated actor behind a request.
type Principal struct {
	UserID int64
	Role   vocab.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == vocab.RoleAdmin
}

// Action represents a policy decision for an operation on a resource.
type Action int

const (
	ActionPublishPoem Action = iota + 1
	ActionEditPoem
	ActionDeletePoem
	ActionReadDraft
	ActionWithdrawVote
	ActionDeleteUser
	ActionUnlockUser
	ActionManageTotems
)

func (a Action) String() string {
	switch a {
	case ActionPublishPoem:
		return "publish poem"
	case ActionEditPoem:
		return "edit poem"
	case ActionDeletePoem:
		return "delete poem"
	case ActionReadDraft:
		return "read draft"
	case ActionWithdrawVote:
		return "withdraw vote"
	case ActionDeleteUser:
		return "delete user"
	case ActionUnlockUser:
		return "unlock user"
	case ActionManageTotems:
		return "manage totems"
	default:
		return "unknown action"
	}
}

// ResourceKind names what an action targets.
type ResourceKind int

const (
	ResourcePoem ResourceKind = iota + 1
	ResourceVote
	ResourceUser
	ResourceTotem
)

// Resource is the minimal view of a target the rules need: its kind and
// the user who owns it.
type Resource struct {
	Kind    ResourceKind
	OwnerID int64
}

func Poem(p *models.Poem) Resource        { return Resource{Kind: ResourcePoem, OwnerID: p.AuthorID} }
func Vote(v *models.FeatherVote) Resource { return Resource{Kind: ResourceVote, OwnerID: v.VoterID} }
func User(userID int64) Resource          { return Resource{Kind: ResourceUser, OwnerID: userID} }
func Totems() Resource                    { return Resource{Kind: ResourceTotem} }

type rule func(Principal, Action, Resource) bool

func isOwner(p Principal, r Resource) bool {
	return p.UserID != 0 && p.UserID == r.OwnerID
}

func poemRule(p Principal, a Action, r Resource) bool {
	switch a {
	case ActionPublishPoem, ActionEditPoem, ActionDeletePoem, ActionReadDraft:
		return isOwner(p, r) || p.IsAdmin()
	}
	return false
}

func voteRule(p Principal, a Action, r Resource) bool {
	return a == ActionWithdrawVote && (isOwner(p, r) || p.IsAdmin())
}

func userRule(p Principal, a Action, r Resource) bool {
	switch a {
	case ActionDeleteUser:
		return isOwner(p, r) || p.IsAdmin()
	case ActionUnlockUser:
		return p.IsAdmin()
	}
	return false
}

func totemRule(p Principal, a Action, _ Resource) bool {
	return a == ActionManageTotems && p.IsAdmin()
}

var rules = map[ResourceKind]rule{
	ResourcePoem:  poemRule,
	ResourceVote:  voteRule,
	ResourceUser:  userRule,
	ResourceTotem: totemRule,
}

// Can reports whether the principal may perform the action on the resource.
// Unknown resource kinds are denied.
func Can(p Principal, a Action, r Resource) bool {
	fn, ok := rules[r.Kind]
	if !ok {
		return false
	}
	return fn(p, a, r)
}

type ctxKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
