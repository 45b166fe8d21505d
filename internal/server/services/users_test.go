package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/auth"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, "ada@plume.test", "ada", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, vocab.RoleUser, u.Role)
	assert.NotEqual(t, []byte("correct horse"), u.PasswordHash)

	_, err = f.users.Register(ctx, "ADA@plume.test", "ada2", "correct horse")
	assert.Equal(t, apperrors.CodeEmailAlreadyUsed, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	admin, err := f.users.Register(ctx, "root@plume.test", "root", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, vocab.RoleAdmin, admin.Role)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name, email, pseudo, password string
	}{
		{"bad email", "nobody", "x", "long enough"},
		{"empty pseudo", "a@plume.test", " ", "long enough"},
		{"short password", "a@plume.test", "a", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tt.email, tt.pseudo, tt.password)
			assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
		})
	}
}

func TestRegister_UniqueConstraintRace(t *testing.T) {
	f := newFixture(t)
	f.store.err["Users.Create"] = fmt.Errorf("%w: users_email_key", common.ErrorAlreadyExists)

	_, err := f.users.Register(context.Background(), "ada@plume.test", "ada", "correct horse")
	assert.Equal(t, apperrors.CodeEmailAlreadyUsed, apperrors.CodeOf(err))
}

func TestLogin_IssuesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.users.Register(ctx, "ada@plume.test", "ada", "correct horse")
	require.NoError(t, err)

	session, err := f.users.Login(ctx, "ada@plume.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.User.ID)

	claims, err := auth.ParseToken(session.AccessToken, f.users.jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Principal().UserID)
	assert.Equal(t, vocab.RoleUser, claims.Principal().Role)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Login(context.Background(), "ghost@plume.test", "whatever")
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestLogin_LocksAfterMaxFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.users.Register(ctx, "ada@plume.test", "ada", "correct horse")
	require.NoError(t, err)

	for i := 1; i < 3; i++ {
		_, err = f.users.Login(ctx, "ada@plume.test", "wrong")
		assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))
		assert.Equal(t, i, f.store.users[u.ID].FailedLoginCount)
	}

	_, err = f.users.Login(ctx, "ada@plume.test", "wrong")
	assert.Equal(t, apperrors.CodeAccountLocked, apperrors.CodeOf(err))
	assert.True(t, f.store.users[u.ID].Locked)

	_, err = f.users.Login(ctx, "ada@plume.test", "correct horse")
	assert.Equal(t, apperrors.CodeAccountLocked, apperrors.CodeOf(err))
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.users.Register(ctx, "ada@plume.test", "ada", "correct horse")
	require.NoError(t, err)

	_, err = f.users.Login(ctx, "ada@plume.test", "wrong")
	require.Error(t, err)
	assert.Equal(t, 1, f.store.users[u.ID].FailedLoginCount)

	_, err = f.users.Login(ctx, "ada@plume.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.users[u.ID].FailedLoginCount)
}

func TestChooseTotem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.reader(t, "u@plume.test")
	fox := f.store.addTotem("fox")
	owl := f.store.addTotem("owl")

	_, err := f.users.ChooseTotem(ctx, principalOf(u), 9999)
	assert.Equal(t, apperrors.CodeTotemNotFound, apperrors.CodeOf(err))

	got, err := f.users.ChooseTotem(ctx, principalOf(u), fox.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TotemID)
	assert.Equal(t, fox.ID, *got.TotemID)

	_, err = f.users.ChooseTotem(ctx, principalOf(u), owl.ID)
	assert.Equal(t, apperrors.CodeTotemAlreadyChosen, apperrors.CodeOf(err))
	assert.Equal(t, fox.ID, *f.store.users[u.ID].TotemID)
}

func TestUnlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.reader(t, "u@plume.test")
	admin := f.admin(t)
	f.store.users[u.ID].Locked = true
	f.store.users[u.ID].FailedLoginCount = 3

	err := f.users.Unlock(ctx, principalOf(u), u.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	require.NoError(t, f.users.Unlock(ctx, principalOf(admin), u.ID))
	assert.False(t, f.store.users[u.ID].Locked)
	assert.Equal(t, 0, f.store.users[u.ID].FailedLoginCount)

	err = f.users.Unlock(ctx, principalOf(admin), 9999)
	assert.Equal(t, apperrors.CodeUserNotFound, apperrors.CodeOf(err))
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	poet := f.author(t, "poet@plume.test")
	voter := f.reader(t, "voter@plume.test")
	idle := f.reader(t, "idle@plume.test")
	admin := f.admin(t)

	p := f.publishedPoem(t, poet)
	_, err := f.votes.CastVote(ctx, principalOf(voter), p.ID, vocab.FeatherBronze)
	require.NoError(t, err)

	tests := []struct {
		name   string
		actor  *models.User
		target int64
		code   apperrors.Code
	}{
		{"stranger", voter, idle.ID, apperrors.CodeForbidden},
		{"has poems", poet, poet.ID, apperrors.CodeCannotDeleteUserWithLinks},
		{"has feathers", admin, voter.ID, apperrors.CodeCannotDeleteUserWithLinks},
		{"missing", admin, 9999, apperrors.CodeUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.users.Delete(ctx, principalOf(tt.actor), tt.target)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}

	require.NoError(t, f.users.Delete(ctx, principalOf(idle), idle.ID))
	assert.NotContains(t, f.store.users, idle.ID)
}

func TestDeleteUser_ReferencedByStorage(t *testing.T) {
	f := newFixture(t)
	u := f.reader(t, "u@plume.test")
	f.store.err["Users.Delete"] = fmt.Errorf("%w: poems_author_id_fkey", common.ErrorReferenced)

	err := f.users.Delete(context.Background(), principalOf(u), u.ID)
	assert.Equal(t, apperrors.CodeCannotDeleteUserWithLinks, apperrors.CodeOf(err))
}

func TestGetAndListRewards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.author(t, "poet@plume.test")
	f.publishedPoem(t, a)

	got, err := f.users.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)

	_, err = f.users.Get(ctx, 9999)
	assert.Equal(t, apperrors.CodeUserNotFound, apperrors.CodeOf(err))

	list, err := f.users.ListRewards(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "FIRST_POEM_PUBLISHED", list[0].Reward.Code)
}
