package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/auth"
	"github.com/dmitrijs2005/plume/internal/server/config"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Seams for tests.
var (
	hashPassword = func(password []byte) ([]byte, error) {
		return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	}
	comparePassword = bcrypt.CompareHashAndPassword
)

// Session is what a successful login hands back.
type Session struct {
	AccessToken string
	User        *models.User
}

// UserService handles accounts: registration, login with lockout, totem
// choice and administration.
type UserService struct {
	base
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	maxFailedLogins             int
	adminEmails                 map[string]struct{}
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...Option) *UserService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &UserService{
		base:                        newBase(db, m, cfg.RepositoryTimeout, "users", opts),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		maxFailedLogins:             cfg.MaxFailedLogins,
		adminEmails:                 admins,
	}
}

// Register creates an account. Emails are unique regardless of case.
func (s *UserService) Register(ctx context.Context, email, pseudo, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Validation("invalid email address")
	}
	if strings.TrimSpace(pseudo) == "" {
		return nil, apperrors.Validation("pseudo must not be empty")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.Validation("password is too short")
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	repo := s.repomanager.Users(s.db)
	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.EmailAlreadyUsed(email)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, apperrors.FromStorage(err, "", "look up email")
	}

	hash, err := hashPassword([]byte(password))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "hash password", err)
	}

	role := vocab.RoleUser
	if _, ok := s.adminEmails[strings.ToLower(email)]; ok {
		role = vocab.RoleAdmin
	}

	u, err := repo.Create(ctx, &models.User{Email: email, Pseudo: pseudo, PasswordHash: hash, Role: role})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, apperrors.EmailAlreadyUsed(email)
	}
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "create user")
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "role", string(u.Role))
	return u, nil
}

// Login checks the credentials and issues an access token. Every attempt on
// an existing account goes through RecordLoginOutcome.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, common.ErrorNotFound) {
		s.metrics.Login("failure")
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "invalid email or password")
	}
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "look up user")
	}
	if u.Locked {
		s.metrics.Login("locked")
		return nil, apperrors.New(apperrors.CodeAccountLocked, "account is locked")
	}

	success := comparePassword(u.PasswordHash, []byte(password)) == nil
	u, err = s.RecordLoginOutcome(ctx, u.ID, success)
	if err != nil {
		return nil, err
	}
	if !success {
		s.metrics.Login("failure")
		if u.Locked {
			s.log.Warn(ctx, "account locked after failed logins", "user_id", u.ID, "failures", u.FailedLoginCount)
			return nil, apperrors.New(apperrors.CodeAccountLocked, "account is locked")
		}
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "invalid email or password")
	}

	token, err := auth.GenerateToken(policy.Principal{UserID: u.ID, Role: u.Role}, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "issue token", err)
	}

	s.metrics.Login("success")
	return &Session{AccessToken: token, User: u}, nil
}

// RecordLoginOutcome updates the failure counter: success resets it, failure
// increments it and locks the account at the configured threshold.
func (s *UserService) RecordLoginOutcome(ctx context.Context, userID int64, success bool) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).RecordLoginOutcome(ctx, userID, success, s.maxFailedLogins)
	if err != nil {
		return nil, apperrors.FromStorage(err, apperrors.CodeUserNotFound, "record login outcome")
	}
	return u, nil
}

// ChooseTotem assigns the caller's totem. It can be done once.
func (s *UserService) ChooseTotem(ctx context.Context, p policy.Principal, totemID int64) (*models.User, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	var u *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Totems(tx).GetByID(ctx, totemID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return apperrors.TotemNotFound(totemID)
			}
			return apperrors.FromStorage(err, "", "load totem")
		}

		users := s.repomanager.Users(tx)
		err := users.SetTotem(ctx, p.UserID, totemID)
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return apperrors.TotemAlreadyChosen(p.UserID)
		case errors.Is(err, common.ErrorNotFound):
			return apperrors.UserNotFound(p.UserID)
		case err != nil:
			return apperrors.FromStorage(err, "", "set totem")
		}

		u, err = users.GetByID(ctx, p.UserID)
		return apperrors.FromStorage(err, apperrors.CodeUserNotFound, "load user")
	})
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "choose totem")
	}
	return u, nil
}

// Unlock clears the lock and the failure counter. Admin only.
func (s *UserService) Unlock(ctx context.Context, p policy.Principal, userID int64) error {
	if err := authorize(p, policy.ActionUnlockUser, policy.User(userID)); err != nil {
		return err
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	if err := s.repomanager.Users(s.db).Unlock(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return apperrors.UserNotFound(userID)
		}
		return apperrors.FromStorage(err, "", "unlock user")
	}
	s.log.Info(ctx, "user unlocked", "user_id", userID, "by", p.UserID)
	return nil
}

// Delete removes an account that has neither poems nor feathers.
func (s *UserService) Delete(ctx context.Context, p policy.Principal, userID int64) error {
	if err := authorize(p, policy.ActionDeleteUser, policy.User(userID)); err != nil {
		return err
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		if _, err := users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return apperrors.UserNotFound(userID)
			}
			return apperrors.FromStorage(err, "", "load user")
		}

		poemCount, err := s.repomanager.Poems(tx).CountByAuthor(ctx, userID, false)
		if err != nil {
			return apperrors.FromStorage(err, "", "count poems")
		}
		voteCount, err := s.repomanager.Votes(tx).CountByVoter(ctx, userID)
		if err != nil {
			return apperrors.FromStorage(err, "", "count feathers")
		}
		if poemCount > 0 || voteCount > 0 {
			return apperrors.CannotDeleteUserWithLinks(userID)
		}

		err = users.Delete(ctx, userID)
		switch {
		case errors.Is(err, common.ErrorReferenced):
			return apperrors.CannotDeleteUserWithLinks(userID)
		case errors.Is(err, common.ErrorNotFound):
			return apperrors.UserNotFound(userID)
		case err != nil:
			return apperrors.FromStorage(err, "", "delete user")
		}
		return nil
	})
	if err != nil {
		return apperrors.FromStorage(err, "", "delete user")
	}
	s.log.Info(ctx, "user deleted", "user_id", userID, "by", p.UserID)
	return nil
}

func (s *UserService) Get(ctx context.Context, userID int64) (*models.User, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperrors.UserNotFound(userID)
		}
		return nil, apperrors.FromStorage(err, "", "load user")
	}
	return u, nil
}

// ListRewards returns the user's unlocked rewards in grant order.
func (s *UserService) ListRewards(ctx context.Context, userID int64) ([]*models.UserReward, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	list, err := s.repomanager.UserRewards(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "list rewards")
	}
	return list, nil
}
