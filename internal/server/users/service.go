package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/dbx"
	"github.com/avolkovs/daykeeper/internal/logging"
	"github.com/avolkovs/daykeeper/internal/server/auth"
	"github.com/avolkovs/daykeeper/internal/server/config"
	"github.com/avolkovs/daykeeper/internal/server/mail"
	"github.com/avolkovs/daykeeper/internal/server/tokens"
)

// Session is what a successful authentication yields: a signed access token
// and the user it belongs to.
type Session struct {
	Token string
	User  *User
}

// RepoManager builds the repositories this service uses over a database
// handle, so multi-step writes can run on one transaction.
type RepoManager interface {
	Users(db dbx.DBTX) Repository
	Tokens(db dbx.DBTX) tokens.Repository
}

type Service struct {
	db                  *sql.DB
	repos               RepoManager
	mailer              mail.Sender
	logger              logging.Logger
	jwtSecret           []byte
	accessTokenValidity time.Duration
	actionTokenValidity time.Duration
}

func NewService(db *sql.DB, repos RepoManager, mailer mail.Sender, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		db:                  db,
		repos:               repos,
		mailer:              mailer,
		logger:              logger.With("component", "users"),
		jwtSecret:           []byte(cfg.SecretKey),
		accessTokenValidity: cfg.AccessTokenValidityDuration,
		actionTokenValidity: cfg.ActionTokenValidityDuration,
	}
}

// Signup creates an unverified account and mails a verification token.
// The caller never gets a session out of this; the user has to verify first.
// The account, its verification token and the mail send succeed or fail as
// one unit, so a failure partway through never leaves an account that can
// neither log in nor sign up again.
func (s *Service) Signup(ctx context.Context, email, password string) error {
	if err := auth.ValidateEmail(email); err != nil {
		return err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrInternal
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		token, err := s.issueActionToken(ctx, s.repos.Tokens(tx), user.ID, tokens.KindVerify)
		if err != nil {
			return err
		}
		return s.mailer.SendVerification(ctx, email, token)
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailInUse) {
			return common.ErrEmailInUse
		}
		s.logger.Error(ctx, "signup failed", "err", err)
		return common.ErrInternal
	}
	return nil
}

// Verify redeems a verification token and marks the account verified.
// Consumption and the flag update share a transaction; a token is never
// burned without the account actually becoming verified.
func (s *Service) Verify(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := s.repos.Tokens(tx).Consume(ctx, token, tokens.KindVerify)
		if err != nil {
			return err
		}
		if err := s.repos.Users(tx).SetVerified(ctx, t.UserID); err != nil {
			s.logger.Error(ctx, "set verified failed", "user", t.UserID, "err", err)
			return common.ErrInternal
		}
		return nil
	})
}

// Login authenticates with email and password. An unknown email and a wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredential
		}
		s.logger.Error(ctx, "user lookup failed", "err", err)
		return nil, common.ErrInternal
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, common.ErrInvalidCredential
	}
	if !user.Verified {
		return nil, common.ErrEmailNotVerified
	}

	return s.newSession(user)
}

// IssueSSOTicket creates a short-lived one-shot ticket for userID that the
// external sign-in flow hands back to the client.
func (s *Service) IssueSSOTicket(ctx context.Context, userID string) (string, error) {
	if _, err := s.repos.Users(s.db).GetByID(ctx, userID); err != nil {
		return "", err
	}
	return s.issueActionToken(ctx, s.repos.Tokens(s.db), userID, tokens.KindSSO)
}

// ExchangeSSO redeems an SSO ticket for a full session.
func (s *Service) ExchangeSSO(ctx context.Context, ticket string) (*Session, error) {
	t, err := s.repos.Tokens(s.db).Consume(ctx, ticket, tokens.KindSSO)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredential
		}
		return nil, err
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, t.UserID)
	if err != nil {
		s.logger.Error(ctx, "sso user lookup failed", "user", t.UserID, "err", err)
		return nil, common.ErrInternal
	}

	return s.newSession(user)
}

// RequestReset mails a password reset token. Unlike login, an unknown email
// is reported as such so the form can say so.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrEmailNotRegistered
		}
		s.logger.Error(ctx, "user lookup failed", "err", err)
		return common.ErrInternal
	}

	token, err := s.issueActionToken(ctx, s.repos.Tokens(s.db), user.ID, tokens.KindReset)
	if err != nil {
		return common.ErrInternal
	}
	if err := s.mailer.SendReset(ctx, email, token); err != nil {
		s.logger.Error(ctx, "reset mail failed", "email", email, "err", err)
		return common.ErrInternal
	}
	return nil
}

// ConfirmReset redeems a reset token and replaces the password. The token
// consumption and the password update commit atomically.
func (s *Service) ConfirmReset(ctx context.Context, token, password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := s.repos.Tokens(tx).Consume(ctx, token, tokens.KindReset)
		if err != nil {
			return err
		}
		if err := s.repos.Users(tx).UpdatePassword(ctx, t.UserID, hash); err != nil {
			s.logger.Error(ctx, "password update failed", "user", t.UserID, "err", err)
			return common.ErrInternal
		}
		return nil
	})
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*User, error) {
	userID, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

func (s *Service) newSession(user *User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}
	return &Session{Token: token, User: user}, nil
}

func (s *Service) issueActionToken(ctx context.Context, repo tokens.Repository, userID string, kind tokens.Kind) (string, error) {
	raw, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("token generation: %w", err)
	}

	t := &tokens.Token{
		Token:     raw,
		UserID:    userID,
		Kind:      kind,
		ExpiresAt: time.Now().Add(s.actionTokenValidity),
	}
	if err := repo.Create(ctx, t); err != nil {
		return "", fmt.Errorf("token store: %w", err)
	}
	return raw, nil
}
