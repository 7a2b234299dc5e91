// Package services contains server-side business logic. This file implements
// AccountService: sign-up with email confirmation, sign-in, and password
// reset.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/dbx"
	"github.com/dmitrijs2005/tasknest/internal/logging"
	"github.com/dmitrijs2005/tasknest/internal/server/auth"
	"github.com/dmitrijs2005/tasknest/internal/server/config"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/dmitrijs2005/tasknest/internal/server/repositories/repomanager"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

type TokenIssuer interface {
	IssueForID(id string, ttl time.Duration) (string, error)
	IssueForEmail(email string, ttl time.Duration) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// AccountNotifier sends account emails. Dispatch* must not block on
// delivery; SendActivation does.
type AccountNotifier interface {
	DispatchAccountConfirmation(ctx context.Context, to, name, token string)
	DispatchEmailConfirmation(ctx context.Context, to, name, token string)
	DispatchPasswordReset(ctx context.Context, to, name, token string)
	SendActivation(ctx context.Context, to, name, token string) error
}

// AccountService moves an email through NonExistent -> Pending -> Confirmed.
// Pending signups live in their own table; confirming copies the row into
// accounts under the same id.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	notifier    AccountNotifier
	logger      logging.Logger
	sessionTTL  time.Duration
	linkTTL     time.Duration
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	tokens TokenIssuer, notifier AccountNotifier, cfg *config.Config, logger logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		notifier:    notifier,
		logger:      logger,
		sessionTTL:  cfg.SessionTokenTTL,
		linkTTL:     cfg.LinkTokenTTL,
	}
}

// SignUp stores a pending account and mails a confirmation link. It
// fails with common.ErrorAlreadyExists when a confirmed account already
// uses the email.
func (s *AccountService) SignUp(ctx context.Context, req models.SignUpRequest) error {
	_, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("error looking up account: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	pending, err := s.repomanager.PendingAccounts(s.db).Create(ctx, &models.Account{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	})
	if err != nil {
		return fmt.Errorf("error creating pending account: %w", err)
	}

	token, err := s.tokens.IssueForID(pending.ID, s.linkTTL)
	if err != nil {
		return common.ErrorInternal
	}

	s.notifier.DispatchAccountConfirmation(ctx, pending.Email, pending.Name, token)
	s.logger.Info(ctx, "account pending confirmation", "account_id", pending.ID)

	return nil
}

// Confirm promotes the pending account named by a confirmation token and
// returns a session for it.
func (s *AccountService) Confirm(ctx context.Context, token string) (*models.Profile, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil || claims.AccountID == "" {
		return nil, common.ErrorUnauthorized
	}

	var account *models.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		pending, err := s.repomanager.PendingAccounts(tx).MarkConfirmed(ctx, claims.AccountID)
		if err != nil {
			return err
		}

		account, err = s.repomanager.Accounts(tx).Create(ctx, &models.Account{
			ID:           pending.ID,
			FirstName:    pending.FirstName,
			LastName:     pending.LastName,
			Email:        pending.Email,
			PasswordHash: pending.PasswordHash,
			Name:         pending.Name,
			Confirmed:    true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account confirmed", "account_id", account.ID)
	return s.session(account)
}

// SignIn checks credentials against confirmed accounts first and then
// against pending signups. A pending match succeeds with Confirmed=false
// and triggers a fresh confirmation email.
func (s *AccountService) SignIn(ctx context.Context, req models.SignInRequest) (*models.Profile, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, req.Email)
	if err == nil {
		if err := s.checkPassword(account, req.Password); err != nil {
			return nil, err
		}
		return s.session(account)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	pending, err := s.repomanager.PendingAccounts(s.db).GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error looking up pending account: %w", err)
	}
	if err := s.checkPassword(pending, req.Password); err != nil {
		return nil, err
	}

	linkToken, err := s.tokens.IssueForID(pending.ID, s.linkTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	profile, err := s.session(pending)
	if err != nil {
		return nil, err
	}

	s.notifier.DispatchEmailConfirmation(ctx, pending.Email, pending.Name, linkToken)
	return profile, nil
}

// Forget mails a password reset link to a confirmed account.
func (s *AccountService) Forget(ctx context.Context, email string) error {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error looking up account: %w", err)
	}

	token, err := s.tokens.IssueForID(account.ID, s.linkTTL)
	if err != nil {
		return common.ErrorInternal
	}

	s.notifier.DispatchPasswordReset(ctx, account.Email, account.Name, token)
	return nil
}

// Reset replaces the password of the account named by a reset token.
func (s *AccountService) Reset(ctx context.Context, token, password string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil || claims.AccountID == "" {
		return common.ErrorUnauthorized
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.repomanager.Accounts(s.db).UpdatePassword(ctx, claims.AccountID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info(ctx, "password reset", "account_id", claims.AccountID)
	return nil
}

// SendConfirm re-sends the confirmation link for the pending account whose
// email is carried by a session token, waiting for delivery.
func (s *AccountService) SendConfirm(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return common.ErrorUnauthorized
	}
	if claims.Email == "" {
		return common.ErrorNotFound
	}

	pending, err := s.repomanager.PendingAccounts(s.db).GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error looking up pending account: %w", err)
	}
	if pending.Confirmed {
		return common.ErrAlreadyConfirmed
	}

	linkToken, err := s.tokens.IssueForID(pending.ID, s.linkTTL)
	if err != nil {
		return common.ErrorInternal
	}

	return s.notifier.SendActivation(ctx, pending.Email, pending.Name, linkToken)
}

// --- helpers below ---

func (s *AccountService) checkPassword(a *models.Account, password string) error {
	ok, err := s.hasher.Verify(a.PasswordHash, password)
	if err != nil {
		return fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return common.ErrIncorrectPassword
	}
	return nil
}

func (s *AccountService) session(a *models.Account) (*models.Profile, error) {
	token, err := s.tokens.IssueForEmail(a.Email, s.sessionTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return models.NewProfile(a, token), nil
}
