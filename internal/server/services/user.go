// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential authentication, and
// subject resolution for the request gate.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/dbx"
	"github.com/dmkoval/metools/internal/logging"
	"github.com/dmkoval/metools/internal/server/auth"
	"github.com/dmkoval/metools/internal/server/models"
	"github.com/dmkoval/metools/internal/server/repositories/repomanager"
)

// UserService provides account-related operations:
// - Register: create an unverified user, issue a verify token, notify
// - Authenticate: verify credentials
// - GetUserByID: resolve the subject of a validated session token
type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	verification *VerificationService
	notifier     VerificationNotifier
	logger       logging.Logger
}

// NewUserService constructs a UserService. The notifier is invoked inside the
// registration transaction so a failed send rolls everything back.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, v *VerificationService, n VerificationNotifier, l logging.Logger) *UserService {
	return &UserService{
		db:           db,
		repomanager:  m,
		verification: v,
		notifier:     n,
		logger:       l.With("module", "user_service"),
	}
}

// Register creates a new unverified user. The password is hashed up front;
// the user row, its verify token, and the notification then form one unit of
// work — if any of the three fails, nothing persists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "error hashing password while registering user", "error", err.Error())
		return nil, common.ErrorInternal
	}

	var user *models.User
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		vt, err := s.verification.IssueFor(ctx, tx, u.ID)
		if err != nil {
			return err
		}

		if err := s.notifier.SendVerificationMail(ctx, email, vt.Token); err != nil {
			return fmt.Errorf("error sending verification mail: %w", err)
		}

		user = u
		return nil
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the username/password pair. An unknown username and a
// wrong password both yield common.ErrorInvalidCredentials; only a store
// failure unrelated to the lookup miss surfaces differently.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// A hash we cannot parse is treated as a mismatch, not a crash.
		s.logger.Error(ctx, "malformed password hash", "user_id", user.ID, "error", err.Error())
		return nil, common.ErrorInvalidCredentials
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	return user, nil
}

// GetUserByID resolves a user by id. Returns common.ErrorNotFound when the
// user no longer exists.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
