// Package services contains server-side business logic. This file implements
// UserService, which handles signup, signin, and issuing bearer tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/getgranularity/backend/internal/common"
	"github.com/getgranularity/backend/internal/dbx"
	"github.com/getgranularity/backend/internal/server/auth"
	"github.com/getgranularity/backend/internal/server/config"
	"github.com/getgranularity/backend/internal/server/models"
	"github.com/getgranularity/backend/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - SignUp: create users and mint their first token
// - SignIn: verify credentials and mint tokens
// - GetByID: resolve a user record for the access guard
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// SignUp creates a new MEMBER user with a salted password digest and returns
// the record together with a fresh bearer token. An existing record with the
// same email yields ErrorAlreadyExists; the uniqueness check and the insert
// run in one transaction.
func (s *UserService) SignUp(ctx context.Context, firstName, lastName, email, password string) (*models.User, string, error) {

	salt, err := auth.CreateSalt()
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  auth.HashPassword(password, salt),
		Role:      models.RoleMember,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}

		user, err = repo.Create(ctx, user)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	}); err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// SignIn verifies the password against the stored digest and, on success,
// returns the user and a new bearer token. An unknown email yields
// ErrorNotFound, a wrong password ErrorUnauthenticated.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.Password) {
		return nil, "", common.ErrorUnauthenticated
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetByID resolves a user record by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
