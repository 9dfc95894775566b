// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login/logout, and profile,
// email and password updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/sessions"
)

// AuthService provides authentication-related operations:
// - Register: create an account and open a session
// - Login: verify credentials and open a session
// - Logout: destroy a session
// - Details / UpdateProfile / UpdateEmail / UpdatePassword: account upkeep
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    sessions.Manager
	bcryptCost  int
}

// NewAuthService constructs an AuthService using repositories, the session
// manager and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, sm sessions.Manager, cfg *config.Config) *AuthService {
	cost := cfg.BCryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		sessions:    sm,
		bcryptCost:  cost,
	}
}

// Register creates an account and immediately opens a session for it
// (registration implies login). The plaintext password is hashed with
// bcrypt before it goes anywhere near storage; it is never logged.
//
// A pre-check on the email gives a clean conflict answer, but the unique
// index underneath is what actually guards the check-then-insert race:
// an insert that loses the race also comes back as ErrorEmailTaken.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, string, error) {
	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", common.ErrorEmailTaken
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", fmt.Errorf("error checking user existence: %w", err)
	}

	pw := []byte(password)
	hash, err := bcrypt.GenerateFromPassword(pw, s.bcryptCost)
	common.WipeByteArray(pw)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return nil, "", common.ErrorEmailTaken
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("error creating session: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and opens a session. An unknown email and a
// wrong password both return ErrorInvalidCredentials so the response never
// reveals which field was wrong. bcrypt's comparison is constant-time.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	if email == "" || password == "" {
		return "", "", common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", "", common.ErrorInvalidCredentials
		}
		return "", "", fmt.Errorf("error searching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", common.ErrorInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", "", fmt.Errorf("error creating session: %w", err)
	}

	return user.ID, token, nil
}

// Logout destroys the session. A token that is already gone is still a
// successful logout from the caller's perspective.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.sessions.Destroy(ctx, token)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error destroying session: %w", err)
	}
	return nil
}

// Details returns the profile fields for the given user.
func (s *AuthService) Details(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// UpdateProfile rewrites the user's first and last name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, firstName, lastName string) error {
	err := s.repomanager.Users(s.db).UpdateName(ctx, userID, firstName, lastName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating user details: %w", err)
	}
	return nil
}

// UpdateEmail replaces the account email. oldEmail must match the stored
// value byte-for-byte (no case folding); this is the optimistic-concurrency
// guard against a stale client. The read-check-write runs in one
// transaction so a concurrent update cannot slip in between.
func (s *AuthService) UpdateEmail(ctx context.Context, userID, oldEmail, newEmail string) error {
	if !validEmail(newEmail) {
		return common.ErrorInvalidEmail
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		other, err := repo.GetByEmail(ctx, newEmail)
		if err == nil && other.ID != userID {
			return common.ErrorEmailTaken
		}
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		if user.Email != oldEmail {
			return common.ErrorStaleEmail
		}

		err = repo.UpdateEmail(ctx, userID, newEmail)
		if err != nil {
			if errors.Is(err, common.ErrorEmailTaken) || errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error updating email: %w", err)
		}
		return nil
	})
}

// UpdatePassword verifies the old password against the stored hash and
// persists a new bcrypt hash, transactionally so the verified hash is the
// one being replaced. bcrypt embeds a fresh salt on every call.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return common.ErrorValidation
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
			return common.ErrorPasswordMismatch
		}

		pw := []byte(newPassword)
		hash, err := bcrypt.GenerateFromPassword(pw, s.bcryptCost)
		common.WipeByteArray(pw)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		if err := repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error updating password: %w", err)
		}
		return nil
	})
}

// validEmail requires exactly one '@' with non-empty local and domain parts.
func validEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
