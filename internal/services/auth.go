// Package services contains the client-side business logic that sits between
// the CLI and the application state: authentication, password management and
// report generation.
package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vcabel/safework/internal/auth"
	"github.com/vcabel/safework/internal/common"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/state"
	"github.com/vcabel/safework/internal/store"
)

// SessionValidityDuration is how long a stored session token stays usable
// before the user has to log in again.
const SessionValidityDuration = 12 * time.Hour

// AuthService verifies credentials against the synchronized user list and
// keeps the resulting session token in local settings, so a restart within
// the validity window does not require a new login.
type AuthService struct {
	data   *state.AppState
	st     *store.Store
	secret []byte
}

// NewAuthService constructs an AuthService signing session tokens with the
// given secret.
func NewAuthService(data *state.AppState, st *store.Store, secret string) *AuthService {
	return &AuthService{data: data, st: st, secret: []byte(secret)}
}

// Login verifies the username and password and, on success, persists a
// session token and returns the account. Wrong credentials yield
// ErrorUnauthorized without revealing whether the account exists;
// deactivated accounts yield ErrorInactiveUser.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.User, error) {
	user, ok := s.data.FindUserByUsername(username)
	if !ok {
		return model.User{}, common.ErrorUnauthorized
	}
	if !user.Active {
		return model.User{}, common.ErrorInactiveUser
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.secret, SessionValidityDuration)
	if err != nil {
		return model.User{}, common.ErrorInternal
	}
	if err := s.st.SetSetting(ctx, store.KeySession, token); err != nil {
		return model.User{}, common.ErrorInternal
	}
	return user, nil
}

// Logout discards the persisted session token.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.st.SetSetting(ctx, store.KeySession, "")
}

// CurrentUser resolves the persisted session token to an account. An absent,
// expired or otherwise invalid token yields ErrorUnauthorized; a token for a
// deactivated account yields ErrorInactiveUser.
func (s *AuthService) CurrentUser(ctx context.Context) (model.User, error) {
	token, err := s.st.Setting(ctx, store.KeySession)
	if err != nil {
		return model.User{}, common.ErrorInternal
	}
	if token == "" {
		return model.User{}, common.ErrorUnauthorized
	}

	userID, err := auth.GetUserIDFromToken(token, s.secret)
	if err != nil {
		return model.User{}, common.ErrorUnauthorized
	}

	user, ok := s.data.FindUserByID(userID)
	if !ok {
		return model.User{}, common.ErrorUnauthorized
	}
	if !user.Active {
		return model.User{}, common.ErrorInactiveUser
	}
	return user, nil
}

// ChangePassword replaces the user's password after verifying the current
// one, and clears the must-change flag set on seeded accounts. The updated
// account syncs to the workspace like any other user edit.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, ok := s.data.FindUserByID(userID)
	if !ok {
		return common.ErrorNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return common.ErrorUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	s.data.SaveUser(ctx, user)
	return nil
}

// Allows reports whether the user's role grants access to the named screen
// under the current workspace configuration.
func (s *AuthService) Allows(user model.User, screen string) bool {
	cfg := s.data.Config()
	return cfg.Allows(user.Role, screen)
}

// IsAuthError reports whether err is one of the credential failures that
// should be shown to the user as a login problem rather than a fault.
func IsAuthError(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorInactiveUser)
}
