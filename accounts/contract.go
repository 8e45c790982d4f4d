// SPDX-License-Identifier: ice License 1.0

package accounts

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/connectors/cache"
	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/time"
)

// Public API.

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrSessionExpired     = errors.New("refresh session expired")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUserNotFound       = errors.New("user not found")
)

type (
	User struct {
		CreatedAt     *time.Time `json:"created_at" db:"created_at"`
		ID            string     `json:"id" db:"id"`
		Email         string     `json:"email" db:"email"`
		PasswordHash  string     `json:"-" db:"password_hash"`
		FullName      string     `json:"full_name" db:"full_name"`
		Role          string     `json:"role" db:"role"`
		EmailVerified bool       `json:"email_verified" db:"email_verified"`
		IsActive      bool       `json:"is_active" db:"is_active"`
	}
	TokenPair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	Repository interface {
		io.Closer
		Register(ctx context.Context, email, password, fullName, role string) (*User, *TokenPair, error)
		Login(ctx context.Context, email, password string) (*User, *TokenPair, error)
		RefreshSession(ctx context.Context, refreshToken string) (*User, *TokenPair, error)
		Logout(ctx context.Context, refreshToken string) error
		GetByID(ctx context.Context, userID string) (*User, error)
		CheckHealth(ctx context.Context) error
	}
)

// Private API.

const (
	maxLoginAttempts         = 5
	loginThrottleWindow      = "15m"
	refreshTokenLifetimeDays = 30
)

type (
	repository struct {
		db         *storage.DB
		cacheDB    cache.DB
		authClient auth.Client
	}
	refreshSession struct {
		ExpiresAt *time.Time `db:"expires_at"`
		UserID    string     `db:"user_id"`
		Token     string     `db:"token"`
	}
)
