// SPDX-License-Identifier: ice License 1.0

package accounts

import (
	"context"
	"fmt"
	"strings"
	stdlibtime "time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/activity"
	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/connectors/cache"
	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/log"
	"github.com/ae2i/recruiting/time"
)

func New(db *storage.DB, cacheDB cache.DB, authClient auth.Client) Repository {
	return &repository{db: db, cacheDB: cacheDB, authClient: authClient}
}

func (r *repository) Register(ctx context.Context, email, password, fullName, role string) (*User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = auth.RoleCandidate
	}
	passwordHash, err := r.authClient.HashPassword(password)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to hash password for %v", email)
	}
	usr := &User{
		CreatedAt:    time.Now(),
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}
	_, err = storage.Exec(ctx, r.db, `
		INSERT INTO users (id, created_at, email, password_hash, full_name, role, email_verified, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		usr.ID, usr.CreatedAt.Time, usr.Email, usr.PasswordHash, usr.FullName, usr.Role, usr.EmailVerified, usr.IsActive)
	if err != nil {
		if storage.IsErr(err, storage.ErrDuplicate, "email") {
			return nil, nil, errors.Wrapf(ErrDuplicateEmail, "email %v is taken", email)
		}

		return nil, nil, errors.Wrapf(err, "failed to insert user %v", email)
	}
	tokens, err := r.issueSession(ctx, usr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to issue session for new user %v", usr.ID)
	}
	activity.Record(ctx, r.db, usr.ID, "register", "user", usr.ID, map[string]any{"email": usr.Email, "role": usr.Role})

	return usr, tokens, nil
}

func (r *repository) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.checkLoginThrottle(ctx, email); err != nil {
		return nil, nil, err
	}
	usr, err := storage.Get[User](ctx, r.db, `SELECT * FROM users WHERE email = $1 AND is_active = TRUE`, email)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, nil, errors.Wrapf(ErrInvalidCredentials, "no active user for %v", email)
		}

		return nil, nil, errors.Wrapf(err, "failed to select user %v", email)
	}
	if err = r.authClient.ComparePassword(usr.PasswordHash, password); err != nil {
		return nil, nil, errors.Wrapf(err, "wrong password for %v", email)
	}
	tokens, err := r.issueSession(ctx, usr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to issue session for user %v", usr.ID)
	}
	activity.Record(ctx, r.db, usr.ID, "login", "user", usr.ID, nil)

	return usr, tokens, nil
}

func (r *repository) RefreshSession(ctx context.Context, refreshToken string) (*User, *TokenPair, error) {
	session, err := storage.ExecOne[refreshSession](ctx, r.db, `
		DELETE FROM refresh_tokens WHERE token = $1
		RETURNING user_id, token, expires_at`, refreshToken)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, nil, errors.Wrap(ErrSessionExpired, "unknown refresh token")
		}

		return nil, nil, errors.Wrap(err, "failed to consume refresh token")
	}
	if session.ExpiresAt.Before(*time.Now().Time) {
		return nil, nil, errors.Wrapf(ErrSessionExpired, "refresh token expired at %v", session.ExpiresAt)
	}
	usr, err := r.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load user %v for refresh", session.UserID)
	}
	tokens, err := r.issueSession(ctx, usr)

	return usr, tokens, errors.Wrapf(err, "failed to rotate session for user %v", session.UserID)
}

func (r *repository) Logout(ctx context.Context, refreshToken string) error {
	_, err := storage.Exec(ctx, r.db, `DELETE FROM refresh_tokens WHERE token = $1`, refreshToken)

	return errors.Wrap(err, "failed to delete refresh token")
}

func (r *repository) GetByID(ctx context.Context, userID string) (*User, error) {
	usr, err := storage.Get[User](ctx, r.db, `SELECT * FROM users WHERE id = $1 AND is_active = TRUE`, userID)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrUserNotFound, "no active user %v", userID)
		}

		return nil, errors.Wrapf(err, "failed to select user %v", userID)
	}

	return usr, nil
}

func (r *repository) issueSession(ctx context.Context, usr *User) (*TokenPair, error) {
	accessToken, err := r.authClient.IssueAccessToken(usr.ID, usr.Email, usr.Role)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to issue access token for %v", usr.ID)
	}
	refreshToken := r.authClient.IssueRefreshToken()
	expiresAt := time.New(time.Now().AddDate(0, 0, refreshTokenLifetimeDays))
	_, err = storage.Exec(ctx, r.db, `
		INSERT INTO refresh_tokens (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`,
		refreshToken, usr.ID, time.Now().Time, expiresAt.Time)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to persist refresh token for %v", usr.ID)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (r *repository) checkLoginThrottle(ctx context.Context, email string) error {
	if r.cacheDB == nil {
		return nil
	}
	window, err := stdlibtime.ParseDuration(loginThrottleWindow)
	if err != nil {
		return errors.Wrap(err, "failed to parse login throttle window")
	}
	attempts, err := cache.Increment(ctx, r.cacheDB, fmt.Sprintf("login_attempts:%v", email), window)
	if err != nil {
		log.Error(errors.Wrapf(err, "login throttle unavailable for %v", email))

		return nil
	}
	if attempts > maxLoginAttempts {
		return errors.Wrapf(ErrTooManyAttempts, "%v login attempts within %v", attempts, loginThrottleWindow)
	}

	return nil
}

func (r *repository) CheckHealth(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.Wrap(err, "users storage is unreachable")
	}
	if r.cacheDB != nil {
		return errors.Wrap(r.cacheDB.Ping(ctx).Err(), "login throttle cache is unreachable")
	}

	return nil
}

func (r *repository) Close() error {
	err := multierror.Append(nil, errors.Wrap(r.db.Close(), "failed to close users storage"))
	if r.cacheDB != nil {
		err = multierror.Append(err, errors.Wrap(r.cacheDB.Close(), "failed to close cache"))
	}

	return err.ErrorOrNil() //nolint:wrapcheck // Already wrapped.
}
