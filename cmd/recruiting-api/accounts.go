// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/accounts"
	"github.com/ae2i/recruiting/server"
)

type (
	RegisterArg struct {
		//nolint:unused // Processed by the router.
		_        struct{} `allowUnauthorized:"true"`
		Email    string   `json:"email" required:"true" example:"jdoe@example.com"`
		Password string   `json:"password" required:"true" example:"correct horse battery staple"`
		FullName string   `json:"full_name" example:"John Doe"`
		Role     string   `json:"role" example:"candidat" enums:"admin,recruteur,lecteur,candidat"`
	}
	LoginArg struct {
		//nolint:unused // Processed by the router.
		_        struct{} `allowUnauthorized:"true"`
		Email    string   `json:"email" required:"true" example:"jdoe@example.com"`
		Password string   `json:"password" required:"true" example:"correct horse battery staple"`
	}
	RefreshArg struct {
		//nolint:unused // Processed by the router.
		_            struct{} `allowUnauthorized:"true"`
		RefreshToken string   `json:"refresh_token" required:"true"`
	}
	LogoutArg struct {
		RefreshToken string `json:"refresh_token" required:"true"`
	}
	GetMeArg struct{}
	Session  struct {
		User   *accounts.User      `json:"user"`
		Tokens *accounts.TokenPair `json:"tokens"`
	}
)

func (s *service) registerAccountRoutes(router *server.Router) {
	router.POST("v1/auth/register", server.RootHandler(s.Register))
	router.POST("v1/auth/login", server.RootHandler(s.Login))
	router.POST("v1/auth/refresh", server.RootHandler(s.RefreshSession))
	router.POST("v1/auth/logout", server.RootHandler(s.Logout))
	router.GET("v1/auth/me", server.RootHandler(s.GetMe))
}

// Register godoc
//
//	@Schemes
//	@Description	Creates an account and returns its first session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterArg	true	"Request params"
//	@Success		201		{object}	Session
//	@Failure		409		{object}	server.ErrorResponse	"the email is taken"
//	@Router			/auth/register [POST]
func (s *service) Register(ctx context.Context, req *server.Request[RegisterArg, Session]) (*server.Response[Session], *server.Response[server.ErrorResponse]) {
	usr, tokens, err := s.accountsRepo.Register(ctx, req.Data.Email, req.Data.Password, req.Data.FullName, req.Data.Role)
	if err != nil {
		if errors.Is(err, accounts.ErrDuplicateEmail) {
			return nil, server.Conflict(err, "EMAIL_ALREADY_REGISTERED")
		}

		return nil, server.Unexpected(errors.Wrap(err, "registration failed"))
	}

	return server.Created(&Session{User: usr, Tokens: tokens}), nil
}

// Login godoc
//
//	@Schemes
//	@Description	Exchanges credentials for a session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginArg	true	"Request params"
//	@Success		200		{object}	Session
//	@Failure		401		{object}	server.ErrorResponse
//	@Failure		429		{object}	server.ErrorResponse	"too many attempts, come back later"
//	@Router			/auth/login [POST]
func (s *service) Login(ctx context.Context, req *server.Request[LoginArg, Session]) (*server.Response[Session], *server.Response[server.ErrorResponse]) {
	usr, tokens, err := s.accountsRepo.Login(ctx, req.Data.Email, req.Data.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrTooManyAttempts):
			return nil, server.TooManyRequests(err, "TOO_MANY_LOGIN_ATTEMPTS")
		case errors.Is(err, accounts.ErrInvalidCredentials):
			return nil, server.Unauthorized(err)
		default:
			return nil, server.Unexpected(errors.Wrap(err, "login failed"))
		}
	}

	return server.OK(&Session{User: usr, Tokens: tokens}), nil
}

// RefreshSession godoc
//
//	@Schemes
//	@Description	Rotates a refresh token into a fresh session. Each refresh token works exactly once.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshArg	true	"Request params"
//	@Success		200		{object}	Session
//	@Failure		401		{object}	server.ErrorResponse	"the refresh token is unknown or expired"
//	@Router			/auth/refresh [POST]
func (s *service) RefreshSession(ctx context.Context, req *server.Request[RefreshArg, Session]) (*server.Response[Session], *server.Response[server.ErrorResponse]) {
	usr, tokens, err := s.accountsRepo.RefreshSession(ctx, req.Data.RefreshToken)
	if err != nil {
		if errors.Is(err, accounts.ErrSessionExpired) {
			return nil, server.Unauthorized(err)
		}

		return nil, server.Unexpected(errors.Wrap(err, "session refresh failed"))
	}

	return server.OK(&Session{User: usr, Tokens: tokens}), nil
}

// Logout godoc
//
//	@Schemes
//	@Description	Drops the refresh token, ending the session on this device.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header	string		true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			request			body	LogoutArg	true	"Request params"
//	@Success		204
//	@Router			/auth/logout [POST]
func (s *service) Logout(ctx context.Context, req *server.Request[LogoutArg, any]) (*server.Response[any], *server.Response[server.ErrorResponse]) {
	if err := s.accountsRepo.Logout(ctx, req.Data.RefreshToken); err != nil {
		return nil, server.Unexpected(errors.Wrap(err, "logout failed"))
	}

	return server.NoContent(), nil
}

// GetMe godoc
//
//	@Schemes
//	@Description	Returns the account bound to the access token.
//	@Tags			Auth
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Success		200				{object}	accounts.User
//	@Failure		404				{object}	server.ErrorResponse
//	@Router			/auth/me [GET]
func (s *service) GetMe(ctx context.Context, req *server.Request[GetMeArg, accounts.User]) (*server.Response[accounts.User], *server.Response[server.ErrorResponse]) {
	usr, err := s.accountsRepo.GetByID(ctx, req.AuthenticatedUser.UserID)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, server.NotFound(err, "USER_NOT_FOUND")
		}

		return nil, server.Unexpected(errors.Wrap(err, "failed to load account"))
	}

	return server.OK(usr), nil
}
