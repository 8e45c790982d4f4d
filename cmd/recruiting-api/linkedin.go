// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/linkedin"
	"github.com/ae2i/recruiting/server"
)

type (
	LinkedInStateArg struct {
		//nolint:unused // Processed by the router.
		_ struct{} `allowUnauthorized:"true"`
	}
	LinkedInState struct {
		State string `json:"state"`
	}
	LinkedInExchangeArg struct {
		//nolint:unused // Processed by the router.
		_     struct{} `allowUnauthorized:"true"`
		Code  string   `json:"code"`
		State string   `json:"state"`
	}
)

func (s *service) registerLinkedInRoutes(router *server.Router) {
	router.POST("v1/linkedin/state", server.RootHandler(s.IssueLinkedInState))
	router.POST("v1/linkedin/exchange", server.RootHandler(s.ExchangeLinkedInCode))
}

// IssueLinkedInState godoc
//
//	@Schemes
//	@Description	Mints a one-shot oauth state nonce for the LinkedIn authorization redirect.
//	@Tags			LinkedIn
//	@Produce		json
//	@Success		201	{object}	LinkedInState
//	@Failure		503	{object}	server.ErrorResponse
//	@Router			/linkedin/state [POST]
func (s *service) IssueLinkedInState(ctx context.Context, _ *server.Request[LinkedInStateArg, LinkedInState]) (*server.Response[LinkedInState], *server.Response[server.ErrorResponse]) {
	state, err := s.linkedinClient.IssueState(ctx)
	if err != nil {
		if errors.Is(err, linkedin.ErrNotConfigured) {
			return nil, server.ServiceUnavailable(err, "LINKEDIN_NOT_CONFIGURED")
		}

		return nil, server.Unexpected(errors.Wrap(err, "failed to issue oauth state"))
	}

	return server.Created(&LinkedInState{State: state}), nil
}

// ExchangeLinkedInCode godoc
//
//	@Schemes
//	@Description	Exchanges a LinkedIn authorization code for the member's profile.
//	@Tags			LinkedIn
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LinkedInExchangeArg	true	"Request params"
//	@Success		200		{object}	linkedin.Profile
//	@Failure		400		{object}	server.ErrorResponse	"code is missing or the state is unknown"
//	@Failure		401		{object}	server.ErrorResponse	"LinkedIn rejected the code"
//	@Failure		503		{object}	server.ErrorResponse	"the integration is not configured"
//	@Router			/linkedin/exchange [POST]
func (s *service) ExchangeLinkedInCode(ctx context.Context, req *server.Request[LinkedInExchangeArg, linkedin.Profile]) (*server.Response[linkedin.Profile], *server.Response[server.ErrorResponse]) {
	if req.Data.Code == "" {
		return nil, server.BadRequest(errors.New("code is required"), malformedRequestCode)
	}
	profile, err := s.linkedinClient.Exchange(ctx, req.Data.Code, req.Data.State)
	if err != nil {
		switch {
		case errors.Is(err, linkedin.ErrNotConfigured):
			return nil, server.ServiceUnavailable(err, "LINKEDIN_NOT_CONFIGURED")
		case errors.Is(err, linkedin.ErrInvalidState):
			return nil, server.BadRequest(err, "INVALID_OAUTH_STATE")
		case errors.Is(err, linkedin.ErrUnauthorized):
			return nil, server.Unauthorized(err)
		default:
			return nil, server.Unexpected(errors.Wrap(err, "code exchange failed"))
		}
	}

	return server.OK(profile), nil
}
