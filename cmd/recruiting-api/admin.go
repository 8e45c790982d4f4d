// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/accounts"
	"github.com/ae2i/recruiting/admin"
	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/server"
)

const (
	invalidRoleCode  = "INVALID_ROLE"
	userNotFoundCode = "USER_NOT_FOUND"
)

type (
	GetAdminStatsArg    struct{}
	ListActivityLogsArg struct {
		UserID     string `form:"user_id"`
		Action     string `form:"action"`
		EntityType string `form:"entity_type"`
		Limit      uint64 `form:"limit"`
		Offset     uint64 `form:"offset"`
	}
	ListUsersArg struct {
		Limit  uint64 `form:"limit"`
		Offset uint64 `form:"offset"`
	}
	UpdateUserArg struct {
		UserID           string `uri:"userId" swaggerignore:"true"`
		admin.UserUpdate `json:",inline"`
	}
	ExportArg struct {
		Target string `uri:"target" swaggerignore:"true"`
	}
	ListedActivity struct {
		Logs  []*admin.ActivityEntry `json:"logs"`
		Total uint64                 `json:"total"`
	}
	ListedUsers struct {
		Users []*accounts.User `json:"users"`
		Total uint64           `json:"total"`
	}
)

func (s *service) registerAdminRoutes(router *server.Router) {
	router.GET("v1/admin/stats", server.RootHandler(s.GetAdminStats))
	router.GET("v1/admin/logs", server.RootHandler(s.ListActivityLogs))
	router.GET("v1/admin/users", server.RootHandler(s.ListUsers))
	router.PUT("v1/admin/users/:userId", server.RootHandler(s.UpdateUser))
	router.POST("v1/admin/export/:target", server.RootHandler(s.Export))
}

// GetAdminStats godoc
//
//	@Schemes
//	@Description	Aggregates platform-wide counters: candidates, jobs, users, uploads.
//	@Tags			Admin
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Success		200				{object}	admin.PlatformStats
//	@Failure		403				{object}	server.ErrorResponse
//	@Router			/admin/stats [GET]
func (s *service) GetAdminStats(ctx context.Context, req *server.Request[GetAdminStatsArg, admin.PlatformStats]) (*server.Response[admin.PlatformStats], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin); err != nil {
		return nil, server.Forbidden(err)
	}
	stats, err := s.adminRepo.PlatformStats(ctx)
	if err != nil {
		return nil, server.Unexpected(errors.Wrap(err, "failed to aggregate platform stats"))
	}

	return server.OK(stats), nil
}

// ListActivityLogs godoc
//
//	@Schemes
//	@Description	Lists the audit trail, most recent first.
//	@Tags			Admin
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			user_id			query		string	false	"filter by the acting user"
//	@Param			action			query		string	false	"filter by action"
//	@Param			entity_type		query		string	false	"filter by entity type"
//	@Param			limit			query		int		false	"page size, 50 by default"
//	@Param			offset			query		int		false	"page offset"
//	@Success		200				{object}	ListedActivity
//	@Failure		403				{object}	server.ErrorResponse
//	@Router			/admin/logs [GET]
func (s *service) ListActivityLogs(ctx context.Context, req *server.Request[ListActivityLogsArg, ListedActivity]) (*server.Response[ListedActivity], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin); err != nil {
		return nil, server.Forbidden(err)
	}
	logs, total, err := s.adminRepo.ListActivity(ctx, &admin.ActivityFilter{
		UserID:     req.Data.UserID,
		Action:     req.Data.Action,
		EntityType: req.Data.EntityType,
		Limit:      req.Data.Limit,
		Offset:     req.Data.Offset,
	})
	if err != nil {
		return nil, server.Unexpected(errors.Wrap(err, "failed to list activity logs"))
	}

	return server.OK(&ListedActivity{Logs: logs, Total: total}), nil
}

// ListUsers godoc
//
//	@Schemes
//	@Description	Lists the registered accounts, most recent first.
//	@Tags			Admin
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			limit			query		int		false	"page size, 50 by default"
//	@Param			offset			query		int		false	"page offset"
//	@Success		200				{object}	ListedUsers
//	@Failure		403				{object}	server.ErrorResponse
//	@Router			/admin/users [GET]
func (s *service) ListUsers(ctx context.Context, req *server.Request[ListUsersArg, ListedUsers]) (*server.Response[ListedUsers], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin); err != nil {
		return nil, server.Forbidden(err)
	}
	users, total, err := s.adminRepo.ListUsers(ctx, req.Data.Limit, req.Data.Offset)
	if err != nil {
		return nil, server.Unexpected(errors.Wrap(err, "failed to list users"))
	}

	return server.OK(&ListedUsers{Users: users, Total: total}), nil
}

// UpdateUser godoc
//
//	@Schemes
//	@Description	Changes an account's role or active flag.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string			true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			userId			path		string			true	"id of the user"
//	@Param			request			body		UpdateUserArg	true	"Request params"
//	@Success		200				{object}	accounts.User
//	@Failure		400				{object}	server.ErrorResponse	"unknown role"
//	@Failure		403				{object}	server.ErrorResponse
//	@Failure		404				{object}	server.ErrorResponse
//	@Router			/admin/users/{userId} [PUT]
func (s *service) UpdateUser(ctx context.Context, req *server.Request[UpdateUserArg, accounts.User]) (*server.Response[accounts.User], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin); err != nil {
		return nil, server.Forbidden(err)
	}
	usr, err := s.adminRepo.UpdateUser(ctx, req.AuthenticatedUser.UserID, req.Data.UserID, &req.Data.UserUpdate)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidRole):
			return nil, server.BadRequest(err, invalidRoleCode)
		case errors.Is(err, admin.ErrUserNotFound):
			return nil, server.NotFound(err, userNotFoundCode)
		default:
			return nil, server.Unexpected(errors.Wrapf(err, "failed to update user %v", req.Data.UserID))
		}
	}

	return server.OK(usr), nil
}

// Export godoc
//
//	@Schemes
//	@Description	Dumps candidates, jobs or both as one JSON bundle.
//	@Tags			Admin
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			target			path		string	true	"candidates, jobs or all"
//	@Success		200				{object}	admin.ExportBundle
//	@Failure		400				{object}	server.ErrorResponse	"unknown export target"
//	@Failure		403				{object}	server.ErrorResponse
//	@Router			/admin/export/{target} [POST]
func (s *service) Export(ctx context.Context, req *server.Request[ExportArg, admin.ExportBundle]) (*server.Response[admin.ExportBundle], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin); err != nil {
		return nil, server.Forbidden(err)
	}
	bundle, err := s.adminRepo.Export(ctx, req.AuthenticatedUser.UserID, req.Data.Target)
	if err != nil {
		if errors.Is(err, admin.ErrUnknownExportTarget) {
			return nil, server.BadRequest(err, malformedRequestCode)
		}

		return nil, server.Unexpected(errors.Wrapf(err, "failed to export %v", req.Data.Target))
	}

	return server.OK(bundle), nil
}
