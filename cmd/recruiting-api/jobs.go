// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/jobs"
	"github.com/ae2i/recruiting/server"
)

type (
	CreateJobArg struct {
		Title        string `json:"title" required:"true" example:"Backend Engineer"`
		Description  string `json:"description" required:"true"`
		Wilaya       string `json:"wilaya" example:"Oran"`
		ContractType string `json:"contract_type" example:"cdi" enums:"cdi,cdd,stage,interim"`
		SalaryRange  string `json:"salary_range" example:"120000-180000 DZD"`
	}
	ListJobsArg struct {
		//nolint:unused // Processed by the router.
		_            struct{} `allowUnauthorized:"true"`
		Wilaya       string   `form:"wilaya"`
		ContractType string   `form:"contract_type"`
		All          bool     `form:"all"`
		Limit        uint64   `form:"limit" maximum:"200"`
		Offset       uint64   `form:"offset"`
	}
	GetJobArg struct {
		//nolint:unused // Processed by the router.
		_     struct{} `allowUnauthorized:"true"`
		JobID string   `uri:"jobId" required:"true"`
	}
	UpdateJobArg struct {
		JobID       string `uri:"jobId" required:"true" swaggerignore:"true"`
		jobs.Update `json:",inline"`
	}
	DeleteJobArg struct {
		JobID string `uri:"jobId" required:"true"`
	}
	ListedJobs struct {
		Jobs  []*jobs.Job `json:"jobs"`
		Total uint64      `json:"total"`
	}
)

func (s *service) registerJobRoutes(router *server.Router) {
	router.POST("v1/jobs", server.RootHandler(s.CreateJob))
	router.GET("v1/jobs", server.RootHandler(s.ListJobs))
	router.GET("v1/jobs/:jobId", server.RootHandler(s.GetJob))
	router.PUT("v1/jobs/:jobId", server.RootHandler(s.UpdateJob))
	router.DELETE("v1/jobs/:jobId", server.RootHandler(s.DeleteJob))
}

// CreateJob godoc
//
//	@Schemes
//	@Description	Publishes a job offer. Staff only.
//	@Tags			Jobs
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string			true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			request			body		CreateJobArg	true	"Request params"
//	@Success		201				{object}	jobs.Job
//	@Failure		400				{object}	server.ErrorResponse
//	@Failure		403				{object}	server.ErrorResponse
//	@Router			/jobs [POST]
func (s *service) CreateJob(ctx context.Context, req *server.Request[CreateJobArg, jobs.Job]) (*server.Response[jobs.Job], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter); err != nil {
		return nil, server.Forbidden(err)
	}
	job, err := s.jobsRepo.Create(ctx, req.AuthenticatedUser.UserID, &jobs.Job{
		Title:        req.Data.Title,
		Description:  req.Data.Description,
		Wilaya:       req.Data.Wilaya,
		ContractType: req.Data.ContractType,
		SalaryRange:  req.Data.SalaryRange,
	})
	if err != nil {
		if errors.Is(err, jobs.ErrValidationFailure) {
			return nil, server.BadRequest(err, validationFailureCode)
		}

		return nil, server.Unexpected(errors.Wrap(err, "job creation failed"))
	}

	return server.Created(job), nil
}

// ListJobs godoc
//
//	@Schemes
//	@Description	Lists job offers. Anonymous callers see active offers only, staff may pass all=true.
//	@Tags			Jobs
//	@Produce		json
//	@Param			wilaya			query		string	false	"filter by wilaya"
//	@Param			contract_type	query		string	false	"filter by contract type"
//	@Param			all				query		boolean	false	"include inactive offers, staff only"
//	@Param			limit			query		number	false	"max rows to return"	default(50)
//	@Param			offset			query		number	false	"rows to skip"			default(0)
//	@Success		200				{object}	ListedJobs
//	@Router			/jobs [GET]
func (s *service) ListJobs(ctx context.Context, req *server.Request[ListJobsArg, ListedJobs]) (*server.Response[ListedJobs], *server.Response[server.ErrorResponse]) {
	activeOnly := true
	if req.Data.All && requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter, auth.RoleReader) == nil {
		activeOnly = false
	}
	result, total, err := s.jobsRepo.List(ctx, &jobs.ListFilter{
		Wilaya:       req.Data.Wilaya,
		ContractType: req.Data.ContractType,
		ActiveOnly:   activeOnly,
		Limit:        req.Data.Limit,
		Offset:       req.Data.Offset,
	})
	if err != nil {
		return nil, server.Unexpected(errors.Wrap(err, "failed to list jobs"))
	}

	return server.OK(&ListedJobs{Jobs: result, Total: total}), nil
}

// GetJob godoc
//
//	@Schemes
//	@Description	Returns one job offer.
//	@Tags			Jobs
//	@Produce		json
//	@Param			jobId	path		string	true	"the job's id"
//	@Success		200		{object}	jobs.Job
//	@Failure		404		{object}	server.ErrorResponse
//	@Router			/jobs/{jobId} [GET]
func (s *service) GetJob(ctx context.Context, req *server.Request[GetJobArg, jobs.Job]) (*server.Response[jobs.Job], *server.Response[server.ErrorResponse]) {
	job, err := s.jobsRepo.GetByID(ctx, req.Data.JobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return nil, server.NotFound(err, notFoundCode)
		}

		return nil, server.Unexpected(errors.Wrapf(err, "failed to get job %v", req.Data.JobID))
	}
	if !job.IsActive && requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter, auth.RoleReader) != nil {
		return nil, server.NotFound(errors.Wrapf(jobs.ErrNotFound, "no job %v", req.Data.JobID), notFoundCode)
	}

	return server.OK(job), nil
}

// UpdateJob godoc
//
//	@Schemes
//	@Description	Patches one job offer, only the provided fields change. Staff only.
//	@Tags			Jobs
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string		true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			jobId			path		string		true	"the job's id"
//	@Param			request			body		jobs.Update	true	"Request params"
//	@Success		200				{object}	jobs.Job
//	@Failure		404				{object}	server.ErrorResponse
//	@Router			/jobs/{jobId} [PUT]
func (s *service) UpdateJob(ctx context.Context, req *server.Request[UpdateJobArg, jobs.Job]) (*server.Response[jobs.Job], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter); err != nil {
		return nil, server.Forbidden(err)
	}
	job, err := s.jobsRepo.Update(ctx, req.AuthenticatedUser.UserID, req.Data.JobID, &req.Data.Update)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrValidationFailure):
			return nil, server.BadRequest(err, validationFailureCode)
		case errors.Is(err, jobs.ErrNotFound):
			return nil, server.NotFound(err, notFoundCode)
		default:
			return nil, server.Unexpected(errors.Wrapf(err, "failed to update job %v", req.Data.JobID))
		}
	}

	return server.OK(job), nil
}

// DeleteJob godoc
//
//	@Schemes
//	@Description	Removes one job offer. Admins only.
//	@Tags			Jobs
//	@Produce		json
//	@Param			Authorization	header	string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			jobId			path	string	true	"the job's id"
//	@Success		204
//	@Failure		403	{object}	server.ErrorResponse
//	@Failure		404	{object}	server.ErrorResponse
//	@Router			/jobs/{jobId} [DELETE]
func (s *service) DeleteJob(ctx context.Context, req *server.Request[DeleteJobArg, any]) (*server.Response[any], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin); err != nil {
		return nil, server.Forbidden(err)
	}
	if err := s.jobsRepo.Delete(ctx, req.AuthenticatedUser.UserID, req.Data.JobID); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return nil, server.NotFound(err, notFoundCode)
		}

		return nil, server.Unexpected(errors.Wrapf(err, "failed to delete job %v", req.Data.JobID))
	}

	return server.NoContent(), nil
}
