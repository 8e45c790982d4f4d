// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/candidates"
	"github.com/ae2i/recruiting/server"
)

type (
	SubmitCandidateArg struct {
		//nolint:unused // Processed by the router.
		_                   struct{} `allowUnauthorized:"true"`
		FirstName           string   `json:"first_name" required:"true" example:"Amine"`
		LastName            string   `json:"last_name" required:"true" example:"Benali"`
		Email               string   `json:"email" required:"true" example:"amine.benali@example.com"`
		Phone               string   `json:"phone" required:"true" example:"+213550000000"`
		Wilaya              string   `json:"wilaya" required:"true" example:"Alger"`
		Diplome             string   `json:"diplome" required:"true" example:"Master"`
		Specialite          string   `json:"specialite" example:"Informatique"`
		Competences         []string `json:"competences"`
		Langues             []string `json:"langues"`
		CVURL               string   `json:"cv_url"`
		LettreMotivation    string   `json:"lettre_motivation"`
		Disponibilite       string   `json:"disponibilite" example:"immediate"`
		ExperienceYears     uint8    `json:"experience_years"`
		PretentionSalariale uint64   `json:"pretention_salariale"`
	}
	ListCandidatesArg struct {
		Diplome       string `form:"diplome"`
		Wilaya        string `form:"wilaya"`
		Status        string `form:"status"`
		ExperienceMin uint8  `form:"experience_min"`
		Limit         uint64 `form:"limit" maximum:"200"`
		Offset        uint64 `form:"offset"`
	}
	GetCandidateArg struct {
		CandidateID string `uri:"candidateId" required:"true"`
	}
	UpdateCandidateArg struct {
		CandidateID       string `uri:"candidateId" required:"true" swaggerignore:"true"`
		candidates.Update `json:",inline"`
	}
	DeleteCandidateArg struct {
		CandidateID string `uri:"candidateId" required:"true"`
	}
	ListedCandidates struct {
		Candidates []*candidates.Candidate `json:"candidates"`
		Total      uint64                  `json:"total"`
	}
)

func (s *service) registerCandidateRoutes(router *server.Router) {
	router.POST("v1/candidates", server.RootHandler(s.SubmitCandidate))
	router.GET("v1/candidates", server.RootHandler(s.ListCandidates))
	router.GET("v1/candidates/:candidateId", server.RootHandler(s.GetCandidate))
	router.PUT("v1/candidates/:candidateId", server.RootHandler(s.UpdateCandidate))
	router.DELETE("v1/candidates/:candidateId", server.RootHandler(s.DeleteCandidate))
}

// SubmitCandidate godoc
//
//	@Schemes
//	@Description	Public candidature submission.
//	@Tags			Candidates
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SubmitCandidateArg	true	"Request params"
//	@Success		201		{object}	candidates.Candidate
//	@Failure		400		{object}	server.ErrorResponse	"a required field is missing"
//	@Router			/candidates [POST]
func (s *service) SubmitCandidate(ctx context.Context, req *server.Request[SubmitCandidateArg, candidates.Candidate]) (*server.Response[candidates.Candidate], *server.Response[server.ErrorResponse]) {
	cand, err := s.candidatesRepo.Submit(ctx, &candidates.Candidate{
		FirstName:           req.Data.FirstName,
		LastName:            req.Data.LastName,
		Email:               req.Data.Email,
		Phone:               req.Data.Phone,
		Wilaya:              req.Data.Wilaya,
		Diplome:             req.Data.Diplome,
		Specialite:          req.Data.Specialite,
		Competences:         req.Data.Competences,
		Langues:             req.Data.Langues,
		CVURL:               req.Data.CVURL,
		LettreMotivation:    req.Data.LettreMotivation,
		Disponibilite:       req.Data.Disponibilite,
		ExperienceYears:     req.Data.ExperienceYears,
		PretentionSalariale: req.Data.PretentionSalariale,
	})
	if err != nil {
		if errors.Is(err, candidates.ErrValidationFailure) {
			return nil, server.BadRequest(err, validationFailureCode)
		}

		return nil, server.Unexpected(errors.Wrap(err, "candidature submission failed"))
	}

	return server.Created(cand), nil
}

// ListCandidates godoc
//
//	@Schemes
//	@Description	Lists candidatures, filtered and paginated. Staff only.
//	@Tags			Candidates
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			diplome			query		string	false	"filter by diploma"
//	@Param			wilaya			query		string	false	"filter by wilaya"
//	@Param			status			query		string	false	"filter by status"
//	@Param			experience_min	query		number	false	"minimum years of experience"
//	@Param			limit			query		number	false	"max rows to return"	default(50)
//	@Param			offset			query		number	false	"rows to skip"			default(0)
//	@Success		200				{object}	ListedCandidates
//	@Failure		403				{object}	server.ErrorResponse
//	@Router			/candidates [GET]
func (s *service) ListCandidates(ctx context.Context, req *server.Request[ListCandidatesArg, ListedCandidates]) (*server.Response[ListedCandidates], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter, auth.RoleReader); err != nil {
		return nil, server.Forbidden(err)
	}
	result, total, err := s.candidatesRepo.List(ctx, &candidates.ListFilter{
		Diplome:       req.Data.Diplome,
		Wilaya:        req.Data.Wilaya,
		Status:        req.Data.Status,
		ExperienceMin: req.Data.ExperienceMin,
		Limit:         req.Data.Limit,
		Offset:        req.Data.Offset,
	})
	if err != nil {
		return nil, server.Unexpected(errors.Wrap(err, "failed to list candidates"))
	}

	return server.OK(&ListedCandidates{Candidates: result, Total: total}), nil
}

// GetCandidate godoc
//
//	@Schemes
//	@Description	Returns one candidature. Staff only.
//	@Tags			Candidates
//	@Produce		json
//	@Param			Authorization	header		string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			candidateId		path		string	true	"the candidate's id"
//	@Success		200				{object}	candidates.Candidate
//	@Failure		404				{object}	server.ErrorResponse
//	@Router			/candidates/{candidateId} [GET]
func (s *service) GetCandidate(ctx context.Context, req *server.Request[GetCandidateArg, candidates.Candidate]) (*server.Response[candidates.Candidate], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter, auth.RoleReader); err != nil {
		return nil, server.Forbidden(err)
	}
	cand, err := s.candidatesRepo.GetByID(ctx, req.Data.CandidateID)
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return nil, server.NotFound(err, notFoundCode)
		}

		return nil, server.Unexpected(errors.Wrapf(err, "failed to get candidate %v", req.Data.CandidateID))
	}

	return server.OK(cand), nil
}

// UpdateCandidate godoc
//
//	@Schemes
//	@Description	Patches one candidature, only the provided fields change. Staff only.
//	@Tags			Candidates
//	@Accept			json
//	@Produce		json
//	@Param			Authorization	header		string				true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			candidateId		path		string				true	"the candidate's id"
//	@Param			request			body		candidates.Update	true	"Request params"
//	@Success		200				{object}	candidates.Candidate
//	@Failure		404				{object}	server.ErrorResponse
//	@Router			/candidates/{candidateId} [PUT]
func (s *service) UpdateCandidate(ctx context.Context, req *server.Request[UpdateCandidateArg, candidates.Candidate]) (*server.Response[candidates.Candidate], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin, auth.RoleRecruiter); err != nil {
		return nil, server.Forbidden(err)
	}
	cand, err := s.candidatesRepo.Update(ctx, req.AuthenticatedUser.UserID, req.Data.CandidateID, &req.Data.Update)
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return nil, server.NotFound(err, notFoundCode)
		}

		return nil, server.Unexpected(errors.Wrapf(err, "failed to update candidate %v", req.Data.CandidateID))
	}

	return server.OK(cand), nil
}

// DeleteCandidate godoc
//
//	@Schemes
//	@Description	Removes one candidature. Admins only.
//	@Tags			Candidates
//	@Produce		json
//	@Param			Authorization	header	string	true	"Insert your access token"	default(Bearer <Add access token here>)
//	@Param			candidateId		path	string	true	"the candidate's id"
//	@Success		204
//	@Failure		403	{object}	server.ErrorResponse
//	@Failure		404	{object}	server.ErrorResponse
//	@Router			/candidates/{candidateId} [DELETE]
func (s *service) DeleteCandidate(ctx context.Context, req *server.Request[DeleteCandidateArg, any]) (*server.Response[any], *server.Response[server.ErrorResponse]) {
	if err := requireRole(req.AuthenticatedUser.Role, auth.RoleAdmin); err != nil {
		return nil, server.Forbidden(err)
	}
	if err := s.candidatesRepo.Delete(ctx, req.AuthenticatedUser.UserID, req.Data.CandidateID); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return nil, server.NotFound(err, notFoundCode)
		}

		return nil, server.Unexpected(errors.Wrapf(err, "failed to delete candidate %v", req.Data.CandidateID))
	}

	return server.NoContent(), nil
}
