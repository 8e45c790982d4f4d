// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/accounts"
	"github.com/ae2i/recruiting/admin"
	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/candidates"
	"github.com/ae2i/recruiting/connectors/cache"
	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/filestorage"
	"github.com/ae2i/recruiting/jobs"
	"github.com/ae2i/recruiting/linkedin"
	"github.com/ae2i/recruiting/log"
	"github.com/ae2i/recruiting/server"
	"github.com/ae2i/recruiting/upload"
)

func (s *service) Init(ctx context.Context, _ context.CancelFunc) {
	db := storage.MustConnect(ctx, ddl, applicationYamlKey)
	cacheDB := cache.MustConnect(ctx, applicationYamlKey)
	authClient := auth.New(applicationYamlKey)
	fileStorageClient, err := filestorage.New(ctx, applicationYamlKey)
	if err != nil {
		log.Error(errors.Wrap(err, "file storage is unavailable, continuing with the local sink"))
		fileStorageClient = nil
	}
	s.uploadProcessor = upload.New(db, fileStorageClient, applicationYamlKey)
	s.accountsRepo = accounts.New(db, cacheDB, authClient)
	s.candidatesRepo = candidates.New(db)
	s.jobsRepo = jobs.New(db)
	s.adminRepo = admin.New(db)
	s.linkedinClient = linkedin.New(cacheDB, applicationYamlKey)
}

func (s *service) RegisterRoutes(router *server.Router) {
	s.registerUploadRoutes(router)
	s.registerAccountRoutes(router)
	s.registerCandidateRoutes(router)
	s.registerJobRoutes(router)
	s.registerAdminRoutes(router)
	s.registerLinkedInRoutes(router)
}

func (s *service) CheckHealth(ctx context.Context) error {
	if err := s.accountsRepo.CheckHealth(ctx); err != nil {
		return errors.Wrap(err, "accounts health check failed")
	}

	return errors.Wrap(s.uploadProcessor.CheckHealth(ctx), "upload health check failed")
}

func (s *service) Close(_ context.Context) error {
	return multierror.Append(nil,
		errors.Wrap(s.accountsRepo.Close(), "failed to close accounts repository"),
		errors.Wrap(s.candidatesRepo.Close(), "failed to close candidates repository"),
		errors.Wrap(s.jobsRepo.Close(), "failed to close jobs repository"),
		errors.Wrap(s.adminRepo.Close(), "failed to close admin repository"),
	).ErrorOrNil() //nolint:wrapcheck // Already wrapped.
}
