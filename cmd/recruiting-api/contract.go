// SPDX-License-Identifier: ice License 1.0

package main

import (
	_ "embed"

	"github.com/ae2i/recruiting/accounts"
	"github.com/ae2i/recruiting/admin"
	"github.com/ae2i/recruiting/candidates"
	"github.com/ae2i/recruiting/jobs"
	"github.com/ae2i/recruiting/linkedin"
	"github.com/ae2i/recruiting/upload"
)

// Private API.

const (
	applicationYamlKey = "cmd/recruiting-api"
	swaggerRoot        = "/docs"
)

//go:embed DDL.sql
var ddl string

type (
	service struct {
		uploadProcessor upload.Processor
		accountsRepo    accounts.Repository
		candidatesRepo  candidates.Repository
		jobsRepo        jobs.Repository
		adminRepo       admin.Repository
		linkedinClient  linkedin.Client
	}
)
