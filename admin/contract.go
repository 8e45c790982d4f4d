// SPDX-License-Identifier: ice License 1.0

package admin

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/accounts"
	"github.com/ae2i/recruiting/candidates"
	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/jobs"
	"github.com/ae2i/recruiting/time"
)

// Public API.

const (
	ExportCandidates = "candidates"
	ExportJobs       = "jobs"
	ExportAll        = "all"

	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRole         = errors.New("invalid role")
	ErrUnknownExportTarget = errors.New("unknown export target")
)

type (
	// PlatformStats is the admin dashboard aggregate, one row of counters over the whole platform.
	PlatformStats struct {
		CandidatesByStatus map[string]uint64 `json:"candidates_by_status"`
		JobsByContractType map[string]uint64 `json:"jobs_by_contract_type"`
		TotalCandidates    uint64            `json:"total_candidates"`
		TotalJobs          uint64            `json:"total_jobs"`
		ActiveJobs         uint64            `json:"active_jobs"`
		TotalUsers         uint64            `json:"total_users"`
		TotalUploads       uint64            `json:"total_uploads"`
	}
	ActivityEntry struct {
		CreatedAt  *time.Time     `json:"created_at" db:"created_at"`
		Details    map[string]any `json:"details,omitempty" db:"details"`
		ID         string         `json:"id" db:"id"`
		UserID     string         `json:"user_id" db:"user_id"`
		Action     string         `json:"action" db:"action"`
		EntityType string         `json:"entity_type" db:"entity_type"`
		EntityID   string         `json:"entity_id" db:"entity_id"`
	}
	ActivityFilter struct {
		UserID     string
		Action     string
		EntityType string
		Limit      uint64
		Offset     uint64
	}
	UserUpdate struct {
		Role     *string `json:"role,omitempty"`
		IsActive *bool   `json:"is_active,omitempty"`
	}
	ExportBundle struct {
		ExportedAt *time.Time              `json:"exported_at"`
		Candidates []*candidates.Candidate `json:"candidates,omitempty"`
		Jobs       []*jobs.Job             `json:"jobs,omitempty"`
	}
	Repository interface {
		io.Closer
		PlatformStats(ctx context.Context) (*PlatformStats, error)
		ListActivity(ctx context.Context, filter *ActivityFilter) ([]*ActivityEntry, uint64, error)
		ListUsers(ctx context.Context, limit, offset uint64) ([]*accounts.User, uint64, error)
		UpdateUser(ctx context.Context, actorUserID, userID string, upd *UserUpdate) (*accounts.User, error)
		Export(ctx context.Context, actorUserID, target string) (*ExportBundle, error)
	}
)

// Private API.

type (
	repository struct {
		db *storage.DB
	}
	totalRow struct {
		Total uint64 `db:"total"`
	}
	platformTotals struct {
		TotalCandidates uint64 `db:"total_candidates"`
		TotalJobs       uint64 `db:"total_jobs"`
		ActiveJobs      uint64 `db:"active_jobs"`
		TotalUsers      uint64 `db:"total_users"`
		TotalUploads    uint64 `db:"total_uploads"`
	}
	groupCount struct {
		Grouping string `db:"grouping"`
		Total    uint64 `db:"total"`
	}
)
