// SPDX-License-Identifier: ice License 1.0

package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/accounts"
	"github.com/ae2i/recruiting/activity"
	"github.com/ae2i/recruiting/auth"
	"github.com/ae2i/recruiting/candidates"
	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/jobs"
	"github.com/ae2i/recruiting/time"
)

func New(db *storage.DB) Repository {
	return &repository{db: db}
}

func (r *repository) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	totals, err := storage.Get[platformTotals](ctx, r.db, `
		SELECT (SELECT COUNT(*) FROM candidates)                          AS total_candidates,
		       (SELECT COUNT(*) FROM jobs)                                AS total_jobs,
		       (SELECT COUNT(*) FROM jobs WHERE is_active = TRUE)         AS active_jobs,
		       (SELECT COUNT(*) FROM users)                               AS total_users,
		       (SELECT COUNT(*) FROM media_uploads)                       AS total_uploads`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select platform totals")
	}
	byStatus, err := storage.Select[groupCount](ctx, r.db, `
		SELECT COALESCE(NULLIF(status, ''), 'unknown') AS grouping, COUNT(*) AS total FROM candidates GROUP BY 1`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select per-status candidate counts")
	}
	byContract, err := storage.Select[groupCount](ctx, r.db, `
		SELECT COALESCE(NULLIF(contract_type, ''), 'unknown') AS grouping, COUNT(*) AS total FROM jobs GROUP BY 1`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select per-contract-type job counts")
	}
	stats := &PlatformStats{
		TotalCandidates:    totals.TotalCandidates,
		TotalJobs:          totals.TotalJobs,
		ActiveJobs:         totals.ActiveJobs,
		TotalUsers:         totals.TotalUsers,
		TotalUploads:       totals.TotalUploads,
		CandidatesByStatus: make(map[string]uint64, len(byStatus)),
		JobsByContractType: make(map[string]uint64, len(byContract)),
	}
	for _, row := range byStatus {
		stats.CandidatesByStatus[row.Grouping] = row.Total
	}
	for _, row := range byContract {
		stats.JobsByContractType[row.Grouping] = row.Total
	}

	return stats, nil
}

func (r *repository) ListActivity(ctx context.Context, filter *ActivityFilter) ([]*ActivityEntry, uint64, error) {
	if filter == nil {
		filter = new(ActivityFilter)
	}
	if filter.Limit == 0 || filter.Limit > MaxListLimit {
		filter.Limit = DefaultListLimit
	}
	where, args := buildActivityWhere(filter)
	total, err := storage.Get[totalRow](ctx, r.db, fmt.Sprintf(`SELECT COUNT(*) AS total FROM activity_logs %v`, where), args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count activity log entries")
	}
	args = append(args, filter.Limit, filter.Offset)
	sql := fmt.Sprintf(`
		SELECT id, created_at, user_id, action, entity_type, entity_id, COALESCE(details, '{}'::JSONB) AS details
		FROM activity_logs %v
		ORDER BY created_at DESC
		LIMIT $%v OFFSET $%v`, where, len(args)-1, len(args))
	result, err := storage.Select[ActivityEntry](ctx, r.db, sql, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to select activity log entries")
	}

	return result, total.Total, nil
}

func buildActivityWhere(filter *ActivityFilter) (string, []any) {
	var conditions []string
	var args []any
	appendCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%v = $%v", column, len(args)))
	}
	if filter.UserID != "" {
		appendCondition("user_id", filter.UserID)
	}
	if filter.Action != "" {
		appendCondition("action", filter.Action)
	}
	if filter.EntityType != "" {
		appendCondition("entity_type", filter.EntityType)
	}
	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *repository) ListUsers(ctx context.Context, limit, offset uint64) ([]*accounts.User, uint64, error) {
	if limit == 0 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	total, err := storage.Get[totalRow](ctx, r.db, `SELECT COUNT(*) AS total FROM users`)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}
	result, err := storage.Select[accounts.User](ctx, r.db, `
		SELECT * FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to select users")
	}

	return result, total.Total, nil
}

func (r *repository) UpdateUser(ctx context.Context, actorUserID, userID string, upd *UserUpdate) (*accounts.User, error) {
	if err := validateUserUpdate(upd); err != nil {
		return nil, err
	}
	var assignments []string
	args := []any{userID}
	assign := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%v = $%v", column, len(args)))
	}
	if upd.Role != nil {
		assign("role", *upd.Role)
	}
	if upd.IsActive != nil {
		assign("is_active", *upd.IsActive)
	}
	if len(assignments) == 0 {
		return r.getUser(ctx, userID)
	}
	sql := fmt.Sprintf(`
		UPDATE users
		SET %v
		WHERE id = $1
		RETURNING *`, strings.Join(assignments, ", "))
	usr, err := storage.ExecOne[accounts.User](ctx, r.db, sql, args...)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrUserNotFound, "no user %v", userID)
		}

		return nil, errors.Wrapf(err, "failed to update user %v", userID)
	}
	activity.Record(ctx, r.db, actorUserID, "update_user", "user", userID, nil)

	return usr, nil
}

func validateUserUpdate(upd *UserUpdate) error {
	if upd.Role == nil {
		return nil
	}
	switch *upd.Role {
	case auth.RoleAdmin, auth.RoleRecruiter, auth.RoleReader, auth.RoleCandidate:
		return nil
	default:
		return errors.Wrapf(ErrInvalidRole, "unknown role: %v", *upd.Role)
	}
}

func (r *repository) getUser(ctx context.Context, userID string) (*accounts.User, error) {
	usr, err := storage.Get[accounts.User](ctx, r.db, `SELECT * FROM users WHERE id = $1`, userID)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrUserNotFound, "no user %v", userID)
		}

		return nil, errors.Wrapf(err, "failed to select user %v", userID)
	}

	return usr, nil
}

func (r *repository) Export(ctx context.Context, actorUserID, target string) (*ExportBundle, error) {
	bundle := &ExportBundle{ExportedAt: time.Now()}
	if target != ExportCandidates && target != ExportJobs && target != ExportAll {
		return nil, errors.Wrapf(ErrUnknownExportTarget, "cannot export %v", target)
	}
	if target == ExportCandidates || target == ExportAll {
		result, err := storage.Select[candidates.Candidate](ctx, r.db, `SELECT * FROM candidates ORDER BY created_at DESC`)
		if err != nil {
			return nil, errors.Wrap(err, "failed to export candidates")
		}
		bundle.Candidates = result
	}
	if target == ExportJobs || target == ExportAll {
		result, err := storage.Select[jobs.Job](ctx, r.db, `SELECT * FROM jobs ORDER BY created_at DESC`)
		if err != nil {
			return nil, errors.Wrap(err, "failed to export jobs")
		}
		bundle.Jobs = result
	}
	activity.Record(ctx, r.db, actorUserID, "export_"+target, "export", target, nil)

	return bundle, nil
}

func (r *repository) Close() error {
	return errors.Wrap(r.db.Close(), "failed to close admin storage")
}
