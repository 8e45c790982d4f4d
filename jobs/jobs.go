// SPDX-License-Identifier: ice License 1.0

package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/activity"
	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/time"
)

func New(db *storage.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, actorUserID string, job *Job) (*Job, error) {
	if strings.TrimSpace(job.Title) == "" || strings.TrimSpace(job.Description) == "" {
		return nil, errors.Wrap(ErrValidationFailure, "title and description are required")
	}
	if job.ContractType != "" && !validContractType(job.ContractType) {
		return nil, errors.Wrapf(ErrValidationFailure, "unknown contract type: %v", job.ContractType)
	}
	now := time.Now()
	job.ID = uuid.NewString()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.CreatedBy = actorUserID
	job.IsActive = true
	_, err := storage.Exec(ctx, r.db, `
		INSERT INTO jobs (id, created_at, updated_at, title, description, wilaya, contract_type, salary_range, created_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID, job.CreatedAt.Time, job.UpdatedAt.Time, job.Title, job.Description, job.Wilaya,
		job.ContractType, job.SalaryRange, job.CreatedBy, job.IsActive)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to insert job %v", job.Title)
	}
	activity.Record(ctx, r.db, actorUserID, "create_job", "job", job.ID, map[string]any{"title": job.Title})

	return job, nil
}

func validContractType(contractType string) bool {
	switch contractType {
	case ContractCDI, ContractCDD, ContractStage, ContractInterim:
		return true
	default:
		return false
	}
}

func (r *repository) List(ctx context.Context, filter *ListFilter) ([]*Job, uint64, error) {
	if filter == nil {
		filter = new(ListFilter)
	}
	if filter.Limit == 0 || filter.Limit > MaxListLimit {
		filter.Limit = DefaultListLimit
	}
	where, args := buildListWhere(filter)
	total, err := storage.Get[totalRow](ctx, r.db, fmt.Sprintf(`SELECT COUNT(*) AS total FROM jobs %v`, where), args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count jobs")
	}
	args = append(args, filter.Limit, filter.Offset)
	sql := fmt.Sprintf(`
		SELECT * FROM jobs %v
		ORDER BY created_at DESC
		LIMIT $%v OFFSET $%v`, where, len(args)-1, len(args))
	result, err := storage.Select[Job](ctx, r.db, sql, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to select jobs")
	}

	return result, total.Total, nil
}

func buildListWhere(filter *ListFilter) (string, []any) {
	var conditions []string
	var args []any
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Wilaya != "" {
		args = append(args, filter.Wilaya)
		conditions = append(conditions, fmt.Sprintf("wilaya = $%v", len(args)))
	}
	if filter.ContractType != "" {
		args = append(args, filter.ContractType)
		conditions = append(conditions, fmt.Sprintf("contract_type = $%v", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *repository) GetByID(ctx context.Context, jobID string) (*Job, error) {
	job, err := storage.Get[Job](ctx, r.db, `SELECT * FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "no job %v", jobID)
		}

		return nil, errors.Wrapf(err, "failed to select job %v", jobID)
	}

	return job, nil
}

func (r *repository) Update(ctx context.Context, actorUserID, jobID string, upd *Update) (*Job, error) {
	if upd.ContractType != nil && *upd.ContractType != "" && !validContractType(*upd.ContractType) {
		return nil, errors.Wrapf(ErrValidationFailure, "unknown contract type: %v", *upd.ContractType)
	}
	var assignments []string
	args := []any{jobID, time.Now().Time}
	assign := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%v = $%v", column, len(args)))
	}
	if upd.Title != nil {
		assign("title", *upd.Title)
	}
	if upd.Description != nil {
		assign("description", *upd.Description)
	}
	if upd.Wilaya != nil {
		assign("wilaya", *upd.Wilaya)
	}
	if upd.ContractType != nil {
		assign("contract_type", *upd.ContractType)
	}
	if upd.SalaryRange != nil {
		assign("salary_range", *upd.SalaryRange)
	}
	if upd.IsActive != nil {
		assign("is_active", *upd.IsActive)
	}
	if len(assignments) == 0 {
		return r.GetByID(ctx, jobID)
	}
	sql := fmt.Sprintf(`
		UPDATE jobs
		SET updated_at = $2, %v
		WHERE id = $1
		RETURNING *`, strings.Join(assignments, ", "))
	job, err := storage.ExecOne[Job](ctx, r.db, sql, args...)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "no job %v", jobID)
		}

		return nil, errors.Wrapf(err, "failed to update job %v", jobID)
	}
	activity.Record(ctx, r.db, actorUserID, "update_job", "job", jobID, nil)

	return job, nil
}

func (r *repository) Delete(ctx context.Context, actorUserID, jobID string) error {
	affected, err := storage.Exec(ctx, r.db, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return errors.Wrapf(err, "failed to delete job %v", jobID)
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "no job %v", jobID)
	}
	activity.Record(ctx, r.db, actorUserID, "delete_job", "job", jobID, nil)

	return nil
}

func (r *repository) CheckHealth(ctx context.Context) error {
	return errors.Wrap(r.db.Ping(ctx), "jobs storage is unreachable")
}

func (r *repository) Close() error {
	return errors.Wrap(r.db.Close(), "failed to close jobs storage")
}
