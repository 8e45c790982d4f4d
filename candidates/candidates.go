// SPDX-License-Identifier: ice License 1.0

package candidates

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

func (r *repository) Submit(ctx context.Context, cand *Candidate) (*Candidate, error) {
	if err := validateSubmission(cand); err != nil {
		return nil, err
	}
	now := time.Now()
	cand.ID = uuid.NewString()
	cand.CreatedAt = now
	cand.UpdatedAt = now
	cand.Email = strings.ToLower(strings.TrimSpace(cand.Email))
	if cand.Status == "" {
		cand.Status = StatusNew
	}
	_, err := storage.Exec(ctx, r.db, `
		INSERT INTO candidates (id, created_at, updated_at, first_name, last_name, email, phone, wilaya, diplome, specialite,
		                        competences, langues, cv_url, lettre_motivation, disponibilite, status, notes,
		                        experience_years, pretention_salariale)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		cand.ID, cand.CreatedAt.Time, cand.UpdatedAt.Time, cand.FirstName, cand.LastName, cand.Email, cand.Phone,
		cand.Wilaya, cand.Diplome, cand.Specialite, cand.Competences, cand.Langues, cand.CVURL, cand.LettreMotivation,
		cand.Disponibilite, cand.Status, cand.Notes, cand.ExperienceYears, cand.PretentionSalariale)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to insert candidate %v", cand.Email)
	}
	activity.Record(ctx, r.db, "", "submit_candidature", "candidate", cand.ID, map[string]any{"email": cand.Email})

	return cand, nil
}

func validateSubmission(cand *Candidate) error {
	required := []struct{ field, value string }{
		{"first_name", cand.FirstName},
		{"last_name", cand.LastName},
		{"email", cand.Email},
		{"phone", cand.Phone},
		{"wilaya", cand.Wilaya},
		{"diplome", cand.Diplome},
	}
	var missing []string
	for _, pair := range required {
		if strings.TrimSpace(pair.value) == "" {
			missing = append(missing, pair.field)
		}
	}
	if len(missing) != 0 {
		return errors.Wrapf(ErrValidationFailure, "missing required fields: %v", strings.Join(missing, ", "))
	}
	if !strings.Contains(cand.Email, "@") {
		return errors.Wrapf(ErrValidationFailure, "invalid email: %v", cand.Email)
	}

	return nil
}

//nolint:funlen // Query assembly.
func (r *repository) List(ctx context.Context, filter *ListFilter) ([]*Candidate, uint64, error) {
	if filter == nil {
		filter = new(ListFilter)
	}
	if filter.Limit == 0 || filter.Limit > MaxListLimit {
		filter.Limit = DefaultListLimit
	}
	where, args := buildListWhere(filter)
	total, err := storage.Get[totalRow](ctx, r.db, fmt.Sprintf(`SELECT COUNT(*) AS total FROM candidates %v`, where), args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count candidates")
	}
	args = append(args, filter.Limit, filter.Offset)
	sql := fmt.Sprintf(`
		SELECT * FROM candidates %v
		ORDER BY created_at DESC
		LIMIT $%v OFFSET $%v`, where, len(args)-1, len(args))
	result, err := storage.Select[Candidate](ctx, r.db, sql, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to select candidates")
	}

	return result, total.Total, nil
}

func buildListWhere(filter *ListFilter) (string, []any) {
	var conditions []string
	var args []any
	appendCondition := func(column, operator string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%v %v $%v", column, operator, len(args)))
	}
	if filter.Diplome != "" {
		appendCondition("diplome", "=", filter.Diplome)
	}
	if filter.Wilaya != "" {
		appendCondition("wilaya", "=", filter.Wilaya)
	}
	if filter.Status != "" {
		appendCondition("status", "=", filter.Status)
	}
	if filter.ExperienceMin != 0 {
		appendCondition("experience_years", ">=", filter.ExperienceMin)
	}
	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *repository) GetByID(ctx context.Context, candidateID string) (*Candidate, error) {
	cand, err := storage.Get[Candidate](ctx, r.db, `SELECT * FROM candidates WHERE id = $1`, candidateID)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "no candidate %v", candidateID)
		}

		return nil, errors.Wrapf(err, "failed to select candidate %v", candidateID)
	}

	return cand, nil
}

//nolint:funlen,gocognit,revive // Column-by-column patch assembly.
func (r *repository) Update(ctx context.Context, actorUserID, candidateID string, upd *Update) (*Candidate, error) {
	var assignments []string
	args := []any{candidateID, time.Now().Time}
	assign := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%v = $%v", column, len(args)))
	}
	if upd.Phone != nil {
		assign("phone", *upd.Phone)
	}
	if upd.Wilaya != nil {
		assign("wilaya", *upd.Wilaya)
	}
	if upd.Diplome != nil {
		assign("diplome", *upd.Diplome)
	}
	if upd.Specialite != nil {
		assign("specialite", *upd.Specialite)
	}
	if upd.Competences != nil {
		assign("competences", *upd.Competences)
	}
	if upd.Langues != nil {
		assign("langues", *upd.Langues)
	}
	if upd.CVURL != nil {
		assign("cv_url", *upd.CVURL)
	}
	if upd.Disponibilite != nil {
		assign("disponibilite", *upd.Disponibilite)
	}
	if upd.Status != nil {
		assign("status", *upd.Status)
	}
	if upd.Notes != nil {
		assign("notes", *upd.Notes)
	}
	if upd.ExperienceYears != nil {
		assign("experience_years", *upd.ExperienceYears)
	}
	if upd.PretentionSalariale != nil {
		assign("pretention_salariale", *upd.PretentionSalariale)
	}
	if len(assignments) == 0 {
		return r.GetByID(ctx, candidateID)
	}
	sql := fmt.Sprintf(`
		UPDATE candidates
		SET updated_at = $2, %v
		WHERE id = $1
		RETURNING *`, strings.Join(assignments, ", "))
	cand, err := storage.ExecOne[Candidate](ctx, r.db, sql, args...)
	if err != nil {
		if storage.IsErr(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "no candidate %v", candidateID)
		}

		return nil, errors.Wrapf(err, "failed to update candidate %v", candidateID)
	}
	activity.Record(ctx, r.db, actorUserID, "update_candidate", "candidate", candidateID, nil)

	return cand, nil
}

func (r *repository) Delete(ctx context.Context, actorUserID, candidateID string) error {
	affected, err := storage.Exec(ctx, r.db, `DELETE FROM candidates WHERE id = $1`, candidateID)
	if err != nil {
		return errors.Wrapf(err, "failed to delete candidate %v", candidateID)
	}
	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "no candidate %v", candidateID)
	}
	activity.Record(ctx, r.db, actorUserID, "delete_candidate", "candidate", candidateID, nil)

	return nil
}

func (r *repository) CheckHealth(ctx context.Context) error {
	return errors.Wrap(r.db.Ping(ctx), "candidates storage is unreachable")
}

func (r *repository) Close() error {
	return errors.Wrap(r.db.Close(), "failed to close candidates storage")
}
