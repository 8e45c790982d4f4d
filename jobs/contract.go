// SPDX-License-Identifier: ice License 1.0

package jobs

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/time"
)

// Public API.

const (
	ContractCDI     = "cdi"
	ContractCDD     = "cdd"
	ContractStage   = "stage"
	ContractInterim = "interim"

	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrNotFound          = errors.New("job not found")
	ErrValidationFailure = errors.New("job validation failure")
)

type (
	Job struct {
		CreatedAt    *time.Time `json:"created_at" db:"created_at"`
		UpdatedAt    *time.Time `json:"updated_at" db:"updated_at"`
		ID           string     `json:"id" db:"id"`
		Title        string     `json:"title" db:"title"`
		Description  string     `json:"description" db:"description"`
		Wilaya       string     `json:"wilaya" db:"wilaya"`
		ContractType string     `json:"contract_type" db:"contract_type"`
		SalaryRange  string     `json:"salary_range" db:"salary_range"`
		CreatedBy    string     `json:"created_by" db:"created_by"`
		IsActive     bool       `json:"is_active" db:"is_active"`
	}
	ListFilter struct {
		Wilaya       string
		ContractType string
		ActiveOnly   bool
		Limit        uint64
		Offset       uint64
	}
	Update struct {
		Title        *string `json:"title,omitempty"`
		Description  *string `json:"description,omitempty"`
		Wilaya       *string `json:"wilaya,omitempty"`
		ContractType *string `json:"contract_type,omitempty"`
		SalaryRange  *string `json:"salary_range,omitempty"`
		IsActive     *bool   `json:"is_active,omitempty"`
	}
	Repository interface {
		io.Closer
		Create(ctx context.Context, actorUserID string, job *Job) (*Job, error)
		List(ctx context.Context, filter *ListFilter) ([]*Job, uint64, error)
		GetByID(ctx context.Context, jobID string) (*Job, error)
		Update(ctx context.Context, actorUserID, jobID string, upd *Update) (*Job, error)
		Delete(ctx context.Context, actorUserID, jobID string) error
		CheckHealth(ctx context.Context) error
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
)
