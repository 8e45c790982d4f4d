// SPDX-License-Identifier: ice License 1.0

package candidates

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/time"
)

// Public API.

const (
	StatusNew       = "nouveau"
	StatusReviewing = "en_cours"
	StatusInterview = "entretien"
	StatusAccepted  = "accepte"
	StatusRejected  = "refuse"

	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrNotFound          = errors.New("candidate not found")
	ErrValidationFailure = errors.New("candidate validation failure")
)

type (
	Candidate struct {
		CreatedAt           *time.Time `json:"created_at" db:"created_at"`
		UpdatedAt           *time.Time `json:"updated_at" db:"updated_at"`
		ID                  string     `json:"id" db:"id"`
		FirstName           string     `json:"first_name" db:"first_name"`
		LastName            string     `json:"last_name" db:"last_name"`
		Email               string     `json:"email" db:"email"`
		Phone               string     `json:"phone" db:"phone"`
		Wilaya              string     `json:"wilaya" db:"wilaya"`
		Diplome             string     `json:"diplome" db:"diplome"`
		Specialite          string     `json:"specialite" db:"specialite"`
		Competences         []string   `json:"competences" db:"competences"`
		Langues             []string   `json:"langues" db:"langues"`
		CVURL               string     `json:"cv_url" db:"cv_url"`
		LettreMotivation    string     `json:"lettre_motivation" db:"lettre_motivation"`
		Disponibilite       string     `json:"disponibilite" db:"disponibilite"`
		Status              string     `json:"status" db:"status"`
		Notes               string     `json:"notes" db:"notes"`
		ExperienceYears     uint8      `json:"experience_years" db:"experience_years"`
		PretentionSalariale uint64     `json:"pretention_salariale" db:"pretention_salariale"`
	}
	ListFilter struct {
		Diplome       string
		Wilaya        string
		Status        string
		ExperienceMin uint8
		Limit         uint64
		Offset        uint64
	}
	Update struct {
		Phone               *string   `json:"phone,omitempty"`
		Wilaya              *string   `json:"wilaya,omitempty"`
		Diplome             *string   `json:"diplome,omitempty"`
		Specialite          *string   `json:"specialite,omitempty"`
		Competences         *[]string `json:"competences,omitempty"`
		Langues             *[]string `json:"langues,omitempty"`
		CVURL               *string   `json:"cv_url,omitempty"`
		Disponibilite       *string   `json:"disponibilite,omitempty"`
		Status              *string   `json:"status,omitempty"`
		Notes               *string   `json:"notes,omitempty"`
		ExperienceYears     *uint8    `json:"experience_years,omitempty"`
		PretentionSalariale *uint64   `json:"pretention_salariale,omitempty"`
	}
	Repository interface {
		io.Closer
		Submit(ctx context.Context, cand *Candidate) (*Candidate, error)
		List(ctx context.Context, filter *ListFilter) ([]*Candidate, uint64, error)
		GetByID(ctx context.Context, candidateID string) (*Candidate, error)
		Update(ctx context.Context, actorUserID, candidateID string, upd *Update) (*Candidate, error)
		Delete(ctx context.Context, actorUserID, candidateID string) error
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
