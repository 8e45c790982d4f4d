// SPDX-License-Identifier: ice License 1.0

package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubmissionRequiredFields(t *testing.T) {
	t.Parallel()
	err := validateSubmission(&Candidate{})
	require.ErrorIs(t, err, ErrValidationFailure)
	assert.ErrorContains(t, err, "missing required fields: first_name, last_name, email, phone, wilaya, diplome")

	err = validateSubmission(&Candidate{FirstName: "Amine", Wilaya: "Alger"})
	require.ErrorIs(t, err, ErrValidationFailure)
	assert.ErrorContains(t, err, "missing required fields: last_name, email, phone, diplome")

	err = validateSubmission(&Candidate{
		FirstName: "Amine", LastName: "Benali", Email: "amine@example.com",
		Phone: "+213550000000", Wilaya: "Alger",
	})
	require.ErrorIs(t, err, ErrValidationFailure)
	assert.ErrorContains(t, err, "diplome")

	require.NoError(t, validateSubmission(&Candidate{
		FirstName: "Amine", LastName: "Benali", Email: "amine@example.com",
		Phone: "+213550000000", Wilaya: "Alger", Diplome: "Master",
	}))
}

func TestValidateSubmissionRejectsBogusEmail(t *testing.T) {
	t.Parallel()
	err := validateSubmission(&Candidate{
		FirstName: "Amine", LastName: "Benali", Email: "not-an-email",
		Phone: "+213550000000", Wilaya: "Alger", Diplome: "Master",
	})
	require.ErrorIs(t, err, ErrValidationFailure)
	assert.ErrorContains(t, err, "invalid email")
}

func TestBuildListWhere(t *testing.T) {
	t.Parallel()
	where, args := buildListWhere(&ListFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildListWhere(&ListFilter{Diplome: "Master", Wilaya: "Alger", Status: StatusNew, ExperienceMin: 3})
	assert.Equal(t, "WHERE diplome = $1 AND wilaya = $2 AND status = $3 AND experience_years >= $4", where)
	assert.Equal(t, []any{"Master", "Alger", StatusNew, uint8(3)}, args)

	where, args = buildListWhere(&ListFilter{Status: StatusAccepted})
	assert.Equal(t, "WHERE status = $1", where)
	assert.Equal(t, []any{StatusAccepted}, args)
}
