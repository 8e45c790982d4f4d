// SPDX-License-Identifier: ice License 1.0

package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ae2i/recruiting/auth"
)

func TestValidateUserUpdate(t *testing.T) {
	t.Parallel()
	require.NoError(t, validateUserUpdate(new(UserUpdate)))
	for _, role := range []string{auth.RoleAdmin, auth.RoleRecruiter, auth.RoleReader, auth.RoleCandidate} {
		require.NoError(t, validateUserUpdate(&UserUpdate{Role: &role}))
	}
	bogus := "superuser"
	err := validateUserUpdate(&UserUpdate{Role: &bogus})
	require.ErrorIs(t, err, ErrInvalidRole)
	assert.ErrorContains(t, err, "superuser")
}

func TestBuildActivityWhere(t *testing.T) {
	t.Parallel()
	where, args := buildActivityWhere(new(ActivityFilter))
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildActivityWhere(&ActivityFilter{UserID: "u1", Action: "update_user", EntityType: "user"})
	assert.Equal(t, "WHERE user_id = $1 AND action = $2 AND entity_type = $3", where)
	assert.Equal(t, []any{"u1", "update_user", "user"}, args)

	where, args = buildActivityWhere(&ActivityFilter{Action: "submit_candidature"})
	assert.Equal(t, "WHERE action = $1", where)
	assert.Equal(t, []any{"submit_candidature"}, args)
}

func TestExportRejectsUnknownTarget(t *testing.T) {
	t.Parallel()
	repo := new(repository)

	_, err := repo.Export(context.Background(), "admin-user", "secrets")
	require.ErrorIs(t, err, ErrUnknownExportTarget)
	assert.ErrorContains(t, err, "secrets")
}
