// SPDX-License-Identifier: ice License 1.0

package auth

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testApplicationYAMLKey = "self"

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	client := New(testApplicationYAMLKey)

	signed, err := client.IssueAccessToken("bogus-user-id", "jdoe@example.com", RoleRecruiter)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	token, err := client.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "bogus-user-id", token.UserID)
	assert.Equal(t, "jdoe@example.com", token.Email)
	assert.Equal(t, RoleRecruiter, token.Role)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	t.Parallel()
	client := New(testApplicationYAMLKey)

	_, err := client.VerifyToken("not.a.token")
	require.Error(t, err)
	_, err = client.VerifyToken("")
	require.Error(t, err)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	t.Parallel()
	client := New(testApplicationYAMLKey)
	signed, err := client.IssueAccessToken("bogus-user-id", "jdoe@example.com", RoleAdmin)
	require.NoError(t, err)

	pieces := strings.Split(signed, ".")
	require.Len(t, pieces, 3)
	tampered := pieces[0] + "." + pieces[1] + "AAAA." + pieces[2]
	_, err = client.VerifyToken(tampered)
	require.Error(t, err)
}

func TestVerifyTokenRejectsForeignIssuer(t *testing.T) {
	t.Parallel()
	client := New(testApplicationYAMLKey)
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "somebody/else", Subject: "bogus-user-id"},
		Email:            "jdoe@example.com",
		Role:             RoleAdmin,
	})
	signed, err := foreign.SignedString([]byte(client.(*auth).cfg.RecruitingAuth.JWTSecret))
	require.NoError(t, err)

	_, err = client.VerifyToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	t.Parallel()
	client := New(testApplicationYAMLKey)
	seen := make(map[string]struct{}, 100)
	for range 100 {
		token := client.IssueRefreshToken()
		_, duplicate := seen[token]
		require.False(t, duplicate)
		seen[token] = struct{}{}
	}
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()
	client := New(testApplicationYAMLKey)

	hash, err := client.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.NoError(t, client.ComparePassword(hash, "correct horse battery staple"))
	require.ErrorIs(t, client.ComparePassword(hash, "wrong"), ErrInvalidCredentials)
}
