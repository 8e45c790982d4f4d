// SPDX-License-Identifier: ice License 1.0

package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Public API.

const (
	JWTIssuer = "ae2i/recruiting"

	RoleAdmin     = "admin"
	RoleRecruiter = "recruteur"
	RoleReader    = "lecteur"
	RoleCandidate = "candidat"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	// Token is the payload extracted from a verified access token.
	Token struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	Client interface {
		VerifyToken(accessToken string) (*Token, error)
		IssueAccessToken(userID, email, role string) (string, error)
		IssueRefreshToken() string
		HashPassword(password string) (string, error)
		ComparePassword(passwordHash, password string) error
	}
)

// Private API.

type (
	claims struct {
		jwt.RegisteredClaims
		Email string `json:"email,omitempty"`
		Role  string `json:"role,omitempty"`
	}
	auth struct {
		cfg *config
	}
	config struct {
		RecruitingAuth struct {
			JWTSecret        string `yaml:"jwtSecret" mapstructure:"jwtSecret"`               //nolint:tagliatelle // Nope.
			AccessExpiration string `yaml:"accessExpiration" mapstructure:"accessExpiration"` //nolint:tagliatelle // Nope.
		} `yaml:"recruiting/auth" mapstructure:"recruiting/auth"` //nolint:tagliatelle // Nope.
	}
)
