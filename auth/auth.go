// SPDX-License-Identifier: ice License 1.0

package auth

import (
	"fmt"
	stdlibtime "time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	appcfg "github.com/ae2i/recruiting/config"
	"github.com/ae2i/recruiting/log"
	"github.com/ae2i/recruiting/time"
)

func New(applicationYAMLKey string) Client {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.RecruitingAuth.JWTSecret == "" {
		cfg.RecruitingAuth.JWTSecret = appcfg.EnvFallback(applicationYAMLKey, "JWT_SECRET")
	}
	if cfg.RecruitingAuth.JWTSecret == "" {
		log.Panic(errors.New("jwt secret is missing"))
	}
	if cfg.RecruitingAuth.AccessExpiration == "" {
		cfg.RecruitingAuth.AccessExpiration = "1h"
	}
	if _, err := stdlibtime.ParseDuration(cfg.RecruitingAuth.AccessExpiration); err != nil {
		log.Panic(errors.Wrapf(err, "invalid access expiration %q", cfg.RecruitingAuth.AccessExpiration))
	}

	return &auth{cfg: &cfg}
}

func (a *auth) IssueAccessToken(userID, email, role string) (string, error) {
	now := time.Now()
	expiration, err := stdlibtime.ParseDuration(a.cfg.RecruitingAuth.AccessExpiration)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse access expiration")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JWTIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(*now.Time),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
		Email: email,
		Role:  role,
	})
	signed, err := token.SignedString([]byte(a.cfg.RecruitingAuth.JWTSecret))

	return signed, errors.Wrapf(err, "failed to sign access token for user %v", userID)
}

func (a *auth) IssueRefreshToken() string {
	return fmt.Sprintf("%v-%v", uuid.NewString(), time.Now().UnixNano())
}

func (a *auth) VerifyToken(accessToken string) (*Token, error) {
	var verified claims
	if _, err := jwt.ParseWithClaims(accessToken, &verified, a.verify()); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, errors.Wrap(ErrExpiredToken, "expired or not valid yet token")
		}

		return nil, errors.Wrap(err, "invalid token")
	}
	if verified.Role == "" {
		return nil, errors.Wrap(ErrInvalidToken, "access to endpoint with refresh token")
	}

	return &Token{UserID: verified.Subject, Email: verified.Email, Role: verified.Role}, nil
}

func (a *auth) verify() func(token *jwt.Token) (any, error) {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok || token.Method.Alg() != jwt.SigningMethodHS256.Name {
			return nil, errors.Errorf("unexpected signing method:%v", token.Header["alg"])
		}
		if iss, err := token.Claims.GetIssuer(); err != nil || iss != JWTIssuer {
			return nil, errors.Wrapf(ErrInvalidToken, "invalid issuer:%v", iss)
		}

		return []byte(a.cfg.RecruitingAuth.JWTSecret), nil
	}
}

func (*auth) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(hash), errors.Wrap(err, "failed to hash password")
}

func (*auth) ComparePassword(passwordHash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return errors.Wrap(ErrInvalidCredentials, "password mismatch")
	}

	return nil
}
