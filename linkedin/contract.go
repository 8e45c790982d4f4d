// SPDX-License-Identifier: ice License 1.0

package linkedin

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/connectors/cache"
)

// Public API.

var (
	ErrNotConfigured = errors.New("linkedin integration is not configured")
	ErrUnauthorized  = errors.New("linkedin rejected the authorization")
	ErrInvalidState  = errors.New("unknown or reused oauth state")
)

type (
	// Profile is the identity LinkedIn reports for an exchanged authorization code.
	Profile struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
		Locale     string `json:"locale,omitempty"`
	}
	Client interface {
		IssueState(ctx context.Context) (string, error)
		Exchange(ctx context.Context, code, state string) (*Profile, error)
		CheckHealth(ctx context.Context) error
	}
)

// Private API.

const (
	defaultTokenURL    = "https://www.linkedin.com/oauth/v2/accessToken"
	defaultUserinfoURL = "https://api.linkedin.com/v2/userinfo"

	stateTTL = "10m"
)

type (
	client struct {
		cacheDB cache.DB
		cfg     *config
	}
	tokenResponse struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   uint64 `json:"expires_in"`
	}
	config struct {
		RecruitingLinkedIn struct {
			Credentials struct {
				ClientID     string `yaml:"clientId" mapstructure:"clientId"`         //nolint:tagliatelle // Nope.
				ClientSecret string `yaml:"clientSecret" mapstructure:"clientSecret"` //nolint:tagliatelle // Nope.
			} `yaml:"credentials" mapstructure:"credentials"`
			RedirectURI string `yaml:"redirectUri" mapstructure:"redirectUri"` //nolint:tagliatelle // Nope.
			TokenURL    string `yaml:"tokenUrl" mapstructure:"tokenUrl"`       //nolint:tagliatelle // Nope.
			UserinfoURL string `yaml:"userinfoUrl" mapstructure:"userinfoUrl"` //nolint:tagliatelle // Nope.
		} `yaml:"recruiting/linkedin" mapstructure:"recruiting/linkedin"` //nolint:tagliatelle // Nope.
	}
)
