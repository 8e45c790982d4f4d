// SPDX-License-Identifier: ice License 1.0

package linkedin

import (
	"context"
	"fmt"
	"net/http"
	stdlibtime "time"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"

	appcfg "github.com/ae2i/recruiting/config"
	"github.com/ae2i/recruiting/connectors/cache"
	"github.com/ae2i/recruiting/log"
)

func New(cacheDB cache.DB, applicationYAMLKey string) Client {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.RecruitingLinkedIn.Credentials.ClientID == "" {
		cfg.RecruitingLinkedIn.Credentials.ClientID = appcfg.EnvFallback(applicationYAMLKey, "LINKEDIN_CLIENT_ID")
	}
	if cfg.RecruitingLinkedIn.Credentials.ClientSecret == "" {
		cfg.RecruitingLinkedIn.Credentials.ClientSecret = appcfg.EnvFallback(applicationYAMLKey, "LINKEDIN_CLIENT_SECRET")
	}
	if cfg.RecruitingLinkedIn.TokenURL == "" {
		cfg.RecruitingLinkedIn.TokenURL = defaultTokenURL
	}
	if cfg.RecruitingLinkedIn.UserinfoURL == "" {
		cfg.RecruitingLinkedIn.UserinfoURL = defaultUserinfoURL
	}

	return &client{cacheDB: cacheDB, cfg: &cfg}
}

// IssueState mints a one-shot oauth state nonce. Exchange consumes it atomically,
// so any state value can authorize at most one code exchange.
func (c *client) IssueState(ctx context.Context) (string, error) {
	if c.cacheDB == nil {
		return "", errors.Wrap(ErrNotConfigured, "state store is not configured")
	}
	state := uuid.NewString()
	ttl, err := stdlibtime.ParseDuration(stateTTL)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse state ttl")
	}
	if err = cache.SetValue(ctx, c.cacheDB, stateKey(state), state, ttl); err != nil {
		return "", errors.Wrapf(err, "failed to store oauth state %v", state)
	}

	return state, nil
}

func (c *client) Exchange(ctx context.Context, code, state string) (*Profile, error) {
	if !c.configured() {
		return nil, errors.Wrap(ErrNotConfigured, "missing client credentials")
	}
	if err := c.consumeState(ctx, state); err != nil {
		return nil, err
	}
	token, err := c.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return c.fetchProfile(ctx, token)
}

func (c *client) consumeState(ctx context.Context, state string) error {
	if c.cacheDB == nil {
		return nil
	}
	if state == "" {
		return errors.Wrap(ErrInvalidState, "state is required")
	}
	var stored string
	found, err := cache.TakeValue(ctx, c.cacheDB, stateKey(state), &stored)
	if err != nil {
		return errors.Wrapf(err, "failed to consume oauth state %v", state)
	}
	if !found || stored != state {
		return errors.Wrapf(ErrInvalidState, "state %v was never issued or is already used", state)
	}

	return nil
}

func (c *client) exchangeCode(ctx context.Context, code string) (string, error) {
	var token tokenResponse
	resp, err := c.linkedinReq(ctx).
		SetFormData(map[string]string{
			"grant_type":    "authorization_code",
			"code":          code,
			"client_id":     c.cfg.RecruitingLinkedIn.Credentials.ClientID,
			"client_secret": c.cfg.RecruitingLinkedIn.Credentials.ClientSecret,
			"redirect_uri":  c.cfg.RecruitingLinkedIn.RedirectURI,
		}).
		SetSuccessResult(&token).
		Post(c.cfg.RecruitingLinkedIn.TokenURL)
	if err != nil {
		return "", errors.Wrap(err, "token exchange request failed")
	}
	if resp.GetStatusCode() == http.StatusBadRequest || resp.GetStatusCode() == http.StatusUnauthorized {
		body, rErr := resp.ToString()
		log.Error(rErr)

		return "", errors.Wrapf(ErrUnauthorized, "token exchange rejected with status: %v, body: %v", resp.GetStatusCode(), body)
	}
	if !resp.IsSuccessState() || token.AccessToken == "" {
		return "", errors.Errorf("token exchange failed with status: %v", resp.GetStatusCode())
	}

	return token.AccessToken, nil
}

func (c *client) fetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var profile Profile
	resp, err := c.linkedinReq(ctx).
		SetBearerAuthToken(accessToken).
		SetSuccessResult(&profile).
		Get(c.cfg.RecruitingLinkedIn.UserinfoURL)
	if err != nil {
		return nil, errors.Wrap(err, "userinfo request failed")
	}
	if resp.GetStatusCode() == http.StatusUnauthorized || resp.GetStatusCode() == http.StatusForbidden {
		return nil, errors.Wrapf(ErrUnauthorized, "userinfo rejected with status: %v", resp.GetStatusCode())
	}
	if !resp.IsSuccessState() {
		return nil, errors.Errorf("userinfo failed with status: %v", resp.GetStatusCode())
	}

	return &profile, nil
}

func (c *client) CheckHealth(_ context.Context) error {
	if !c.configured() {
		return errors.Wrap(ErrNotConfigured, "missing client credentials")
	}

	return nil
}

func (c *client) configured() bool {
	return c.cfg.RecruitingLinkedIn.Credentials.ClientID != "" && c.cfg.RecruitingLinkedIn.Credentials.ClientSecret != ""
}

//nolint:mnd,gomnd // Static config.
func (c *client) linkedinReq(ctx context.Context) *req.Request {
	return req.
		SetContext(ctx).
		SetRetryBackoffInterval(10*stdlibtime.Millisecond, 1*stdlibtime.Second).
		SetRetryCount(3).
		SetRetryCondition(func(resp *req.Response, err error) bool {
			return err != nil || resp.GetStatusCode() >= http.StatusInternalServerError
		})
}

func stateKey(state string) string {
	return fmt.Sprintf("linkedin_oauth_state:%v", state)
}
