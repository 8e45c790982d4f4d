// SPDX-License-Identifier: ice License 1.0

package linkedin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ae2i/recruiting/connectors/cache"
)

// stubCacheDB only marks the state store as configured, the nil embedded
// interface panics if anything actually reaches it.
type stubCacheDB struct {
	cache.DB
}

func TestUnconfiguredClientRefusesExchanges(t *testing.T) {
	t.Parallel()
	cl := &client{cfg: new(config)}

	_, err := cl.Exchange(context.Background(), "bogus-code", "")
	require.ErrorIs(t, err, ErrNotConfigured)
	require.ErrorIs(t, cl.CheckHealth(context.Background()), ErrNotConfigured)
}

func TestExchangeRequiresStateWhenStoreConfigured(t *testing.T) {
	t.Parallel()
	cl := &client{cfg: new(config), cacheDB: stubCacheDB{}}
	cl.cfg.RecruitingLinkedIn.Credentials.ClientID = "bogus-id"
	cl.cfg.RecruitingLinkedIn.Credentials.ClientSecret = "bogus-secret"

	_, err := cl.Exchange(context.Background(), "bogus-code", "")
	require.ErrorIs(t, err, ErrInvalidState)
	require.ErrorIs(t, cl.consumeState(context.Background(), ""), ErrInvalidState)
}

func TestIssueStateRequiresStateStore(t *testing.T) {
	t.Parallel()
	cl := &client{cfg: new(config)}

	_, err := cl.IssueState(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestDefaultEndpointsAreApplied(t *testing.T) {
	t.Parallel()
	cl := New(nil, "self").(*client) //nolint:forcetypeassert // Test.
	assert.Equal(t, defaultTokenURL, cl.cfg.RecruitingLinkedIn.TokenURL)
	assert.Equal(t, defaultUserinfoURL, cl.cfg.RecruitingLinkedIn.UserinfoURL)
}

func TestStateKeyNamespacing(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "linkedin_oauth_state:abc", stateKey("abc"))
}
