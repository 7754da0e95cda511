package storage

import (
	"os"
	"path/filepath"
	"testing"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cachedResult = triage.Result{
	Label: triage.Label{
		Category:   triage.CategoryNetworkingVPN,
		Priority:   triage.P2,
		RouteTo:    triage.TeamNetwork,
		NextAction: "Check VPN client logs and gateway status",
	},
	Raw: map[string]any{
		"category":    "Networking > VPN",
		"priority":    "P2",
		"route_to":    "Network Team",
		"next_action": "Check VPN client logs and gateway status",
	},
}

func newTestBolt(t *testing.T) Bolt {
	t.Helper()

	b, err := NewBolt(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return b
}

func TestBolt_CacheRoundTrip(t *testing.T) {
	b := newTestBolt(t)

	_, err := b.CachedResult("missing")
	assert.ErrorIs(t, err, triage.ErrCacheMiss)

	require.NoError(t, b.CacheResult("model:abc", cachedResult))

	got, err := b.CachedResult("model:abc")
	require.NoError(t, err)
	if diff := cmp.Diff(cachedResult, got); diff != "" {
		t.Errorf("CachedResult() mismatch (-want +got):\n%s", diff)
	}
}

func TestBolt_Overwrite(t *testing.T) {
	b := newTestBolt(t)

	require.NoError(t, b.CacheResult("k", cachedResult))

	updated := cachedResult
	updated.Warnings = []triage.Warning{{Kind: triage.WarningRouteMismatch, Field: "route_to", Message: "expected Network Team"}}
	require.NoError(t, b.CacheResult("k", updated))

	got, err := b.CachedResult("k")
	require.NoError(t, err)
	assert.Equal(t, updated.Warnings, got.Warnings)
}

func TestBolt_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	b, err := NewBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.CacheResult("k", cachedResult))
	require.NoError(t, b.Close())

	b, err = NewBolt(path)
	require.NoError(t, err)
	defer b.Close()

	got, err := b.CachedResult("k")
	require.NoError(t, err)
	assert.Equal(t, cachedResult.Label, got.Label)
}

func TestRedis_Cache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	r, err := NewRedis(addr, "", 0, "triage-test:", 0)
	require.NoError(t, err)
	defer r.Close()

	key := "model:" + t.Name()
	defer r.Client.Del(t.Context(), r.key(key))

	_, err = r.CachedResult(key)
	assert.ErrorIs(t, err, triage.ErrCacheMiss)

	require.NoError(t, r.CacheResult(key, cachedResult))

	got, err := r.CachedResult(key)
	require.NoError(t, err)
	assert.Equal(t, cachedResult.Label, got.Label)
	assert.Equal(t, cachedResult.Raw, got.Raw)
}

func TestRedis_Key(t *testing.T) {
	assert.Equal(t, "abc", Redis{}.key("abc"))
	assert.Equal(t, "triage:abc", Redis{Prefix: "triage:"}.key("abc"))
}
