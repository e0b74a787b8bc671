package license

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

func dateServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func cacheClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestExpirationDateFromDocument(t *testing.T) {
	server := dateServer(t, "2030\n6\n15\n")
	checker := NewChecker(config.LicenseConfig{URL: server.URL, CacheTTLMinutes: 60}, nil, zap.NewNop(), time.UTC)

	date, err := checker.ExpirationDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), date)
}

func TestExpirationDateCached(t *testing.T) {
	server := dateServer(t, "2030\n6\n15\n")
	mr, client := cacheClient(t)
	checker := NewChecker(config.LicenseConfig{URL: server.URL, CacheTTLMinutes: 60}, client, zap.NewNop(), time.UTC)
	ctx := context.Background()

	_, err := checker.ExpirationDate(ctx)
	require.NoError(t, err)

	cached, err := mr.Get("license:expiration_date")
	require.NoError(t, err)
	assert.Equal(t, "2030-06-15", cached)

	// A poisoned cache entry overrides the fetch path entirely.
	require.NoError(t, mr.Set("license:expiration_date", "2031-01-02"))
	date, err := checker.ExpirationDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2031, 1, 2, 0, 0, 0, 0, time.UTC), date)
}

func TestExpirationDateFallsBackToDefault(t *testing.T) {
	checker := NewChecker(config.LicenseConfig{
		URL:         "http://127.0.0.1:1/nope",
		DefaultDate: "2027-12-31",
	}, nil, zap.NewNop(), time.UTC)

	date, err := checker.ExpirationDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC), date)
}

func TestExpirationDateUndeterminable(t *testing.T) {
	checker := NewChecker(config.LicenseConfig{
		URL:         "http://127.0.0.1:1/nope",
		DefaultDate: "whenever",
	}, nil, zap.NewNop(), time.UTC)

	_, err := checker.ExpirationDate(context.Background())
	assert.Error(t, err)

	expired, _ := checker.Expired(context.Background())
	assert.False(t, expired)
}

func TestExpired(t *testing.T) {
	server := dateServer(t, "2026\n1\n1\n")
	checker := NewChecker(config.LicenseConfig{URL: server.URL}, nil, zap.NewNop(), time.UTC)

	checker.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	expired, date := checker.Expired(context.Background())
	assert.False(t, expired)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), date)

	checker.now = func() time.Time { return time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC) }
	expired, _ = checker.Expired(context.Background())
	assert.False(t, expired) // expires at end of the expiration day

	checker.now = func() time.Time { return time.Date(2026, 1, 2, 0, 30, 0, 0, time.UTC) }
	expired, _ = checker.Expired(context.Background())
	assert.True(t, expired)
}

func TestExpiredUsesConfiguredCalendar(t *testing.T) {
	server := dateServer(t, "2026\n1\n1\n")
	loc := time.FixedZone("UTC-5", -5*60*60)
	checker := NewChecker(config.LicenseConfig{URL: server.URL}, nil, zap.NewNop(), loc)

	// 03:00 UTC on Jan 2 is still 22:00 Jan 1 in the local calendar.
	checker.now = func() time.Time { return time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC) }
	expired, _ := checker.Expired(context.Background())
	assert.False(t, expired)

	checker.now = func() time.Time { return time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC) }
	expired, _ = checker.Expired(context.Background())
	assert.True(t, expired)
}

func TestFetchRejectsMalformedDocuments(t *testing.T) {
	for name, body := range map[string]string{
		"too few lines": "2030\n6\n",
		"not numeric":   "soon\n6\n15\n",
	} {
		server := dateServer(t, body)
		checker := NewChecker(config.LicenseConfig{URL: server.URL, DefaultDate: "2027-01-01"}, nil, zap.NewNop(), time.UTC)

		date, err := checker.ExpirationDate(context.Background())
		require.NoError(t, err, name)
		assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), date, name)
	}
}
