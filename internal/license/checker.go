package license

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

const (
	cacheKey   = "license:expiration_date"
	dateLayout = "2006-01-02"
)

// Checker resolves the license expiration date. The date document is
// three lines (year, month, day) fetched from a configured URL, cached
// in Redis, with a configured default as fallback.
type Checker struct {
	cfg    config.LicenseConfig
	cache  *redis.Client
	client *http.Client
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewChecker builds a checker. The cache client may be nil, in which
// case every check fetches the URL. The location sets the calendar
// used to decide when the expiration day has passed.
func NewChecker(cfg config.LicenseConfig, cache *redis.Client, logger *zap.Logger, loc *time.Location) *Checker {
	timeout := time.Duration(cfg.FetchTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{
		cfg:    cfg,
		cache:  cache,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// ExpirationDate returns the effective expiration date. A zero time
// with a non-nil error means the date could not be determined at all.
func (c *Checker) ExpirationDate(ctx context.Context) (time.Time, error) {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			if date, parseErr := time.Parse(dateLayout, cached); parseErr == nil {
				return date, nil
			}
		}
	}

	date, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("could not fetch license expiration; using default",
			zap.String("url", c.cfg.URL), zap.Error(err))
		date, err = time.Parse(dateLayout, c.cfg.DefaultDate)
		if err != nil {
			c.logger.Error("invalid default license expiration date",
				zap.String("default", c.cfg.DefaultDate))
			return time.Time{}, fmt.Errorf("license: invalid default expiration date %q", c.cfg.DefaultDate)
		}
		return date, nil
	}

	if c.cache != nil {
		ttl := time.Duration(c.cfg.CacheTTLMinutes) * time.Minute
		if err := c.cache.Set(ctx, cacheKey, date.Format(dateLayout), ttl).Err(); err != nil {
			c.logger.Warn("failed to cache license expiration date", zap.Error(err))
		}
	}
	return date, nil
}

// Expired reports whether the current date is past the expiration.
// When the date cannot be determined access is allowed; that condition
// is logged for attention.
func (c *Checker) Expired(ctx context.Context) (bool, time.Time) {
	date, err := c.ExpirationDate(ctx)
	if err != nil {
		c.logger.Error("license expiration date could not be determined; allowing access")
		return false, time.Time{}
	}
	// The calendar day is taken in the configured location; the parsed
	// expiration date is midnight UTC, so the comparison is day vs day.
	now := c.now().In(c.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.After(date), date
}

// fetch retrieves and parses the three-line date document.
func (c *Checker) fetch(ctx context.Context) (time.Time, error) {
	if c.cfg.URL == "" {
		return time.Time{}, fmt.Errorf("license: expiration URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return time.Time{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("license: unexpected status %d", resp.StatusCode)
	}

	var parts [3]int
	scanner := bufio.NewScanner(resp.Body)
	for i := range parts {
		if !scanner.Scan() {
			return time.Time{}, fmt.Errorf("license: date document has fewer than 3 lines")
		}
		value, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return time.Time{}, fmt.Errorf("license: malformed date document: %w", err)
		}
		parts[i] = value
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC), nil
}
