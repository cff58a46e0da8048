package cache

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/obs"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLSweepCache is a SQL-backed cache for Pareto fronts, used when no Redis
// is configured. Expired entries read as misses and are overwritten by Put.
type SQLSweepCache struct {
	DB      *sql.DB
	Dialect db.Dialect
	TTL     time.Duration
	now     func() time.Time
}

func NewSQLSweepCache(conn *sql.DB, dialect db.Dialect, ttl time.Duration) *SQLSweepCache {
	if ttl <= 0 {
		ttl = DefaultSweepTTL
	}
	return &SQLSweepCache{DB: conn, Dialect: dialect, TTL: ttl, now: time.Now}
}

func (s *SQLSweepCache) Get(ctx context.Context, key string) (_ *domain.ParetoFront, err error) {
	defer obs.Time(ctx, "sweep.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sweep cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("get sweep cache: key must not be empty")
	}

	var payload, expires string
	err = s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT payload, expires_at
	FROM sweep_cache
	WHERE cache_key = ?;
	`), key).Scan(&payload, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sweep cache: query sweep_cache table: %w", err)
	}

	exp, err := time.Parse(time.RFC3339Nano, expires)
	if err != nil {
		return nil, fmt.Errorf("get sweep cache: parse expiry: %w", err)
	}
	if !s.now().Before(exp) {
		return nil, nil
	}

	var front domain.ParetoFront
	if err := json.Unmarshal([]byte(payload), &front); err != nil {
		return nil, fmt.Errorf("get sweep cache: decode payload: %w", err)
	}
	return &front, nil
}

func (s *SQLSweepCache) Put(ctx context.Context, key string, front *domain.ParetoFront) (err error) {
	defer obs.Time(ctx, "sweep.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("sweep cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert sweep cache: key must not be empty")
	}
	if front == nil {
		return errors.New("insert sweep cache: front is nil")
	}

	payload, err := json.Marshal(front)
	if err != nil {
		return fmt.Errorf("insert sweep cache: encode: %w", err)
	}
	expires := s.now().Add(s.TTL).UTC().Format(time.RFC3339Nano)

	_, err = s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO sweep_cache (cache_key, payload, expires_at)
	VALUES (?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`), key, string(payload), expires)
	if err != nil {
		return fmt.Errorf("insert sweep cache key=%q: %w", key, err)
	}
	return nil
}
