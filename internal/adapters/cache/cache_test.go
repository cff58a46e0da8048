package cache

import (
	"context"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/db"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func sampleFront() *domain.ParetoFront {
	return &domain.ParetoFront{
		GeneratedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		Candidates: []domain.ParetoCandidate{
			{
				Gamma:        0.2,
				Weights:      domain.WeightTriple{Time: 1},
				Order:        []int{2, 0, 1},
				Performance:  domain.Performance{Time: 1.5, Cost: 40, CO2: 1200},
				NonDominated: true,
			},
		},
		NonDominated: []int{0},
	}
}

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisSweepCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSweepCache(client, ttl), mr
}

func TestRedisSweepCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, c.Put(ctx, "abc", sampleFront()))
	require.True(t, mr.Exists(SweepKeyPrefix+"abc"))
	require.Equal(t, time.Minute, mr.TTL(SweepKeyPrefix+"abc"))

	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, sampleFront(), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisSweepCacheErrors(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 0)
	require.Equal(t, DefaultSweepTTL, c.ttl)

	require.Error(t, c.Put(ctx, "k", nil))

	require.NoError(t, mr.Set(SweepKeyPrefix+"bad", "not json"))
	_, err := c.Get(ctx, "bad")
	require.ErrorContains(t, err, "decode")

	mr.Close()
	_, err = c.Get(ctx, "abc")
	require.Error(t, err)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := DialRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = DialRedis(context.Background(), "::not a url")
	require.Error(t, err)
}

func newSQLCache(t *testing.T) *SQLSweepCache {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn))

	return NewSQLSweepCache(conn, db.SQLite, time.Minute)
}

func TestSQLSweepCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newSQLCache(t)

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, c.Put(ctx, "abc", sampleFront()))
	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, sampleFront(), got)

	// Put overwrites an existing key.
	updated := sampleFront()
	updated.Candidates[0].Gamma = 1.0
	require.NoError(t, c.Put(ctx, "abc", updated))
	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	require.InDelta(t, 1.0, got.Candidates[0].Gamma, 1e-12)

	now = now.Add(2 * time.Minute)
	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLSweepCacheValidation(t *testing.T) {
	ctx := context.Background()
	c := newSQLCache(t)

	_, err := c.Get(ctx, " ")
	require.Error(t, err)
	require.Error(t, c.Put(ctx, "", sampleFront()))
	require.Error(t, c.Put(ctx, "k", nil))

	require.Error(t, (&SQLSweepCache{}).Put(ctx, "k", sampleFront()))
}
