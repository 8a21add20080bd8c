// Package cache is the post-commit notifier: it invalidates derived Redis
// entries after a settlement transaction has durably committed. Failures
// here never affect settlement correctness; stale entries self-heal on
// their own expiry.
package cache

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const delBatchSize = 100

// FixturePatterns returns the key patterns derived from one settled
// fixture: per-fixture detail, leaderboard aggregates, global stats and
// per-predictor stats.
func FixturePatterns(fixtureID string, predictorIDs []string) []string {
	patterns := []string{
		"fixture:" + fixtureID + ":*",
		"leaderboard:*",
		"stats:global:*",
	}
	for _, pid := range predictorIDs {
		patterns = append(patterns, "predictor:"+pid+":*")
	}
	return patterns
}

type Invalidator struct {
	Client    *redis.Client
	Logger    *zap.Logger
	ScanCount int64
}

// Invalidate deletes every key matching the given patterns, scanning
// incrementally (never KEYS) and running the independent patterns
// concurrently. Returns the number of keys deleted; errors are logged
// and swallowed.
func (i *Invalidator) Invalidate(ctx context.Context, patterns []string) int64 {
	if i == nil || i.Client == nil || len(patterns) == 0 {
		return 0
	}
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
	)
	for _, pattern := range patterns {
		wg.Add(1)
		go func(pattern string) {
			defer wg.Done()
			n, err := i.deleteByPattern(ctx, pattern)
			if err != nil && i.Logger != nil {
				i.Logger.Warn("cache invalidation failed",
					zap.String("pattern", pattern), zap.Error(err))
			}
			mu.Lock()
			total += n
			mu.Unlock()
		}(pattern)
	}
	wg.Wait()
	return total
}

func (i *Invalidator) deleteByPattern(ctx context.Context, pattern string) (int64, error) {
	count := i.ScanCount
	if count <= 0 {
		count = 100
	}
	var deleted int64
	batch := make([]string, 0, delBatchSize)
	iter := i.Client.Scan(ctx, 0, pattern, count).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= delBatchSize {
			n, err := i.Client.Del(ctx, batch...).Result()
			deleted += n
			if err != nil {
				return deleted, err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	if len(batch) > 0 {
		n, err := i.Client.Del(ctx, batch...).Result()
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}
