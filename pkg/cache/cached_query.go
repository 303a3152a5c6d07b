// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss indicates that the key was not found in cache
var ErrCacheMiss = redis.Nil

type QueryFunc[T any] func(ctx context.Context) (T, error)

// CachedQuery is a cache-aside reader. A nil ICache turns it into a
// pass-through so callers never branch on cache availability.
type CachedQuery[T any] struct {
	cache     ICache
	prefix    string
	ttl       time.Duration
	logPrefix string
	group     singleflight.Group
}

type CachedQueryOption[T any] func(*CachedQuery[T])

func WithTTL[T any](ttl time.Duration) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.ttl = ttl
	}
}

func WithLogPrefix[T any](prefix string) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.logPrefix = prefix
	}
}

func NewCachedQuery[T any](cache ICache, keyPrefix string, opts ...CachedQueryOption[T]) *CachedQuery[T] {
	cq := &CachedQuery[T]{
		cache:     cache,
		prefix:    keyPrefix,
		ttl:       5 * time.Minute,
		logPrefix: "[CachedQuery]",
	}
	for _, opt := range opts {
		opt(cq)
	}
	return cq
}

func (cq *CachedQuery[T]) key(id string) string {
	return cq.prefix + id
}

// Get returns the cached value for id or runs query and caches its result.
// Errors from query are returned unchanged and never cached.
func (cq *CachedQuery[T]) Get(ctx context.Context, id string, query QueryFunc[T]) (T, error) {
	cacheKey := cq.key(id)

	if cq.cache != nil {
		data, err := cq.cache.Get(ctx, cacheKey).Result()
		switch {
		case err == nil && data != "":
			var result T
			if err := sonic.UnmarshalString(data, &result); err == nil {
				log.Debugw(cq.logPrefix+" cache hit", "key", cacheKey)
				return result, nil
			}
			log.Warnw(cq.logPrefix+" failed to unmarshal cached data", "key", cacheKey, "error", err)
		case err != nil && !errors.Is(err, ErrCacheMiss):
			log.Warnw(cq.logPrefix+" cache get error", "key", cacheKey, "error", err)
		}
	}

	// concurrent misses on one key share a single query
	v, err, _ := cq.group.Do(cacheKey, func() (any, error) {
		result, err := query(ctx)
		if err != nil {
			return nil, err
		}
		cq.store(ctx, cacheKey, result)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (cq *CachedQuery[T]) store(ctx context.Context, cacheKey string, result T) {
	if cq.cache == nil {
		return
	}
	data, err := sonic.MarshalString(result)
	if err != nil {
		log.Warnw(cq.logPrefix+" failed to marshal result for caching", "key", cacheKey, "error", err)
		return
	}
	if err := cq.cache.Set(ctx, cacheKey, data, cq.ttl).Err(); err != nil {
		log.Warnw(cq.logPrefix+" failed to cache result", "key", cacheKey, "error", err)
	}
}

// Invalidate drops the cached value for each id.
func (cq *CachedQuery[T]) Invalidate(ctx context.Context, ids ...string) error {
	if cq.cache == nil || len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cq.key(id)
	}
	if err := cq.cache.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}
