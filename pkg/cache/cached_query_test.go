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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	UserId string `json:"userId"`
	Email  string `json:"email"`
}

func TestFastCache_GetSetDel(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(0)

	_, err := fc.Get(ctx, "missing").Result()
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, fc.Set(ctx, "k", "v", 0).Err())
	got, err := fc.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, fc.Set(ctx, "obj", cachedUser{UserId: "u1"}, time.Minute).Err())
	got, err = fc.Get(ctx, "obj").Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"u1","email":""}`, got)

	n, err := fc.Del(ctx, "k", "nope").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFastCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := NewFastCache(0)
	fc.now = func() time.Time { return now }

	require.NoError(t, fc.Set(ctx, "k", "v", time.Second).Err())
	_, err := fc.Get(ctx, "k").Result()
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = fc.Get(ctx, "k").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCachedQuery_CacheAside(t *testing.T) {
	ctx := context.Background()
	cq := NewCachedQuery[cachedUser](NewFastCache(0), "user:", WithTTL[cachedUser](time.Minute))

	calls := 0
	query := func(ctx context.Context) (cachedUser, error) {
		calls++
		return cachedUser{UserId: "u1", Email: "a@example.com"}, nil
	}

	for i := 0; i < 3; i++ {
		u, err := cq.Get(ctx, "u1", query)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", u.Email)
	}
	assert.Equal(t, 1, calls)

	require.NoError(t, cq.Invalidate(ctx, "u1"))
	_, err := cq.Get(ctx, "u1", query)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedQuery_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	cq := NewCachedQuery[cachedUser](NewFastCache(0), "user:")
	boom := errors.New("not found")

	calls := 0
	query := func(ctx context.Context) (cachedUser, error) {
		calls++
		return cachedUser{}, boom
	}
	_, err := cq.Get(ctx, "u1", query)
	assert.ErrorIs(t, err, boom)
	_, err = cq.Get(ctx, "u1", query)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestCachedQuery_NilCache(t *testing.T) {
	cq := NewCachedQuery[int](nil, "n:")
	v, err := cq.Get(context.Background(), "1", func(ctx context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.NoError(t, cq.Invalidate(context.Background(), "1"))
}

func TestCachedQuery_SharesConcurrentMisses(t *testing.T) {
	cq := NewCachedQuery[cachedUser](NewFastCache(0), "user:")
	release := make(chan struct{})
	var calls atomic.Int32

	var wg sync.WaitGroup
	results := make([]cachedUser, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := cq.Get(context.Background(), "u1", func(ctx context.Context) (cachedUser, error) {
				calls.Add(1)
				<-release
				return cachedUser{UserId: "u1"}, nil
			})
			assert.NoError(t, err)
			results[i] = u
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, u := range results {
		assert.Equal(t, "u1", u.UserId)
	}
}

func TestProvideCache(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		wantNil bool
		wantErr bool
	}{
		{"none", ModeNone, true, false},
		{"local", ModeLocal, false, false},
		{"default is local", "", false, false},
		{"unknown", "memcached", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, cleanup, err := ProvideCache(Cache{Mode: tt.mode}, Redis{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer cleanup()
			assert.Equal(t, tt.wantNil, c == nil)
		})
	}
}

func TestNewRedis_UnsupportedMode(t *testing.T) {
	_, err := NewRedis(Redis{Mode: "cluster"})
	assert.Error(t, err)
}
