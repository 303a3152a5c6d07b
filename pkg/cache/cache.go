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
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ModeNone  = "none"
	ModeLocal = "local"
	ModeRedis = "redis"
)

// ICache is the key/value surface shared by the redis and in-process
// backends. Results use go-redis command types so callers handle both alike;
// a miss is reported as redis.Nil.
type ICache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache selects the backend for cache-aside lookups.
type Cache struct {
	// Mode is one of "none", "local" or "redis"
	Mode          string `mapstructure:"mode"`
	TTL           int    `mapstructure:"ttl"` // seconds
	LocalMaxBytes int    `mapstructure:"localMaxBytes"`
	KeyPrefix     string `mapstructure:"keyPrefix"`
}

func (c *Cache) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLocal
	}
	if c.TTL <= 0 {
		c.TTL = 300
	}
	if c.LocalMaxBytes <= 0 {
		c.LocalMaxBytes = 32 * 1024 * 1024
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "askflow:"
	}
}

func (c *Cache) Expiration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}
