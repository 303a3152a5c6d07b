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

package repo

import (
	"context"
	"time"

	"github.com/go-arcade/askflow/internal/engine/model"
	"github.com/go-arcade/askflow/pkg/cache"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/log"
)

const userCachePrefix = "user:"

type IUserRepository interface {
	Create(ctx context.Context, u *model.User) error
	// Get returns the user by business id; lookups outside a transaction
	// are served cache-aside
	Get(ctx context.Context, userId string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateName(ctx context.Context, userId, name string) error
}

type UserRepo struct {
	db    database.IDatabase
	users *cache.CachedQuery[model.User]
}

func NewUserRepo(db database.IDatabase, c cache.ICache) IUserRepository {
	return &UserRepo{
		db: db,
		users: cache.NewCachedQuery[model.User](c, userCachePrefix,
			cache.WithTTL[model.User](10*time.Minute),
			cache.WithLogPrefix[model.User]("[UserRepo]"),
		),
	}
}

func (ur *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = model.NormalizeEmail(u.Email)
	return database.Conn(ctx, ur.db).Create(u).Error
}

func (ur *UserRepo) Get(ctx context.Context, userId string) (*model.User, error) {
	load := func(ctx context.Context) (model.User, error) {
		var u model.User
		err := database.Conn(ctx, ur.db).Where("user_id = ?", userId).First(&u).Error
		return u, err
	}
	// reads inside a transaction must see uncommitted state
	if database.InTransaction(ctx) {
		u, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return &u, nil
	}
	u, err := ur.users.Get(ctx, userId, load)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := database.Conn(ctx, ur.db).Where("email = ?", model.NormalizeEmail(email)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *UserRepo) UpdateName(ctx context.Context, userId, name string) error {
	err := database.Conn(ctx, ur.db).Model(&model.User{}).
		Where("user_id = ?", userId).
		Update("name", name).Error
	if err != nil {
		return err
	}
	if err := ur.users.Invalidate(ctx, userId); err != nil {
		log.Warnw("failed to invalidate user cache", "userId", userId, "error", err)
	}
	return nil
}
