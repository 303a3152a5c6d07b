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

package database

import (
	"context"

	"gorm.io/gorm"
)

// IDatabase is what repositories depend on.
type IDatabase interface {
	// Database returns the underlying *gorm.DB
	Database() *gorm.DB
	// Transaction runs fn inside a transaction bound to ctx
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	// InTx runs fn with a context carrying the transaction, so repository
	// calls made through Conn(ctx, db) share it. Nested calls use savepoints.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// Conn returns the transaction carried by ctx, or the pool bound to ctx
func Conn(ctx context.Context, db IDatabase) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.Database().WithContext(ctx)
}

// InTransaction reports whether ctx carries a transaction
func InTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok && tx != nil
}

type databaseAdapter struct {
	manager Manager
}

// NewDatabaseAdapter creates an IDatabase adapter from Manager
func NewDatabaseAdapter(manager Manager) IDatabase {
	return &databaseAdapter{manager: manager}
}

func (d *databaseAdapter) Database() *gorm.DB {
	return d.manager.DB()
}

func (d *databaseAdapter) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.manager.DB().WithContext(ctx).Transaction(fn)
}

func (d *databaseAdapter) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return Conn(ctx, d).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
