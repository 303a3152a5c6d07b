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
	"fmt"
	"time"

	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/trace"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// Manager owns the relational store connection.
type Manager interface {
	// DB returns the primary connection, routed through DBResolver when replicas are configured
	DB() *gorm.DB

	// Close closes the underlying pool
	Close() error
}

type managerImpl struct {
	db *gorm.DB
}

func (m *managerImpl) DB() *gorm.DB {
	return m.db
}

func (m *managerImpl) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// NewManager opens the configured store, applies pool settings and pings it.
func NewManager(cfg Database) (Manager, error) {
	cfg.SetDefaults()

	db, err := openConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", cfg.Driver, err)
	}
	log.Infow("database connected", "driver", cfg.Driver)

	if cfg.Trace {
		if err := trace.RegisterGormPlugin(db, cfg.Driver, cfg.OutPut); err != nil {
			log.Warnw("failed to register OpenTelemetry gorm plugin", "error", err)
		}
	}

	if cfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return &managerImpl{db: db}, nil
}

func openConnection(cfg Database) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg)
	if err != nil {
		return nil, err
	}

	logConfig := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Info,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	}

	var gormLogger gormlogger.Interface
	if cfg.OutPut {
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Info)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	if cfg.Driver == DriverMySQL {
		if err := registerResolver(db, cfg); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.Driver == DriverSQLite && cfg.SQLite.DSN == ":memory:" {
		// recycling the only connection would drop the database
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		sqlDB.SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime))
		sqlDB.SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime))
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}
	return db, nil
}

// registerResolver enables read-write separation when Primary or Replicas are set.
func registerResolver(db *gorm.DB, cfg Database) error {
	hasPrimary := len(cfg.MySQL.Primary) > 0
	hasReplicas := len(cfg.MySQL.Replicas) > 0
	if !hasPrimary && !hasReplicas {
		return nil
	}

	resolverConfig := dbresolver.Config{
		TraceResolverMode: cfg.OutPut,
	}
	if hasPrimary {
		sources, err := buildDialectors(cfg.MySQL.Primary)
		if err != nil {
			return fmt.Errorf("failed to build primary dialectors: %w", err)
		}
		resolverConfig.Sources = sources
	}
	if hasReplicas {
		replicas, err := buildDialectors(cfg.MySQL.Replicas)
		if err != nil {
			return fmt.Errorf("failed to build replicas dialectors: %w", err)
		}
		resolverConfig.Replicas = replicas
	}

	err := db.Use(dbresolver.Register(resolverConfig).
		SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime)).
		SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime)).
		SetMaxIdleConns(cfg.MaxIdleConns).
		SetMaxOpenConns(cfg.MaxOpenConns))
	if err != nil {
		return fmt.Errorf("failed to register DBResolver plugin: %w", err)
	}
	log.Info("DBResolver registered (read-write separation enabled)")
	return nil
}
