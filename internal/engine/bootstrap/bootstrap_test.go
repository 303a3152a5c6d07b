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

package bootstrap

import (
	"testing"

	"github.com/go-arcade/askflow/internal/engine/config"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/engine/service"
	"github.com/go-arcade/askflow/pkg/cron"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/pprof"
	"github.com/go-arcade/askflow/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	logger, err := log.ProvideLogger(log.SetDefaults())
	require.NoError(t, err)
	return logger
}

func TestProvideTracing_Disabled(t *testing.T) {
	tracing, cleanup, err := ProvideTracing(trace.TraceConfig{}, testLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tracing)
	assert.NotPanics(t, cleanup)
}

func TestNewApp_Cleanup(t *testing.T) {
	appConf := &config.AppConfig{}
	appConf.SetDefaults()

	app, cleanup, err := NewApp(nil,
		metrics.NewServer(metrics.MetricsConfig{}),
		pprof.NewServer(pprof.PprofConfig{}),
		nil, &Tracing{}, testLogger(t), appConf)
	require.NoError(t, err)
	assert.Same(t, appConf, app.AppConf)
	assert.NotPanics(t, cleanup)
}

func TestStartScheduler(t *testing.T) {
	m, err := database.NewManager(database.Database{
		Driver:      database.DriverSQLite,
		SQLite:      database.SQLiteConfig{DSN: ":memory:"},
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	repos := repo.NewRepositories(database.NewDatabaseAdapter(m), nil)

	appConf := &config.AppConfig{}
	appConf.SetDefaults()

	app := &App{
		Deadline: service.NewDeadlineChecker(repos, nil, 10),
		Logger:   testLogger(t),
		AppConf:  appConf,
	}
	require.NoError(t, app.StartScheduler())
	assert.Empty(t, cron.Entries())

	appConf.Scheduler.Enabled = true
	appConf.Scheduler.DeadlineCheckSpec = "@every 1h"
	require.NoError(t, app.StartScheduler())
	t.Cleanup(cron.Stop)

	entries := cron.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "deadline-check", entries[0].Name)
	assert.Equal(t, "@every 1h", entries[0].Spec)
}
