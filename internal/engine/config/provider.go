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

package config

import (
	"github.com/go-arcade/askflow/internal/engine/service"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/pkg/cache"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/http"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/pprof"
	"github.com/go-arcade/askflow/pkg/storage"
	"github.com/go-arcade/askflow/pkg/trace"
	"github.com/google/wire"
)

// ProviderSet hands each configuration section to its consumer
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideCacheConfig,
	ProvideStorageConfig,
	ProvideMetricsConfig,
	ProvidePprofConfig,
	ProvideTraceConfig,
	ProvideNotifyConfig,
	ProvideSchedulerConfig,
)

func ProvideConf(configPath string) *AppConfig {
	return NewConf(configPath)
}

func ProvideHttpConfig(appConf *AppConfig) http.Http {
	return appConf.Http
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideCacheConfig(appConf *AppConfig) cache.Cache {
	return appConf.Cache
}

func ProvideStorageConfig(appConf *AppConfig) storage.Storage {
	return appConf.Storage
}

func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

func ProvidePprofConfig(appConf *AppConfig) pprof.PprofConfig {
	return appConf.Pprof
}

func ProvideTraceConfig(appConf *AppConfig) trace.TraceConfig {
	return appConf.Trace
}

func ProvideNotifyConfig(appConf *AppConfig) notify.Config {
	return appConf.Notify
}

func ProvideSchedulerConfig(appConf *AppConfig) service.SchedulerConfig {
	return appConf.Scheduler
}
