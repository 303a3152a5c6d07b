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
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
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
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. ASKFLOW_DATABASE_DRIVER.
const EnvPrefix = "ASKFLOW"

type AppConfig struct {
	Log       log.Conf                `mapstructure:"log"`
	Http      http.Http               `mapstructure:"http"`
	Database  database.Database       `mapstructure:"database"`
	Redis     cache.Redis             `mapstructure:"redis"`
	Cache     cache.Cache             `mapstructure:"cache"`
	Storage   storage.Storage         `mapstructure:"storage"`
	Metrics   metrics.MetricsConfig   `mapstructure:"metrics"`
	Pprof     pprof.PprofConfig       `mapstructure:"pprof"`
	Trace     trace.TraceConfig       `mapstructure:"trace"`
	Notify    notify.Config           `mapstructure:"notify"`
	Scheduler service.SchedulerConfig `mapstructure:"scheduler"`
}

// SetDefaults fills every section that was left empty in the file.
func (c *AppConfig) SetDefaults() {
	if c.Log.Output == "" {
		c.Log = *log.SetDefaults()
	}
	c.Http.SetDefaults()
	c.Database.SetDefaults()
	c.Cache.SetDefaults()
	c.Storage.SetDefaults()
	c.Metrics.SetDefaults()
	c.Pprof.SetDefaults()
	c.Trace.SetDefaults()
	c.Notify.SetDefaults()
	c.Scheduler.SetDefaults()
}

var (
	mu   sync.RWMutex
	cfg  *AppConfig
	once sync.Once
)

func NewConf(confDir string) *AppConfig {
	once.Do(func() {
		loaded, err := LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
		mu.Lock()
		cfg = loaded
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadConfigFile reads the toml file at confDir and applies ASKFLOW_*
// environment overrides. Only the log level follows later edits of the
// file; every other section is read once at startup.
func LoadConfigFile(confDir string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(confDir)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	loaded := &AppConfig{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	loaded.SetDefaults()

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name)
		next := &AppConfig{}
		if err := v.Unmarshal(next); err != nil {
			log.Errorw("failed to reload configuration", "file", e.Name, "error", err)
			return
		}
		if next.Log.Level == "" || next.Log.Level == loaded.Log.Level {
			return
		}
		conf := loaded.Log
		conf.Level = next.Log.Level
		if err := log.Init(&conf); err != nil {
			log.Errorw("failed to apply log level", "level", next.Log.Level, "error", err)
			return
		}
		mu.Lock()
		loaded.Log.Level = next.Log.Level
		mu.Unlock()
	})
	v.WatchConfig()

	log.Infow("config file loaded", "path", confDir)
	return loaded, nil
}
