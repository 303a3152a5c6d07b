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
	"context"
	"time"

	"github.com/go-arcade/askflow/internal/engine/config"
	"github.com/go-arcade/askflow/internal/engine/service"
	"github.com/go-arcade/askflow/pkg/cron"
	httpx "github.com/go-arcade/askflow/pkg/http"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/pprof"
	"github.com/go-arcade/askflow/pkg/trace"
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideTracing, NewApp)

type App struct {
	HttpApp       *fiber.App
	MetricsServer *metrics.Server
	PprofServer   *pprof.Server
	Deadline      *service.DeadlineChecker
	Logger        *log.Logger
	AppConf       *config.AppConfig
}

// InitAppFunc is implemented by the generated wire injector
type InitAppFunc func(configPath string) (*App, func(), error)

// Tracing marks the installed tracer provider.
type Tracing struct {
	shutdown func(context.Context) error
}

// ProvideTracing installs the global tracer provider; the cleanup flushes
// pending spans.
func ProvideTracing(conf trace.TraceConfig, logger *log.Logger) (*Tracing, func(), error) {
	shutdown, err := trace.Init(conf)
	if err != nil {
		return nil, nil, err
	}
	t := &Tracing{shutdown: shutdown}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.shutdown(ctx); err != nil {
			log.Warnw("failed to flush traces", "error", err)
		}
	}
	return t, cleanup, nil
}

func NewApp(
	httpApp *fiber.App,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	deadline *service.DeadlineChecker,
	_ *Tracing,
	logger *log.Logger,
	appConf *config.AppConfig,
) (*App, func(), error) {
	cleanup := func() {
		if pprofServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := pprofServer.Stop(ctx); err != nil {
				log.Errorw("failed to stop pprof server", "error", err)
			}
		}
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(ctx); err != nil {
				log.Errorw("failed to stop metrics server", "error", err)
			}
		}
	}

	return &App{
		HttpApp:       httpApp,
		MetricsServer: metricsServer,
		PprofServer:   pprofServer,
		Deadline:      deadline,
		Logger:        logger,
		AppConf:       appConf,
	}, cleanup, nil
}

// Bootstrap builds the application through the wire injector.
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// StartScheduler registers the deadline check on the process scheduler.
func (app *App) StartScheduler() error {
	conf := app.AppConf.Scheduler
	cron.Init(app.Logger)
	if !conf.Enabled || app.Deadline == nil {
		log.Info("deadline checks are disabled")
		return nil
	}
	conf.SetDefaults()
	if err := app.Deadline.Register(conf.DeadlineCheckSpec); err != nil {
		return err
	}
	cron.Start()
	log.Infow("cron scheduler started", "deadlineCheckSpec", conf.DeadlineCheckSpec)
	return nil
}

// Run serves until SIGINT/SIGTERM, then shuts the components down in order.
func Run(app *App, cleanup func()) {
	if err := app.StartScheduler(); err != nil {
		log.Errorw("failed to start scheduler", "error", err)
	}

	if app.MetricsServer != nil {
		if err := app.MetricsServer.Start(); err != nil {
			log.Errorw("metrics server failed", "error", err)
		}
	}
	if app.PprofServer != nil {
		if err := app.PprofServer.Start(); err != nil {
			log.Errorw("pprof server failed", "error", err)
		}
	}

	wait := httpx.NewHttp(app.AppConf.Http, app.HttpApp)
	wait()

	cron.Stop()
	cleanup()
	_ = log.Sync()
	log.Info("server shutdown complete")
}
