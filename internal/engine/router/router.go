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

package router

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/askflow/internal/engine/service"
	"github.com/go-arcade/askflow/internal/pkg/apperr"
	httpx "github.com/go-arcade/askflow/pkg/http"
	"github.com/go-arcade/askflow/pkg/http/middleware"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type Router struct {
	Http     httpx.Http
	Services *service.Services
	Metrics  *metrics.Server
}

func NewRouter(httpConf httpx.Http, services *service.Services, metricsServer *metrics.Server) *Router {
	httpConf.SetDefaults()
	return &Router{
		Http:     httpConf,
		Services: services,
		Metrics:  metricsServer,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "askflow",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(
		middleware.ExceptionMiddleware,
		middleware.TraceMiddleware(),
		middleware.RequestMiddleware(),
		middleware.RealIPMiddleware(),
		middleware.CorsMiddleware(),
		middleware.AccessLogMiddleware(rt.Http.AccessLog),
	)
	if rt.Metrics != nil {
		app.Use(middleware.MetricsMiddleware(rt.Metrics.GetRegistry()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	// every api route needs a resolved identity
	auth := []fiber.Handler{
		middleware.TokenIdentityMiddleware(rt.Http.Auth),
		middleware.IdentityMiddleware(service.ResolveIdentity),
	}
	api := app.Group(rt.Http.ContextPath, append(auth, middleware.UnifiedResponseMiddleware())...)
	{
		rt.projectRouter(api)
		rt.questionRouter(api)
		rt.invitationRouter(api)
		rt.mediaRouter(api)
		rt.notificationRouter(api)
	}

	// must come after every route
	app.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound("request path not found")
	})

	return app
}
