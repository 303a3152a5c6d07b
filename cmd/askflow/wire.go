//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/askflow/internal/engine/bootstrap"
	"github.com/go-arcade/askflow/internal/engine/config"
	"github.com/go-arcade/askflow/internal/engine/repo"
	"github.com/go-arcade/askflow/internal/engine/router"
	"github.com/go-arcade/askflow/internal/engine/service"
	"github.com/go-arcade/askflow/internal/pkg/notify"
	"github.com/go-arcade/askflow/pkg/cache"
	"github.com/go-arcade/askflow/pkg/database"
	"github.com/go-arcade/askflow/pkg/log"
	"github.com/go-arcade/askflow/pkg/metrics"
	"github.com/go-arcade/askflow/pkg/pprof"
	"github.com/go-arcade/askflow/pkg/storage"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// config sections
		config.ProviderSet,
		log.ProviderSet,
		// storage, cache and repositories
		database.ProviderSet,
		cache.ProviderSet,
		repo.ProviderSet,
		storage.ProviderSet,
		// notification delivery
		notify.ProviderSet,
		// domain services and the deadline checker
		service.ProviderSet,
		// observability
		metrics.ProviderSet,
		pprof.ProviderSet,
		// http
		router.ProviderSet,
		bootstrap.ProviderSet,
	))
}
