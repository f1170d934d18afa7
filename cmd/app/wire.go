//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/prayer-api/internal/bootstrap"
	"github.com/yanqian/prayer-api/internal/domain/location"
	"github.com/yanqian/prayer-api/internal/domain/prayer"
	"github.com/yanqian/prayer-api/internal/infra/config"
	httpiface "github.com/yanqian/prayer-api/internal/interface/http"
	"github.com/yanqian/prayer-api/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideLocationSource,
		provideRegistry,
		provideEngine,
		providePrayerConfig,
		provideTimingsCache,
		prayer.NewService,
		wire.Bind(new(prayer.LocationCatalog), new(*location.Registry)),
		provideScheduler,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}

func initializeRegistry() (*location.Registry, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideLocationSource,
		provideRegistry,
	)
	return nil, nil, nil
}
