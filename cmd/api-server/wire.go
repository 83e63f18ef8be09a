//go:build wireinject
// +build wireinject

package main

import (
	"Quickr/config"
	"Quickr/dao"
	"Quickr/dao/cache"
	"Quickr/handler"
	"Quickr/pkg/client"
	"Quickr/pkg/database"
	"Quickr/pkg/server"
	"Quickr/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, error) {
	wire.Build(
		client.NewRedisClient,
		database.NewDB,
		server.NewGinEngine,
		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Panel), "*"),
		wire.Struct(new(handler.QR), "*"),
		wire.Struct(new(handler.Scan), "*"),
		wire.Struct(new(handler.Upload), "*"),
		wire.Struct(new(handler.Receipt), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil, nil
}
