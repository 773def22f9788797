//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"

	"linkup/config"
	"linkup/internal/api"
	"linkup/internal/auth"
	"linkup/internal/broadcast"
	"linkup/internal/chat"
	"linkup/internal/database"
	"linkup/internal/gateway"
	"linkup/internal/user"
)

func initializeServer(cfg *config.Config, db *database.Database, log *slog.Logger) *api.Server {
	wire.Build(
		provideJWT,
		provideAuthChain,
		provideServer,
		auth.NewMiddleware,
		broadcast.NewRouter,
		gateway.NewHandler,
		user.NewRepository,
		user.NewService,
		user.NewRestHandler,
		chat.NewRepository,
		chat.NewService,
		chat.NewRestHandler,
		wire.Bind(new(gateway.Authenticator), new(*auth.Middleware)),
	)
	return nil
}
