package main

import (
	"log/slog"
	"net/http"
	"os"

	"linkup/config"
	"linkup/internal/api"
	"linkup/internal/auth"
	"linkup/internal/chat"
	"linkup/internal/gateway"
	"linkup/internal/user"
	"linkup/pkg/jwt"
)

func provideJWT(cfg *config.Config) *jwt.JWT {
	return jwt.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
}

func provideAuthChain(m *auth.Middleware) func(http.Handler) http.Handler {
	return m.Handler
}

func provideServer(
	cfg *config.Config,
	log *slog.Logger,
	users *user.RestHandler,
	chats *chat.RestHandler,
	sockets *gateway.Handler,
) *api.Server {
	return api.NewServer(cfg, log, users, chats, sockets)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
