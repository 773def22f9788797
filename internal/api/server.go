// Package api assembles the HTTP surface: routing, cross-cutting middleware,
// and the response/error conventions shared by the REST handlers.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"linkup/config"
)

// Route is implemented by the feature packages that expose HTTP endpoints.
type Route interface {
	Register(r *mux.Router)
}

type Server struct {
	srv *http.Server
	log *slog.Logger
}

func NewServer(cfg *config.Config, log *slog.Logger, routes ...Route) *Server {
	router := mux.NewRouter()
	router.Use(Recover(log))
	router.Use(Logger(log))
	router.Use(RateLimit(cfg.RateLimit))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	for _, route := range routes {
		route.Register(router)
	}

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

func (s *Server) Run() error {
	s.log.Info("server listening", "addr", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
