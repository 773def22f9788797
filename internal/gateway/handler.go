// Package gateway bridges live websocket connections and the broadcast
// router. Each connection gets one session joined to exactly one group for
// the socket's lifetime: either the dashboard (home) stream or a single
// chat's stream.
package gateway

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"linkup/internal/broadcast"
)

// Authenticator resolves a connection's bearer credential to a user identity.
// Implemented by the auth package; the gateway only needs admission.
type Authenticator interface {
	AuthenticateRequest(r *http.Request) (userID string, err error)
}

type Handler struct {
	router   broadcast.Router
	auth     Authenticator
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(router broadcast.Router, auth Authenticator, log *slog.Logger) *Handler {
	return &Handler{
		router: router,
		auth:   auth,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The REST layer owns origin policy; tokens gate admission here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/ws/home", h.serveHome)
	r.HandleFunc("/ws/chat/{chatId}", h.serveChat)
}

func (h *Handler) serveHome(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, broadcast.Home())
}

func (h *Handler) serveChat(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]
	if chatID == "" {
		http.Error(w, "chat id required", http.StatusBadRequest)
		return
	}
	h.serve(w, r, broadcast.ChatGroup(chatID))
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, group broadcast.GroupID) {
	userID, err := h.auth.AuthenticateRequest(r)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	session := NewSession(userID, group, h.router)
	session.Join()
	h.log.Info("session connected", "user", userID, "group", group.String())

	c := newClient(conn, session, h.router, h.log)
	go func() {
		c.run()
		h.log.Info("session disconnected", "user", userID, "group", group.String())
	}()
}
