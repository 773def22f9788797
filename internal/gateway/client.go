package gateway

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"linkup/internal/broadcast"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

// client pairs a websocket connection with its session and runs the two
// pumps. Inbound frames from one connection are processed strictly in
// arrival order; different connections run concurrently and only meet in the
// router.
type client struct {
	conn    *websocket.Conn
	session *Session
	router  broadcast.Router
	log     *slog.Logger
}

func newClient(conn *websocket.Conn, session *Session, router broadcast.Router, log *slog.Logger) *client {
	conn.SetReadLimit(maxMessageSize)
	return &client{
		conn:    conn,
		session: session,
		router:  router,
		log:     log,
	}
}

// run blocks until the connection dies. Cleanup (router leave, connection
// close) is guaranteed on every exit path, normal or abnormal.
func (c *client) run() {
	go c.writePump()
	c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.session.Close()
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("websocket read failed", "group", c.session.Group().String(), "error", err)
			}
			return
		}
		c.handleInbound(raw)
	}
}

// handleInbound forwards one client frame to the router. A malformed or
// unrecognized frame is dropped; the connection survives.
func (c *client) handleInbound(raw []byte) {
	event, err := decodeInbound(raw)
	if err != nil {
		c.log.Warn("dropping malformed frame", "group", c.session.Group().String(), "error", err)
		return
	}

	group := c.session.Group()
	if group.IsHome() {
		// The home gateway has no single-chat context, so it only
		// publishes to home.
		c.router.Publish(broadcast.Home(), event)
		return
	}

	// Chat-scoped addressing comes from the route, not from the frame.
	event.ChatID = group.ChatID()
	c.router.Publish(group, event)
	c.router.Publish(broadcast.Home(), event)
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.session.Close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.session.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case event := <-c.session.events:
			if !c.wantsEvent(event) {
				continue
			}
			payload, err := encodeOutbound(event)
			if err != nil {
				// Serialization failure drops this one event.
				c.log.Error("failed to encode event", "event", event.Kind.String(), "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.log.Warn("websocket write failed", "group", c.session.Group().String(), "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// wantsEvent filters outbound events by scope: dashboard sessions have no use
// for single-message receipts, mirroring the home consumer's handler set.
func (c *client) wantsEvent(event broadcast.Event) bool {
	if c.session.Group().IsHome() && event.Kind == broadcast.EventMarkAsRead {
		return false
	}
	return true
}
