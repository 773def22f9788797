package gateway

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"linkup/internal/broadcast"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInboundChatFrameDualPublishes(t *testing.T) {
	req := require.New(t)
	router := newTestRouter()

	listener := NewSession("u2", broadcast.ChatGroup("c1"), router)
	listener.Join()
	dashboard := NewSession("u3", broadcast.Home(), router)
	dashboard.Join()

	sender := NewSession("u1", broadcast.ChatGroup("c1"), router)
	c := &client{session: sender, router: router, log: discardLogger()}

	// The frame claims another chat; addressing comes from the route.
	c.handleInbound([]byte(`{"type":"new_message","chat_id":"spoofed","message":"hi"}`))

	chatEvent := <-listener.Events()
	req.Equal(broadcast.EventNewMessage, chatEvent.Kind)
	req.Equal("c1", chatEvent.ChatID)
	req.Equal("hi", chatEvent.Message)

	homeEvent := <-dashboard.Events()
	req.Equal("c1", homeEvent.ChatID)
}

func TestInboundHomeFramePublishesHomeOnly(t *testing.T) {
	req := require.New(t)
	router := newTestRouter()

	chatListener := NewSession("u2", broadcast.ChatGroup("c1"), router)
	chatListener.Join()
	dashboard := NewSession("u3", broadcast.Home(), router)
	dashboard.Join()

	homeSender := NewSession("u1", broadcast.Home(), router)
	c := &client{session: homeSender, router: router, log: discardLogger()}

	c.handleInbound([]byte(`{"type":"new_message","chat_id":"c1","message":"hi"}`))

	req.Len(dashboard.Events(), 1)
	req.Empty(chatListener.Events())
}

func TestInboundMalformedFrameIsDropped(t *testing.T) {
	router := newTestRouter()
	dashboard := NewSession("u2", broadcast.Home(), router)
	dashboard.Join()

	sender := NewSession("u1", broadcast.ChatGroup("c1"), router)
	c := &client{session: sender, router: router, log: discardLogger()}

	c.handleInbound([]byte(`not json`))
	c.handleInbound([]byte(`{"type":"typing"}`))

	require.Empty(t, dashboard.Events())
}
