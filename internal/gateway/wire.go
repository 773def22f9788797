package gateway

import (
	"encoding/json"
	"errors"

	"linkup/internal/broadcast"
)

var errUnknownEventType = errors.New("unknown event type")

// inboundFrame is the superset of fields clients send; Type discriminates.
type inboundFrame struct {
	Type      string `json:"type"`
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

// decodeInbound parses a client frame into an event envelope. Malformed JSON
// or an unrecognized discriminator fails that frame only; the caller keeps
// the connection alive.
func decodeInbound(raw []byte) (broadcast.Event, error) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return broadcast.Event{}, err
	}

	kind := broadcast.KindFromWire(frame.Type)
	if kind == broadcast.EventUnknown {
		return broadcast.Event{}, errUnknownEventType
	}

	return broadcast.Event{
		Kind:      kind,
		ChatID:    frame.ChatID,
		MessageID: frame.MessageID,
		Message:   frame.Message,
	}, nil
}

type newMessageFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	ChatID  string `json:"chat_id"`
}

type markAsReadFrame struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id"`
}

type markAllAsReadFrame struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
}

// encodeOutbound maps an event envelope to the wire shape for its kind.
func encodeOutbound(event broadcast.Event) ([]byte, error) {
	switch event.Kind {
	case broadcast.EventNewMessage:
		return json.Marshal(newMessageFrame{
			Type:    event.Kind.String(),
			Message: event.Message,
			ChatID:  event.ChatID,
		})
	case broadcast.EventMarkAsRead:
		return json.Marshal(markAsReadFrame{
			Type:      event.Kind.String(),
			MessageID: event.MessageID,
			ChatID:    event.ChatID,
		})
	case broadcast.EventMarkAllAsRead:
		return json.Marshal(markAllAsReadFrame{
			Type:   event.Kind.String(),
			ChatID: event.ChatID,
		})
	default:
		return nil, errUnknownEventType
	}
}
