package broadcast

// EventKind enumerates the chat events that travel through the router. An
// explicit enum (rather than dispatch on raw strings) forces every consumer
// into an exhaustive switch with a checked default.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventNewMessage
	EventMarkAsRead
	EventMarkAllAsRead
)

const (
	wireNewMessage    = "new_message"
	wireMarkAsRead    = "mark_as_read"
	wireMarkAllAsRead = "mark_all_as_read"
)

func (k EventKind) String() string {
	switch k {
	case EventNewMessage:
		return wireNewMessage
	case EventMarkAsRead:
		return wireMarkAsRead
	case EventMarkAllAsRead:
		return wireMarkAllAsRead
	default:
		return "unknown"
	}
}

// KindFromWire maps a wire discriminator to its EventKind. Unrecognized
// discriminators map to EventUnknown; callers fail closed on it.
func KindFromWire(s string) EventKind {
	switch s {
	case wireNewMessage:
		return EventNewMessage
	case wireMarkAsRead:
		return EventMarkAsRead
	case wireMarkAllAsRead:
		return EventMarkAllAsRead
	default:
		return EventUnknown
	}
}

// Event is the envelope published to a group. ChatID is always set; Message
// is the text for EventNewMessage, MessageID identifies the message for
// EventMarkAsRead.
type Event struct {
	Kind      EventKind
	ChatID    string
	Message   string
	MessageID string
}
