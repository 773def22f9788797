// Package broadcast is the in-process pub/sub layer between the chat state
// service, the websocket gateway, and connected clients. Groups are multicast
// addresses; delivery is at-most-once with no replay: a subscriber that is not
// joined at publish time never sees that event.
package broadcast

import (
	"log/slog"
	"sync"
)

// Subscriber receives events for the groups it joined. Deliver must not
// block; it returns an error when the subscriber is unreachable at this
// instant (e.g. its outbound buffer is full or its transport is gone).
type Subscriber interface {
	Deliver(Event) error
}

// Router fans events out to group members.
//
// Join, Leave, and Publish are linearizable per group: a Join that returns
// before Publish starts sees that publish, a Leave that returns before
// Publish starts does not. Within one group, events reach each subscriber in
// publish order.
type Router interface {
	Join(group GroupID, sub Subscriber)
	Leave(group GroupID, sub Subscriber)
	Publish(group GroupID, event Event)
}

type hub struct {
	mu     sync.Mutex
	groups map[GroupID]map[Subscriber]struct{}
	log    *slog.Logger
}

func NewRouter(log *slog.Logger) Router {
	return &hub{
		groups: make(map[GroupID]map[Subscriber]struct{}),
		log:    log,
	}
}

func (h *hub) Join(group GroupID, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.groups[group] = members
	}
	members[sub] = struct{}{}
	h.log.Debug("session joined group", "group", group.String(), "members", len(members))
}

// Leave is a no-op for a subscriber that is not a member.
func (h *hub) Leave(group GroupID, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		return
	}
	if _, joined := members[sub]; !joined {
		return
	}
	delete(members, sub)
	if len(members) == 0 {
		delete(h.groups, group)
	}
	h.log.Debug("session left group", "group", group.String(), "members", len(members))
}

// Publish delivers event to every current member of group. Publishing to an
// empty group drops the event. Enqueueing happens under the membership lock,
// so each subscriber observes one group's events in publish order. A
// subscriber that fails to accept the event is skipped; the failure never
// aborts delivery to the remaining members.
func (h *hub) Publish(group GroupID, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.groups[group]
	if len(members) == 0 {
		return
	}
	for sub := range members {
		if err := sub.Deliver(event); err != nil {
			h.log.Warn("dropping event for unreachable subscriber",
				"group", group.String(), "event", event.Kind.String(), "error", err)
		}
	}
}
