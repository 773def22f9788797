package broadcast

// GroupID is a typed multicast address. It is either the singleton home group
// (dashboard viewers) or a per-chat group. Using a comparable struct instead
// of raw strings keeps typos out of the membership table.
type GroupID struct {
	chatID string
	home   bool
}

// Home addresses every session currently viewing the dashboard.
func Home() GroupID {
	return GroupID{home: true}
}

// ChatGroup addresses the sessions viewing one specific chat.
func ChatGroup(chatID string) GroupID {
	return GroupID{chatID: chatID}
}

func (g GroupID) IsHome() bool { return g.home }

func (g GroupID) ChatID() string { return g.chatID }

func (g GroupID) String() string {
	if g.home {
		return "home"
	}
	return "chat:" + g.chatID
}
