package chat

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"linkup/internal/user"
)

const (
	StatusSent = "sent"
	StatusRead = "read"
)

// ChatView is the wire shape for chat listings: the display name and avatar
// are resolved relative to the requesting user.
type ChatView struct {
	ID           string         `json:"id"`
	Users        []user.Profile `json:"users"`
	LastMessage  string         `json:"last_message"`
	ChatName     string         `json:"chatName"`
	ContactImage string         `json:"contactImage"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func ToChatView(c *Chat, requesterID string) ChatView {
	return ChatView{
		ID: c.ID,
		Users: lo.Map(c.Users, func(u *user.User, _ int) user.Profile {
			return user.ToProfile(u)
		}),
		LastMessage:  c.LastMessage,
		ChatName:     chatName(c, requesterID),
		ContactImage: contactImage(c, requesterID),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// chatName labels the chat from the requester's point of view: the other
// party's name, or "… (You)" for a chat with oneself.
func chatName(c *Chat, requesterID string) string {
	others := otherMembers(c, requesterID)
	if len(others) == 0 {
		me, found := lo.Find(c.Users, func(u *user.User) bool { return u.ID == requesterID })
		if !found {
			return ""
		}
		return me.FullName() + " (You)"
	}
	if len(others) > 1 {
		return fmt.Sprintf("%s and %d others", others[0].FullName(), len(others)-1)
	}
	return others[0].FullName()
}

func contactImage(c *Chat, requesterID string) string {
	others := otherMembers(c, requesterID)
	if len(others) == 0 {
		me, found := lo.Find(c.Users, func(u *user.User) bool { return u.ID == requesterID })
		if !found {
			return ""
		}
		return me.ProfilePicture
	}
	return others[0].ProfilePicture
}

func otherMembers(c *Chat, requesterID string) []*user.User {
	return lo.Filter(c.Users, func(u *user.User, _ int) bool { return u.ID != requesterID })
}

// MessageView tags each message with isFromCurrentUser and a read status
// relative to the requester.
type MessageView struct {
	ID                string       `json:"id"`
	Sender            user.Profile `json:"sender"`
	Content           string       `json:"content"`
	IsFromCurrentUser bool         `json:"isFromCurrentUser"`
	IsRead            bool         `json:"is_read"`
	Status            string       `json:"status"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func ToMessageView(m *Message, requesterID string) MessageView {
	status := StatusSent
	if m.IsRead {
		status = StatusRead
	}
	return MessageView{
		ID:                m.ID,
		Sender:            user.ToProfile(m.Sender),
		Content:           m.Content,
		IsFromCurrentUser: m.Sender.ID == requesterID,
		IsRead:            m.IsRead,
		Status:            status,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
