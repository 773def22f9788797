package chat

import (
	"time"

	"github.com/samber/lo"

	"linkup/internal/database"
	"linkup/internal/user"
)

type Chat struct {
	ID          string
	LastMessage string
	Users       []*user.User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMember reports whether userID is one of the chat's members.
func (c *Chat) HasMember(userID string) bool {
	return lo.ContainsBy(c.Users, func(u *user.User) bool { return u.ID == userID })
}

type Message struct {
	ID        string
	ChatID    string
	Sender    *user.User
	Content   string
	IsRead    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func FromDBChat(dbChat *database.Chat) *Chat {
	return &Chat{
		ID:          dbChat.ID,
		LastMessage: dbChat.LastMessage,
		Users: lo.Map(dbChat.Users, func(u database.User, _ int) *user.User {
			return user.FromDB(&u)
		}),
		CreatedAt: dbChat.CreatedAt,
		UpdatedAt: dbChat.UpdatedAt,
	}
}

func FromDBMessage(dbMsg *database.Message) *Message {
	return &Message{
		ID:        dbMsg.ID,
		ChatID:    dbMsg.ChatID,
		Sender:    user.FromDB(&dbMsg.Sender),
		Content:   dbMsg.Content,
		IsRead:    dbMsg.IsRead,
		CreatedAt: dbMsg.CreatedAt,
		UpdatedAt: dbMsg.UpdatedAt,
	}
}
