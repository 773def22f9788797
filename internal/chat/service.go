// Package chat implements the chat state service: REST-originated mutations
// of chats and messages, and their fan-out to live sessions through the
// broadcast router. Persistence commits happen-before broadcast publishes, so
// a write is never live-broadcast without being durable.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"linkup/infrastructure"
	"linkup/internal/broadcast"
	"linkup/internal/database"
	"linkup/internal/user"
)

type Service struct {
	repo   Repository
	users  user.Repository
	router broadcast.Router
	log    *slog.Logger
}

func NewService(repo Repository, users user.Repository, router broadcast.Router, log *slog.Logger) *Service {
	return &Service{repo: repo, users: users, router: router, log: log}
}

// CreateOrGetChat returns the one chat for {userID, contactID}, creating it
// when absent. isNew reports whether this call created it. Concurrent calls
// for the same pair converge on a single chat.
func (s *Service) CreateOrGetChat(ctx context.Context, userID, contactID string) (*Chat, bool, error) {
	if contactID == "" {
		return nil, false, infrastructure.NewValidationError("contactId", "Contact ID is required")
	}
	if _, err := s.users.GetByID(ctx, contactID); err != nil {
		return nil, false, err
	}

	dbChat, isNew, err := s.repo.CreateOrGet(ctx, userID, contactID)
	if err != nil {
		return nil, false, err
	}
	return FromDBChat(dbChat), isNew, nil
}

// PostMessage persists a message from sender and publishes the new_message
// event to the chat's group and to home, so open chat views and dashboard
// previews refresh from one write.
func (s *Service) PostMessage(ctx context.Context, chatID, senderID, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, infrastructure.NewValidationError("content", "Message content is required")
	}

	dbChat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	domainChat := FromDBChat(dbChat)
	if !domainChat.HasMember(senderID) {
		return nil, &infrastructure.AuthorizationError{Reason: "sender is not a member of this chat"}
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	dbMsg := &database.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.repo.CreateMessage(ctx, dbMsg); err != nil {
		return nil, err
	}
	dbMsg.Sender = *sender

	event := broadcast.Event{
		Kind:    broadcast.EventNewMessage,
		ChatID:  chatID,
		Message: content,
	}
	s.router.Publish(broadcast.ChatGroup(chatID), event)
	s.router.Publish(broadcast.Home(), event)

	return FromDBMessage(dbMsg), nil
}

// MarkRead marks every unread message in the chat not sent by actingUser as
// read. Idempotent: a second call with nothing left to mark succeeds and
// marks zero messages. The mark_all_as_read event goes to the chat group
// only, not to home; that asymmetry with new_message is inherited behavior
// and may be an oversight, so it is kept explicit here rather than changed.
func (s *Service) MarkRead(ctx context.Context, chatID, actingUser string) (int64, error) {
	dbChat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return 0, err
	}
	if !FromDBChat(dbChat).HasMember(actingUser) {
		return 0, &infrastructure.AuthorizationError{Reason: "user is not a member of this chat"}
	}

	marked, err := s.repo.MarkUnreadAsRead(ctx, chatID, actingUser)
	if err != nil {
		return 0, err
	}

	s.router.Publish(broadcast.ChatGroup(chatID), broadcast.Event{
		Kind:   broadcast.EventMarkAllAsRead,
		ChatID: chatID,
	})

	if marked > 0 {
		s.log.Debug("messages marked read", "chat", chatID, "count", marked)
	}
	return marked, nil
}

// ListChats returns the requester's chats serialized relative to the
// requester (display name and avatar of the other party).
func (s *Service) ListChats(ctx context.Context, requesterID string) ([]ChatView, error) {
	dbChats, err := s.repo.ListForUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	views := make([]ChatView, 0, len(dbChats))
	for _, dbChat := range dbChats {
		views = append(views, ToChatView(FromDBChat(dbChat), requesterID))
	}
	return views, nil
}

// ListMessages returns the chat's messages tagged relative to the requester.
func (s *Service) ListMessages(ctx context.Context, chatID, requesterID string) ([]MessageView, error) {
	dbChat, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !FromDBChat(dbChat).HasMember(requesterID) {
		return nil, &infrastructure.AuthorizationError{Reason: "user is not a member of this chat"}
	}

	dbMessages, err := s.repo.Messages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	views := make([]MessageView, 0, len(dbMessages))
	for _, dbMsg := range dbMessages {
		views = append(views, ToMessageView(FromDBMessage(dbMsg), requesterID))
	}
	return views, nil
}

// Contacts lists every user with presence, optionally filtered by name.
func (s *Service) Contacts(ctx context.Context, search string) ([]user.Profile, error) {
	dbUsers, err := s.users.List(ctx, search)
	if err != nil {
		return nil, err
	}
	return user.ToProfiles(dbUsers), nil
}
