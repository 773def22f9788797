package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"linkup/infrastructure"
	"linkup/internal/database"
)

type Repository interface {
	// CreateOrGet returns the chat for the unordered pair {userA, userB},
	// creating it if absent. The bool is true when this call created it.
	CreateOrGet(ctx context.Context, userA, userB string) (*database.Chat, bool, error)
	GetByID(ctx context.Context, chatID string) (*database.Chat, error)
	ListForUser(ctx context.Context, userID string) ([]*database.Chat, error)
	Messages(ctx context.Context, chatID string) ([]*database.Message, error)
	CreateMessage(ctx context.Context, msg *database.Message) error
	MarkUnreadAsRead(ctx context.Context, chatID, excludeSender string) (int64, error)
}

type repository struct {
	db *database.Database
}

func NewRepository(db *database.Database) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrGet(ctx context.Context, userA, userB string) (*database.Chat, bool, error) {
	pairKey := database.PairKey(userA, userB)

	existing, err := r.getByPairKey(ctx, pairKey)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	chat := &database.Chat{PairKey: pairKey}
	err = infrastructure.WithTransaction(r.db.DB, ctx, func(tx *gorm.DB) error {
		memberIDs := []string{userA, userB}
		if userA == userB {
			memberIDs = memberIDs[:1]
		}
		var members []database.User
		if err := tx.Find(&members, "id IN ?", memberIDs).Error; err != nil {
			return err
		}
		if len(members) != len(memberIDs) {
			return &infrastructure.NotFoundError{Kind: infrastructure.ErrUserNotFound, ID: userB}
		}
		chat.Users = members
		return tx.Create(chat).Error
	})
	if err == nil {
		return chat, true, nil
	}

	// Lost a race with a concurrent create for the same pair: the unique
	// pair_key index rejected the insert, so the winner's chat exists now.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		winner, fetchErr := r.getByPairKey(ctx, pairKey)
		if fetchErr != nil {
			return nil, false, fetchErr
		}
		return winner, false, nil
	}
	return nil, false, err
}

func (r *repository) getByPairKey(ctx context.Context, pairKey string) (*database.Chat, error) {
	var dbChat database.Chat
	err := r.db.WithContext(ctx).Preload("Users").First(&dbChat, "pair_key = ?", pairKey).Error
	if err != nil {
		return nil, err
	}
	return &dbChat, nil
}

func (r *repository) GetByID(ctx context.Context, chatID string) (*database.Chat, error) {
	var dbChat database.Chat
	err := r.db.WithContext(ctx).Preload("Users").First(&dbChat, "id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &infrastructure.NotFoundError{Kind: infrastructure.ErrChatNotFound, ID: chatID}
	}
	if err != nil {
		return nil, err
	}
	return &dbChat, nil
}

func (r *repository) ListForUser(ctx context.Context, userID string) ([]*database.Chat, error) {
	var dbChats []*database.Chat
	err := r.db.WithContext(ctx).
		Preload("Users").
		Joins("JOIN chat_users ON chat_users.chat_id = chats.id").
		Where("chat_users.user_id = ?", userID).
		Order("chats.created_at").
		Find(&dbChats).Error
	if err != nil {
		return nil, err
	}
	return dbChats, nil
}

func (r *repository) Messages(ctx context.Context, chatID string) ([]*database.Message, error) {
	var dbMessages []*database.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at").
		Find(&dbMessages).Error
	if err != nil {
		return nil, err
	}
	return dbMessages, nil
}

// CreateMessage persists the message and the chat's denormalized preview in
// one transaction.
func (r *repository) CreateMessage(ctx context.Context, msg *database.Message) error {
	return infrastructure.WithTransaction(r.db.DB, ctx, func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&database.Chat{}).
			Where("id = ?", msg.ChatID).
			Updates(map[string]any{
				"last_message": msg.Content,
				"updated_at":   time.Now(),
			}).Error
	})
}

// MarkUnreadAsRead flips is_read for every unread message in the chat not
// sent by excludeSender. The predicate makes the transition one-directional;
// a second call with nothing left to mark affects zero rows.
func (r *repository) MarkUnreadAsRead(ctx context.Context, chatID, excludeSender string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&database.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, excludeSender, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
