package database

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultProfilePicture = "profile_pics/default.jpg"

type User struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	FirstName      string `gorm:"size:45;not null"`
	LastName       string `gorm:"size:45;not null"`
	Email          string `gorm:"size:255;uniqueIndex;not null"`
	Password       string `gorm:"size:255;not null"`
	DateOfBirth    time.Time
	Gender         string `gorm:"size:45"`
	ProfilePicture string `gorm:"size:255"`
	LastActivity   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.ProfilePicture == "" {
		u.ProfilePicture = DefaultProfilePicture
	}
	if u.LastActivity.IsZero() {
		u.LastActivity = time.Now()
	}
	return nil
}

// Chat is a pairwise conversation. PairKey is derived from the two member IDs
// and carries the at-most-one-chat-per-pair invariant as a unique index, so
// concurrent create attempts collide in the database rather than racing past a
// read-then-write check.
type Chat struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	PairKey     string `gorm:"size:80;uniqueIndex;not null"`
	LastMessage string `gorm:"default:''"`
	Users       []User `gorm:"many2many:chat_users"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// PairKey is order-independent so {a,b} and {b,a} map to the same chat.
func PairKey(userA, userB string) string {
	if strings.Compare(userA, userB) > 0 {
		userA, userB = userB, userA
	}
	return userA + "|" + userB
}

type Message struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	ChatID    string `gorm:"type:uuid;index;not null"`
	SenderID  string `gorm:"type:uuid;not null"`
	Sender    User   `gorm:"foreignKey:SenderID"`
	Content   string `gorm:"not null"`
	IsRead    bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
