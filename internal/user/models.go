package user

import (
	"time"

	"linkup/internal/database"
)

// onlineWindow is how recent a user's last activity must be for the user to
// count as online. Presence is a UI hint computed at read time; there is no
// background expiry.
const onlineWindow = 5 * time.Minute

type User struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	Gender         string    `json:"gender"`
	LastActivity   time.Time `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsOnline() bool {
	return time.Since(u.LastActivity) < onlineWindow
}

func FromDB(dbUser *database.User) *User {
	return &User{
		ID:             dbUser.ID,
		FirstName:      dbUser.FirstName,
		LastName:       dbUser.LastName,
		Email:          dbUser.Email,
		ProfilePicture: dbUser.ProfilePicture,
		DateOfBirth:    dbUser.DateOfBirth,
		Gender:         dbUser.Gender,
		LastActivity:   dbUser.LastActivity,
		CreatedAt:      dbUser.CreatedAt,
		UpdatedAt:      dbUser.UpdatedAt,
	}
}
