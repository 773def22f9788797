package user

import (
	"time"

	"github.com/samber/lo"

	"linkup/internal/database"
)

// Profile is the wire shape for user details and contact listings.
type Profile struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	Gender         string    `json:"gender"`
	IsOnline       bool      `json:"isOnline"`
}

func ToProfile(u *User) Profile {
	return Profile{
		ID:             u.ID,
		FullName:       u.FullName(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		DateOfBirth:    u.DateOfBirth,
		Gender:         u.Gender,
		IsOnline:       u.IsOnline(),
	}
}

func ToProfiles(dbUsers []*database.User) []Profile {
	return lo.Map(dbUsers, func(dbUser *database.User, _ int) Profile {
		return ToProfile(FromDB(dbUser))
	})
}
