package user

import (
	"context"
	"time"

	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"linkup/infrastructure"
	"linkup/internal/database"
)

const passwordMinEntropyBits = 30

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterInput struct {
	FirstName   string `json:"firstName" validate:"required,min=2"`
	LastName    string `json:"lastName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
}

var registerMessages = map[string]string{
	"firstName":   "First name should be at least 2 characters, no special characters allowed.",
	"lastName":    "Last name should be at least 2 characters, no special characters allowed.",
	"email":       "Please provide an email address.",
	"password":    "Password should be at least 8 characters.",
	"dateOfBirth": "Please select your date of birth first.",
	"gender":      "Please choose a gender first.",
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := checkStruct(input, registerMessages); err != nil {
		return nil, err
	}
	if err := checkEmailShape(input.Email); err != nil {
		return nil, err
	}
	taken, err := s.repo.EmailTaken(ctx, input.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, infrastructure.NewValidationError("email",
			"This email address was already used before. Please login or use a different email address.")
	}
	if err := passwordvalidator.Validate(input.Password, passwordMinEntropyBits); err != nil {
		return nil, infrastructure.NewValidationError("password", "Password is too easy to guess, please pick a stronger one.")
	}
	dob, err := parseDateOfBirth(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	dbUser := &database.User{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Password:    string(hashed),
		DateOfBirth: dob,
		Gender:      input.Gender,
	}
	if err := s.repo.Create(ctx, dbUser); err != nil {
		return nil, err
	}
	return FromDB(dbUser), nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*User, error) {
	if input.Email == "" {
		return nil, infrastructure.NewValidationError("email", "Please provide an email address.")
	}
	if input.Password == "" {
		return nil, infrastructure.NewValidationError("password", "Please provide a password.")
	}
	if err := checkEmailShape(input.Email); err != nil {
		return nil, err
	}

	dbUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if infrastructure.IsNotFound(err) {
			return nil, infrastructure.NewValidationError("email", "No user account with this email address was found.")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(dbUser.Password), []byte(input.Password)) != nil {
		return nil, infrastructure.NewValidationError("password", "Incorrect password.")
	}

	_ = s.repo.Touch(ctx, dbUser.ID, time.Now())
	return FromDB(dbUser), nil
}

type UpdateProfileInput struct {
	FirstName   string `json:"firstName" validate:"required,min=2"`
	LastName    string `json:"lastName" validate:"required,min=2"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	if err := checkStruct(input, registerMessages); err != nil {
		return nil, err
	}
	dob, err := parseDateOfBirth(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	dbUser, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dbUser.FirstName = input.FirstName
	dbUser.LastName = input.LastName
	dbUser.DateOfBirth = dob
	dbUser.Gender = input.Gender
	if err := s.repo.Update(ctx, dbUser); err != nil {
		return nil, err
	}
	return FromDB(dbUser), nil
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Service) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if len(input.NewPassword) < 8 {
		return infrastructure.NewValidationError("newPassword", "New password should be at least 8 characters.")
	}

	dbUser, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(dbUser.Password), []byte(input.CurrentPassword)) != nil {
		return infrastructure.NewValidationError("currentPassword", "Current password is incorrect.")
	}
	if err := passwordvalidator.Validate(input.NewPassword, passwordMinEntropyBits); err != nil {
		return infrastructure.NewValidationError("newPassword", "New password is too easy to guess, please pick a stronger one.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	dbUser.Password = string(hashed)
	return s.repo.Update(ctx, dbUser)
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	dbUser, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromDB(dbUser), nil
}

// Touch records a presence heartbeat.
func (s *Service) Touch(ctx context.Context, userID string) error {
	return s.repo.Touch(ctx, userID, time.Now())
}
