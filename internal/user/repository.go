package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"linkup/infrastructure"
	"linkup/internal/database"
)

type Repository interface {
	Create(ctx context.Context, user *database.User) error
	GetByID(ctx context.Context, id string) (*database.User, error)
	GetByEmail(ctx context.Context, email string) (*database.User, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context, search string) ([]*database.User, error)
	Update(ctx context.Context, user *database.User) error
	Touch(ctx context.Context, id string, at time.Time) error
}

type repository struct {
	db *database.Database
}

func NewRepository(db *database.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *database.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*database.User, error) {
	var dbUser database.User
	err := r.db.WithContext(ctx).First(&dbUser, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &infrastructure.NotFoundError{Kind: infrastructure.ErrUserNotFound, ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &dbUser, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*database.User, error) {
	var dbUser database.User
	err := r.db.WithContext(ctx).First(&dbUser, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &infrastructure.NotFoundError{Kind: infrastructure.ErrUserNotFound, ID: email}
	}
	if err != nil {
		return nil, err
	}
	return &dbUser, nil
}

func (r *repository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&database.User{}).Where("email = ?", email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all users, optionally filtered by a case-insensitive match on
// first, last, or full name.
func (r *repository) List(ctx context.Context, search string) ([]*database.User, error) {
	var dbUsers []*database.User
	q := r.db.WithContext(ctx).Order("created_at")
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR (first_name || ' ' || last_name) ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if err := q.Find(&dbUsers).Error; err != nil {
		return nil, err
	}
	return dbUsers, nil
}

func (r *repository) Update(ctx context.Context, user *database.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&database.User{}).
		Where("id = ?", id).
		Update("last_activity", at).Error
}
