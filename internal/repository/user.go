package repository

import (
	"context"
	"errors"
	"fmt"

	"fotogram/internal/cache"
	"fotogram/internal/models"
	"fotogram/internal/schema"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	store
}

// NewUserRepository returns a new UserRepository implementation. c may be nil.
func NewUserRepository(db *gorm.DB, reg *schema.Registry, c *cache.Cache) UserRepository {
	return &userRepository{store: newStore(db, reg, c, "User")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, done := r.begin(ctx, "Create")
	defer func() { done(err) }()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return r.writeError(ctx, "create", err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": user.ID, "username": user.Username})
	return nil
}

// GetByID reads through the cache. Cached copies carry no password hash.
func (r *userRepository) GetByID(ctx context.Context, id uint) (_ *models.User, err error) {
	ctx, done := r.begin(ctx, "GetByID")
	defer func() { done(err) }()

	var user models.User
	err = r.cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return r.readError(ctx, "get", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns a NOT_FOUND AppError when no user has that username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (_ *models.User, err error) {
	ctx, done := r.begin(ctx, "GetByUsername")
	defer func() { done(err) }()

	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("User %q not found", username)}
		}
		r.log.LogError(ctx, err, "get by username")
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) (_ []models.User, err error) {
	ctx, done := r.begin(ctx, "List")
	defer func() { done(err) }()

	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Delete removes the user. Posts, comments, media and follow edges that depend on it
// are removed by the ON DELETE CASCADE foreign keys. The post ids are read in the same
// transaction as the delete so every cascaded post is evicted from the cache.
func (r *userRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := r.begin(ctx, "Delete")
	defer func() { done(err) }()

	var postIDs []uint
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return r.writeError(ctx, "delete", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := []string{cache.UserKey(id)}
	for _, pid := range postIDs {
		keys = append(keys, cache.PostKey(pid))
	}
	r.cache.Invalidate(ctx, keys...)
	r.log.LogDelete(ctx, map[string]any{"id": id, "cascaded_posts": len(postIDs)})
	return nil
}
