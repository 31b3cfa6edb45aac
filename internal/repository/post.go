package repository

import (
	"context"

	"fotogram/internal/cache"
	"fotogram/internal/models"
	"fotogram/internal/schema"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
	PostsByUser(ctx context.Context, userID uint) ([]models.Post, error)
	UserOf(ctx context.Context, post *models.Post) (*models.User, error)
}

type postRepository struct {
	store
}

// NewPostRepository creates a new post repository. c may be nil.
func NewPostRepository(db *gorm.DB, reg *schema.Registry, c *cache.Cache) PostRepository {
	return &postRepository{store: newStore(db, reg, c, "Post")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, done := r.begin(ctx, "Create")
	defer func() { done(err) }()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return r.writeError(ctx, "create", err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": post.ID, "user_id": post.UserID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (_ *models.Post, err error) {
	ctx, done := r.begin(ctx, "GetByID")
	defer func() { done(err) }()

	var post models.Post
	err = r.cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			return r.readError(ctx, "get", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes the post together with its comments and media.
func (r *postRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := r.begin(ctx, "Delete")
	defer func() { done(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return r.writeError(ctx, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.cache.Invalidate(ctx, cache.PostKey(id))
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}

// PostsByUser follows User.posts.
func (r *postRepository) PostsByUser(ctx context.Context, userID uint) (_ []models.Post, err error) {
	ctx, done := r.begin(ctx, "PostsByUser")
	defer func() { done(err) }()

	posts := []models.Post{}
	if err := r.hasMany(ctx, "User", "posts", userID, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UserOf follows Post.user.
func (r *postRepository) UserOf(ctx context.Context, post *models.Post) (_ *models.User, err error) {
	ctx, done := r.begin(ctx, "UserOf")
	defer func() { done(err) }()

	var user models.User
	if err := r.belongsTo(ctx, "user", post.UserID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
