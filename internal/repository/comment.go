package repository

import (
	"context"

	"fotogram/internal/models"
	"fotogram/internal/schema"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
	CommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	CommentsByAuthor(ctx context.Context, userID uint) ([]models.Comment, error)
	AuthorOf(ctx context.Context, comment *models.Comment) (*models.User, error)
	PostOf(ctx context.Context, comment *models.Comment) (*models.Post, error)
}

type commentRepository struct {
	store
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB, reg *schema.Registry) CommentRepository {
	return &commentRepository{store: newStore(db, reg, nil, "Comment")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	ctx, done := r.begin(ctx, "Create")
	defer func() { done(err) }()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return r.writeError(ctx, "create", err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": comment.ID, "post_id": comment.PostID, "author_id": comment.AuthorID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (_ *models.Comment, err error) {
	ctx, done := r.begin(ctx, "GetByID")
	defer func() { done(err) }()

	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, r.readError(ctx, "get", id, err)
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := r.begin(ctx, "Delete")
	defer func() { done(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return r.writeError(ctx, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}

// CommentsByPost follows Post.comments.
func (r *commentRepository) CommentsByPost(ctx context.Context, postID uint) (_ []models.Comment, err error) {
	ctx, done := r.begin(ctx, "CommentsByPost")
	defer func() { done(err) }()

	comments := []models.Comment{}
	if err := r.hasMany(ctx, "Post", "comments", postID, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentsByAuthor follows User.comments.
func (r *commentRepository) CommentsByAuthor(ctx context.Context, userID uint) (_ []models.Comment, err error) {
	ctx, done := r.begin(ctx, "CommentsByAuthor")
	defer func() { done(err) }()

	comments := []models.Comment{}
	if err := r.hasMany(ctx, "User", "comments", userID, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) AuthorOf(ctx context.Context, comment *models.Comment) (_ *models.User, err error) {
	ctx, done := r.begin(ctx, "AuthorOf")
	defer func() { done(err) }()

	var user models.User
	if err := r.belongsTo(ctx, "author", comment.AuthorID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *commentRepository) PostOf(ctx context.Context, comment *models.Comment) (_ *models.Post, err error) {
	ctx, done := r.begin(ctx, "PostOf")
	defer func() { done(err) }()

	var post models.Post
	if err := r.belongsTo(ctx, "post", comment.PostID, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
