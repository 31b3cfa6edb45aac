package repository

import (
	"context"

	"fotogram/internal/models"
	"fotogram/internal/schema"

	"gorm.io/gorm"
)

// MediaRepository stores media attachments of posts.
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id uint) (*models.Media, error)
	Delete(ctx context.Context, id uint) error
	MediaByPost(ctx context.Context, postID uint) ([]models.Media, error)
	PostOf(ctx context.Context, media *models.Media) (*models.Post, error)
}

type mediaRepository struct {
	store
}

func NewMediaRepository(db *gorm.DB, reg *schema.Registry) MediaRepository {
	return &mediaRepository{store: newStore(db, reg, nil, "Media")}
}

func (r *mediaRepository) Create(ctx context.Context, media *models.Media) (err error) {
	ctx, done := r.begin(ctx, "Create")
	defer func() { done(err) }()

	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return r.writeError(ctx, "create", err)
	}
	r.log.LogCreate(ctx, map[string]any{"id": media.ID, "post_id": media.PostID, "type": string(media.Type)})
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id uint) (_ *models.Media, err error) {
	ctx, done := r.begin(ctx, "GetByID")
	defer func() { done(err) }()

	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, id).Error; err != nil {
		return nil, r.readError(ctx, "get", id, err)
	}
	return &media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := r.begin(ctx, "Delete")
	defer func() { done(err) }()

	res := r.db.WithContext(ctx).Delete(&models.Media{}, id)
	if res.Error != nil {
		return r.writeError(ctx, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Media", id)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}

func (r *mediaRepository) MediaByPost(ctx context.Context, postID uint) (_ []models.Media, err error) {
	ctx, done := r.begin(ctx, "MediaByPost")
	defer func() { done(err) }()

	media := []models.Media{}
	if err := r.hasMany(ctx, "Post", "media", postID, &media); err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepository) PostOf(ctx context.Context, media *models.Media) (_ *models.Post, err error) {
	ctx, done := r.begin(ctx, "PostOf")
	defer func() { done(err) }()

	var post models.Post
	if err := r.belongsTo(ctx, "post", media.PostID, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
