package repository

import (
	"context"
	"errors"
	"fmt"

	"fotogram/internal/models"
	"fotogram/internal/schema"

	"gorm.io/gorm"
)

// FollowerRepository stores directed follow edges and resolves the two follow paths
// of a user.
type FollowerRepository interface {
	Create(ctx context.Context, edge *models.Follower) error
	Get(ctx context.Context, fromID, toID uint) (*models.Follower, error)
	Delete(ctx context.Context, fromID, toID uint) error
	FollowingEdges(ctx context.Context, userID uint) ([]models.Follower, error)
	FollowerEdges(ctx context.Context, userID uint) ([]models.Follower, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
}

type followerRepository struct {
	store
}

func NewFollowerRepository(db *gorm.DB, reg *schema.Registry) FollowerRepository {
	return &followerRepository{store: newStore(db, reg, nil, "Follower")}
}

func (r *followerRepository) Create(ctx context.Context, edge *models.Follower) (err error) {
	ctx, done := r.begin(ctx, "Create")
	defer func() { done(err) }()

	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		return r.writeError(ctx, "create", err)
	}
	r.log.LogCreate(ctx, map[string]any{"user_from_id": edge.UserFromID, "user_to_id": edge.UserToID})
	return nil
}

func (r *followerRepository) Get(ctx context.Context, fromID, toID uint) (_ *models.Follower, err error) {
	ctx, done := r.begin(ctx, "Get")
	defer func() { done(err) }()

	var edge models.Follower
	if err := r.db.WithContext(ctx).
		Where("user_from_id = ? AND user_to_id = ?", fromID, toID).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Follower", fmt.Sprintf("%d->%d", fromID, toID))
		}
		return nil, models.NewInternalError(err)
	}
	return &edge, nil
}

func (r *followerRepository) Delete(ctx context.Context, fromID, toID uint) (err error) {
	ctx, done := r.begin(ctx, "Delete")
	defer func() { done(err) }()

	res := r.db.WithContext(ctx).
		Where("user_from_id = ? AND user_to_id = ?", fromID, toID).
		Delete(&models.Follower{})
	if res.Error != nil {
		return r.writeError(ctx, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Follower", fmt.Sprintf("%d->%d", fromID, toID))
	}
	r.log.LogDelete(ctx, map[string]any{"user_from_id": fromID, "user_to_id": toID})
	return nil
}

// FollowingEdges follows User.following: edges whose source is userID.
func (r *followerRepository) FollowingEdges(ctx context.Context, userID uint) (_ []models.Follower, err error) {
	ctx, done := r.begin(ctx, "FollowingEdges")
	defer func() { done(err) }()

	edges := []models.Follower{}
	if err := r.hasMany(ctx, "User", "following", userID, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// FollowerEdges follows User.followers: edges whose target is userID.
func (r *followerRepository) FollowerEdges(ctx context.Context, userID uint) (_ []models.Follower, err error) {
	ctx, done := r.begin(ctx, "FollowerEdges")
	defer func() { done(err) }()

	edges := []models.Follower{}
	if err := r.hasMany(ctx, "User", "followers", userID, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

// Following returns the users userID follows.
func (r *followerRepository) Following(ctx context.Context, userID uint) (_ []models.User, err error) {
	ctx, done := r.begin(ctx, "Following")
	defer func() { done(err) }()
	return r.across(ctx, "following", userID)
}

// Followers returns the users that follow userID.
func (r *followerRepository) Followers(ctx context.Context, userID uint) (_ []models.User, err error) {
	ctx, done := r.begin(ctx, "Followers")
	defer func() { done(err) }()
	return r.across(ctx, "followers", userID)
}

// across joins users to the edge table: rows match userID on the named relation's
// column and the user on the other end is read from the counterpart's column.
func (r *followerRepository) across(ctx context.Context, name string, userID uint) ([]models.User, error) {
	rel, err := r.relation("User", name)
	if err != nil {
		return nil, err
	}
	other, ok := r.reg.Counterpart("User", name)
	if !ok {
		return nil, models.NewInternalError(fmt.Errorf("relation User.%s has no counterpart", name))
	}

	users := []models.User{}
	if err := r.db.WithContext(ctx).
		Joins(fmt.Sprintf("JOIN %s ON %s.%s = users.id", r.table, r.table, other.ForeignKey)).
		Where(fmt.Sprintf("%s.%s = ?", r.table, rel.ForeignKey), userID).
		Order(r.table + ".id ASC").
		Find(&users).Error; err != nil {
		r.log.LogError(ctx, err, "User."+name)
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
