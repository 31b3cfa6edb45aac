package service

import (
	"context"

	"fotogram/internal/models"
	"fotogram/internal/repository"
)

// FollowService manages the directed follow graph. Following yourself is allowed;
// following the same user twice is rejected by the storage engine.
type FollowService struct {
	followerRepo repository.FollowerRepository
	userRepo     repository.UserRepository
}

func NewFollowService(followerRepo repository.FollowerRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followerRepo: followerRepo, userRepo: userRepo}
}

func (s *FollowService) Follow(ctx context.Context, fromID, toID uint) (*models.Follower, error) {
	edge := models.NewFollower(fromID, toID)
	if err := s.followerRepo.Create(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *FollowService) Unfollow(ctx context.Context, fromID, toID uint) error {
	return s.followerRepo.Delete(ctx, fromID, toID)
}

// Following lists the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followerRepo.Following(ctx, userID)
}

// Followers lists the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followerRepo.Followers(ctx, userID)
}
