package service

import (
	"context"

	"fotogram/internal/models"
	"fotogram/internal/repository"
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	mediaRepo   repository.MediaRepository
}

type CreatePostInput struct {
	UserID uint
	Title  string
	Link   string
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	mediaRepo repository.MediaRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		mediaRepo:   mediaRepo,
	}
}

// CreatePost persists a post. An unknown UserID surfaces as a foreign key violation.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	post := models.NewPost(in.UserID, in.Title, in.Link)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

func (s *PostService) PostComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.CommentsByPost(ctx, postID)
}

func (s *PostService) PostMedia(ctx context.Context, postID uint) ([]models.Media, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.mediaRepo.MediaByPost(ctx, postID)
}
