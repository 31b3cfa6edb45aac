// Package service holds the application operations that sit between HTTP handlers
// and repositories.
package service

import (
	"context"
	"fmt"

	"fotogram/internal/models"
	"fotogram/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	bcryptCost  int
}

type CreateUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	bcryptCost int,
) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		bcryptCost:  bcryptCost,
	}
}

// CreateUser hashes the password and persists the user. An empty password is stored
// as-is so the storage engine rejects it like any other missing field.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	hashed := in.Password
	if in.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return nil, models.NewInternalError(fmt.Errorf("hash password: %w", err))
		}
		hashed = string(b)
	}

	user := models.NewUser(in.Username, in.FirstName, in.LastName, in.Email, hashed)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}

// UserPosts lists the posts authored by an existing user.
func (s *UserService) UserPosts(ctx context.Context, id uint) ([]models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.postRepo.PostsByUser(ctx, id)
}

// UserComments lists the comments written by an existing user.
func (s *UserService) UserComments(ctx context.Context, id uint) ([]models.Comment, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.commentRepo.CommentsByAuthor(ctx, id)
}
