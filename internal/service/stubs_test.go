package service

import (
	"context"
	"testing"

	"fotogram/internal/models"

	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	listFn          func(context.Context, int, int) ([]models.User, error)
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, name string) (*models.User, error) {
	return s.getByUsernameFn(ctx, name)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint) (*models.Post, error)
	deleteFn      func(context.Context, uint) error
	postsByUserFn func(context.Context, uint) ([]models.Post, error)
	userOfFn      func(context.Context, *models.Post) (*models.User, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *postRepoStub) PostsByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.postsByUserFn(ctx, userID)
}
func (s *postRepoStub) UserOf(ctx context.Context, p *models.Post) (*models.User, error) {
	return s.userOfFn(ctx, p)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		postsByUserFn: func(_ context.Context, _ uint) ([]models.Post, error) { return nil, nil },
		userOfFn:      func(_ context.Context, _ *models.Post) (*models.User, error) { return &models.User{}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn   func(context.Context, *models.Comment) error
	getByIDFn  func(context.Context, uint) (*models.Comment, error)
	deleteFn   func(context.Context, uint) error
	byPostFn   func(context.Context, uint) ([]models.Comment, error)
	byAuthorFn func(context.Context, uint) ([]models.Comment, error)
	authorOfFn func(context.Context, *models.Comment) (*models.User, error)
	postOfFn   func(context.Context, *models.Comment) (*models.Post, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *commentRepoStub) CommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.byPostFn(ctx, postID)
}
func (s *commentRepoStub) CommentsByAuthor(ctx context.Context, userID uint) ([]models.Comment, error) {
	return s.byAuthorFn(ctx, userID)
}
func (s *commentRepoStub) AuthorOf(ctx context.Context, c *models.Comment) (*models.User, error) {
	return s.authorOfFn(ctx, c)
}
func (s *commentRepoStub) PostOf(ctx context.Context, c *models.Comment) (*models.Post, error) {
	return s.postOfFn(ctx, c)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:   func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:  func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		deleteFn:   func(_ context.Context, _ uint) error { return nil },
		byPostFn:   func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		byAuthorFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		authorOfFn: func(_ context.Context, _ *models.Comment) (*models.User, error) { return &models.User{}, nil },
		postOfFn:   func(_ context.Context, _ *models.Comment) (*models.Post, error) { return &models.Post{}, nil },
	}
}

// mediaRepoStub is a stub for repository.MediaRepository.
type mediaRepoStub struct {
	createFn  func(context.Context, *models.Media) error
	getByIDFn func(context.Context, uint) (*models.Media, error)
	deleteFn  func(context.Context, uint) error
	byPostFn  func(context.Context, uint) ([]models.Media, error)
	postOfFn  func(context.Context, *models.Media) (*models.Post, error)
}

func (s *mediaRepoStub) Create(ctx context.Context, m *models.Media) error { return s.createFn(ctx, m) }
func (s *mediaRepoStub) GetByID(ctx context.Context, id uint) (*models.Media, error) {
	return s.getByIDFn(ctx, id)
}
func (s *mediaRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *mediaRepoStub) MediaByPost(ctx context.Context, postID uint) ([]models.Media, error) {
	return s.byPostFn(ctx, postID)
}
func (s *mediaRepoStub) PostOf(ctx context.Context, m *models.Media) (*models.Post, error) {
	return s.postOfFn(ctx, m)
}

func noopMediaRepo() *mediaRepoStub {
	return &mediaRepoStub{
		createFn:  func(_ context.Context, _ *models.Media) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Media, error) { return &models.Media{ID: id}, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		byPostFn:  func(_ context.Context, _ uint) ([]models.Media, error) { return nil, nil },
		postOfFn:  func(_ context.Context, _ *models.Media) (*models.Post, error) { return &models.Post{}, nil },
	}
}

// followerRepoStub is a stub for repository.FollowerRepository.
type followerRepoStub struct {
	createFn         func(context.Context, *models.Follower) error
	getFn            func(context.Context, uint, uint) (*models.Follower, error)
	deleteFn         func(context.Context, uint, uint) error
	followingEdgesFn func(context.Context, uint) ([]models.Follower, error)
	followerEdgesFn  func(context.Context, uint) ([]models.Follower, error)
	followingFn      func(context.Context, uint) ([]models.User, error)
	followersFn      func(context.Context, uint) ([]models.User, error)
}

func (s *followerRepoStub) Create(ctx context.Context, f *models.Follower) error {
	return s.createFn(ctx, f)
}
func (s *followerRepoStub) Get(ctx context.Context, from, to uint) (*models.Follower, error) {
	return s.getFn(ctx, from, to)
}
func (s *followerRepoStub) Delete(ctx context.Context, from, to uint) error {
	return s.deleteFn(ctx, from, to)
}
func (s *followerRepoStub) FollowingEdges(ctx context.Context, id uint) ([]models.Follower, error) {
	return s.followingEdgesFn(ctx, id)
}
func (s *followerRepoStub) FollowerEdges(ctx context.Context, id uint) ([]models.Follower, error) {
	return s.followerEdgesFn(ctx, id)
}
func (s *followerRepoStub) Following(ctx context.Context, id uint) ([]models.User, error) {
	return s.followingFn(ctx, id)
}
func (s *followerRepoStub) Followers(ctx context.Context, id uint) ([]models.User, error) {
	return s.followersFn(ctx, id)
}

func noopFollowerRepo() *followerRepoStub {
	return &followerRepoStub{
		createFn:         func(_ context.Context, _ *models.Follower) error { return nil },
		getFn:            func(_ context.Context, _, _ uint) (*models.Follower, error) { return &models.Follower{}, nil },
		deleteFn:         func(_ context.Context, _, _ uint) error { return nil },
		followingEdgesFn: func(_ context.Context, _ uint) ([]models.Follower, error) { return nil, nil },
		followerEdgesFn:  func(_ context.Context, _ uint) ([]models.Follower, error) { return nil, nil },
		followingFn:      func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		followersFn:      func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, models.IsNotFound(err), "expected NOT_FOUND, got %v", err)
}
