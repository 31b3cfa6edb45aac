package repository

import (
	"context"
	"testing"

	"fotogram/internal/cache"
	"fotogram/internal/database"
	"fotogram/internal/models"
	"fotogram/internal/schema"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	repo *Set
}

func setupRepos(t *testing.T, c *cache.Cache) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	reg := schema.NewRegistry()
	require.NoError(t, database.Migrate(context.Background(), db, reg))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &fixture{db: db, repo: NewSet(db, reg, c)}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := models.NewUser(username, "First", "Last", username+"@example.com", "hash")
	require.NoError(t, f.repo.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) post(t *testing.T, userID uint, title string) *models.Post {
	t.Helper()
	p := models.NewPost(userID, title, "https://example.com/"+title)
	require.NoError(t, f.repo.Posts.Create(context.Background(), p))
	return p
}

func ids[T any](items []T, id func(T) uint) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func userID(u models.User) uint { return u.ID }
func postID(p models.Post) uint { return p.ID }

func TestUserRepository_DuplicateUsername(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	f.user(t, "ana")

	err := f.repo.Users.Create(ctx, models.NewUser("ana", "Ana", "Two", "ana2@example.com", "hash"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUniqueViolation)
	assert.Equal(t, 409, models.StatusFor(err))
}

func TestUserRepository_EmptyRequiredField(t *testing.T) {
	f := setupRepos(t, nil)

	err := f.repo.Users.Create(context.Background(), models.NewUser("ana", "", "Lopez", "ana@example.com", "hash"))
	assert.ErrorIs(t, err, models.ErrNotNullViolation)
}

func TestUserRepository_GetByID(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	u := f.user(t, "ana")

	got, err := f.repo.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Username)
	assert.True(t, got.IsActive)

	_, err = f.repo.Users.GetByID(ctx, 999)
	assert.True(t, models.IsNotFound(err))
}

func TestUserRepository_GetByUsernameMissing(t *testing.T) {
	f := setupRepos(t, nil)

	got, err := f.repo.Users.GetByUsername(context.Background(), "nobody")
	assert.True(t, models.IsNotFound(err))
	assert.Nil(t, got)
}

func TestUserRepository_List(t *testing.T) {
	f := setupRepos(t, nil)
	a := f.user(t, "ana")
	b := f.user(t, "bea")
	f.user(t, "cai")

	users, err := f.repo.Users.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids(users, userID))
}

func TestPostRepository_UnknownUser(t *testing.T) {
	f := setupRepos(t, nil)

	err := f.repo.Posts.Create(context.Background(), models.NewPost(42, "Hola", "https://example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrForeignKeyViolation)
	assert.Equal(t, 422, models.StatusFor(err))
}

func TestPostRepository_PostsByUser(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	u1 := f.user(t, "ana")
	u2 := f.user(t, "bea")
	p1 := f.post(t, u1.ID, "uno")
	f.post(t, u2.ID, "otro")
	p2 := f.post(t, u1.ID, "dos")

	posts, err := f.repo.Posts.PostsByUser(ctx, u1.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p1.ID, p2.ID}, ids(posts, postID))

	owner, err := f.repo.Posts.UserOf(ctx, &posts[0])
	require.NoError(t, err)
	assert.Equal(t, u1.ID, owner.ID)

	none, err := f.repo.Posts.PostsByUser(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCommentRepository_BothParents(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	author := f.user(t, "ana")
	owner := f.user(t, "bea")
	p := f.post(t, owner.ID, "hola")

	c := models.NewComment(author.ID, p.ID, "nice")
	require.NoError(t, f.repo.Comments.Create(ctx, c))

	byPost, err := f.repo.Comments.CommentsByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, byPost, 1)
	assert.Equal(t, c.ID, byPost[0].ID)

	byAuthor, err := f.repo.Comments.CommentsByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)

	byOwner, err := f.repo.Comments.CommentsByAuthor(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, byOwner)

	gotAuthor, err := f.repo.Comments.AuthorOf(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "ana", gotAuthor.Username)

	gotPost, err := f.repo.Comments.PostOf(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, p.ID, gotPost.ID)
}

func TestCommentRepository_DanglingReferences(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	u := f.user(t, "ana")

	err := f.repo.Comments.Create(ctx, models.NewComment(u.ID, 77, "orphan"))
	assert.ErrorIs(t, err, models.ErrForeignKeyViolation)

	_, err = f.repo.Comments.AuthorOf(ctx, &models.Comment{AuthorID: 55})
	assert.True(t, models.IsNotFound(err))
}

func TestMediaRepository(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	u := f.user(t, "ana")
	p := f.post(t, u.ID, "hola")

	m := models.NewMedia(p.ID, models.MediaTypeVideo, "https://cdn.example.com/v.mp4")
	require.NoError(t, f.repo.Media.Create(ctx, m))

	list, err := f.repo.Media.MediaByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.MediaTypeVideo, list[0].Type)

	parent, err := f.repo.Media.PostOf(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, p.ID, parent.ID)

	err = f.repo.Media.Create(ctx, models.NewMedia(p.ID, models.MediaTypeImage, ""))
	assert.ErrorIs(t, err, models.ErrNotNullViolation)

	require.NoError(t, f.repo.Media.Delete(ctx, m.ID))
	assert.True(t, models.IsNotFound(f.repo.Media.Delete(ctx, m.ID)))
}

func TestFollowerRepository_NamedPaths(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	a := f.user(t, "ana")
	b := f.user(t, "bea")
	c := f.user(t, "cai")

	require.NoError(t, f.repo.Followers.Create(ctx, models.NewFollower(a.ID, b.ID)))
	require.NoError(t, f.repo.Followers.Create(ctx, models.NewFollower(b.ID, a.ID)))
	require.NoError(t, f.repo.Followers.Create(ctx, models.NewFollower(c.ID, a.ID)))

	following, err := f.repo.Followers.Following(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids(following, userID))

	followers, err := f.repo.Followers.Followers(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{b.ID, c.ID}, ids(followers, userID))

	outEdges, err := f.repo.Followers.FollowingEdges(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, outEdges, 1)
	assert.Equal(t, b.ID, outEdges[0].UserToID)

	inEdges, err := f.repo.Followers.FollowerEdges(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, inEdges, 2)

	cFollowing, err := f.repo.Followers.Following(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, ids(cFollowing, userID))
	cFollowers, err := f.repo.Followers.Followers(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, cFollowers)
}

func TestFollowerRepository_SelfAndDuplicate(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	a := f.user(t, "ana")

	require.NoError(t, f.repo.Followers.Create(ctx, models.NewFollower(a.ID, a.ID)))

	err := f.repo.Followers.Create(ctx, models.NewFollower(a.ID, a.ID))
	assert.ErrorIs(t, err, models.ErrUniqueViolation)

	err = f.repo.Followers.Create(ctx, models.NewFollower(a.ID, 404))
	assert.ErrorIs(t, err, models.ErrForeignKeyViolation)

	edge, err := f.repo.Followers.Get(ctx, a.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, edge.UserToID)

	require.NoError(t, f.repo.Followers.Delete(ctx, a.ID, a.ID))
	assert.True(t, models.IsNotFound(f.repo.Followers.Delete(ctx, a.ID, a.ID)))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	f := setupRepos(t, nil)
	ctx := context.Background()
	a := f.user(t, "ana")
	b := f.user(t, "bea")
	p := f.post(t, a.ID, "hola")
	other := f.post(t, b.ID, "otro")
	require.NoError(t, f.repo.Comments.Create(ctx, models.NewComment(b.ID, p.ID, "nice")))
	require.NoError(t, f.repo.Comments.Create(ctx, models.NewComment(a.ID, other.ID, "thanks")))
	require.NoError(t, f.repo.Media.Create(ctx, models.NewMedia(p.ID, models.MediaTypeImage, "https://cdn.example.com/1.jpg")))
	require.NoError(t, f.repo.Followers.Create(ctx, models.NewFollower(b.ID, a.ID)))

	require.NoError(t, f.repo.Users.Delete(ctx, a.ID))

	_, err := f.repo.Posts.GetByID(ctx, p.ID)
	assert.True(t, models.IsNotFound(err))

	comments, err := f.repo.Comments.CommentsByPost(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	media, err := f.repo.Media.MediaByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, media)

	following, err := f.repo.Followers.Following(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	assert.True(t, models.IsNotFound(f.repo.Users.Delete(ctx, a.ID)))
}

func TestUserRepository_CacheAside(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := setupRepos(t, cache.New(client))
	ctx := context.Background()
	u := f.user(t, "ana")
	p := f.post(t, u.ID, "hola")

	_, err := f.repo.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.repo.Posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.UserKey(u.ID)))
	assert.True(t, mr.Exists(cache.PostKey(p.ID)))

	cached, err := f.repo.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", cached.Username)
	assert.Empty(t, cached.Password)

	require.NoError(t, f.repo.Users.Delete(ctx, u.ID))
	assert.False(t, mr.Exists(cache.UserKey(u.ID)))
	assert.False(t, mr.Exists(cache.PostKey(p.ID)))
}
