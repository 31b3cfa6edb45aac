// Package seed creates demo and test data. It is meant for development databases only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"fotogram/internal/database"
	"fotogram/internal/models"
	"fotogram/internal/observability"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the clear-text password of every generated user.
const DefaultPassword = "password123"

var mediaExtensions = map[models.MediaType]string{
	models.MediaTypeImage: "jpg",
	models.MediaTypeVideo: "mp4",
	models.MediaTypeAudio: "mp3",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	rng   *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
	seq    int
}

// NewFactory creates a Factory bound to db. db may be nil when opts.DryRun is set.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// #nosec G404: acceptable for seeding
	return &Factory{
		db:     db,
		opts:   opts,
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1000,
	}
}

func (f *Factory) hash(password string) (string, error) {
	if f.opts.SkipBcrypt || password == "" {
		return password, nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// persist inserts v, or hands out a synthetic id in dry-run mode.
func (f *Factory) persist(ctx context.Context, v any, setID func(uint)) error {
	if f.opts.DryRun {
		f.nextID++
		setID(f.nextID)
		observability.Logger.DebugContext(ctx, "[dry-run] create", slog.String("type", fmt.Sprintf("%T", v)), slog.Uint64("id", uint64(f.nextID)))
		return nil
	}
	if err := f.db.WithContext(ctx).Create(v).Error; err != nil {
		return database.ClassifyConstraintError(err)
	}
	return nil
}

// BuildUser constructs an unsaved user with a unique username and email.
func (f *Factory) BuildUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	first, last := f.faker.FirstName(), f.faker.LastName()
	username := fmt.Sprintf("%s%d", strings.ToLower(f.faker.Username()), f.seq)

	hashed, err := f.hash(DefaultPassword)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, first, last, username+"@"+f.faker.DomainName(), hashed)
	user.CreatedAt = f.pastTime()
	user.UpdatedAt = user.CreatedAt
	for _, override := range overrides {
		override(user)
	}
	return user, nil
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user, err := f.BuildUser(overrides...)
	if err != nil {
		return nil, err
	}
	if err := f.persist(ctx, user, func(id uint) { user.ID = id }); err != nil {
		return nil, fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return user, nil
}

// CreatePost persists a post authored by user.
func (f *Factory) CreatePost(ctx context.Context, user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := models.NewPost(user.ID, f.faker.Sentence(5), f.faker.URL())
	post.CreatedAt = f.pastTime()
	post.UpdatedAt = post.CreatedAt
	for _, override := range overrides {
		override(post)
	}
	if err := f.persist(ctx, post, func(id uint) { post.ID = id }); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateComment persists a comment by author on post.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := models.NewComment(author.ID, post.ID, f.faker.Sentence(8))
	for _, override := range overrides {
		override(comment)
	}
	if err := f.persist(ctx, comment, func(id uint) { comment.ID = id }); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateMedia persists an attachment of a random type on post.
func (f *Factory) CreateMedia(ctx context.Context, post *models.Post, overrides ...func(*models.Media)) (*models.Media, error) {
	types := []models.MediaType{models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypeAudio}
	kind := types[f.rng.Intn(len(types))]
	url := fmt.Sprintf("https://cdn.fotogram.dev/%s/%s.%s", kind, uuid.NewString(), mediaExtensions[kind])

	media := models.NewMedia(post.ID, kind, url)
	for _, override := range overrides {
		override(media)
	}
	if err := f.persist(ctx, media, func(id uint) { media.ID = id }); err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return media, nil
}

// CreateFollow persists the edge from -> to.
func (f *Factory) CreateFollow(ctx context.Context, from, to *models.User) (*models.Follower, error) {
	edge := models.NewFollower(from.ID, to.ID)
	if err := f.persist(ctx, edge, func(id uint) { edge.ID = id }); err != nil {
		return nil, fmt.Errorf("follow %d -> %d: %w", from.ID, to.ID, err)
	}
	return edge, nil
}

// pastTime spreads timestamps over the last MaxDays days.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().UTC().Add(-back).Truncate(time.Second)
}
