package seed

import (
	"context"
	"fmt"
	"log/slog"

	"fotogram/internal/models"
	"fotogram/internal/observability"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	MediaPerPost    int
	FollowsPerUser  int
	// DryRun builds everything in memory and assigns synthetic ids.
	DryRun     bool
	SkipBcrypt bool
	MaxDays    int
	// RandSeed makes generated data repeatable. Zero picks a time-based seed.
	RandSeed int64
}

// DefaultOptions is a small social graph suitable for local development.
func DefaultOptions() Options {
	return Options{
		Users:           20,
		PostsPerUser:    3,
		CommentsPerPost: 2,
		MediaPerPost:    1,
		FollowsPerUser:  4,
		MaxDays:         90,
	}
}

// Summary counts the rows a run created.
type Summary struct {
	Users     int
	Posts     int
	Comments  int
	Media     int
	Followers int
}

func (s Summary) String() string {
	return fmt.Sprintf("users=%d posts=%d comments=%d media=%d followers=%d",
		s.Users, s.Posts, s.Comments, s.Media, s.Followers)
}

// Run generates a random social graph. Outside dry-run mode everything is written in
// one transaction, so a failed run leaves the database untouched.
func Run(ctx context.Context, db *gorm.DB, opts Options) (Summary, error) {
	observability.Logger.InfoContext(ctx, "Starting database seeding",
		slog.Int("users", opts.Users), slog.Bool("dry_run", opts.DryRun))

	var sum Summary
	run := func(tx *gorm.DB) error {
		var err error
		sum, err = generate(ctx, NewFactory(tx, opts), opts)
		return err
	}

	var err error
	if opts.DryRun {
		err = run(db)
	} else {
		err = db.WithContext(ctx).Transaction(run)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("seed: %w", err)
	}

	observability.Logger.InfoContext(ctx, "Database seeding completed", slog.String("summary", sum.String()))
	return sum, nil
}

func generate(ctx context.Context, f *Factory, opts Options) (Summary, error) {
	var sum Summary

	users := make([]*models.User, 0, opts.Users)
	for range opts.Users {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return sum, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	for _, u := range users {
		for range opts.PostsPerUser {
			p, err := f.CreatePost(ctx, u)
			if err != nil {
				return sum, err
			}
			sum.Posts++

			for range opts.MediaPerPost {
				if _, err := f.CreateMedia(ctx, p); err != nil {
					return sum, err
				}
				sum.Media++
			}
			for range opts.CommentsPerPost {
				author := users[f.rng.Intn(len(users))]
				if _, err := f.CreateComment(ctx, author, p); err != nil {
					return sum, err
				}
				sum.Comments++
			}
		}
	}

	for i, u := range users {
		picked := 0
		for _, j := range f.rng.Perm(len(users)) {
			if picked == opts.FollowsPerUser {
				break
			}
			if j == i {
				continue
			}
			if _, err := f.CreateFollow(ctx, u, users[j]); err != nil {
				return sum, err
			}
			picked++
		}
		sum.Followers += picked
	}

	return sum, nil
}
