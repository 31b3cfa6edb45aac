// Command seed fills a development database with generated or fixture data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fotogram/internal/config"
	"fotogram/internal/database"
	"fotogram/internal/observability"
	"fotogram/internal/schema"
	"fotogram/internal/seed"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		observability.Logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	defaults := seed.DefaultOptions()
	opts := defaults
	flag.IntVar(&opts.Users, "users", defaults.Users, "Number of users to create")
	flag.IntVar(&opts.PostsPerUser, "posts", defaults.PostsPerUser, "Posts per user")
	flag.IntVar(&opts.CommentsPerPost, "comments", defaults.CommentsPerPost, "Comments per post")
	flag.IntVar(&opts.MediaPerPost, "media", defaults.MediaPerPost, "Media attachments per post")
	flag.IntVar(&opts.FollowsPerUser, "follows", defaults.FollowsPerUser, "Users each user follows")
	flag.Int64Var(&opts.RandSeed, "rand-seed", 0, "Seed for repeatable data (0 = random)")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Build data in memory without writing")
	flag.BoolVar(&opts.SkipBcrypt, "skip-bcrypt", false, "Store the default password unhashed (dev only)")
	fixture := flag.String("fixture", "", "YAML fixture to load instead of generated data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	observability.InitLogger(cfg.Env, cfg.LogLevel)
	if cfg.IsProduction() && !opts.DryRun {
		return fmt.Errorf("refusing to seed a production database")
	}

	ctx := context.Background()

	var db *gorm.DB
	if !opts.DryRun {
		db, err = database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}()
		if err := database.ApplySchema(ctx, db, cfg, schema.NewRegistry()); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	var sum seed.Summary
	if *fixture != "" {
		fx, err := seed.LoadFixtureFile(*fixture)
		if err != nil {
			return err
		}
		sum, err = seed.ApplyFixture(ctx, db, fx, opts)
		if err != nil {
			return err
		}
	} else {
		sum, err = seed.Run(ctx, db, opts)
		if err != nil {
			return err
		}
	}

	observability.Logger.Info("seeding finished",
		slog.String("summary", sum.String()),
		slog.Bool("dry_run", opts.DryRun))
	if *fixture == "" {
		observability.Logger.Info("generated users share one password", slog.String("password", seed.DefaultPassword))
	}
	return nil
}
