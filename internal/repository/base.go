// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"fotogram/internal/cache"
	"fotogram/internal/database"
	"fotogram/internal/models"
	"fotogram/internal/observability"
	"fotogram/internal/schema"

	"gorm.io/gorm"
)

// store is the plumbing shared by every repository: tracing, latency metrics,
// constraint classification and registry-driven relationship queries.
type store struct {
	db     *gorm.DB
	reg    *schema.Registry
	cache  *cache.Cache
	entity string
	table  string
	trace  *observability.TraceLayer
	log    *observability.RepoLogger
}

func newStore(db *gorm.DB, reg *schema.Registry, c *cache.Cache, entity string) store {
	e, ok := reg.Entity(entity)
	if !ok {
		panic(fmt.Sprintf("repository: entity %q is not registered", entity))
	}
	return store{
		db:     db,
		reg:    reg,
		cache:  c,
		entity: entity,
		table:  e.Table,
		trace:  observability.NewTraceLayer(observability.Tracer, database.Dialect(db)),
		log:    observability.NewRepoLogger(e.Table),
	}
}

// begin starts a span and latency timer for method. The returned func ends both.
func (s *store) begin(ctx context.Context, method string) (context.Context, func(error)) {
	ctx, span := s.trace.TraceRepositoryMethod(ctx, method, s.table)
	done := observability.TrackQuery(method, s.table)
	return ctx, func(err error) {
		done()
		observability.EndSpan(span, err)
	}
}

// writeError turns a failed write into a constraint AppError when the storage engine
// rejected it, or an internal AppError otherwise.
func (s *store) writeError(ctx context.Context, operation string, err error) error {
	kind := database.ConstraintKind(err)
	classified := database.ClassifyConstraintError(err)

	var msg string
	switch {
	case errors.Is(classified, models.ErrUniqueViolation):
		msg = fmt.Sprintf("%s already exists", s.entity)
	case errors.Is(classified, models.ErrForeignKeyViolation):
		msg = fmt.Sprintf("%s references a row that does not exist", s.entity)
	case errors.Is(classified, models.ErrNotNullViolation):
		msg = fmt.Sprintf("%s is missing a required field", s.entity)
	default:
		s.log.LogError(ctx, err, operation)
		return models.NewInternalError(err)
	}

	observability.ConstraintViolations.WithLabelValues(s.table, kind).Inc()
	return models.NewConstraintError(msg, classified)
}

// readError maps gorm.ErrRecordNotFound to a NOT_FOUND AppError.
func (s *store) readError(ctx context.Context, operation string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(s.entity, id)
	}
	s.log.LogError(ctx, err, operation)
	return models.NewInternalError(err)
}

func (s *store) relation(entity, name string) (schema.Relation, error) {
	rel, ok := s.reg.Relation(entity, name)
	if !ok {
		return schema.Relation{}, models.NewInternalError(fmt.Errorf("unknown relation %s.%s", entity, name))
	}
	return rel, nil
}

// hasMany loads the rows of this store's table reached from parentID through the
// named has-many relation of parent, ordered by id.
func (s *store) hasMany(ctx context.Context, parent, name string, parentID uint, dest any) error {
	rel, err := s.relation(parent, name)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Where(rel.ForeignKey+" = ?", parentID).
		Order("id ASC").
		Find(dest).Error; err != nil {
		s.log.LogError(ctx, err, parent+"."+name)
		return models.NewInternalError(err)
	}
	return nil
}

// belongsTo loads the parent row that fk points at through the named belongs-to
// relation of this store's entity.
func (s *store) belongsTo(ctx context.Context, name string, fk uint, dest any) error {
	rel, err := s.relation(s.entity, name)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).First(dest, fk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError(rel.Target, fk)
		}
		s.log.LogError(ctx, err, s.entity+"."+name)
		return models.NewInternalError(err)
	}
	return nil
}

// Set bundles the repositories built over one connection.
type Set struct {
	Users     UserRepository
	Posts     PostRepository
	Comments  CommentRepository
	Media     MediaRepository
	Followers FollowerRepository
}

// NewSet builds every repository. c may be nil.
func NewSet(db *gorm.DB, reg *schema.Registry, c *cache.Cache) *Set {
	return &Set{
		Users:     NewUserRepository(db, reg, c),
		Posts:     NewPostRepository(db, reg, c),
		Comments:  NewCommentRepository(db, reg),
		Media:     NewMediaRepository(db, reg),
		Followers: NewFollowerRepository(db, reg),
	}
}
