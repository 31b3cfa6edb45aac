package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"fotogram/internal/config"
	"fotogram/internal/models"
	"fotogram/internal/observability"
	"fotogram/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db, schema.NewRegistry()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	require.NoError(t, db.Create(v).Error)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=on", SQLiteDSN(":memory:"))
	assert.Equal(t, "app.db?_foreign_keys=on", SQLiteDSN("app.db"))
	assert.Equal(t, "file:app.db?cache=shared&_foreign_keys=on", SQLiteDSN("file:app.db?cache=shared"))
}

func TestPostgresDSN_DefaultsSSLMode(t *testing.T) {
	dsn := PostgresDSN(&config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "fotogram"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=fotogram sslmode=disable", dsn)
}

func TestConnect_SQLite(t *testing.T) {
	db, err := Connect(&config.Config{DBDriver: config.DriverSQLite, DBSQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.NoError(t, Ping(context.Background(), db))
	assert.Equal(t, "sqlite", Dialect(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestMigrate_CreatesRegisteredTables(t *testing.T) {
	db := setupSQLite(t)
	for _, e := range schema.NewRegistry().Entities() {
		assert.True(t, db.Migrator().HasTable(e.Table), e.Table)
	}
}

func TestConstraints_UniqueUsername(t *testing.T) {
	db := setupSQLite(t)
	mustCreate(t, db, models.NewUser("ana", "Ana", "Lopez", "ana@example.com", "hash"))

	err := db.Create(models.NewUser("ana", "Other", "Person", "other@example.com", "hash")).Error
	require.Error(t, err)
	assert.ErrorIs(t, ClassifyConstraintError(err), models.ErrUniqueViolation)
}

func TestConstraints_UniqueEmail(t *testing.T) {
	db := setupSQLite(t)
	mustCreate(t, db, models.NewUser("ana", "Ana", "Lopez", "ana@example.com", "hash"))

	err := db.Create(models.NewUser("bea", "Bea", "Ruiz", "ana@example.com", "hash")).Error
	assert.ErrorIs(t, ClassifyConstraintError(err), models.ErrUniqueViolation)
}

func TestConstraints_PostWithUnknownUser(t *testing.T) {
	db := setupSQLite(t)

	err := db.Create(models.NewPost(999, "Hola", "https://example.com")).Error
	require.Error(t, err)
	assert.ErrorIs(t, ClassifyConstraintError(err), models.ErrForeignKeyViolation)
}

func TestConstraints_EmptyRequiredField(t *testing.T) {
	db := setupSQLite(t)

	err := db.Create(models.NewUser("", "Ana", "Lopez", "ana@example.com", "hash")).Error
	require.Error(t, err)
	assert.ErrorIs(t, ClassifyConstraintError(err), models.ErrNotNullViolation)
}

func TestConstraints_FollowEdges(t *testing.T) {
	db := setupSQLite(t)
	u := models.NewUser("ana", "Ana", "Lopez", "ana@example.com", "hash")
	mustCreate(t, db, u)

	// self-follow is a valid row
	mustCreate(t, db, models.NewFollower(u.ID, u.ID))

	err := db.Create(models.NewFollower(u.ID, u.ID)).Error
	assert.ErrorIs(t, ClassifyConstraintError(err), models.ErrUniqueViolation)
}

func TestConstraints_DeleteCascades(t *testing.T) {
	db := setupSQLite(t)

	a := models.NewUser("ana", "Ana", "Lopez", "ana@example.com", "hash")
	b := models.NewUser("bea", "Bea", "Ruiz", "bea@example.com", "hash")
	mustCreate(t, db, a)
	mustCreate(t, db, b)

	p := models.NewPost(a.ID, "Hola", "https://example.com")
	mustCreate(t, db, p)
	mustCreate(t, db, models.NewComment(b.ID, p.ID, "nice"))
	mustCreate(t, db, models.NewMedia(p.ID, models.MediaTypeImage, "https://cdn.example.com/1.jpg"))
	mustCreate(t, db, models.NewFollower(a.ID, b.ID))
	mustCreate(t, db, models.NewFollower(b.ID, a.ID))

	require.NoError(t, db.Delete(&models.User{}, a.ID).Error)

	for _, m := range []any{&models.Post{}, &models.Comment{}, &models.Media{}, &models.Follower{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T rows left behind", m)
	}

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestGormLogger_ConstraintViolationLogsWarn(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(observability.NewLogger(&buf, "production", "debug"), logger.Warn)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `INSERT INTO "users"`, 0
	}, errors.New("UNIQUE constraint failed: users.username"))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"constraint":"unique"`)
}

func TestGormLogger_SilentDropsEverything(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(observability.NewLogger(&buf, "production", "debug"), logger.Warn).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	assert.Empty(t, buf.String())
}
