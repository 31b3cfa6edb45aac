package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestNewRegistry_EntityOrder(t *testing.T) {
	reg := NewRegistry()

	var tables []string
	for _, e := range reg.Entities() {
		tables = append(tables, e.Table)
	}
	assert.Equal(t, []string{"users", "posts", "comments", "media", "followers"}, tables)
	assert.Len(t, reg.Models(), 5)
}

func TestRegistry_FollowPathsAreDistinct(t *testing.T) {
	reg := NewRegistry()

	following, ok := reg.Relation("User", "following")
	require.True(t, ok)
	followers, ok := reg.Relation("User", "followers")
	require.True(t, ok)

	assert.Equal(t, "user_from_id", following.ForeignKey)
	assert.Equal(t, "user_to_id", followers.ForeignKey)
	assert.Equal(t, gormschema.HasMany, following.Kind)

	back, ok := reg.Relation("Follower", "user_to")
	require.True(t, ok)
	assert.Equal(t, gormschema.BelongsTo, back.Kind)
	assert.Equal(t, "User", back.Target)
}

func TestRegistry_Counterpart(t *testing.T) {
	reg := NewRegistry()

	cp, ok := reg.Counterpart("User", "following")
	require.True(t, ok)
	assert.Equal(t, "followers", cp.Name)

	cp, ok = reg.Counterpart("User", "followers")
	require.True(t, ok)
	assert.Equal(t, "following", cp.Name)

	_, ok = reg.Counterpart("User", "posts")
	assert.False(t, ok)
	_, ok = reg.Counterpart("Follower", "user_to")
	assert.False(t, ok)
}

func TestRegistry_RelationsSorted(t *testing.T) {
	rels := NewRegistry().Relations("User")

	var names []string
	for _, r := range rels {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"comments", "followers", "following", "posts"}, names)
}

func TestRegistry_UnknownRelation(t *testing.T) {
	_, ok := NewRegistry().Relation("Media", "comments")
	assert.False(t, ok)
}

func TestRegistry_VerifyMatchesModels(t *testing.T) {
	require.NoError(t, NewRegistry().Verify(openTestDB(t)))
}

func TestRegistry_VerifyDetectsDrift(t *testing.T) {
	reg := NewRegistry()
	reg.addRelation(Relation{
		Entity:     "User",
		Name:       "following",
		Field:      "Following",
		Target:     "Follower",
		ForeignKey: "user_to_id",
		Kind:       gormschema.HasMany,
	})

	err := reg.Verify(openTestDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User.following")
}

func TestRegistry_VerifyReportsInNameOrder(t *testing.T) {
	reg := NewRegistry()
	reg.addRelation(Relation{Entity: "User", Name: "following", Field: "Following", Target: "Follower", ForeignKey: "user_to_id", Kind: gormschema.HasMany})
	reg.addRelation(Relation{Entity: "User", Name: "followers", Field: "Followers", Target: "Follower", ForeignKey: "user_from_id", Kind: gormschema.HasMany})

	err := reg.Verify(openTestDB(t))
	require.Error(t, err)

	msg := err.Error()
	followers := strings.Index(msg, "User.followers")
	following := strings.Index(msg, "User.following")
	require.NotEqual(t, -1, followers)
	require.NotEqual(t, -1, following)
	assert.Less(t, followers, following)
}
