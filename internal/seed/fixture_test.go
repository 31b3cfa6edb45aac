package seed

import (
	"context"
	"strings"
	"testing"

	"fotogram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtureFile(t *testing.T) {
	fx, err := LoadFixtureFile("testdata/social.yml")
	require.NoError(t, err)

	require.Len(t, fx.Users, 2)
	assert.Equal(t, "ana", fx.Users[0].Username)
	require.Len(t, fx.Users[0].Posts, 2)
	assert.Equal(t, "Atardecer", fx.Users[0].Posts[0].Title)
	assert.Equal(t, "image", fx.Users[0].Posts[0].Media[0].Type)
	assert.Len(t, fx.Follows, 3)
}

func TestLoadFixture_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadFixture(strings.NewReader("users:\n  - username: ana\n    nickname: a\n"))
	assert.Error(t, err)
}

func TestLoadFixture_Empty(t *testing.T) {
	fx, err := LoadFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Users)
}

func TestApplyFixture(t *testing.T) {
	db := setupDB(t)
	fx, err := LoadFixtureFile("testdata/social.yml")
	require.NoError(t, err)

	sum, err := ApplyFixture(context.Background(), db, fx, Options{SkipBcrypt: true})
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 2, Posts: 2, Comments: 2, Media: 1, Followers: 3}, sum)

	var ana models.User
	require.NoError(t, db.Where("username = ?", "ana").First(&ana).Error)

	var titles []string
	require.NoError(t, db.Model(&models.Post{}).Where("user_id = ?", ana.ID).Pluck("titulo", &titles).Error)
	assert.ElementsMatch(t, []string{"Atardecer", "Playa"}, titles)

	var selfFollow int64
	require.NoError(t, db.Model(&models.Follower{}).
		Where("user_from_id = ? AND user_to_id = ?", ana.ID, ana.ID).Count(&selfFollow).Error)
	assert.EqualValues(t, 1, selfFollow)
}

func TestApplyFixture_UnknownAuthorRollsBack(t *testing.T) {
	db := setupDB(t)
	fx := &Fixture{
		Users: []FixtureUser{{
			Username: "ana", FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com", Password: "pw",
			Posts: []FixturePost{{
				Title: "Hola", Link: "https://example.com",
				Comments: []FixtureComment{{Author: "ghost", Text: "boo"}},
			}},
		}},
	}

	_, err := ApplyFixture(context.Background(), db, fx, Options{SkipBcrypt: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown user "ghost"`)
	assert.Zero(t, count(t, db, &models.User{}))
}

func TestApplyFixture_DuplicateFollow(t *testing.T) {
	db := setupDB(t)
	fx := &Fixture{
		Users: []FixtureUser{
			{Username: "a", FirstName: "A", LastName: "A", Email: "a@example.com", Password: "pw"},
			{Username: "b", FirstName: "B", LastName: "B", Email: "b@example.com", Password: "pw"},
		},
		Follows: []FixtureFollow{{From: "a", To: "b"}, {From: "a", To: "b"}},
	}

	_, err := ApplyFixture(context.Background(), db, fx, Options{SkipBcrypt: true})
	assert.ErrorIs(t, err, models.ErrUniqueViolation)
}

func TestApplyFixture_MissingPassword(t *testing.T) {
	db := setupDB(t)
	fx := &Fixture{Users: []FixtureUser{{Username: "a", FirstName: "A", LastName: "A", Email: "a@example.com"}}}

	_, err := ApplyFixture(context.Background(), db, fx, Options{})
	assert.ErrorIs(t, err, models.ErrNotNullViolation)
}

func TestApplyFixture_ReferencesStoredUsers(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first := &Fixture{Users: []FixtureUser{{Username: "ana", FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com", Password: "pw"}}}
	_, err := ApplyFixture(ctx, db, first, Options{SkipBcrypt: true})
	require.NoError(t, err)

	second := &Fixture{
		Users: []FixtureUser{{
			Username: "carla", FirstName: "Carla", LastName: "Diaz", Email: "carla@example.com", Password: "pw",
			Posts: []FixturePost{{
				Title: "Montaña", Link: "https://example.com/m",
				Comments: []FixtureComment{{Author: "ana", Text: "qué bonito"}},
			}},
		}},
		Follows: []FixtureFollow{{From: "carla", To: "ana"}},
	}
	sum, err := ApplyFixture(ctx, db, second, Options{SkipBcrypt: true})
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 1, Posts: 1, Comments: 1, Followers: 1}, sum)

	var ana models.User
	require.NoError(t, db.Where("username = ?", "ana").First(&ana).Error)
	assert.EqualValues(t, 2, count(t, db, &models.User{}))

	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.Equal(t, ana.ID, comment.AuthorID)

	var edge models.Follower
	require.NoError(t, db.First(&edge).Error)
	assert.Equal(t, ana.ID, edge.UserToID)
}
