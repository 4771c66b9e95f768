package store

import (
	"context"
	"testing"
	"time"

	"portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises a Store implementation. Every backend must pass it.
func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var author *models.User

	t.Run("create user", func(t *testing.T) {
		author = &models.User{Username: "azis", Password: "hash", CreatedAt: base}
		require.NoError(t, s.Users().CreateUser(ctx, author))
		assert.NotEmpty(t, author.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, &models.User{Username: "azis", Password: "other", CreatedAt: base})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("find user", func(t *testing.T) {
		u, err := s.Users().FindUserByUsername(ctx, "azis")
		require.NoError(t, err)
		assert.Equal(t, author.ID, u.ID)
		assert.Equal(t, "hash", u.Password)

		u, err = s.Users().FindUserByID(ctx, author.ID)
		require.NoError(t, err)
		assert.Equal(t, "azis", u.Username)

		_, err = s.Users().FindUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("recent posts newest first", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			p := &models.Post{
				Title:      "post",
				Summary:    "s",
				Content:    "c",
				Categories: []string{"tech"},
				Cover:      "https://img/1.png",
				CreatedAt:  base.Add(time.Duration(i) * time.Minute),
				UpdatedAt:  base.Add(time.Duration(i) * time.Minute),
			}
			p.SetAuthorID(author.ID)
			require.NoError(t, s.Posts().Insert(ctx, p))
			assert.NotEmpty(t, p.ID)
		}

		posts, err := s.Posts().Recent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		for i := 1; i < len(posts); i++ {
			assert.True(t, posts[i-1].CreatedAt.After(posts[i].CreatedAt))
		}
		require.NotNil(t, posts[0].Author)
		assert.Equal(t, "azis", posts[0].Author.Username)
		assert.Equal(t, []string{"tech"}, posts[0].Categories)
	})

	t.Run("save and delete project", func(t *testing.T) {
		p := &models.Project{
			Title:       "site",
			Description: "portfolio",
			Tag:         []string{"go"},
			Link:        "https://example.com",
			Image:       "https://img/2.png",
			CreatedAt:   base,
			UpdatedAt:   base,
		}
		require.NoError(t, s.Projects().Insert(ctx, p))

		p.Title = "renamed"
		p.Tag = []string{"go", "gin"}
		require.NoError(t, s.Projects().Save(ctx, p))

		got, err := s.Projects().FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, []string{"go", "gin"}, got.Tag)
		assert.Nil(t, got.Author)

		require.NoError(t, s.Projects().Delete(ctx, p.ID))
		assert.ErrorIs(t, s.Projects().Delete(ctx, p.ID), ErrNotFound)

		_, err = s.Projects().FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Projects().Save(ctx, p), ErrNotFound)
	})
}
