package services

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPost(title string) PostInput {
	return PostInput{Title: title, TimeLabel: "45 min", TemperatureLabel: "180C", Body: "Mix and bake."}
}

func TestPostCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.io", "pw1")

	bread, err := f.posts.Create(ctx, alice, validPost("Bread"), nil)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, bread.AuthorID)
	assert.Equal(t, "default.jpg", bread.ImageFile)
	assert.False(t, bread.CreatedAt.IsZero())

	cake, err := f.posts.Create(ctx, alice, validPost("Cake"), pngUpload(t, "cake.jpg", 900, 300))
	require.NoError(t, err)
	assert.NotEqual(t, "default.jpg", cake.ImageFile)
	_, ok := f.store.get("post_pics/" + cake.ImageFile)
	assert.True(t, ok)

	got, err := f.posts.Get(ctx, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author.Username)
	assert.Equal(t, "45 min", got.TimeLabel)
	assert.Equal(t, "180C", got.TemperatureLabel)
}

func TestPostCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.io", "pw1")

	_, err := f.posts.Create(ctx, alice, PostInput{Title: "Bread"}, nil)
	requireFieldError(t, err, "time")
	requireFieldError(t, err, "temp")
	requireFieldError(t, err, "content")

	_, err = f.posts.Create(ctx, alice, validPost("Bread"), pngUpload(t, "bread.bmp", 5, 5))
	requireFieldError(t, err, "picture")

	_, err = f.posts.Create(ctx, nil, validPost("Bread"), nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPostUpdate_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.io", "pw1")
	bob := f.register(t, "bob", "b@x.io", "pw2")

	bread, err := f.posts.Create(ctx, alice, validPost("Bread"), nil)
	require.NoError(t, err)

	_, err = f.posts.Update(ctx, bob, bread.ID, PostEditInput{Title: "Mine", Body: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.posts.Update(ctx, nil, 9999, PostEditInput{Title: "Mine", Body: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.posts.Update(ctx, alice, 9999, PostEditInput{Title: "Mine", Body: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.posts.Get(ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Title)
	assert.Equal(t, alice.ID, got.AuthorID)
}

func TestPostUpdate_OnlyTitleAndBody(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.io", "pw1")

	bread, err := f.posts.Create(ctx, alice, validPost("Bread"), nil)
	require.NoError(t, err)

	_, err = f.posts.Update(ctx, alice, bread.ID, PostEditInput{Title: "", Body: "x"})
	requireFieldError(t, err, "title")

	updated, err := f.posts.Update(ctx, alice, bread.ID, PostEditInput{Title: "Rye Bread", Body: "Use rye."})
	require.NoError(t, err)
	assert.Equal(t, "Rye Bread", updated.Title)

	got, err := f.posts.Get(ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rye Bread", got.Title)
	assert.Equal(t, "Use rye.", got.Body)
	assert.Equal(t, "45 min", got.TimeLabel)
	assert.Equal(t, alice.ID, got.AuthorID)
	assert.WithinDuration(t, bread.CreatedAt, got.CreatedAt, time.Second)
}

func TestPostDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.io", "pw1")
	bob := f.register(t, "bob", "b@x.io", "pw2")

	bread, err := f.posts.Create(ctx, alice, validPost("Bread"), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, f.posts.Delete(ctx, bob, bread.ID), ErrForbidden)
	assert.ErrorIs(t, f.posts.Delete(ctx, nil, bread.ID), ErrForbidden)
	require.NoError(t, f.posts.Delete(ctx, alice, bread.ID))

	_, err = f.posts.Get(ctx, bread.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.posts.Delete(ctx, alice, bread.ID), ErrNotFound)
}

func TestPostFeed_NewestFirstAndPaged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "a@x.io", "pw1")
	bob := f.register(t, "bob", "b@x.io", "pw2")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		f.posts.now = func() time.Time { return at }
		author := alice
		if i%2 == 0 {
			author = bob
		}
		_, err := f.posts.Create(ctx, author, validPost(fmt.Sprintf("p%d", i)), nil)
		require.NoError(t, err)
	}

	first, err := f.posts.Feed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.Total)
	assert.Equal(t, []string{"p5", "p4", "p3"}, titles(first.Items))
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	second, err := f.posts.Feed(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, titles(second.Items))
	assert.False(t, second.HasNext())

	empty, err := f.posts.Feed(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	huge, err := f.posts.Feed(ctx, math.MaxInt/2+1)
	require.NoError(t, err)
	assert.Empty(t, huge.Items)
	assert.Equal(t, 0, huge.NextNum())

	user, mine, err := f.posts.UserFeed(ctx, "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, user.ID)
	assert.Equal(t, []string{"p4", "p2"}, titles(mine.Items))

	_, _, err = f.posts.UserFeed(ctx, "carol", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func titles(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}
