package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	"github.com/kunal592/MD-BlogApp/internal/testutil"
)

func TestGetFeed(t *testing.T) {
	db := testutil.NewTestDB(t)
	edges := interactionRepo.NewInteractionRepository(db)
	svc := NewFeedService(blogRepo.NewBlogRepository(db), edges)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	base := time.Now().Add(-time.Hour)
	older := testutil.CreateBlog(t, db, bob, "Older", testutil.CreatedAt(base))
	newer := testutil.CreateBlog(t, db, bob, "Newer", testutil.CreatedAt(base.Add(time.Minute)))
	testutil.CreateBlog(t, db, bob, "Draft", testutil.Draft())
	testutil.CreateBlog(t, db, carol, "Carol's")

	feed, err := svc.GetFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, feed, "following nobody")

	_, err = edges.InsertFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err = svc.GetFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, newer.ID, feed[0].ID)
	assert.Equal(t, older.ID, feed[1].ID)
	require.NotNil(t, feed[0].Author)
	assert.Equal(t, "bob", feed[0].Author.Name)

	feed, err = svc.GetFeed(ctx, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, newer.ID, feed[0].ID)

	_, err = edges.DeleteFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err = svc.GetFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestGetTrending(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewFeedService(blogRepo.NewBlogRepository(db), interactionRepo.NewInteractionRepository(db))
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	base := time.Now().Add(-time.Hour)

	popular := testutil.CreateBlog(t, db, author, "Popular", testutil.WithViews(50), testutil.CreatedAt(base))
	tieOld := testutil.CreateBlog(t, db, author, "Tie old", testutil.WithViews(10), testutil.CreatedAt(base))
	tieNew := testutil.CreateBlog(t, db, author, "Tie new", testutil.WithViews(10), testutil.CreatedAt(base.Add(time.Minute)))
	testutil.CreateBlog(t, db, author, "Hidden", testutil.WithViews(999), testutil.Draft())
	for i := 0; i < TrendingLimit; i++ {
		testutil.CreateBlog(t, db, author, "filler", testutil.WithViews(1))
	}

	trending, err := svc.GetTrending(ctx)
	require.NoError(t, err)
	require.Len(t, trending, TrendingLimit)
	assert.Equal(t, popular.ID, trending[0].ID)
	assert.Equal(t, tieNew.ID, trending[1].ID)
	assert.Equal(t, tieOld.ID, trending[2].ID)
	for _, b := range trending {
		assert.True(t, b.IsPublished)
	}
}

func TestGetTags(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewFeedService(blogRepo.NewBlogRepository(db), interactionRepo.NewInteractionRepository(db))

	author := testutil.CreateUser(t, db, "bob")
	testutil.CreateBlog(t, db, author, "A", testutil.WithTags("go", "web"))
	testutil.CreateBlog(t, db, author, "B", testutil.WithTags("go", "db"))
	testutil.CreateBlog(t, db, author, "C", testutil.WithTags("rust"), testutil.Draft())

	tags, err := svc.GetTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []blogDto.TagCount{
		{Tag: "go", Count: 2},
		{Tag: "db", Count: 1},
		{Tag: "web", Count: 1},
	}, tags)
}

func TestCountTagsOncePerBlog(t *testing.T) {
	tags := CountTags([][]string{{"go", "go", ""}, {"b"}, {"a"}})
	assert.Equal(t, []blogDto.TagCount{
		{Tag: "a", Count: 1},
		{Tag: "b", Count: 1},
		{Tag: "go", Count: 1},
	}, tags)
}
