package interaction

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	commentRepo "github.com/kunal592/MD-BlogApp/internal/modules/comment/repository"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	notifRepo "github.com/kunal592/MD-BlogApp/internal/modules/notification/repository"
	notifService "github.com/kunal592/MD-BlogApp/internal/modules/notification/service"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/internal/testutil"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/database"
)

func newTestService(t *testing.T) (InteractionService, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	return newTestServiceWithRepo(db, interactionRepo.NewInteractionRepository(db)), db
}

func newTestServiceWithRepo(db *gorm.DB, repo interactionRepo.InteractionRepository) InteractionService {
	return NewInteractionService(
		repo,
		blogRepo.NewBlogRepository(db),
		userRepo.NewUserRepository(db),
		commentRepo.NewCommentRepository(db),
		database.NewTransactor(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
	)
}

// racingRepo sees no like to remove while another request has already
// inserted it, so the following insert affects no rows.
type racingRepo struct {
	interactionRepo.InteractionRepository
}

func (r racingRepo) WithTx(tx *gorm.DB) interactionRepo.InteractionRepository {
	return racingRepo{r.InteractionRepository.WithTx(tx)}
}

func (r racingRepo) DeleteLike(ctx context.Context, userID, blogID uuid.UUID) (int64, error) {
	return 0, nil
}

func notificationsFor(t *testing.T, db *gorm.DB, recipientID uuid.UUID) []entity.Notification {
	t.Helper()

	var list []entity.Notification
	require.NoError(t, db.Where("recipient_id = ?", recipientID).Order("created_at asc").Find(&list).Error)
	return list
}

func TestToggleLike(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "alice")
	blog := testutil.CreateBlog(t, db, author, "Hello")

	resp, err := svc.ToggleLike(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.EqualValues(t, 1, resp.LikeCount)

	notes := notificationsFor(t, db, author.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationLike, notes[0].Type)
	assert.Equal(t, `alice liked your blog "Hello"`, notes[0].Message)
	require.NotNil(t, notes[0].SenderID)
	assert.Equal(t, reader.ID, *notes[0].SenderID)
	assert.False(t, notes[0].Read)

	resp, err = svc.ToggleLike(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Zero(t, resp.LikeCount)
	assert.Len(t, notificationsFor(t, db, author.ID), 1, "unlike must not notify")

	t.Run("liking again notifies again", func(t *testing.T) {
		resp, err := svc.ToggleLike(ctx, reader.ID, blog.ID)
		require.NoError(t, err)
		assert.True(t, resp.Liked)
		assert.Len(t, notificationsFor(t, db, author.ID), 2)
	})

	t.Run("self like is silent", func(t *testing.T) {
		resp, err := svc.ToggleLike(ctx, author.ID, blog.ID)
		require.NoError(t, err)
		assert.True(t, resp.Liked)
		assert.EqualValues(t, 2, resp.LikeCount)
		assert.Len(t, notificationsFor(t, db, author.ID), 2)
	})

	t.Run("unknown blog", func(t *testing.T) {
		_, err := svc.ToggleLike(ctx, reader.ID, uuid.New())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestToggleLikeLostRace(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestServiceWithRepo(db, racingRepo{interactionRepo.NewInteractionRepository(db)})
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "alice")
	blog := testutil.CreateBlog(t, db, author, "Hello")
	require.NoError(t, db.Create(&entity.Like{UserID: reader.ID, BlogID: blog.ID}).Error)

	resp, err := svc.ToggleLike(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.EqualValues(t, 1, resp.LikeCount)
	assert.Empty(t, notificationsFor(t, db, author.ID))
}

func TestToggleBookmark(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "alice")
	blog := testutil.CreateBlog(t, db, author, "Hello")

	resp, err := svc.ToggleBookmark(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, resp.Bookmarked)
	assert.EqualValues(t, 1, resp.BookmarkCount)

	state, err := svc.State(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, state.IsBookmarked)
	assert.False(t, state.IsLiked)

	resp, err = svc.ToggleBookmark(ctx, reader.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, resp.Bookmarked)
	assert.Zero(t, resp.BookmarkCount)

	assert.Empty(t, notificationsFor(t, db, author.ID))
}

func TestToggleCommentLike(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	commenter := testutil.CreateUser(t, db, "carol")
	reader := testutil.CreateUser(t, db, "alice")
	blog := testutil.CreateBlog(t, db, author, "Hello")
	comment := testutil.CreateComment(t, db, commenter, blog, nil)

	resp, err := svc.ToggleCommentLike(ctx, reader.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.EqualValues(t, 1, resp.LikeCount)

	notes := notificationsFor(t, db, commenter.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationCommentLike, notes[0].Type)
	assert.Equal(t, `alice liked your comment on "Hello"`, notes[0].Message)

	resp, err = svc.ToggleCommentLike(ctx, reader.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Zero(t, resp.LikeCount)

	t.Run("own comment is silent", func(t *testing.T) {
		resp, err := svc.ToggleCommentLike(ctx, commenter.ID, comment.ID)
		require.NoError(t, err)
		assert.True(t, resp.Liked)
		assert.EqualValues(t, 1, resp.LikeCount)
		assert.Len(t, notificationsFor(t, db, commenter.ID), 1)
	})

	_, err = svc.ToggleCommentLike(ctx, reader.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFollow(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	t.Run("self follow", func(t *testing.T) {
		_, err := svc.Follow(ctx, alice.ID, alice.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidOperation)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := svc.Follow(ctx, alice.ID, uuid.New())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	resp, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, resp.Following)
	assert.EqualValues(t, 1, resp.FollowerCount)

	notes := notificationsFor(t, db, bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationFollow, notes[0].Type)
	assert.Equal(t, "alice started following you", notes[0].Message)

	_, err = svc.Follow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Len(t, notificationsFor(t, db, bob.ID), 1, "rejected follow rolls back")

	followers, err := svc.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	following, err := svc.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	resp, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, resp.Following)
	assert.Zero(t, resp.FollowerCount)

	_, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	assert.NoError(t, err, "unfollow is idempotent")
}

func TestLikedAndBookmarkedBlogs(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "alice")
	first := testutil.CreateBlog(t, db, author, "First")
	second := testutil.CreateBlog(t, db, author, "Second")

	_, err := svc.ToggleLike(ctx, reader.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, reader.ID, second.ID)
	require.NoError(t, err)
	_, err = svc.ToggleBookmark(ctx, reader.ID, second.ID)
	require.NoError(t, err)

	// unpublished after the like: hidden from the reader
	require.NoError(t, db.Model(&entity.Blog{}).Where("id = ?", first.ID).Update("is_published", false).Error)

	liked, err := svc.LikedBlogs(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, second.ID, liked[0].ID)
	assert.EqualValues(t, 1, liked[0].Counts.Likes)
	assert.EqualValues(t, 1, liked[0].Counts.Bookmarks)
	assert.Empty(t, liked[0].Content)

	bookmarked, err := svc.BookmarkedBlogs(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, bookmarked, 1)
	assert.Equal(t, second.ID, bookmarked[0].ID)
}
