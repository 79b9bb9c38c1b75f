package comment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	commentDto "github.com/kunal592/MD-BlogApp/internal/modules/comment/dto"
	commentRepo "github.com/kunal592/MD-BlogApp/internal/modules/comment/repository"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	interaction "github.com/kunal592/MD-BlogApp/internal/modules/interaction/service"
	notifRepo "github.com/kunal592/MD-BlogApp/internal/modules/notification/repository"
	notifService "github.com/kunal592/MD-BlogApp/internal/modules/notification/service"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/internal/testutil"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/database"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
	"github.com/kunal592/MD-BlogApp/pkg/ratelimiter"
)

func newTestService(t *testing.T, db *gorm.DB, limiter *ratelimiter.Limiter) CommentService {
	t.Helper()

	comments := commentRepo.NewCommentRepository(db)
	blogs := blogRepo.NewBlogRepository(db)
	users := userRepo.NewUserRepository(db)
	edges := interactionRepo.NewInteractionRepository(db)
	transactor := database.NewTransactor(db)
	notifications := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil)
	interactions := interaction.NewInteractionService(edges, blogs, users, comments, transactor, notifications)

	return NewCommentService(comments, blogs, users, edges, interactions, notifications, transactor, limiter)
}

func notificationsFor(t *testing.T, db *gorm.DB, recipientID uuid.UUID) []entity.Notification {
	t.Helper()

	var list []entity.Notification
	require.NoError(t, db.Where("recipient_id = ?", recipientID).Find(&list).Error)
	return list
}

func TestCreateComment(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "alice")
	replier := testutil.CreateUser(t, db, "carol")
	blog := testutil.CreateBlog(t, db, author, "Hello")
	other := testutil.CreateBlog(t, db, author, "Other")

	top, err := svc.Create(ctx, reader.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "great read"})
	require.NoError(t, err)
	assert.Equal(t, "great read", top.Content)
	assert.Nil(t, top.ParentID)
	assert.False(t, top.IsApproved)
	require.NotNil(t, top.Author)
	assert.Equal(t, "alice", top.Author.Name)

	notes := notificationsFor(t, db, author.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationNewComment, notes[0].Type)
	assert.Equal(t, `alice commented on your blog "Hello"`, notes[0].Message)

	t.Run("reply notifies the parent author", func(t *testing.T) {
		parentID := top.ID.String()
		reply, err := svc.Create(ctx, replier.ID, BySlug(blog.Slug), commentDto.CreateCommentRequest{Content: "agreed", ParentID: &parentID})
		require.NoError(t, err)
		require.NotNil(t, reply.ParentID)
		assert.Equal(t, top.ID, *reply.ParentID)

		notes := notificationsFor(t, db, reader.ID)
		require.Len(t, notes, 1)
		assert.Equal(t, entity.NotificationCommentReply, notes[0].Type)
		assert.Equal(t, `carol replied to your comment on "Hello"`, notes[0].Message)
		assert.Len(t, notificationsFor(t, db, author.ID), 1)
	})

	t.Run("own blog is silent", func(t *testing.T) {
		_, err := svc.Create(ctx, author.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "thanks"})
		require.NoError(t, err)
		assert.Len(t, notificationsFor(t, db, author.ID), 1)
	})

	t.Run("reply to own comment is silent", func(t *testing.T) {
		parentID := top.ID.String()
		reply, err := svc.Create(ctx, reader.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "one more thing", ParentID: &parentID})
		require.NoError(t, err)
		require.NotNil(t, reply.ParentID)
		assert.Len(t, notificationsFor(t, db, reader.ID), 1)
		assert.Len(t, notificationsFor(t, db, author.ID), 1)
	})

	t.Run("markup only content is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, reader.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "<script>alert(1)</script>  "})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("parent on another blog", func(t *testing.T) {
		parentID := top.ID.String()
		_, err := svc.Create(ctx, reader.ID, ByID(other.ID), commentDto.CreateCommentRequest{Content: "hm", ParentID: &parentID})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("unknown parent", func(t *testing.T) {
		parentID := uuid.NewString()
		_, err := svc.Create(ctx, reader.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "hm", ParentID: &parentID})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("unknown blog", func(t *testing.T) {
		_, err := svc.Create(ctx, reader.ID, BySlug("missing"), commentDto.CreateCommentRequest{Content: "hm"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestCreateCommentRateLimited(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr, rdb := testutil.NewRedis(t)
	limiter := ratelimiter.New(rdb, time.Second, map[string]time.Duration{ratelimiter.ScopeComment: 10 * time.Second})
	svc := newTestService(t, db, limiter)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	blog := testutil.CreateBlog(t, db, author, "Hello")

	_, err := svc.Create(ctx, author.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = svc.Create(ctx, author.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "second"})
	var rateErr *ratelimiter.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	mr.FastForward(10 * time.Second)
	_, err = svc.Create(ctx, author.ID, ByID(blog.ID), commentDto.CreateCommentRequest{Content: "third"})
	assert.NoError(t, err)
}

func TestListComments(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "alice")
	blog := testutil.CreateBlog(t, db, author, "Hello")

	root := testutil.CreateComment(t, db, reader, blog, nil)
	reply := testutil.CreateComment(t, db, author, blog, &root.ID)
	nested := testutil.CreateComment(t, db, reader, blog, &reply.ID)

	_, err := svc.ToggleLike(ctx, author.ID, root.ID)
	require.NoError(t, err)

	list, err := svc.List(ctx, nil, ByID(blog.ID))
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	require.Len(t, list.Comments, 3)
	assert.Equal(t, nested.ID, list.Comments[0].ID, "newest first")
	assert.Equal(t, root.ID, list.Comments[2].ID)
	assert.EqualValues(t, 1, list.Comments[2].LikeCount)

	require.Len(t, list.Tree, 1)
	assert.Equal(t, root.ID, list.Tree[0].ID)
	require.Len(t, list.Tree[0].Replies, 1)
	require.Len(t, list.Tree[0].Replies[0].Replies, 1)
	assert.Equal(t, nested.ID, list.Tree[0].Replies[0].Replies[0].ID)

	t.Run("unapproved comments are listed", func(t *testing.T) {
		for _, c := range list.Comments {
			assert.False(t, c.IsApproved)
		}
	})

	t.Run("by slug", func(t *testing.T) {
		bySlug, err := svc.List(ctx, nil, BySlug(blog.Slug))
		require.NoError(t, err)
		assert.Equal(t, 3, bySlug.Total)
	})
}

func TestCommentsOnDraft(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	stranger := testutil.CreateUser(t, db, "mallory")
	admin := testutil.CreateAdmin(t, db, "root")
	draft := testutil.CreateBlog(t, db, author, "Unfinished", testutil.Draft())
	testutil.CreateComment(t, db, author, draft, nil)

	t.Run("hidden from anonymous viewers", func(t *testing.T) {
		_, err := svc.List(ctx, nil, ByID(draft.ID))
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = svc.List(ctx, nil, BySlug(draft.Slug))
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("hidden from other users", func(t *testing.T) {
		_, err := svc.List(ctx, &commonDto.Actor{ID: stranger.ID, Role: entity.RoleUser}, ByID(draft.ID))
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		_, err = svc.Create(ctx, stranger.ID, ByID(draft.ID), commentDto.CreateCommentRequest{Content: "sneaky"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("visible to the author", func(t *testing.T) {
		list, err := svc.List(ctx, &commonDto.Actor{ID: author.ID, Role: entity.RoleUser}, ByID(draft.ID))
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)

		_, err = svc.Create(ctx, author.ID, ByID(draft.ID), commentDto.CreateCommentRequest{Content: "note to self"})
		require.NoError(t, err)
	})

	t.Run("visible to admins", func(t *testing.T) {
		list, err := svc.List(ctx, &commonDto.Actor{ID: admin.ID, Role: entity.RoleAdmin}, BySlug(draft.Slug))
		require.NoError(t, err)
		assert.Equal(t, 2, list.Total)
	})
}

func TestDeleteComment(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "alice")
	stranger := testutil.CreateUser(t, db, "mallory")
	admin := testutil.CreateAdmin(t, db, "root")
	blog := testutil.CreateBlog(t, db, author, "Hello")

	first := testutil.CreateComment(t, db, reader, blog, nil)
	second := testutil.CreateComment(t, db, reader, blog, nil)
	third := testutil.CreateComment(t, db, reader, blog, nil)

	err := svc.Delete(ctx, stranger.ID, entity.RoleUser, first.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	assert.NoError(t, svc.Delete(ctx, reader.ID, entity.RoleUser, first.ID))
	assert.NoError(t, svc.Delete(ctx, author.ID, entity.RoleUser, second.ID))
	assert.NoError(t, svc.Delete(ctx, admin.ID, entity.RoleAdmin, third.ID))

	err = svc.Delete(ctx, reader.ID, entity.RoleUser, first.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
