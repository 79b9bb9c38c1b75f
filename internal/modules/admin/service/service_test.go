package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	adminDto "github.com/kunal592/MD-BlogApp/internal/modules/admin/dto"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	blog "github.com/kunal592/MD-BlogApp/internal/modules/blog/service"
	commentRepo "github.com/kunal592/MD-BlogApp/internal/modules/comment/repository"
	contactRepo "github.com/kunal592/MD-BlogApp/internal/modules/contact/repository"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	reportRepo "github.com/kunal592/MD-BlogApp/internal/modules/report/repository"
	"github.com/kunal592/MD-BlogApp/internal/modules/search"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	user "github.com/kunal592/MD-BlogApp/internal/modules/user/service"
	"github.com/kunal592/MD-BlogApp/internal/testutil"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

type recordingIndexer struct {
	deleted []uuid.UUID
}

func (i *recordingIndexer) IndexBlog(b *entity.Blog) error { return nil }

func (i *recordingIndexer) SearchBlogIDs(q string, limit int) ([]uuid.UUID, error) { return nil, nil }

func (i *recordingIndexer) Reindex(blogs []entity.Blog) (int, error) { return len(blogs), nil }

func (i *recordingIndexer) DeleteBlog(id uuid.UUID) error {
	i.deleted = append(i.deleted, id)
	return nil
}

func newTestService(db *gorm.DB, indexer search.BlogIndexer) *adminService {
	users := userRepo.NewUserRepository(db)
	blogs := blogRepo.NewBlogRepository(db)
	interactions := interactionRepo.NewInteractionRepository(db)

	return NewAdminService(
		users,
		blogs,
		commentRepo.NewCommentRepository(db),
		interactions,
		reportRepo.NewReportRepository(db),
		contactRepo.NewContactRepository(db),
		blog.NewBlogService(blogs, interactions, nil, nil, nil, nil),
		user.NewProfileService(users, blogs, interactions, nil),
		indexer,
	).(*adminService)
}

func actorOf(u *entity.User) commonDto.Actor {
	return commonDto.Actor{ID: u.ID, Role: u.Role}
}

func TestModerationQueue(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	post := testutil.CreateBlog(t, db, author, "Queue Me")
	pending := testutil.CreateComment(t, db, author, post, nil)

	all, err := svc.GetModerationQueue(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, all.Comments)
	require.Len(t, *all.Comments, 1)
	first := (*all.Comments)[0]
	assert.Equal(t, pending.ID, first.ID)
	require.NotNil(t, first.Blog)
	assert.Equal(t, "Queue Me", first.Blog.Title)
	require.NotNil(t, all.Reports)
	assert.Empty(t, *all.Reports)

	onlyComments, err := svc.GetModerationQueue(ctx, adminDto.QueueComments)
	require.NoError(t, err)
	require.NotNil(t, onlyComments.Comments)
	assert.Len(t, *onlyComments.Comments, 1)
	assert.Nil(t, onlyComments.Reports)

	onlyReports, err := svc.GetModerationQueue(ctx, adminDto.QueueReports)
	require.NoError(t, err)
	assert.Nil(t, onlyReports.Comments)
	assert.NotNil(t, onlyReports.Reports)

	_, err = svc.GetModerationQueue(ctx, "spam")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestModerateComment(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(db, nil)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "bob")
	post := testutil.CreateBlog(t, db, author, "Hello")
	pending := testutil.CreateComment(t, db, author, post, nil)

	approved, err := svc.ModerateComment(ctx, pending.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	queue, err := svc.GetModerationQueue(ctx, adminDto.QueueComments)
	require.NoError(t, err)
	require.NotNil(t, queue.Comments)
	assert.Empty(t, *queue.Comments)

	_, err = svc.ModerateComment(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateUserRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(db, nil)
	ctx := context.Background()

	root := testutil.CreateAdmin(t, db, "root")
	member := testutil.CreateUser(t, db, "member")
	no, yes := false, true
	promote := entity.RoleAdmin

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		_, err := svc.UpdateUserRole(ctx, actorOf(root), root.ID, adminDto.UpdateUserRequest{IsActive: &no})
		assert.ErrorIs(t, err, apperror.ErrInvalidOperation)
	})

	t.Run("admin may keep self active", func(t *testing.T) {
		_, err := svc.UpdateUserRole(ctx, actorOf(root), root.ID, adminDto.UpdateUserRequest{IsActive: &yes})
		assert.NoError(t, err)
	})

	t.Run("deactivate and promote another user", func(t *testing.T) {
		updated, err := svc.UpdateUserRole(ctx, actorOf(root), member.ID, adminDto.UpdateUserRequest{Role: &promote, IsActive: &no})
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, updated.Role)
		assert.False(t, updated.IsActive)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateUserRole(ctx, actorOf(root), uuid.New(), adminDto.UpdateUserRequest{IsActive: &no})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	indexer := &recordingIndexer{}
	svc := newTestService(db, indexer)
	ctx := context.Background()

	root := testutil.CreateAdmin(t, db, "root")
	member := testutil.CreateUser(t, db, "member")
	post := testutil.CreateBlog(t, db, member, "Mine")

	err := svc.DeleteUser(ctx, actorOf(root), root.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidOperation)

	require.NoError(t, svc.DeleteUser(ctx, actorOf(root), member.ID))
	assert.Equal(t, []uuid.UUID{post.ID}, indexer.deleted)

	var blogs int64
	require.NoError(t, db.Model(&entity.Blog{}).Where("id = ?", post.ID).Count(&blogs).Error)
	assert.Zero(t, blogs)

	err = svc.DeleteUser(ctx, actorOf(root), member.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAdminBlogManagement(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(db, nil)
	ctx := context.Background()

	root := testutil.CreateAdmin(t, db, "root")
	author := testutil.CreateUser(t, db, "author")
	live := testutil.CreateBlog(t, db, author, "Live")
	draft := testutil.CreateBlog(t, db, author, "Draft", testutil.Draft())

	page, err := svc.ListBlogs(ctx, blogDto.BlogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.TotalItems)

	unpublished := false
	drafts, err := svc.ListBlogs(ctx, blogDto.BlogFilter{Published: &unpublished})
	require.NoError(t, err)
	require.Len(t, drafts.Items, 1)
	assert.Equal(t, draft.ID, drafts.Items[0].ID)

	featured, tags := true, []string{" Go ", "go", "Web"}
	updated, err := svc.UpdateBlog(ctx, actorOf(root), live.ID, adminDto.UpdateBlogRequest{IsFeatured: &featured, Tags: &tags})
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
	assert.Equal(t, []string{"go", "web"}, updated.Tags)

	require.NoError(t, svc.DeleteBlog(ctx, actorOf(root), draft.ID))
	err = svc.DeleteBlog(ctx, actorOf(root), draft.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListAndGetUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(db, nil)
	ctx := context.Background()

	testutil.CreateAdmin(t, db, "root")
	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateBlog(t, db, alice, "A1")

	admins, err := svc.ListUsers(ctx, adminDto.UserFilter{Role: entity.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins.Items, 1)
	assert.Equal(t, "root", admins.Items[0].Name)

	found, err := svc.ListUsers(ctx, adminDto.UserFilter{Search: "ALI"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, alice.ID, found.Items[0].ID)

	detail, err := svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Stats.TotalBlogs)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestService(db, nil)
	ctx := context.Background()

	ref := time.Now().Add(time.Hour)
	svc.now = func() time.Time { return ref }

	testutil.CreateAdmin(t, db, "root")
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	veteran := testutil.CreateUser(t, db, "veteran")
	require.NoError(t, db.Model(veteran).Update("created_at", ref.Add(-45*24*time.Hour)).Error)

	popular := testutil.CreateBlog(t, db, author, "Popular", testutil.WithViews(50), testutil.WithTags("go", "web"))
	testutil.CreateBlog(t, db, author, "Quiet", testutil.WithViews(5), testutil.WithTags("go"))
	testutil.CreateBlog(t, db, author, "Draft", testutil.Draft(), testutil.WithViews(500), testutil.WithTags("secret"))
	testutil.CreateComment(t, db, reader, popular, nil)
	require.NoError(t, db.Create(&entity.Like{UserID: reader.ID, BlogID: popular.ID}).Error)
	require.NoError(t, db.Create(&entity.Bookmark{UserID: reader.ID, BlogID: popular.ID}).Error)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)

	o := stats.Overview
	assert.Equal(t, int64(4), o.TotalUsers)
	assert.Equal(t, int64(3), o.TotalBlogs)
	assert.Equal(t, int64(2), o.PublishedBlogs)
	assert.Equal(t, int64(1), o.DraftBlogs)
	assert.Equal(t, int64(1), o.TotalLikes)
	assert.Equal(t, int64(1), o.TotalBookmarks)
	assert.Equal(t, int64(1), o.TotalComments)
	assert.Equal(t, int64(1), o.PendingComments)
	assert.Equal(t, 200.0, o.UserGrowth)

	assert.Len(t, stats.RecentActivity.RecentUsers, 3)
	assert.Len(t, stats.RecentActivity.RecentBlogs, 3)
	require.Len(t, stats.RecentActivity.TopBlogs, 2)
	assert.Equal(t, popular.ID, stats.RecentActivity.TopBlogs[0].ID)
	assert.Equal(t, int64(1), stats.RecentActivity.TopBlogs[0].Counts.Likes)

	require.Len(t, stats.TrendingTags, 2)
	assert.Equal(t, blogDto.TagCount{Tag: "go", Count: 2}, stats.TrendingTags[0])
}

func TestUserGrowth(t *testing.T) {
	assert.Equal(t, 100.0, UserGrowth(0, 0))
	assert.Equal(t, 100.0, UserGrowth(7, 0))
	assert.Equal(t, 50.0, UserGrowth(3, 2))
	assert.Equal(t, -66.67, UserGrowth(1, 3))
}
