package admin

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	adminDto "github.com/kunal592/MD-BlogApp/internal/modules/admin/dto"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	blog "github.com/kunal592/MD-BlogApp/internal/modules/blog/service"
	commentDto "github.com/kunal592/MD-BlogApp/internal/modules/comment/dto"
	commentRepo "github.com/kunal592/MD-BlogApp/internal/modules/comment/repository"
	contactRepo "github.com/kunal592/MD-BlogApp/internal/modules/contact/repository"
	feed "github.com/kunal592/MD-BlogApp/internal/modules/feed/service"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	reportRepo "github.com/kunal592/MD-BlogApp/internal/modules/report/repository"
	"github.com/kunal592/MD-BlogApp/internal/modules/search"
	userDto "github.com/kunal592/MD-BlogApp/internal/modules/user/dto"
	userRepo "github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	user "github.com/kunal592/MD-BlogApp/internal/modules/user/service"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

const (
	defaultPageSize  = 10
	activityLimit    = 5
	trendingTagLimit = 5
	growthWindow     = 30 * 24 * time.Hour
	recentUserWindow = 7 * 24 * time.Hour
)

type AdminService interface {
	GetModerationQueue(ctx context.Context, queueType string) (*adminDto.ModerationQueueResponse, error)
	ModerateComment(ctx context.Context, commentID uuid.UUID, approve bool) (*commentDto.CommentResponse, error)

	ListBlogs(ctx context.Context, filter blogDto.BlogFilter) (*commonDto.Paginated[blogDto.BlogResponse], error)
	UpdateBlog(ctx context.Context, admin commonDto.Actor, id uuid.UUID, req adminDto.UpdateBlogRequest) (*blogDto.BlogResponse, error)
	DeleteBlog(ctx context.Context, admin commonDto.Actor, id uuid.UUID) error

	ListUsers(ctx context.Context, filter adminDto.UserFilter) (*commonDto.Paginated[userDto.UserResponse], error)
	GetUser(ctx context.Context, id uuid.UUID) (*adminDto.UserDetailResponse, error)
	UpdateUserRole(ctx context.Context, admin commonDto.Actor, id uuid.UUID, req adminDto.UpdateUserRequest) (*userDto.UserResponse, error)
	DeleteUser(ctx context.Context, admin commonDto.Actor, id uuid.UUID) error

	GetStats(ctx context.Context) (*adminDto.StatsResponse, error)
}

type adminService struct {
	userRepo        userRepo.UserRepository
	blogRepo        blogRepo.BlogRepository
	commentRepo     commentRepo.CommentRepository
	interactionRepo interactionRepo.InteractionRepository
	reportRepo      reportRepo.ReportRepository
	contactRepo     contactRepo.ContactRepository
	blogs           blog.BlogService
	profiles        user.ProfileService
	indexer         search.BlogIndexer
	now             func() time.Time
}

// NewAdminService accepts a nil indexer.
func NewAdminService(
	userRepo userRepo.UserRepository,
	blogRepo blogRepo.BlogRepository,
	commentRepo commentRepo.CommentRepository,
	interactionRepo interactionRepo.InteractionRepository,
	reportRepo reportRepo.ReportRepository,
	contactRepo contactRepo.ContactRepository,
	blogs blog.BlogService,
	profiles user.ProfileService,
	indexer search.BlogIndexer,
) AdminService {
	return &adminService{
		userRepo:        userRepo,
		blogRepo:        blogRepo,
		commentRepo:     commentRepo,
		interactionRepo: interactionRepo,
		reportRepo:      reportRepo,
		contactRepo:     contactRepo,
		blogs:           blogs,
		profiles:        profiles,
		indexer:         indexer,
		now:             time.Now,
	}
}

// GetModerationQueue lists unapproved comments. The reports section is
// always empty; reports have their own listing.
func (s *adminService) GetModerationQueue(ctx context.Context, queueType string) (*adminDto.ModerationQueueResponse, error) {
	if queueType == "" {
		queueType = adminDto.QueueAll
	}

	resp := &adminDto.ModerationQueueResponse{}
	switch queueType {
	case adminDto.QueueAll, adminDto.QueueComments, adminDto.QueueReports:
	default:
		return nil, fmt.Errorf("%w: queue type must be one of all, comments, reports", apperror.ErrInvalidInput)
	}

	if queueType == adminDto.QueueAll || queueType == adminDto.QueueComments {
		comments, err := s.commentRepo.ListUnapproved(ctx)
		if err != nil {
			return nil, err
		}
		items := adminDto.ModerationComments(comments)
		resp.Comments = &items
	}
	if queueType == adminDto.QueueAll || queueType == adminDto.QueueReports {
		resp.Reports = &[]any{}
	}

	return resp, nil
}

func (s *adminService) ModerateComment(ctx context.Context, commentID uuid.UUID, approve bool) (*commentDto.CommentResponse, error) {
	if err := s.commentRepo.SetApproved(ctx, commentID, approve); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	likes, err := s.interactionRepo.CountCommentLikes(ctx, []uuid.UUID{comment.ID})
	if err != nil {
		return nil, err
	}

	resp := commentDto.FromEntity(*comment, likes[comment.ID])
	return &resp, nil
}

// ListBlogs includes drafts unless the filter asks for one status.
func (s *adminService) ListBlogs(ctx context.Context, filter blogDto.BlogFilter) (*commonDto.Paginated[blogDto.BlogResponse], error) {
	filter.Normalize(defaultPageSize)
	filter.PublishedOnly = false

	blogs, total, err := s.blogRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.blogItems(ctx, blogs)
	if err != nil {
		return nil, err
	}

	return &commonDto.Paginated[blogDto.BlogResponse]{
		Items: items,
		Meta:  commonDto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *adminService) blogItems(ctx context.Context, blogs []entity.Blog) ([]blogDto.BlogResponse, error) {
	ids := make([]uuid.UUID, 0, len(blogs))
	for _, b := range blogs {
		ids = append(ids, b.ID)
	}
	counts, err := s.blogRepo.CountsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	return blogDto.ListItems(blogs, counts), nil
}

func (s *adminService) UpdateBlog(ctx context.Context, admin commonDto.Actor, id uuid.UUID, req adminDto.UpdateBlogRequest) (*blogDto.BlogResponse, error) {
	return s.blogs.Update(ctx, admin, id, blogDto.UpdateBlogRequest{
		IsPublished: req.IsPublished,
		IsFeatured:  req.IsFeatured,
		Tags:        req.Tags,
	})
}

func (s *adminService) DeleteBlog(ctx context.Context, admin commonDto.Actor, id uuid.UUID) error {
	return s.blogs.Delete(ctx, admin, id)
}

func (s *adminService) ListUsers(ctx context.Context, filter adminDto.UserFilter) (*commonDto.Paginated[userDto.UserResponse], error) {
	filter.Normalize(defaultPageSize)

	users, total, err := s.userRepo.List(ctx, userRepo.UserFilter{
		Search: filter.Search,
		Role:   filter.Role,
		Active: filter.IsActive,
		Limit:  filter.Limit,
		Offset: filter.Offset(),
	})
	if err != nil {
		return nil, err
	}

	return &commonDto.Paginated[userDto.UserResponse]{
		Items: userResponses(users),
		Meta:  commonDto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func userResponses(users []entity.User) []userDto.UserResponse {
	out := make([]userDto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userDto.FromEntity(&users[i]))
	}
	return out
}

func (s *adminService) GetUser(ctx context.Context, id uuid.UUID) (*adminDto.UserDetailResponse, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.profiles.GetStats(ctx, id)
	if err != nil {
		return nil, err
	}

	return &adminDto.UserDetailResponse{User: userDto.FromEntity(u), Stats: stats}, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, admin commonDto.Actor, id uuid.UUID, req adminDto.UpdateUserRequest) (*userDto.UserResponse, error) {
	if id == admin.ID && req.IsActive != nil && !*req.IsActive {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", apperror.ErrInvalidOperation)
	}

	fields := map[string]any{}
	if req.Role != nil {
		switch *req.Role {
		case entity.RoleUser, entity.RoleAdmin:
			fields["role"] = *req.Role
		default:
			return nil, fmt.Errorf("%w: unknown role %q", apperror.ErrInvalidInput, *req.Role)
		}
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
		log.Info().
			Str("admin_id", admin.ID.String()).
			Str("user_id", id.String()).
			Interface("changes", fields).
			Msg("user updated by admin")
	}

	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := userDto.FromEntity(u)
	return &resp, nil
}

// DeleteUser removes the account with everything it owns and drops the
// owned blogs from the search index.
func (s *adminService) DeleteUser(ctx context.Context, admin commonDto.Actor, id uuid.UUID) error {
	if id == admin.ID {
		return fmt.Errorf("%w: cannot delete your own account", apperror.ErrInvalidOperation)
	}

	owned, err := s.blogRepo.ListByAuthor(ctx, id, blogDto.StatusAll)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.indexer != nil {
		for _, b := range owned {
			if err := s.indexer.DeleteBlog(b.ID); err != nil {
				log.Warn().Err(err).Str("blog_id", b.ID.String()).Msg("failed to remove blog from search index")
			}
		}
	}

	log.Info().Str("admin_id", admin.ID.String()).Str("user_id", id.String()).Msg("user deleted by admin")
	return nil
}

func (s *adminService) GetStats(ctx context.Context) (*adminDto.StatsResponse, error) {
	overview, err := s.overview(ctx)
	if err != nil {
		return nil, err
	}

	activity, err := s.recentActivity(ctx)
	if err != nil {
		return nil, err
	}

	tagSets, err := s.blogRepo.PublishedTagSets(ctx)
	if err != nil {
		return nil, err
	}
	tags := feed.CountTags(tagSets)
	if len(tags) > trendingTagLimit {
		tags = tags[:trendingTagLimit]
	}

	return &adminDto.StatsResponse{
		Overview:       *overview,
		RecentActivity: *activity,
		TrendingTags:   tags,
	}, nil
}

func (s *adminService) overview(ctx context.Context) (*adminDto.Overview, error) {
	var (
		o   adminDto.Overview
		err error
	)

	counters := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&o.TotalUsers, s.userRepo.Count},
		{&o.TotalBlogs, func(ctx context.Context) (int64, error) { return s.blogRepo.Count(ctx, false) }},
		{&o.PublishedBlogs, func(ctx context.Context) (int64, error) { return s.blogRepo.Count(ctx, true) }},
		{&o.TotalLikes, s.interactionRepo.TotalLikes},
		{&o.TotalBookmarks, s.interactionRepo.TotalBookmarks},
		{&o.TotalComments, s.commentRepo.Count},
		{&o.PendingComments, s.commentRepo.CountUnapproved},
		{&o.TotalReports, s.reportRepo.Count},
		{&o.OpenContacts, s.contactRepo.CountOpen},
	}
	for _, c := range counters {
		if *c.dst, err = c.count(ctx); err != nil {
			return nil, err
		}
	}
	o.DraftBlogs = o.TotalBlogs - o.PublishedBlogs

	now := s.now()
	monthAgo := now.Add(-growthWindow)
	current, err := s.userRepo.CountCreatedBetween(ctx, monthAgo, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.userRepo.CountCreatedBetween(ctx, monthAgo.Add(-growthWindow), monthAgo)
	if err != nil {
		return nil, err
	}
	o.UserGrowth = UserGrowth(current, previous)

	return &o, nil
}

// UserGrowth is the percentage change between two windows, rounded to two
// decimals. An empty previous window counts as 100% growth.
func UserGrowth(current, previous int64) float64 {
	if previous == 0 {
		return 100
	}
	growth := float64(current-previous) / float64(previous) * 100
	return math.Round(growth*100) / 100
}

func (s *adminService) recentActivity(ctx context.Context) (*adminDto.RecentActivity, error) {
	users, err := s.userRepo.Recent(ctx, activityLimit)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().Add(-recentUserWindow)
	recentUsers := make([]userDto.UserResponse, 0, len(users))
	for i := range users {
		if users[i].CreatedAt.After(cutoff) {
			recentUsers = append(recentUsers, userDto.FromEntity(&users[i]))
		}
	}

	recent, err := s.blogRepo.Recent(ctx, activityLimit)
	if err != nil {
		return nil, err
	}
	recentBlogs, err := s.blogItems(ctx, recent)
	if err != nil {
		return nil, err
	}

	top, err := s.blogRepo.Trending(ctx, activityLimit)
	if err != nil {
		return nil, err
	}
	topBlogs, err := s.blogItems(ctx, top)
	if err != nil {
		return nil, err
	}

	return &adminDto.RecentActivity{
		RecentUsers: recentUsers,
		RecentBlogs: recentBlogs,
		TopBlogs:    topBlogs,
	}, nil
}
