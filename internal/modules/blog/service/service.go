package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
	"github.com/kunal592/MD-BlogApp/internal/modules/search"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
	"github.com/kunal592/MD-BlogApp/pkg/ratelimiter"
	"github.com/kunal592/MD-BlogApp/pkg/storage"
	"github.com/kunal592/MD-BlogApp/pkg/summarizer"
)

const (
	defaultPageSize    = 10
	defaultSearchLimit = 20
)

type BlogService interface {
	List(ctx context.Context, filter blogDto.BlogFilter) (*commonDto.Paginated[blogDto.BlogResponse], error)
	// GetBySlug counts a view on every call.
	GetBySlug(ctx context.Context, viewer *commonDto.Actor, slug string) (*blogDto.BlogResponse, error)
	GetByID(ctx context.Context, viewer *commonDto.Actor, id uuid.UUID) (*blogDto.BlogResponse, error)
	Create(ctx context.Context, actor commonDto.Actor, req blogDto.CreateBlogRequest) (*blogDto.BlogResponse, error)
	Update(ctx context.Context, actor commonDto.Actor, id uuid.UUID, req blogDto.UpdateBlogRequest) (*blogDto.BlogResponse, error)
	Delete(ctx context.Context, actor commonDto.Actor, id uuid.UUID) error
	SetPublished(ctx context.Context, actor commonDto.Actor, id uuid.UUID, published bool) (*blogDto.BlogResponse, error)
	MyBlogs(ctx context.Context, actorID uuid.UUID, filter blogDto.MyBlogsFilter) ([]blogDto.BlogResponse, error)
	Summarize(ctx context.Context, content string) *blogDto.SummarizeResponse
	Search(ctx context.Context, query string, limit int) ([]blogDto.BlogResponse, error)
}

type blogService struct {
	repo            blogRepo.BlogRepository
	interactionRepo interactionRepo.InteractionRepository
	summarizer      *summarizer.Summarizer
	indexer         search.BlogIndexer
	imageStorage    storage.ImageStorage
	limiter         *ratelimiter.Limiter
	now             func() time.Time
}

// NewBlogService accepts nil for summarizer, indexer, imageStorage and
// limiter; the matching feature is then skipped.
func NewBlogService(
	repo blogRepo.BlogRepository,
	interactionRepo interactionRepo.InteractionRepository,
	summarizer *summarizer.Summarizer,
	indexer search.BlogIndexer,
	imageStorage storage.ImageStorage,
	limiter *ratelimiter.Limiter,
) BlogService {
	return &blogService{
		repo:            repo,
		interactionRepo: interactionRepo,
		summarizer:      summarizer,
		indexer:         indexer,
		imageStorage:    imageStorage,
		limiter:         limiter,
		now:             time.Now,
	}
}

func (s *blogService) List(ctx context.Context, filter blogDto.BlogFilter) (*commonDto.Paginated[blogDto.BlogResponse], error) {
	filter.Normalize(defaultPageSize)
	filter.PublishedOnly = true

	blogs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.listItems(ctx, blogs)
	if err != nil {
		return nil, err
	}

	return &commonDto.Paginated[blogDto.BlogResponse]{
		Items: items,
		Meta:  commonDto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *blogService) listItems(ctx context.Context, blogs []entity.Blog) ([]blogDto.BlogResponse, error) {
	ids := make([]uuid.UUID, 0, len(blogs))
	for _, b := range blogs {
		ids = append(ids, b.ID)
	}
	counts, err := s.repo.CountsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	return blogDto.ListItems(blogs, counts), nil
}

func (s *blogService) detail(ctx context.Context, viewer *commonDto.Actor, blog *entity.Blog) (*blogDto.BlogResponse, error) {
	counts, err := s.repo.CountsFor(ctx, []uuid.UUID{blog.ID})
	if err != nil {
		return nil, err
	}
	resp := blogDto.FromEntity(*blog, counts[blog.ID])

	if viewer != nil {
		liked, err := s.interactionRepo.HasLiked(ctx, viewer.ID, blog.ID)
		if err != nil {
			return nil, err
		}
		bookmarked, err := s.interactionRepo.HasBookmarked(ctx, viewer.ID, blog.ID)
		if err != nil {
			return nil, err
		}
		resp.IsLiked = &liked
		resp.IsBookmarked = &bookmarked
	}
	return &resp, nil
}

// visible hides drafts from everyone but their author and admins.
func visible(viewer *commonDto.Actor, blog *entity.Blog) bool {
	if blog.IsPublished {
		return true
	}
	return viewer != nil && viewer.CanManage(blog.AuthorID)
}

func (s *blogService) GetBySlug(ctx context.Context, viewer *commonDto.Actor, slug string) (*blogDto.BlogResponse, error) {
	blog, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !visible(viewer, blog) {
		return nil, fmt.Errorf("%w: blog not found", apperror.ErrNotFound)
	}

	if err := s.repo.IncrementViewCount(ctx, blog.ID); err != nil {
		return nil, err
	}
	blog.ViewCount++

	return s.detail(ctx, viewer, blog)
}

func (s *blogService) GetByID(ctx context.Context, viewer *commonDto.Actor, id uuid.UUID) (*blogDto.BlogResponse, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(viewer, blog) {
		return nil, fmt.Errorf("%w: blog not found", apperror.ErrNotFound)
	}
	return s.detail(ctx, viewer, blog)
}

// uniqueSlug appends the current unix milliseconds when the plain slug is
// taken by another blog.
func (s *blogService) uniqueSlug(ctx context.Context, title string, exclude *uuid.UUID) (string, error) {
	slug := Slugify(title)
	taken, err := s.repo.SlugExists(ctx, slug, exclude)
	if err != nil {
		return "", err
	}
	if !taken {
		return slug, nil
	}
	return fmt.Sprintf("%s-%d", slug, s.now().UnixMilli()), nil
}

func (s *blogService) Create(ctx context.Context, actor commonDto.Actor, req blogDto.CreateBlogRequest) (*blogDto.BlogResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", apperror.ErrInvalidInput)
	}

	release, err := s.limiter.Acquire(ctx, actor.ID, ratelimiter.ScopeBlog)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, title, nil)
	if err != nil {
		release()
		return nil, err
	}

	blog := &entity.Blog{
		Title:       title,
		Slug:        slug,
		Content:     content,
		Excerpt:     req.Excerpt,
		Summary:     s.summarizer.Summarize(ctx, content),
		CoverImage:  req.CoverImage,
		Tags:        normalizeTags(req.Tags),
		IsPublished: req.IsPublished,
		IsFeatured:  req.IsFeatured && actor.IsAdmin(),
		ReadTime:    ReadTime(content),
		AuthorID:    actor.ID,
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		release()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a blog with this slug already exists", apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	created, err := s.repo.FindByID(ctx, blog.ID)
	if err != nil {
		return nil, err
	}
	s.index(created)

	resp := blogDto.FromEntity(*created, blogDto.Counts{})
	return &resp, nil
}

func (s *blogService) manageable(ctx context.Context, actor commonDto.Actor, id uuid.UUID) (*entity.Blog, error) {
	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(blog.AuthorID) {
		return nil, fmt.Errorf("%w: you can only modify your own blogs", apperror.ErrForbidden)
	}
	return blog, nil
}

func (s *blogService) Update(ctx context.Context, actor commonDto.Actor, id uuid.UUID, req blogDto.UpdateBlogRequest) (*blogDto.BlogResponse, error) {
	blog, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperror.ErrInvalidInput)
		}
		if title != blog.Title {
			slug, err := s.uniqueSlug(ctx, title, &blog.ID)
			if err != nil {
				return nil, err
			}
			fields["title"] = title
			fields["slug"] = slug
		}
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", apperror.ErrInvalidInput)
		}
		fields["content"] = content
		fields["read_time"] = ReadTime(content)
		fields["summary"] = s.summarizer.Summarize(ctx, content)
	}
	if req.Excerpt != nil {
		fields["excerpt"] = *req.Excerpt
	}
	if req.CoverImage != nil {
		fields["cover_image"] = *req.CoverImage
	}
	if req.Tags != nil {
		fields["tags"] = blogRepo.TagsColumn(normalizeTags(*req.Tags))
	}
	if req.IsPublished != nil {
		fields["is_published"] = *req.IsPublished
	}
	if req.IsFeatured != nil && actor.IsAdmin() {
		fields["is_featured"] = *req.IsFeatured
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%w: a blog with this slug already exists", apperror.ErrConflict)
			}
			return nil, err
		}
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(updated)
	return s.detail(ctx, &actor, updated)
}

func (s *blogService) Delete(ctx context.Context, actor commonDto.Actor, id uuid.UUID) error {
	blog, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteBlog(id); err != nil {
			log.Warn().Err(err).Str("blog_id", id.String()).Msg("failed to remove blog from search index")
		}
	}
	if s.imageStorage != nil && blog.CoverImage != nil && *blog.CoverImage != "" {
		if err := s.imageStorage.DeleteImage(ctx, *blog.CoverImage); err != nil {
			log.Warn().Err(err).Str("blog_id", id.String()).Msg("failed to delete cover image")
		}
	}
	return nil
}

func (s *blogService) SetPublished(ctx context.Context, actor commonDto.Actor, id uuid.UUID, published bool) (*blogDto.BlogResponse, error) {
	if _, err := s.manageable(ctx, actor, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, id, map[string]any{"is_published": published}); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(updated)
	return s.detail(ctx, &actor, updated)
}

func (s *blogService) MyBlogs(ctx context.Context, actorID uuid.UUID, filter blogDto.MyBlogsFilter) ([]blogDto.BlogResponse, error) {
	status := filter.Status
	if status == "" {
		status = blogDto.StatusAll
	}

	blogs, err := s.repo.ListByAuthor(ctx, actorID, status)
	if err != nil {
		return nil, err
	}
	return s.listItems(ctx, blogs)
}

func (s *blogService) Summarize(ctx context.Context, content string) *blogDto.SummarizeResponse {
	return &blogDto.SummarizeResponse{Summary: s.summarizer.Summarize(ctx, content)}
}

// Search asks the search index first and falls back to a database scan when
// the index is not configured or fails.
func (s *blogService) Search(ctx context.Context, query string, limit int) ([]blogDto.BlogResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", apperror.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if s.indexer != nil {
		ids, err := s.indexer.SearchBlogIDs(query, limit)
		if err == nil {
			blogs, err := s.repo.ListByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			published := blogs[:0]
			for _, b := range blogs {
				if b.IsPublished {
					published = append(published, b)
				}
			}
			return s.listItems(ctx, published)
		}
		log.Warn().Err(err).Msg("search index unavailable, falling back to database")
	}

	filter := blogDto.BlogFilter{
		PageQuery:     commonDto.PageQuery{Page: 1, Limit: limit},
		Search:        query,
		PublishedOnly: true,
	}
	blogs, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.listItems(ctx, blogs)
}

func (s *blogService) index(blog *entity.Blog) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexBlog(blog); err != nil {
		log.Warn().Err(err).Str("blog_id", blog.ID.String()).Msg("failed to index blog")
	}
}

// normalizeTags trims, lowercases and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
