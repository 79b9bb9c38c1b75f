package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
)

type BlogRepository interface {
	Create(ctx context.Context, blog *entity.Blog) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Blog, error)
	SlugExists(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, filter blogDto.BlogFilter) ([]entity.Blog, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, status string) ([]entity.Blog, error)
	ListPublishedByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]entity.Blog, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Blog, error)
	ListAllPublished(ctx context.Context) ([]entity.Blog, error)
	Trending(ctx context.Context, limit int) ([]entity.Blog, error)
	Recent(ctx context.Context, limit int) ([]entity.Blog, error)
	PublishedTagSets(ctx context.Context) ([][]string, error)

	CountsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]blogDto.Counts, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
	SumViews(ctx context.Context, authorID *uuid.UUID) (int64, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID, publishedOnly bool) (int64, error)
	CountLikesReceived(ctx context.Context, authorID uuid.UUID) (int64, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: blog not found", apperror.ErrNotFound)
	}
	return err
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "avatar")
	})
}

func (r *blogRepository) Create(ctx context.Context, blog *entity.Blog) error {
	return r.db.WithContext(ctx).Omit("Author").Create(blog).Error
}

func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Blog, error) {
	var blog entity.Blog
	if err := withAuthor(r.db.WithContext(ctx)).Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, notFound(err)
	}
	return &blog, nil
}

func (r *blogRepository) FindBySlug(ctx context.Context, slug string) (*entity.Blog, error) {
	var blog entity.Blog
	if err := withAuthor(r.db.WithContext(ctx)).Where("slug = ?", slug).First(&blog).Error; err != nil {
		return nil, notFound(err)
	}
	return &blog, nil
}

func (r *blogRepository) SlugExists(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Blog{}).Where("slug = ?", slug)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *blogRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entity.Blog{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: blog not found", apperror.ErrNotFound)
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Blog{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: blog not found", apperror.ErrNotFound)
	}
	return nil
}

// IncrementViewCount is a single atomic UPDATE so concurrent reads never lose a view.
func (r *blogRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Blog{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

var sortColumns = map[string]string{
	blogDto.SortCreatedAt: "created_at",
	blogDto.SortUpdatedAt: "updated_at",
	blogDto.SortViewCount: "view_count",
	blogDto.SortTitle:     "title",
}

func (r *blogRepository) List(ctx context.Context, filter blogDto.BlogFilter) ([]entity.Blog, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Blog{})

	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	} else if filter.Published != nil {
		query = query.Where("is_published = ?", *filter.Published)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(COALESCE(excerpt, '')) LIKE ?", like, like, like)
	}
	if tag := strings.ToLower(strings.TrimSpace(filter.Tag)); tag != "" {
		// tags are stored lowercased as a JSON array of strings
		query = query.Where(`tags LIKE ? ESCAPE '\'`, "%"+escapeLike(jsonQuoted(tag))+"%")
	}
	if filter.Author != "" {
		query = query.Where("author_id = ?", filter.Author)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "desc"
	if filter.SortOrder == "asc" {
		order = "asc"
	}

	var blogs []entity.Blog
	err := withAuthor(query).
		Order(fmt.Sprintf("%s %s", column, order)).
		Order("id desc").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&blogs).Error
	return blogs, total, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func jsonQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func (r *blogRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, status string) ([]entity.Blog, error) {
	query := withAuthor(r.db.WithContext(ctx)).Where("author_id = ?", authorID)
	switch status {
	case blogDto.StatusPublished:
		query = query.Where("is_published = ?", true)
	case blogDto.StatusDraft:
		query = query.Where("is_published = ?", false)
	}

	var blogs []entity.Blog
	err := query.Order("created_at desc").Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) ListPublishedByAuthors(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]entity.Blog, error) {
	if len(authorIDs) == 0 {
		return []entity.Blog{}, nil
	}

	query := withAuthor(r.db.WithContext(ctx)).
		Where("author_id IN ? AND is_published = ?", authorIDs, true).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var blogs []entity.Blog
	err := query.Find(&blogs).Error
	return blogs, err
}

// ListByIDs keeps the order of ids.
func (r *blogRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Blog, error) {
	if len(ids) == 0 {
		return []entity.Blog{}, nil
	}

	var blogs []entity.Blog
	if err := withAuthor(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&blogs).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]entity.Blog, len(blogs))
	for _, b := range blogs {
		byID[b.ID] = b
	}
	ordered := make([]entity.Blog, 0, len(blogs))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

func (r *blogRepository) ListAllPublished(ctx context.Context) ([]entity.Blog, error) {
	var blogs []entity.Blog
	err := withAuthor(r.db.WithContext(ctx)).
		Where("is_published = ?", true).
		Order("created_at desc").
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) Trending(ctx context.Context, limit int) ([]entity.Blog, error) {
	var blogs []entity.Blog
	err := withAuthor(r.db.WithContext(ctx)).
		Where("is_published = ?", true).
		Order("view_count desc").
		Order("created_at desc").
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) Recent(ctx context.Context, limit int) ([]entity.Blog, error) {
	var blogs []entity.Blog
	err := withAuthor(r.db.WithContext(ctx)).Order("created_at desc").Limit(limit).Find(&blogs).Error
	return blogs, err
}

func (r *blogRepository) PublishedTagSets(ctx context.Context) ([][]string, error) {
	var blogs []entity.Blog
	if err := r.db.WithContext(ctx).
		Select("id", "tags").
		Where("is_published = ?", true).
		Find(&blogs).Error; err != nil {
		return nil, err
	}

	sets := make([][]string, 0, len(blogs))
	for _, b := range blogs {
		sets = append(sets, b.Tags)
	}
	return sets, nil
}

type countRow struct {
	BlogID uuid.UUID
	Total  int64
}

func (r *blogRepository) countBy(ctx context.Context, table string, ids []uuid.UUID) ([]countRow, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Table(table).
		Select("blog_id, COUNT(*) AS total").
		Where("blog_id IN ?", ids).
		Group("blog_id").
		Scan(&rows).Error
	return rows, err
}

// CountsFor computes like, bookmark and comment totals for a page of blogs
// in three grouped queries.
func (r *blogRepository) CountsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]blogDto.Counts, error) {
	counts := make(map[uuid.UUID]blogDto.Counts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	apply := func(table string, set func(*blogDto.Counts, int64)) error {
		rows, err := r.countBy(ctx, table, ids)
		if err != nil {
			return err
		}
		for _, row := range rows {
			c := counts[row.BlogID]
			set(&c, row.Total)
			counts[row.BlogID] = c
		}
		return nil
	}

	if err := apply("likes", func(c *blogDto.Counts, n int64) { c.Likes = n }); err != nil {
		return nil, err
	}
	if err := apply("bookmarks", func(c *blogDto.Counts, n int64) { c.Bookmarks = n }); err != nil {
		return nil, err
	}
	if err := apply("comments", func(c *blogDto.Counts, n int64) { c.Comments = n }); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *blogRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Blog{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *blogRepository) SumViews(ctx context.Context, authorID *uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Blog{})
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}
	var total int64
	err := query.Select("COALESCE(SUM(view_count), 0)").Scan(&total).Error
	return total, err
}

func (r *blogRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID, publishedOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Blog{}).Where("author_id = ?", authorID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *blogRepository) CountLikesReceived(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Joins("JOIN blogs ON blogs.id = likes.blog_id").
		Where("blogs.author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
