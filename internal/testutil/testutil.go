// Package testutil provides sqlite-backed databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kunal592/MD-BlogApp/internal/bootstrap"
	"github.com/kunal592/MD-BlogApp/internal/entity"
	"github.com/kunal592/MD-BlogApp/pkg/database"
)

// NewTestDB returns an isolated in-memory database with every table migrated.
// A single connection is used, so code under test must run transactional
// work through the transaction handle only.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.Config())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.Migrate(db))
	return db
}

func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func CreateUser(t *testing.T, db *gorm.DB, name string) *entity.User {
	t.Helper()
	return createUser(t, db, name, entity.RoleUser)
}

func CreateAdmin(t *testing.T, db *gorm.DB, name string) *entity.User {
	t.Helper()
	return createUser(t, db, name, entity.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, name, role string) *entity.User {
	user := &entity.User{
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Name:     name,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

type BlogOption func(*entity.Blog)

func Draft() BlogOption {
	return func(b *entity.Blog) { b.IsPublished = false }
}

func WithTags(tags ...string) BlogOption {
	return func(b *entity.Blog) { b.Tags = tags }
}

func WithViews(n int64) BlogOption {
	return func(b *entity.Blog) { b.ViewCount = n }
}

func CreatedAt(ts time.Time) BlogOption {
	return func(b *entity.Blog) { b.CreatedAt = ts }
}

// CreateBlog stores a published blog unless Draft() is passed.
func CreateBlog(t *testing.T, db *gorm.DB, author *entity.User, title string, opts ...BlogOption) *entity.Blog {
	t.Helper()

	blog := &entity.Blog{
		Title:       title,
		Slug:        fmt.Sprintf("%s-%s", uuid.NewString()[:8], "post"),
		Content:     "# " + title,
		IsPublished: true,
		ReadTime:    1,
		AuthorID:    author.ID,
	}
	for _, opt := range opts {
		opt(blog)
	}
	require.NoError(t, db.Create(blog).Error)
	return blog
}

func CreateComment(t *testing.T, db *gorm.DB, author *entity.User, blog *entity.Blog, parentID *uuid.UUID) *entity.Comment {
	t.Helper()

	comment := &entity.Comment{
		Content:  "nice post",
		BlogID:   blog.ID,
		UserID:   author.ID,
		ParentID: parentID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
