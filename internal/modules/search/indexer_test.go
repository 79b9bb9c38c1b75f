package search

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"

	"github.com/kunal592/MD-BlogApp/internal/entity"
)

func TestCleanText(t *testing.T) {
	policy := bluemonday.StrictPolicy()

	assert.Equal(t, "one two", CleanText(policy, "<p>one</p><p>two</p>"))
	assert.Equal(t, "Tom & Jerry", CleanText(policy, "Tom &amp; <b>Jerry</b>"))
	assert.Equal(t, "# Title some text", CleanText(policy, "# Title\n\n  some   text"))
}

func TestToDoc(t *testing.T) {
	excerpt := "<em>short</em>"
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	blog := &entity.Blog{
		ID:        uuid.New(),
		Title:     "Hello",
		Slug:      "hello",
		Content:   "<p>body</p>",
		Excerpt:   &excerpt,
		AuthorID:  uuid.New(),
		Author:    &entity.User{Name: "bob"},
		ViewCount: 7,
		CreatedAt: created,
	}

	doc := toDoc(bluemonday.StrictPolicy(), blog)
	assert.Equal(t, blog.ID.String(), doc.ID)
	assert.Equal(t, "body", doc.Content)
	assert.Equal(t, "short", doc.Excerpt)
	assert.Equal(t, "bob", doc.AuthorName)
	assert.Equal(t, []string{}, doc.Tags)
	assert.Equal(t, created.Unix(), doc.CreatedAt)
	assert.EqualValues(t, 7, doc.ViewCount)
}
