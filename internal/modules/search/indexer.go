package search

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/internal/entity"
)

const BlogIndex = "blogs"

// BlogIndexer keeps the published blogs searchable. Drafts are never indexed.
type BlogIndexer interface {
	IndexBlog(blog *entity.Blog) error
	DeleteBlog(id uuid.UUID) error
	SearchBlogIDs(query string, limit int) ([]uuid.UUID, error)
	Reindex(blogs []entity.Blog) (int, error)
}

type blogDoc struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	AuthorID   string   `json:"author_id"`
	AuthorName string   `json:"author_name"`
	ViewCount  int64    `json:"view_count"`
	CreatedAt  int64    `json:"created_at"`
}

type meiliIndexer struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliIndexer(client meilisearch.ServiceManager) BlogIndexer {
	s := &meiliIndexer{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *meiliIndexer) initIndex() {
	filterable := []any{"tags", "author_id"}
	if _, err := s.client.Index(BlogIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Warn().Err(err).Msg("failed to update blog filterable attributes")
	}

	sortable := []string{"created_at", "view_count"}
	if _, err := s.client.Index(BlogIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Warn().Err(err).Msg("failed to update blog sortable attributes")
	}

	log.Info().Str("index", BlogIndex).Msg("meilisearch index initialized")
}

// CleanText strips markup so rendered HTML never reaches the index.
func CleanText(policy *bluemonday.Policy, content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	clean := html.UnescapeString(policy.Sanitize(content))
	return strings.Join(strings.Fields(clean), " ")
}

func toDoc(policy *bluemonday.Policy, b *entity.Blog) blogDoc {
	doc := blogDoc{
		ID:        b.ID.String(),
		Title:     b.Title,
		Slug:      b.Slug,
		Content:   CleanText(policy, b.Content),
		Tags:      b.Tags,
		AuthorID:  b.AuthorID.String(),
		ViewCount: b.ViewCount,
		CreatedAt: b.CreatedAt.Unix(),
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if b.Excerpt != nil {
		doc.Excerpt = CleanText(policy, *b.Excerpt)
	}
	if b.Author != nil {
		doc.AuthorName = b.Author.Name
	}
	return doc
}

func (s *meiliIndexer) IndexBlog(blog *entity.Blog) error {
	if !blog.IsPublished {
		return s.DeleteBlog(blog.ID)
	}

	task, err := s.client.Index(BlogIndex).AddDocuments([]blogDoc{toDoc(s.sanitizer, blog)}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Debug().Str("blog_id", blog.ID.String()).Int64("task_uid", task.TaskUID).Msg("blog indexed")
	return nil
}

func (s *meiliIndexer) DeleteBlog(id uuid.UUID) error {
	_, err := s.client.Index(BlogIndex).DeleteDocument(id.String())
	return err
}

func (s *meiliIndexer) SearchBlogIDs(query string, limit int) ([]uuid.UUID, error) {
	raw, err := s.client.Index(BlogIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Reindex replaces the whole index with the given blogs.
func (s *meiliIndexer) Reindex(blogs []entity.Blog) (int, error) {
	index := s.client.Index(BlogIndex)
	if _, err := index.DeleteAllDocuments(); err != nil {
		return 0, err
	}

	docs := make([]blogDoc, 0, len(blogs))
	for i := range blogs {
		if blogs[i].IsPublished {
			docs = append(docs, toDoc(s.sanitizer, &blogs[i]))
		}
	}
	if len(docs) == 0 {
		return 0, nil
	}

	if _, err := index.AddDocuments(docs, strPtr("id")); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func strPtr(s string) *string {
	return &s
}
