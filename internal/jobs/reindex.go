package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	"github.com/kunal592/MD-BlogApp/internal/modules/search"
)

const ReindexJobName = "search-reindex"

// ReindexJob rebuilds the search index from every published blog.
type ReindexJob struct {
	blogs    blogRepo.BlogRepository
	indexer  search.BlogIndexer
	schedule string
}

func NewReindexJob(blogs blogRepo.BlogRepository, indexer search.BlogIndexer, schedule string) *ReindexJob {
	return &ReindexJob{blogs: blogs, indexer: indexer, schedule: schedule}
}

func (j *ReindexJob) Name() string     { return ReindexJobName }
func (j *ReindexJob) Schedule() string { return j.schedule }

func (j *ReindexJob) Run(ctx context.Context) error {
	blogs, err := j.blogs.ListAllPublished(ctx)
	if err != nil {
		return fmt.Errorf("load published blogs: %w", err)
	}

	indexed, err := j.indexer.Reindex(blogs)
	if err != nil {
		return fmt.Errorf("reindex blogs: %w", err)
	}

	log.Info().Int("documents", indexed).Msg("search index rebuilt")
	return nil
}
