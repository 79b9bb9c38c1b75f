package feed

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	blogDto "github.com/kunal592/MD-BlogApp/internal/modules/blog/dto"
	blogRepo "github.com/kunal592/MD-BlogApp/internal/modules/blog/repository"
	interactionRepo "github.com/kunal592/MD-BlogApp/internal/modules/interaction/repository"
)

const TrendingLimit = 10

type FeedService interface {
	// GetFeed lists published blogs of the authors actorID follows, newest
	// first. limit <= 0 means no cap.
	GetFeed(ctx context.Context, actorID uuid.UUID, limit int) ([]blogDto.BlogResponse, error)
	GetTrending(ctx context.Context) ([]blogDto.BlogResponse, error)
	GetTags(ctx context.Context) ([]blogDto.TagCount, error)
}

type feedService struct {
	blogRepo        blogRepo.BlogRepository
	interactionRepo interactionRepo.InteractionRepository
}

func NewFeedService(blogRepo blogRepo.BlogRepository, interactionRepo interactionRepo.InteractionRepository) FeedService {
	return &feedService{
		blogRepo:        blogRepo,
		interactionRepo: interactionRepo,
	}
}

func (s *feedService) withCounts(ctx context.Context, blogs []entity.Blog) ([]blogDto.BlogResponse, error) {
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

func (s *feedService) GetFeed(ctx context.Context, actorID uuid.UUID, limit int) ([]blogDto.BlogResponse, error) {
	following, err := s.interactionRepo.FollowingIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []blogDto.BlogResponse{}, nil
	}

	blogs, err := s.blogRepo.ListPublishedByAuthors(ctx, following, limit)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, blogs)
}

func (s *feedService) GetTrending(ctx context.Context) ([]blogDto.BlogResponse, error) {
	blogs, err := s.blogRepo.Trending(ctx, TrendingLimit)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, blogs)
}

func (s *feedService) GetTags(ctx context.Context) ([]blogDto.TagCount, error) {
	sets, err := s.blogRepo.PublishedTagSets(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(sets), nil
}

// CountTags counts each tag once per blog. Ties are broken alphabetically
// so the order is stable across calls.
func CountTags(sets [][]string) []blogDto.TagCount {
	freq := make(map[string]int)
	for _, tags := range sets {
		seen := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			freq[tag]++
		}
	}

	out := make([]blogDto.TagCount, 0, len(freq))
	for tag, count := range freq {
		out = append(out, blogDto.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
