// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"devnest/internal/models"
	"devnest/internal/repository"
)

// popularFetchFloor is the minimum number of popularity-ranked candidates
// fetched regardless of how few followed-author posts exist.
const popularFetchFloor = 10

// FeedService composes the personalized feed: posts by followed accounts
// blended with popularity-ranked posts, deduplicated and randomly interleaved.
type FeedService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository

	// socialRatio is the fraction of the composed feed drawn from followed
	// accounts. Validated once at construction; see config.FeedSocialRatio.
	socialRatio float64

	// newRand yields the call-scoped random source for interleaving. Each call
	// gets its own source, so repeated feeds are independent. Tests replace
	// this with a seeded source to pin the permutation.
	newRand func() *rand.Rand
}

// NewFeedService builds a FeedService. A ratio outside [0,1] is a programming
// error and is rejected here, never at compose time.
func NewFeedService(postRepo repository.PostRepository, userRepo repository.UserRepository, socialRatio float64) (*FeedService, error) {
	if socialRatio < 0 || socialRatio > 1 {
		return nil, fmt.Errorf("feed social ratio must be in [0,1], got %v", socialRatio)
	}
	return &FeedService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		socialRatio: socialRatio,
		newRand: func() *rand.Rand {
			now := uint64(time.Now().UnixNano())
			return rand.New(rand.NewPCG(now, now>>17))
		},
	}, nil
}

// ComposeFeed returns the blended feed for the given viewer. viewerID == 0
// means anonymous; a viewer with no stored account degrades to anonymous
// rather than failing. Each post id appears at most once: the popularity
// query excludes ids already selected as social candidates.
//
// The two candidate fetches are independent reads, not one snapshot: a post
// created between them may be missing from this one response. Ordering is
// randomized per call, so identical inputs do not produce identical output.
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var followingIDs []uint
	if viewerID != 0 {
		ids, err := s.userRepo.FollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		followingIDs = ids
	}

	social, err := s.postRepo.ListByAuthors(ctx, followingIDs, viewerID)
	if err != nil {
		return nil, err
	}

	popular, err := s.postRepo.ListPopular(ctx, postIDs(social), popularFetchLimit(len(social)), viewerID)
	if err != nil {
		return nil, err
	}

	numSocial, numPopular := splitCounts(len(social), len(popular), s.socialRatio)

	blended := make([]*models.Post, 0, len(social)+len(popular))
	blended = append(blended, social[:min(numSocial, len(social))]...)
	blended = append(blended, popular[:min(numPopular, len(popular))]...)

	s.interleave(blended)
	return blended, nil
}

// popularFetchLimit computes how many popularity-ranked candidates to fetch
// for a given number of social candidates: 3/7 of the social count, with a
// floor so sparse follow graphs still get a feed.
func popularFetchLimit(socialCount int) int {
	limit := socialCount * 3 / 7
	if limit < popularFetchFloor {
		return popularFetchFloor
	}
	return limit
}

// splitCounts proportions the final feed between the two candidate sets:
// numSocial = floor(total*ratio), numPopular = the remainder. Callers truncate
// each list to its count, never beyond what is available.
func splitCounts(socialCount, popularCount int, ratio float64) (numSocial, numPopular int) {
	total := socialCount + popularCount
	numSocial = int(math.Floor(float64(total) * ratio))
	numPopular = total - numSocial
	return numSocial, numPopular
}

// interleave applies a single-pass Fisher-Yates shuffle: every permutation of
// the input is equally likely, and no element is added, dropped or duplicated.
func (s *FeedService) interleave(posts []*models.Post) {
	rng := s.newRand()
	for i := len(posts) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		posts[i], posts[j] = posts[j], posts[i]
	}
}

func postIDs(posts []*models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
