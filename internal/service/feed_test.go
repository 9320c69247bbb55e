package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"devnest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePosts(ids ...uint) []*models.Post {
	posts := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, &models.Post{ID: id})
	}
	return posts
}

func idsOf(posts []*models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

// seededFeed pins the shuffle source so the composed order is deterministic.
func seededFeed(t *testing.T, postRepo *postRepoStub, userRepo *userRepoStub, ratio float64, seed uint64) *FeedService {
	t.Helper()
	svc, err := NewFeedService(postRepo, userRepo, ratio)
	require.NoError(t, err)
	svc.newRand = func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed))
	}
	return svc
}

func TestNewFeedService_RejectsRatioOutsideUnitInterval(t *testing.T) {
	t.Parallel()

	for _, ratio := range []float64{-0.1, 1.1, 2} {
		_, err := NewFeedService(noopPostRepo(), noopUserRepo(), ratio)
		assert.Error(t, err, "ratio %v", ratio)
	}
	for _, ratio := range []float64{0, 0.7, 1} {
		_, err := NewFeedService(noopPostRepo(), noopUserRepo(), ratio)
		assert.NoError(t, err, "ratio %v", ratio)
	}
}

func TestPopularFetchLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		social int
		want   int
	}{
		{social: 0, want: 10},
		{social: 7, want: 10},
		{social: 23, want: 10},
		{social: 24, want: 10},
		{social: 28, want: 12},
		{social: 70, want: 30},
		{social: 100, want: 42},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, popularFetchLimit(tt.social), "social=%d", tt.social)
	}
}

func TestSplitCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		social, popular    int
		ratio              float64
		wantSoc, wantPop   int
	}{
		{name: "default ratio", social: 10, popular: 20, ratio: 0.7, wantSoc: 21, wantPop: 9},
		{name: "ratio zero", social: 7, popular: 10, ratio: 0, wantSoc: 0, wantPop: 17},
		{name: "ratio one", social: 7, popular: 10, ratio: 1, wantSoc: 17, wantPop: 0},
		{name: "empty", social: 0, popular: 0, ratio: 0.7, wantSoc: 0, wantPop: 0},
		{name: "floor", social: 3, popular: 2, ratio: 0.5, wantSoc: 2, wantPop: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			soc, pop := splitCounts(tt.social, tt.popular, tt.ratio)
			assert.Equal(t, tt.wantSoc, soc)
			assert.Equal(t, tt.wantPop, pop)
			assert.Equal(t, tt.social+tt.popular, soc+pop)
		})
	}
}

func TestComposeFeed_BlendsAndTruncates(t *testing.T) {
	t.Parallel()

	// 10 social, 20 popular, ratio 0.7: the split asks for 21 social and 9
	// popular, social truncates to the 10 available, so 19 posts come back.
	social := makePosts(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	popular := makePosts(11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30)

	postRepo := noopPostRepo()
	postRepo.listByAuthorsFn = func(_ context.Context, authorIDs []uint, _ uint) ([]*models.Post, error) {
		assert.Equal(t, []uint{4, 5}, authorIDs)
		return social, nil
	}
	postRepo.listPopularFn = func(_ context.Context, excludeIDs []uint, limit int, _ uint) ([]*models.Post, error) {
		assert.Equal(t, idsOf(social), excludeIDs)
		assert.Equal(t, 10, limit)
		return popular, nil
	}
	userRepo := noopUserRepo()
	userRepo.followingIDsFn = func(_ context.Context, userID uint) ([]uint, error) {
		assert.Equal(t, uint(42), userID)
		return []uint{4, 5}, nil
	}

	svc := seededFeed(t, postRepo, userRepo, 0.7, 1)
	feed, err := svc.ComposeFeed(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, feed, 19)

	assert.ElementsMatch(t,
		[]uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
		idsOf(feed))
}

func TestComposeFeed_NoDuplicateIDs(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.listByAuthorsFn = func(_ context.Context, _ []uint, _ uint) ([]*models.Post, error) {
		return makePosts(1, 2, 3), nil
	}
	postRepo.listPopularFn = func(_ context.Context, excludeIDs []uint, _ int, _ uint) ([]*models.Post, error) {
		// The store honors the exclusion; the composed feed relies on it.
		assert.Equal(t, []uint{1, 2, 3}, excludeIDs)
		return makePosts(4, 5), nil
	}
	userRepo := noopUserRepo()
	userRepo.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{9}, nil
	}

	svc := seededFeed(t, postRepo, userRepo, 0.7, 2)
	feed, err := svc.ComposeFeed(context.Background(), 1)
	require.NoError(t, err)

	seen := make(map[uint]bool)
	for _, p := range feed {
		assert.False(t, seen[p.ID], "post %d appears twice", p.ID)
		seen[p.ID] = true
	}
}

func TestComposeFeed_InterleaveIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	build := func() *FeedService {
		postRepo := noopPostRepo()
		postRepo.listByAuthorsFn = func(_ context.Context, _ []uint, _ uint) ([]*models.Post, error) {
			return makePosts(1, 2, 3, 4, 5, 6, 7), nil
		}
		postRepo.listPopularFn = func(_ context.Context, _ []uint, _ int, _ uint) ([]*models.Post, error) {
			return makePosts(8, 9, 10), nil
		}
		userRepo := noopUserRepo()
		userRepo.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
			return []uint{2}, nil
		}
		return seededFeed(t, postRepo, userRepo, 0.7, 7)
	}

	first, err := build().ComposeFeed(context.Background(), 1)
	require.NoError(t, err)
	second, err := build().ComposeFeed(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, idsOf(first), idsOf(second))
	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, idsOf(first))
}

func TestComposeFeed_RatioZeroYieldsOnlyPopular(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.listByAuthorsFn = func(_ context.Context, _ []uint, _ uint) ([]*models.Post, error) {
		return makePosts(1, 2, 3, 4, 5, 6, 7), nil
	}
	postRepo.listPopularFn = func(_ context.Context, _ []uint, _ int, _ uint) ([]*models.Post, error) {
		return makePosts(11, 12, 13, 14, 15, 16, 17, 18, 19, 20), nil
	}
	userRepo := noopUserRepo()
	userRepo.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{2, 3}, nil
	}

	svc := seededFeed(t, postRepo, userRepo, 0, 3)
	feed, err := svc.ComposeFeed(context.Background(), 1)
	require.NoError(t, err)

	// With ratio 0 every slot goes to popularity-ranked posts; followed
	// authors never appear even though their posts were fetched.
	require.Len(t, feed, 10)
	for _, p := range feed {
		assert.GreaterOrEqual(t, p.ID, uint(11))
	}
}

func TestComposeFeed_AnonymousViewerSkipsFollowLookup(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		t.Fatal("FollowingIDs must not be called for anonymous viewers")
		return nil, nil
	}
	postRepo := noopPostRepo()
	postRepo.listPopularFn = func(_ context.Context, excludeIDs []uint, limit int, viewerID uint) ([]*models.Post, error) {
		assert.Empty(t, excludeIDs)
		assert.Equal(t, 10, limit)
		assert.Equal(t, uint(0), viewerID)
		return makePosts(1, 2), nil
	}

	svc := seededFeed(t, postRepo, userRepo, 0.7, 4)
	feed, err := svc.ComposeFeed(context.Background(), 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, idsOf(feed))
}

func TestComposeFeed_ViewerWithNoFollowsGetsPopularOnly(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	postRepo := noopPostRepo()
	postRepo.listByAuthorsFn = func(_ context.Context, authorIDs []uint, _ uint) ([]*models.Post, error) {
		assert.Empty(t, authorIDs)
		return nil, nil
	}
	postRepo.listPopularFn = func(_ context.Context, _ []uint, limit int, _ uint) ([]*models.Post, error) {
		assert.Equal(t, 10, limit)
		return makePosts(5, 6, 7), nil
	}

	svc := seededFeed(t, postRepo, userRepo, 0.7, 5)
	feed, err := svc.ComposeFeed(context.Background(), 9)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{5, 6, 7}, idsOf(feed))
}

func TestComposeFeed_PropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("store down")

	t.Run("following lookup", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
			return nil, boom
		}
		svc := seededFeed(t, noopPostRepo(), userRepo, 0.7, 1)
		_, err := svc.ComposeFeed(context.Background(), 1)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("social fetch", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.listByAuthorsFn = func(_ context.Context, _ []uint, _ uint) ([]*models.Post, error) {
			return nil, boom
		}
		userRepo := noopUserRepo()
		userRepo.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
			return []uint{2}, nil
		}
		svc := seededFeed(t, postRepo, userRepo, 0.7, 1)
		_, err := svc.ComposeFeed(context.Background(), 1)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("popular fetch", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.listPopularFn = func(_ context.Context, _ []uint, _ int, _ uint) ([]*models.Post, error) {
			return nil, boom
		}
		svc := seededFeed(t, postRepo, noopUserRepo(), 0.7, 1)
		_, err := svc.ComposeFeed(context.Background(), 0)
		assert.ErrorIs(t, err, boom)
	})
}

func TestInterleave_PermutationOnly(t *testing.T) {
	t.Parallel()

	svc := seededFeed(t, noopPostRepo(), noopUserRepo(), 0.7, 11)

	posts := makePosts(1, 2, 3, 4, 5, 6, 7, 8)
	svc.interleave(posts)

	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5, 6, 7, 8}, idsOf(posts))
}

func TestInterleave_HandlesTinySlices(t *testing.T) {
	t.Parallel()

	svc := seededFeed(t, noopPostRepo(), noopUserRepo(), 0.7, 11)

	svc.interleave(nil)
	one := makePosts(1)
	svc.interleave(one)
	assert.Equal(t, []uint{1}, idsOf(one))
}
