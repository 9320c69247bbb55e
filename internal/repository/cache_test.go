package repository

import (
	"context"
	"testing"

	"devnest/internal/cache"
	"devnest/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCachedMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock := setupMockDB(t)
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return db, mock, mr
}

// expandedPostQueries registers the post query and its expansion queries.
// Preload order is an implementation detail, so matching is unordered.
func expandedPostQueries(mock sqlmock.Sqlmock, id uint, content string) {
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT posts\.\*.*false as liked FROM "posts" WHERE "posts"\."id" =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "type", "likes_count", "liked"}).
			AddRow(id, 4, content, "general", 0, false))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(4, "ada"))
	mock.ExpectQuery(`SELECT .* FROM "post_categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "name"}))
	mock.ExpectQuery(`SELECT .* FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content"}))
}

func TestPostRepository_GetByID_AnonymousServedFromCache(t *testing.T) {
	db, mock, mr := setupCachedMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	expandedPostQueries(mock, 7, "hello")

	first, err := repo.GetByID(ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Content)
	assert.True(t, mr.Exists(cache.PostKey(7)))

	// No further expectations: the second anonymous read must not hit the store.
	second, err := repo.GetByID(ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(7), second.ID)
	assert.Equal(t, "hello", second.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_ViewerBypassesCache(t *testing.T) {
	db, mock, _ := setupCachedMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, cache.PostKey(7), models.Post{ID: 7, Content: "stale"}, cache.PostTTL))

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT posts\.\*.*EXISTS\(SELECT 1 FROM likes WHERE likes\.post_id = posts\.id AND likes\.user_id = .*\) as liked FROM "posts" WHERE "posts"\."id" =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "type", "likes_count", "liked"}).
			AddRow(7, 4, "fresh", "general", 2, true))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(4, "ada"))
	mock.ExpectQuery(`SELECT .* FROM "post_categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "name"}))
	mock.ExpectQuery(`SELECT .* FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content"}))

	post, err := repo.GetByID(ctx, 7, 42)
	require.NoError(t, err)
	assert.Equal(t, "fresh", post.Content)
	assert.True(t, post.Liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Like_InvalidatesCachedPost(t *testing.T) {
	db, mock, mr := setupCachedMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, cache.PostKey(5), models.Post{ID: 5}, cache.PostTTL))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "likes" .*ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Like(ctx, 1, 5))
	assert.False(t, mr.Exists(cache.PostKey(5)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FollowingIDs_CachedBetweenCalls(t *testing.T) {
	db, mock, mr := setupCachedMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"followee_id"}).AddRow(2).AddRow(5)
	mock.ExpectQuery(`SELECT "followee_id" FROM "follows" WHERE follower_id =`).
		WithArgs(1).
		WillReturnRows(rows)

	first, err := repo.FollowingIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 5}, first)
	assert.True(t, mr.Exists(cache.FollowingIDsKey(1)))

	second, err := repo.FollowingIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 5}, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Unfollow_InvalidatesFollowingCache(t *testing.T) {
	db, mock, mr := setupCachedMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, cache.FollowingIDsKey(1), []uint{2}, cache.FollowingTTL))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "follows" WHERE follower_id = .* AND followee_id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Unfollow(ctx, 1, 2))
	assert.False(t, mr.Exists(cache.FollowingIDsKey(1)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
