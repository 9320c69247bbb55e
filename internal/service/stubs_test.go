package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"devnest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn             func(context.Context, *models.Post) error
	getByIDFn            func(context.Context, uint, uint) (*models.Post, error)
	listByUserFn         func(context.Context, uint, uint) ([]*models.Post, error)
	listByAuthorsFn      func(context.Context, []uint, uint) ([]*models.Post, error)
	listPopularFn        func(context.Context, []uint, int, uint) ([]*models.Post, error)
	searchByCategoriesFn func(context.Context, []string, uint) ([]*models.Post, error)
	searchByTypeFn       func(context.Context, string, uint) ([]*models.Post, error)
	updateFn             func(context.Context, *models.Post) error
	deleteFn             func(context.Context, uint) error
	isLikedFn            func(context.Context, uint, uint) (bool, error)
	likeFn               func(context.Context, uint, uint) error
	unlikeFn             func(context.Context, uint, uint) error
	hasReportFn          func(context.Context, uint, uint) (bool, error)
	addReportFn          func(context.Context, *models.PostReport) error
	listReportedFn       func(context.Context, int) ([]*models.Post, error)
	countFn              func(context.Context) (int64, error)
	countCreatedByDayFn  func(context.Context, time.Time) ([]models.DayCount, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID, viewerID uint) ([]*models.Post, error) {
	return s.listByUserFn(ctx, userID, viewerID)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint, viewerID uint) ([]*models.Post, error) {
	return s.listByAuthorsFn(ctx, authorIDs, viewerID)
}
func (s *postRepoStub) ListPopular(ctx context.Context, excludeIDs []uint, limit int, viewerID uint) ([]*models.Post, error) {
	return s.listPopularFn(ctx, excludeIDs, limit, viewerID)
}
func (s *postRepoStub) SearchByCategories(ctx context.Context, names []string, viewerID uint) ([]*models.Post, error) {
	return s.searchByCategoriesFn(ctx, names, viewerID)
}
func (s *postRepoStub) SearchByType(ctx context.Context, postType string, viewerID uint) ([]*models.Post, error) {
	return s.searchByTypeFn(ctx, postType, viewerID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) HasReport(ctx context.Context, postID, userID uint) (bool, error) {
	return s.hasReportFn(ctx, postID, userID)
}
func (s *postRepoStub) AddReport(ctx context.Context, report *models.PostReport) error {
	return s.addReportFn(ctx, report)
}
func (s *postRepoStub) ListReported(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listReportedFn(ctx, limit)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCount, error) {
	return s.countCreatedByDayFn(ctx, since)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:             func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:            func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listByUserFn:         func(_ context.Context, _, _ uint) ([]*models.Post, error) { return nil, nil },
		listByAuthorsFn:      func(_ context.Context, _ []uint, _ uint) ([]*models.Post, error) { return nil, nil },
		listPopularFn:        func(_ context.Context, _ []uint, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		searchByCategoriesFn: func(_ context.Context, _ []string, _ uint) ([]*models.Post, error) { return nil, nil },
		searchByTypeFn:       func(_ context.Context, _ string, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:             func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		isLikedFn:            func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:               func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:             func(_ context.Context, _, _ uint) error { return nil },
		hasReportFn:          func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		addReportFn:          func(_ context.Context, _ *models.PostReport) error { return nil },
		listReportedFn:       func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		countFn:              func(_ context.Context) (int64, error) { return 0, nil },
		countCreatedByDayFn:  func(_ context.Context, _ time.Time) ([]models.DayCount, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByExternalIDFn   func(context.Context, string) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	updateFn            func(context.Context, *models.User) error
	searchFn            func(context.Context, string, int) ([]models.User, error)
	directoryFn         func(context.Context, int) ([]models.UserDirectoryEntry, error)
	countFn             func(context.Context) (int64, error)
	countCreatedByDayFn func(context.Context, time.Time) ([]models.DayCount, error)
	followingIDsFn      func(context.Context, uint) ([]uint, error)
	isFollowingFn       func(context.Context, uint, uint) (bool, error)
	followFn            func(context.Context, uint, uint) error
	unfollowFn          func(context.Context, uint, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.getByExternalIDFn(ctx, externalID)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *userRepoStub) Directory(ctx context.Context, limit int) ([]models.UserDirectoryEntry, error) {
	return s.directoryFn(ctx, limit)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCount, error) {
	return s.countCreatedByDayFn(ctx, since)
}
func (s *userRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *userRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) Follow(ctx context.Context, followerID, followeeID uint) error {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	return s.unfollowFn(ctx, followerID, followeeID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByExternalIDFn:   func(_ context.Context, _ string) (*models.User, error) { return &models.User{ID: 1}, nil },
		getByUsernameFn:     func(_ context.Context, _ string) (*models.User, error) { return &models.User{ID: 1}, nil },
		createFn:            func(_ context.Context, _ *models.User) error { return nil },
		updateFn:            func(_ context.Context, _ *models.User) error { return nil },
		searchFn:            func(_ context.Context, _ string, _ int) ([]models.User, error) { return nil, nil },
		directoryFn:         func(_ context.Context, _ int) ([]models.UserDirectoryEntry, error) { return nil, nil },
		countFn:             func(_ context.Context) (int64, error) { return 0, nil },
		countCreatedByDayFn: func(_ context.Context, _ time.Time) ([]models.DayCount, error) { return nil, nil },
		followingIDsFn:      func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		isFollowingFn:       func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followFn:            func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:          func(_ context.Context, _, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
	deleteFn     func(context.Context, uint) error
	countFn      func(context.Context) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		countFn:      func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// notifRepoStub is a stub for repository.NotificationRepository.
type notifRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	listForUserFn func(context.Context, uint, int) ([]models.Notification, error)
	countFn       func(context.Context) (int64, error)
}

func (s *notifRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notifRepoStub) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	return s.listForUserFn(ctx, userID, limit)
}
func (s *notifRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopNotifRepo() *notifRepoStub {
	return &notifRepoStub{
		createFn:      func(_ context.Context, _ *models.Notification) error { return nil },
		listForUserFn: func(_ context.Context, _ uint, _ int) ([]models.Notification, error) { return nil, nil },
		countFn:       func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

// assertForbiddenError asserts that err is an AppError with code FORBIDDEN.
func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
