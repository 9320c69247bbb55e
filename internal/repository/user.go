// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devnest/internal/cache"
	"devnest/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users and the follow
// relation. Following/followers are two views over a single relation table, so
// a follow or unfollow is one atomic row operation; the mirror sets can never
// diverge.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
	Directory(ctx context.Context, limit int) ([]models.UserDirectoryEntry, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCount, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Follow(ctx context.Context, followerID, followeeID uint) error
	Unfollow(ctx context.Context, followerID, followeeID uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserByExternalKey(externalID), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", externalID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the public profile view, including computed follower
// and following counts.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Select("users.*, " +
			"(SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id) as followers_count, " +
			"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) as following_count").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID, user.ExternalID)
	return nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Select("id", "username", "first_name", "last_name", "avatar_url").
		Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Directory(ctx context.Context, limit int) ([]models.UserDirectoryEntry, error) {
	var entries []models.UserDirectoryEntry
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "username", "first_name", "last_name", "email").
		Order("username").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *userRepository) CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCount, error) {
	return countCreatedByDay(ctx, r.db, &models.User{}, since)
}

// FollowingIDs is on the hot path of every feed composition; the follow set is
// cached briefly and invalidated on follow/unfollow.
func (r *userRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := cache.Aside(ctx, cache.FollowingIDsKey(userID), &ids, cache.FollowingTTL, func() error {
		err := r.db.WithContext(ctx).
			Model(&models.Follow{}).
			Where("follower_id = ?", userID).
			Pluck("followee_id", &ids).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowing(ctx, followerID)
	return nil
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowing(ctx, followerID)
	return nil
}

// dayBucket returns the SQL expression that buckets a timestamp column into a
// YYYY-MM-DD UTC calendar day for the active dialect.
func dayBucket(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
	}
	return fmt.Sprintf("to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD')", column)
}

// countCreatedByDay groups rows of model created at or after since into
// per-day counts, ascending by day. Days with no rows are absent here; the
// caller is responsible for dense-filling the series.
func countCreatedByDay(ctx context.Context, db *gorm.DB, model any, since time.Time) ([]models.DayCount, error) {
	expr := dayBucket(db, "created_at")
	var rows []models.DayCount
	err := db.WithContext(ctx).
		Model(model).
		Select(expr + " AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group(expr).
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}
