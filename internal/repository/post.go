package repository

import (
	"context"
	"errors"
	"time"

	"devnest/internal/cache"
	"devnest/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	ListByUser(ctx context.Context, userID uint, viewerID uint) ([]*models.Post, error)
	// ListByAuthors returns every post authored by any of the given accounts,
	// fully expanded. An empty author set yields an empty result without
	// touching the store.
	ListByAuthors(ctx context.Context, authorIDs []uint, viewerID uint) ([]*models.Post, error)
	// ListPopular returns posts ordered by descending like count, excluding
	// the given ids, limited to limit.
	ListPopular(ctx context.Context, excludeIDs []uint, limit int, viewerID uint) ([]*models.Post, error)
	SearchByCategories(ctx context.Context, names []string, viewerID uint) ([]*models.Post, error)
	SearchByType(ctx context.Context, postType string, viewerID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	HasReport(ctx context.Context, postID, userID uint) (bool, error)
	AddReport(ctx context.Context, report *models.PostReport) error
	ListReported(ctx context.Context, limit int) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCount, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch the like count and liked status in
// a single query, plus the standard expansions: author, categories, comments
// with their authors, and the shared-from back-reference.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID != 0 {
		db = db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", viewerID)
	} else {
		db = db.Select(selectQuery + ", false as liked")
	}

	return db.
		Preload("User").
		Preload("Categories").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.User").
		Preload("SharedFrom").
		Preload("SharedFrom.User")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			First(&post, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// Anonymous reads are viewer-independent and share one cache entry;
	// personalized reads carry the liked flag and always hit the store.
	var err error
	if viewerID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint, viewerID uint) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Where("posts.user_id IN ?", authorIDs).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListPopular(ctx context.Context, excludeIDs []uint, limit int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyPostDetails(r.db.WithContext(ctx), viewerID)
	if len(excludeIDs) > 0 {
		base = base.Where("posts.id NOT IN ?", excludeIDs)
	}
	err := base.
		Order("likes_count DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) SearchByCategories(ctx context.Context, names []string, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Where("EXISTS (SELECT 1 FROM post_categories WHERE post_categories.post_id = posts.id AND post_categories.name IN ?)", names).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) SearchByType(ctx context.Context, postType string, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Where("posts.type = ?", postType).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes a post and everything that depends on it in one transaction:
// comments, likes, category labels and report records. A deleted post orphans
// no comment.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostReport{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like is an atomic set-add: concurrent likes of the same post by the same
// user collapse into one row.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	like := models.Like{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) HasReport(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostReport{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) AddReport(ctx context.Context, report *models.PostReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListReported returns posts with at least one report, newest post first, with
// reporter and author expansions.
func (r *postRepository) ListReported(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Categories").
		Preload("Reports").
		Preload("Reports.User").
		Where("EXISTS (SELECT 1 FROM post_reports WHERE post_reports.post_id = posts.id)").
		Order("posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCount, error) {
	return countCreatedByDay(ctx, r.db, &models.Post{}, since)
}
