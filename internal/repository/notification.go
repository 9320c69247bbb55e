package repository

import (
	"context"

	"devnest/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository persists notification records. Delivery is out of
// scope; these rows are only the durable trail behind it.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	Count(ctx context.Context) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Preload("From").
		Where("to_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
