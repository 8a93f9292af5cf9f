package repository

import (
	"context"

	"github.com/ayoogunade/AyoZon/models"
	"gorm.io/gorm"
)

type NotificationLogRepository interface {
	SaveLog(ctx context.Context, log *models.NotificationLog) error
}

type gormNotificationLogRepository struct {
	db *gorm.DB
}

func NewGormNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &gormNotificationLogRepository{db: db}
}

func (r *gormNotificationLogRepository) SaveLog(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
