package repository

import (
	"context"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// ActivityLogRepository 操作日志仓储
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository 创建操作日志仓储
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create 写入操作日志
func (r *ActivityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List 获取操作日志列表
func (r *ActivityLogRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.ActivityLog, int64, error) {
	var logs []entity.ActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ActivityLog{})

	if module, ok := filters["module"].(string); ok && module != "" {
		query = query.Where("module = ?", module)
	}
	if action, ok := filters["action"].(string); ok && action != "" {
		query = query.Where("action = ?", action)
	}
	if recordID, ok := filters["record_id"].(string); ok && recordID != "" {
		query = query.Where("record_id = ?", recordID)
	}
	if userID, ok := filters["user_id"].(string); ok && userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// ListByRecord 获取某条记录的操作日志
func (r *ActivityLogRepository) ListByRecord(ctx context.Context, recordID string) ([]entity.ActivityLog, error) {
	var logs []entity.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("record_id = ?", recordID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
