package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// ChangeRequestRepository 变更请求仓储
type ChangeRequestRepository struct {
	db *gorm.DB
}

// NewChangeRequestRepository 创建变更请求仓储
func NewChangeRequestRepository(db *gorm.DB) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: db}
}

// FindByID 根据ID查找变更请求
func (r *ChangeRequestRepository) FindByID(ctx context.Context, id string) (*entity.ChangeRequest, error) {
	var cr entity.ChangeRequest
	err := r.db.WithContext(ctx).
		Preload("DSO").
		Preload("NewDSO").
		Preload("Requester").
		Preload("Decider").
		Where("id = ?", id).
		First(&cr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cr, nil
}

// Create 创建变更请求
func (r *ChangeRequestRepository) Create(ctx context.Context, cr *entity.ChangeRequest) error {
	return r.db.WithContext(ctx).Create(cr).Error
}

// Update 更新变更请求
func (r *ChangeRequestRepository) Update(ctx context.Context, cr *entity.ChangeRequest) error {
	return r.db.WithContext(ctx).Save(cr).Error
}

// List 获取变更请求列表
func (r *ChangeRequestRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.ChangeRequest, int64, error) {
	var crs []entity.ChangeRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ChangeRequest{})

	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("request_code ILIKE ? OR reason ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if dsoID, ok := filters["dso_id"].(string); ok && dsoID != "" {
		query = query.Where("dso_id = ?", dsoID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if priority, ok := filters["priority"].(string); ok && priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if requestedBy, ok := filters["requested_by"].(string); ok && requestedBy != "" {
		query = query.Where("requested_by = ?", requestedBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("DSO").
		Preload("Requester").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&crs).Error
	if err != nil {
		return nil, 0, err
	}

	return crs, total, nil
}

// ListByDSO 获取某个DSO的变更请求
func (r *ChangeRequestRepository) ListByDSO(ctx context.Context, dsoID string) ([]entity.ChangeRequest, error) {
	var crs []entity.ChangeRequest
	err := r.db.WithContext(ctx).
		Where("dso_id = ?", dsoID).
		Preload("Requester").
		Order("created_at DESC").
		Find(&crs).Error
	if err != nil {
		return nil, err
	}
	return crs, nil
}

// Decide 写入审批结果，仅当状态仍为pending时生效
func (r *ChangeRequestRepository) Decide(ctx context.Context, id, status, actorID, note string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.ChangeRequest{}).
		Where("id = ? AND status = ?", id, entity.ChangeRequestPending).
		Updates(map[string]interface{}{
			"status":        status,
			"decided_by":    actorID,
			"decided_at":    now,
			"decision_note": note,
			"updated_at":    now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Implement 写入实施结果，仅当状态为approved时生效
func (r *ChangeRequestRepository) Implement(ctx context.Context, id, newDSOID string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.ChangeRequest{}).
		Where("id = ? AND status = ?", id, entity.ChangeRequestApproved).
		Updates(map[string]interface{}{
			"status":         entity.ChangeRequestImplemented,
			"new_dso_id":     newDSOID,
			"implemented_at": now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GenerateCode 生成变更请求编码 CR-YYYYMM-NNNN
func (r *ChangeRequestRepository) GenerateCode(ctx context.Context) (string, error) {
	var seq int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('change_request_code_seq')").Scan(&seq).Error
	if err != nil {
		return "", err
	}
	now := time.Now()
	return fmt.Sprintf("CR-%d%02d-%04d", now.Year(), int(now.Month()), seq), nil
}
