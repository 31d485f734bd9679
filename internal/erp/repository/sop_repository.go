package repository

import (
	"context"
	"errors"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// SOPRepository SOP文档仓储
type SOPRepository struct {
	db *gorm.DB
}

// NewSOPRepository 创建SOP文档仓储
func NewSOPRepository(db *gorm.DB) *SOPRepository {
	return &SOPRepository{db: db}
}

// FindByID 根据ID查找SOP文档
func (r *SOPRepository) FindByID(ctx context.Context, id string) (*entity.SOPDocument, error) {
	var doc entity.SOPDocument
	err := r.db.WithContext(ctx).
		Preload("Acknowledgments").
		Preload("Acknowledgments.User").
		Where("id = ?", id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Create 创建SOP文档
func (r *SOPRepository) Create(ctx context.Context, doc *entity.SOPDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Update 更新SOP文档
func (r *SOPRepository) Update(ctx context.Context, doc *entity.SOPDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// List 获取SOP文档列表
func (r *SOPRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.SOPDocument, int64, error) {
	var docs []entity.SOPDocument
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SOPDocument{})

	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("title ILIKE ? OR document_code ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if category, ok := filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}
	if active, ok := filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("document_code ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// FindAcknowledgment 查找指定用户对指定版本的签收记录
func (r *SOPRepository) FindAcknowledgment(ctx context.Context, documentID, userID, version string) (*entity.SOPAcknowledgment, error) {
	var ack entity.SOPAcknowledgment
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ? AND version_acknowledged = ?", documentID, userID, version).
		First(&ack).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ack, nil
}

// CreateAcknowledgment 创建签收记录
func (r *SOPRepository) CreateAcknowledgment(ctx context.Context, ack *entity.SOPAcknowledgment) error {
	return r.db.WithContext(ctx).Create(ack).Error
}

// ListAcknowledgments 获取文档的签收记录列表
func (r *SOPRepository) ListAcknowledgments(ctx context.Context, documentID string) ([]entity.SOPAcknowledgment, error) {
	var acks []entity.SOPAcknowledgment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("document_id = ?", documentID).
		Order("acknowledged_at DESC").
		Find(&acks).Error
	if err != nil {
		return nil, err
	}
	return acks, nil
}

// CountAcknowledged 统计当前版本已签收人数
func (r *SOPRepository) CountAcknowledged(ctx context.Context, documentID, version string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.SOPAcknowledgment{}).
		Where("document_id = ? AND version_acknowledged = ?", documentID, version).
		Count(&count).Error
	return count, err
}
