package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// MaterialRepository 物料仓储
type MaterialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository 创建物料仓储
func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// FindRequestByID 根据ID查找物料请求
func (r *MaterialRepository) FindRequestByID(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	var request entity.MaterialRequest
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Order").
		Preload("Items").
		Preload("QCSheet").
		Preload("QCSheet.Items").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// CreateRequest 创建物料请求（含明细子表）
func (r *MaterialRepository) CreateRequest(ctx context.Context, request *entity.MaterialRequest, items []entity.MaterialRequestItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// UpdateRequest 更新物料请求
func (r *MaterialRepository) UpdateRequest(ctx context.Context, request *entity.MaterialRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// UpdateRequestStatus 更新物料请求状态
func (r *MaterialRepository) UpdateRequestStatus(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.MaterialRequest{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateItem 更新物料请求明细
func (r *MaterialRepository) UpdateItem(ctx context.Context, item *entity.MaterialRequestItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindItemByID 根据ID查找物料请求明细
func (r *MaterialRepository) FindItemByID(ctx context.Context, id string) (*entity.MaterialRequestItem, error) {
	var item entity.MaterialRequestItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListRequests 获取物料请求列表
func (r *MaterialRepository) ListRequests(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.MaterialRequest, int64, error) {
	var requests []entity.MaterialRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MaterialRequest{})

	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("request_code ILIKE ?", "%"+keyword+"%")
	}
	if vendorID, ok := filters["vendor_id"].(string); ok && vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if orderID, ok := filters["order_id"].(string); ok && orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Vendor").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// GenerateRequestCode 生成物料请求编码 MR-YYYYMM-NNNN
func (r *MaterialRepository) GenerateRequestCode(ctx context.Context) (string, error) {
	var seq int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('material_request_code_seq')").Scan(&seq).Error
	if err != nil {
		return "", err
	}
	now := time.Now()
	return fmt.Sprintf("MR-%d%02d-%04d", now.Year(), int(now.Month()), seq), nil
}

// ============================================================
// 来料质检
// ============================================================

// FindQCSheetByRequest 根据物料请求查找来料质检单
func (r *MaterialRepository) FindQCSheetByRequest(ctx context.Context, requestID string) (*entity.MaterialQCSheet, error) {
	var sheet entity.MaterialQCSheet
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Inspector").
		Where("request_id = ?", requestID).
		First(&sheet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sheet, nil
}

// CreateQCSheet 创建来料质检单（含检查项）
func (r *MaterialRepository) CreateQCSheet(ctx context.Context, sheet *entity.MaterialQCSheet, items []entity.MaterialQCItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sheet).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// UpdateQCSheet 更新来料质检单
func (r *MaterialRepository) UpdateQCSheet(ctx context.Context, sheet *entity.MaterialQCSheet) error {
	return r.db.WithContext(ctx).Save(sheet).Error
}
