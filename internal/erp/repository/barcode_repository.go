package repository

import (
	"context"
	"errors"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// BarcodeRepository 条码仓储
type BarcodeRepository struct {
	db *gorm.DB
}

// NewBarcodeRepository 创建条码仓储
func NewBarcodeRepository(db *gorm.DB) *BarcodeRepository {
	return &BarcodeRepository{db: db}
}

// FindByID 根据ID查找条码
func (r *BarcodeRepository) FindByID(ctx context.Context, id string) (*entity.Barcode, error) {
	var barcode entity.Barcode
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("scanned_at DESC") }).
		Where("id = ?", id).
		First(&barcode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &barcode, nil
}

// FindByValue 根据条码值查找条码
func (r *BarcodeRepository) FindByValue(ctx context.Context, value string) (*entity.Barcode, error) {
	var barcode entity.Barcode
	err := r.db.WithContext(ctx).
		Preload("Order").
		Where("value = ?", value).
		First(&barcode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &barcode, nil
}

// Create 创建条码
func (r *BarcodeRepository) Create(ctx context.Context, barcode *entity.Barcode) error {
	return r.db.WithContext(ctx).Create(barcode).Error
}

// Update 更新条码
func (r *BarcodeRepository) Update(ctx context.Context, barcode *entity.Barcode) error {
	return r.db.WithContext(ctx).Save(barcode).Error
}

// List 获取条码列表
func (r *BarcodeRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Barcode, int64, error) {
	var barcodes []entity.Barcode
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Barcode{})

	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("value ILIKE ?", "%"+keyword+"%")
	}
	if orderID, ok := filters["order_id"].(string); ok && orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if barcodeType, ok := filters["type"].(string); ok && barcodeType != "" {
		query = query.Where("type = ?", barcodeType)
	}
	if active, ok := filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&barcodes).Error
	if err != nil {
		return nil, 0, err
	}

	return barcodes, total, nil
}

// AddEvent 记录扫码事件
func (r *BarcodeRepository) AddEvent(ctx context.Context, event *entity.BarcodeEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListEvents 获取条码的扫码事件列表
func (r *BarcodeRepository) ListEvents(ctx context.Context, barcodeID string) ([]entity.BarcodeEvent, error) {
	var events []entity.BarcodeEvent
	err := r.db.WithContext(ctx).
		Preload("Scanner").
		Where("barcode_id = ?", barcodeID).
		Order("scanned_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
