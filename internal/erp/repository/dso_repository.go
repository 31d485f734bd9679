package repository

import (
	"context"
	"errors"
	"time"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 版本号唯一约束冲突的重试上限
const versionCreateRetries = 3

// DSORepository DSO仓储
type DSORepository struct {
	db *gorm.DB
}

// NewDSORepository 创建DSO仓储
func NewDSORepository(db *gorm.DB) *DSORepository {
	return &DSORepository{db: db}
}

// FindByID 根据ID查找DSO
func (r *DSORepository) FindByID(ctx context.Context, id string) (*entity.DSO, error) {
	var dso entity.DSO
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Approver").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Accessories", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("SizeCharts").
		Where("id = ?", id).
		First(&dso).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dso, nil
}

// FindLatestByOrder 查找订单的最新版本DSO
func (r *DSORepository) FindLatestByOrder(ctx context.Context, orderID string) (*entity.DSO, error) {
	var dso entity.DSO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("version DESC").
		First(&dso).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dso, nil
}

// FindCurrentApproved 查找订单当前已批准的DSO
func (r *DSORepository) FindCurrentApproved(ctx context.Context, orderID string) (*entity.DSO, error) {
	var dso entity.DSO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, entity.DSOStatusApproved).
		Order("version DESC").
		First(&dso).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dso, nil
}

// ListByOrder 获取订单的全部DSO版本
func (r *DSORepository) ListByOrder(ctx context.Context, orderID string) ([]entity.DSO, error) {
	var dsos []entity.DSO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Preload("Approver").
		Order("version DESC").
		Find(&dsos).Error
	if err != nil {
		return nil, err
	}
	return dsos, nil
}

// List 获取DSO列表
func (r *DSORepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.DSO, int64, error) {
	var dsos []entity.DSO
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DSO{})

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
		Preload("Order").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&dsos).Error
	if err != nil {
		return nil, 0, err
	}

	return dsos, total, nil
}

// Update 更新DSO
func (r *DSORepository) Update(ctx context.Context, dso *entity.DSO) error {
	return r.db.WithContext(ctx).Save(dso).Error
}

// UpdateStatus 更新DSO状态
func (r *DSORepository) UpdateStatus(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.DSO{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CreateFirstVersion 创建订单的第一个DSO版本。
// 复用版本冲突重试路径，订单已有DSO时返回 gorm.ErrDuplicatedKey。
func (r *DSORepository) CreateFirstVersion(ctx context.Context, dso *entity.DSO) error {
	dso.Version = 1
	dso.Status = entity.DSOStatusDraft
	return r.db.WithContext(ctx).Create(dso).Error
}

// CreateNewVersion 在事务中以 max(version)+1 写入新版本并把源版本置为 superseded。
// (order_id, version) 上有唯一索引，并发写入冲突时重读最大版本后重试。
func (r *DSORepository) CreateNewVersion(ctx context.Context, sourceID string, next *entity.DSO) (*entity.DSO, error) {
	var lastErr error
	for attempt := 0; attempt < versionCreateRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var source entity.DSO
			if err := tx.Where("id = ?", sourceID).First(&source).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}

			var maxVersion int
			if err := tx.Model(&entity.DSO{}).
				Where("order_id = ?", source.OrderID).
				Select("COALESCE(MAX(version), 0)").
				Scan(&maxVersion).Error; err != nil {
				return err
			}

			now := time.Now()
			next.ID = uuid.New().String()[:32]
			next.OrderID = source.OrderID
			next.Version = maxVersion + 1
			next.Status = entity.DSOStatusDraft
			next.ApprovedBy = nil
			next.ApprovedAt = nil
			next.RejectionReason = ""
			next.CreatedAt = now
			next.UpdatedAt = now

			if err := tx.Create(next).Error; err != nil {
				return err
			}

			return tx.Model(&entity.DSO{}).
				Where("id = ?", sourceID).
				Updates(map[string]interface{}{
					"status":     entity.DSOStatusSuperseded,
					"updated_at": now,
				}).Error
		})
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// ============================================================
// 子表操作（图片、辅料、尺码、尺码汇总表）
// ============================================================

// AddImage 添加图片
func (r *DSORepository) AddImage(ctx context.Context, img *entity.DSOImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

// RemoveImage 移除图片
func (r *DSORepository) RemoveImage(ctx context.Context, dsoID, imageID string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.DSOImage{}, "id = ? AND dso_id = ?", imageID, dsoID).Error
}

// UpdateImageAnnotations 更新图片标注
func (r *DSORepository) UpdateImageAnnotations(ctx context.Context, dsoID, imageID string, annotations entity.JSONB) error {
	return r.db.WithContext(ctx).
		Model(&entity.DSOImage{}).
		Where("id = ? AND dso_id = ?", imageID, dsoID).
		Update("annotations", annotations).Error
}

// AddAccessory 添加辅料行
func (r *DSORepository) AddAccessory(ctx context.Context, acc *entity.DSOAccessory) error {
	return r.db.WithContext(ctx).Create(acc).Error
}

// UpdateAccessory 更新辅料行
func (r *DSORepository) UpdateAccessory(ctx context.Context, acc *entity.DSOAccessory) error {
	return r.db.WithContext(ctx).Save(acc).Error
}

// RemoveAccessory 移除辅料行
func (r *DSORepository) RemoveAccessory(ctx context.Context, dsoID, accID string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.DSOAccessory{}, "id = ? AND dso_id = ?", accID, dsoID).Error
}

// ReplaceSizes 整体替换尺码行
func (r *DSORepository) ReplaceSizes(ctx context.Context, dsoID string, sizes []entity.DSOSize) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.DSOSize{}, "dso_id = ?", dsoID).Error; err != nil {
			return err
		}
		if len(sizes) == 0 {
			return nil
		}
		return tx.Create(&sizes).Error
	})
}

// UpsertSizeChart 写入尺码汇总表（每个chart_type一行）
func (r *DSORepository) UpsertSizeChart(ctx context.Context, chart *entity.DSOSizeChart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.DSOSizeChart
		err := tx.Where("dso_id = ? AND chart_type = ?", chart.DSOID, chart.ChartType).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(chart).Error
			}
			return err
		}
		chart.ID = existing.ID
		chart.CreatedAt = existing.CreatedAt
		return tx.Save(chart).Error
	})
}

// FindImageByID 根据ID查找图片
func (r *DSORepository) FindImageByID(ctx context.Context, dsoID, imageID string) (*entity.DSOImage, error) {
	var img entity.DSOImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND dso_id = ?", imageID, dsoID).
		First(&img).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

// FindAccessoryByID 根据ID查找辅料行
func (r *DSORepository) FindAccessoryByID(ctx context.Context, dsoID, accID string) (*entity.DSOAccessory, error) {
	var acc entity.DSOAccessory
	err := r.db.WithContext(ctx).
		Where("id = ? AND dso_id = ?", accID, dsoID).
		First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}
