package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// OrderRepository 订单仓储
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByID 根据ID查找订单
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("QCInspector").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByCode 根据编码查找订单
func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("order_code = ?", code).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建订单
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update 更新订单
func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// UpdateStatus 更新订单状态
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// UpdateDSOStatus 更新订单上的DSO状态镜像
func (r *OrderRepository) UpdateDSOStatus(ctx context.Context, id string, dsoStatus string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"dso_status": dsoStatus,
			"updated_at": time.Now(),
		}).Error
}

// List 获取订单列表
func (r *OrderRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("order_code ILIKE ? OR model ILIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if customerID, ok := filters["customer_id"].(string); ok && customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if priority, ok := filters["priority"].(string); ok && priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if dsoStatus, ok := filters["dso_status"].(string); ok && dsoStatus != "" {
		query = query.Where("dso_status = ?", dsoStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GenerateCode 生成订单编码 INV-YYYYMM-NNNN
func (r *OrderRepository) GenerateCode(ctx context.Context) (string, error) {
	var seq int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('order_code_seq')").Scan(&seq).Error
	if err != nil {
		return "", err
	}
	now := time.Now()
	return fmt.Sprintf("INV-%d%02d-%04d", now.Year(), int(now.Month()), seq), nil
}

// OrderStats 订单统计数据
type OrderStats struct {
	Draft        int64 `json:"draft"`
	InProduction int64 `json:"in_production"`
	QCPending    int64 `json:"qc_pending"`
	Completed    int64 `json:"completed"`
	MonthCreated int64 `json:"month_created"`
}

// GetStats 获取订单统计数据
func (r *OrderRepository) GetStats(ctx context.Context) (*OrderStats, error) {
	stats := &OrderStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status = ?", entity.OrderStatusDraft).Count(&stats.Draft)
	r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status = ?", entity.OrderStatusInProduction).Count(&stats.InProduction)
	r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status = ?", entity.OrderStatusQCPending).Count(&stats.QCPending)
	r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status = ?", entity.OrderStatusCompleted).Count(&stats.Completed)
	r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("created_at >= ?", monthStart).Count(&stats.MonthCreated)

	return stats, nil
}
