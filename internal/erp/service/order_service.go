package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo    *repository.OrderRepository
	customerRepo *repository.CustomerRepository
	dsoRepo      *repository.DSORepository
	prodRepo     *repository.ProductionRepository
	activity     *ActivityRecorder
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo *repository.OrderRepository, customerRepo *repository.CustomerRepository, dsoRepo *repository.DSORepository, prodRepo *repository.ProductionRepository, activity *ActivityRecorder) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		dsoRepo:      dsoRepo,
		prodRepo:     prodRepo,
		activity:     activity,
	}
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerID    string     `json:"customer_id" binding:"required"`
	Model         string     `json:"model" binding:"required"`
	QtyTotal      int        `json:"qty_total" binding:"required,gt=0"`
	Priority      string     `json:"priority"`
	QCInspectorID *string    `json:"qc_inspector_id"`
	Deadline      *time.Time `json:"deadline"`
	Notes         string     `json:"notes"`
}

// UpdateOrderRequest 更新订单请求
type UpdateOrderRequest struct {
	Model         string     `json:"model"`
	QtyTotal      *int       `json:"qty_total"`
	Priority      string     `json:"priority"`
	QCInspectorID *string    `json:"qc_inspector_id"`
	Deadline      *time.Time `json:"deadline"`
	Notes         *string    `json:"notes"`
}

// OrderListResult 订单列表结果
type OrderListResult struct {
	Items      []entity.Order `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// List 获取订单列表
func (s *OrderService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*OrderListResult, error) {
	orders, total, err := s.orderRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &OrderListResult{
		Items:      orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Get 获取订单详情
func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// GetStats 获取订单统计
func (s *OrderService) GetStats(ctx context.Context) (*repository.OrderStats, error) {
	return s.orderRepo.GetStats(ctx)
}

// Create 创建订单
func (s *OrderService) Create(ctx context.Context, userID string, req *CreateOrderRequest) (*entity.Order, error) {
	// 验证客户存在
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewValidationError("customer not found: %s", req.CustomerID)
		}
		return nil, err
	}

	code, err := s.orderRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate order code: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.OrderPriorityNormal
	}

	now := time.Now()
	order := &entity.Order{
		ID:            uuid.New().String()[:32],
		OrderCode:     code,
		CustomerID:    req.CustomerID,
		Model:         req.Model,
		QtyTotal:      req.QtyTotal,
		Status:        entity.OrderStatusDraft,
		Priority:      priority,
		DSOStatus:     entity.OrderDSONotCreated,
		QCInspectorID: req.QCInspectorID,
		Deadline:      req.Deadline,
		Notes:         req.Notes,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.activity.Record(ctx, "order", entity.ActivityCreated, order.ID, "Order", userID, nil, order)

	return order, nil
}

// Update 更新订单
func (s *OrderService) Update(ctx context.Context, id string, userID string, req *UpdateOrderRequest) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == entity.OrderStatusCompleted || order.Status == entity.OrderStatusCancelled {
		return nil, NewStateError("order %s is %s and can no longer be edited", order.OrderCode, order.Status)
	}

	before := *order

	if req.Model != "" {
		order.Model = req.Model
	}
	if req.QtyTotal != nil {
		if *req.QtyTotal <= 0 {
			return nil, NewValidationError("qty_total must be positive")
		}
		order.QtyTotal = *req.QtyTotal
	}
	if req.Priority != "" {
		order.Priority = req.Priority
	}
	if req.QCInspectorID != nil {
		order.QCInspectorID = req.QCInspectorID
	}
	if req.Deadline != nil {
		order.Deadline = req.Deadline
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	s.activity.Record(ctx, "order", entity.ActivityUpdated, order.ID, "Order", userID, &before, order)

	return order, nil
}

// 订单状态机：到达态 -> 允许的来源态
var orderTransitions = map[string][]string{
	entity.OrderStatusInProduction: {entity.OrderStatusDraft, entity.OrderStatusQCPending},
	entity.OrderStatusQCPending:    {entity.OrderStatusInProduction},
	entity.OrderStatusCompleted:    {entity.OrderStatusQCPending},
	entity.OrderStatusCancelled:    {entity.OrderStatusDraft, entity.OrderStatusInProduction, entity.OrderStatusQCPending},
}

// MoveStatus 订单状态流转
func (s *OrderService) MoveStatus(ctx context.Context, id string, userID string, target string) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, ok := orderTransitions[target]
	if !ok {
		return nil, NewValidationError("unknown order status: %s", target)
	}

	valid := false
	for _, from := range allowed {
		if order.Status == from {
			valid = true
			break
		}
	}
	if !valid {
		return nil, NewStateError("cannot move order from %s to %s", order.Status, target)
	}

	before := *order
	if err := s.orderRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = target

	s.activity.Record(ctx, "order", entity.ActivityStatusMoved, order.ID, "Order", userID, &before, order)

	return order, nil
}

// GetProgress 获取订单生产进度
func (s *OrderService) GetProgress(ctx context.Context, id string) (*repository.OrderProgress, error) {
	if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.prodRepo.GetOrderProgress(ctx, id)
}

// GetCurrentDSO 获取订单当前已批准的DSO
func (s *OrderService) GetCurrentDSO(ctx context.Context, orderID string) (*entity.DSO, error) {
	return s.dsoRepo.FindCurrentApproved(ctx, orderID)
}

// GetLatestDSO 获取订单最新版本DSO
func (s *OrderService) GetLatestDSO(ctx context.Context, orderID string) (*entity.DSO, error) {
	return s.dsoRepo.FindLatestByOrder(ctx, orderID)
}

// RecomputeDSOStatus 根据DSO版本链刷新订单的dso_status镜像字段
func (s *OrderService) RecomputeDSOStatus(ctx context.Context, orderID string) error {
	latest, err := s.dsoRepo.FindLatestByOrder(ctx, orderID)
	if err != nil {
		if err == repository.ErrNotFound {
			return s.orderRepo.UpdateDSOStatus(ctx, orderID, entity.OrderDSONotCreated)
		}
		return err
	}

	status := entity.OrderDSODraft
	if latest.Status == entity.DSOStatusApproved {
		status = entity.OrderDSOCreated
	} else {
		// 最新版未批准，但历史上存在已批准版本时仍视为created
		if _, err := s.dsoRepo.FindCurrentApproved(ctx, orderID); err == nil {
			status = entity.OrderDSOCreated
		}
	}

	return s.orderRepo.UpdateDSOStatus(ctx, orderID, status)
}
