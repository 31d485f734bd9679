package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// ProductionService 生产任务服务
type ProductionService struct {
	prodRepo  *repository.ProductionRepository
	orderRepo *repository.OrderRepository
	empRepo   *repository.EmployeeRepository
	activity  *ActivityRecorder
}

// NewProductionService 创建生产任务服务
func NewProductionService(prodRepo *repository.ProductionRepository, orderRepo *repository.OrderRepository, empRepo *repository.EmployeeRepository, activity *ActivityRecorder) *ProductionService {
	return &ProductionService{
		prodRepo:  prodRepo,
		orderRepo: orderRepo,
		empRepo:   empRepo,
		activity:  activity,
	}
}

// CreateTaskChainRequest 生成任务链请求
type CreateTaskChainRequest struct {
	PlannedStart *time.Time `json:"planned_start"`
	PlannedEnd   *time.Time `json:"planned_end"`
}

// CreateTaskChain 为订单生成5道工序的任务链
func (s *ProductionService) CreateTaskChain(ctx context.Context, orderID string, userID string, req *CreateTaskChainRequest) ([]entity.ProductionTask, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	existing, err := s.prodRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, NewStateError("order %s already has production tasks", order.OrderCode)
	}

	now := time.Now()
	tasks := make([]entity.ProductionTask, 0, len(entity.ProcessSequence))
	for i, process := range entity.ProcessSequence {
		tasks = append(tasks, entity.ProductionTask{
			ID:           uuid.New().String()[:32],
			OrderID:      orderID,
			Process:      process,
			Status:       entity.TaskStatusPending,
			PlannedStart: req.PlannedStart,
			PlannedEnd:   req.PlannedEnd,
			QtyTarget:    order.QtyTotal,
			Sequence:     i + 1,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.prodRepo.CreateTasks(ctx, tasks); err != nil {
		return nil, fmt.Errorf("create production tasks: %w", err)
	}

	// 任务链建立后订单进入生产
	if order.Status == entity.OrderStatusDraft {
		if err := s.orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusInProduction); err != nil {
			return nil, fmt.Errorf("update order status: %w", err)
		}
	}

	s.activity.Record(ctx, "production", entity.ActivityCreated, orderID, "ProductionTaskChain", userID, nil, tasks)

	return tasks, nil
}

// GetTask 获取任务详情
func (s *ProductionService) GetTask(ctx context.Context, id string) (*entity.ProductionTask, error) {
	return s.prodRepo.FindTaskByID(ctx, id)
}

// ListByOrder 获取订单的任务链
func (s *ProductionService) ListByOrder(ctx context.Context, orderID string) ([]entity.ProductionTask, error) {
	return s.prodRepo.ListByOrder(ctx, orderID)
}

// TaskListResult 任务列表结果
type TaskListResult struct {
	Items      []entity.ProductionTask `json:"items"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	TotalPages int                     `json:"total_pages"`
}

// List 获取任务列表
func (s *ProductionService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*TaskListResult, error) {
	tasks, total, err := s.prodRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list production tasks: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &TaskListResult{
		Items:      tasks,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// AssignTask 指派任务负责人
func (s *ProductionService) AssignTask(ctx context.Context, id string, userID string, lineSupervisor string) (*entity.ProductionTask, error) {
	task, err := s.prodRepo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status == entity.TaskStatusCompleted {
		return nil, NewStateError("task %s is already completed", task.Process)
	}

	task.LineSupervisor = lineSupervisor
	if task.Status == entity.TaskStatusPending {
		task.Status = entity.TaskStatusAssigned
	}
	task.UpdatedAt = time.Now()

	if err := s.prodRepo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}

	s.activity.Record(ctx, "production", entity.ActivityUpdated, task.ID, "ProductionTask", userID, nil, task)

	return task, nil
}

// StartTask 开工
func (s *ProductionService) StartTask(ctx context.Context, id string, userID string) (*entity.ProductionTask, error) {
	task, err := s.prodRepo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status != entity.TaskStatusPending && task.Status != entity.TaskStatusAssigned {
		return nil, NewStateError("task %s cannot start from status %s", task.Process, task.Status)
	}

	now := time.Now()
	task.Status = entity.TaskStatusInProgress
	task.ActualStart = &now
	task.UpdatedAt = now

	if err := s.prodRepo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("start task: %w", err)
	}

	s.activity.Record(ctx, "production", entity.ActivityStatusMoved, task.ID, "ProductionTask", userID, nil, task)

	return task, nil
}

// CompleteTask 完工
func (s *ProductionService) CompleteTask(ctx context.Context, id string, userID string) (*entity.ProductionTask, error) {
	task, err := s.prodRepo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status != entity.TaskStatusInProgress {
		return nil, NewStateError("only in_progress tasks can be completed, %s is %s", task.Process, task.Status)
	}

	now := time.Now()
	task.Status = entity.TaskStatusCompleted
	task.ActualEnd = &now
	task.UpdatedAt = now

	if err := s.prodRepo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	s.activity.Record(ctx, "production", entity.ActivityStatusMoved, task.ID, "ProductionTask", userID, nil, task)

	return task, nil
}

// WorkerLogInput 员工产量录入
type WorkerLogInput struct {
	EmployeeID   string     `json:"employee_id" binding:"required"`
	QtyCompleted int        `json:"qty_completed"`
	QtyDefect    int        `json:"qty_defect"`
	StartedAt    *time.Time `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
	Notes        string     `json:"notes"`
}

// AddWorkerLog 记录员工产量，汇总后达到目标自动完工
func (s *ProductionService) AddWorkerLog(ctx context.Context, taskID string, userID string, input *WorkerLogInput) (*entity.ProductionWorkerLog, error) {
	task, err := s.prodRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == entity.TaskStatusCompleted {
		return nil, NewStateError("task %s is already completed", task.Process)
	}
	if input.QtyCompleted < 0 || input.QtyDefect < 0 {
		return nil, NewValidationError("quantities cannot be negative")
	}

	if _, err := s.empRepo.FindByID(ctx, input.EmployeeID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewValidationError("employee not found: %s", input.EmployeeID)
		}
		return nil, err
	}

	now := time.Now()
	log := &entity.ProductionWorkerLog{
		ID:           uuid.New().String()[:32],
		TaskID:       taskID,
		EmployeeID:   input.EmployeeID,
		QtyCompleted: input.QtyCompleted,
		QtyDefect:    input.QtyDefect,
		StartedAt:    input.StartedAt,
		EndedAt:      input.EndedAt,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.prodRepo.AddWorkerLog(ctx, log); err != nil {
		return nil, fmt.Errorf("add worker log: %w", err)
	}

	if err := s.autoComplete(ctx, taskID, userID); err != nil {
		return nil, err
	}

	return log, nil
}

// UpdateWorkerLog 修正员工产量
func (s *ProductionService) UpdateWorkerLog(ctx context.Context, taskID, logID string, userID string, input *WorkerLogInput) (*entity.ProductionWorkerLog, error) {
	log, err := s.prodRepo.FindWorkerLogByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log.TaskID != taskID {
		return nil, repository.ErrNotFound
	}
	if input.QtyCompleted < 0 || input.QtyDefect < 0 {
		return nil, NewValidationError("quantities cannot be negative")
	}

	log.QtyCompleted = input.QtyCompleted
	log.QtyDefect = input.QtyDefect
	log.StartedAt = input.StartedAt
	log.EndedAt = input.EndedAt
	log.Notes = input.Notes
	log.UpdatedAt = time.Now()

	if err := s.prodRepo.UpdateWorkerLog(ctx, log); err != nil {
		return nil, fmt.Errorf("update worker log: %w", err)
	}

	if err := s.autoComplete(ctx, taskID, userID); err != nil {
		return nil, err
	}

	return log, nil
}

// autoComplete 汇总达到目标时自动完工
func (s *ProductionService) autoComplete(ctx context.Context, taskID string, userID string) error {
	task, err := s.prodRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return err
	}

	if task.Status == entity.TaskStatusCompleted || task.QtyTarget <= 0 {
		return nil
	}
	if task.QtyCompleted < task.QtyTarget {
		return nil
	}

	now := time.Now()
	task.Status = entity.TaskStatusCompleted
	task.ActualEnd = &now
	task.UpdatedAt = now

	if err := s.prodRepo.UpdateTask(ctx, task); err != nil {
		return fmt.Errorf("auto-complete task: %w", err)
	}

	s.activity.Record(ctx, "production", entity.ActivityStatusMoved, task.ID, "ProductionTask", userID, nil, task)

	return nil
}

// DefectRate 任务不良率，完成数为0时返回0
func (s *ProductionService) DefectRate(ctx context.Context, taskID string) (float64, error) {
	task, err := s.prodRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		return 0, err
	}
	if task.QtyCompleted == 0 {
		return 0, nil
	}
	return float64(task.QtyDefect) / float64(task.QtyCompleted) * 100, nil
}
