package repository

import (
	"context"
	"errors"
	"time"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// ProductionRepository 生产任务仓储
type ProductionRepository struct {
	db *gorm.DB
}

// NewProductionRepository 创建生产任务仓储
func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

// FindTaskByID 根据ID查找生产任务
func (r *ProductionRepository) FindTaskByID(ctx context.Context, id string) (*entity.ProductionTask, error) {
	var task entity.ProductionTask
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("WorkerLogs").
		Preload("WorkerLogs.Employee").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListByOrder 获取订单的生产任务链
func (r *ProductionRepository) ListByOrder(ctx context.Context, orderID string) ([]entity.ProductionTask, error) {
	var tasks []entity.ProductionTask
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Preload("WorkerLogs").
		Order("sequence ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTasks 批量创建生产任务
func (r *ProductionRepository) CreateTasks(ctx context.Context, tasks []entity.ProductionTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

// UpdateTask 更新生产任务
func (r *ProductionRepository) UpdateTask(ctx context.Context, task *entity.ProductionTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// List 获取生产任务列表
func (r *ProductionRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.ProductionTask, int64, error) {
	var tasks []entity.ProductionTask
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProductionTask{})

	if orderID, ok := filters["order_id"].(string); ok && orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if process, ok := filters["process"].(string); ok && process != "" {
		query = query.Where("process = ?", process)
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
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// AddWorkerLog 在事务中写入员工产量日志并回滚任务数量汇总
func (r *ProductionRepository) AddWorkerLog(ctx context.Context, log *entity.ProductionWorkerLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(log).Error; err != nil {
			return err
		}
		return recalcTaskTotals(tx, log.TaskID)
	})
}

// UpdateWorkerLog 更新员工产量日志并重算任务汇总
func (r *ProductionRepository) UpdateWorkerLog(ctx context.Context, log *entity.ProductionWorkerLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(log).Error; err != nil {
			return err
		}
		return recalcTaskTotals(tx, log.TaskID)
	})
}

// FindWorkerLogByID 根据ID查找产量日志
func (r *ProductionRepository) FindWorkerLogByID(ctx context.Context, id string) (*entity.ProductionWorkerLog, error) {
	var log entity.ProductionWorkerLog
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// recalcTaskTotals 从产量日志重算任务完成/不良数量
func recalcTaskTotals(tx *gorm.DB, taskID string) error {
	var sums struct {
		Completed int
		Defect    int
	}
	err := tx.Model(&entity.ProductionWorkerLog{}).
		Select("COALESCE(SUM(qty_completed),0) AS completed, COALESCE(SUM(qty_defect),0) AS defect").
		Where("task_id = ?", taskID).
		Scan(&sums).Error
	if err != nil {
		return err
	}
	return tx.Model(&entity.ProductionTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"qty_completed": sums.Completed,
			"qty_defect":    sums.Defect,
			"updated_at":    time.Now(),
		}).Error
}

// OrderProgress 订单生产进度
type OrderProgress struct {
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	QtyTarget      int     `json:"qty_target"`
	QtyCompleted   int     `json:"qty_completed"`
	QtyDefect      int     `json:"qty_defect"`
	ProgressPct    float64 `json:"progress_pct"`
}

// GetOrderProgress 汇总订单的生产进度
func (r *ProductionRepository) GetOrderProgress(ctx context.Context, orderID string) (*OrderProgress, error) {
	progress := &OrderProgress{}

	r.db.WithContext(ctx).Model(&entity.ProductionTask{}).
		Where("order_id = ?", orderID).
		Count(&progress.TotalTasks)
	r.db.WithContext(ctx).Model(&entity.ProductionTask{}).
		Where("order_id = ? AND status = ?", orderID, entity.TaskStatusCompleted).
		Count(&progress.CompletedTasks)

	var sums struct {
		Target    int
		Completed int
		Defect    int
	}
	err := r.db.WithContext(ctx).Model(&entity.ProductionTask{}).
		Select("COALESCE(SUM(qty_target),0) AS target, COALESCE(SUM(qty_completed),0) AS completed, COALESCE(SUM(qty_defect),0) AS defect").
		Where("order_id = ?", orderID).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	progress.QtyTarget = sums.Target
	progress.QtyCompleted = sums.Completed
	progress.QtyDefect = sums.Defect
	if progress.TotalTasks > 0 {
		progress.ProgressPct = float64(progress.CompletedTasks) / float64(progress.TotalTasks) * 100
	}

	return progress, nil
}
