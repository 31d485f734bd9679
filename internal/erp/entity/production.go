package entity

import (
	"time"
)

// ProductionTask 订单生产任务（按工序）
type ProductionTask struct {
	ID             string     `json:"id" gorm:"primaryKey;size:32"`
	OrderID        string     `json:"order_id" gorm:"size:32;not null;index"`
	Process        string     `json:"process" gorm:"size:32;not null"`
	Status         string     `json:"status" gorm:"size:16;not null;default:pending"`
	LineSupervisor string     `json:"line_supervisor" gorm:"size:128"`
	PlannedStart   *time.Time `json:"planned_start"`
	PlannedEnd     *time.Time `json:"planned_end"`
	ActualStart    *time.Time `json:"actual_start"`
	ActualEnd      *time.Time `json:"actual_end"`
	QtyTarget      int        `json:"qty_target" gorm:"not null;default:0"`
	QtyCompleted   int        `json:"qty_completed" gorm:"not null;default:0"`
	QtyDefect      int        `json:"qty_defect" gorm:"not null;default:0"`
	Sequence       int        `json:"sequence" gorm:"not null;default:0"`
	Notes          string     `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// 关联
	Order      *Order                `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	WorkerLogs []ProductionWorkerLog `json:"worker_logs,omitempty" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (ProductionTask) TableName() string {
	return "production_tasks"
}

// ProductionWorkerLog 员工产量日志
type ProductionWorkerLog struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	TaskID       string     `json:"task_id" gorm:"size:32;not null;index"`
	EmployeeID   string     `json:"employee_id" gorm:"size:32;not null"`
	QtyCompleted int        `json:"qty_completed" gorm:"not null;default:0"`
	QtyDefect    int        `json:"qty_defect" gorm:"not null;default:0"`
	StartedAt    *time.Time `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// 关联
	Task     *ProductionTask `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Employee *Employee       `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

func (ProductionWorkerLog) TableName() string {
	return "production_worker_logs"
}

// 生产工序（顺序固定）
const (
	ProcessCutting   = "cutting"
	ProcessSewing    = "sewing"
	ProcessSablon    = "sablon"
	ProcessFinishing = "finishing"
	ProcessPacking   = "packing"
)

// ProcessSequence 工序标准顺序
var ProcessSequence = []string{
	ProcessCutting,
	ProcessSewing,
	ProcessSablon,
	ProcessFinishing,
	ProcessPacking,
}

// 生产任务状态
const (
	TaskStatusPending    = "pending"
	TaskStatusAssigned   = "assigned"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)
