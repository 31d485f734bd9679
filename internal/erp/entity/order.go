package entity

import (
	"time"
)

// Order 生产订单
type Order struct {
	ID            string     `json:"id" gorm:"primaryKey;size:32"`
	OrderCode     string     `json:"order_code" gorm:"size:32;not null;uniqueIndex"`
	CustomerID    string     `json:"customer_id" gorm:"size:32;not null;index"`
	Model         string     `json:"model" gorm:"size:128;not null"`
	QtyTotal      int        `json:"qty_total" gorm:"not null;default:0"`
	Status        string     `json:"status" gorm:"size:20;not null;default:draft"`
	Priority      string     `json:"priority" gorm:"size:16;not null;default:normal"`
	DSOStatus     string     `json:"dso_status" gorm:"column:dso_status;size:20;not null;default:not_created"`
	QCInspectorID *string    `json:"qc_inspector_id" gorm:"size:32"`
	Deadline      *time.Time `json:"deadline"`
	Notes         string     `json:"notes" gorm:"type:text"`
	CreatedBy     string     `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// 关联
	Customer    *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	QCInspector *User     `json:"qc_inspector,omitempty" gorm:"foreignKey:QCInspectorID"`
	DSOs        []DSO     `json:"dsos,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// 订单状态
const (
	OrderStatusDraft        = "draft"
	OrderStatusInProduction = "in_production"
	OrderStatusQCPending    = "qc_pending"
	OrderStatusCompleted    = "completed"
	OrderStatusCancelled    = "cancelled"
)

// 订单DSO状态（订单上的冗余镜像字段）
const (
	OrderDSONotCreated = "not_created"
	OrderDSODraft      = "draft"
	OrderDSOCreated    = "created"
)

// 订单优先级
const (
	OrderPriorityLow    = "low"
	OrderPriorityNormal = "normal"
	OrderPriorityHigh   = "high"
	OrderPriorityUrgent = "urgent"
)
