package entity

import (
	"time"
)

// MaterialRequest 面辅料采购请求
type MaterialRequest struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	RequestCode string     `json:"request_code" gorm:"size:32;not null;uniqueIndex"`
	VendorID    string     `json:"vendor_id" gorm:"size:32;not null;index"`
	OrderID     *string    `json:"order_id" gorm:"size:32;index"`
	Status      string     `json:"status" gorm:"size:20;not null;default:requested"`
	RequestedAt time.Time  `json:"requested_at"`
	ExpectedAt  *time.Time `json:"expected_at"`
	ArrivedAt   *time.Time `json:"arrived_at"`
	StoredAt    *time.Time `json:"stored_at"`
	RequestedBy string     `json:"requested_by" gorm:"size:32"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Vendor  *Vendor               `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Order   *Order                `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Items   []MaterialRequestItem `json:"items,omitempty" gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	QCSheet *MaterialQCSheet      `json:"qc_sheet,omitempty" gorm:"foreignKey:RequestID"`
}

func (MaterialRequest) TableName() string {
	return "material_requests"
}

// MaterialRequestItem 采购请求明细
type MaterialRequestItem struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	RequestID   string    `json:"request_id" gorm:"size:32;not null;index"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Type        string    `json:"type" gorm:"size:64"`
	Spec        string    `json:"spec" gorm:"size:256"`
	Color       string    `json:"color" gorm:"size:64"`
	Size        string    `json:"size" gorm:"size:64"`
	QtyOrdered  int       `json:"qty_ordered" gorm:"not null;default:0"`
	QtyReceived int       `json:"qty_received" gorm:"not null;default:0"`
	QtyRejected int       `json:"qty_rejected" gorm:"not null;default:0"`
	Unit        string    `json:"unit" gorm:"size:16;default:pcs"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (MaterialRequestItem) TableName() string {
	return "material_request_items"
}

// MaterialQCSheet 来料质检单
type MaterialQCSheet struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	RequestID   string     `json:"request_id" gorm:"size:32;not null;uniqueIndex"`
	Result      string     `json:"result" gorm:"size:20;not null;default:pending"`
	InspectorID string     `json:"inspector_id" gorm:"size:32"`
	DecidedAt   *time.Time `json:"decided_at"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Request   *MaterialRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Inspector *User            `json:"inspector,omitempty" gorm:"foreignKey:InspectorID"`
	Items     []MaterialQCItem `json:"items,omitempty" gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
}

func (MaterialQCSheet) TableName() string {
	return "material_qc_sheets"
}

// MaterialQCItem 来料质检检查项
type MaterialQCItem struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	SheetID    string    `json:"sheet_id" gorm:"size:32;not null;index"`
	Parameter  string    `json:"parameter" gorm:"size:128;not null"`
	QtyChecked int       `json:"qty_checked" gorm:"not null;default:0"`
	QtyNG      int       `json:"qty_ng" gorm:"column:qty_ng;not null;default:0"`
	Status     string    `json:"status" gorm:"size:16;not null;default:pending"`
	Notes      string    `json:"notes" gorm:"type:text"`
	SortOrder  int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MaterialQCItem) TableName() string {
	return "material_qc_items"
}

// 采购请求状态
const (
	MaterialRequested = "requested"
	MaterialInTransit = "in_transit"
	MaterialArrived   = "arrived"
	MaterialQCPending = "qc_pending"
	MaterialQCPassed  = "qc_passed"
	MaterialQCFailed  = "qc_failed"
	MaterialStored    = "stored"
	MaterialCancelled = "cancelled"
)

// 来料质检结果
const (
	MaterialQCResultPending         = "pending"
	MaterialQCResultSubmitted       = "submitted"
	MaterialQCResultPass            = "pass"
	MaterialQCResultFail            = "fail"
	MaterialQCResultConditionalPass = "conditional_pass"
)
