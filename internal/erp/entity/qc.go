package entity

import (
	"time"
)

// QCSheet 质检单
type QCSheet struct {
	ID             string     `json:"id" gorm:"primaryKey;size:32"`
	InspectionCode string     `json:"inspection_code" gorm:"size:32;not null;uniqueIndex"`
	OrderID        *string    `json:"order_id" gorm:"size:32;index"`
	TaskID         *string    `json:"task_id" gorm:"size:32;index"`
	Process        string     `json:"process" gorm:"size:32"`
	Result         string     `json:"result" gorm:"size:20;not null;default:pending"`
	QtyInspected   int        `json:"qty_inspected" gorm:"not null;default:0"`
	QtyPassed      int        `json:"qty_passed" gorm:"not null;default:0"`
	QtyFailed      int        `json:"qty_failed" gorm:"not null;default:0"`
	Photos         JSONBArray `json:"photos" gorm:"type:jsonb"`
	InspectorID    string     `json:"inspector_id" gorm:"size:32;not null"`
	BarcodeScanned bool       `json:"barcode_scanned" gorm:"default:false"`
	InspectedAt    time.Time  `json:"inspected_at"`
	Notes          string     `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// 关联
	Order          *Order            `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Task           *ProductionTask   `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Inspector      *User             `json:"inspector,omitempty" gorm:"foreignKey:InspectorID"`
	ChecklistItems []QCChecklistItem `json:"checklist_items,omitempty" gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
	DefectLogs     []DefectLog       `json:"defect_logs,omitempty" gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
}

func (QCSheet) TableName() string {
	return "qc_sheets"
}

// PassRate 合格率，受检数为0时返回0
func (s *QCSheet) PassRate() float64 {
	if s.QtyInspected == 0 {
		return 0
	}
	return float64(s.QtyPassed) / float64(s.QtyInspected) * 100
}

// QCChecklistItem 质检单检查项（子表，不用JSON数组）
type QCChecklistItem struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	SheetID    string    `json:"sheet_id" gorm:"size:32;not null;index"`
	Parameter  string    `json:"parameter" gorm:"size:128;not null"`
	Standard   string    `json:"standard" gorm:"size:256"`
	QtyChecked int       `json:"qty_checked" gorm:"not null;default:0"`
	QtyNG      int       `json:"qty_ng" gorm:"column:qty_ng;not null;default:0"`
	Status     string    `json:"status" gorm:"size:16;not null;default:pending"`
	Notes      string    `json:"notes" gorm:"type:text"`
	SortOrder  int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
}

func (QCChecklistItem) TableName() string {
	return "qc_checklist_items"
}

// DefectLog 缺陷记录
type DefectLog struct {
	ID               string     `json:"id" gorm:"primaryKey;size:32"`
	SheetID          string     `json:"sheet_id" gorm:"size:32;not null;index"`
	DefectType       string     `json:"defect_type" gorm:"size:64;not null"`
	Category         string     `json:"category" gorm:"size:64"`
	Severity         string     `json:"severity" gorm:"size:16;not null;default:minor"`
	QtyDefect        int        `json:"qty_defect" gorm:"not null;default:0"`
	Station          string     `json:"station" gorm:"size:64"`
	PhotoURL         string     `json:"photo_url" gorm:"size:512"`
	Annotations      JSONB      `json:"annotations" gorm:"type:jsonb"`
	Status           string     `json:"status" gorm:"size:16;not null;default:open"`
	ResolvedBy       *string    `json:"resolved_by" gorm:"size:32"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	VerificationNote string     `json:"verification_note" gorm:"type:text"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// 关联
	Sheet    *QCSheet `json:"sheet,omitempty" gorm:"foreignKey:SheetID"`
	Resolver *User    `json:"resolver,omitempty" gorm:"foreignKey:ResolvedBy"`
}

func (DefectLog) TableName() string {
	return "defect_logs"
}

// 质检结果
const (
	QCResultPending         = "pending"
	QCResultPass            = "pass"
	QCResultFail            = "fail"
	QCResultRework          = "rework"
	QCResultConditionalPass = "conditional_pass"
)

// 检查项状态
const (
	ChecklistItemPending = "pending"
	ChecklistItemPass    = "pass"
	ChecklistItemNG      = "ng"
)

// 缺陷严重度
const (
	DefectSeverityMinor    = "minor"
	DefectSeverityMajor    = "major"
	DefectSeverityCritical = "critical"
)

// 缺陷处理状态
const (
	DefectStatusOpen       = "open"
	DefectStatusInProgress = "in_progress"
	DefectStatusResolved   = "resolved"
	DefectStatusClosed     = "closed"
)
