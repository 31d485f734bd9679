package entity

import (
	"time"
)

// Barcode 条码
type Barcode struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	OrderID       *string   `json:"order_id" gorm:"size:32;index"`
	Value         string    `json:"value" gorm:"size:64;not null;uniqueIndex"`
	Type          string    `json:"type" gorm:"size:20;not null;default:order"`
	ReferenceID   string    `json:"reference_id" gorm:"size:32"`
	ReferenceType string    `json:"reference_type" gorm:"size:32"`
	ImageURL      string    `json:"image_url" gorm:"size:512"`
	Active        bool      `json:"active" gorm:"default:true"`
	CreatedBy     string    `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time `json:"created_at"`

	// 关联
	Order  *Order         `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Events []BarcodeEvent `json:"events,omitempty" gorm:"foreignKey:BarcodeID;constraint:OnDelete:CASCADE"`
}

func (Barcode) TableName() string {
	return "barcodes"
}

// BarcodeEvent 条码扫描事件
type BarcodeEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	BarcodeID string    `json:"barcode_id" gorm:"size:32;not null;index"`
	Station   string    `json:"station" gorm:"size:64"`
	ScannedBy string    `json:"scanned_by" gorm:"size:32"`
	ScannedAt time.Time `json:"scanned_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Barcode *Barcode `json:"barcode,omitempty" gorm:"foreignKey:BarcodeID"`
	Scanner *User    `json:"scanner,omitempty" gorm:"foreignKey:ScannedBy"`
}

func (BarcodeEvent) TableName() string {
	return "barcode_events"
}

// 条码类型
const (
	BarcodeTypeOrder       = "order"
	BarcodeTypeTask        = "task"
	BarcodeTypeItem        = "item"
	BarcodeTypeBatch       = "batch"
	BarcodeTypeQCChecklist = "qc_checklist"
)
