package entity

import (
	"time"
)

// Customer 客户主数据
type Customer struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Name          string    `json:"name" gorm:"size:128;not null"`
	ContactPerson string    `json:"contact_person" gorm:"size:128"`
	Phone         string    `json:"phone" gorm:"size:32"`
	Email         string    `json:"email" gorm:"size:128"`
	Address       string    `json:"address" gorm:"type:text"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// Vendor 面辅料供应商
type Vendor struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Name          string    `json:"name" gorm:"size:128;not null"`
	MaterialTypes string    `json:"material_types" gorm:"size:256"`
	ContactPerson string    `json:"contact_person" gorm:"size:128"`
	Phone         string    `json:"phone" gorm:"size:32"`
	Email         string    `json:"email" gorm:"size:128"`
	Address       string    `json:"address" gorm:"type:text"`
	LeadTimeDays  int       `json:"lead_time_days" gorm:"default:0"`
	Active        bool      `json:"active" gorm:"default:true"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}
