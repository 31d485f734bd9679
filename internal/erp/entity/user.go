package entity

import (
	"time"
)

// User 系统登录用户
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	Email        string     `json:"email" gorm:"size:128"`
	Phone        string     `json:"phone" gorm:"size:32"`
	Role         string     `json:"role" gorm:"size:32;not null;default:viewer"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Employee 车间员工（非登录账号）
type Employee struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	EmployeeNo string    `json:"employee_no" gorm:"size:32;uniqueIndex"`
	Name       string    `json:"name" gorm:"size:128;not null"`
	Station    string    `json:"station" gorm:"size:64"`
	Line       string    `json:"line" gorm:"size:32"`
	Active     bool      `json:"active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// 用户角色
const (
	RoleOwner        = "owner"
	RoleAdmin        = "admin"
	RoleAdminProd    = "admin_produksi"
	RoleQCInspector  = "qc_inspector"
	RoleViewer       = "viewer"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)
