package entity

import (
	"time"
)

// ActivityLog 操作日志
type ActivityLog struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	Module     string    `json:"module" gorm:"size:32;not null;index"`
	Action     string    `json:"action" gorm:"size:32;not null"`
	RecordID   string    `json:"record_id" gorm:"size:32;index"`
	RecordType string    `json:"record_type" gorm:"size:64"`
	Before     JSONB     `json:"before" gorm:"type:jsonb"`
	After      JSONB     `json:"after" gorm:"type:jsonb"`
	UserID     string    `json:"user_id" gorm:"size:32"`
	IPAddress  string    `json:"ip_address" gorm:"size:64"`
	UserAgent  string    `json:"user_agent" gorm:"size:256"`
	CreatedAt  time.Time `json:"created_at"`

	// 关联
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// 操作日志动作
const (
	ActivityCreated     = "created"
	ActivityUpdated     = "updated"
	ActivityDeleted     = "deleted"
	ActivitySubmitted   = "submitted"
	ActivityApproved    = "approved"
	ActivityRejected    = "rejected"
	ActivityImplemented = "implemented"
	ActivityStatusMoved = "status_moved"
)
