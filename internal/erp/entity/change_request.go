package entity

import (
	"time"
)

// ChangeRequest 已批准DSO的变更请求
type ChangeRequest struct {
	ID                string          `json:"id" gorm:"primaryKey;size:32"`
	RequestCode       string          `json:"request_code" gorm:"size:32;not null;uniqueIndex"`
	DSOID             string          `json:"dso_id" gorm:"size:32;not null;index"`
	Reason            string          `json:"reason" gorm:"type:text;not null"`
	Description       string          `json:"description" gorm:"type:text"`
	Priority          string          `json:"priority" gorm:"size:16;not null;default:normal"`
	Changes           FieldChangeList `json:"changes" gorm:"type:jsonb"`
	AffectsProduction bool            `json:"affects_production" gorm:"default:false"`
	ProductionImpact  string          `json:"production_impact" gorm:"type:text"`
	Status            string          `json:"status" gorm:"size:16;not null;default:pending"`
	RequestedBy       string          `json:"requested_by" gorm:"size:32;not null"`
	DecidedBy         *string         `json:"decided_by" gorm:"size:32"`
	DecidedAt         *time.Time      `json:"decided_at"`
	DecisionNote      string          `json:"decision_note" gorm:"type:text"`
	ImplementedAt     *time.Time      `json:"implemented_at"`
	NewDSOID          *string         `json:"new_dso_id" gorm:"size:32"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// 关联
	DSO       *DSO  `json:"dso,omitempty" gorm:"foreignKey:DSOID"`
	NewDSO    *DSO  `json:"new_dso,omitempty" gorm:"foreignKey:NewDSOID"`
	Requester *User `json:"requester,omitempty" gorm:"foreignKey:RequestedBy"`
	Decider   *User `json:"decider,omitempty" gorm:"foreignKey:DecidedBy"`
}

func (ChangeRequest) TableName() string {
	return "change_requests"
}

// 变更请求状态（单向：pending→approved→implemented / pending→rejected）
const (
	ChangeRequestPending     = "pending"
	ChangeRequestApproved    = "approved"
	ChangeRequestRejected    = "rejected"
	ChangeRequestImplemented = "implemented"
)
