package entity

import (
	"time"
)

// SOPDocument 标准作业程序文档
type SOPDocument struct {
	ID             string     `json:"id" gorm:"primaryKey;size:32"`
	DocumentCode   string     `json:"document_code" gorm:"size:64;not null;uniqueIndex"`
	Title          string     `json:"title" gorm:"size:256;not null"`
	Category       string     `json:"category" gorm:"size:64"`
	Version        string     `json:"version" gorm:"size:16;not null;default:v1.0"`
	RevisionNumber int        `json:"revision_number" gorm:"not null;default:1"`
	RevisionDate   *time.Time `json:"revision_date"`
	FileURL        string     `json:"file_url" gorm:"size:512"`
	FileType       string     `json:"file_type" gorm:"size:32"`
	FileSize       int64      `json:"file_size" gorm:"default:0"`
	Active         bool       `json:"active" gorm:"default:true"`
	EffectiveDate  *time.Time `json:"effective_date"`
	ReviewDate     *time.Time `json:"review_date"`
	CreatedBy      string     `json:"created_by" gorm:"size:32"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// 关联
	Acknowledgments []SOPAcknowledgment `json:"acknowledgments,omitempty" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

func (SOPDocument) TableName() string {
	return "sop_documents"
}

// SOPAcknowledgment SOP阅读确认记录
type SOPAcknowledgment struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:32"`
	DocumentID          string    `json:"document_id" gorm:"size:32;not null;uniqueIndex:uniq_sop_ack_user,priority:1"`
	UserID              string    `json:"user_id" gorm:"size:32;not null;uniqueIndex:uniq_sop_ack_user,priority:2"`
	VersionAcknowledged string    `json:"version_acknowledged" gorm:"size:16;not null;uniqueIndex:uniq_sop_ack_user,priority:3"`
	IPAddress           string    `json:"ip_address" gorm:"size:64"`
	UserAgent           string    `json:"user_agent" gorm:"size:256"`
	AcknowledgedAt      time.Time `json:"acknowledged_at"`

	// 关联
	Document *SOPDocument `json:"document,omitempty" gorm:"foreignKey:DocumentID"`
	User     *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (SOPAcknowledgment) TableName() string {
	return "sop_acknowledgments"
}
