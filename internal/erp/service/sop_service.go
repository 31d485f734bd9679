package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/shared/storage"
)

// SOPService SOP文档服务
type SOPService struct {
	sopRepo  *repository.SOPRepository
	userRepo *repository.UserRepository
	storage  *storage.Client
	activity *ActivityRecorder
}

// NewSOPService 创建SOP文档服务
func NewSOPService(sopRepo *repository.SOPRepository, userRepo *repository.UserRepository, storageClient *storage.Client, activity *ActivityRecorder) *SOPService {
	return &SOPService{
		sopRepo:  sopRepo,
		userRepo: userRepo,
		storage:  storageClient,
		activity: activity,
	}
}

// CreateSOPInput 创建SOP文档输入
type CreateSOPInput struct {
	DocumentCode  string     `json:"document_code" binding:"required"`
	Title         string     `json:"title" binding:"required"`
	Category      string     `json:"category"`
	EffectiveDate *time.Time `json:"effective_date"`
	ReviewDate    *time.Time `json:"review_date"`
}

// Create 创建SOP文档
func (s *SOPService) Create(ctx context.Context, userID string, input *CreateSOPInput) (*entity.SOPDocument, error) {
	now := time.Now()
	doc := &entity.SOPDocument{
		ID:             uuid.New().String()[:32],
		DocumentCode:   input.DocumentCode,
		Title:          input.Title,
		Category:       input.Category,
		Version:        "v1.0",
		RevisionNumber: 1,
		Active:         true,
		EffectiveDate:  input.EffectiveDate,
		ReviewDate:     input.ReviewDate,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.sopRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create sop document: %w", err)
	}

	s.activity.Record(ctx, "sop", entity.ActivityCreated, doc.ID, "SOPDocument", userID, nil, doc)

	return doc, nil
}

// Get 获取SOP文档详情
func (s *SOPService) Get(ctx context.Context, id string) (*entity.SOPDocument, error) {
	return s.sopRepo.FindByID(ctx, id)
}

// SOPListResult SOP文档列表结果
type SOPListResult struct {
	Items      []entity.SOPDocument `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// List 获取SOP文档列表
func (s *SOPService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*SOPListResult, error) {
	docs, total, err := s.sopRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list sop documents: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &SOPListResult{
		Items:      docs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateSOPInput 更新SOP文档输入
type UpdateSOPInput struct {
	Title         string     `json:"title"`
	Category      string     `json:"category"`
	Active        *bool      `json:"active"`
	EffectiveDate *time.Time `json:"effective_date"`
	ReviewDate    *time.Time `json:"review_date"`
}

// Update 更新SOP文档元数据
func (s *SOPService) Update(ctx context.Context, id string, userID string, input *UpdateSOPInput) (*entity.SOPDocument, error) {
	doc, err := s.sopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *doc
	if input.Title != "" {
		doc.Title = input.Title
	}
	if input.Category != "" {
		doc.Category = input.Category
	}
	if input.Active != nil {
		doc.Active = *input.Active
	}
	if input.EffectiveDate != nil {
		doc.EffectiveDate = input.EffectiveDate
	}
	if input.ReviewDate != nil {
		doc.ReviewDate = input.ReviewDate
	}
	doc.UpdatedAt = time.Now()
	doc.Acknowledgments = nil

	if err := s.sopRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update sop document: %w", err)
	}

	s.activity.Record(ctx, "sop", entity.ActivityUpdated, doc.ID, "SOPDocument", userID, &before, doc)

	return doc, nil
}

// UploadRevision 上传新修订文件，版本号递增
func (s *SOPService) UploadRevision(ctx context.Context, id string, userID string, reader io.Reader, size int64, fileName, contentType string) (*entity.SOPDocument, *storage.UploadResult, error) {
	doc, err := s.sopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result := s.storage.Upload(ctx, reader, size, "sop-documents", fileName, contentType)
	if !result.Success {
		return nil, result, nil
	}

	now := time.Now()
	doc.RevisionNumber++
	doc.Version = fmt.Sprintf("v%d.0", doc.RevisionNumber)
	doc.RevisionDate = &now
	doc.FileURL = result.URL
	doc.FileType = strings.TrimPrefix(filepath.Ext(fileName), ".")
	doc.FileSize = size
	doc.UpdatedAt = now
	doc.Acknowledgments = nil

	if err := s.sopRepo.Update(ctx, doc); err != nil {
		return nil, result, fmt.Errorf("update sop document: %w", err)
	}

	s.activity.Record(ctx, "sop", entity.ActivityUpdated, doc.ID, "SOPDocument", userID, nil, doc)

	return doc, result, nil
}

// Acknowledge 签收当前版本，对同一用户同一版本幂等
func (s *SOPService) Acknowledge(ctx context.Context, id string, userID string, ipAddress, userAgent string) (*entity.SOPAcknowledgment, error) {
	doc, err := s.sopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.Active {
		return nil, NewStateError("document %s is inactive", doc.DocumentCode)
	}

	if existing, err := s.sopRepo.FindAcknowledgment(ctx, id, userID, doc.Version); err == nil {
		return existing, nil
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	ack := &entity.SOPAcknowledgment{
		ID:                  uuid.New().String()[:32],
		DocumentID:          id,
		UserID:              userID,
		VersionAcknowledged: doc.Version,
		IPAddress:           ipAddress,
		UserAgent:           userAgent,
		AcknowledgedAt:      time.Now(),
	}

	if err := s.sopRepo.CreateAcknowledgment(ctx, ack); err != nil {
		return nil, fmt.Errorf("create acknowledgment: %w", err)
	}

	return ack, nil
}

// AcknowledgmentStatus 文档签收进度
type AcknowledgmentStatus struct {
	DocumentID   string                     `json:"document_id"`
	Version      string                     `json:"version"`
	Acknowledged int64                      `json:"acknowledged"`
	Records      []entity.SOPAcknowledgment `json:"records"`
}

// GetAcknowledgments 获取文档签收进度
func (s *SOPService) GetAcknowledgments(ctx context.Context, id string) (*AcknowledgmentStatus, error) {
	doc, err := s.sopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.sopRepo.CountAcknowledged(ctx, id, doc.Version)
	if err != nil {
		return nil, err
	}
	records, err := s.sopRepo.ListAcknowledgments(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AcknowledgmentStatus{
		DocumentID:   id,
		Version:      doc.Version,
		Acknowledged: count,
		Records:      records,
	}, nil
}
