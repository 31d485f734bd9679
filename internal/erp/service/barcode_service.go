package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/shared/storage"
)

// BarcodeService 条码服务
type BarcodeService struct {
	barcodeRepo *repository.BarcodeRepository
	orderRepo   *repository.OrderRepository
	storage     *storage.Client
	activity    *ActivityRecorder
}

// NewBarcodeService 创建条码服务
func NewBarcodeService(barcodeRepo *repository.BarcodeRepository, orderRepo *repository.OrderRepository, storageClient *storage.Client, activity *ActivityRecorder) *BarcodeService {
	return &BarcodeService{
		barcodeRepo: barcodeRepo,
		orderRepo:   orderRepo,
		storage:     storageClient,
		activity:    activity,
	}
}

func validBarcodeType(t string) bool {
	switch t {
	case entity.BarcodeTypeOrder, entity.BarcodeTypeTask, entity.BarcodeTypeItem,
		entity.BarcodeTypeBatch, entity.BarcodeTypeQCChecklist:
		return true
	}
	return false
}

// GenerateValue 生成条码值：前缀+时间戳+引用片段
func GenerateValue(barcodeType, referenceID string) string {
	prefix := strings.ToUpper(barcodeType)
	ref := referenceID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), strings.ToUpper(ref))
}

// CreateBarcodeInput 创建条码输入
type CreateBarcodeInput struct {
	OrderID       *string `json:"order_id"`
	Type          string  `json:"type" binding:"required"`
	ReferenceID   string  `json:"reference_id"`
	ReferenceType string  `json:"reference_type"`
}

// Create 创建条码
func (s *BarcodeService) Create(ctx context.Context, userID string, input *CreateBarcodeInput) (*entity.Barcode, error) {
	if !validBarcodeType(input.Type) {
		return nil, NewValidationError("invalid barcode type: %s", input.Type)
	}
	if input.OrderID != nil {
		if _, err := s.orderRepo.FindByID(ctx, *input.OrderID); err != nil {
			if err == repository.ErrNotFound {
				return nil, NewValidationError("order not found: %s", *input.OrderID)
			}
			return nil, err
		}
	}

	ref := input.ReferenceID
	if ref == "" && input.OrderID != nil {
		ref = *input.OrderID
	}

	barcode := &entity.Barcode{
		ID:            uuid.New().String()[:32],
		OrderID:       input.OrderID,
		Value:         GenerateValue(input.Type, ref),
		Type:          input.Type,
		ReferenceID:   input.ReferenceID,
		ReferenceType: input.ReferenceType,
		Active:        true,
		CreatedBy:     userID,
		CreatedAt:     time.Now(),
	}

	if err := s.barcodeRepo.Create(ctx, barcode); err != nil {
		return nil, fmt.Errorf("create barcode: %w", err)
	}

	s.activity.Record(ctx, "barcode", entity.ActivityCreated, barcode.ID, "Barcode", userID, nil, barcode)

	return barcode, nil
}

// Get 获取条码详情
func (s *BarcodeService) Get(ctx context.Context, id string) (*entity.Barcode, error) {
	return s.barcodeRepo.FindByID(ctx, id)
}

// Lookup 根据条码值查找
func (s *BarcodeService) Lookup(ctx context.Context, value string) (*entity.Barcode, error) {
	return s.barcodeRepo.FindByValue(ctx, value)
}

// BarcodeListResult 条码列表结果
type BarcodeListResult struct {
	Items      []entity.Barcode `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// List 获取条码列表
func (s *BarcodeService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*BarcodeListResult, error) {
	barcodes, total, err := s.barcodeRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list barcodes: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &BarcodeListResult{
		Items:      barcodes,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Deactivate 停用条码
func (s *BarcodeService) Deactivate(ctx context.Context, id string, userID string) (*entity.Barcode, error) {
	barcode, err := s.barcodeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !barcode.Active {
		return barcode, nil
	}

	barcode.Active = false
	barcode.Events = nil
	barcode.Order = nil
	if err := s.barcodeRepo.Update(ctx, barcode); err != nil {
		return nil, fmt.Errorf("deactivate barcode: %w", err)
	}

	s.activity.Record(ctx, "barcode", entity.ActivityUpdated, barcode.ID, "Barcode", userID, nil, barcode)

	return barcode, nil
}

// UploadLabel 上传条码标签图
func (s *BarcodeService) UploadLabel(ctx context.Context, id string, reader io.Reader, size int64, fileName, contentType string) (*storage.UploadResult, error) {
	barcode, err := s.barcodeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.storage.Upload(ctx, reader, size, "barcode-labels", fileName, contentType)
	if !result.Success {
		return result, nil
	}

	barcode.ImageURL = result.URL
	barcode.Events = nil
	barcode.Order = nil
	if err := s.barcodeRepo.Update(ctx, barcode); err != nil {
		return result, fmt.Errorf("attach label image: %w", err)
	}

	return result, nil
}

// ScanInput 扫码输入
type ScanInput struct {
	Value   string `json:"value" binding:"required"`
	Station string `json:"station"`
	Notes   string `json:"notes"`
}

// ScanResult 扫码结果
type ScanResult struct {
	Barcode *entity.Barcode      `json:"barcode"`
	Event   *entity.BarcodeEvent `json:"event"`
}

// Scan 记录扫码事件并返回条码对应的记录
func (s *BarcodeService) Scan(ctx context.Context, userID string, input *ScanInput) (*ScanResult, error) {
	barcode, err := s.barcodeRepo.FindByValue(ctx, input.Value)
	if err != nil {
		return nil, err
	}
	if !barcode.Active {
		return nil, NewStateError("barcode %s is inactive", barcode.Value)
	}

	event := &entity.BarcodeEvent{
		ID:        uuid.New().String()[:32],
		BarcodeID: barcode.ID,
		Station:   input.Station,
		ScannedBy: userID,
		ScannedAt: time.Now(),
		Notes:     input.Notes,
	}

	if err := s.barcodeRepo.AddEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("record scan event: %w", err)
	}

	return &ScanResult{Barcode: barcode, Event: event}, nil
}

// ListEvents 获取条码扫码历史
func (s *BarcodeService) ListEvents(ctx context.Context, barcodeID string) ([]entity.BarcodeEvent, error) {
	if _, err := s.barcodeRepo.FindByID(ctx, barcodeID); err != nil {
		return nil, err
	}
	return s.barcodeRepo.ListEvents(ctx, barcodeID)
}
