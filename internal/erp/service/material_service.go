package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// MaterialService 面辅料采购服务
type MaterialService struct {
	materialRepo *repository.MaterialRepository
	vendorRepo   *repository.VendorRepository
	orderRepo    *repository.OrderRepository
	activity     *ActivityRecorder
}

// NewMaterialService 创建面辅料采购服务
func NewMaterialService(materialRepo *repository.MaterialRepository, vendorRepo *repository.VendorRepository, orderRepo *repository.OrderRepository, activity *ActivityRecorder) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		vendorRepo:   vendorRepo,
		orderRepo:    orderRepo,
		activity:     activity,
	}
}

// MaterialItemInput 请求明细输入
type MaterialItemInput struct {
	Name       string `json:"name" binding:"required"`
	Type       string `json:"type"`
	Spec       string `json:"spec"`
	Color      string `json:"color"`
	Size       string `json:"size"`
	QtyOrdered int    `json:"qty_ordered" binding:"required,gt=0"`
	Unit       string `json:"unit"`
	Notes      string `json:"notes"`
}

// CreateMaterialRequestInput 创建采购请求输入
type CreateMaterialRequestInput struct {
	VendorID   string              `json:"vendor_id" binding:"required"`
	OrderID    *string             `json:"order_id"`
	ExpectedAt *time.Time          `json:"expected_at"`
	Notes      string              `json:"notes"`
	Items      []MaterialItemInput `json:"items" binding:"required,min=1"`
}

// CreateRequest 创建采购请求
func (s *MaterialService) CreateRequest(ctx context.Context, userID string, input *CreateMaterialRequestInput) (*entity.MaterialRequest, error) {
	if _, err := s.vendorRepo.FindByID(ctx, input.VendorID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewValidationError("vendor not found: %s", input.VendorID)
		}
		return nil, err
	}
	if input.OrderID != nil {
		if _, err := s.orderRepo.FindByID(ctx, *input.OrderID); err != nil {
			if err == repository.ErrNotFound {
				return nil, NewValidationError("order not found: %s", *input.OrderID)
			}
			return nil, err
		}
	}

	code, err := s.materialRepo.GenerateRequestCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate request code: %w", err)
	}

	now := time.Now()
	request := &entity.MaterialRequest{
		ID:          uuid.New().String()[:32],
		RequestCode: code,
		VendorID:    input.VendorID,
		OrderID:     input.OrderID,
		Status:      entity.MaterialRequested,
		RequestedAt: now,
		ExpectedAt:  input.ExpectedAt,
		RequestedBy: userID,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	items := make([]entity.MaterialRequestItem, 0, len(input.Items))
	for _, in := range input.Items {
		unit := in.Unit
		if unit == "" {
			unit = "pcs"
		}
		items = append(items, entity.MaterialRequestItem{
			ID:         uuid.New().String()[:32],
			RequestID:  request.ID,
			Name:       in.Name,
			Type:       in.Type,
			Spec:       in.Spec,
			Color:      in.Color,
			Size:       in.Size,
			QtyOrdered: in.QtyOrdered,
			Unit:       unit,
			Notes:      in.Notes,
			CreatedAt:  now,
		})
	}

	if err := s.materialRepo.CreateRequest(ctx, request, items); err != nil {
		return nil, fmt.Errorf("create material request: %w", err)
	}

	s.activity.Record(ctx, "material", entity.ActivityCreated, request.ID, "MaterialRequest", userID, nil, request)

	return s.materialRepo.FindRequestByID(ctx, request.ID)
}

// Get 获取采购请求详情
func (s *MaterialService) Get(ctx context.Context, id string) (*entity.MaterialRequest, error) {
	return s.materialRepo.FindRequestByID(ctx, id)
}

// MaterialListResult 采购请求列表结果
type MaterialListResult struct {
	Items      []entity.MaterialRequest `json:"items"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

// List 获取采购请求列表
func (s *MaterialService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*MaterialListResult, error) {
	requests, total, err := s.materialRepo.ListRequests(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list material requests: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &MaterialListResult{
		Items:      requests,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// 物料状态机：到达态 -> 允许的来源态
var materialTransitions = map[string][]string{
	entity.MaterialInTransit: {entity.MaterialRequested},
	entity.MaterialArrived:   {entity.MaterialRequested, entity.MaterialInTransit},
	entity.MaterialQCPending: {entity.MaterialArrived},
	entity.MaterialStored:    {entity.MaterialQCPassed},
	entity.MaterialCancelled: {entity.MaterialRequested, entity.MaterialInTransit},
}

// MoveStatus 采购请求状态流转（质检结果态由DecideQC驱动）
func (s *MaterialService) MoveStatus(ctx context.Context, id string, userID string, target string) (*entity.MaterialRequest, error) {
	request, err := s.materialRepo.FindRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, ok := materialTransitions[target]
	if !ok {
		return nil, NewValidationError("unknown material status: %s", target)
	}

	valid := false
	for _, from := range allowed {
		if request.Status == from {
			valid = true
			break
		}
	}
	if !valid {
		return nil, NewStateError("cannot move material request from %s to %s", request.Status, target)
	}

	before := *request
	now := time.Now()
	updates := map[string]interface{}{"status": target, "updated_at": now}
	switch target {
	case entity.MaterialArrived:
		updates["arrived_at"] = now
	case entity.MaterialStored:
		updates["stored_at"] = now
	}

	if err := s.materialRepo.UpdateRequestStatus(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update material status: %w", err)
	}

	s.activity.Record(ctx, "material", entity.ActivityStatusMoved, id, "MaterialRequest", userID, &before, map[string]interface{}{"status": target})

	return s.materialRepo.FindRequestByID(ctx, id)
}

// ReceiveItemInput 收货数量回填
type ReceiveItemInput struct {
	QtyReceived int `json:"qty_received"`
	QtyRejected int `json:"qty_rejected"`
}

// ReceiveItem 回填明细收货数量
func (s *MaterialService) ReceiveItem(ctx context.Context, requestID, itemID string, input *ReceiveItemInput) (*entity.MaterialRequestItem, error) {
	item, err := s.materialRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.RequestID != requestID {
		return nil, repository.ErrNotFound
	}
	if input.QtyReceived < 0 || input.QtyRejected < 0 {
		return nil, NewValidationError("quantities cannot be negative")
	}

	item.QtyReceived = input.QtyReceived
	item.QtyRejected = input.QtyRejected

	if err := s.materialRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update material item: %w", err)
	}
	return item, nil
}

// MaterialQCItemInput 来料质检检查项输入
type MaterialQCItemInput struct {
	Parameter  string `json:"parameter" binding:"required"`
	QtyChecked int    `json:"qty_checked"`
	QtyNG      int    `json:"qty_ng"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// SubmitQC 提交来料质检单，请求必须处于qc_pending
func (s *MaterialService) SubmitQC(ctx context.Context, requestID string, inspectorID string, items []MaterialQCItemInput, notes string) (*entity.MaterialQCSheet, error) {
	request, err := s.materialRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != entity.MaterialQCPending {
		return nil, NewPreconditionError("material request %s is %s, expected qc_pending", request.RequestCode, request.Status)
	}

	if _, err := s.materialRepo.FindQCSheetByRequest(ctx, requestID); err == nil {
		return nil, NewStateError("material request %s already has a qc sheet", request.RequestCode)
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	sheet := &entity.MaterialQCSheet{
		ID:          uuid.New().String()[:32],
		RequestID:   requestID,
		Result:      entity.MaterialQCResultSubmitted,
		InspectorID: inspectorID,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	qcItems := make([]entity.MaterialQCItem, 0, len(items))
	for i, in := range items {
		status := in.Status
		if status == "" {
			status = entity.ChecklistItemPending
		}
		qcItems = append(qcItems, entity.MaterialQCItem{
			ID:         uuid.New().String()[:32],
			SheetID:    sheet.ID,
			Parameter:  in.Parameter,
			QtyChecked: in.QtyChecked,
			QtyNG:      in.QtyNG,
			Status:     status,
			Notes:      in.Notes,
			SortOrder:  i,
			CreatedAt:  now,
		})
	}

	if err := s.materialRepo.CreateQCSheet(ctx, sheet, qcItems); err != nil {
		return nil, fmt.Errorf("create material qc sheet: %w", err)
	}

	s.activity.Record(ctx, "material", entity.ActivitySubmitted, sheet.ID, "MaterialQCSheet", inspectorID, nil, sheet)

	return sheet, nil
}

// DecideQC 判定来料质检结果并联动请求状态
func (s *MaterialService) DecideQC(ctx context.Context, requestID string, userID string, result string, notes string) (*entity.MaterialQCSheet, error) {
	switch result {
	case entity.MaterialQCResultPass, entity.MaterialQCResultFail, entity.MaterialQCResultConditionalPass:
	default:
		return nil, NewValidationError("invalid qc result: %s", result)
	}

	sheet, err := s.materialRepo.FindQCSheetByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if sheet.Result != entity.MaterialQCResultSubmitted {
		return nil, NewStateError("material qc sheet is %s and can no longer be decided", sheet.Result)
	}

	now := time.Now()
	sheet.Result = result
	sheet.DecidedAt = &now
	if notes != "" {
		sheet.Notes = notes
	}
	sheet.UpdatedAt = now
	sheet.Items = nil
	sheet.Request = nil
	sheet.Inspector = nil

	if err := s.materialRepo.UpdateQCSheet(ctx, sheet); err != nil {
		return nil, fmt.Errorf("update material qc sheet: %w", err)
	}

	requestStatus := entity.MaterialQCPassed
	if result == entity.MaterialQCResultFail {
		requestStatus = entity.MaterialQCFailed
	}
	if err := s.materialRepo.UpdateRequestStatus(ctx, requestID, map[string]interface{}{
		"status":     requestStatus,
		"updated_at": now,
	}); err != nil {
		return nil, fmt.Errorf("update request status: %w", err)
	}

	s.activity.Record(ctx, "material", entity.ActivityStatusMoved, requestID, "MaterialRequest", userID, nil, map[string]interface{}{"status": requestStatus, "qc_result": result})

	return sheet, nil
}
