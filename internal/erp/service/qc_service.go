package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/shared/storage"
)

// QCService 质检服务
type QCService struct {
	qcRepo    *repository.QCRepository
	orderRepo *repository.OrderRepository
	prodRepo  *repository.ProductionRepository
	storage   *storage.Client
	activity  *ActivityRecorder
}

// NewQCService 创建质检服务
func NewQCService(qcRepo *repository.QCRepository, orderRepo *repository.OrderRepository, prodRepo *repository.ProductionRepository, storageClient *storage.Client, activity *ActivityRecorder) *QCService {
	return &QCService{
		qcRepo:    qcRepo,
		orderRepo: orderRepo,
		prodRepo:  prodRepo,
		storage:   storageClient,
		activity:  activity,
	}
}

// ChecklistItemInput 检查项输入
type ChecklistItemInput struct {
	Parameter  string `json:"parameter" binding:"required"`
	Standard   string `json:"standard"`
	QtyChecked int    `json:"qty_checked"`
	QtyNG      int    `json:"qty_ng"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// CreateQCSheetInput 创建质检单输入
type CreateQCSheetInput struct {
	OrderID        *string              `json:"order_id"`
	TaskID         *string              `json:"task_id"`
	Process        string               `json:"process"`
	Result         string               `json:"result"`
	QtyInspected   int                  `json:"qty_inspected"`
	QtyPassed      int                  `json:"qty_passed"`
	QtyFailed      int                  `json:"qty_failed"`
	Photos         entity.JSONBArray    `json:"photos"`
	BarcodeScanned bool                 `json:"barcode_scanned"`
	InspectedAt    *time.Time           `json:"inspected_at"`
	Notes          string               `json:"notes"`
	Checklist      []ChecklistItemInput `json:"checklist"`
}

func validQCResult(r string) bool {
	switch r {
	case entity.QCResultPending, entity.QCResultPass, entity.QCResultFail,
		entity.QCResultRework, entity.QCResultConditionalPass:
		return true
	}
	return false
}

func buildChecklistItems(sheetID string, inputs []ChecklistItemInput) []entity.QCChecklistItem {
	now := time.Now()
	items := make([]entity.QCChecklistItem, 0, len(inputs))
	for i, in := range inputs {
		status := in.Status
		if status == "" {
			status = entity.ChecklistItemPending
		}
		items = append(items, entity.QCChecklistItem{
			ID:         uuid.New().String()[:32],
			SheetID:    sheetID,
			Parameter:  in.Parameter,
			Standard:   in.Standard,
			QtyChecked: in.QtyChecked,
			QtyNG:      in.QtyNG,
			Status:     status,
			Notes:      in.Notes,
			SortOrder:  i,
			CreatedAt:  now,
		})
	}
	return items
}

// CreateSheet 创建质检单
func (s *QCService) CreateSheet(ctx context.Context, inspectorID string, input *CreateQCSheetInput) (*entity.QCSheet, error) {
	if input.QtyInspected < 0 || input.QtyPassed < 0 || input.QtyFailed < 0 {
		return nil, NewValidationError("quantities cannot be negative")
	}
	if input.QtyPassed+input.QtyFailed > input.QtyInspected {
		return nil, NewValidationError("passed + failed cannot exceed inspected")
	}

	if input.OrderID != nil {
		if _, err := s.orderRepo.FindByID(ctx, *input.OrderID); err != nil {
			if err == repository.ErrNotFound {
				return nil, NewValidationError("order not found: %s", *input.OrderID)
			}
			return nil, err
		}
	}
	if input.TaskID != nil {
		if _, err := s.prodRepo.FindTaskByID(ctx, *input.TaskID); err != nil {
			if err == repository.ErrNotFound {
				return nil, NewValidationError("production task not found: %s", *input.TaskID)
			}
			return nil, err
		}
	}

	result := input.Result
	if result == "" {
		result = entity.QCResultPending
	}
	if !validQCResult(result) {
		return nil, NewValidationError("invalid result: %s", result)
	}

	code, err := s.qcRepo.GenerateInspectionCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate inspection code: %w", err)
	}

	inspectedAt := time.Now()
	if input.InspectedAt != nil {
		inspectedAt = *input.InspectedAt
	}

	now := time.Now()
	sheet := &entity.QCSheet{
		ID:             uuid.New().String()[:32],
		InspectionCode: code,
		OrderID:        input.OrderID,
		TaskID:         input.TaskID,
		Process:        input.Process,
		Result:         result,
		QtyInspected:   input.QtyInspected,
		QtyPassed:      input.QtyPassed,
		QtyFailed:      input.QtyFailed,
		Photos:         input.Photos,
		InspectorID:    inspectorID,
		BarcodeScanned: input.BarcodeScanned,
		InspectedAt:    inspectedAt,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	items := buildChecklistItems(sheet.ID, input.Checklist)

	if err := s.qcRepo.CreateSheet(ctx, sheet, items); err != nil {
		return nil, fmt.Errorf("create qc sheet: %w", err)
	}

	s.activity.Record(ctx, "qc", entity.ActivityCreated, sheet.ID, "QCSheet", inspectorID, nil, sheet)

	return s.qcRepo.FindSheetByID(ctx, sheet.ID)
}

// UpdateSheetInput 更新质检单输入
type UpdateSheetInput struct {
	Process      *string              `json:"process"`
	Result       *string              `json:"result"`
	QtyInspected *int                 `json:"qty_inspected"`
	QtyPassed    *int                 `json:"qty_passed"`
	QtyFailed    *int                 `json:"qty_failed"`
	Photos       entity.JSONBArray    `json:"photos"`
	Notes        *string              `json:"notes"`
	Checklist    []ChecklistItemInput `json:"checklist"`
}

// UpdateSheet 更新质检单（含整体替换检查项）
func (s *QCService) UpdateSheet(ctx context.Context, id string, userID string, input *UpdateSheetInput) (*entity.QCSheet, error) {
	sheet, err := s.qcRepo.FindSheetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *sheet

	if input.Process != nil {
		sheet.Process = *input.Process
	}
	if input.Result != nil {
		if !validQCResult(*input.Result) {
			return nil, NewValidationError("invalid result: %s", *input.Result)
		}
		sheet.Result = *input.Result
	}
	if input.QtyInspected != nil {
		sheet.QtyInspected = *input.QtyInspected
	}
	if input.QtyPassed != nil {
		sheet.QtyPassed = *input.QtyPassed
	}
	if input.QtyFailed != nil {
		sheet.QtyFailed = *input.QtyFailed
	}
	if input.Photos != nil {
		sheet.Photos = input.Photos
	}
	if input.Notes != nil {
		sheet.Notes = *input.Notes
	}
	if sheet.QtyInspected < 0 || sheet.QtyPassed < 0 || sheet.QtyFailed < 0 {
		return nil, NewValidationError("quantities cannot be negative")
	}
	if sheet.QtyPassed+sheet.QtyFailed > sheet.QtyInspected {
		return nil, NewValidationError("passed + failed cannot exceed inspected")
	}
	sheet.UpdatedAt = time.Now()
	sheet.ChecklistItems = nil
	sheet.DefectLogs = nil

	if err := s.qcRepo.UpdateSheet(ctx, sheet); err != nil {
		return nil, fmt.Errorf("update qc sheet: %w", err)
	}

	if input.Checklist != nil {
		items := buildChecklistItems(sheet.ID, input.Checklist)
		if err := s.qcRepo.ReplaceChecklist(ctx, sheet.ID, items); err != nil {
			return nil, fmt.Errorf("replace checklist: %w", err)
		}
	}

	s.activity.Record(ctx, "qc", entity.ActivityUpdated, sheet.ID, "QCSheet", userID, &before, sheet)

	return s.qcRepo.FindSheetByID(ctx, sheet.ID)
}

// GetSheet 获取质检单详情
func (s *QCService) GetSheet(ctx context.Context, id string) (*entity.QCSheet, error) {
	return s.qcRepo.FindSheetByID(ctx, id)
}

// SheetListResult 质检单列表结果
type SheetListResult struct {
	Items      []entity.QCSheet `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// ListSheets 获取质检单列表
func (s *QCService) ListSheets(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*SheetListResult, error) {
	sheets, total, err := s.qcRepo.ListSheets(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list qc sheets: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &SheetListResult{
		Items:      sheets,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UploadPhoto 上传质检照片并追加到photos
func (s *QCService) UploadPhoto(ctx context.Context, sheetID string, reader io.Reader, size int64, fileName, contentType string) (*storage.UploadResult, error) {
	sheet, err := s.qcRepo.FindSheetByID(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	result := s.storage.Upload(ctx, reader, size, "qc-photos", fileName, contentType)
	if !result.Success {
		return result, nil
	}

	sheet.Photos = append(sheet.Photos, result.URL)
	sheet.UpdatedAt = time.Now()
	sheet.ChecklistItems = nil
	sheet.DefectLogs = nil
	if err := s.qcRepo.UpdateSheet(ctx, sheet); err != nil {
		return result, fmt.Errorf("attach photo: %w", err)
	}

	return result, nil
}

// ============================================================
// 缺陷记录
// ============================================================

// CreateDefectInput 创建缺陷输入
type CreateDefectInput struct {
	SheetID     string       `json:"sheet_id" binding:"required"`
	DefectType  string       `json:"defect_type" binding:"required"`
	Category    string       `json:"category"`
	Severity    string       `json:"severity"`
	QtyDefect   int          `json:"qty_defect"`
	Station     string       `json:"station"`
	PhotoURL    string       `json:"photo_url"`
	Annotations entity.JSONB `json:"annotations"`
}

// CreateDefect 创建缺陷记录
func (s *QCService) CreateDefect(ctx context.Context, userID string, input *CreateDefectInput) (*entity.DefectLog, error) {
	if _, err := s.qcRepo.FindSheetByID(ctx, input.SheetID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewValidationError("qc sheet not found: %s", input.SheetID)
		}
		return nil, err
	}

	severity := input.Severity
	if severity == "" {
		severity = entity.DefectSeverityMinor
	}
	switch severity {
	case entity.DefectSeverityMinor, entity.DefectSeverityMajor, entity.DefectSeverityCritical:
	default:
		return nil, NewValidationError("invalid severity: %s", severity)
	}

	now := time.Now()
	defect := &entity.DefectLog{
		ID:          uuid.New().String()[:32],
		SheetID:     input.SheetID,
		DefectType:  input.DefectType,
		Category:    input.Category,
		Severity:    severity,
		QtyDefect:   input.QtyDefect,
		Station:     input.Station,
		PhotoURL:    input.PhotoURL,
		Annotations: input.Annotations,
		Status:      entity.DefectStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.qcRepo.CreateDefect(ctx, defect); err != nil {
		return nil, fmt.Errorf("create defect: %w", err)
	}

	s.activity.Record(ctx, "qc", entity.ActivityCreated, defect.ID, "DefectLog", userID, nil, defect)

	return defect, nil
}

// 缺陷状态机：到达态 -> 允许的来源态
var defectTransitions = map[string][]string{
	entity.DefectStatusInProgress: {entity.DefectStatusOpen},
	entity.DefectStatusResolved:   {entity.DefectStatusOpen, entity.DefectStatusInProgress},
	entity.DefectStatusClosed:     {entity.DefectStatusResolved},
}

// MoveDefectStatus 缺陷处理流转 open→in_progress→resolved→closed
func (s *QCService) MoveDefectStatus(ctx context.Context, id string, userID string, target string, verificationNote string) (*entity.DefectLog, error) {
	defect, err := s.qcRepo.FindDefectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, ok := defectTransitions[target]
	if !ok {
		return nil, NewValidationError("unknown defect status: %s", target)
	}

	valid := false
	for _, from := range allowed {
		if defect.Status == from {
			valid = true
			break
		}
	}
	if !valid {
		return nil, NewStateError("cannot move defect from %s to %s", defect.Status, target)
	}

	before := *defect
	now := time.Now()
	defect.Status = target
	if target == entity.DefectStatusResolved {
		defect.ResolvedBy = &userID
		defect.ResolvedAt = &now
	}
	if verificationNote != "" {
		defect.VerificationNote = verificationNote
	}
	defect.UpdatedAt = now
	defect.Sheet = nil
	defect.Resolver = nil

	if err := s.qcRepo.UpdateDefect(ctx, defect); err != nil {
		return nil, fmt.Errorf("update defect: %w", err)
	}

	s.activity.Record(ctx, "qc", entity.ActivityStatusMoved, defect.ID, "DefectLog", userID, &before, defect)

	return defect, nil
}

// GetDefect 获取缺陷详情
func (s *QCService) GetDefect(ctx context.Context, id string) (*entity.DefectLog, error) {
	return s.qcRepo.FindDefectByID(ctx, id)
}

// DefectListResult 缺陷列表结果
type DefectListResult struct {
	Items      []entity.DefectLog `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// ListDefects 获取缺陷列表
func (s *QCService) ListDefects(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*DefectListResult, error) {
	defects, total, err := s.qcRepo.ListDefects(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list defects: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &DefectListResult{
		Items:      defects,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
