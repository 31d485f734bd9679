package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// ChangeRequestService 变更请求工作流服务
type ChangeRequestService struct {
	crRepo   *repository.ChangeRequestRepository
	dsoRepo  *repository.DSORepository
	activity *ActivityRecorder
}

// NewChangeRequestService 创建变更请求服务
func NewChangeRequestService(crRepo *repository.ChangeRequestRepository, dsoRepo *repository.DSORepository, activity *ActivityRecorder) *ChangeRequestService {
	return &ChangeRequestService{
		crRepo:   crRepo,
		dsoRepo:  dsoRepo,
		activity: activity,
	}
}

// CreateChangeRequestInput 创建变更请求输入
type CreateChangeRequestInput struct {
	DSOID             string                 `json:"dso_id" binding:"required"`
	Reason            string                 `json:"reason" binding:"required"`
	Description       string                 `json:"description"`
	Priority          string                 `json:"priority"`
	Changes           entity.FieldChangeList `json:"changes"`
	AffectsProduction bool                   `json:"affects_production"`
	ProductionImpact  string                 `json:"production_impact"`
}

// ChangeRequestListResult 变更请求列表结果
type ChangeRequestListResult struct {
	Items      []entity.ChangeRequest `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// List 获取变更请求列表
func (s *ChangeRequestService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*ChangeRequestListResult, error) {
	crs, total, err := s.crRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &ChangeRequestListResult{
		Items:      crs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Get 获取变更请求详情
func (s *ChangeRequestService) Get(ctx context.Context, id string) (*entity.ChangeRequest, error) {
	return s.crRepo.FindByID(ctx, id)
}

// ListByDSO 获取DSO的变更请求
func (s *ChangeRequestService) ListByDSO(ctx context.Context, dsoID string) ([]entity.ChangeRequest, error) {
	return s.crRepo.ListByDSO(ctx, dsoID)
}

// Create 创建变更请求，目标DSO必须是approved
func (s *ChangeRequestService) Create(ctx context.Context, userID string, input *CreateChangeRequestInput) (*entity.ChangeRequest, error) {
	dso, err := s.dsoRepo.FindByID(ctx, input.DSOID)
	if err != nil {
		return nil, err
	}

	if dso.Status != entity.DSOStatusApproved {
		return nil, NewPreconditionError("change requests can only target approved DSOs, v%d is %s", dso.Version, dso.Status)
	}

	code, err := s.crRepo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate request code: %w", err)
	}

	priority := input.Priority
	if priority == "" {
		priority = entity.OrderPriorityNormal
	}

	now := time.Now()
	cr := &entity.ChangeRequest{
		ID:                uuid.New().String()[:32],
		RequestCode:       code,
		DSOID:             input.DSOID,
		Reason:            input.Reason,
		Description:       input.Description,
		Priority:          priority,
		Changes:           input.Changes,
		AffectsProduction: input.AffectsProduction,
		ProductionImpact:  input.ProductionImpact,
		Status:            entity.ChangeRequestPending,
		RequestedBy:       userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.crRepo.Create(ctx, cr); err != nil {
		return nil, fmt.Errorf("create change request: %w", err)
	}

	s.activity.Record(ctx, "change_request", entity.ActivityCreated, cr.ID, "ChangeRequest", userID, nil, cr)

	return cr, nil
}

// Approve 批准 pending→approved，单向
func (s *ChangeRequestService) Approve(ctx context.Context, id string, actorID string, note string) (*entity.ChangeRequest, error) {
	return s.decide(ctx, id, entity.ChangeRequestApproved, actorID, note)
}

// Reject 驳回 pending→rejected，单向
func (s *ChangeRequestService) Reject(ctx context.Context, id string, actorID string, note string) (*entity.ChangeRequest, error) {
	return s.decide(ctx, id, entity.ChangeRequestRejected, actorID, note)
}

func (s *ChangeRequestService) decide(ctx context.Context, id, status, actorID, note string) (*entity.ChangeRequest, error) {
	cr, err := s.crRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	moved, err := s.crRepo.Decide(ctx, id, status, actorID, note)
	if err != nil {
		return nil, fmt.Errorf("decide change request: %w", err)
	}
	if !moved {
		return nil, NewStateError("change request %s is %s and can no longer be decided", cr.RequestCode, cr.Status)
	}

	action := entity.ActivityApproved
	if status == entity.ChangeRequestRejected {
		action = entity.ActivityRejected
	}
	s.activity.Record(ctx, "change_request", action, id, "ChangeRequest", actorID, cr, nil)

	return s.crRepo.FindByID(ctx, id)
}

// Implement 落实 approved→implemented，终态；newDSOID指向实现变更的新DSO版本
func (s *ChangeRequestService) Implement(ctx context.Context, id string, actorID string, newDSOID string) (*entity.ChangeRequest, error) {
	if newDSOID == "" {
		return nil, NewValidationError("new_dso_id is required")
	}

	cr, err := s.crRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.dsoRepo.FindByID(ctx, newDSOID); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewValidationError("new DSO not found: %s", newDSOID)
		}
		return nil, err
	}

	moved, err := s.crRepo.Implement(ctx, id, newDSOID)
	if err != nil {
		return nil, fmt.Errorf("implement change request: %w", err)
	}
	if !moved {
		return nil, NewStateError("change request %s is %s, only approved requests can be implemented", cr.RequestCode, cr.Status)
	}

	s.activity.Record(ctx, "change_request", entity.ActivityImplemented, id, "ChangeRequest", actorID, cr, nil)

	return s.crRepo.FindByID(ctx, id)
}
