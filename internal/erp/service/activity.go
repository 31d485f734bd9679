package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// ActivityRecorder 操作日志记录器，写失败只告警不阻断业务
type ActivityRecorder struct {
	repo   *repository.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityRecorder 创建操作日志记录器
func NewActivityRecorder(repo *repository.ActivityLogRepository, logger *zap.Logger) *ActivityRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRecorder{repo: repo, logger: logger}
}

// Record 记录一次操作
func (a *ActivityRecorder) Record(ctx context.Context, module, action, recordID, recordType, userID string, before, after interface{}) {
	if a == nil || a.repo == nil {
		return
	}

	log := &entity.ActivityLog{
		ID:         uuid.New().String()[:32],
		Module:     module,
		Action:     action,
		RecordID:   recordID,
		RecordType: recordType,
		Before:     toSnapshot(before),
		After:      toSnapshot(after),
		UserID:     userID,
		CreatedAt:  time.Now(),
	}

	if err := a.repo.Create(ctx, log); err != nil {
		a.logger.Warn("write activity log failed",
			zap.String("module", module),
			zap.String("action", action),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
}

// List 查询操作日志
func (a *ActivityRecorder) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.ActivityLog, int64, error) {
	return a.repo.List(ctx, page, pageSize, filters)
}

// ListByRecord 查询某条记录的操作日志
func (a *ActivityRecorder) ListByRecord(ctx context.Context, recordID string) ([]entity.ActivityLog, error) {
	return a.repo.ListByRecord(ctx, recordID)
}

func toSnapshot(v interface{}) entity.JSONB {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var snapshot entity.JSONB
	if err := json.Unmarshal(data, &snapshot); err == nil {
		return snapshot
	}
	// 非对象载荷（切片等）包一层再存
	var items interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return entity.JSONB{"items": items}
}
