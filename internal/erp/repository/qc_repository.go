package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"gorm.io/gorm"
)

// QCRepository 质检仓储
type QCRepository struct {
	db *gorm.DB
}

// NewQCRepository 创建质检仓储
func NewQCRepository(db *gorm.DB) *QCRepository {
	return &QCRepository{db: db}
}

// FindSheetByID 根据ID查找质检单
func (r *QCRepository) FindSheetByID(ctx context.Context, id string) (*entity.QCSheet, error) {
	var sheet entity.QCSheet
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Task").
		Preload("Inspector").
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("DefectLogs").
		Where("id = ?", id).
		First(&sheet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sheet, nil
}

// CreateSheet 创建质检单（含检查项子表）
func (r *QCRepository) CreateSheet(ctx context.Context, sheet *entity.QCSheet, items []entity.QCChecklistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sheet).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// UpdateSheet 更新质检单
func (r *QCRepository) UpdateSheet(ctx context.Context, sheet *entity.QCSheet) error {
	return r.db.WithContext(ctx).Save(sheet).Error
}

// ReplaceChecklist 整体替换质检单的检查项
func (r *QCRepository) ReplaceChecklist(ctx context.Context, sheetID string, items []entity.QCChecklistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.QCChecklistItem{}, "sheet_id = ?", sheetID).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

// ListSheets 获取质检单列表
func (r *QCRepository) ListSheets(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.QCSheet, int64, error) {
	var sheets []entity.QCSheet
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.QCSheet{})

	if orderID, ok := filters["order_id"].(string); ok && orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if taskID, ok := filters["task_id"].(string); ok && taskID != "" {
		query = query.Where("task_id = ?", taskID)
	}
	if result, ok := filters["result"].(string); ok && result != "" {
		query = query.Where("result = ?", result)
	}
	if process, ok := filters["process"].(string); ok && process != "" {
		query = query.Where("process = ?", process)
	}
	if inspectorID, ok := filters["inspector_id"].(string); ok && inspectorID != "" {
		query = query.Where("inspector_id = ?", inspectorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Order").
		Preload("Inspector").
		Order("inspected_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&sheets).Error
	if err != nil {
		return nil, 0, err
	}

	return sheets, total, nil
}

// GenerateInspectionCode 生成质检编码 QC-YYYYMMDD-NNNN
func (r *QCRepository) GenerateInspectionCode(ctx context.Context) (string, error) {
	var seq int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('qc_code_seq')").Scan(&seq).Error
	if err != nil {
		return "", err
	}
	now := time.Now()
	return fmt.Sprintf("QC-%d%02d%02d-%04d", now.Year(), int(now.Month()), now.Day(), seq), nil
}

// ============================================================
// 缺陷记录
// ============================================================

// FindDefectByID 根据ID查找缺陷记录
func (r *QCRepository) FindDefectByID(ctx context.Context, id string) (*entity.DefectLog, error) {
	var defect entity.DefectLog
	err := r.db.WithContext(ctx).
		Preload("Sheet").
		Preload("Resolver").
		Where("id = ?", id).
		First(&defect).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &defect, nil
}

// CreateDefect 创建缺陷记录
func (r *QCRepository) CreateDefect(ctx context.Context, defect *entity.DefectLog) error {
	return r.db.WithContext(ctx).Create(defect).Error
}

// UpdateDefect 更新缺陷记录
func (r *QCRepository) UpdateDefect(ctx context.Context, defect *entity.DefectLog) error {
	return r.db.WithContext(ctx).Save(defect).Error
}

// ListDefects 获取缺陷记录列表
func (r *QCRepository) ListDefects(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.DefectLog, int64, error) {
	var defects []entity.DefectLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DefectLog{})

	if sheetID, ok := filters["sheet_id"].(string); ok && sheetID != "" {
		query = query.Where("sheet_id = ?", sheetID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if severity, ok := filters["severity"].(string); ok && severity != "" {
		query = query.Where("severity = ?", severity)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Sheet").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&defects).Error
	if err != nil {
		return nil, 0, err
	}

	return defects, total, nil
}

// ============================================================
// 统计聚合查询（分析服务使用）
// ============================================================

// YieldSums 区间内受检/合格数量合计
type YieldSums struct {
	Inspected int64
	Passed    int64
}

// SumYield 汇总 [start, end) 内的受检与合格数量
func (r *QCRepository) SumYield(ctx context.Context, start, end time.Time) (*YieldSums, error) {
	var sums YieldSums
	err := r.db.WithContext(ctx).Model(&entity.QCSheet{}).
		Select("COALESCE(SUM(qty_inspected),0) AS inspected, COALESCE(SUM(qty_passed),0) AS passed").
		Where("inspected_at >= ? AND inspected_at < ?", start, end).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
}

// NGSums 检查项维度的检查/不良数量合计
type NGSums struct {
	Checked int64
	NG      int64
}

// SumNG 通过检查项子表JOIN一次性汇总 [start, end) 内的不良数
func (r *QCRepository) SumNG(ctx context.Context, start, end time.Time) (*NGSums, error) {
	var sums NGSums
	err := r.db.WithContext(ctx).Model(&entity.QCChecklistItem{}).
		Select("COALESCE(SUM(qc_checklist_items.qty_checked),0) AS checked, COALESCE(SUM(qc_checklist_items.qty_ng),0) AS ng").
		Joins("JOIN qc_sheets ON qc_sheets.id = qc_checklist_items.sheet_id").
		Where("qc_sheets.inspected_at >= ? AND qc_sheets.inspected_at < ?", start, end).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
}

// ResolutionSums 缺陷总数与已处理数
type ResolutionSums struct {
	Total    int64
	Resolved int64
}

// SumResolution 汇总 [start, end) 内缺陷的处理进度
func (r *QCRepository) SumResolution(ctx context.Context, start, end time.Time) (*ResolutionSums, error) {
	var sums ResolutionSums
	base := r.db.WithContext(ctx).Model(&entity.DefectLog{}).
		Joins("JOIN qc_sheets ON qc_sheets.id = defect_logs.sheet_id").
		Where("qc_sheets.inspected_at >= ? AND qc_sheets.inspected_at < ?", start, end)

	if err := base.Session(&gorm.Session{}).Count(&sums.Total).Error; err != nil {
		return nil, err
	}
	err := base.Session(&gorm.Session{}).
		Where("defect_logs.status IN ?", []string{entity.DefectStatusResolved, entity.DefectStatusClosed}).
		Count(&sums.Resolved).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
}

// DefectTypeCount 缺陷类型计数
type DefectTypeCount struct {
	DefectType string `json:"defect_type"`
	Count      int64  `json:"count"`
}

// CountDefectsByType 按缺陷类型分组计数，按数量降序
func (r *QCRepository) CountDefectsByType(ctx context.Context, start, end time.Time) ([]DefectTypeCount, error) {
	var rows []DefectTypeCount
	err := r.db.WithContext(ctx).Model(&entity.DefectLog{}).
		Select("defect_logs.defect_type, COALESCE(SUM(defect_logs.qty_defect),0) AS count").
		Joins("JOIN qc_sheets ON qc_sheets.id = defect_logs.sheet_id").
		Where("qc_sheets.inspected_at >= ? AND qc_sheets.inspected_at < ?", start, end).
		Group("defect_logs.defect_type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ProcessYield 工序维度合格率原始数据
type ProcessYield struct {
	Process   string `json:"process"`
	Inspected int64  `json:"inspected"`
	Passed    int64  `json:"passed"`
}

// SumYieldByProcess 按工序汇总受检/合格数量
func (r *QCRepository) SumYieldByProcess(ctx context.Context, start, end time.Time) ([]ProcessYield, error) {
	var rows []ProcessYield
	err := r.db.WithContext(ctx).Model(&entity.QCSheet{}).
		Select("process, COALESCE(SUM(qty_inspected),0) AS inspected, COALESCE(SUM(qty_passed),0) AS passed").
		Where("inspected_at >= ? AND inspected_at < ? AND process != ''", start, end).
		Group("process").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ParameterBucket 参数按周分桶的不良数据
type ParameterBucket struct {
	Parameter string    `json:"parameter"`
	WeekStart time.Time `json:"week_start"`
	Checked   int64     `json:"checked"`
	NG        int64     `json:"ng"`
}

// SumNGByParameterWeek 参数不良按ISO周分桶
func (r *QCRepository) SumNGByParameterWeek(ctx context.Context, start, end time.Time) ([]ParameterBucket, error) {
	var rows []ParameterBucket
	err := r.db.WithContext(ctx).Model(&entity.QCChecklistItem{}).
		Select("qc_checklist_items.parameter, date_trunc('week', qc_sheets.inspected_at) AS week_start, COALESCE(SUM(qc_checklist_items.qty_checked),0) AS checked, COALESCE(SUM(qc_checklist_items.qty_ng),0) AS ng").
		Joins("JOIN qc_sheets ON qc_sheets.id = qc_checklist_items.sheet_id").
		Where("qc_sheets.inspected_at >= ? AND qc_sheets.inspected_at < ?", start, end).
		Group("qc_checklist_items.parameter, week_start").
		Order("qc_checklist_items.parameter ASC, week_start ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
