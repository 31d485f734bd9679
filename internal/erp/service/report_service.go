package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// ReportService 报表服务
type ReportService struct {
	orderRepo   *repository.OrderRepository
	prodRepo    *repository.ProductionRepository
	qcRepo      *repository.QCRepository
	qcAnalytics *QCAnalyticsService
	activity    *ActivityRecorder
}

// NewReportService 创建报表服务
func NewReportService(orderRepo *repository.OrderRepository, prodRepo *repository.ProductionRepository, qcRepo *repository.QCRepository, qcAnalytics *QCAnalyticsService, activity *ActivityRecorder) *ReportService {
	return &ReportService{
		orderRepo:   orderRepo,
		prodRepo:    prodRepo,
		qcRepo:      qcRepo,
		qcAnalytics: qcAnalytics,
		activity:    activity,
	}
}

// Overview 首页概览
type Overview struct {
	Orders *repository.OrderStats `json:"orders"`
	QC     *DashboardStats        `json:"qc"`
}

// Dashboard 获取首页概览：订单统计 + 近30天质检仪表盘
func (s *ReportService) Dashboard(ctx context.Context) (*Overview, error) {
	orderStats, err := s.orderRepo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	qcStats, err := s.qcAnalytics.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("qc dashboard: %w", err)
	}
	return &Overview{Orders: orderStats, QC: qcStats}, nil
}

// ProductionReport 订单生产报表
type ProductionReport struct {
	Order    *entity.Order             `json:"order"`
	Tasks    []entity.ProductionTask   `json:"tasks"`
	Progress *repository.OrderProgress `json:"progress"`
}

// OrderProduction 获取单个订单的生产报表
func (s *ReportService) OrderProduction(ctx context.Context, orderID string) (*ProductionReport, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.prodRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	progress, err := s.prodRepo.GetOrderProgress(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order progress: %w", err)
	}
	return &ProductionReport{Order: order, Tasks: tasks, Progress: progress}, nil
}

// DefectReport 缺陷报表
type DefectReport struct {
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	Pareto         []ParetoRow `json:"pareto"`
	TotalDefects   int64       `json:"total_defects"`
	ResolvedCount  int64       `json:"resolved_count"`
	ResolutionRate float64     `json:"resolution_rate"`
}

// Defects 获取时间窗口内的缺陷报表
func (s *ReportService) Defects(ctx context.Context, start, end time.Time) (*DefectReport, error) {
	counts, err := s.qcRepo.CountDefectsByType(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("count defects: %w", err)
	}
	resolution, err := s.qcRepo.SumResolution(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum resolution: %w", err)
	}
	return &DefectReport{
		Start:          start,
		End:            end,
		Pareto:         ParetoRows(counts),
		TotalDefects:   resolution.Total,
		ResolvedCount:  resolution.Resolved,
		ResolutionRate: ResolutionRate(resolution.Total, resolution.Resolved),
	}, nil
}

// Activities 获取操作日志报表
func (s *ReportService) Activities(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.ActivityLog, int64, error) {
	return s.activity.List(ctx, page, pageSize, filters)
}

var qcSummaryParetoHeaders = []string{"缺陷类型", "数量", "占比%", "累计%"}

var qcSummaryProcessHeaders = []string{"工序", "检验数", "合格数", "合格率%"}

// ExportQCSummary 导出时间窗口内的质检汇总为xlsx
func (s *ReportService) ExportQCSummary(ctx context.Context, start, end time.Time) (*excelize.File, string, error) {
	score, err := s.qcAnalytics.ComputeScore(ctx, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("compute score: %w", err)
	}
	pareto, err := s.qcAnalytics.DefectPareto(ctx, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("defect pareto: %w", err)
	}
	processes, err := s.qcAnalytics.CompareProcesses(ctx, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("compare processes: %w", err)
	}

	f := excelize.NewFile()
	sheet := "QC Summary"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})

	// 概要区
	f.SetCellValue(sheet, "A1", "质检汇总")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", "统计区间")
	f.SetCellValue(sheet, "B2", fmt.Sprintf("%s ~ %s", start.Format("2006-01-02"), end.Format("2006-01-02")))

	metrics := [][2]interface{}{
		{"首检合格率%", score.FPY},
		{"不良率%", score.NGRate},
		{"缺陷解决率%", score.ResolutionRate},
		{"稳定性分", score.Consistency},
		{"综合得分", score.Score},
		{"等级", score.Grade},
	}
	for i, m := range metrics {
		row := i + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m[1])
	}

	// 缺陷帕累托区
	paretoStart := len(metrics) + 4
	f.SetCellValue(sheet, fmt.Sprintf("A%d", paretoStart), "缺陷帕累托")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", paretoStart), fmt.Sprintf("A%d", paretoStart), titleStyle)
	for i, h := range qcSummaryParetoHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, paretoStart+1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}
	for i, row := range pareto {
		r := paretoStart + 2 + i
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.DefectType)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.Count)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.Percentage)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.CumulativePct)
	}

	// 工序对比区
	processStart := paretoStart + len(pareto) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", processStart), "工序对比")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", processStart), fmt.Sprintf("A%d", processStart), titleStyle)
	for i, h := range qcSummaryProcessHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, processStart+1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}
	for i, stage := range processes.Stages {
		r := processStart + 2 + i
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), stage.Process)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), stage.Inspected)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), stage.Passed)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), stage.PassRate)
	}

	colWidths := []float64{18, 14, 10, 10}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("QC_Summary_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	return f, filename, nil
}
