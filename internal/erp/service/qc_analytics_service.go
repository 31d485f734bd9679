package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// 仪表盘缓存
const (
	dashboardCacheKey = "qc:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

// QCAnalyticsService 质量分析服务
type QCAnalyticsService struct {
	qcRepo *repository.QCRepository
	rdb    *redis.Client
}

// NewQCAnalyticsService 创建质量分析服务
func NewQCAnalyticsService(qcRepo *repository.QCRepository, rdb *redis.Client) *QCAnalyticsService {
	return &QCAnalyticsService{qcRepo: qcRepo, rdb: rdb}
}

// ComputeScore 计算区间质量得分
func (s *QCAnalyticsService) ComputeScore(ctx context.Context, start, end time.Time) (*ScoreBreakdown, error) {
	yield, err := s.qcRepo.SumYield(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum yield: %w", err)
	}
	ng, err := s.qcRepo.SumNG(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum ng: %w", err)
	}
	resolution, err := s.qcRepo.SumResolution(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum resolution: %w", err)
	}

	fpy := FirstPassYield(yield.Inspected, yield.Passed)
	ngRate := NGRate(ng.Checked, ng.NG)
	resRate := ResolutionRate(resolution.Total, resolution.Resolved)

	return QualityScore(fpy, ngRate, resRate), nil
}

// DefectPareto 缺陷帕累托分析
func (s *QCAnalyticsService) DefectPareto(ctx context.Context, start, end time.Time) ([]ParetoRow, error) {
	counts, err := s.qcRepo.CountDefectsByType(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("count defects by type: %w", err)
	}
	return ParetoRows(counts), nil
}

// ProcessStageRow 工序对比行
type ProcessStageRow struct {
	Process   string  `json:"process"`
	Inspected int64   `json:"inspected"`
	Passed    int64   `json:"passed"`
	PassRate  float64 `json:"pass_rate"`
}

// ProcessComparison 工序对比结果
type ProcessComparison struct {
	Stages []ProcessStageRow `json:"stages"`
	Best   string            `json:"best"`
	Worst  string            `json:"worst"`
}

// CompareProcesses 按工序对比合格率（cutting..packing顺序）
func (s *QCAnalyticsService) CompareProcesses(ctx context.Context, start, end time.Time) (*ProcessComparison, error) {
	rows, err := s.qcRepo.SumYieldByProcess(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum yield by process: %w", err)
	}

	byProcess := make(map[string]repository.ProcessYield, len(rows))
	for _, row := range rows {
		byProcess[row.Process] = row
	}

	result := &ProcessComparison{Stages: make([]ProcessStageRow, 0, len(entity.ProcessSequence))}
	bestRate, worstRate := -1.0, 101.0
	for _, process := range entity.ProcessSequence {
		row := byProcess[process]
		stage := ProcessStageRow{
			Process:   process,
			Inspected: row.Inspected,
			Passed:    row.Passed,
			PassRate:  FirstPassYield(row.Inspected, row.Passed),
		}
		result.Stages = append(result.Stages, stage)

		if row.Inspected == 0 {
			continue
		}
		if stage.PassRate > bestRate {
			bestRate = stage.PassRate
			result.Best = process
		}
		if stage.PassRate < worstRate {
			worstRate = stage.PassRate
			result.Worst = process
		}
	}

	return result, nil
}

// ParameterTrendPoint 参数周度不良率点
type ParameterTrendPoint struct {
	WeekStart time.Time `json:"week_start"`
	Checked   int64     `json:"checked"`
	NG        int64     `json:"ng"`
	NGRate    float64   `json:"ng_rate"`
}

// ParameterTrend 参数趋势
type ParameterTrend struct {
	Parameter string                `json:"parameter"`
	Points    []ParameterTrendPoint `json:"points"`
	Trend     string                `json:"trend"`
}

// ParameterTrends 参数不良率周度趋势（末两周对比，0.5pp死区）
func (s *QCAnalyticsService) ParameterTrends(ctx context.Context, start, end time.Time) ([]ParameterTrend, error) {
	buckets, err := s.qcRepo.SumNGByParameterWeek(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum ng by parameter: %w", err)
	}

	grouped := make(map[string][]ParameterTrendPoint)
	for _, b := range buckets {
		grouped[b.Parameter] = append(grouped[b.Parameter], ParameterTrendPoint{
			WeekStart: b.WeekStart,
			Checked:   b.Checked,
			NG:        b.NG,
			NGRate:    NGRate(b.Checked, b.NG),
		})
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	trends := make([]ParameterTrend, 0, len(names))
	for _, name := range names {
		points := grouped[name]
		trend := "stable"
		if len(points) >= 2 {
			trend = NGTrend(points[len(points)-1].NGRate, points[len(points)-2].NGRate)
		}
		trends = append(trends, ParameterTrend{
			Parameter: name,
			Points:    points,
			Trend:     trend,
		})
	}

	return trends, nil
}

// MetricComparison 单指标环比
type MetricComparison struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Trend    string  `json:"trend"`
}

// PeriodReport 周期对比报告
type PeriodReport struct {
	Period        string           `json:"period"`
	CurrentStart  time.Time        `json:"current_start"`
	CurrentEnd    time.Time        `json:"current_end"`
	PreviousStart time.Time        `json:"previous_start"`
	PreviousEnd   time.Time        `json:"previous_end"`
	FPY           MetricComparison `json:"fpy"`
	NGRate        MetricComparison `json:"ng_rate"`
	Resolution    MetricComparison `json:"resolution"`
	Score         MetricComparison `json:"score"`
}

// PeriodOverPeriod 当前窗口与等长上一窗口对比，period取week或month
func (s *QCAnalyticsService) PeriodOverPeriod(ctx context.Context, period string, end time.Time) (*PeriodReport, error) {
	var window time.Duration
	switch period {
	case "week":
		window = 7 * 24 * time.Hour
	case "month":
		window = 30 * 24 * time.Hour
	default:
		return nil, NewValidationError("period must be week or month")
	}

	currentStart := end.Add(-window)
	previousStart := currentStart.Add(-window)

	current, err := s.ComputeScore(ctx, currentStart, end)
	if err != nil {
		return nil, err
	}
	previous, err := s.ComputeScore(ctx, previousStart, currentStart)
	if err != nil {
		return nil, err
	}

	return &PeriodReport{
		Period:        period,
		CurrentStart:  currentStart,
		CurrentEnd:    end,
		PreviousStart: previousStart,
		PreviousEnd:   currentStart,
		FPY: MetricComparison{
			Current:  current.FPY,
			Previous: previous.FPY,
			Trend:    TrendDirection(current.FPY, previous.FPY),
		},
		NGRate: MetricComparison{
			Current:  current.NGRate,
			Previous: previous.NGRate,
			Trend:    TrendDirection(current.NGRate, previous.NGRate),
		},
		Resolution: MetricComparison{
			Current:  current.ResolutionRate,
			Previous: previous.ResolutionRate,
			Trend:    TrendDirection(current.ResolutionRate, previous.ResolutionRate),
		},
		Score: MetricComparison{
			Current:  current.Score,
			Previous: previous.Score,
			Trend:    TrendDirection(current.Score, previous.Score),
		},
	}, nil
}

// DashboardStats 仪表盘统计块
type DashboardStats struct {
	Score       *ScoreBreakdown   `json:"score"`
	Pareto      []ParetoRow       `json:"pareto"`
	Processes   []ProcessStageRow `json:"processes"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Dashboard 近30天仪表盘统计，短TTL缓存在Redis
func (s *QCAnalyticsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result()
		if err == nil && cached != "" {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	end := time.Now()
	start := end.Add(-30 * 24 * time.Hour)

	score, err := s.ComputeScore(ctx, start, end)
	if err != nil {
		return nil, err
	}
	pareto, err := s.DefectPareto(ctx, start, end)
	if err != nil {
		return nil, err
	}
	processes, err := s.CompareProcesses(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Score:       score,
		Pareto:      pareto,
		Processes:   processes.Stages,
		GeneratedAt: end,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL)
		}
	}

	return stats, nil
}
