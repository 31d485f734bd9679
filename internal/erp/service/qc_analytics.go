package service

import (
	"math"

	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// ConsistencyBaseline 一致性分量基线值（计算来源尚未上线，先用固定基线）
const ConsistencyBaseline = 85.0

// 质量得分权重
const (
	weightFPY         = 0.4
	weightNG          = 0.3
	weightResolution  = 0.2
	weightConsistency = 0.1
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FirstPassYield 直通率，无受检数据时为100
func FirstPassYield(inspected, passed int64) float64 {
	if inspected == 0 {
		return 100.0
	}
	return round2(float64(passed) / float64(inspected) * 100)
}

// NGRate 不良率，无检查数据时为0
func NGRate(checked, ng int64) float64 {
	if checked == 0 {
		return 0
	}
	return round2(float64(ng) / float64(checked) * 100)
}

// ResolutionRate 缺陷处理率，无缺陷时为100
func ResolutionRate(total, resolved int64) float64 {
	if total == 0 {
		return 100.0
	}
	return round2(float64(resolved) / float64(total) * 100)
}

// ScoreBreakdown 质量得分及其分量
type ScoreBreakdown struct {
	FPY            float64 `json:"fpy"`
	NGRate         float64 `json:"ng_rate"`
	ResolutionRate float64 `json:"resolution_rate"`
	Consistency    float64 `json:"consistency"`
	Score          float64 `json:"score"`
	Grade          string  `json:"grade"`
}

// QualityScore 加权质量得分
func QualityScore(fpy, ngRate, resolutionRate float64) *ScoreBreakdown {
	ngComponent := math.Max(0, 100-ngRate*10)
	score := round2(weightFPY*fpy + weightNG*ngComponent + weightResolution*resolutionRate + weightConsistency*ConsistencyBaseline)

	return &ScoreBreakdown{
		FPY:            fpy,
		NGRate:         ngRate,
		ResolutionRate: resolutionRate,
		Consistency:    ConsistencyBaseline,
		Score:          score,
		Grade:          Grade(score),
	}
}

// Grade 得分转等级
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// ParetoRow 缺陷帕累托行
type ParetoRow struct {
	DefectType    string  `json:"defect_type"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
	CumulativePct float64 `json:"cumulative_pct"`
}

// ParetoRows 按数量降序的类型计数转帕累托表，末行累计固定为100
func ParetoRows(counts []repository.DefectTypeCount) []ParetoRow {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return []ParetoRow{}
	}

	rows := make([]ParetoRow, 0, len(counts))
	var cumulative int64
	for i, c := range counts {
		cumulative += c.Count
		row := ParetoRow{
			DefectType:    c.DefectType,
			Count:         c.Count,
			Percentage:    round2(float64(c.Count) / float64(total) * 100),
			CumulativePct: round2(float64(cumulative) / float64(total) * 100),
		}
		if i == len(counts)-1 {
			row.CumulativePct = 100.0
		}
		rows = append(rows, row)
	}
	return rows
}

// 趋势判定死区，单位百分点
const trendDeadZone = 0.5

// TrendDirection 指标方向：up/down/stable，0.5pp死区
func TrendDirection(current, previous float64) string {
	diff := current - previous
	if math.Abs(diff) < trendDeadZone {
		return "stable"
	}
	if diff > 0 {
		return "up"
	}
	return "down"
}

// NGTrend 不良率趋势：下降是improving
func NGTrend(current, previous float64) string {
	switch TrendDirection(current, previous) {
	case "up":
		return "declining"
	case "down":
		return "improving"
	default:
		return "stable"
	}
}
