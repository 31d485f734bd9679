package service

import (
	"testing"

	"github.com/drwijaya/green-productions/internal/erp/repository"
)

func TestFirstPassYield(t *testing.T) {
	if got := FirstPassYield(0, 0); got != 100.0 {
		t.Errorf("Expected 100.0 with no inspections, got %v", got)
	}
	if got := FirstPassYield(200, 185); got != 92.5 {
		t.Errorf("Expected 92.5, got %v", got)
	}
	if got := FirstPassYield(3, 1); got != 33.33 {
		t.Errorf("Expected 33.33, got %v", got)
	}
}

func TestNGRate(t *testing.T) {
	if got := NGRate(0, 0); got != 0 {
		t.Errorf("Expected 0 with no checks, got %v", got)
	}
	if got := NGRate(150, 5); got != 3.33 {
		t.Errorf("Expected 3.33, got %v", got)
	}
}

func TestResolutionRate(t *testing.T) {
	if got := ResolutionRate(0, 0); got != 100.0 {
		t.Errorf("Expected 100.0 with no defects, got %v", got)
	}
	if got := ResolutionRate(8, 6); got != 75.0 {
		t.Errorf("Expected 75.0, got %v", got)
	}
}

func TestQualityScoreCleanRun(t *testing.T) {
	// 无数据期：FPY=100, NG=0, Resolution=100
	b := QualityScore(100, 0, 100)
	if b.Score != 98.5 {
		t.Errorf("Expected score 98.5, got %v", b.Score)
	}
	if b.Grade != "A" {
		t.Errorf("Expected grade A, got %s", b.Grade)
	}
	if b.Consistency != ConsistencyBaseline {
		t.Errorf("Expected consistency %v, got %v", ConsistencyBaseline, b.Consistency)
	}
}

func TestQualityScoreNGFloor(t *testing.T) {
	// 不良率超过10%时NG分量被钳到0而不是变负
	b := QualityScore(80, 15, 50)
	expected := 0.4*80 + 0.3*0 + 0.2*50 + 0.1*ConsistencyBaseline
	if b.Score != expected {
		t.Errorf("Expected score %v, got %v", expected, b.Score)
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		grade string
	}{
		{95, "A"},
		{90, "A"},
		{89.99, "B"},
		{80, "B"},
		{79.5, "C"},
		{70, "C"},
		{69, "D"},
		{60, "D"},
		{59.99, "F"},
		{0, "F"},
	}
	for _, c := range cases {
		if got := Grade(c.score); got != c.grade {
			t.Errorf("Grade(%v): expected %s, got %s", c.score, c.grade, got)
		}
	}
}

func TestParetoRows(t *testing.T) {
	counts := []repository.DefectTypeCount{
		{DefectType: "jahitan", Count: 50},
		{DefectType: "kain", Count: 30},
		{DefectType: "kancing", Count: 20},
	}
	rows := ParetoRows(counts)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].Percentage != 50.0 || rows[0].CumulativePct != 50.0 {
		t.Errorf("Row 0: got pct=%v cum=%v", rows[0].Percentage, rows[0].CumulativePct)
	}
	if rows[1].CumulativePct != 80.0 {
		t.Errorf("Row 1: expected cumulative 80.0, got %v", rows[1].CumulativePct)
	}
	// 末行累计固定为100，避免舍入残差
	if rows[2].CumulativePct != 100.0 {
		t.Errorf("Last row: expected cumulative 100.0, got %v", rows[2].CumulativePct)
	}
}

func TestParetoRowsRoundingResidue(t *testing.T) {
	counts := []repository.DefectTypeCount{
		{DefectType: "a", Count: 1},
		{DefectType: "b", Count: 1},
		{DefectType: "c", Count: 1},
	}
	rows := ParetoRows(counts)
	if rows[2].CumulativePct != 100.0 {
		t.Errorf("Expected last cumulative pinned to 100.0, got %v", rows[2].CumulativePct)
	}
}

func TestParetoRowsEmpty(t *testing.T) {
	rows := ParetoRows(nil)
	if len(rows) != 0 {
		t.Errorf("Expected empty result, got %d rows", len(rows))
	}
	rows = ParetoRows([]repository.DefectTypeCount{{DefectType: "x", Count: 0}})
	if len(rows) != 0 {
		t.Errorf("Expected empty result for zero total, got %d rows", len(rows))
	}
}

func TestTrendDirectionDeadZone(t *testing.T) {
	if got := TrendDirection(90.4, 90.0); got != "stable" {
		t.Errorf("Expected stable inside dead zone, got %s", got)
	}
	if got := TrendDirection(90.5, 90.0); got != "up" {
		t.Errorf("Expected up at dead zone edge, got %s", got)
	}
	if got := TrendDirection(89.0, 90.0); got != "down" {
		t.Errorf("Expected down, got %s", got)
	}
}

func TestNGTrendInverted(t *testing.T) {
	// 不良率下降是好事
	if got := NGTrend(2.0, 5.0); got != "improving" {
		t.Errorf("Expected improving, got %s", got)
	}
	if got := NGTrend(5.0, 2.0); got != "declining" {
		t.Errorf("Expected declining, got %s", got)
	}
	if got := NGTrend(3.1, 3.0); got != "stable" {
		t.Errorf("Expected stable, got %s", got)
	}
}
