package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/erp/testutil"
)

func setupQCTest(t *testing.T) *QCService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	activity := NewActivityRecorder(repos.ActivityLog, zap.NewNop())
	svc := NewQCService(repos.QC, repos.Order, repos.Production, nil, activity)

	testutil.SeedTestUser(t, db, "test-user-001", "qc", "Test Inspector", entity.RoleQCInspector)
	testutil.SeedTestCustomer(t, db, "cust-001", "Test Customer")
	testutil.SeedTestOrder(t, db, "order-001", "cust-001", entity.OrderStatusInProduction)

	return svc
}

func TestQCSheetCreate(t *testing.T) {
	svc := setupQCTest(t)
	ctx := context.Background()

	orderID := "order-001"
	sheet, err := svc.CreateSheet(ctx, "test-user-001", &CreateQCSheetInput{
		OrderID:      &orderID,
		Process:      "sewing",
		Result:       entity.QCResultPass,
		QtyInspected: 50,
		QtyPassed:    48,
		QtyFailed:    2,
		Checklist: []ChecklistItemInput{
			{Parameter: "jahitan lurus", QtyChecked: 50, QtyNG: 2},
			{Parameter: "ukuran sesuai", QtyChecked: 50, QtyNG: 0},
		},
	})
	if err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}
	if !strings.HasPrefix(sheet.InspectionCode, "QC-") {
		t.Errorf("Expected QC- code prefix, got %s", sheet.InspectionCode)
	}
	if len(sheet.ChecklistItems) != 2 {
		t.Errorf("Expected 2 checklist items, got %d", len(sheet.ChecklistItems))
	}

	// passed+failed不能超过inspected
	var valErr *ValidationError
	_, err = svc.CreateSheet(ctx, "test-user-001", &CreateQCSheetInput{
		QtyInspected: 10, QtyPassed: 8, QtyFailed: 5,
	})
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for inconsistent quantities, got %v", err)
	}

	// 未知结果值
	_, err = svc.CreateSheet(ctx, "test-user-001", &CreateQCSheetInput{Result: "maybe"})
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for unknown result, got %v", err)
	}
}

func TestDefectStatusFlow(t *testing.T) {
	svc := setupQCTest(t)
	ctx := context.Background()

	orderID := "order-001"
	sheet, err := svc.CreateSheet(ctx, "test-user-001", &CreateQCSheetInput{
		OrderID: &orderID, Process: "sewing", QtyInspected: 20, QtyPassed: 18, QtyFailed: 2,
	})
	if err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}

	defect, err := svc.CreateDefect(ctx, "test-user-001", &CreateDefectInput{
		SheetID:    sheet.ID,
		DefectType: "jahitan",
		Severity:   entity.DefectSeverityMajor,
		QtyDefect:  2,
	})
	if err != nil {
		t.Fatalf("CreateDefect failed: %v", err)
	}
	if defect.Status != entity.DefectStatusOpen {
		t.Fatalf("Expected open, got %s", defect.Status)
	}

	// open不能直接closed
	var stateErr *StateError
	if _, err := svc.MoveDefectStatus(ctx, defect.ID, "test-user-001", entity.DefectStatusClosed, ""); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError closing an open defect, got %v", err)
	}

	if _, err := svc.MoveDefectStatus(ctx, defect.ID, "test-user-001", entity.DefectStatusInProgress, ""); err != nil {
		t.Fatalf("Move to in_progress failed: %v", err)
	}

	resolved, err := svc.MoveDefectStatus(ctx, defect.ID, "test-user-001", entity.DefectStatusResolved, "dijahit ulang")
	if err != nil {
		t.Fatalf("Move to resolved failed: %v", err)
	}
	if resolved.ResolvedBy == nil || resolved.ResolvedAt == nil {
		t.Error("Expected resolver metadata set on resolve")
	}
	if resolved.VerificationNote != "dijahit ulang" {
		t.Errorf("Expected verification note kept, got %q", resolved.VerificationNote)
	}

	closed, err := svc.MoveDefectStatus(ctx, defect.ID, "test-user-001", entity.DefectStatusClosed, "")
	if err != nil {
		t.Fatalf("Move to closed failed: %v", err)
	}
	if closed.Status != entity.DefectStatusClosed {
		t.Errorf("Expected closed, got %s", closed.Status)
	}

	// closed是终态
	if _, err := svc.MoveDefectStatus(ctx, defect.ID, "test-user-001", entity.DefectStatusInProgress, ""); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError reopening a closed defect, got %v", err)
	}
}
