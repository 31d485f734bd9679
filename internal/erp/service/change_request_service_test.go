package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/erp/testutil"
)

func setupChangeRequestTest(t *testing.T) (*gorm.DB, *ChangeRequestService, *DSOService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	activity := NewActivityRecorder(repos.ActivityLog, zap.NewNop())
	dsoSvc := NewDSOService(repos.DSO, repos.Order, nil, activity)
	crSvc := NewChangeRequestService(repos.ChangeRequest, repos.DSO, activity)

	testutil.SeedTestUser(t, db, "test-user-001", "admin", "Test Admin", entity.RoleAdmin)
	testutil.SeedTestCustomer(t, db, "cust-001", "Test Customer")
	testutil.SeedTestOrder(t, db, "order-001", "cust-001", entity.OrderStatusDraft)

	return db, crSvc, dsoSvc
}

func seedApprovedDSO(t *testing.T, dsoSvc *DSOService) *entity.DSO {
	t.Helper()
	ctx := context.Background()
	dso, err := dsoSvc.CreateForOrder(ctx, "order-001", "test-user-001", nil)
	if err != nil {
		t.Fatalf("CreateForOrder failed: %v", err)
	}
	if _, err := dsoSvc.Submit(ctx, dso.ID, "test-user-001"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	approved, err := dsoSvc.Approve(ctx, dso.ID, "test-user-001")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	return approved
}

func TestChangeRequestRequiresApprovedDSO(t *testing.T) {
	_, crSvc, dsoSvc := setupChangeRequestTest(t)
	ctx := context.Background()

	draft, err := dsoSvc.CreateForOrder(ctx, "order-001", "test-user-001", nil)
	if err != nil {
		t.Fatalf("CreateForOrder failed: %v", err)
	}

	_, err = crSvc.Create(ctx, "test-user-001", &CreateChangeRequestInput{
		DSOID:  draft.ID,
		Reason: "ganti bahan",
	})
	var preErr *PreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("Expected PreconditionError targeting draft DSO, got %v", err)
	}
}

func TestChangeRequestDecisionOneWay(t *testing.T) {
	_, crSvc, dsoSvc := setupChangeRequestTest(t)
	ctx := context.Background()
	dso := seedApprovedDSO(t, dsoSvc)

	cr, err := crSvc.Create(ctx, "test-user-001", &CreateChangeRequestInput{
		DSOID:    dso.ID,
		Reason:   "ganti warna",
		Priority: "high",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if cr.Status != entity.ChangeRequestPending {
		t.Fatalf("Expected pending, got %s", cr.Status)
	}
	if !strings.HasPrefix(cr.RequestCode, "CR-") {
		t.Errorf("Expected CR- code prefix, got %s", cr.RequestCode)
	}

	approved, err := crSvc.Approve(ctx, cr.ID, "test-user-001", "setuju")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != entity.ChangeRequestApproved {
		t.Fatalf("Expected approved, got %s", approved.Status)
	}

	// 决定是单向的
	_, err = crSvc.Reject(ctx, cr.ID, "test-user-001", "berubah pikiran")
	var stateErr *StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError rejecting an approved request, got %v", err)
	}
	_, err = crSvc.Approve(ctx, cr.ID, "test-user-001", "lagi")
	if !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError approving twice, got %v", err)
	}
}

func TestChangeRequestListKeyword(t *testing.T) {
	_, crSvc, dsoSvc := setupChangeRequestTest(t)
	ctx := context.Background()
	dso := seedApprovedDSO(t, dsoSvc)

	cr, err := crSvc.Create(ctx, "test-user-001", &CreateChangeRequestInput{
		DSOID:  dso.ID,
		Reason: "ganti bahan fleece",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 按编号搜索
	result, err := crSvc.List(ctx, 1, 20, map[string]interface{}{"keyword": cr.RequestCode})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Expected 1 match by code, got %d", result.Total)
	}

	// 按原因搜索
	result, err = crSvc.List(ctx, 1, 20, map[string]interface{}{"keyword": "fleece"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Expected 1 match by reason, got %d", result.Total)
	}

	result, err = crSvc.List(ctx, 1, 20, map[string]interface{}{"keyword": "tidak-ada"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Expected no matches, got %d", result.Total)
	}
}

func TestChangeRequestImplement(t *testing.T) {
	_, crSvc, dsoSvc := setupChangeRequestTest(t)
	ctx := context.Background()
	dso := seedApprovedDSO(t, dsoSvc)

	cr, err := crSvc.Create(ctx, "test-user-001", &CreateChangeRequestInput{
		DSOID:  dso.ID,
		Reason: "tambah saku",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 未批准不能落实
	newDSO, err := dsoSvc.CreateNewVersion(ctx, dso.ID, "test-user-001", nil)
	if err != nil {
		t.Fatalf("CreateNewVersion failed: %v", err)
	}
	var stateErr *StateError
	if _, err := crSvc.Implement(ctx, cr.ID, "test-user-001", newDSO.ID); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError implementing pending request, got %v", err)
	}

	if _, err := crSvc.Approve(ctx, cr.ID, "test-user-001", ""); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	// 新DSO必须存在
	var valErr *ValidationError
	if _, err := crSvc.Implement(ctx, cr.ID, "test-user-001", "no-such-dso"); !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for unknown DSO, got %v", err)
	}

	implemented, err := crSvc.Implement(ctx, cr.ID, "test-user-001", newDSO.ID)
	if err != nil {
		t.Fatalf("Implement failed: %v", err)
	}
	if implemented.Status != entity.ChangeRequestImplemented {
		t.Errorf("Expected implemented, got %s", implemented.Status)
	}
	if implemented.NewDSOID == nil || *implemented.NewDSOID != newDSO.ID {
		t.Errorf("Expected new_dso_id %s, got %v", newDSO.ID, implemented.NewDSOID)
	}
}
