package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/erp/testutil"
)

func setupDSOTest(t *testing.T) (*gorm.DB, *DSOService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	activity := NewActivityRecorder(repos.ActivityLog, zap.NewNop())
	svc := NewDSOService(repos.DSO, repos.Order, nil, activity)

	testutil.SeedTestUser(t, db, "test-user-001", "admin", "Test Admin", entity.RoleAdmin)
	testutil.SeedTestCustomer(t, db, "cust-001", "Test Customer")
	testutil.SeedTestOrder(t, db, "order-001", "cust-001", entity.OrderStatusDraft)

	return db, svc
}

func TestDSOApprovalFlow(t *testing.T) {
	db, svc := setupDSOTest(t)
	ctx := context.Background()

	dso, err := svc.CreateForOrder(ctx, "order-001", "test-user-001", &DSOSpecFields{
		Bahan: strp("cotton combed 30s"),
	})
	if err != nil {
		t.Fatalf("CreateForOrder failed: %v", err)
	}
	if dso.Version != 1 || dso.Status != entity.DSOStatusDraft {
		t.Fatalf("Expected v1 draft, got v%d %s", dso.Version, dso.Status)
	}

	// 订单镜像状态跟随
	var order entity.Order
	db.First(&order, "id = ?", "order-001")
	if order.DSOStatus != entity.OrderDSODraft {
		t.Errorf("Expected order dso_status draft, got %s", order.DSOStatus)
	}

	if _, err := svc.Submit(ctx, dso.ID, "test-user-001"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// pending_approval不可编辑
	_, err = svc.Update(ctx, dso.ID, "test-user-001", &DSOSpecFields{Bahan: strp("polyester")})
	var stateErr *StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError editing pending DSO, got %v", err)
	}

	approved, err := svc.Approve(ctx, dso.ID, "test-user-001")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != entity.DSOStatusApproved || approved.ApprovedBy == nil {
		t.Errorf("Expected approved with approver, got %s", approved.Status)
	}

	db.First(&order, "id = ?", "order-001")
	if order.DSOStatus != entity.OrderDSOCreated {
		t.Errorf("Expected order dso_status created after approval, got %s", order.DSOStatus)
	}
}

func TestDSORejectAndReedit(t *testing.T) {
	_, svc := setupDSOTest(t)
	ctx := context.Background()

	dso, err := svc.CreateForOrder(ctx, "order-001", "test-user-001", nil)
	if err != nil {
		t.Fatalf("CreateForOrder failed: %v", err)
	}
	if _, err := svc.Submit(ctx, dso.ID, "test-user-001"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// 驳回必须给原因
	if _, err := svc.Reject(ctx, dso.ID, "test-user-001", ""); err == nil {
		t.Fatal("Expected validation error for empty rejection reason")
	}

	rejected, err := svc.Reject(ctx, dso.ID, "test-user-001", "ukuran tidak sesuai")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != entity.DSOStatusRejected || rejected.RejectionReason == "" {
		t.Fatalf("Expected rejected with reason, got %s", rejected.Status)
	}

	// 编辑被拒版本回到draft并清除原因
	updated, err := svc.Update(ctx, dso.ID, "test-user-001", &DSOSpecFields{Bahan: strp("fleece")})
	if err != nil {
		t.Fatalf("Update after reject failed: %v", err)
	}
	if updated.Status != entity.DSOStatusDraft {
		t.Errorf("Expected draft after re-edit, got %s", updated.Status)
	}
	if updated.RejectionReason != "" {
		t.Errorf("Expected rejection reason cleared, got %q", updated.RejectionReason)
	}
}

func TestDSOVersioning(t *testing.T) {
	_, svc := setupDSOTest(t)
	ctx := context.Background()

	v1, err := svc.CreateForOrder(ctx, "order-001", "test-user-001", &DSOSpecFields{Bahan: strp("cotton")})
	if err != nil {
		t.Fatalf("CreateForOrder failed: %v", err)
	}

	// 同一订单不允许再建首版本
	if _, err := svc.CreateForOrder(ctx, "order-001", "test-user-001", nil); err == nil {
		t.Fatal("Expected StateError creating a second first-version DSO")
	}

	if _, err := svc.Submit(ctx, v1.ID, "test-user-001"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := svc.Approve(ctx, v1.ID, "test-user-001"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	// 已批准版本锁定，不可编辑
	var stateErr *StateError
	if _, err := svc.Update(ctx, v1.ID, "test-user-001", &DSOSpecFields{Bahan: strp("rayon")}); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError editing approved DSO, got %v", err)
	}

	v2, err := svc.CreateNewVersion(ctx, v1.ID, "test-user-001", &DSOSpecFields{Bahan: strp("cotton carded")})
	if err != nil {
		t.Fatalf("CreateNewVersion failed: %v", err)
	}
	if v2.Version != 2 {
		t.Errorf("Expected version 2, got %d", v2.Version)
	}
	if v2.Status != entity.DSOStatusDraft {
		t.Errorf("Expected new version draft, got %s", v2.Status)
	}
	if v2.Bahan != "cotton carded" {
		t.Errorf("Expected override applied, got %q", v2.Bahan)
	}

	// 来源版本翻到superseded并永久锁定
	v1After, err := svc.Get(ctx, v1.ID)
	if err != nil {
		t.Fatalf("Get v1 failed: %v", err)
	}
	if v1After.Status != entity.DSOStatusSuperseded {
		t.Errorf("Expected v1 superseded after new version, got %s", v1After.Status)
	}
	if _, err := svc.Update(ctx, v1.ID, "test-user-001", &DSOSpecFields{Bahan: strp("linen")}); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError editing superseded DSO, got %v", err)
	}

	// 基于任意版本再次派生仍递增到最大版本+1
	v3, err := svc.CreateNewVersion(ctx, v1.ID, "test-user-001", nil)
	if err != nil {
		t.Fatalf("Second CreateNewVersion failed: %v", err)
	}
	if v3.Version != 3 {
		t.Errorf("Expected version 3, got %d", v3.Version)
	}
	// 覆盖字段缺省时继承来源
	if v3.Bahan != "cotton" {
		t.Errorf("Expected carry-over fabric from source v1, got %q", v3.Bahan)
	}
}

func TestDSOAccessoriesAndSizes(t *testing.T) {
	_, svc := setupDSOTest(t)
	ctx := context.Background()

	dso, err := svc.CreateForOrder(ctx, "order-001", "test-user-001", nil)
	if err != nil {
		t.Fatalf("CreateForOrder failed: %v", err)
	}

	acc, err := svc.AddAccessory(ctx, dso.ID, &AccessoryInput{
		Name: "kancing kayu", Qty: 5, Unit: "pcs",
	})
	if err != nil {
		t.Fatalf("AddAccessory failed: %v", err)
	}
	if acc.ID == "" {
		t.Error("Expected accessory ID to be set")
	}

	sizes, err := svc.ReplaceSizes(ctx, dso.ID, []SizeInput{
		{SizeLabel: "M", Qty: 40},
		{SizeLabel: "L", Qty: 60},
	})
	if err != nil {
		t.Fatalf("ReplaceSizes failed: %v", err)
	}
	if len(sizes) != 2 {
		t.Fatalf("Expected 2 sizes, got %d", len(sizes))
	}

	// 整表替换
	sizes, err = svc.ReplaceSizes(ctx, dso.ID, []SizeInput{{SizeLabel: "XL", Qty: 100}})
	if err != nil {
		t.Fatalf("ReplaceSizes (second) failed: %v", err)
	}
	if len(sizes) != 1 || sizes[0].SizeLabel != "XL" {
		t.Errorf("Expected single XL row after replace, got %+v", sizes)
	}
}

func strp(s string) *string {
	return &s
}
