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

func setupBarcodeTest(t *testing.T) *BarcodeService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	activity := NewActivityRecorder(repos.ActivityLog, zap.NewNop())
	svc := NewBarcodeService(repos.Barcode, repos.Order, nil, activity)

	testutil.SeedTestUser(t, db, "test-user-001", "admin", "Test Admin", entity.RoleAdmin)
	testutil.SeedTestCustomer(t, db, "cust-001", "Test Customer")
	testutil.SeedTestOrder(t, db, "order-001", "cust-001", entity.OrderStatusInProduction)

	return svc
}

func TestBarcodeCreateAndLookup(t *testing.T) {
	svc := setupBarcodeTest(t)
	ctx := context.Background()

	orderID := "order-001"
	bc, err := svc.Create(ctx, "test-user-001", &CreateBarcodeInput{
		OrderID:     &orderID,
		Type:        entity.BarcodeTypeOrder,
		ReferenceID: "order-001",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(bc.Value, "ORDER-") {
		t.Errorf("Expected ORDER- value prefix, got %s", bc.Value)
	}
	if !bc.Active {
		t.Error("Expected new barcode active")
	}

	found, err := svc.Lookup(ctx, bc.Value)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if found.ID != bc.ID {
		t.Errorf("Expected barcode %s, got %s", bc.ID, found.ID)
	}

	// 未知类型被拒
	var valErr *ValidationError
	if _, err := svc.Create(ctx, "test-user-001", &CreateBarcodeInput{Type: "pallet"}); !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for unknown type, got %v", err)
	}
}

func TestBarcodeScanFlow(t *testing.T) {
	svc := setupBarcodeTest(t)
	ctx := context.Background()

	bc, err := svc.Create(ctx, "test-user-001", &CreateBarcodeInput{
		Type:        entity.BarcodeTypeBatch,
		ReferenceID: "batch-7",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result, err := svc.Scan(ctx, "test-user-001", &ScanInput{
		Value:   bc.Value,
		Station: "cutting",
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.Event.Station != "cutting" || result.Event.ScannedBy != "test-user-001" {
		t.Errorf("Unexpected event: %+v", result.Event)
	}

	events, err := svc.ListEvents(ctx, bc.ID)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	// 停用后拒绝扫码
	if _, err := svc.Deactivate(ctx, bc.ID, "test-user-001"); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	var stateErr *StateError
	if _, err := svc.Scan(ctx, "test-user-001", &ScanInput{Value: bc.Value}); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError scanning inactive barcode, got %v", err)
	}

	// 重复停用幂等
	if _, err := svc.Deactivate(ctx, bc.ID, "test-user-001"); err != nil {
		t.Fatalf("Expected idempotent deactivate, got %v", err)
	}
}
