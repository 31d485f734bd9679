package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/erp/testutil"
)

func setupOrderTest(t *testing.T) (*gorm.DB, *OrderService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	activity := NewActivityRecorder(repos.ActivityLog, zap.NewNop())
	svc := NewOrderService(repos.Order, repos.Customer, repos.DSO, repos.Production, activity)

	testutil.SeedTestUser(t, db, "test-user-001", "admin", "Test Admin", entity.RoleAdmin)
	testutil.SeedTestCustomer(t, db, "cust-001", "Test Customer")

	return db, svc
}

func TestOrderCreateGeneratesCode(t *testing.T) {
	_, svc := setupOrderTest(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, "test-user-001", &CreateOrderRequest{
		CustomerID: "cust-001",
		Model:      "Kaos Polo",
		QtyTotal:   500,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	codePattern := regexp.MustCompile(`^INV-\d{6}-\d{4}$`)
	if !codePattern.MatchString(order.OrderCode) {
		t.Errorf("Expected INV-YYYYMM-NNNN code, got %s", order.OrderCode)
	}
	if order.Status != entity.OrderStatusDraft {
		t.Errorf("Expected draft, got %s", order.Status)
	}
	if order.DSOStatus != entity.OrderDSONotCreated {
		t.Errorf("Expected dso_status not_created, got %s", order.DSOStatus)
	}
	if order.Priority != entity.OrderPriorityNormal {
		t.Errorf("Expected default priority normal, got %s", order.Priority)
	}

	second, err := svc.Create(ctx, "test-user-001", &CreateOrderRequest{
		CustomerID: "cust-001",
		Model:      "Kaos Oblong",
		QtyTotal:   200,
	})
	if err != nil {
		t.Fatalf("Second create failed: %v", err)
	}
	if second.OrderCode == order.OrderCode {
		t.Errorf("Expected unique codes, both got %s", order.OrderCode)
	}
}

func TestOrderCreateUnknownCustomer(t *testing.T) {
	_, svc := setupOrderTest(t)

	_, err := svc.Create(context.Background(), "test-user-001", &CreateOrderRequest{
		CustomerID: "no-such-customer",
		Model:      "Kaos",
		QtyTotal:   10,
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for unknown customer, got %v", err)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	_, svc := setupOrderTest(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, "test-user-001", &CreateOrderRequest{
		CustomerID: "cust-001", Model: "Jaket", QtyTotal: 50,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// draft不能直接完成
	var stateErr *StateError
	if _, err := svc.MoveStatus(ctx, order.ID, "test-user-001", entity.OrderStatusCompleted); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError moving draft to completed, got %v", err)
	}

	// 未知状态
	var valErr *ValidationError
	if _, err := svc.MoveStatus(ctx, order.ID, "test-user-001", "shipped"); !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for unknown status, got %v", err)
	}

	for _, target := range []string{
		entity.OrderStatusInProduction,
		entity.OrderStatusQCPending,
		entity.OrderStatusCompleted,
	} {
		moved, err := svc.MoveStatus(ctx, order.ID, "test-user-001", target)
		if err != nil {
			t.Fatalf("MoveStatus to %s failed: %v", target, err)
		}
		if moved.Status != target {
			t.Errorf("Expected %s, got %s", target, moved.Status)
		}
	}

	// 终态后不可编辑
	if _, err := svc.Update(ctx, order.ID, "test-user-001", &UpdateOrderRequest{Model: "Jaket v2"}); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError editing completed order, got %v", err)
	}
}

func TestOrderQCPendingBackToProduction(t *testing.T) {
	_, svc := setupOrderTest(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, "test-user-001", &CreateOrderRequest{
		CustomerID: "cust-001", Model: "Celana", QtyTotal: 80,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.MoveStatus(ctx, order.ID, "test-user-001", entity.OrderStatusInProduction); err != nil {
		t.Fatalf("MoveStatus failed: %v", err)
	}
	if _, err := svc.MoveStatus(ctx, order.ID, "test-user-001", entity.OrderStatusQCPending); err != nil {
		t.Fatalf("MoveStatus failed: %v", err)
	}

	// 质检不通过返工
	moved, err := svc.MoveStatus(ctx, order.ID, "test-user-001", entity.OrderStatusInProduction)
	if err != nil {
		t.Fatalf("Rework transition failed: %v", err)
	}
	if moved.Status != entity.OrderStatusInProduction {
		t.Errorf("Expected in_production, got %s", moved.Status)
	}
}
