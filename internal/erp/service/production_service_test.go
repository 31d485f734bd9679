package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/erp/testutil"
)

func setupProductionTest(t *testing.T) (*gorm.DB, *ProductionService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	activity := NewActivityRecorder(repos.ActivityLog, zap.NewNop())
	svc := NewProductionService(repos.Production, repos.Order, repos.Employee, activity)

	testutil.SeedTestUser(t, db, "test-user-001", "admin", "Test Admin", entity.RoleAdmin)
	testutil.SeedTestCustomer(t, db, "cust-001", "Test Customer")
	testutil.SeedTestOrder(t, db, "order-001", "cust-001", entity.OrderStatusDraft)

	emp := &entity.Employee{
		ID: "emp-001", EmployeeNo: "E001", Name: "Siti", Station: "jahit", Line: "A",
		Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(emp).Error; err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}

	return db, svc
}

func TestCreateTaskChain(t *testing.T) {
	db, svc := setupProductionTest(t)
	ctx := context.Background()

	tasks, err := svc.CreateTaskChain(ctx, "order-001", "test-user-001", &CreateTaskChainRequest{})
	if err != nil {
		t.Fatalf("CreateTaskChain failed: %v", err)
	}
	if len(tasks) != len(entity.ProcessSequence) {
		t.Fatalf("Expected %d tasks, got %d", len(entity.ProcessSequence), len(tasks))
	}
	for i, task := range tasks {
		if task.Process != entity.ProcessSequence[i] {
			t.Errorf("Task %d: expected process %s, got %s", i, entity.ProcessSequence[i], task.Process)
		}
		if task.Sequence != i+1 {
			t.Errorf("Task %d: expected sequence %d, got %d", i, i+1, task.Sequence)
		}
		if task.QtyTarget != 100 {
			t.Errorf("Task %d: expected target copied from order, got %d", i, task.QtyTarget)
		}
	}

	// 任务链建立后订单进入生产
	var order entity.Order
	db.First(&order, "id = ?", "order-001")
	if order.Status != entity.OrderStatusInProduction {
		t.Errorf("Expected order in_production, got %s", order.Status)
	}

	// 重复建链被拒
	if _, err := svc.CreateTaskChain(ctx, "order-001", "test-user-001", &CreateTaskChainRequest{}); err == nil {
		t.Fatal("Expected StateError creating a second task chain")
	}
}

func TestTaskLifecycle(t *testing.T) {
	_, svc := setupProductionTest(t)
	ctx := context.Background()

	tasks, err := svc.CreateTaskChain(ctx, "order-001", "test-user-001", &CreateTaskChainRequest{})
	if err != nil {
		t.Fatalf("CreateTaskChain failed: %v", err)
	}
	task := tasks[0]

	assigned, err := svc.AssignTask(ctx, task.ID, "test-user-001", "Pak Budi")
	if err != nil {
		t.Fatalf("AssignTask failed: %v", err)
	}
	if assigned.Status != entity.TaskStatusAssigned || assigned.LineSupervisor != "Pak Budi" {
		t.Errorf("Expected assigned to Pak Budi, got %s %q", assigned.Status, assigned.LineSupervisor)
	}

	started, err := svc.StartTask(ctx, task.ID, "test-user-001")
	if err != nil {
		t.Fatalf("StartTask failed: %v", err)
	}
	if started.Status != entity.TaskStatusInProgress || started.ActualStart == nil {
		t.Errorf("Expected in_progress with actual_start, got %s", started.Status)
	}

	// 不能从in_progress再开工
	var stateErr *StateError
	if _, err := svc.StartTask(ctx, task.ID, "test-user-001"); !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError starting twice, got %v", err)
	}

	completed, err := svc.CompleteTask(ctx, task.ID, "test-user-001")
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if completed.Status != entity.TaskStatusCompleted || completed.ActualEnd == nil {
		t.Errorf("Expected completed with actual_end, got %s", completed.Status)
	}
}

func TestWorkerLogRollupAutoComplete(t *testing.T) {
	_, svc := setupProductionTest(t)
	ctx := context.Background()

	tasks, err := svc.CreateTaskChain(ctx, "order-001", "test-user-001", &CreateTaskChainRequest{})
	if err != nil {
		t.Fatalf("CreateTaskChain failed: %v", err)
	}
	task := tasks[0]
	if _, err := svc.StartTask(ctx, task.ID, "test-user-001"); err != nil {
		t.Fatalf("StartTask failed: %v", err)
	}

	// 负数量被拒
	var valErr *ValidationError
	_, err = svc.AddWorkerLog(ctx, task.ID, "test-user-001", &WorkerLogInput{
		EmployeeID: "emp-001", QtyCompleted: -1,
	})
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for negative qty, got %v", err)
	}

	// 未知员工被拒
	_, err = svc.AddWorkerLog(ctx, task.ID, "test-user-001", &WorkerLogInput{
		EmployeeID: "no-such-emp", QtyCompleted: 10,
	})
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError for unknown employee, got %v", err)
	}

	if _, err := svc.AddWorkerLog(ctx, task.ID, "test-user-001", &WorkerLogInput{
		EmployeeID: "emp-001", QtyCompleted: 60, QtyDefect: 3,
	}); err != nil {
		t.Fatalf("AddWorkerLog failed: %v", err)
	}

	mid, err := svc.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if mid.QtyCompleted != 60 || mid.QtyDefect != 3 {
		t.Errorf("Expected rollup 60/3, got %d/%d", mid.QtyCompleted, mid.QtyDefect)
	}
	if mid.Status != entity.TaskStatusInProgress {
		t.Errorf("Expected still in_progress below target, got %s", mid.Status)
	}

	// 累计达到目标自动完工
	if _, err := svc.AddWorkerLog(ctx, task.ID, "test-user-001", &WorkerLogInput{
		EmployeeID: "emp-001", QtyCompleted: 40, QtyDefect: 1,
	}); err != nil {
		t.Fatalf("Second AddWorkerLog failed: %v", err)
	}

	done, err := svc.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if done.QtyCompleted != 100 || done.QtyDefect != 4 {
		t.Errorf("Expected rollup 100/4, got %d/%d", done.QtyCompleted, done.QtyDefect)
	}
	if done.Status != entity.TaskStatusCompleted || done.ActualEnd == nil {
		t.Errorf("Expected auto-completed at target, got %s", done.Status)
	}

	// 完工后不再接受新日志
	var stateErr *StateError
	_, err = svc.AddWorkerLog(ctx, task.ID, "test-user-001", &WorkerLogInput{
		EmployeeID: "emp-001", QtyCompleted: 5,
	})
	if !errors.As(err, &stateErr) {
		t.Fatalf("Expected StateError logging on completed task, got %v", err)
	}

	rate, err := svc.DefectRate(ctx, task.ID)
	if err != nil {
		t.Fatalf("DefectRate failed: %v", err)
	}
	if rate != 4.0 {
		t.Errorf("Expected defect rate 4.0, got %v", rate)
	}
}
