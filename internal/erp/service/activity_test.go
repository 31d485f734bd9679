package service

import (
	"testing"

	"github.com/drwijaya/green-productions/internal/erp/entity"
)

func TestToSnapshotStruct(t *testing.T) {
	order := &entity.Order{ID: "order-001", OrderCode: "INV-202608-0001", QtyTotal: 100}

	snapshot := toSnapshot(order)
	if snapshot == nil {
		t.Fatal("Expected snapshot for struct payload, got nil")
	}
	if snapshot["order_code"] != "INV-202608-0001" {
		t.Errorf("Expected order_code in snapshot, got %v", snapshot["order_code"])
	}
}

func TestToSnapshotSlice(t *testing.T) {
	tasks := []entity.ProductionTask{
		{ID: "task-001", Process: "potong"},
		{ID: "task-002", Process: "jahit"},
	}

	snapshot := toSnapshot(tasks)
	if snapshot == nil {
		t.Fatal("Expected snapshot for slice payload, got nil")
	}
	items, ok := snapshot["items"].([]interface{})
	if !ok {
		t.Fatalf("Expected items array in snapshot, got %T", snapshot["items"])
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(items))
	}
}

func TestToSnapshotNil(t *testing.T) {
	if snapshot := toSnapshot(nil); snapshot != nil {
		t.Errorf("Expected nil snapshot for nil payload, got %v", snapshot)
	}
}
