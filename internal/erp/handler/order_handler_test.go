package handler

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/erp/service"
	"github.com/drwijaya/green-productions/internal/erp/testutil"
)

func setupOrderHandlerTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	activity := service.NewActivityRecorder(repos.ActivityLog, zap.NewNop())
	orderSvc := service.NewOrderService(repos.Order, repos.Customer, repos.DSO, repos.Production, activity)
	h := NewOrderHandler(orderSvc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/orders", h.List)
	api.GET("/orders/:id", h.Get)
	api.POST("/orders", h.Create)
	api.PUT("/orders/:id", h.Update)
	api.POST("/orders/:id/status", h.MoveStatus)
	api.GET("/orders/:id/progress", h.Progress)

	testutil.SeedTestUser(t, db, "test-user-001", "admin", "Test Admin", entity.RoleAdmin)
	testutil.SeedTestCustomer(t, db, "cust-001", "Test Customer")

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestOrderCreateAndGet(t *testing.T) {
	env := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders", map[string]interface{}{
		"customer_id": "cust-001",
		"model":       "Kaos Polo Hitam",
		"qty_total":   300,
		"priority":    "high",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	orderID := data["id"].(string)
	if data["status"] != "draft" {
		t.Errorf("Expected draft, got %v", data["status"])
	}

	w = testutil.DoRequest(env.Router, "GET", "/api/v1/orders/"+orderID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["model"] != "Kaos Polo Hitam" {
		t.Errorf("Expected model echoed back, got %v", data["model"])
	}
}

func TestOrderCreateRequiresAuth(t *testing.T) {
	env := setupOrderHandlerTest(t)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders", map[string]interface{}{
		"customer_id": "cust-001",
		"model":       "Kaos",
		"qty_total":   10,
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}

func TestOrderCreateValidation(t *testing.T) {
	env := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	// 缺少必填字段
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders", map[string]interface{}{
		"customer_id": "cust-001",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing fields, got %d: %s", w.Code, w.Body.String())
	}

	// 未知客户
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders", map[string]interface{}{
		"customer_id": "no-such-customer",
		"model":       "Kaos",
		"qty_total":   10,
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown customer, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40000 {
		t.Errorf("Expected code 40000, got %v", resp["code"])
	}
}

func TestOrderMoveStatusConflict(t *testing.T) {
	env := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders", map[string]interface{}{
		"customer_id": "cust-001",
		"model":       "Jaket",
		"qty_total":   40,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// draft→completed是非法流转
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders/"+orderID+"/status", map[string]interface{}{
		"status": "completed",
	}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40900 {
		t.Errorf("Expected code 40900, got %v", resp["code"])
	}
}

func TestOrderGetNotFound(t *testing.T) {
	env := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/orders/does-not-exist", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrderListPagination(t *testing.T) {
	env := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	for i := 0; i < 3; i++ {
		w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders", map[string]interface{}{
			"customer_id": "cust-001",
			"model":       "Kemeja",
			"qty_total":   25,
		}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("Seed order %d failed: %d", i, w.Code)
		}
	}

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/orders?page=1&page_size=2", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 2 {
		t.Errorf("Expected 2 items on page 1, got %d", len(items))
	}
	if data["total"].(float64) != 3 {
		t.Errorf("Expected total 3, got %v", data["total"])
	}
}
