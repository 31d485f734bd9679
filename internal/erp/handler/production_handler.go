package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// CreateChain POST /orders/:id/tasks
func (h *ProductionHandler) CreateChain(c *gin.Context) {
	var req service.CreateTaskChainRequest
	c.ShouldBindJSON(&req)

	tasks, err := h.svc.CreateTaskChain(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, gin.H{"items": tasks})
}

// ListByOrder GET /orders/:id/tasks
func (h *ProductionHandler) ListByOrder(c *gin.Context) {
	tasks, err := h.svc.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": tasks})
}

// List GET /tasks
func (h *ProductionHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if orderID := c.Query("order_id"); orderID != "" {
		filters["order_id"] = orderID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if process := c.Query("process"); process != "" {
		filters["process"] = process
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// Get GET /tasks/:id
func (h *ProductionHandler) Get(c *gin.Context) {
	task, err := h.svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, task)
}

// Assign POST /tasks/:id/assign
func (h *ProductionHandler) Assign(c *gin.Context) {
	var input struct {
		LineSupervisor string `json:"line_supervisor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	task, err := h.svc.AssignTask(c.Request.Context(), c.Param("id"), GetUserID(c), input.LineSupervisor)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, task)
}

// Start POST /tasks/:id/start
func (h *ProductionHandler) Start(c *gin.Context) {
	task, err := h.svc.StartTask(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, task)
}

// Complete POST /tasks/:id/complete
func (h *ProductionHandler) Complete(c *gin.Context) {
	task, err := h.svc.CompleteTask(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, task)
}

// AddWorkerLog POST /tasks/:id/worker-logs
func (h *ProductionHandler) AddWorkerLog(c *gin.Context) {
	var input service.WorkerLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	log, err := h.svc.AddWorkerLog(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, log)
}

// UpdateWorkerLog PUT /tasks/:id/worker-logs/:logId
func (h *ProductionHandler) UpdateWorkerLog(c *gin.Context) {
	var input service.WorkerLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	log, err := h.svc.UpdateWorkerLog(c.Request.Context(), c.Param("id"), c.Param("logId"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, log)
}

// DefectRate GET /tasks/:id/defect-rate
func (h *ProductionHandler) DefectRate(c *gin.Context) {
	rate, err := h.svc.DefectRate(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"defect_rate": rate})
}
