package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// List GET /materials
func (h *MaterialHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if vendorID := c.Query("vendor_id"); vendorID != "" {
		filters["vendor_id"] = vendorID
	}
	if orderID := c.Query("order_id"); orderID != "" {
		filters["order_id"] = orderID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// Get GET /materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	request, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, request)
}

// Create POST /materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var input service.CreateMaterialRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	request, err := h.svc.CreateRequest(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, request)
}

// MoveStatus POST /materials/:id/status
func (h *MaterialHandler) MoveStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	request, err := h.svc.MoveStatus(c.Request.Context(), c.Param("id"), GetUserID(c), input.Status)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, request)
}

// ReceiveItem PUT /materials/:id/items/:itemId/receive
func (h *MaterialHandler) ReceiveItem(c *gin.Context) {
	var input service.ReceiveItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, err := h.svc.ReceiveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, item)
}

// SubmitQC POST /materials/:id/qc
func (h *MaterialHandler) SubmitQC(c *gin.Context) {
	var input struct {
		Items []service.MaterialQCItemInput `json:"items" binding:"required"`
		Notes string                        `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sheet, err := h.svc.SubmitQC(c.Request.Context(), c.Param("id"), GetUserID(c), input.Items, input.Notes)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, sheet)
}

// DecideQC POST /materials/:id/qc/decide
func (h *MaterialHandler) DecideQC(c *gin.Context) {
	var input struct {
		Result string `json:"result" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sheet, err := h.svc.DecideQC(c.Request.Context(), c.Param("id"), GetUserID(c), input.Result, input.Notes)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, sheet)
}
