package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type BarcodeHandler struct {
	svc *service.BarcodeService
}

func NewBarcodeHandler(svc *service.BarcodeService) *BarcodeHandler {
	return &BarcodeHandler{svc: svc}
}

// List GET /barcodes
func (h *BarcodeHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if orderID := c.Query("order_id"); orderID != "" {
		filters["order_id"] = orderID
	}
	if barcodeType := c.Query("type"); barcodeType != "" {
		filters["type"] = barcodeType
	}
	if active := c.Query("active"); active != "" {
		filters["active"] = active == "true"
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// Get GET /barcodes/:id
func (h *BarcodeHandler) Get(c *gin.Context) {
	barcode, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, barcode)
}

// Lookup GET /barcodes/lookup?value=xxx
func (h *BarcodeHandler) Lookup(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		BadRequest(c, "value is required")
		return
	}

	barcode, err := h.svc.Lookup(c.Request.Context(), value)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, barcode)
}

// Create POST /barcodes
func (h *BarcodeHandler) Create(c *gin.Context) {
	var input service.CreateBarcodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	barcode, err := h.svc.Create(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, barcode)
}

// Deactivate POST /barcodes/:id/deactivate
func (h *BarcodeHandler) Deactivate(c *gin.Context) {
	barcode, err := h.svc.Deactivate(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, barcode)
}

// UploadLabel POST /barcodes/:id/label
func (h *BarcodeHandler) UploadLabel(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "File is required")
		return
	}
	defer file.Close()

	result, err := h.svc.UploadLabel(c.Request.Context(), c.Param("id"),
		file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if !result.Success {
		Error(c, 50010, result.Error)
		return
	}

	Created(c, result)
}

// Scan POST /barcodes/scan
func (h *BarcodeHandler) Scan(c *gin.Context) {
	var input service.ScanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Scan(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, result)
}

// Events GET /barcodes/:id/events
func (h *BarcodeHandler) Events(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"items": events})
}
