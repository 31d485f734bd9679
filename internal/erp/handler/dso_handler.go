package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/service"
)

type DSOHandler struct {
	svc *service.DSOService
}

func NewDSOHandler(svc *service.DSOService) *DSOHandler {
	return &DSOHandler{svc: svc}
}

// List GET /dsos
func (h *DSOHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
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

// Get GET /dsos/:id
func (h *DSOHandler) Get(c *gin.Context) {
	dso, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, dso)
}

// ListByOrder GET /orders/:id/dsos
func (h *DSOHandler) ListByOrder(c *gin.Context) {
	dsos, err := h.svc.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": dsos})
}

// Create POST /orders/:id/dsos
func (h *DSOHandler) Create(c *gin.Context) {
	var fields service.DSOSpecFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	dso, err := h.svc.CreateForOrder(c.Request.Context(), c.Param("id"), GetUserID(c), &fields)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, dso)
}

// Update PUT /dsos/:id
func (h *DSOHandler) Update(c *gin.Context) {
	var fields service.DSOSpecFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	dso, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetUserID(c), &fields)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, dso)
}

// Submit POST /dsos/:id/submit
func (h *DSOHandler) Submit(c *gin.Context) {
	dso, err := h.svc.Submit(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, dso)
}

// Approve POST /dsos/:id/approve
func (h *DSOHandler) Approve(c *gin.Context) {
	dso, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, dso)
}

// Reject POST /dsos/:id/reject
func (h *DSOHandler) Reject(c *gin.Context) {
	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	dso, err := h.svc.Reject(c.Request.Context(), c.Param("id"), GetUserID(c), input.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, dso)
}

// CreateVersion POST /dsos/:id/versions
func (h *DSOHandler) CreateVersion(c *gin.Context) {
	var fields service.DSOSpecFields
	c.ShouldBindJSON(&fields)

	dso, err := h.svc.CreateNewVersion(c.Request.Context(), c.Param("id"), GetUserID(c), &fields)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, dso)
}

// UploadImage POST /dsos/:id/images
func (h *DSOHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "File is required")
		return
	}
	defer file.Close()

	imageType := c.PostForm("image_type")
	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))

	image, result, err := h.svc.UploadImage(c.Request.Context(), c.Param("id"), imageType,
		file, header.Size, header.Filename, header.Header.Get("Content-Type"), sortOrder)
	if err != nil {
		RespondError(c, err)
		return
	}
	if !result.Success {
		Error(c, 50010, result.Error)
		return
	}

	Created(c, image)
}

// RemoveImage DELETE /dsos/:id/images/:imageId
func (h *DSOHandler) RemoveImage(c *gin.Context) {
	if err := h.svc.RemoveImage(c.Request.Context(), c.Param("id"), c.Param("imageId")); err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"message": "image removed"})
}

// AnnotateImage PUT /dsos/:id/images/:imageId/annotations
func (h *DSOHandler) AnnotateImage(c *gin.Context) {
	var input struct {
		Annotations entity.JSONB `json:"annotations" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.svc.AnnotateImage(c.Request.Context(), c.Param("id"), c.Param("imageId"), input.Annotations); err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"message": "annotations saved"})
}

// AddAccessory POST /dsos/:id/accessories
func (h *DSOHandler) AddAccessory(c *gin.Context) {
	var input service.AccessoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	acc, err := h.svc.AddAccessory(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, acc)
}

// UpdateAccessory PUT /dsos/:id/accessories/:accId
func (h *DSOHandler) UpdateAccessory(c *gin.Context) {
	var input service.AccessoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	acc, err := h.svc.UpdateAccessory(c.Request.Context(), c.Param("id"), c.Param("accId"), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, acc)
}

// RemoveAccessory DELETE /dsos/:id/accessories/:accId
func (h *DSOHandler) RemoveAccessory(c *gin.Context) {
	if err := h.svc.RemoveAccessory(c.Request.Context(), c.Param("id"), c.Param("accId")); err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"message": "accessory removed"})
}

// ReplaceSizes PUT /dsos/:id/sizes
func (h *DSOHandler) ReplaceSizes(c *gin.Context) {
	var input struct {
		Sizes []service.SizeInput `json:"sizes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sizes, err := h.svc.ReplaceSizes(c.Request.Context(), c.Param("id"), input.Sizes)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"items": sizes})
}

// UpsertSizeChart PUT /dsos/:id/size-chart
func (h *DSOHandler) UpsertSizeChart(c *gin.Context) {
	var chart entity.DSOSizeChart
	if err := c.ShouldBindJSON(&chart); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	saved, err := h.svc.UpsertSizeChart(c.Request.Context(), c.Param("id"), &chart)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, saved)
}
