package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type SOPHandler struct {
	svc *service.SOPService
}

func NewSOPHandler(svc *service.SOPService) *SOPHandler {
	return &SOPHandler{svc: svc}
}

// List GET /sops
func (h *SOPHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
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

// Get GET /sops/:id
func (h *SOPHandler) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, doc)
}

// Create POST /sops
func (h *SOPHandler) Create(c *gin.Context) {
	var input service.CreateSOPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	doc, err := h.svc.Create(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, doc)
}

// Update PUT /sops/:id
func (h *SOPHandler) Update(c *gin.Context) {
	var input service.UpdateSOPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, doc)
}

// UploadRevision POST /sops/:id/revisions
func (h *SOPHandler) UploadRevision(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "File is required")
		return
	}
	defer file.Close()

	doc, result, err := h.svc.UploadRevision(c.Request.Context(), c.Param("id"), GetUserID(c),
		file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if !result.Success {
		Error(c, 50010, result.Error)
		return
	}

	Success(c, doc)
}

// Acknowledge POST /sops/:id/acknowledge
func (h *SOPHandler) Acknowledge(c *gin.Context) {
	ack, err := h.svc.Acknowledge(c.Request.Context(), c.Param("id"), GetUserID(c),
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, ack)
}

// Acknowledgments GET /sops/:id/acknowledgments
func (h *SOPHandler) Acknowledgments(c *gin.Context) {
	status, err := h.svc.GetAcknowledgments(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, status)
}
