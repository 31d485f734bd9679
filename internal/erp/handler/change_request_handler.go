package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/service"
)

type ChangeRequestHandler struct {
	svc    *service.ChangeRequestService
	dsoSvc *service.DSOService
}

func NewChangeRequestHandler(svc *service.ChangeRequestService, dsoSvc *service.DSOService) *ChangeRequestHandler {
	return &ChangeRequestHandler{svc: svc, dsoSvc: dsoSvc}
}

// List GET /change-requests
func (h *ChangeRequestHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if dsoID := c.Query("dso_id"); dsoID != "" {
		filters["dso_id"] = dsoID
	}
	if priority := c.Query("priority"); priority != "" {
		filters["priority"] = priority
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// Get GET /change-requests/:id
func (h *ChangeRequestHandler) Get(c *gin.Context) {
	cr, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, cr)
}

// ListByDSO GET /dsos/:id/change-requests
func (h *ChangeRequestHandler) ListByDSO(c *gin.Context) {
	crs, err := h.svc.ListByDSO(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": crs})
}

// Create POST /change-requests
func (h *ChangeRequestHandler) Create(c *gin.Context) {
	var input service.CreateChangeRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	cr, err := h.svc.Create(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, cr)
}

// Approve POST /change-requests/:id/approve
func (h *ChangeRequestHandler) Approve(c *gin.Context) {
	var input struct {
		Note string `json:"note"`
	}
	c.ShouldBindJSON(&input)

	cr, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c), input.Note)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, cr)
}

// Reject POST /change-requests/:id/reject
func (h *ChangeRequestHandler) Reject(c *gin.Context) {
	var input struct {
		Note string `json:"note"`
	}
	c.ShouldBindJSON(&input)

	cr, err := h.svc.Reject(c.Request.Context(), c.Param("id"), GetUserID(c), input.Note)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, cr)
}

// Implement POST /change-requests/:id/implement
// 基于原DSO创建新版本并将变更请求标记为已实施
func (h *ChangeRequestHandler) Implement(c *gin.Context) {
	var fields service.DSOSpecFields
	c.ShouldBindJSON(&fields)

	userID := GetUserID(c)

	cr, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if cr.Status != entity.ChangeRequestApproved {
		Error(c, 40900, "only approved requests can be implemented")
		return
	}

	newDSO, err := h.dsoSvc.CreateNewVersion(c.Request.Context(), cr.DSOID, userID, &fields)
	if err != nil {
		RespondError(c, err)
		return
	}

	cr, err = h.svc.Implement(c.Request.Context(), cr.ID, userID, newDSO.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{
		"change_request": cr,
		"new_dso":        newDSO,
	})
}
