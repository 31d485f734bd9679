package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Dashboard GET /reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	overview, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, overview)
}

// OrderProduction GET /reports/orders/:id/production
func (h *ReportHandler) OrderProduction(c *gin.Context) {
	report, err := h.svc.OrderProduction(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, report)
}

// Defects GET /reports/defects
func (h *ReportHandler) Defects(c *gin.Context) {
	start, end := parseTimeRange(c)

	report, err := h.svc.Defects(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, report)
}

// Activities GET /reports/activities
func (h *ReportHandler) Activities(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if module := c.Query("module"); module != "" {
		filters["module"] = module
	}
	if action := c.Query("action"); action != "" {
		filters["action"] = action
	}
	if recordID := c.Query("record_id"); recordID != "" {
		filters["record_id"] = recordID
	}
	if userID := c.Query("user_id"); userID != "" {
		filters["user_id"] = userID
	}

	logs, total, err := h.svc.Activities(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": logs, "total": total})
}

// ExportQCSummary GET /reports/qc-summary/export
func (h *ReportHandler) ExportQCSummary(c *gin.Context) {
	start, end := parseTimeRange(c)

	f, filename, err := h.svc.ExportQCSummary(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Export failed: "+err.Error())
		return
	}
}
