package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type QCHandler struct {
	svc       *service.QCService
	analytics *service.QCAnalyticsService
}

func NewQCHandler(svc *service.QCService, analytics *service.QCAnalyticsService) *QCHandler {
	return &QCHandler{svc: svc, analytics: analytics}
}

// parseTimeRange 解析start/end查询参数，默认近30天
func parseTimeRange(c *gin.Context) (time.Time, time.Time) {
	end := time.Now()
	start := end.Add(-30 * 24 * time.Hour)

	if s := c.Query("start"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			start = t
		}
	}
	if e := c.Query("end"); e != "" {
		if t, err := time.Parse("2006-01-02", e); err == nil {
			// end 按天包含
			end = t.Add(24 * time.Hour)
		}
	}

	return start, end
}

// ListSheets GET /qc/sheets
func (h *QCHandler) ListSheets(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if orderID := c.Query("order_id"); orderID != "" {
		filters["order_id"] = orderID
	}
	if taskID := c.Query("task_id"); taskID != "" {
		filters["task_id"] = taskID
	}
	if result := c.Query("result"); result != "" {
		filters["result"] = result
	}
	if process := c.Query("process"); process != "" {
		filters["process"] = process
	}
	if inspectorID := c.Query("inspector_id"); inspectorID != "" {
		filters["inspector_id"] = inspectorID
	}

	result, err := h.svc.ListSheets(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// GetSheet GET /qc/sheets/:id
func (h *QCHandler) GetSheet(c *gin.Context) {
	sheet, err := h.svc.GetSheet(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, sheet)
}

// CreateSheet POST /qc/sheets
func (h *QCHandler) CreateSheet(c *gin.Context) {
	var input service.CreateQCSheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sheet, err := h.svc.CreateSheet(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, sheet)
}

// UpdateSheet PUT /qc/sheets/:id
func (h *QCHandler) UpdateSheet(c *gin.Context) {
	var input service.UpdateSheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sheet, err := h.svc.UpdateSheet(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, sheet)
}

// UploadPhoto POST /qc/sheets/:id/photos
func (h *QCHandler) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "File is required")
		return
	}
	defer file.Close()

	result, err := h.svc.UploadPhoto(c.Request.Context(), c.Param("id"),
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

// ListDefects GET /qc/defects
func (h *QCHandler) ListDefects(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if sheetID := c.Query("sheet_id"); sheetID != "" {
		filters["sheet_id"] = sheetID
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if severity := c.Query("severity"); severity != "" {
		filters["severity"] = severity
	}
	if defectType := c.Query("defect_type"); defectType != "" {
		filters["defect_type"] = defectType
	}

	result, err := h.svc.ListDefects(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// GetDefect GET /qc/defects/:id
func (h *QCHandler) GetDefect(c *gin.Context) {
	defect, err := h.svc.GetDefect(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, defect)
}

// CreateDefect POST /qc/defects
func (h *QCHandler) CreateDefect(c *gin.Context) {
	var input service.CreateDefectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	defect, err := h.svc.CreateDefect(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, defect)
}

// MoveDefectStatus POST /qc/defects/:id/status
func (h *QCHandler) MoveDefectStatus(c *gin.Context) {
	var input struct {
		Status           string `json:"status" binding:"required"`
		VerificationNote string `json:"verification_note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	defect, err := h.svc.MoveDefectStatus(c.Request.Context(), c.Param("id"), GetUserID(c), input.Status, input.VerificationNote)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, defect)
}

// Score GET /qc/analytics/score
func (h *QCHandler) Score(c *gin.Context) {
	start, end := parseTimeRange(c)

	score, err := h.analytics.ComputeScore(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, score)
}

// Pareto GET /qc/analytics/pareto
func (h *QCHandler) Pareto(c *gin.Context) {
	start, end := parseTimeRange(c)

	rows, err := h.analytics.DefectPareto(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": rows})
}

// Processes GET /qc/analytics/processes
func (h *QCHandler) Processes(c *gin.Context) {
	start, end := parseTimeRange(c)

	comparison, err := h.analytics.CompareProcesses(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, comparison)
}

// Trends GET /qc/analytics/trends
func (h *QCHandler) Trends(c *gin.Context) {
	start, end := parseTimeRange(c)

	trends, err := h.analytics.ParameterTrends(c.Request.Context(), start, end)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": trends})
}

// PeriodReport GET /qc/analytics/period
func (h *QCHandler) PeriodReport(c *gin.Context) {
	period := c.DefaultQuery("period", "week")

	report, err := h.analytics.PeriodOverPeriod(c.Request.Context(), period, time.Now())
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, report)
}

// Dashboard GET /qc/analytics/dashboard
func (h *QCHandler) Dashboard(c *gin.Context) {
	stats, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, stats)
}
