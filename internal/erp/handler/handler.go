package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/erp/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth          *AuthHandler
	Order         *OrderHandler
	DSO           *DSOHandler
	ChangeRequest *ChangeRequestHandler
	Production    *ProductionHandler
	QC            *QCHandler
	Material      *MaterialHandler
	SOP           *SOPHandler
	Barcode       *BarcodeHandler
	Master        *MasterHandler
	Report        *ReportHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:          NewAuthHandler(svc.Auth),
		Order:         NewOrderHandler(svc.Order),
		DSO:           NewDSOHandler(svc.DSO),
		ChangeRequest: NewChangeRequestHandler(svc.ChangeRequest, svc.DSO),
		Production:    NewProductionHandler(svc.Production),
		QC:            NewQCHandler(svc.QC, svc.QCAnalytics),
		Material:      NewMaterialHandler(svc.Material),
		SOP:           NewSOPHandler(svc.SOP),
		Barcode:       NewBarcodeHandler(svc.Barcode),
		Master:        NewMasterHandler(svc.Master),
		Report:        NewReportHandler(svc.Report),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError 按错误类型映射错误码
func RespondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var se *service.StateError
	var pe *service.PreconditionError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		Error(c, 40400, "record not found")
	case errors.As(err, &ve):
		Error(c, 40000, ve.Message)
	case errors.As(err, &se):
		Error(c, 40900, se.Message)
	case errors.As(err, &pe):
		Error(c, 42200, pe.Message)
	default:
		Error(c, 50000, err.Error())
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
