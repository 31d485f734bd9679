package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type MasterHandler struct {
	svc *service.MasterService
}

func NewMasterHandler(svc *service.MasterService) *MasterHandler {
	return &MasterHandler{svc: svc}
}

// ListCustomers GET /customers
func (h *MasterHandler) ListCustomers(c *gin.Context) {
	page, pageSize := GetPagination(c)

	customers, total, err := h.svc.ListCustomers(c.Request.Context(), page, pageSize, c.Query("keyword"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": customers, "total": total})
}

// GetCustomer GET /customers/:id
func (h *MasterHandler) GetCustomer(c *gin.Context) {
	customer, err := h.svc.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, customer)
}

// CreateCustomer POST /customers
func (h *MasterHandler) CreateCustomer(c *gin.Context) {
	var input service.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	customer, err := h.svc.CreateCustomer(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, customer)
}

// UpdateCustomer PUT /customers/:id
func (h *MasterHandler) UpdateCustomer(c *gin.Context) {
	var input service.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	customer, err := h.svc.UpdateCustomer(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, customer)
}

// DeleteCustomer DELETE /customers/:id
func (h *MasterHandler) DeleteCustomer(c *gin.Context) {
	if err := h.svc.DeleteCustomer(c.Request.Context(), c.Param("id"), GetUserID(c)); err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"message": "customer deleted"})
}

// ListVendors GET /vendors
func (h *MasterHandler) ListVendors(c *gin.Context) {
	page, pageSize := GetPagination(c)

	vendors, total, err := h.svc.ListVendors(c.Request.Context(), page, pageSize, c.Query("keyword"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": vendors, "total": total})
}

// GetVendor GET /vendors/:id
func (h *MasterHandler) GetVendor(c *gin.Context) {
	vendor, err := h.svc.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, vendor)
}

// CreateVendor POST /vendors
func (h *MasterHandler) CreateVendor(c *gin.Context) {
	var input service.VendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	vendor, err := h.svc.CreateVendor(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, vendor)
}

// UpdateVendor PUT /vendors/:id
func (h *MasterHandler) UpdateVendor(c *gin.Context) {
	var input service.VendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	vendor, err := h.svc.UpdateVendor(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, vendor)
}

// DeleteVendor DELETE /vendors/:id
func (h *MasterHandler) DeleteVendor(c *gin.Context) {
	if err := h.svc.DeleteVendor(c.Request.Context(), c.Param("id"), GetUserID(c)); err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"message": "vendor deleted"})
}

// ListUsers GET /users
func (h *MasterHandler) ListUsers(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if role := c.Query("role"); role != "" {
		filters["role"] = role
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	users, total, err := h.svc.ListUsers(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": users, "total": total})
}

// GetUser GET /users/:id
func (h *MasterHandler) GetUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, user)
}

// CreateUser POST /users
func (h *MasterHandler) CreateUser(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, user)
}

// UpdateUser PUT /users/:id
func (h *MasterHandler) UpdateUser(c *gin.Context) {
	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, user)
}

// ListEmployees GET /employees
func (h *MasterHandler) ListEmployees(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if active := c.Query("active"); active != "" {
		filters["active"] = active == "true"
	}

	employees, total, err := h.svc.ListEmployees(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{"items": employees, "total": total})
}

// GetEmployee GET /employees/:id
func (h *MasterHandler) GetEmployee(c *gin.Context) {
	employee, err := h.svc.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, employee)
}

// CreateEmployee POST /employees
func (h *MasterHandler) CreateEmployee(c *gin.Context) {
	var input service.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	employee, err := h.svc.CreateEmployee(c.Request.Context(), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, employee)
}

// UpdateEmployee PUT /employees/:id
func (h *MasterHandler) UpdateEmployee(c *gin.Context) {
	var input service.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	employee, err := h.svc.UpdateEmployee(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, employee)
}
