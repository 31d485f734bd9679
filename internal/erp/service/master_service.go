package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
)

// MasterService 主数据服务（客户、供应商、用户、员工）
type MasterService struct {
	customerRepo *repository.CustomerRepository
	vendorRepo   *repository.VendorRepository
	userRepo     *repository.UserRepository
	empRepo      *repository.EmployeeRepository
	activity     *ActivityRecorder
}

// NewMasterService 创建主数据服务
func NewMasterService(customerRepo *repository.CustomerRepository, vendorRepo *repository.VendorRepository, userRepo *repository.UserRepository, empRepo *repository.EmployeeRepository, activity *ActivityRecorder) *MasterService {
	return &MasterService{
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		userRepo:     userRepo,
		empRepo:      empRepo,
		activity:     activity,
	}
}

// ============================================================
// 客户
// ============================================================

// CustomerInput 客户输入
type CustomerInput struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// CreateCustomer 创建客户
func (s *MasterService) CreateCustomer(ctx context.Context, userID string, input *CustomerInput) (*entity.Customer, error) {
	now := time.Now()
	customer := &entity.Customer{
		ID:            uuid.New().String()[:32],
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityCreated, customer.ID, "Customer", userID, nil, customer)
	return customer, nil
}

// UpdateCustomer 更新客户
func (s *MasterService) UpdateCustomer(ctx context.Context, id string, userID string, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *customer
	customer.Name = input.Name
	customer.ContactPerson = input.ContactPerson
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Address = input.Address
	customer.Notes = input.Notes
	customer.UpdatedAt = time.Now()

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityUpdated, customer.ID, "Customer", userID, &before, customer)
	return customer, nil
}

// DeleteCustomer 删除客户
func (s *MasterService) DeleteCustomer(ctx context.Context, id string, userID string) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityDeleted, id, "Customer", userID, customer, nil)
	return nil
}

// GetCustomer 获取客户详情
func (s *MasterService) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

// ListCustomers 获取客户列表
func (s *MasterService) ListCustomers(ctx context.Context, page, pageSize int, keyword string) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, page, pageSize, keyword)
}

// ============================================================
// 供应商
// ============================================================

// VendorInput 供应商输入
type VendorInput struct {
	Name          string `json:"name" binding:"required"`
	MaterialTypes string `json:"material_types"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	LeadTimeDays  int    `json:"lead_time_days"`
	Active        *bool  `json:"active"`
	Notes         string `json:"notes"`
}

// CreateVendor 创建供应商
func (s *MasterService) CreateVendor(ctx context.Context, userID string, input *VendorInput) (*entity.Vendor, error) {
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := time.Now()
	vendor := &entity.Vendor{
		ID:            uuid.New().String()[:32],
		Name:          input.Name,
		MaterialTypes: input.MaterialTypes,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		LeadTimeDays:  input.LeadTimeDays,
		Active:        active,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityCreated, vendor.ID, "Vendor", userID, nil, vendor)
	return vendor, nil
}

// UpdateVendor 更新供应商
func (s *MasterService) UpdateVendor(ctx context.Context, id string, userID string, input *VendorInput) (*entity.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *vendor
	vendor.Name = input.Name
	vendor.MaterialTypes = input.MaterialTypes
	vendor.ContactPerson = input.ContactPerson
	vendor.Phone = input.Phone
	vendor.Email = input.Email
	vendor.Address = input.Address
	vendor.LeadTimeDays = input.LeadTimeDays
	if input.Active != nil {
		vendor.Active = *input.Active
	}
	vendor.Notes = input.Notes
	vendor.UpdatedAt = time.Now()

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityUpdated, vendor.ID, "Vendor", userID, &before, vendor)
	return vendor, nil
}

// DeleteVendor 删除供应商
func (s *MasterService) DeleteVendor(ctx context.Context, id string, userID string) error {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.vendorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityDeleted, id, "Vendor", userID, vendor, nil)
	return nil
}

// GetVendor 获取供应商详情
func (s *MasterService) GetVendor(ctx context.Context, id string) (*entity.Vendor, error) {
	return s.vendorRepo.FindByID(ctx, id)
}

// ListVendors 获取供应商列表
func (s *MasterService) ListVendors(ctx context.Context, page, pageSize int, keyword string) ([]entity.Vendor, int64, error) {
	return s.vendorRepo.List(ctx, page, pageSize, keyword)
}

// ============================================================
// 用户
// ============================================================

func validRole(role string) bool {
	switch role {
	case entity.RoleOwner, entity.RoleAdmin, entity.RoleAdminProd, entity.RoleQCInspector, entity.RoleViewer:
		return true
	}
	return false
}

// CreateUserInput 创建用户输入
type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser 创建用户
func (s *MasterService) CreateUser(ctx context.Context, actorID string, input *CreateUserInput) (*entity.User, error) {
	if !validRole(input.Role) {
		return nil, NewValidationError("invalid role: %s", input.Role)
	}

	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, NewValidationError("username already taken: %s", input.Username)
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     input.Username,
		PasswordHash: string(hash),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Role:         input.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityCreated, user.ID, "User", actorID, nil, user)
	return user, nil
}

// UpdateUserInput 更新用户输入
type UpdateUserInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// UpdateUser 更新用户资料/角色/状态
func (s *MasterService) UpdateUser(ctx context.Context, id string, actorID string, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *user
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Role != "" {
		if !validRole(input.Role) {
			return nil, NewValidationError("invalid role: %s", input.Role)
		}
		user.Role = input.Role
	}
	if input.Status != "" {
		if input.Status != entity.UserStatusActive && input.Status != entity.UserStatusInactive {
			return nil, NewValidationError("invalid status: %s", input.Status)
		}
		user.Status = input.Status
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityUpdated, user.ID, "User", actorID, &before, user)
	return user, nil
}

// GetUser 获取用户详情
func (s *MasterService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// ListUsers 获取用户列表
func (s *MasterService) ListUsers(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.User, int64, error) {
	return s.userRepo.List(ctx, page, pageSize, filters)
}

// ============================================================
// 员工
// ============================================================

// EmployeeInput 员工输入
type EmployeeInput struct {
	EmployeeNo string `json:"employee_no" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Station    string `json:"station"`
	Line       string `json:"line"`
	Active     *bool  `json:"active"`
}

// CreateEmployee 创建员工
func (s *MasterService) CreateEmployee(ctx context.Context, actorID string, input *EmployeeInput) (*entity.Employee, error) {
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := time.Now()
	emp := &entity.Employee{
		ID:         uuid.New().String()[:32],
		EmployeeNo: input.EmployeeNo,
		Name:       input.Name,
		Station:    input.Station,
		Line:       input.Line,
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.empRepo.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityCreated, emp.ID, "Employee", actorID, nil, emp)
	return emp, nil
}

// UpdateEmployee 更新员工
func (s *MasterService) UpdateEmployee(ctx context.Context, id string, actorID string, input *EmployeeInput) (*entity.Employee, error) {
	emp, err := s.empRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *emp
	emp.EmployeeNo = input.EmployeeNo
	emp.Name = input.Name
	emp.Station = input.Station
	emp.Line = input.Line
	if input.Active != nil {
		emp.Active = *input.Active
	}
	emp.UpdatedAt = time.Now()

	if err := s.empRepo.Update(ctx, emp); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	s.activity.Record(ctx, "master", entity.ActivityUpdated, emp.ID, "Employee", actorID, &before, emp)
	return emp, nil
}

// GetEmployee 获取员工详情
func (s *MasterService) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	return s.empRepo.FindByID(ctx, id)
}

// ListEmployees 获取员工列表
func (s *MasterService) ListEmployees(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Employee, int64, error) {
	return s.empRepo.List(ctx, page, pageSize, filters)
}
