package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	User          *UserRepository
	Employee      *EmployeeRepository
	Customer      *CustomerRepository
	Vendor        *VendorRepository
	Order         *OrderRepository
	DSO           *DSORepository
	ChangeRequest *ChangeRequestRepository
	Production    *ProductionRepository
	QC            *QCRepository
	Material      *MaterialRepository
	SOP           *SOPRepository
	Barcode       *BarcodeRepository
	ActivityLog   *ActivityLogRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Employee:      NewEmployeeRepository(db),
		Customer:      NewCustomerRepository(db),
		Vendor:        NewVendorRepository(db),
		Order:         NewOrderRepository(db),
		DSO:           NewDSORepository(db),
		ChangeRequest: NewChangeRequestRepository(db),
		Production:    NewProductionRepository(db),
		QC:            NewQCRepository(db),
		Material:      NewMaterialRepository(db),
		SOP:           NewSOPRepository(db),
		Barcode:       NewBarcodeRepository(db),
		ActivityLog:   NewActivityLogRepository(db),
	}
}
