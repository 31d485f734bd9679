package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/drwijaya/green-productions/internal/config"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/shared/storage"
)

// Services 服务集合
type Services struct {
	Activity      *ActivityRecorder
	Auth          *AuthService
	Order         *OrderService
	DSO           *DSOService
	ChangeRequest *ChangeRequestService
	Production    *ProductionService
	QC            *QCService
	QCAnalytics   *QCAnalyticsService
	Material      *MaterialService
	SOP           *SOPService
	Barcode       *BarcodeService
	Master        *MasterService
	Report        *ReportService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, storageClient *storage.Client, cfg *config.Config, logger *zap.Logger) *Services {
	activity := NewActivityRecorder(repos.ActivityLog, logger)
	qcAnalytics := NewQCAnalyticsService(repos.QC, rdb)

	return &Services{
		Activity:      activity,
		Auth:          NewAuthService(repos.User, rdb, cfg),
		Order:         NewOrderService(repos.Order, repos.Customer, repos.DSO, repos.Production, activity),
		DSO:           NewDSOService(repos.DSO, repos.Order, storageClient, activity),
		ChangeRequest: NewChangeRequestService(repos.ChangeRequest, repos.DSO, activity),
		Production:    NewProductionService(repos.Production, repos.Order, repos.Employee, activity),
		QC:            NewQCService(repos.QC, repos.Order, repos.Production, storageClient, activity),
		QCAnalytics:   qcAnalytics,
		Material:      NewMaterialService(repos.Material, repos.Vendor, repos.Order, activity),
		SOP:           NewSOPService(repos.SOP, repos.User, storageClient, activity),
		Barcode:       NewBarcodeService(repos.Barcode, repos.Order, storageClient, activity),
		Master:        NewMasterService(repos.Customer, repos.Vendor, repos.User, repos.Employee, activity),
		Report:        NewReportService(repos.Order, repos.Production, repos.QC, qcAnalytics, activity),
	}
}
