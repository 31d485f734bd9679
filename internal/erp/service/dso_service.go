package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/drwijaya/green-productions/internal/erp/entity"
	"github.com/drwijaya/green-productions/internal/erp/repository"
	"github.com/drwijaya/green-productions/internal/shared/storage"
)

// DSOService DSO版本生命周期服务
type DSOService struct {
	dsoRepo   *repository.DSORepository
	orderRepo *repository.OrderRepository
	storage   *storage.Client
	activity  *ActivityRecorder
}

// NewDSOService 创建DSO服务
func NewDSOService(dsoRepo *repository.DSORepository, orderRepo *repository.OrderRepository, storageClient *storage.Client, activity *ActivityRecorder) *DSOService {
	return &DSOService{
		dsoRepo:   dsoRepo,
		orderRepo: orderRepo,
		storage:   storageClient,
		activity:  activity,
	}
}

// DSOSpecFields DSO规格字段（创建与更新共用）
type DSOSpecFields struct {
	Jenis           *string `json:"jenis"`
	Bahan           *string `json:"bahan"`
	Warna           *string `json:"warna"`
	Sablon          *string `json:"sablon"`
	Posisi          *string `json:"posisi"`
	Acc1            *string `json:"acc_1"`
	Acc2            *string `json:"acc_2"`
	Acc3            *string `json:"acc_3"`
	Acc4            *string `json:"acc_4"`
	Acc5            *string `json:"acc_5"`
	Kancing         *string `json:"kancing"`
	Saku            *string `json:"saku"`
	Resleting       *string `json:"resleting"`
	ModelBadanBawah *string `json:"model_badan_bawah"`
	Label           *string `json:"label"`
	GambarDepanURL  *string `json:"gambar_depan_url"`

	CatatanCustomer1 *string `json:"catatan_customer_1"`
	CatatanCustomer2 *string `json:"catatan_customer_2"`
	CatatanCustomer3 *string `json:"catatan_customer_3"`
	CatatanCustomer4 *string `json:"catatan_customer_4"`
	CatatanCustomer5 *string `json:"catatan_customer_5"`
	CatatanCustomer6 *string `json:"catatan_customer_6"`

	Gramasi         *string `json:"gramasi"`
	Jahitan         *string `json:"jahitan"`
	Benang          *string `json:"benang"`
	LabelMerk       *string `json:"label_merk"`
	LabelSize       *string `json:"label_size"`
	LabelCare       *string `json:"label_care"`
	Hangtag         *string `json:"hangtag"`
	Packaging       *string `json:"packaging"`
	CatatanProduksi *string `json:"catatan_produksi"`
	CatatanCustomer *string `json:"catatan_customer"`
}

func applySpecFields(dso *entity.DSO, f *DSOSpecFields) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&dso.Jenis, f.Jenis)
	set(&dso.Bahan, f.Bahan)
	set(&dso.Warna, f.Warna)
	set(&dso.Sablon, f.Sablon)
	set(&dso.Posisi, f.Posisi)
	set(&dso.Acc1, f.Acc1)
	set(&dso.Acc2, f.Acc2)
	set(&dso.Acc3, f.Acc3)
	set(&dso.Acc4, f.Acc4)
	set(&dso.Acc5, f.Acc5)
	set(&dso.Kancing, f.Kancing)
	set(&dso.Saku, f.Saku)
	set(&dso.Resleting, f.Resleting)
	set(&dso.ModelBadanBawah, f.ModelBadanBawah)
	set(&dso.Label, f.Label)
	set(&dso.GambarDepanURL, f.GambarDepanURL)
	set(&dso.CatatanCustomer1, f.CatatanCustomer1)
	set(&dso.CatatanCustomer2, f.CatatanCustomer2)
	set(&dso.CatatanCustomer3, f.CatatanCustomer3)
	set(&dso.CatatanCustomer4, f.CatatanCustomer4)
	set(&dso.CatatanCustomer5, f.CatatanCustomer5)
	set(&dso.CatatanCustomer6, f.CatatanCustomer6)
	set(&dso.Gramasi, f.Gramasi)
	set(&dso.Jahitan, f.Jahitan)
	set(&dso.Benang, f.Benang)
	set(&dso.LabelMerk, f.LabelMerk)
	set(&dso.LabelSize, f.LabelSize)
	set(&dso.LabelCare, f.LabelCare)
	set(&dso.Hangtag, f.Hangtag)
	set(&dso.Packaging, f.Packaging)
	set(&dso.CatatanProduksi, f.CatatanProduksi)
	set(&dso.CatatanCustomer, f.CatatanCustomer)
}

// copyCarryOverFields 新版本只继承规格字段，不继承审批信息
func copyCarryOverFields(src *entity.DSO) *entity.DSO {
	return &entity.DSO{
		OrderID:          src.OrderID,
		Jenis:            src.Jenis,
		Bahan:            src.Bahan,
		Warna:            src.Warna,
		Sablon:           src.Sablon,
		Posisi:           src.Posisi,
		Acc1:             src.Acc1,
		Acc2:             src.Acc2,
		Acc3:             src.Acc3,
		Acc4:             src.Acc4,
		Acc5:             src.Acc5,
		Kancing:          src.Kancing,
		Saku:             src.Saku,
		Resleting:        src.Resleting,
		ModelBadanBawah:  src.ModelBadanBawah,
		Label:            src.Label,
		GambarDepanURL:   src.GambarDepanURL,
		CatatanCustomer1: src.CatatanCustomer1,
		CatatanCustomer2: src.CatatanCustomer2,
		CatatanCustomer3: src.CatatanCustomer3,
		CatatanCustomer4: src.CatatanCustomer4,
		CatatanCustomer5: src.CatatanCustomer5,
		CatatanCustomer6: src.CatatanCustomer6,
		Gramasi:          src.Gramasi,
		Jahitan:          src.Jahitan,
		Benang:           src.Benang,
		LabelMerk:        src.LabelMerk,
		LabelSize:        src.LabelSize,
		LabelCare:        src.LabelCare,
		Hangtag:          src.Hangtag,
		Packaging:        src.Packaging,
		CatatanProduksi:  src.CatatanProduksi,
		CatatanCustomer:  src.CatatanCustomer,
	}
}

// Get 获取DSO详情
func (s *DSOService) Get(ctx context.Context, id string) (*entity.DSO, error) {
	return s.dsoRepo.FindByID(ctx, id)
}

// ListByOrder 获取订单的全部DSO版本
func (s *DSOService) ListByOrder(ctx context.Context, orderID string) ([]entity.DSO, error) {
	return s.dsoRepo.ListByOrder(ctx, orderID)
}

// DSOListResult DSO列表结果
type DSOListResult struct {
	Items      []entity.DSO `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// List 获取DSO列表
func (s *DSOService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*DSOListResult, error) {
	dsos, total, err := s.dsoRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("list DSOs: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &DSOListResult{
		Items:      dsos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// CreateForOrder 为订单创建首个DSO版本
func (s *DSOService) CreateForOrder(ctx context.Context, orderID string, userID string, fields *DSOSpecFields) (*entity.DSO, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.dsoRepo.FindLatestByOrder(ctx, orderID); err == nil {
		return nil, NewStateError("order %s already has a DSO, create a new version instead", order.OrderCode)
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	dso := &entity.DSO{
		ID:        uuid.New().String()[:32],
		OrderID:   orderID,
		Version:   1,
		Status:    entity.DSOStatusDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if fields != nil {
		applySpecFields(dso, fields)
	}

	if err := s.dsoRepo.CreateFirstVersion(ctx, dso); err != nil {
		return nil, fmt.Errorf("create DSO: %w", err)
	}

	// 首个DSO创建后刷新订单镜像状态
	if err := s.orderRepo.UpdateDSOStatus(ctx, orderID, entity.OrderDSODraft); err != nil {
		return nil, fmt.Errorf("update order dso_status: %w", err)
	}

	s.activity.Record(ctx, "dso", entity.ActivityCreated, dso.ID, "DSO", userID, nil, dso)

	return dso, nil
}

// Update 更新DSO规格字段，只允许draft/rejected
func (s *DSOService) Update(ctx context.Context, id string, userID string, fields *DSOSpecFields) (*entity.DSO, error) {
	dso, err := s.dsoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !dso.Editable() {
		return nil, NewStateError("DSO v%d is %s and cannot be edited", dso.Version, dso.Status)
	}

	before := *dso
	applySpecFields(dso, fields)

	// 编辑被拒版本使其回到draft并清除拒绝原因
	if dso.Status == entity.DSOStatusRejected {
		dso.Status = entity.DSOStatusDraft
		dso.RejectionReason = ""
	}
	dso.UpdatedAt = time.Now()

	if err := s.dsoRepo.Update(ctx, dso); err != nil {
		return nil, fmt.Errorf("update DSO: %w", err)
	}

	s.activity.Record(ctx, "dso", entity.ActivityUpdated, dso.ID, "DSO", userID, &before, dso)

	return dso, nil
}

// Submit 送审 draft→pending_approval
func (s *DSOService) Submit(ctx context.Context, id string, userID string) (*entity.DSO, error) {
	dso, err := s.dsoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dso.Status != entity.DSOStatusDraft {
		return nil, NewStateError("only draft DSOs can be submitted, current status is %s", dso.Status)
	}

	if err := s.dsoRepo.UpdateStatus(ctx, id, map[string]interface{}{
		"status": entity.DSOStatusPendingApproval,
	}); err != nil {
		return nil, fmt.Errorf("submit DSO: %w", err)
	}
	dso.Status = entity.DSOStatusPendingApproval

	s.activity.Record(ctx, "dso", entity.ActivitySubmitted, dso.ID, "DSO", userID, nil, dso)

	return dso, nil
}

// Approve 批准 pending_approval→approved，并刷新订单镜像状态
func (s *DSOService) Approve(ctx context.Context, id string, approverID string) (*entity.DSO, error) {
	dso, err := s.dsoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dso.Status != entity.DSOStatusPendingApproval {
		return nil, NewStateError("only pending_approval DSOs can be approved, current status is %s", dso.Status)
	}

	now := time.Now()
	if err := s.dsoRepo.UpdateStatus(ctx, id, map[string]interface{}{
		"status":      entity.DSOStatusApproved,
		"approved_by": approverID,
		"approved_at": now,
	}); err != nil {
		return nil, fmt.Errorf("approve DSO: %w", err)
	}
	dso.Status = entity.DSOStatusApproved
	dso.ApprovedBy = &approverID
	dso.ApprovedAt = &now

	if err := s.orderRepo.UpdateDSOStatus(ctx, dso.OrderID, entity.OrderDSOCreated); err != nil {
		return nil, fmt.Errorf("update order dso_status: %w", err)
	}

	s.activity.Record(ctx, "dso", entity.ActivityApproved, dso.ID, "DSO", approverID, nil, dso)

	return dso, nil
}

// Reject 驳回 pending_approval→rejected
func (s *DSOService) Reject(ctx context.Context, id string, approverID string, reason string) (*entity.DSO, error) {
	if reason == "" {
		return nil, NewValidationError("rejection reason is required")
	}

	dso, err := s.dsoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dso.Status != entity.DSOStatusPendingApproval {
		return nil, NewStateError("only pending_approval DSOs can be rejected, current status is %s", dso.Status)
	}

	if err := s.dsoRepo.UpdateStatus(ctx, id, map[string]interface{}{
		"status":           entity.DSOStatusRejected,
		"approved_by":      approverID,
		"rejection_reason": reason,
	}); err != nil {
		return nil, fmt.Errorf("reject DSO: %w", err)
	}
	dso.Status = entity.DSOStatusRejected
	dso.ApprovedBy = &approverID
	dso.RejectionReason = reason

	s.activity.Record(ctx, "dso", entity.ActivityRejected, dso.ID, "DSO", approverID, nil, dso)

	return dso, nil
}

// CreateNewVersion 基于现有版本创建新版本
func (s *DSOService) CreateNewVersion(ctx context.Context, sourceID string, userID string, fields *DSOSpecFields) (*entity.DSO, error) {
	source, err := s.dsoRepo.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	next := copyCarryOverFields(source)
	next.CreatedBy = userID
	if fields != nil {
		applySpecFields(next, fields)
	}

	created, err := s.dsoRepo.CreateNewVersion(ctx, sourceID, next)
	if err != nil {
		return nil, fmt.Errorf("create new DSO version: %w", err)
	}

	// 新版本是draft，镜像状态回退到draft（除非历史上仍有已批准版本）
	mirror := entity.OrderDSODraft
	if _, err := s.dsoRepo.FindCurrentApproved(ctx, source.OrderID); err == nil {
		mirror = entity.OrderDSOCreated
	}
	if err := s.orderRepo.UpdateDSOStatus(ctx, source.OrderID, mirror); err != nil {
		return nil, fmt.Errorf("update order dso_status: %w", err)
	}

	s.activity.Record(ctx, "dso", entity.ActivityCreated, created.ID, "DSO", userID, source, created)

	return created, nil
}

// requireEditable 子集合编辑共用的状态闸
func (s *DSOService) requireEditable(ctx context.Context, dsoID string) (*entity.DSO, error) {
	dso, err := s.dsoRepo.FindByID(ctx, dsoID)
	if err != nil {
		return nil, err
	}
	if !dso.Editable() {
		return nil, NewStateError("DSO v%d is %s and cannot be edited", dso.Version, dso.Status)
	}
	return dso, nil
}

// UploadImage 上传并挂载图片，存储失败时不落库
func (s *DSOService) UploadImage(ctx context.Context, dsoID string, imageType string, reader io.Reader, size int64, fileName, contentType string, sortOrder int) (*entity.DSOImage, *storage.UploadResult, error) {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return nil, nil, err
	}

	result := s.storage.Upload(ctx, reader, size, "dso-images", fileName, contentType)
	if !result.Success {
		return nil, result, nil
	}

	if imageType == "" {
		imageType = entity.DSOImageReference
	}

	img := &entity.DSOImage{
		ID:        uuid.New().String()[:32],
		DSOID:     dsoID,
		Type:      imageType,
		URL:       result.URL,
		SortOrder: sortOrder,
		CreatedAt: time.Now(),
	}
	if err := s.dsoRepo.AddImage(ctx, img); err != nil {
		return nil, result, fmt.Errorf("add DSO image: %w", err)
	}

	return img, result, nil
}

// RemoveImage 删除图片
func (s *DSOService) RemoveImage(ctx context.Context, dsoID, imageID string) error {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return err
	}
	if _, err := s.dsoRepo.FindImageByID(ctx, dsoID, imageID); err != nil {
		return err
	}
	return s.dsoRepo.RemoveImage(ctx, dsoID, imageID)
}

// AnnotateImage 保存图片标注
func (s *DSOService) AnnotateImage(ctx context.Context, dsoID, imageID string, annotations entity.JSONB) error {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return err
	}
	if _, err := s.dsoRepo.FindImageByID(ctx, dsoID, imageID); err != nil {
		return err
	}
	return s.dsoRepo.UpdateImageAnnotations(ctx, dsoID, imageID, annotations)
}

// AccessoryInput 辅料行输入
type AccessoryInput struct {
	Name      string `json:"name" binding:"required"`
	Spec      string `json:"spec"`
	Qty       int    `json:"qty"`
	Unit      string `json:"unit"`
	Notes     string `json:"notes"`
	SortOrder int    `json:"sort_order"`
}

// AddAccessory 新增辅料行
func (s *DSOService) AddAccessory(ctx context.Context, dsoID string, input *AccessoryInput) (*entity.DSOAccessory, error) {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return nil, err
	}

	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}

	acc := &entity.DSOAccessory{
		ID:        uuid.New().String()[:32],
		DSOID:     dsoID,
		Name:      input.Name,
		Spec:      input.Spec,
		Qty:       input.Qty,
		Unit:      unit,
		Notes:     input.Notes,
		SortOrder: input.SortOrder,
		CreatedAt: time.Now(),
	}
	if err := s.dsoRepo.AddAccessory(ctx, acc); err != nil {
		return nil, fmt.Errorf("add accessory: %w", err)
	}
	return acc, nil
}

// UpdateAccessory 更新辅料行
func (s *DSOService) UpdateAccessory(ctx context.Context, dsoID, accID string, input *AccessoryInput) (*entity.DSOAccessory, error) {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return nil, err
	}

	acc, err := s.dsoRepo.FindAccessoryByID(ctx, dsoID, accID)
	if err != nil {
		return nil, err
	}

	acc.Name = input.Name
	acc.Spec = input.Spec
	acc.Qty = input.Qty
	if input.Unit != "" {
		acc.Unit = input.Unit
	}
	acc.Notes = input.Notes
	acc.SortOrder = input.SortOrder

	if err := s.dsoRepo.UpdateAccessory(ctx, acc); err != nil {
		return nil, fmt.Errorf("update accessory: %w", err)
	}
	return acc, nil
}

// RemoveAccessory 删除辅料行
func (s *DSOService) RemoveAccessory(ctx context.Context, dsoID, accID string) error {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return err
	}
	if _, err := s.dsoRepo.FindAccessoryByID(ctx, dsoID, accID); err != nil {
		return err
	}
	return s.dsoRepo.RemoveAccessory(ctx, dsoID, accID)
}

// SizeInput 尺码行输入
type SizeInput struct {
	SizeLabel    string       `json:"size_label" binding:"required"`
	Qty          int          `json:"qty"`
	Measurements entity.JSONB `json:"measurements"`
	SortOrder    int          `json:"sort_order"`
}

// ReplaceSizes 整体替换尺码行
func (s *DSOService) ReplaceSizes(ctx context.Context, dsoID string, inputs []SizeInput) ([]entity.DSOSize, error) {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return nil, err
	}

	now := time.Now()
	sizes := make([]entity.DSOSize, 0, len(inputs))
	for i, in := range inputs {
		sortOrder := in.SortOrder
		if sortOrder == 0 {
			sortOrder = i
		}
		sizes = append(sizes, entity.DSOSize{
			ID:           uuid.New().String()[:32],
			DSOID:        dsoID,
			SizeLabel:    in.SizeLabel,
			Qty:          in.Qty,
			Measurements: in.Measurements,
			SortOrder:    sortOrder,
			CreatedAt:    now,
		})
	}

	if err := s.dsoRepo.ReplaceSizes(ctx, dsoID, sizes); err != nil {
		return nil, fmt.Errorf("replace sizes: %w", err)
	}
	return sizes, nil
}

// UpsertSizeChart 保存尺码汇总表，汇总列在服务端重算
func (s *DSOService) UpsertSizeChart(ctx context.Context, dsoID string, chart *entity.DSOSizeChart) (*entity.DSOSizeChart, error) {
	if _, err := s.requireEditable(ctx, dsoID); err != nil {
		return nil, err
	}

	if chart.ChartType != entity.DSOChartDewasa && chart.ChartType != entity.DSOChartAnak {
		return nil, NewValidationError("invalid chart_type: %s", chart.ChartType)
	}

	chart.DSOID = dsoID
	chart.Recalculate()

	if err := s.dsoRepo.UpsertSizeChart(ctx, chart); err != nil {
		return nil, fmt.Errorf("upsert size chart: %w", err)
	}
	return chart, nil
}
