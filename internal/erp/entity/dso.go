package entity

import (
	"time"
)

// DSO 数字标准作业书（订单的版本化规格文档）
type DSO struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	OrderID string `json:"order_id" gorm:"size:32;not null;uniqueIndex:uniq_dso_order_version,priority:1"`
	Version int    `json:"version" gorm:"not null;default:1;uniqueIndex:uniq_dso_order_version,priority:2"`
	Status  string `json:"status" gorm:"size:20;not null;default:draft"`

	// 服装规格字段
	Jenis          string `json:"jenis" gorm:"size:128"`
	Bahan          string `json:"bahan" gorm:"size:128"`
	Warna          string `json:"warna" gorm:"size:128"`
	Sablon         string `json:"sablon" gorm:"size:128"`
	Posisi         string `json:"posisi" gorm:"size:128"`
	Acc1           string `json:"acc_1" gorm:"column:acc_1;size:128"`
	Acc2           string `json:"acc_2" gorm:"column:acc_2;size:128"`
	Acc3           string `json:"acc_3" gorm:"column:acc_3;size:128"`
	Acc4           string `json:"acc_4" gorm:"column:acc_4;size:128"`
	Acc5           string `json:"acc_5" gorm:"column:acc_5;size:128"`
	Kancing        string `json:"kancing" gorm:"size:128"`
	Saku           string `json:"saku" gorm:"size:128"`
	Resleting      string `json:"resleting" gorm:"size:128"`
	ModelBadanBawah string `json:"model_badan_bawah" gorm:"size:128"`
	Label          string `json:"label" gorm:"size:128"`
	GambarDepanURL string `json:"gambar_depan_url" gorm:"size:512"`

	// 客户备注
	CatatanCustomer1 string `json:"catatan_customer_1" gorm:"column:catatan_customer_1;type:text"`
	CatatanCustomer2 string `json:"catatan_customer_2" gorm:"column:catatan_customer_2;type:text"`
	CatatanCustomer3 string `json:"catatan_customer_3" gorm:"column:catatan_customer_3;type:text"`
	CatatanCustomer4 string `json:"catatan_customer_4" gorm:"column:catatan_customer_4;type:text"`
	CatatanCustomer5 string `json:"catatan_customer_5" gorm:"column:catatan_customer_5;type:text"`
	CatatanCustomer6 string `json:"catatan_customer_6" gorm:"column:catatan_customer_6;type:text"`

	// 旧版字段（历史数据仍在使用）
	Gramasi          string `json:"gramasi" gorm:"size:64"`
	Jahitan          string `json:"jahitan" gorm:"size:128"`
	Benang           string `json:"benang" gorm:"size:128"`
	LabelMerk        string `json:"label_merk" gorm:"size:128"`
	LabelSize        string `json:"label_size" gorm:"size:128"`
	LabelCare        string `json:"label_care" gorm:"size:128"`
	Hangtag          string `json:"hangtag" gorm:"size:128"`
	Packaging        string `json:"packaging" gorm:"size:128"`
	CatatanProduksi  string `json:"catatan_produksi" gorm:"type:text"`
	CatatanCustomer  string `json:"catatan_customer" gorm:"type:text"`

	// 审批信息
	ApprovedBy      *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason string     `json:"rejection_reason" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Order       *Order         `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Approver    *User          `json:"approver,omitempty" gorm:"foreignKey:ApprovedBy"`
	Images      []DSOImage     `json:"images,omitempty" gorm:"foreignKey:DSOID;constraint:OnDelete:CASCADE"`
	Accessories []DSOAccessory `json:"accessories,omitempty" gorm:"foreignKey:DSOID;constraint:OnDelete:CASCADE"`
	Sizes       []DSOSize      `json:"sizes,omitempty" gorm:"foreignKey:DSOID;constraint:OnDelete:CASCADE"`
	SizeCharts  []DSOSizeChart `json:"size_charts,omitempty" gorm:"foreignKey:DSOID;constraint:OnDelete:CASCADE"`
}

func (DSO) TableName() string {
	return "dsos"
}

// DSOImage DSO图片附件
type DSOImage struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	DSOID        string    `json:"dso_id" gorm:"size:32;not null;index"`
	Type         string    `json:"type" gorm:"size:32;not null;default:reference"`
	URL          string    `json:"url" gorm:"size:512;not null"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"size:512"`
	Annotations  JSONB     `json:"annotations" gorm:"type:jsonb"`
	SortOrder    int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DSOImage) TableName() string {
	return "dso_images"
}

// DSOAccessory DSO辅料行
type DSOAccessory struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	DSOID     string    `json:"dso_id" gorm:"size:32;not null;index"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Spec      string    `json:"spec" gorm:"size:256"`
	Qty       int       `json:"qty" gorm:"default:0"`
	Unit      string    `json:"unit" gorm:"size:16;default:pcs"`
	Notes     string    `json:"notes" gorm:"type:text"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (DSOAccessory) TableName() string {
	return "dso_accessories"
}

// DSOSize DSO尺码行
type DSOSize struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	DSOID        string    `json:"dso_id" gorm:"size:32;not null;index"`
	SizeLabel    string    `json:"size_label" gorm:"size:16;not null"`
	Qty          int       `json:"qty" gorm:"default:0"`
	Measurements JSONB     `json:"measurements" gorm:"type:jsonb"`
	SortOrder    int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DSOSize) TableName() string {
	return "dso_sizes"
}

// DSOSizeChart DSO尺码汇总表（短袖/长袖各一行）
type DSOSizeChart struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	DSOID     string `json:"dso_id" gorm:"size:32;not null;index"`
	ChartType string `json:"chart_type" gorm:"size:16;not null;default:dewasa"`

	PendekXS  int `json:"pendek_xs" gorm:"default:0"`
	PendekS   int `json:"pendek_s" gorm:"default:0"`
	PendekM   int `json:"pendek_m" gorm:"default:0"`
	PendekL   int `json:"pendek_l" gorm:"default:0"`
	PendekXL  int `json:"pendek_xl" gorm:"default:0"`
	PendekXXL int `json:"pendek_xxl" gorm:"default:0"`
	PendekX3L int `json:"pendek_x3l" gorm:"default:0"`
	PendekX4L int `json:"pendek_x4l" gorm:"default:0"`
	PendekX5L int `json:"pendek_x5l" gorm:"default:0"`

	PanjangXS  int `json:"panjang_xs" gorm:"default:0"`
	PanjangS   int `json:"panjang_s" gorm:"default:0"`
	PanjangM   int `json:"panjang_m" gorm:"default:0"`
	PanjangL   int `json:"panjang_l" gorm:"default:0"`
	PanjangXL  int `json:"panjang_xl" gorm:"default:0"`
	PanjangXXL int `json:"panjang_xxl" gorm:"default:0"`
	PanjangX3L int `json:"panjang_x3l" gorm:"default:0"`
	PanjangX4L int `json:"panjang_x4l" gorm:"default:0"`
	PanjangX5L int `json:"panjang_x5l" gorm:"default:0"`

	JumPendek  int `json:"jum_pendek" gorm:"default:0"`
	JumPanjang int `json:"jum_panjang" gorm:"default:0"`
	Total      int `json:"total" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DSOSizeChart) TableName() string {
	return "dso_size_charts"
}

// Recalculate 重新计算汇总列
func (c *DSOSizeChart) Recalculate() {
	c.JumPendek = c.PendekXS + c.PendekS + c.PendekM + c.PendekL + c.PendekXL +
		c.PendekXXL + c.PendekX3L + c.PendekX4L + c.PendekX5L
	c.JumPanjang = c.PanjangXS + c.PanjangS + c.PanjangM + c.PanjangL + c.PanjangXL +
		c.PanjangXXL + c.PanjangX3L + c.PanjangX4L + c.PanjangX5L
	c.Total = c.JumPendek + c.JumPanjang
}

// DSO状态
const (
	DSOStatusDraft           = "draft"
	DSOStatusPendingApproval = "pending_approval"
	DSOStatusApproved        = "approved"
	DSOStatusRejected        = "rejected"
	DSOStatusSuperseded      = "superseded"
)

// DSO图片类型
const (
	DSOImageReference = "reference"
	DSOImageFront     = "front"
	DSOImageBack      = "back"
	DSOImageDetail    = "detail"
	DSOImageSablon    = "sablon"
)

// DSO尺码表类型
const (
	DSOChartDewasa = "dewasa"
	DSOChartAnak   = "anak"
)

// ValidDSOStatus 校验状态取值
func ValidDSOStatus(s string) bool {
	switch s {
	case DSOStatusDraft, DSOStatusPendingApproval, DSOStatusApproved, DSOStatusRejected, DSOStatusSuperseded:
		return true
	}
	return false
}

// Editable DSO是否处于可编辑状态
func (d *DSO) Editable() bool {
	return d.Status == DSOStatusDraft || d.Status == DSOStatusRejected
}
