package model

import (
	"strings"
	"time"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type QuotationStatus string

const (
	StatusDraft              QuotationStatus = "draft"
	StatusPending            QuotationStatus = "pending"
	StatusApproved           QuotationStatus = "approved"
	StatusRejected           QuotationStatus = "rejected"
	StatusPurchasing         QuotationStatus = "purchasing"
	StatusPurchased          QuotationStatus = "purchased"
	StatusOrdered            QuotationStatus = "ordered"
	StatusAllocated          QuotationStatus = "allocated"
	StatusPartiallyFulfilled QuotationStatus = "partially_fulfilled"
)

type QuotationKind string

const (
	// KindRequest is a lab-originated request.
	KindRequest QuotationKind = "request"
	// KindVendor is a central-store quotation addressed to a vendor.
	KindVendor QuotationKind = "vendor"
)

type LineItemKind string

const (
	ItemChemical  LineItemKind = "chemical"
	ItemGlassware LineItemKind = "glassware"
	ItemEquipment LineItemKind = "equipment"
)

type Quotation struct {
	BaseModel
	Kind          QuotationKind   `gorm:"type:varchar(16);not null;index" json:"kind"`
	LabID         string          `gorm:"type:varchar(64);index" json:"lab_id"`
	CreatedBy     string          `gorm:"type:varchar(120);not null;index" json:"created_by"`
	CreatedByRole common.Role     `gorm:"type:varchar(32);not null" json:"created_by_role"`
	VendorName    string          `gorm:"type:varchar(255)" json:"vendor_name"`
	Status        QuotationStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Version       int64           `gorm:"not null;default:1" json:"version"`

	Experiments []*Experiment       `gorm:"foreignKey:QuotationID" json:"experiments,omitempty"`
	LineItems   []*LineItem         `gorm:"foreignKey:QuotationID" json:"line_items"`
	Comments    []*Comment          `gorm:"foreignKey:QuotationID" json:"comments,omitempty"`
	History     []*QuotationHistory `gorm:"foreignKey:QuotationID" json:"-"`
}

func (*Quotation) TableName() string { return "quotation" }

// Chemicals returns the chemical line items in position order. Remark and
// allocation indexes refer to this slice.
func (q *Quotation) Chemicals() []*LineItem {
	out := make([]*LineItem, 0, len(q.LineItems))
	for _, item := range q.LineItems {
		if item.Kind == ItemChemical {
			out = append(out, item)
		}
	}
	return out
}

func (q *Quotation) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range q.Chemicals() {
		total = total.Add(item.Total())
	}
	return total
}

// Clone deep-copies the quotation so that a failed mutation can be discarded.
func (q *Quotation) Clone() *Quotation {
	c := *q
	c.Experiments = make([]*Experiment, len(q.Experiments))
	for i, e := range q.Experiments {
		ce := *e
		c.Experiments[i] = &ce
	}
	c.LineItems = make([]*LineItem, len(q.LineItems))
	for i, item := range q.LineItems {
		ci := *item
		c.LineItems[i] = &ci
	}
	c.Comments = make([]*Comment, len(q.Comments))
	for i, cm := range q.Comments {
		cc := *cm
		c.Comments[i] = &cc
	}
	c.History = nil
	return &c
}

type Experiment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	QuotationID  int64     `gorm:"not null;index" json:"quotation_id"`
	Position     int       `gorm:"not null" json:"position"`
	ExperimentID string    `gorm:"type:varchar(64);not null" json:"experiment_id"`
	CourseID     string    `gorm:"type:varchar(64);not null" json:"course_id"`
	BatchID      string    `gorm:"type:varchar(64);not null" json:"batch_id"`
	Date         time.Time `gorm:"type:date;not null" json:"date"`
}

func (*Experiment) TableName() string { return "experiment" }

type LineItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	QuotationID         int64           `gorm:"not null;index" json:"quotation_id"`
	ExperimentID        *int64          `gorm:"index" json:"experiment_id,omitempty"`
	Position            int             `gorm:"not null" json:"position"`
	Kind                LineItemKind    `gorm:"type:varchar(16);not null" json:"kind"`
	Name                string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity            float64         `gorm:"type:numeric(12,3);not null;check:quantity > 0" json:"quantity"`
	Unit                string          `gorm:"type:varchar(32)" json:"unit"`
	Remarks             string          `gorm:"type:text" json:"remarks"`
	Description         string          `gorm:"type:text" json:"description"`
	PricePerUnit        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price_per_unit"`
	AllocatedQuantity   float64         `gorm:"type:numeric(12,3);not null;default:0" json:"allocated_quantity"`
	SourceQuotationUUID *uuid.UUID      `gorm:"type:uuid" json:"source_quotation_uuid,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (*LineItem) TableName() string { return "line_item" }

func (l *LineItem) Total() decimal.Decimal {
	return l.PricePerUnit.Mul(decimal.NewFromFloat(l.Quantity))
}

// Remaining is the quantity not yet allocated.
func (l *LineItem) Remaining() float64 {
	if r := l.Quantity - l.AllocatedQuantity; r > 0 {
		return r
	}
	return 0
}

// NormalizedName is the key used to match chemicals across requests.
func NormalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Comment struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	QuotationID int64       `gorm:"not null;index" json:"quotation_id"`
	UserID      string      `gorm:"type:varchar(120);not null" json:"user_id"`
	Role        common.Role `gorm:"type:varchar(32);not null" json:"role"`
	Text        string      `gorm:"type:text;not null" json:"text"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (*Comment) TableName() string { return "quotation_comment" }

type QuotationHistory struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	QuotationID int64           `gorm:"not null;index" json:"quotation_id"`
	FromStatus  QuotationStatus `gorm:"type:varchar(32);not null" json:"from_status"`
	ToStatus    QuotationStatus `gorm:"type:varchar(32);not null" json:"to_status"`
	Role        common.Role     `gorm:"type:varchar(32);not null" json:"role"`
	UserID      string          `gorm:"type:varchar(120);not null" json:"user_id"`
	Payload     datatypes.JSON  `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (*QuotationHistory) TableName() string { return "quotation_history" }
