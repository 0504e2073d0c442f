package quotation

import (
	"context"
	"time"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/repo/model"
	"github.com/shopspring/decimal"
)

// ChemicalReq is one requested chemical of an experiment.
type ChemicalReq struct {
	ChemicalName string  `json:"chemical_name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Remarks      string  `json:"remarks"`
}

// ItemReq is a glassware or equipment row. Blank rows are dropped.
type ItemReq struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Remarks  string  `json:"remarks"`
}

type ExperimentReq struct {
	ExperimentID string         `json:"experiment_id"`
	CourseID     string         `json:"course_id"`
	BatchID      string         `json:"batch_id"`
	Date         string         `json:"date"` // yyyy-mm-dd
	Chemicals    []*ChemicalReq `json:"chemicals"`
	Glassware    []*ItemReq     `json:"glassware"`
	Equipment    []*ItemReq     `json:"equipment"`
}

// CreateRequestReq is a lab request. LabID defaults to the actor's lab.
type CreateRequestReq struct {
	LabID       string           `json:"lab_id"`
	Experiments []*ExperimentReq `json:"experiments"`
	Comments    string           `json:"comments"`
}

type DraftChemical struct {
	ChemicalName        string          `json:"chemical_name"`
	Quantity            float64         `json:"quantity"`
	Unit                string          `json:"unit"`
	PricePerUnit        decimal.Decimal `json:"price_per_unit"`
	Description         string          `json:"description"`
	SourceQuotationUUID *uuid.UUID      `json:"source_quotation_uuid"`
}

type CreateDraftReq struct {
	VendorName string           `json:"vendor_name" binding:"required"`
	Chemicals  []*DraftChemical `json:"chemicals"`
}

type AddChemicalsReq struct {
	QuotationUUID uuid.UUID        `json:"quotation_id" binding:"required"`
	Chemicals     []*DraftChemical `json:"chemicals" binding:"required"`
}

type SubmitDraftReq struct {
	QuotationUUID uuid.UUID `json:"quotation_id" binding:"required"`
}

type ChemicalUpdate struct {
	Index   int    `json:"index"`
	Remarks string `json:"remarks"`
}

type Allocation struct {
	Index    int     `json:"index"`
	Quantity float64 `json:"quantity"`
}

type TransitionReq struct {
	QuotationUUID   uuid.UUID             `json:"-"`
	Status          model.QuotationStatus `json:"status" binding:"required"`
	Comments        string                `json:"comments"`
	ChemicalUpdates []*ChemicalUpdate     `json:"chemical_updates"`
	Allocations     []*Allocation         `json:"allocations"`
}

type BatchRemarksReq struct {
	QuotationUUID uuid.UUID `json:"-"`
	Remark        string    `json:"remark" binding:"required"`
}

type UpdateRemarksReq struct {
	QuotationUUID uuid.UUID `json:"-"`
	Index         int       `json:"index"`
	Remarks       string    `json:"remarks"`
}

type AddCommentReq struct {
	QuotationUUID uuid.UUID `json:"-"`
	Text          string    `json:"text"`
}

type ListCommentsReq struct {
	QuotationUUID uuid.UUID `form:"-"`
	Dedup         bool      `form:"dedup"`
}

type GetReq struct {
	QuotationUUID uuid.UUID
}

type Scope string

const (
	ScopeLab     Scope = "lab"
	ScopeCentral Scope = "central"
	ScopeAdmin   Scope = "admin"
)

type ListReq struct {
	common.PageReq
	Scope  Scope                  `form:"-"`
	Status *model.QuotationStatus `form:"status"`
}

type LineItemResp struct {
	Index               int                `json:"index"`
	Kind                model.LineItemKind `json:"kind"`
	Name                string             `json:"name"`
	Quantity            float64            `json:"quantity"`
	Unit                string             `json:"unit"`
	Remarks             string             `json:"remarks"`
	Description         string             `json:"description,omitempty"`
	PricePerUnit        decimal.Decimal    `json:"price_per_unit"`
	TotalPrice          decimal.Decimal    `json:"total_price"`
	AllocatedQuantity   float64            `json:"allocated_quantity"`
	SourceQuotationUUID *uuid.UUID         `json:"source_quotation_uuid,omitempty"`
}

type ExperimentResp struct {
	ExperimentID string          `json:"experiment_id"`
	CourseID     string          `json:"course_id"`
	BatchID      string          `json:"batch_id"`
	Date         string          `json:"date"`
	Items        []*LineItemResp `json:"items"`
}

type CommentResp struct {
	Role      common.Role `json:"role"`
	UserID    string      `json:"user_id"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

type QuotationResp struct {
	UUID          uuid.UUID             `json:"id"`
	Kind          model.QuotationKind   `json:"kind"`
	LabID         string                `json:"lab_id,omitempty"`
	CreatedBy     string                `json:"created_by"`
	CreatedByRole common.Role           `json:"created_by_role"`
	VendorName    string                `json:"vendor_name,omitempty"`
	Status        model.QuotationStatus `json:"status"`
	Terminal      bool                  `json:"terminal"`
	Version       int64                 `json:"version"`
	TotalPrice    decimal.Decimal       `json:"total_price"`
	Chemicals     []*LineItemResp       `json:"chemicals"`
	Experiments   []*ExperimentResp     `json:"experiments,omitempty"`
	Comments      []*CommentResp        `json:"comments"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type Service interface {
	CreateRequest(ctx context.Context, actor *common.Actor, req *CreateRequestReq) (*QuotationResp, error)
	CreateDraft(ctx context.Context, actor *common.Actor, req *CreateDraftReq) (*QuotationResp, error)
	AddChemicalsToDraft(ctx context.Context, actor *common.Actor, req *AddChemicalsReq) (*QuotationResp, error)
	SubmitDraft(ctx context.Context, actor *common.Actor, req *SubmitDraftReq) (*QuotationResp, error)
	Transition(ctx context.Context, actor *common.Actor, req *TransitionReq) (*QuotationResp, error)
	BatchRemarks(ctx context.Context, actor *common.Actor, req *BatchRemarksReq) (*QuotationResp, error)
	UpdateRemarks(ctx context.Context, actor *common.Actor, req *UpdateRemarksReq) (*QuotationResp, error)
	AddComment(ctx context.Context, actor *common.Actor, req *AddCommentReq) (*CommentResp, error)
	ListComments(ctx context.Context, actor *common.Actor, req *ListCommentsReq) ([]*CommentResp, error)
	List(ctx context.Context, actor *common.Actor, req *ListReq) (*common.PageResp[[]*QuotationResp], error)
	Get(ctx context.Context, actor *common.Actor, req *GetReq) (*QuotationResp, error)
}
